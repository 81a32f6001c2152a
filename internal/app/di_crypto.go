package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
	cryptoService "github.com/allisson/onetime/internal/crypto/service"
)

// Keystore returns the runtime keystore holding the global secret.
func (c *Container) Keystore() (*cryptoDomain.Keystore, error) {
	var err error
	c.keystoreInit.Do(func() {
		c.keystore, err = c.initKeystore()
		if err != nil {
			c.initErrors["keystore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keystore"]; exists {
		return nil, storedErr
	}
	return c.keystore, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// SecretCipher returns the passphrase-derived secret cipher.
func (c *Container) SecretCipher() (cryptoService.SecretCipher, error) {
	var err error
	c.secretCipherInit.Do(func() {
		c.secretCipher, err = c.initSecretCipher()
		if err != nil {
			c.initErrors["secretCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretCipher"]; exists {
		return nil, storedErr
	}
	return c.secretCipher, nil
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// initKeystore loads the global secret and wraps it in a runtime keystore.
//
// Resolution order:
//  1. GLOBAL_SECRET_ENCRYPTED: base64 KMS ciphertext, unwrapped via KMS_KEY_URI.
//  2. GLOBAL_SECRET: used verbatim when non-empty.
//  3. Otherwise the keystore starts with a nil global secret.
func (c *Container) initKeystore() (*cryptoDomain.Keystore, error) {
	logger := c.Logger()

	if c.config.GlobalSecretEncrypted != "" {
		value, err := c.unwrapGlobalSecret(context.Background())
		if err != nil {
			return nil, err
		}
		logger.Info("global secret loaded from KMS")
		return cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret(value)), nil
	}

	if c.config.GlobalSecretSet && c.config.GlobalSecret == "" {
		logger.Warn("GLOBAL_SECRET is set but empty; running without a global secret")
	}

	if c.config.GlobalSecret != "" {
		logger.Info("global secret loaded from environment")
		return cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret(c.config.GlobalSecret)), nil
	}

	logger.Warn("no global secret configured; secrets are protected by passphrase derivation only",
		slog.Bool("allow_nil_global_secret", c.config.AllowNilGlobalSecret))
	return cryptoDomain.NewKeystore(cryptoDomain.NilGlobalSecret()), nil
}

// unwrapGlobalSecret decrypts the KMS-wrapped global secret.
func (c *Container) unwrapGlobalSecret(ctx context.Context) (string, error) {
	if c.config.KMSKeyURI == "" {
		return "", fmt.Errorf("GLOBAL_SECRET_ENCRYPTED is set but KMS_KEY_URI is empty")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(c.config.GlobalSecretEncrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode GLOBAL_SECRET_ENCRYPTED: %w", err)
	}

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			c.Logger().Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt global secret with KMS: %w", err)
	}

	return string(plaintext), nil
}

// initSecretCipher creates the secret cipher for the configured algorithm.
func (c *Container) initSecretCipher() (cryptoService.SecretCipher, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption algorithm %q: %w", c.config.EncryptionAlgorithm, err)
	}

	return cryptoService.NewSecretCipher(c.AEADManager(), alg), nil
}
