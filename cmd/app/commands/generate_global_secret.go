package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
	cryptoService "github.com/allisson/onetime/internal/crypto/service"
)

// RunGenerateGlobalSecret generates a cryptographically secure 32-byte global
// secret and prints it in .env format.
//
// Without a KMS key URI the plain value is printed as GLOBAL_SECRET. With
// --kms-key-uri the value is wrapped first and printed as
// GLOBAL_SECRET_ENCRYPTED, so the plaintext never needs to live in the
// environment.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>";
// production deployments should use a cloud provider
// (gcpkms://, awskms://, azurekeyvault://, hashivault://).
func RunGenerateGlobalSecret(ctx context.Context, w io.Writer, kmsKeyURI string) error {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate global secret: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	value := base64.StdEncoding.EncodeToString(raw)

	if kmsKeyURI == "" {
		fmt.Fprintln(w, "# Global Secret Configuration")
		fmt.Fprintln(w, "# Copy this environment variable to your .env file or secrets manager")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "GLOBAL_SECRET=%q\n", value)
		return nil
	}

	kmsService := cryptoService.NewKMSService()
	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			fmt.Fprintf(w, "# Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to encrypt global secret with KMS: %w", err)
	}

	fmt.Fprintln(w, "# Global Secret Configuration (KMS Mode)")
	fmt.Fprintln(w, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "KMS_KEY_URI=%q\n", kmsKeyURI)
	fmt.Fprintf(w, "GLOBAL_SECRET_ENCRYPTED=%q\n", base64.StdEncoding.EncodeToString(ciphertext))
	return nil
}
