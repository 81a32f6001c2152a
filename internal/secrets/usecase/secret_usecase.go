package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
	cryptoService "github.com/allisson/onetime/internal/crypto/service"
	"github.com/allisson/onetime/internal/database"
	apperrors "github.com/allisson/onetime/internal/errors"
	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
	secretsService "github.com/allisson/onetime/internal/secrets/service"
)

// Config holds the tunable limits applied when creating secrets.
type Config struct {
	DefaultTTL time.Duration
	MaxTTL     time.Duration
	MaxSize    int
	// AllowNilGlobalSecret enables the bounded fallback decryption attempt
	// with a nil global secret after an integrity failure.
	AllowNilGlobalSecret bool
}

// secretUseCase implements the SecretUseCase interface for one-time secrets.
type secretUseCase struct {
	txManager    database.TxManager
	secretRepo   SecretRepository
	cipher       cryptoService.SecretCipher
	keystore     *cryptoDomain.Keystore
	idGenerator  secretsService.IdentifierGenerator
	tokenService secretsService.MetadataTokenService
	cfg          Config
}

// NewSecretUseCase creates a SecretUseCase wired to the given collaborators.
func NewSecretUseCase(
	txManager database.TxManager,
	secretRepo SecretRepository,
	cipher cryptoService.SecretCipher,
	keystore *cryptoDomain.Keystore,
	idGenerator secretsService.IdentifierGenerator,
	tokenService secretsService.MetadataTokenService,
	cfg Config,
) SecretUseCase {
	return &secretUseCase{
		txManager:    txManager,
		secretRepo:   secretRepo,
		cipher:       cipher,
		keystore:     keystore,
		idGenerator:  idGenerator,
		tokenService: tokenService,
		cfg:          cfg,
	}
}

// Create encrypts and stores a new one-time secret.
func (s *secretUseCase) Create(ctx context.Context, input CreateSecretInput) (*CreatedSecret, error) {
	if len(input.Value) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "secret value must not be empty")
	}
	if len(input.Value) > s.cfg.MaxSize {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("secret value exceeds maximum size of %d bytes", s.cfg.MaxSize),
		)
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = s.cfg.DefaultTTL
	}
	if ttl < 0 || ttl > s.cfg.MaxTTL {
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("ttl must be between 1 second and %d seconds", int(s.cfg.MaxTTL.Seconds())),
		)
	}

	identifier, err := s.idGenerator.Generate(secretsService.IdentifierLength)
	if err != nil {
		return nil, apperrors.Wrap(err, "generate identifier")
	}

	token, tokenHash, err := s.tokenService.GenerateToken()
	if err != nil {
		return nil, apperrors.Wrap(err, "generate metadata token")
	}

	// Read the global secret once so a concurrent rotation cannot split the
	// key derivation across two values.
	global := s.keystore.GlobalSecret()

	ciphertext, version, err := s.cipher.Encrypt(input.Value, identifier, input.Passphrase, global)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	secret := &secretsDomain.Secret{
		ID:                  uuid.Must(uuid.NewV7()),
		Identifier:          identifier,
		Ciphertext:          ciphertext,
		ValueEncryption:     version,
		Algorithm:           s.cipher.Algorithm(),
		PassphraseProtected: input.Passphrase != "",
		MetadataTokenHash:   tokenHash,
		ExpiresAt:           now.Add(ttl),
		CreatedAt:           now,
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.secretRepo.Create(txCtx, secret)
	})
	if err != nil {
		return nil, err
	}

	return &CreatedSecret{Secret: secret, MetadataToken: token}, nil
}

// Reveal decrypts and consumes a secret. Decryption happens before the
// reveal is claimed, so a wrong passphrase never destroys the secret.
func (s *secretUseCase) Reveal(ctx context.Context, identifier, passphrase string) (*secretsDomain.Secret, error) {
	secret, err := s.secretRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := checkRevealable(secret, now); err != nil {
		return nil, err
	}

	global := s.keystore.GlobalSecret()

	plaintext, err := s.cipher.Decrypt(
		secret.Ciphertext,
		secret.ValueEncryption,
		secret.Algorithm,
		secret.Identifier,
		passphrase,
		global,
		s.cfg.AllowNilGlobalSecret,
	)
	if err != nil {
		return nil, err
	}

	// Claim after successful decryption; losing the race means another
	// caller revealed it first and this plaintext must be discarded.
	if err := s.secretRepo.ClaimReveal(ctx, secret.ID, now); err != nil {
		cryptoDomain.Zero(plaintext)
		return nil, err
	}

	secret.RevealedAt = &now
	secret.Ciphertext = nil
	secret.Plaintext = plaintext
	return secret, nil
}

// Burn destroys an unread secret after verifying the creator's metadata token.
func (s *secretUseCase) Burn(ctx context.Context, identifier, metadataToken string) (*secretsDomain.Secret, error) {
	secret, err := s.secretRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := checkRevealable(secret, now); err != nil {
		return nil, err
	}

	if !s.tokenService.CompareToken(metadataToken, secret.MetadataTokenHash) {
		return nil, secretsDomain.ErrInvalidMetadataToken
	}

	if err := s.secretRepo.Burn(ctx, secret.ID, now); err != nil {
		return nil, err
	}

	secret.BurnedAt = &now
	secret.Ciphertext = nil
	return secret, nil
}

// Metadata returns a secret's lifecycle state without touching its ciphertext.
func (s *secretUseCase) Metadata(ctx context.Context, identifier string) (*secretsDomain.Secret, error) {
	return s.secretRepo.GetByIdentifier(ctx, identifier)
}

// CleanupExpired removes secrets that expired more than days days ago.
func (s *secretUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must not be negative")
	}

	before := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	if dryRun {
		return s.secretRepo.CountExpired(ctx, before)
	}
	return s.secretRepo.DeleteExpired(ctx, before)
}

// checkRevealable maps a non-pending lifecycle state to its domain error.
func checkRevealable(secret *secretsDomain.Secret, now time.Time) error {
	switch secret.StateAt(now) {
	case secretsDomain.StateBurned:
		return secretsDomain.ErrSecretBurned
	case secretsDomain.StateRevealed:
		return secretsDomain.ErrSecretAlreadyRevealed
	case secretsDomain.StateExpired:
		return secretsDomain.ErrSecretExpired
	}
	return nil
}
