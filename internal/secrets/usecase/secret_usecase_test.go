package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
	cryptoService "github.com/allisson/onetime/internal/crypto/service"
	apperrors "github.com/allisson/onetime/internal/errors"
	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
	secretsService "github.com/allisson/onetime/internal/secrets/service"
)

// fakeTxManager runs the function directly without a database transaction.
type fakeTxManager struct{}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memorySecretRepository is an in-memory SecretRepository with the same
// conditional-update semantics as the SQL implementations.
type memorySecretRepository struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]*secretsDomain.Secret
}

func newMemorySecretRepository() *memorySecretRepository {
	return &memorySecretRepository{secrets: make(map[uuid.UUID]*secretsDomain.Secret)}
}

func (r *memorySecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *secret
	r.secrets[secret.ID] = &clone
	return nil
}

func (r *memorySecretRepository) GetByIdentifier(
	ctx context.Context,
	identifier string,
) (*secretsDomain.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, secret := range r.secrets {
		if secret.Identifier == identifier {
			clone := *secret
			return &clone, nil
		}
	}
	return nil, secretsDomain.ErrSecretNotFound
}

func (r *memorySecretRepository) ClaimReveal(ctx context.Context, secretID uuid.UUID, revealedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	secret, ok := r.secrets[secretID]
	if !ok || secret.RevealedAt != nil || secret.BurnedAt != nil {
		return secretsDomain.ErrSecretAlreadyRevealed
	}
	secret.RevealedAt = &revealedAt
	secret.Ciphertext = nil
	return nil
}

func (r *memorySecretRepository) Burn(ctx context.Context, secretID uuid.UUID, burnedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	secret, ok := r.secrets[secretID]
	if !ok || secret.RevealedAt != nil || secret.BurnedAt != nil {
		return secretsDomain.ErrSecretAlreadyRevealed
	}
	secret.BurnedAt = &burnedAt
	secret.Ciphertext = nil
	return nil
}

func (r *memorySecretRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, secret := range r.secrets {
		if secret.ExpiresAt.Before(before) {
			delete(r.secrets, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memorySecretRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, secret := range r.secrets {
		if secret.ExpiresAt.Before(before) {
			count++
		}
	}
	return count, nil
}

// expire backdates a stored secret's expiry so tests can exercise the
// expired state without sleeping.
func (r *memorySecretRepository) expire(secretID uuid.UUID, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets[secretID].ExpiresAt = at
}

func defaultTestConfig() Config {
	return Config{
		DefaultTTL:           7 * 24 * time.Hour,
		MaxTTL:               30 * 24 * time.Hour,
		MaxSize:              65536,
		AllowNilGlobalSecret: false,
	}
}

func newTestUseCase(
	t *testing.T,
	keystore *cryptoDomain.Keystore,
	cfg Config,
) (SecretUseCase, *memorySecretRepository) {
	t.Helper()

	repo := newMemorySecretRepository()
	cipher := cryptoService.NewSecretCipher(cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
	useCase := NewSecretUseCase(
		&fakeTxManager{},
		repo,
		cipher,
		keystore,
		secretsService.NewIdentifierGenerator(),
		secretsService.NewMetadataTokenService(),
		cfg,
	)
	return useCase, repo
}

// TestSecretUseCase_CreateAndReveal tests the full create/reveal round trip.
func TestSecretUseCase_CreateAndReveal(t *testing.T) {
	ctx := context.Background()
	keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("global-secret-key"))
	useCase, _ := newTestUseCase(t, keystore, defaultTestConfig())

	value := []byte("database password: hunter2")
	created, err := useCase.Create(ctx, CreateSecretInput{Value: value, Passphrase: "open sesame"})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Len(t, created.Secret.Identifier, secretsService.IdentifierLength)
	assert.NotEmpty(t, created.MetadataToken)
	assert.NotEqual(t, created.MetadataToken, created.Secret.MetadataTokenHash)
	assert.True(t, created.Secret.PassphraseProtected)
	assert.Equal(t, cryptoDomain.SchemeV2, created.Secret.ValueEncryption)
	assert.Equal(t, cryptoDomain.AESGCM, created.Secret.Algorithm)
	assert.NotContains(t, string(created.Secret.Ciphertext), "hunter2")

	revealed, err := useCase.Reveal(ctx, created.Secret.Identifier, "open sesame")
	require.NoError(t, err)
	assert.Equal(t, value, revealed.Plaintext)
	assert.NotNil(t, revealed.RevealedAt)
	assert.Nil(t, revealed.Ciphertext)
}

// TestSecretUseCase_Create_Validation tests input validation on creation.
func TestSecretUseCase_Create_Validation(t *testing.T) {
	ctx := context.Background()
	keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("global-secret-key"))

	cfg := defaultTestConfig()
	cfg.MaxSize = 16
	useCase, _ := newTestUseCase(t, keystore, cfg)

	t.Run("EmptyValue", func(t *testing.T) {
		_, err := useCase.Create(ctx, CreateSecretInput{Value: nil})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("ValueTooLarge", func(t *testing.T) {
		_, err := useCase.Create(ctx, CreateSecretInput{Value: make([]byte, 17)})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("TTLAboveMax", func(t *testing.T) {
		_, err := useCase.Create(ctx, CreateSecretInput{
			Value: []byte("ok"),
			TTL:   cfg.MaxTTL + time.Second,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("ZeroTTLUsesDefault", func(t *testing.T) {
		before := time.Now().UTC()
		created, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("ok")})
		require.NoError(t, err)
		assert.WithinDuration(t, before.Add(cfg.DefaultTTL), created.Secret.ExpiresAt, 5*time.Second)
	})
}

// TestSecretUseCase_Reveal_WrongPassphrase tests that a failed decryption
// leaves the secret intact and revealable.
func TestSecretUseCase_Reveal_WrongPassphrase(t *testing.T) {
	ctx := context.Background()
	keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("global-secret-key"))
	useCase, _ := newTestUseCase(t, keystore, defaultTestConfig())

	created, err := useCase.Create(ctx, CreateSecretInput{
		Value:      []byte("payload"),
		Passphrase: "correct-passphrase",
	})
	require.NoError(t, err)

	_, err = useCase.Reveal(ctx, created.Secret.Identifier, "wrong-passphrase")
	require.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)

	// The wrong guess must not have consumed the secret.
	revealed, err := useCase.Reveal(ctx, created.Secret.Identifier, "correct-passphrase")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), revealed.Plaintext)
}

// TestSecretUseCase_Reveal_Lifecycle tests the non-pending state errors.
func TestSecretUseCase_Reveal_Lifecycle(t *testing.T) {
	ctx := context.Background()
	keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("global-secret-key"))
	useCase, repo := newTestUseCase(t, keystore, defaultTestConfig())

	t.Run("NotFound", func(t *testing.T) {
		_, err := useCase.Reveal(ctx, "does-not-exist", "")
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
	})

	t.Run("AlreadyRevealed", func(t *testing.T) {
		created, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("once")})
		require.NoError(t, err)

		_, err = useCase.Reveal(ctx, created.Secret.Identifier, "")
		require.NoError(t, err)

		_, err = useCase.Reveal(ctx, created.Secret.Identifier, "")
		assert.ErrorIs(t, err, secretsDomain.ErrSecretAlreadyRevealed)
		assert.ErrorIs(t, err, apperrors.ErrGone)
	})

	t.Run("Expired", func(t *testing.T) {
		created, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("late")})
		require.NoError(t, err)
		repo.expire(created.Secret.ID, time.Now().UTC().Add(-time.Minute))

		_, err = useCase.Reveal(ctx, created.Secret.Identifier, "")
		assert.ErrorIs(t, err, secretsDomain.ErrSecretExpired)
	})

	t.Run("Burned", func(t *testing.T) {
		created, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("gone")})
		require.NoError(t, err)

		_, err = useCase.Burn(ctx, created.Secret.Identifier, created.MetadataToken)
		require.NoError(t, err)

		_, err = useCase.Reveal(ctx, created.Secret.Identifier, "")
		assert.ErrorIs(t, err, secretsDomain.ErrSecretBurned)
	})
}

// TestSecretUseCase_Reveal_GlobalSecretRotation tests fallback decryption for
// secrets created before a global secret was configured.
func TestSecretUseCase_Reveal_GlobalSecretRotation(t *testing.T) {
	ctx := context.Background()

	t.Run("FallbackEnabled_RecoversPreRotationSecret", func(t *testing.T) {
		keystore := cryptoDomain.NewKeystore(cryptoDomain.NilGlobalSecret())
		cfg := defaultTestConfig()
		cfg.AllowNilGlobalSecret = true
		useCase, _ := newTestUseCase(t, keystore, cfg)

		created, err := useCase.Create(ctx, CreateSecretInput{
			Value:      []byte("pre-rotation"),
			Passphrase: "pass",
		})
		require.NoError(t, err)

		keystore.SetGlobalSecret(cryptoDomain.NewGlobalSecret("brand-new-global"))

		revealed, err := useCase.Reveal(ctx, created.Secret.Identifier, "pass")
		require.NoError(t, err)
		assert.Equal(t, []byte("pre-rotation"), revealed.Plaintext)
	})

	t.Run("FallbackDisabled_PreRotationSecretUnreadable", func(t *testing.T) {
		keystore := cryptoDomain.NewKeystore(cryptoDomain.NilGlobalSecret())
		useCase, _ := newTestUseCase(t, keystore, defaultTestConfig())

		created, err := useCase.Create(ctx, CreateSecretInput{
			Value:      []byte("pre-rotation"),
			Passphrase: "pass",
		})
		require.NoError(t, err)

		keystore.SetGlobalSecret(cryptoDomain.NewGlobalSecret("brand-new-global"))

		_, err = useCase.Reveal(ctx, created.Secret.Identifier, "pass")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

// TestSecretUseCase_Burn tests burn authorization and lifecycle handling.
func TestSecretUseCase_Burn(t *testing.T) {
	ctx := context.Background()
	keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("global-secret-key"))
	useCase, _ := newTestUseCase(t, keystore, defaultTestConfig())

	t.Run("Success", func(t *testing.T) {
		created, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("kill me")})
		require.NoError(t, err)

		burned, err := useCase.Burn(ctx, created.Secret.Identifier, created.MetadataToken)
		require.NoError(t, err)
		assert.NotNil(t, burned.BurnedAt)
		assert.Nil(t, burned.Ciphertext)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		created, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("keep me")})
		require.NoError(t, err)

		_, err = useCase.Burn(ctx, created.Secret.Identifier, "not-the-token")
		assert.ErrorIs(t, err, secretsDomain.ErrInvalidMetadataToken)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		// The failed burn must not have consumed the secret.
		revealed, err := useCase.Reveal(ctx, created.Secret.Identifier, "")
		require.NoError(t, err)
		assert.Equal(t, []byte("keep me"), revealed.Plaintext)
	})

	t.Run("AlreadyRevealed", func(t *testing.T) {
		created, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("read first")})
		require.NoError(t, err)

		_, err = useCase.Reveal(ctx, created.Secret.Identifier, "")
		require.NoError(t, err)

		_, err = useCase.Burn(ctx, created.Secret.Identifier, created.MetadataToken)
		assert.ErrorIs(t, err, secretsDomain.ErrSecretAlreadyRevealed)
	})
}

// TestSecretUseCase_Metadata tests metadata lookup.
func TestSecretUseCase_Metadata(t *testing.T) {
	ctx := context.Background()
	keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("global-secret-key"))
	useCase, _ := newTestUseCase(t, keystore, defaultTestConfig())

	created, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("peek")})
	require.NoError(t, err)

	secret, err := useCase.Metadata(ctx, created.Secret.Identifier)
	require.NoError(t, err)
	assert.Equal(t, secretsDomain.StatePending, secret.StateAt(time.Now().UTC()))
	assert.Nil(t, secret.Plaintext)

	_, err = useCase.Metadata(ctx, "missing")
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

// TestSecretUseCase_CleanupExpired tests expired-secret cleanup and dry run.
func TestSecretUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()
	keystore := cryptoDomain.NewKeystore(cryptoDomain.NewGlobalSecret("global-secret-key"))
	useCase, repo := newTestUseCase(t, keystore, defaultTestConfig())

	fresh, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("fresh")})
	require.NoError(t, err)

	stale, err := useCase.Create(ctx, CreateSecretInput{Value: []byte("stale")})
	require.NoError(t, err)
	repo.expire(stale.Secret.ID, time.Now().UTC().Add(-48*time.Hour))

	t.Run("NegativeDays", func(t *testing.T) {
		_, err := useCase.CleanupExpired(ctx, -1, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("DryRunCountsOnly", func(t *testing.T) {
		count, err := useCase.CleanupExpired(ctx, 1, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		_, err = useCase.Metadata(ctx, stale.Secret.Identifier)
		assert.NoError(t, err)
	})

	t.Run("DeletesExpired", func(t *testing.T) {
		deleted, err := useCase.CleanupExpired(ctx, 1, false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		_, err = useCase.Metadata(ctx, stale.Secret.Identifier)
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

		_, err = useCase.Metadata(ctx, fresh.Secret.Identifier)
		assert.NoError(t, err)
	})
}
