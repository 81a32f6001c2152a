package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/onetime/internal/database"
	apperrors "github.com/allisson/onetime/internal/errors"
	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
)

// MySQLSecretRepository implements Secret persistence for MySQL.
type MySQLSecretRepository struct {
	db *sql.DB
}

// NewMySQLSecretRepository creates a new MySQL Secret repository.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}

// Create inserts a new secret.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO secrets (id, identifier, ciphertext, value_encryption, algorithm,
			  passphrase_protected, metadata_token_hash, expires_at, created_at, revealed_at, burned_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID.String(),
		secret.Identifier,
		secret.Ciphertext,
		secret.ValueEncryption,
		secret.Algorithm,
		secret.PassphraseProtected,
		secret.MetadataTokenHash,
		secret.ExpiresAt,
		secret.CreatedAt,
		secret.RevealedAt,
		secret.BurnedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// GetByIdentifier retrieves a secret by its public share identifier.
func (m *MySQLSecretRepository) GetByIdentifier(
	ctx context.Context,
	identifier string,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, identifier, ciphertext, value_encryption, algorithm,
			  passphrase_protected, metadata_token_hash, expires_at, created_at, revealed_at, burned_at
			  FROM secrets
			  WHERE identifier = ?
			  LIMIT 1`

	var secret secretsDomain.Secret
	var id string
	err := querier.QueryRowContext(ctx, query, identifier).Scan(
		&id,
		&secret.Identifier,
		&secret.Ciphertext,
		&secret.ValueEncryption,
		&secret.Algorithm,
		&secret.PassphraseProtected,
		&secret.MetadataTokenHash,
		&secret.ExpiresAt,
		&secret.CreatedAt,
		&secret.RevealedAt,
		&secret.BurnedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret by identifier")
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse secret id")
	}
	secret.ID = parsedID

	return &secret, nil
}

// ClaimReveal marks a secret as revealed and clears its ciphertext.
func (m *MySQLSecretRepository) ClaimReveal(
	ctx context.Context,
	secretID uuid.UUID,
	revealedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE secrets
			  SET revealed_at = ?, ciphertext = NULL
			  WHERE id = ? AND revealed_at IS NULL AND burned_at IS NULL`

	result, err := querier.ExecContext(ctx, query, revealedAt, secretID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to claim secret reveal")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read claim result")
	}
	if rows == 0 {
		return secretsDomain.ErrSecretAlreadyRevealed
	}
	return nil
}

// Burn marks a secret as burned and clears its ciphertext.
func (m *MySQLSecretRepository) Burn(
	ctx context.Context,
	secretID uuid.UUID,
	burnedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE secrets
			  SET burned_at = ?, ciphertext = NULL
			  WHERE id = ? AND revealed_at IS NULL AND burned_at IS NULL`

	result, err := querier.ExecContext(ctx, query, burnedAt, secretID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to burn secret")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read burn result")
	}
	if rows == 0 {
		return secretsDomain.ErrSecretAlreadyRevealed
	}
	return nil
}

// DeleteExpired hard-deletes secrets whose TTL passed before the given time.
func (m *MySQLSecretRepository) DeleteExpired(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM secrets WHERE expires_at < ?`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired secrets")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read delete result")
	}
	return rows, nil
}

// CountExpired counts secrets whose TTL passed before the given time.
func (m *MySQLSecretRepository) CountExpired(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM secrets WHERE expires_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired secrets")
	}
	return count, nil
}
