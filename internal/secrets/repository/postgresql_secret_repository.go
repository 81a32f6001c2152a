// Package repository implements data persistence for one-time secrets.
// Repositories support both PostgreSQL and MySQL. The reveal and burn claims
// are conditional updates so that concurrent consumers resolve to exactly one
// winner, and ciphertext is cleared as part of the claim.
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

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

// Create inserts a new secret.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (id, identifier, ciphertext, value_encryption, algorithm,
			  passphrase_protected, metadata_token_hash, expires_at, created_at, revealed_at, burned_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
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
func (p *PostgreSQLSecretRepository) GetByIdentifier(
	ctx context.Context,
	identifier string,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, identifier, ciphertext, value_encryption, algorithm,
			  passphrase_protected, metadata_token_hash, expires_at, created_at, revealed_at, burned_at
			  FROM secrets
			  WHERE identifier = $1
			  LIMIT 1`

	var secret secretsDomain.Secret
	err := querier.QueryRowContext(ctx, query, identifier).Scan(
		&secret.ID,
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

	return &secret, nil
}

// ClaimReveal marks a secret as revealed and clears its ciphertext. The claim
// only succeeds for a secret that is neither revealed nor burned; exactly one
// of any set of concurrent claimers wins.
func (p *PostgreSQLSecretRepository) ClaimReveal(
	ctx context.Context,
	secretID uuid.UUID,
	revealedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets
			  SET revealed_at = $1, ciphertext = NULL
			  WHERE id = $2 AND revealed_at IS NULL AND burned_at IS NULL`

	result, err := querier.ExecContext(ctx, query, revealedAt, secretID)
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

// Burn marks a secret as burned and clears its ciphertext. Like ClaimReveal,
// the update is conditional; losing a race with a reveal surfaces as gone.
func (p *PostgreSQLSecretRepository) Burn(
	ctx context.Context,
	secretID uuid.UUID,
	burnedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets
			  SET burned_at = $1, ciphertext = NULL
			  WHERE id = $2 AND revealed_at IS NULL AND burned_at IS NULL`

	result, err := querier.ExecContext(ctx, query, burnedAt, secretID)
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
func (p *PostgreSQLSecretRepository) DeleteExpired(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secrets WHERE expires_at < $1`

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

// CountExpired counts secrets whose TTL passed before the given time, for
// dry-run cleanup.
func (p *PostgreSQLSecretRepository) CountExpired(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM secrets WHERE expires_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired secrets")
	}
	return count, nil
}
