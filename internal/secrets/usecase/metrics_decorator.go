package usecase

import (
	"context"
	"time"

	"github.com/allisson/onetime/internal/metrics"
	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
)

const metricsDomain = "secrets"

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	s.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Create records metrics for secret creation.
func (s *secretUseCaseWithMetrics) Create(ctx context.Context, input CreateSecretInput) (*CreatedSecret, error) {
	start := time.Now()
	created, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return created, err
}

// Reveal records metrics for reveal operations.
func (s *secretUseCaseWithMetrics) Reveal(
	ctx context.Context,
	identifier, passphrase string,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Reveal(ctx, identifier, passphrase)
	s.record(ctx, "secret_reveal", start, err)
	return secret, err
}

// Burn records metrics for burn operations.
func (s *secretUseCaseWithMetrics) Burn(
	ctx context.Context,
	identifier, metadataToken string,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Burn(ctx, identifier, metadataToken)
	s.record(ctx, "secret_burn", start, err)
	return secret, err
}

// Metadata records metrics for metadata lookups.
func (s *secretUseCaseWithMetrics) Metadata(ctx context.Context, identifier string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Metadata(ctx, identifier)
	s.record(ctx, "secret_metadata", start, err)
	return secret, err
}

// CleanupExpired records metrics for expired-secret cleanup.
func (s *secretUseCaseWithMetrics) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	deleted, err := s.next.CleanupExpired(ctx, days, dryRun)
	s.record(ctx, "secret_cleanup", start, err)
	return deleted, err
}
