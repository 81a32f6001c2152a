// Package mocks provides mock implementations for testing callers of the
// secrets use case.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
	secretsUseCase "github.com/allisson/onetime/internal/secrets/usecase"
)

// MockSecretUseCase is a mock implementation of SecretUseCase for testing.
type MockSecretUseCase struct {
	mock.Mock
}

// Create mocks the Create method of SecretUseCase.
func (m *MockSecretUseCase) Create(
	ctx context.Context,
	input secretsUseCase.CreateSecretInput,
) (*secretsUseCase.CreatedSecret, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsUseCase.CreatedSecret), args.Error(1)
}

// Reveal mocks the Reveal method of SecretUseCase.
func (m *MockSecretUseCase) Reveal(ctx context.Context, identifier, passphrase string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, identifier, passphrase)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// Burn mocks the Burn method of SecretUseCase.
func (m *MockSecretUseCase) Burn(ctx context.Context, identifier, metadataToken string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, identifier, metadataToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// Metadata mocks the Metadata method of SecretUseCase.
func (m *MockSecretUseCase) Metadata(ctx context.Context, identifier string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// CleanupExpired mocks the CleanupExpired method of SecretUseCase.
func (m *MockSecretUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
