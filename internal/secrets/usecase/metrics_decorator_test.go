package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/onetime/internal/metrics"
	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// mockSecretUseCase is a mock implementation of SecretUseCase for testing.
type mockSecretUseCase struct {
	mock.Mock
}

func (m *mockSecretUseCase) Create(ctx context.Context, input CreateSecretInput) (*CreatedSecret, error) {
	args := m.Called(ctx, input)
	if created, ok := args.Get(0).(*CreatedSecret); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSecretUseCase) Reveal(ctx context.Context, identifier, passphrase string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, identifier, passphrase)
	if secret, ok := args.Get(0).(*secretsDomain.Secret); ok {
		return secret, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSecretUseCase) Burn(ctx context.Context, identifier, metadataToken string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, identifier, metadataToken)
	if secret, ok := args.Get(0).(*secretsDomain.Secret); ok {
		return secret, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSecretUseCase) Metadata(ctx context.Context, identifier string) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, identifier)
	if secret, ok := args.Get(0).(*secretsDomain.Secret); ok {
		return secret, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSecretUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

var _ SecretUseCase = (*mockSecretUseCase)(nil)

// TestNewSecretUseCaseWithMetrics tests the metrics decorator constructor.
func TestNewSecretUseCaseWithMetrics(t *testing.T) {
	decorator := NewSecretUseCaseWithMetrics(&mockSecretUseCase{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*SecretUseCase)(nil), decorator)
}

// TestMetricsDecorator_Reveal tests success and error status recording.
func TestMetricsDecorator_Reveal(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		mockUseCase := &mockSecretUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		secret := &secretsDomain.Secret{Identifier: "abc", Plaintext: []byte("value")}
		mockUseCase.On("Reveal", ctx, "abc", "pass").Return(secret, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "secrets", "secret_reveal", "success").Once()
		mockMetrics.On(
			"RecordDuration", ctx, "secrets", "secret_reveal", mock.AnythingOfType("time.Duration"), "success",
		).Once()

		decorator := NewSecretUseCaseWithMetrics(mockUseCase, mockMetrics)
		revealed, err := decorator.Reveal(ctx, "abc", "pass")

		require.NoError(t, err)
		assert.Equal(t, secret, revealed)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		mockUseCase := &mockSecretUseCase{}
		mockMetrics := &mockBusinessMetrics{}

		wantErr := errors.New("boom")
		mockUseCase.On("Reveal", ctx, "abc", "pass").Return(nil, wantErr).Once()
		mockMetrics.On("RecordOperation", ctx, "secrets", "secret_reveal", "error").Once()
		mockMetrics.On(
			"RecordDuration", ctx, "secrets", "secret_reveal", mock.AnythingOfType("time.Duration"), "error",
		).Once()

		decorator := NewSecretUseCaseWithMetrics(mockUseCase, mockMetrics)
		_, err := decorator.Reveal(ctx, "abc", "pass")

		assert.ErrorIs(t, err, wantErr)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}

// TestMetricsDecorator_Operations tests that each method records its
// operation name.
func TestMetricsDecorator_Operations(t *testing.T) {
	ctx := context.Background()

	mockUseCase := &mockSecretUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	mockUseCase.On("Create", ctx, mock.Anything).Return(&CreatedSecret{}, nil).Once()
	mockUseCase.On("Burn", ctx, "abc", "token").Return(&secretsDomain.Secret{}, nil).Once()
	mockUseCase.On("Metadata", ctx, "abc").Return(&secretsDomain.Secret{}, nil).Once()
	mockUseCase.On("CleanupExpired", ctx, 7, false).Return(int64(3), nil).Once()

	for _, operation := range []string{"secret_create", "secret_burn", "secret_metadata", "secret_cleanup"} {
		mockMetrics.On("RecordOperation", ctx, "secrets", operation, "success").Once()
		mockMetrics.On(
			"RecordDuration", ctx, "secrets", operation, mock.AnythingOfType("time.Duration"), "success",
		).Once()
	}

	decorator := NewSecretUseCaseWithMetrics(mockUseCase, mockMetrics)

	_, err := decorator.Create(ctx, CreateSecretInput{Value: []byte("v")})
	require.NoError(t, err)
	_, err = decorator.Burn(ctx, "abc", "token")
	require.NoError(t, err)
	_, err = decorator.Metadata(ctx, "abc")
	require.NoError(t, err)
	deleted, err := decorator.CleanupExpired(ctx, 7, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	mockUseCase.AssertExpectations(t)
	mockMetrics.AssertExpectations(t)
}
