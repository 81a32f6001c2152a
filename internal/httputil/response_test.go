package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
	apperrors "github.com/allisson/onetime/internal/errors"
	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
)

func newTestGinContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "not found",
			err:            secretsDomain.ErrSecretNotFound,
			expectedStatus: http.StatusNotFound,
			expectedError:  "not_found",
		},
		{
			name:           "already revealed maps to gone",
			err:            secretsDomain.ErrSecretAlreadyRevealed,
			expectedStatus: http.StatusGone,
			expectedError:  "gone",
		},
		{
			name:           "burned maps to gone",
			err:            secretsDomain.ErrSecretBurned,
			expectedStatus: http.StatusGone,
			expectedError:  "gone",
		},
		{
			name:           "expired maps to gone",
			err:            secretsDomain.ErrSecretExpired,
			expectedStatus: http.StatusGone,
			expectedError:  "gone",
		},
		{
			name:           "decryption failure",
			err:            cryptoDomain.ErrDecryptionFailed,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "decryption_failed",
		},
		{
			name:           "invalid input",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "ttl too large"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "invalid_input",
		},
		{
			name:           "invalid metadata token maps to forbidden",
			err:            secretsDomain.ErrInvalidMetadataToken,
			expectedStatus: http.StatusForbidden,
			expectedError:  "forbidden",
		},
		{
			name:           "unknown error maps to internal",
			err:            errors.New("database exploded"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext()
			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedError)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestGinContext()
		HandleErrorGin(c, nil, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestGinContext()
	HandleBadRequestGin(c, errors.New("invalid json"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad_request")
	assert.Contains(t, w.Body.String(), "invalid json")
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestGinContext()
	HandleValidationErrorGin(c, errors.New("value: cannot be blank"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}
