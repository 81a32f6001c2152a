// Package http provides HTTP handlers for one-time secret operations:
// create, reveal, burn, and metadata lookup.
package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
	"github.com/allisson/onetime/internal/httputil"
	"github.com/allisson/onetime/internal/secrets/http/dto"
	secretsUseCase "github.com/allisson/onetime/internal/secrets/usecase"
	customValidation "github.com/allisson/onetime/internal/validation"
)

// SecretHandler handles HTTP requests for one-time secrets.
type SecretHandler struct {
	secretUseCase secretsUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(secretUseCase secretsUseCase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// identifierParam extracts and validates the :identifier URL parameter.
func (h *SecretHandler) identifierParam(c *gin.Context) (string, bool) {
	identifier := c.Param("identifier")
	if err := validation.Validate(identifier, validation.Required, customValidation.SecretIdentifier); err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid identifier: %w", err),
			h.logger,
		)
		return "", false
	}
	return identifier, true
}

// CreateHandler creates a new one-time secret.
// POST /v1/secrets
// Returns 201 Created with the share identifier and the one-time metadata token.
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	value, err := base64.StdEncoding.DecodeString(req.Value)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid base64 value: %w", err), h.logger)
		return
	}

	created, err := h.secretUseCase.Create(c.Request.Context(), secretsUseCase.CreateSecretInput{
		Value:      value,
		Passphrase: req.Passphrase,
		TTL:        time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToCreateResponse(created.Secret, created.MetadataToken))
}

// RevealHandler decrypts and consumes a secret. The reveal succeeds at most
// once; a wrong passphrase leaves the secret intact.
// POST /v1/secrets/:identifier/reveal
// Returns 200 OK with the base64-encoded plaintext.
func (h *SecretHandler) RevealHandler(c *gin.Context) {
	identifier, ok := h.identifierParam(c)
	if !ok {
		return
	}

	// An empty body means no passphrase.
	var req dto.RevealSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	secret, err := h.secretUseCase.Reveal(c.Request.Context(), identifier, req.Passphrase)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	defer cryptoDomain.Zero(secret.Plaintext)

	c.JSON(http.StatusOK, dto.MapSecretToRevealResponse(secret))
}

// BurnHandler destroys an unread secret. Requires the metadata token
// returned on creation.
// POST /v1/secrets/:identifier/burn
// Returns 200 OK with the final lifecycle state.
func (h *SecretHandler) BurnHandler(c *gin.Context) {
	identifier, ok := h.identifierParam(c)
	if !ok {
		return
	}

	var req dto.BurnSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.secretUseCase.Burn(c.Request.Context(), identifier, req.MetadataToken)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToMetadataResponse(secret, time.Now().UTC()))
}

// MetadataHandler returns a secret's lifecycle state without touching its
// ciphertext or consuming it.
// GET /v1/secrets/:identifier
// Returns 200 OK with the lifecycle view.
func (h *SecretHandler) MetadataHandler(c *gin.Context) {
	identifier, ok := h.identifierParam(c)
	if !ok {
		return
	}

	secret, err := h.secretUseCase.Metadata(c.Request.Context(), identifier)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretToMetadataResponse(secret, time.Now().UTC()))
}
