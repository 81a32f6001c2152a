// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/onetime/internal/validation"
)

// CreateSecretRequest contains the parameters for creating a one-time secret.
type CreateSecretRequest struct {
	// Value is the base64-encoded secret payload.
	Value string `json:"value"`
	// Passphrase optionally protects the secret; it participates in key
	// derivation and is required again to reveal.
	Passphrase string `json:"passphrase"`
	// TTLSeconds is the requested lifetime; zero applies the server default.
	TTLSeconds int64 `json:"ttl_seconds"`
}

// Validate checks if the create secret request is valid.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value,
			validation.Required,
			customValidation.Base64,
		),
		validation.Field(&r.TTLSeconds,
			validation.Min(0),
		),
	)
}

// RevealSecretRequest contains the parameters for revealing a secret.
type RevealSecretRequest struct {
	Passphrase string `json:"passphrase"`
}

// BurnSecretRequest contains the creator's credential for destroying a secret.
type BurnSecretRequest struct {
	MetadataToken string `json:"metadata_token"`
}

// Validate checks if the burn secret request is valid.
func (r *BurnSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MetadataToken,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
