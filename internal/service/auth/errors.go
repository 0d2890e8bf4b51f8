package auth

import "errors"

// Authentication failures. They are wrapped in *domain.Error values so the
// API layer can translate them without knowing about this package.
var (
	// ErrMissingKey indicates no credential was presented.
	ErrMissingKey = errors.New("api key is missing")

	// ErrInvalidKey indicates the credential is not registered.
	ErrInvalidKey = errors.New("api key is not registered")

	// ErrInsufficientTier indicates the credential's tier may not perform the operation.
	ErrInsufficientTier = errors.New("production api key required")

	// ErrUnknownTier indicates an issuance request named a tier that does not exist.
	ErrUnknownTier = errors.New("unknown api key tier")
)
