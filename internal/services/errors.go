package services

import "errors"

// Common service errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidRole        = errors.New("role must be one of admin, doctor, receptionist")
	ErrNameTooShort       = errors.New("name must be at least 2 characters")
	ErrContactTooShort    = errors.New("contact must be at least 10 characters")
	ErrConsentTypeEmpty   = errors.New("consent type is required")
	ErrEncryptionDisabled = errors.New("encryption key not configured")
)
