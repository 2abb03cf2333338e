package services

import "errors"

// Errors shared across the registration services and the HTTP mapping.
var (
	// Validation and payload errors, rejected before any remote mutation.
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrInvalidPayload        = errors.New("invalid request body")
	ErrEventNotFound         = errors.New("unknown event")

	// Duplicate registrations, scoped per event.
	ErrDuplicateEmail = errors.New("you have already registered with this email")
	ErrDuplicatePhone = errors.New("this phone number is already registered")

	// Remote collaborator failures.
	ErrBackendReadWrite = errors.New("failed to read or write registration data")
	ErrUploadFailed     = errors.New("failed to upload file")
)
