package errors

import "errors"

// Domain errors - these represent business rule violations
var (
	// Authentication & Authorization
	ErrMissingToken = errors.New("authentication token is required")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("action forbidden")

	// Lookups
	ErrUserNotFound        = errors.New("user not found")
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrRecipientNotFound   = errors.New("recipient not found")

	// Event payload validation
	ErrInvalidPayload    = errors.New("invalid event payload")
	ErrJobIDRequired     = errors.New("job ID is required")
	ErrInvalidStatus     = errors.New("invalid application status")
	ErrNotesTooLong      = errors.New("notes exceed maximum length")
	ErrMessageRequired   = errors.New("message body is required")
	ErrMessageTooLong    = errors.New("message body exceeds maximum length")
	ErrRecipientRequired = errors.New("recipient ID is required")

	// Generic
	ErrInternal = errors.New("internal server error")
)
