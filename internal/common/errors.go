package common

import "errors"

// Business logic errors
var (
	// Validation errors
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmptyBody           = errors.New("message body is empty")
	ErrInvalidParticipants = errors.New("invalid participant pair")

	// Not-found errors
	ErrNotFound             = errors.New("resource not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrListingNotFound      = errors.New("listing not found")

	// Authorization errors
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)
