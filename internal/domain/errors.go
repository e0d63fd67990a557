package domain

import "errors"

var (
	// ErrOrderNotFound signals that the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidStatus signals a requested status outside the
	// recognized set, or a transition the active policy forbids.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrUnknownReference signals that none of the referenced entities
	// exist. It is a validation-class failure.
	ErrUnknownReference = errors.New("unknown reference")
)

// ValidationError reports malformed or missing caller input for a
// single field. It may wrap a sentinel such as ErrUnknownReference so
// callers can branch on the cause with errors.Is.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	cause error
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewUnknownReferenceError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, cause: ErrUnknownReference}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}
