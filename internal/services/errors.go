package services

import (
	"errors"
	"fmt"
)

// Failure kinds returned by the service layer. Handlers pick an HTTP status
// with errors.Is and surface Error() as the response message, so the wrapped
// text is always user-facing copy.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("duplicate")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrNoOp               = errors.New("no change")
)

type opError struct {
	kind    error
	message string
}

func (e *opError) Error() string { return e.message }
func (e *opError) Unwrap() error { return e.kind }

// failf wraps kind with a human-readable message. The message alone is what
// ends up in the response body.
func failf(kind error, format string, args ...interface{}) error {
	return &opError{kind: kind, message: fmt.Sprintf(format, args...)}
}
