package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken is returned when registration hits an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so callers cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// ValidationError marks client input the boundary should report as a
// 400 rather than a server fault.
type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.msg
}
