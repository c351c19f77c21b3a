package auth

import (
	"errors"

	"github.com/alecgard/scoutline/internal/validation"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email already in use.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError carries the field errors of a rejected request.
type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Errors[0].Field + ": " + e.Errors[0].Message
}
