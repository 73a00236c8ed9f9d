package service

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or semantically inconsistent input.
// It is recoverable by the caller and never touches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func newValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ErrEmailTaken is returned by SignUp when the email is already registered
var ErrEmailTaken = errors.New("user with this email already exists")

// ErrInvalidCredentials is returned by Login on a bad email or password
var ErrInvalidCredentials = errors.New("invalid email or password")
