// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound     = errors.New("not found")
	ErrCorruptCache = errors.New("corrupt cache entry")

	// Backend errors.
	ErrUnauthorized   = errors.New("not logged in")
	ErrBackend        = errors.New("backend request failed")
	ErrInvalidPayload = errors.New("invalid response payload")

	// Offer form errors.
	ErrNoValidDates  = errors.New("no valid dates found")
	ErrInvalidDraft  = errors.New("invalid offer draft")
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownOption = errors.New("unknown option")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the message meant for the operator, or the error text
// when err carries none.
func UserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
