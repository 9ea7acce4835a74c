// Package errors defines the sentinel errors the domain layers classify
// failures with. Use cases wrap these sentinels with context; the HTTP layer
// maps whichever sentinel sits at the bottom of the chain to a status code.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is authenticated but not allowed.
	ErrForbidden = errors.New("forbidden")

	// ErrConfiguration indicates the server is misconfigured for the requested
	// operation (e.g., no decryption keys installed). This is an operator
	// problem, never a client problem, and must stay distinguishable from
	// input validation failures in logs and responses.
	ErrConfiguration = errors.New("configuration error")
)

// New returns an error with the given message. Kept here so domain packages
// import a single errors package.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, preserving the chain for Is and As.
// Returns nil when err is nil so call sites can wrap unconditionally.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool {
	return errors.As(err, target)
}
