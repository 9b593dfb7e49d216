// Package apperrors defines the error taxonomy shared by the order engine
// and the API boundary. Storage failures are not wrapped into a sentinel;
// they propagate unmodified and the handlers treat anything outside this
// taxonomy as a 500.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a referenced check, rvc, item or ticket does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: the operation is not legal in the entity's current
	// state (editing a sent non-pending item, paying a closed check, ...)
	ErrInvalidState = errors.New("invalid state")

	// ErrUnauthorized: a supplied manager PIN failed verification
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFoundf wraps ErrNotFound with context
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidStatef wraps ErrInvalidState with context
func InvalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidState)...)
}

// Unauthorizedf wraps ErrUnauthorized with context
func Unauthorizedf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnauthorized)...)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidState reports whether err is (or wraps) ErrInvalidState
func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }

// IsUnauthorized reports whether err is (or wraps) ErrUnauthorized
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
