package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied is returned when the caller's scope is not allowed on a
	// resource, or the caller cannot be resolved to a scope at all.
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal wraps store, parse and other unexpected failures.
	ErrInternal = errors.New("internal error")

	// ErrConsistency is returned when related resources contradict each other.
	ErrConsistency = errors.New("consistency violation")

	// ErrInvalid is returned when a resource fails validation.
	ErrInvalid = errors.New("invalid resource")
)

// Error is a classified failure of a resource operation. Kind is one of the
// sentinel errors above; errors.Is(err, ErrNotFound) and friends match on it.
type Error struct {
	Kind   error
	Prefix string // resource ID prefix, e.g. "ROOM"
	Op     string // operation name, e.g. "get"
	ID     string
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s.%s", e.Prefix, e.Op)
	if e.ID != "" {
		msg += " " + e.ID
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Public returns a message safe to show to clients: kind, prefix and
// operation, without the cause.
func (e *Error) Public() string {
	return fmt.Sprintf("%s.%s: %s", e.Prefix, e.Op, e.Kind.Error())
}

// NewError builds a classified error.
func NewError(kind error, prefix, op, id string, cause error) *Error {
	return &Error{Kind: kind, Prefix: prefix, Op: op, ID: id, Err: cause}
}
