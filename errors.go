package eidgo

import "fmt"

// StateFormatError indicates a malformed snapshot or State value. It is
// recoverable: the caller decides whether to fall back to an empty registry.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type StateFormatError struct {
	Field  string
	Reason string
	cause  error
}

func (e *StateFormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid registry state: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid registry state: %s", e.Reason)
}

func (e *StateFormatError) Unwrap() error { return e.cause }
