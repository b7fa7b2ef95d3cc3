package attr

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch is the cause of a ValidationError raised by the type check
var ErrTypeMismatch = errors.New("type mismatch")

// ValidationError reports a value rejected by a field's type check or validators
type ValidationError struct {
	Entity   string
	Field    string
	Value    interface{}
	Expected string
	Err      error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %#v for %s.%s (expected %s): %v", e.Value, e.Entity, e.Field, e.Expected, e.Err)
}

// Unwrap allows error unwrapping
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ImmutableFieldError reports a write to a read-only field
type ImmutableFieldError struct {
	Entity string
	Field  string
}

// Error implements the error interface
func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("%s.%s is read-only", e.Entity, e.Field)
}

// UnknownFieldError reports an access to a field the schema does not declare
type UnknownFieldError struct {
	Entity string
	Field  string
}

// Error implements the error interface
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no field %q", e.Entity, e.Field)
}
