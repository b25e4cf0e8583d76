package jsonval

import (
	"errors"
	"fmt"
)

// MissingFieldError indicates that a required field is absent from the
// object being parsed.
type MissingFieldError struct {
	// Field is the requested field name
	Field string
}

// Error implements the error interface
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}

// WrongTypeError indicates that a field is present but its JSON value
// has the wrong type.
type WrongTypeError struct {
	// Field is the requested field name
	Field string

	// Expected describes the expected JSON type (e.g. "string", "array of strings")
	Expected string

	// Value is the offending decoded value
	Value any
}

// Error implements the error interface
func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %T", e.Field, e.Expected, e.Value)
}

// TooFewItemsError indicates that an array field is present but holds
// fewer items than the required minimum.
type TooFewItemsError struct {
	// Field is the requested field name
	Field string

	// Min is the required minimum number of items
	Min int

	// Got is the number of items actually present
	Got int
}

// Error implements the error interface
func (e *TooFewItemsError) Error() string {
	return fmt.Sprintf("field %q: expected at least %d item(s), got %d", e.Field, e.Min, e.Got)
}

// IsValidation reports whether err is one of the jsonval validation
// error types, directly or anywhere in its wrap chain.
func IsValidation(err error) bool {
	var missing *MissingFieldError
	var wrongType *WrongTypeError
	var tooFew *TooFewItemsError
	return errors.As(err, &missing) || errors.As(err, &wrongType) || errors.As(err, &tooFew)
}
