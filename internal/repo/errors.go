package repo

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

// ValidationError names the first field of an input that failed a check.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictError reports a value that collides with a unique key already stored.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a product with %s %q already exists", e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
