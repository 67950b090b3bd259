package store

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUsername is returned when a tenant username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrNotFound is returned for missing records and for records owned by another tenant.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps every failure coming from the database layer.
	ErrStorage = errors.New("storage failure")
)

// ValidationError describes an input rule violation on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// IsValidation helps callers distinguish input problems from infrastructure failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStorage reports whether err originated in the database layer.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
