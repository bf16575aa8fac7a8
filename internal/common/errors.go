package common

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError reports missing, malformed or out-of-range input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AccessDeniedError reports a failed team authorization.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError reports a uniqueness violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// PersistenceError wraps a storage failure. Its detail is never shown to clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func AccessDenied(message string) error {
	if message == "" {
		message = "Access to this team is forbidden"
	}
	return &AccessDeniedError{Message: message}
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// FromDB classifies a storage error. Domain errors pass through untouched,
// unique violations become a ConflictError carrying conflictMsg and anything
// else becomes a PersistenceError.
func FromDB(err error, op, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if conflictMsg == "" {
			conflictMsg = "Duplicate value"
		}
		return &ConflictError{Message: conflictMsg}
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsDomain reports whether err is already one of the classified errors.
func IsDomain(err error) bool {
	var (
		ve *ValidationError
		ae *AccessDeniedError
		ne *NotFoundError
		ce *ConflictError
		pe *PersistenceError
	)
	return errors.As(err, &ve) || errors.As(err, &ae) || errors.As(err, &ne) ||
		errors.As(err, &ce) || errors.As(err, &pe)
}
