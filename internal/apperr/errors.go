// Package apperr holds the error kinds surfaced by the loyalty services.
// Callers match them with errors.As.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports bad input rejected before any store I/O.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid argument: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a tier delete blocked by customers still assigned to it.
type ConflictError struct {
	TierID string
	Count  int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("tier %s is assigned to %d customer(s)", e.TierID, e.Count)
}

// CursorInvalidError reports a pagination cursor whose record no longer resolves.
type CursorInvalidError struct {
	Cursor string
}

func (e *CursorInvalidError) Error() string {
	return fmt.Sprintf("cursor %q no longer resolves to a record", e.Cursor)
}

// StoreError wraps an underlying document-store failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Validation builds a *ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Store wraps err as a *StoreError; nil stays nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsCursorInvalid(err error) bool {
	var e *CursorInvalidError
	return errors.As(err, &e)
}

func IsStore(err error) bool {
	var e *StoreError
	return errors.As(err, &e)
}
