package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrIncompleteDimensions = errors.New("incomplete dimensions")
	ErrDimensionNotFound    = errors.New("dimension not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrSessionNotOpen       = errors.New("dimension has not been opened")
	ErrNotStarted           = errors.New("assessment has not been started")
	ErrAlreadyStarted       = errors.New("assessment already started")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IncompleteError is returned by the completion gate. It matches both
// ErrIncompleteDimensions and ErrValidation.
type IncompleteError struct {
	DimensionIDs []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncompleteDimensions, strings.Join(e.DimensionIDs, ", "))
}

func (e *IncompleteError) Unwrap() []error {
	return []error{ErrIncompleteDimensions, ErrValidation}
}
