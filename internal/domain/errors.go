package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchema is matched by every SchemaError.
	ErrSchema = errors.New("schema error")
	// ErrProcessing is matched by every ProcessingError.
	ErrProcessing = errors.New("processing error")
	// ErrInvalidInput is matched by every InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
)

// SchemaError reports required columns missing from a raw payload.
// Loading of the dataset is aborted.
type SchemaError struct {
	Period  Period
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s dataset %q is missing columns: %s", e.Period, e.Source, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ProcessingError wraps an unexpected failure while reading or parsing a
// raw payload.
type ProcessingError struct {
	Period Period
	Source string
	Err    error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("failed to process %s dataset %q: %v", e.Period, e.Source, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func (e *ProcessingError) Is(target error) bool {
	return target == ErrProcessing
}

// InvalidInputError is returned by a report operation that received nil or
// empty input. Only the affected panel is skipped.
type InvalidInputError struct {
	Op     string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
