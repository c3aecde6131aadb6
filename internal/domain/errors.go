package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrProviderFailure     = errors.New("provider failure")
	ErrPersistenceDisabled = errors.New("persistence disabled")
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UnitConversionError reports an unrecognized length unit.
type UnitConversionError struct {
	Unit string
}

func (e *UnitConversionError) Error() string {
	return fmt.Sprintf("unrecognized unit %q (expected mm, cm or m)", e.Unit)
}

// EstimationError signals estimator input that validation should have
// rejected.
type EstimationError struct {
	Reason string
}

func (e *EstimationError) Error() string {
	return "estimation failed: " + e.Reason
}

// ExternalProviderError wraps a failure of a text or image provider. Callers
// recover from it locally.
type ExternalProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ExternalProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ExternalProviderError) Unwrap() error { return e.Err }

func (e *ExternalProviderError) Is(target error) bool { return target == ErrProviderFailure }

// NewProviderError builds an ExternalProviderError.
func NewProviderError(provider, op string, err error) *ExternalProviderError {
	return &ExternalProviderError{Provider: provider, Op: op, Err: err}
}

// JobNotFoundError reports an unknown or expired image job id.
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("image job %q not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool { return target == ErrNotFound }
