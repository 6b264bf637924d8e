// Package errors defines the typed error taxonomy shared by the trend
// pipeline. Fatal conditions propagate unchanged to the caller; data-quality
// anomalies in the feed are not errors and are handled inline by the
// derivation guards.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies a pipeline error.
type ErrorType string

const (
	ErrTypeIngestion        ErrorType = "INGESTION"
	ErrTypeSchema           ErrorType = "SCHEMA"
	ErrTypeInvalidRange     ErrorType = "INVALID_RANGE"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeConfig           ErrorType = "CONFIG"
	ErrTypeExport           ErrorType = "EXPORT"
)

// PipelineError is the application error carried through the pipeline.
type PipelineError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with PipelineError.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new pipeline error.
func New(errType ErrorType, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for the pipeline error types.

// NewIngestionError reports an unreadable or malformed feed.
func NewIngestionError(message string, cause error) *PipelineError {
	return New(ErrTypeIngestion, message, cause)
}

// NewSchemaError reports an expected feed column that is absent, which means
// the upstream schema drifted.
func NewSchemaError(column string) *PipelineError {
	return New(ErrTypeSchema, fmt.Sprintf("expected column %q missing from feed", column), nil).
		WithContext("column", column)
}

// NewInvalidRangeError reports window-selection parameters that are out of
// bounds for the table they are applied to.
func NewInvalidRangeError(message string) *PipelineError {
	return New(ErrTypeInvalidRange, message, nil)
}

// NewInsufficientDataError reports a trend fit attempted on a degenerate
// dataset.
func NewInsufficientDataError(message string) *PipelineError {
	return New(ErrTypeInsufficientData, message, nil)
}

// NewConfigError reports invalid or unloadable configuration.
func NewConfigError(message string, cause error) *PipelineError {
	return New(ErrTypeConfig, message, cause)
}

// NewExportError reports a failed report export.
func NewExportError(message string, cause error) *PipelineError {
	return New(ErrTypeExport, message, cause)
}

// IsType reports whether err is (or wraps) a PipelineError of the given type.
func IsType(err error, errType ErrorType) bool {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}

// IsIngestion reports whether err is an ingestion error.
func IsIngestion(err error) bool { return IsType(err, ErrTypeIngestion) }

// IsSchema reports whether err is a schema error.
func IsSchema(err error) bool { return IsType(err, ErrTypeSchema) }

// IsInvalidRange reports whether err is an invalid-range error.
func IsInvalidRange(err error) bool { return IsType(err, ErrTypeInvalidRange) }

// IsInsufficientData reports whether err is an insufficient-data error.
func IsInsufficientData(err error) bool { return IsType(err, ErrTypeInsufficientData) }
