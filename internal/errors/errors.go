package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies pipeline failures
type ErrorType string

const (
	// ErrTypeSource: an input location could not be read at all
	ErrTypeSource ErrorType = "SOURCE_UNAVAILABLE"
	// ErrTypeMalformed: an input was readable but not parseable as tabular data
	ErrTypeMalformed ErrorType = "MALFORMED_SOURCE"
	// ErrTypeSchema: a required column is absent after normalization
	ErrTypeSchema ErrorType = "SCHEMA_VIOLATION"
	// ErrTypeNumeric: a non-empty value in a numeric column failed to parse
	ErrTypeNumeric ErrorType = "NUMERIC_PARSE"
	// ErrTypeWrite: an output location could not be written
	ErrTypeWrite ErrorType = "WRITE_ERROR"
	// ErrTypeConfig: configuration failed to load or validate
	ErrTypeConfig ErrorType = "CONFIG_ERROR"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for the pipeline error taxonomy

// NewSourceError creates a source-unavailable error
func NewSourceError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSource, message, cause)
}

// NewMalformedError creates a malformed-source error
func NewMalformedError(message string, cause error) *AppError {
	return NewAppError(ErrTypeMalformed, message, cause)
}

// NewSchemaError creates a schema-violation error for a missing column
func NewSchemaError(message string) *AppError {
	return NewAppError(ErrTypeSchema, message, nil)
}

// NewNumericError creates a numeric-parse error
func NewNumericError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNumeric, message, cause)
}

// NewWriteError creates a write error
func NewWriteError(message string, cause error) *AppError {
	return NewAppError(ErrTypeWrite, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err is (or wraps) an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// TypeOf returns the type of the AppError err is or wraps, or the empty
// string when err carries no AppError
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
