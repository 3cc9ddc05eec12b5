package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeConfig              ErrorType = "CONFIG"
	ErrTypeUnsupportedFormat   ErrorType = "UNSUPPORTED_FORMAT"
	ErrTypeNoInputData         ErrorType = "NO_INPUT_DATA"
	ErrTypeEmptySeries         ErrorType = "EMPTY_SERIES"
	ErrTypeHolidayResolution   ErrorType = "HOLIDAY_RESOLUTION"
	ErrTypeHistoricalAggregate ErrorType = "HISTORICAL_AGGREGATE"
	ErrTypeParsing             ErrorType = "PARSING"
	ErrTypeStorage             ErrorType = "STORAGE"
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

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsFatal reports whether err aborts a pipeline run. Recoverable types
// (empty series, holiday resolution, historical aggregates) degrade locally
// and must never stop the batch.
func IsFatal(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return true
	}
	switch appErr.Type {
	case ErrTypeEmptySeries, ErrTypeHolidayResolution, ErrTypeHistoricalAggregate:
		return false
	}
	return true
}

// Helper functions for common error types

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewUnsupportedFormatError creates an error for input files whose
// extension is not recognized
func NewUnsupportedFormatError(path string) *AppError {
	return NewAppError(ErrTypeUnsupportedFormat, fmt.Sprintf("unsupported input format: %s", path), nil)
}

// NewNoInputDataError creates an error for input locations that yield no
// usable files
func NewNoInputDataError(path string) *AppError {
	return NewAppError(ErrTypeNoInputData, fmt.Sprintf("no usable input files in %s", path), nil)
}

// NewEmptySeriesError creates an error for a group with no raw records
func NewEmptySeriesError(entity, family string) *AppError {
	return NewAppError(ErrTypeEmptySeries, fmt.Sprintf("no data for group %s/%s", entity, family), nil).
		WithContext("entity", entity).
		WithContext("family", family)
}

// NewHolidayResolutionError creates an error for an unresolvable holiday
// calendar; the holiday feature falls back to zero when this is returned
func NewHolidayResolutionError(region string, cause error) *AppError {
	return NewAppError(ErrTypeHolidayResolution, fmt.Sprintf("cannot resolve holiday calendar for region %s", region), cause).
		WithContext("region", region)
}

// NewHistoricalAggregateError creates an error for a failed historical
// aggregate family; the family's columns degrade to undefined
func NewHistoricalAggregateError(family string, cause error) *AppError {
	return NewAppError(ErrTypeHistoricalAggregate, fmt.Sprintf("historical aggregate family %s failed", family), cause).
		WithContext("aggregate_family", family)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}
