package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest    = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrJobNotFound       = New(http.StatusNotFound, "JOB_NOT_FOUND", "Build job not found")
	ErrBuildInProgress   = New(http.StatusConflict, "BUILD_IN_PROGRESS", "Another build is already running")
	ErrManifestNotFound  = New(http.StatusNotFound, "MANIFEST_NOT_FOUND", "No run manifest found")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded")
	ErrInternalServer    = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// BuildFailedError creates a build execution error with details
func BuildFailedError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "BUILD_FAILED", "Feature build failed", err.Error())
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// FromAppError maps an internal AppError to its API representation.
func FromAppError(err *AppError) *APIError {
	switch err.Type {
	case ErrTypeConfig:
		return NewWithDetails(http.StatusBadRequest, "CONFIG_ERROR", err.Message, err.Context)
	case ErrTypeUnsupportedFormat, ErrTypeNoInputData:
		return NewWithDetails(http.StatusUnprocessableEntity, string(err.Type), err.Message, err.Context)
	default:
		return NewWithDetails(http.StatusInternalServerError, string(err.Type), err.Message, err.Context)
	}
}

// WriteError writes an error response to the HTTP response writer
func WriteError(w http.ResponseWriter, r *http.Request, err *APIError) {
	render.Status(r, err.StatusCode)
	render.JSON(w, r, NewErrorResponse(err))
}

// Helper for wrapping arbitrary errors at layer boundaries

// Wrapf wraps err with a formatted message, preserving AppError typing when
// present.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
