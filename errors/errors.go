package errors

import (
	stderrors "errors"
	"fmt"
	"os"
)

// Standard error codes
const (
	ErrInvalidRequest      = 400
	ErrNotFound            = 404
	ErrConflict            = 409
	ErrInternalServerError = 500
	ErrServiceUnavailable  = 503

	// Command errors (1000+). These are recovered at the command boundary and
	// rendered to the player; none of them leave partial state behind.
	ErrInvalidAmount           = 1001
	ErrInsufficientFunds       = 1002
	ErrInsufficientBank        = 1003
	ErrItemNotFound            = 1004
	ErrInsufficientItems       = 1005
	ErrRecipeNotFound          = 1006
	ErrInsufficientIngredients = 1007
	ErrMalformedPayload        = 1008
	ErrCostTooLow              = 1009
	ErrItemExists              = 1010
	ErrTargetNotFound          = 1011
	ErrInvalidTarget           = 1012
	ErrInvalidArgument         = 1013
	ErrUnknownCommand          = 1014
	ErrMissingArgument         = 1015

	// Infrastructure errors (2000+)
	ErrAccountNotFound = 2001
	ErrAccountExists   = 2002
	ErrStoreError      = 2003
	ErrConfigError     = 2004
	ErrKafkaError      = 2005
	ErrRedisError      = 2006
)

// AppError represents a custom application error
type AppError struct {
	Code         int    `json:"code"`
	Message      string `json:"message"`
	DebugMessage string `json:"debug_message,omitempty"`
	Err          error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.DebugMessage != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.DebugMessage)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s [%v]", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code int, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithDebug creates a new AppError with a debug message
func NewWithDebug(code int, message string, debugMessage string) *AppError {
	return &AppError{
		Code:         code,
		Message:      message,
		DebugMessage: debugMessage,
	}
}

// Wrap wraps an existing error into an AppError
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Response returns a map suitable for JSON response
func (e *AppError) Response() map[string]interface{} {
	response := map[string]interface{}{
		"code":    e.Code,
		"message": e.Message,
	}

	// Include debug message in development environment
	env := os.Getenv("APP_ENV")
	if (env == "dev" || env == "development") && e.DebugMessage != "" {
		response["debug_message"] = e.DebugMessage
	}

	return response
}

// IsAppError checks if an error is (or wraps) an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// As is errors.As from the standard library, re-exported so callers need one import
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode extracts error code from an error
func GetCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServerError
}

// HasCode reports whether err carries the given code
func HasCode(err error, code int) bool {
	return err != nil && GetCode(err) == code
}

// IsCommandError reports whether the code belongs to the player-facing command range
func IsCommandError(code int) bool {
	return code >= ErrInvalidAmount && code <= ErrMissingArgument
}

// HTTPStatusFromCode maps error codes to HTTP status codes
func HTTPStatusFromCode(code int) int {
	switch code {
	case ErrInvalidRequest:
		return 400
	case ErrNotFound, ErrAccountNotFound:
		return 404
	case ErrConflict, ErrAccountExists:
		return 409
	case ErrServiceUnavailable:
		return 503
	case ErrStoreError, ErrRedisError, ErrKafkaError:
		return 502
	}
	if IsCommandError(code) {
		// command failures are game outcomes, the request itself succeeded
		return 200
	}
	return 500
}
