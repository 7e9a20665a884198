// Package errors provides standardized error handling for the activities API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeActivityNotFound ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadySignedUp  ErrorCode = "ALREADY_SIGNED_UP"
	ErrCodeNotSignedUp      ErrorCode = "NOT_SIGNED_UP"
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// Client-facing detail messages. Clients match on substrings of these, so
// they must not change casually.
const (
	MsgActivityNotFound = "Activity not found"
	MsgAlreadySignedUp  = "Student already signed up for this activity"
	MsgNotSignedUp      = "Student not signed up for this activity"
	MsgInternal         = "Internal server error"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target is a StandardError with the same code, so
// errors.Is works against wrapped errors and code-only sentinels.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewActivityNotFoundError is returned when the named activity is not in the directory.
func NewActivityNotFoundError(activity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   MsgActivityNotFound,
		Details:   fmt.Sprintf("activity: %s", activity),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activity},
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySignedUpError is returned when the email is already on the roster.
func NewAlreadySignedUpError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySignedUp,
		Message:   MsgAlreadySignedUp,
		Details:   fmt.Sprintf("%s is already on the %s roster", email, activity),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activity, "email": email},
		Timestamp: time.Now().UTC(),
	}
}

// NewNotSignedUpError is returned when the email is not on the roster.
func NewNotSignedUpError(activity, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotSignedUp,
		Message:   MsgNotSignedUp,
		Details:   fmt.Sprintf("%s is not on the %s roster", email, activity),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activity, "email": email},
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingParameterError reports a required request parameter that was not supplied.
func NewMissingParameterError(param string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingParameter,
		Message:   fmt.Sprintf("%s query parameter is required", param),
		Details:   fmt.Sprintf("parameter: %s", param),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   MsgInternal,
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError if one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// CodeOf returns the error code of err, or INTERNAL_ERROR for foreign errors.
func CodeOf(err error) ErrorCode {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// HTTPStatus maps an error code to the response status code.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeActivityNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadySignedUp, ErrCodeNotSignedUp:
		return http.StatusBadRequest
	case ErrCodeMissingParameter:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeActivityNotFound:
		return "NOT_FOUND"
	case ErrCodeAlreadySignedUp, ErrCodeNotSignedUp:
		return "CONFLICT"
	case ErrCodeMissingParameter:
		return "VALIDATION"
	default:
		return "INTERNAL"
	}
}
