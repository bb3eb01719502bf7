package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInvalidFormat = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Gateway errors
	ErrCodeOperationFailed = "OPERATION_FAILED"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError is the typed error descriptor returned by every mutator.
// The wrapped cause is kept for logging and never serialized.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches APIErrors by code so callers can use errors.Is with the predefined values.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NotFoundError reports a referenced entity that does not exist.
func NotFoundError(message string) *APIError {
	return NewAPIError(ErrCodeNotFound, message)
}

// ConflictError reports a violated uniqueness constraint.
func ConflictError(message string, cause error) *APIError {
	return &APIError{Code: ErrCodeConflict, Message: message, Err: cause}
}

// InvalidInputError reports a request that fails validation.
func InvalidInputError(message string) *APIError {
	return NewAPIError(ErrCodeInvalidInput, message)
}

// OperationFailedError reports any other gateway failure.
func OperationFailedError(message string, cause error) *APIError {
	return &APIError{Code: ErrCodeOperationFailed, Message: message, Err: cause}
}

// Predefined errors, comparable with errors.Is by code
var (
	ErrNotFound        = &APIError{Code: ErrCodeNotFound}
	ErrConflict        = &APIError{Code: ErrCodeConflict}
	ErrInvalidInput    = &APIError{Code: ErrCodeInvalidInput}
	ErrOperationFailed = &APIError{Code: ErrCodeOperationFailed}
)

// StatusCode maps an error code to its HTTP status.
func StatusCode(code string) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Respond writes any error returned by a service. Errors that are not
// APIErrors are reported as internal errors without leaking their text.
func Respond(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		RespondWithError(c, StatusCode(apiErr.Code), apiErr)
		return
	}
	InternalError(c, "")
}

// Helper functions for common error responses

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// InvalidFormat sends a 400 response for malformed identifiers
func InvalidFormat(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid format"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidFormat, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
