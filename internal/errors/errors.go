package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidUser        = "INVALID_USER"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeDeadlinePassed     = "DEADLINE_PASSED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the body of every failed response. Status is always false.
type APIError struct {
	Status  bool   `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// abort writes the error body, falling back to a default message.
func abort(c *gin.Context, status int, code, message, fallback string, details any) {
	if message == "" {
		message = fallback
	}
	err := NewAPIError(code, message)
	err.Details = details
	c.JSON(status, err)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, ErrCodeUnauthorized, message, "Authentication required", nil)
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, message, "Invalid email or password", nil)
}

// InvalidUser sends a 400 response when the caller's claims no longer match the stored person
func InvalidUser(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrCodeInvalidUser, message, "Invalid user", nil)
}

func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, ErrCodeForbidden, message, "Access denied", nil)
}

func NotFound(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, ErrCodeNotFound, message, "Resource not found", nil)
}

// BadRequest sends a 400 response for malformed input
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrCodeInvalidInput, message, "Invalid request", nil)
}

// ValidationFailed sends a 400 response with per-field messages
func ValidationFailed(c *gin.Context, message string, details any) {
	abort(c, http.StatusBadRequest, ErrCodeValidation, message, "Validation failed", details)
}

// InvalidState sends a 400 response for an operation the lifecycle state does not allow
func InvalidState(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrCodeInvalidState, message, "Operation not allowed in the current state", nil)
}

func DeadlinePassed(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrCodeDeadlinePassed, message, "Deadline has passed", nil)
}

func Conflict(c *gin.Context, message string) {
	abort(c, http.StatusConflict, ErrCodeConflict, message, "Resource conflict", nil)
}

func InternalError(c *gin.Context, message string) {
	abort(c, http.StatusInternalServerError, ErrCodeInternalError, message, "Internal server error", nil)
}

// ServiceUnavailable sends a 503 response for optional integrations that are not configured
func ServiceUnavailable(c *gin.Context, message string) {
	abort(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message, "Service temporarily unavailable", nil)
}
