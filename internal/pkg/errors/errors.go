package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeGatewayRejected = "GATEWAY_REJECTED"
	ErrCodeGatewayError    = "GATEWAY_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError carries an HTTP status and stable code alongside the message so
// services can fail with the right client semantics without importing
// net/http handling into every call site.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: ErrCodeConflict, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: ErrCodeForbidden, Message: message}
}

func InvalidInput(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: ErrCodeInvalidInput, Message: message}
}

// GatewayRejected marks an order-gateway validation failure that is the
// client's fault (bad order id, wrong details). Maps to 400.
func GatewayRejected(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: ErrCodeGatewayRejected, Message: message}
}

// GatewayUnavailable wraps any other gateway failure. Propagated unchanged
// as a server error, no retries.
func GatewayUnavailable(err error) *AppError {
	return &AppError{Status: http.StatusBadGateway, Code: ErrCodeGatewayError, Message: "Order gateway error", Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: ErrCodeInternal, Message: "Internal error", Err: err}
}

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}

// WriteAppError maps a service error onto the JSON envelope. Anything that is
// not an *AppError is treated as an internal failure.
func WriteAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		WriteError(w, appErr.Status, appErr.Code, appErr.Message, nil)
		return
	}
	WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal error", nil)
}
