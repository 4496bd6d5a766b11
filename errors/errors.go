package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Detail keys used by the constructors in this package.
const (
	DetailField       = "field"
	DetailBackendCode = "backend_code"
	DetailDescription = "description"
)

// AppError is the unified error type returned by providers.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation could succeed when repeated.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the HTTP status observed from the backend, 0 when none was received.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Constructors ---

// Configuration creates an error for an unusable provider configuration.
// field names the offending setting and may be empty.
func Configuration(field, reason string) *AppError {
	e := &AppError{
		Code: ErrCodeConfiguration, Message: reason,
		Retryable: false,
	}
	if field != "" {
		e.WithDetail(DetailField, field)
	}
	return e
}

// Backend creates an error for a request the backend rejected.
// code and description come from the backend's error envelope when it sent one,
// otherwise from the HTTP status line.
func Backend(code int, description string, httpStatus int) *AppError {
	msg := description
	if msg == "" {
		msg = http.StatusText(httpStatus)
	}
	return &AppError{
		Code: ErrCodeBackend, Message: fmt.Sprintf("backend error %d: %s", code, msg),
		HTTPStatus: httpStatus, Retryable: false,
		Details: map[string]any{DetailBackendCode: code, DetailDescription: description},
	}
}

// Network creates an error for a transport failure that is not a cancellation.
func Network(message string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeNetwork, Message: message,
		Retryable: true, Cause: cause,
	}
}

// Timeout creates an error for a request that exceeded its deadline.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		Retryable: true, Cause: cause,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates an error for an unexpected condition.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Retryable: false, Cause: cause,
	}
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Code returns the code of the first AppError in err's chain, or "" if none.
// Timeouts report ErrCodeTimeout, not ErrCodeNetwork.
func Code(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return Code(err) == ErrCodeConfiguration }

// IsBackend reports whether err is a backend error.
func IsBackend(err error) bool { return Code(err) == ErrCodeBackend }

// IsNetwork reports whether err is a transport failure. It is true for both
// NETWORK_ERROR and its TIMEOUT subclass; use Code to tell them apart.
func IsNetwork(err error) bool {
	code := Code(err)
	return code == ErrCodeNetwork || code == ErrCodeTimeout
}

// BackendStatus extracts the backend-provided code and description from err.
func BackendStatus(err error) (code int, description string, ok bool) {
	appErr, found := AsAppError(err)
	if !found || appErr.Code != ErrCodeBackend {
		return 0, "", false
	}
	code, _ = appErr.Details[DetailBackendCode].(int)
	description, _ = appErr.Details[DetailDescription].(string)
	return code, description, true
}
