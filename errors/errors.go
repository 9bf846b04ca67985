package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified mechkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
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

// Is reports whether target is an AppError with the same code.
// This lets callers match failures with errors.Is against a bare
// New(code, ...) sentinel without comparing messages or details.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !stderrors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

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

// Detail returns the detail stored under key, if any.
func (e *AppError) Detail(key string) (any, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// --- Common Error Constructors ---

// NotRegistered creates a new AppError for an unresolvable request key.
func NotRegistered(key string) *AppError {
	return &AppError{
		Code: ErrCodeNotRegistered, Message: fmt.Sprintf("no mapping registered for %s", key),
		Details: map[string]any{"key": key},
	}
}

// DuplicateMapping creates a new AppError for an ambiguous registration.
func DuplicateMapping(key string) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateMapping, Message: fmt.Sprintf("mapping for %s is already declared", key),
		Details: map[string]any{"key": key},
	}
}

// InvalidMapping creates a new AppError for a malformed mapping declaration.
func InvalidMapping(key, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidMapping, Message: fmt.Sprintf("invalid mapping for %s: %s", key, reason),
		Details: map[string]any{"key": key},
	}
}

// FactoryFailed creates a new AppError for a construction strategy failure.
func FactoryFailed(key string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeFactoryFailed, Message: fmt.Sprintf("factory for %s failed", key),
		Details: map[string]any{"key": key}, Cause: cause,
	}
}

// TypeMismatch creates a new AppError for a resolution producing the wrong type.
func TypeMismatch(key string, actual any) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("%s resolved to unexpected type %T", key, actual),
		Details: map[string]any{"key": key, "actual_type": fmt.Sprintf("%T", actual)},
	}
}

// InvalidInitializer creates a new AppError for an initializer bound to a bad member.
func InvalidInitializer(target, member, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInitializer, Message: fmt.Sprintf("cannot initialize %s.%s: %s", target, member, reason),
		Details: map[string]any{"target": target, "member": member},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// InvalidConfig creates a new AppError for a configuration validation failure.
func InvalidConfig(reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid configuration: %s", reason),
		Cause: cause,
	}
}

// MutationRejected creates a new AppError for a vetoed collection mutation.
func MutationRejected(op string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeMutationRejected, Message: fmt.Sprintf("%s rejected by hook", op),
		Details: map[string]any{"operation": op}, Cause: cause,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// CodeOf returns the ErrorCode of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
