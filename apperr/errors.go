package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to API clients.
const (
	CodeInvalidInput      = "VALIDATION_ERROR"
	CodeNotFound          = "RESOURCE_NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeReferenceNotFound = "REFERENCE_NOT_FOUND"
	CodeInternal          = "INTERNAL_ERROR"
)

// AppError carries a stable code and the HTTP status it maps to.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails replaces the details map.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap records the underlying cause.
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// New creates an AppError.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// InvalidInput is returned for malformed requests. Never retried.
func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

// InvalidInputWithFields is InvalidInput with per-field messages.
func InvalidInputWithFields(message string, fields map[string]string) *AppError {
	return InvalidInput(message).WithDetails(fields)
}

// NotFound is returned when the addressed entity does not exist.
func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NotFoundWithID is NotFound with the id in details.
func NotFoundWithID(resource string, id int64) *AppError {
	return NotFound(resource).WithDetail("id", fmt.Sprint(id))
}

// Conflict covers uniqueness and foreign-key violations at write time.
func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

// ReferenceNotFound means some referenced rows could not be resolved.
// Boundaries that create rows surface it as Conflict.
func ReferenceNotFound(message string) *AppError {
	return New(CodeReferenceNotFound, message, http.StatusConflict)
}

// Internal hides the cause from the caller; the cause stays in Err for logs.
func Internal(err error) *AppError {
	return New(CodeInternal, "an internal error occurred", http.StatusInternalServerError).Wrap(err)
}

// As extracts an AppError from the chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return HasCode(err, CodeConflict) }

// IsInvalidInput reports whether err is an InvalidInput error.
func IsInvalidInput(err error) bool { return HasCode(err, CodeInvalidInput) }

// FromError converts any error into an AppError. Errors outside the
// taxonomy become Internal.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal(err)
}
