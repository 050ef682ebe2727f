package apperror

import (
	"fmt"
	"net/http"
)

// AppError is an error that knows how it is rendered over HTTP.
type AppError struct {
	Code       string              `json:"code,omitempty"`
	Message    string              `json:"message"`
	StatusCode int                 `json:"-"`
	Fields     map[string][]string `json:"-"`
	Err        error               `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation carries per-field messages. The status differs per endpoint.
func Validation(statusCode int, fields map[string][]string, err error) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    "The given data was invalid.",
		StatusCode: statusCode,
		Fields:     fields,
		Err:        err,
	}
}

func Unauthorized(code, message string, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Err:        err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}
