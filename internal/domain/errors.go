package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrValidation         = errors.New("validation failed")
)

// FieldErrors maps a request field name to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// ValidationError carries every invalid field of a request. It matches
// ErrValidation with errors.Is, plus the optional cause (for example
// ErrUserAlreadyExists when the email is taken).
type ValidationError struct {
	Fields FieldErrors
	Cause  error
}

func NewValidationError(fields FieldErrors, cause error) *ValidationError {
	return &ValidationError{Fields: fields, Cause: cause}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrValidation, e.Cause}
	}
	return []error{ErrValidation}
}
