// Package errors classifies failures from input validation, the backend
// and local storage.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrInputValidation  = errors.New("input validation failed")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDatabaseError    = errors.New("database error")
)

// ValidationError represents user input rejected before any request is made.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, fmt.Sprint(e.Value), e.Message)
}

// Unwrap lets errors.Is(err, ErrInputValidation) match any ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrInputValidation
}

// NewValidationError rejects value for field.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// RequestError represents a non-2xx, non-401 response from the backend.
type RequestError struct {
	Op     string
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed [%s] status %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed [%s] status %d", e.Op, e.Status)
}

// NewRequestError creates a new RequestError.
func NewRequestError(op string, status int, detail string) *RequestError {
	return &RequestError{
		Op:     op,
		Status: status,
		Detail: detail,
	}
}

// AuthError represents a 401 response. It matches ErrUnauthorized and keeps
// the backend detail so a failed login can show it.
type AuthError struct {
	Op     string
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unauthorized [%s]: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("unauthorized [%s]", e.Op)
}

func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}

// NewAuthError creates a new AuthError.
func NewAuthError(op, detail string) *AuthError {
	return &AuthError{Op: op, Detail: detail}
}

// UnreachableError represents a transport-level failure (offline, refused, timeout).
type UnreachableError struct {
	Op  string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("backend unreachable [%s]: %v", e.Op, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// NewUnreachableError creates a new UnreachableError.
func NewUnreachableError(op string, err error) *UnreachableError {
	return &UnreachableError{
		Op:  op,
		Err: err,
	}
}

// IsUnauthorized reports whether err came from a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInputValidation)
}

// Reason returns the human-readable message to surface for err: the backend
// detail or validation message when one exists, otherwise fallback.
func Reason(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	var re *RequestError
	if errors.As(err, &re) && strings.TrimSpace(re.Detail) != "" {
		return re.Detail
	}
	var ae *AuthError
	if errors.As(err, &ae) && strings.TrimSpace(ae.Detail) != "" {
		return ae.Detail
	}
	return fallback
}

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// As is errors.As, re-exported so callers need only this package.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
