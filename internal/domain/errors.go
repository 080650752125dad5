package domain

import (
	"errors"
	"fmt"
)

// Predefined domain errors.
var (
	// ErrInvalidInput signals a malformed or out-of-bounds request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream signals a failure of the generative backend.
	ErrUpstream = errors.New("upstream generation failed")
	// ErrInternal signals an unexpected internal failure.
	ErrInternal = errors.New("internal error")
)

// DomainError carries a stable code and a user-safe message alongside the
// wrapped cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the user-facing message without internal detail.
func (e *DomainError) UserMessage() string {
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewInvalidInputError creates an invalid-input error with a safe message.
func NewInvalidInputError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewUpstreamError creates an upstream-failure error. The cause is kept for
// logs only; the message never exposes backend detail.
func NewUpstreamError(err error) error {
	return &DomainError{
		Code:    "UPSTREAM_ERROR",
		Message: "generation backend unavailable",
		Err:     fmt.Errorf("%w: %v", ErrUpstream, err),
	}
}

// NewInternalError creates an internal error without exposing the cause.
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// IsInvalidInput reports whether err is an invalid-input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUpstream reports whether err is an upstream generation error.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsInternalError reports whether err is an internal error.
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal)
}
