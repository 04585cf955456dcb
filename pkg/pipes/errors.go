package pipes

import (
	"errors"
	"fmt"
)

// Kind classifies a pipe failure. Every kind is a client-input fault; the
// host is expected to surface the message verbatim (typically as HTTP 400).
type Kind int

const (
	// KindInvalidInput marks a deferred argument value that failed to resolve.
	KindInvalidInput Kind = iota + 1
	// KindConversion marks a scalar that cannot be coerced to the requested
	// primitive kind.
	KindConversion
	// KindValidation marks one or more failed schema field rules.
	KindValidation
)

// String returns a stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindConversion:
		return "conversion error"
	case KindValidation:
		return "validation error"
	default:
		return "unknown"
	}
}

// Error is a classified pipe failure. An already classified error is
// re-raised unchanged by every enclosing step; only unclassified errors get
// wrapped, so a failure is never double-wrapped.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As chains.
// The cause never appears in the client-facing message.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// NewInvalidInputError reports a deferred value that failed to resolve.
// The rejection reason is retained as the cause but not echoed.
func NewInvalidInputError(cause error) *Error {
	return &Error{Kind: KindInvalidInput, Message: "invalid request data", cause: cause}
}

// NewConversionError reports a failed primitive coercion.
func NewConversionError(format string, args ...any) *Error {
	return &Error{Kind: KindConversion, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError reports failed schema field rules.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the classification of err, or 0 when err is not a pipe
// failure.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// classified reports whether err already carries a pipe classification.
func classified(err error) (*Error, bool) {
	var pe *Error
	ok := errors.As(err, &pe)
	return pe, ok
}

// wrapConversion passes classified errors through and wraps anything else
// into a conversion failure labeled with the argument kind.
func wrapConversion(kind string, err error) error {
	if pe, ok := classified(err); ok {
		return pe
	}
	if kind == "" {
		kind = "argument"
	}
	return &Error{
		Kind:    KindConversion,
		Message: fmt.Sprintf("Failed to validate %s: %s", kind, err.Error()),
		cause:   err,
	}
}

// wrapValidation passes classified errors through and collapses anything
// else into a generic validation failure. The cause is retained for
// errors.Unwrap but deliberately absent from the message.
func wrapValidation(err error) error {
	if pe, ok := classified(err); ok {
		return pe
	}
	return &Error{Kind: KindValidation, Message: "Validation failed", cause: err}
}
