// Package scripterr defines the interpreter's error taxonomy (spec.md §7).
// Primitives return a *scripterr.Error (or nil) instead of a bare string so
// the executor can carry Kind, failedAction, and failedStepId through to
// the Terminal Result without re-parsing messages; any other error a
// handler passes through is coerced to Kind Unknown by From.
package scripterr

import (
	"errors"
	"fmt"
)

// Kind classifies why a primitive failed.
type Kind string

const (
	InvalidArgument  Kind = "InvalidArgument"
	NotFound         Kind = "NotFound"
	NotInteractable  Kind = "NotInteractable"
	Timeout          Kind = "Timeout"
	AssertionFailed  Kind = "AssertionFailed"
	DivideByZero     Kind = "DivideByZero"
	Decode           Kind = "Decode"
	Unknown          Kind = "Unknown"
)

// Error is the interpreter's single error type. Message is always
// human-readable and safe to surface verbatim in a Terminal Result.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func Invalid(format string, args ...any) *Error { return New(InvalidArgument, format, args...) }
func NotFoundf(format string, args ...any) *Error { return New(NotFound, format, args...) }
func NotInteractablef(format string, args ...any) *Error {
	return New(NotInteractable, format, args...)
}
func Timeoutf(format string, args ...any) *Error      { return New(Timeout, format, args...) }
func AssertionFailedf(format string, args ...any) *Error {
	return New(AssertionFailed, format, args...)
}
func DivideByZerof(format string, args ...any) *Error { return New(DivideByZero, format, args...) }
func Decodef(format string, args ...any) *Error       { return New(Decode, format, args...) }

// From coerces an arbitrary error into *Error, defaulting to Kind Unknown
// when the cause isn't already one of ours.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return Wrap(Unknown, err, "unexpected failure")
}

// KindOf reports the Kind of err, or Unknown if err is not a *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return Unknown
}
