package ranking

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why a ranking run failed.
type Kind string

const (
	SourceUnavailable     Kind = "SourceUnavailable"
	MalformedRecord       Kind = "MalformedRecord"
	SinkUnavailable       Kind = "SinkUnavailable"
	ConcurrentRunConflict Kind = "ConcurrentRunConflict"
	RunTimeout            Kind = "RunTimeout"
)

// Error is returned for every fatal pipeline failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, &Error{Kind: k})
// works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// NewError builds an Error of the given kind.
func NewError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Classify wraps an I/O failure in an Error of the given kind. A blown
// deadline is reported as RunTimeout regardless of the stage it hit, and
// errors that already carry a kind keep it.
func Classify(kind Kind, err error, format string, args ...interface{}) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(RunTimeout, err, format, args...)
	}
	return NewError(kind, err, format, args...)
}

// KindOf returns the Kind carried by err, or "" if err is not a ranking error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// Conflict is the error returned when another run already holds the lock.
func Conflict(holder string) *Error {
	return NewError(ConcurrentRunConflict, nil, "a ranking run is already in progress (%s)", holder)
}
