package engine

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable category of an engine error
type Kind string

const (
	KindInvalidKey                  Kind = "InvalidKey"
	KindInvalidRange                Kind = "InvalidRange"
	KindInvalidOption               Kind = "InvalidOption"
	KindUnsupportedCadenceForLength Kind = "UnsupportedCadenceForLength"
	KindInternalInvariantViolation  Kind = "InternalInvariantViolation"
)

// Sentinels for errors.Is matching on kind alone
var (
	ErrInvalidKey                  = &Error{Kind: KindInvalidKey}
	ErrInvalidRange                = &Error{Kind: KindInvalidRange}
	ErrInvalidOption               = &Error{Kind: KindInvalidOption}
	ErrUnsupportedCadenceForLength = &Error{Kind: KindUnsupportedCadenceForLength}
	ErrInternalInvariantViolation  = &Error{Kind: KindInternalInvariantViolation}
)

// Error is returned by every failing generation call
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of an engine error anywhere in err's chain
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Warning reports a degraded but successful generation
type Warning struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// NewError builds an engine error for packages that validate engine-adjacent
// options, such as MIDI rendering.
func NewError(kind Kind, format string, args ...any) *Error {
	return newError(kind, format, args...)
}
