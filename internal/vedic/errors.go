package vedic

import (
	"errors"
	"fmt"
)

// Kind classifies chart failures.
type Kind int

const (
	// KindNotInitialized means the provider was missing or not ready.
	KindNotInitialized Kind = iota + 1
	// KindCalculation means a provider call failed; the cause is wrapped.
	KindCalculation
	// KindValidation means the request was malformed.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotInitialized:
		return "not initialized"
	case KindCalculation:
		return "calculation failure"
	case KindValidation:
		return "validation failure"
	default:
		return "unknown"
	}
}

// Sentinels matching any Error of the same kind via errors.Is.
var (
	ErrNotInitialized = &Error{Kind: KindNotInitialized}
	ErrCalculation    = &Error{Kind: KindCalculation}
	ErrValidation     = &Error{Kind: KindValidation}
)

// Error is a chart failure with its kind, the failing operation and the
// underlying cause.
type Error struct {
	Kind    Kind
	Op      string // houses, ayanamsa, sample, request
	Subject string // planet or field name, if any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Subject != "" {
		msg += " " + e.Subject
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Subject == "" && t.Err == nil
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func validationError(subject, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: "request", Subject: subject, Err: fmt.Errorf(format, args...)}
}
