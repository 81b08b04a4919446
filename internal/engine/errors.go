package engine

import (
	"errors"
	"fmt"
)

// Kind classifies a recoverable engine failure. Every action the
// engine rejects carries exactly one kind; callers branch on it
// instead of parsing messages.
type Kind string

const (
	// KindInvalidAction: the action does not exist for the role, or its
	// arguments are malformed (unknown resource, foreign resource,
	// non-positive amount).
	KindInvalidAction Kind = "INVALID_ACTION"
	// KindInsufficientResources: the action is valid but the session
	// cannot pay for it. Nothing was deducted.
	KindInsufficientResources Kind = "INSUFFICIENT_RESOURCES"
	// KindEvidenceExhausted: every tier the method can reach is empty.
	KindEvidenceExhausted Kind = "EVIDENCE_EXHAUSTED"
	// KindInvalidState: the operation is not legal in the session's
	// current state (acting before start, advancing after resolution).
	KindInvalidState Kind = "INVALID_STATE"
	// KindConfiguration: the content library or config failed
	// validation at load. Not recoverable by a different action.
	KindConfiguration Kind = "CONFIGURATION"
)

// Error is a typed engine failure.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.msg
}

func newError(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an engine Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
