package gateway

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// ErrKindRejected: the processor understood and refused the request
	// (bad account number, failed BVN check, duplicate reference). The
	// caller must correct the input; retrying as-is will fail again.
	ErrKindRejected ErrorKind = "rejected"

	// ErrKindUnavailable: network failure or a 5xx from the processor.
	// Safe to retry with the same reference.
	ErrKindUnavailable ErrorKind = "unavailable"
)

// ProcessorError carries the processor's own message verbatim; it is shown
// to end users unchanged.
type ProcessorError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *ProcessorError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("processor error (%s, http %d)", e.Kind, e.StatusCode)
}

func (e *ProcessorError) Retryable() bool {
	return e.Kind == ErrKindUnavailable
}

// IsRejected reports whether err is a processor rejection (user-correctable).
func IsRejected(err error) bool {
	var pe *ProcessorError
	return errors.As(err, &pe) && pe.Kind == ErrKindRejected
}

// IsUnavailable reports whether err is a transient processor failure.
func IsUnavailable(err error) bool {
	var pe *ProcessorError
	return errors.As(err, &pe) && pe.Kind == ErrKindUnavailable
}
