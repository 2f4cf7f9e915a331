package ssa

import (
	"fmt"

	"github.com/pkg/errors"
)

// DiagnosticKind is the closed set of ways construction can fail or, in the
// InvariantViolation case, the closed set of internal bugs that can be
// detected.
type DiagnosticKind byte

const (
	// TypeMismatch signals operand types incompatible with the requested
	// operation.
	TypeMismatch DiagnosticKind = iota + 1
	// UnsupportedOperation signals a forbidden operand kind: bitwise-on-float,
	// trig-on-int, array dimension >= 2, and similar declared constraints.
	UnsupportedOperation
	// InvariantViolation is always a bug in the caller or in this package.
	// Construction calls raise it by panic; NewMethodBuilder and
	// Context.FinalizeMethodBuilder return it as an error value instead.
	InvariantViolation
	// NotInitialized names a read of an SSA variable with no definition
	// reaching the reading block from the entry. No code path in this
	// package raises it: such a read yields an Undef value.
	NotInitialized
)

func (k DiagnosticKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case UnsupportedOperation:
		return "UnsupportedOperation"
	case InvariantViolation:
		return "InvariantViolation"
	case NotInitialized:
		return "NotInitialized"
	default:
		return "Unknown"
	}
}

// Diagnostic is the single location-carrying error value raised for every
// user-facing construction failure. The Create* construction methods return
// no error value: they raise TypeMismatch, UnsupportedOperation and
// InvariantViolation by panic(*Diagnostic), which a caller recovers at the
// construction call (fail-fast, no deferred buffer).
type Diagnostic struct {
	Location Location
	Kind     DiagnosticKind
	Message  string

	// cause, when set, is a pkg/errors-wrapped stack trace. Only
	// InvariantViolation diagnostics carry one: a TypeMismatch raised because
	// a caller passed badly typed operands is not a bug worth a stack trace,
	// but an invariant violated inside this package always is.
	cause error
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.cause != nil {
		return fmt.Sprintf("%s at %s: %s: %+v", d.Kind, d.Location, d.Message, d.cause)
	}
	return fmt.Sprintf("%s at %s: %s", d.Kind, d.Location, d.Message)
}

// Unwrap lets errors.Is/errors.As reach the wrapped cause, if any.
func (d *Diagnostic) Unwrap() error { return d.cause }

func newDiagnostic(loc Location, kind DiagnosticKind, format string, args ...any) *Diagnostic {
	return &Diagnostic{Location: loc, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// typeMismatch builds a TypeMismatch Diagnostic.
func typeMismatch(loc Location, format string, args ...any) *Diagnostic {
	return newDiagnostic(loc, TypeMismatch, format, args...)
}

// unsupported builds an UnsupportedOperation Diagnostic.
func unsupported(loc Location, format string, args ...any) *Diagnostic {
	return newDiagnostic(loc, UnsupportedOperation, format, args...)
}

// notInitialized builds a NotInitialized Diagnostic.
func notInitialized(loc Location, format string, args ...any) *Diagnostic {
	return newDiagnostic(loc, NotInitialized, format, args...)
}

// invariantViolation panics with an InvariantViolation Diagnostic carrying a
// stack-trace-annotated cause. Internal invariant breaches are always bugs,
// never recoverable at the value level.
func invariantViolation(loc Location, format string, args ...any) {
	d := newDiagnostic(loc, InvariantViolation, format, args...)
	d.cause = errors.WithStack(errors.New(d.Message))
	panic(d)
}
