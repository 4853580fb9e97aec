// Package apperr defines the error taxonomy shared by every layer of libfp.
//
// Errors carry a Kind alongside the usual message so that callers — in
// particular the benchmark loop, which must keep going after a single
// (app, library) pair fails — can branch on *why* something failed without
// string-matching. The wrapping style (stack trace captured at the boundary
// where the error first surfaces) follows the teacher's
// pkg/commands/errors.go.
package apperr

import (
	"fmt"

	"github.com/go-errors/errors"
	"golang.org/x/xerrors"
)

// Kind classifies an error per spec.md §7.
type Kind int

const (
	// IO covers file-missing / unreadable conditions.
	IO Kind = iota
	// FormatMismatch covers magic/version/extension-name mismatches in the
	// binary profile format.
	FormatMismatch
	// UnsupportedKind means no strategy or step is registered for a given
	// profile kind.
	UnsupportedKind
	// UnknownApp means the ground-truth store has no entry for an app.
	UnknownApp
	// ConfigError covers bad keys/values in dataset or profile config.
	ConfigError
	// TimeoutExceeded means a benchmark task exceeded its deadline.
	TimeoutExceeded
	// Cancelled means a benchmark task observed the cancel token.
	Cancelled
	// AlgorithmFailure means a matching algorithm returned an inconsistent
	// state (e.g. a non-perfect "perfect" matching).
	AlgorithmFailure
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case FormatMismatch:
		return "FormatMismatch"
	case UnsupportedKind:
		return "UnsupportedKind"
	case UnknownApp:
		return "UnknownApp"
	case ConfigError:
		return "ConfigError"
	case TimeoutExceeded:
		return "TimeoutExceeded"
	case Cancelled:
		return "Cancelled"
	case AlgorithmFailure:
		return "AlgorithmFailure"
	default:
		return "Unknown"
	}
}

// Error is a ComplexError in the teacher's sense: it carries a Kind so that
// calling code has an easier job than matching against formatted text,
// plus an xerrors.Frame for a readable stack trace.
type Error struct {
	Kind    Kind
	Message string
	frame   xerrors.Frame
}

// New builds an Error, capturing the caller's frame.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		frame:   xerrors.Caller(1),
	}
}

func (e *Error) FormatError(p xerrors.Printer) error {
	p.Printf("%s: %s", e.Kind, e.Message)
	e.frame.Format(p)
	return nil
}

func (e *Error) Format(f fmt.State, c rune) {
	xerrors.FormatError(e, f, c)
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is(err, apperr.Sentinel(apperr.IO)) style checks work
// against a Kind wrapped in a sentinel via Sentinel.
func (e *Error) Is(target error) bool {
	if s, ok := target.(kindSentinel); ok {
		return e.Kind == s.kind
	}
	return false
}

type kindSentinel struct{ kind Kind }

func (kindSentinel) Error() string { return "" }

// Sentinel returns a comparable value usable with errors.Is to test for a
// Kind without caring about the message, e.g. errors.Is(err, apperr.Sentinel(apperr.IO)).
func Sentinel(k Kind) error { return kindSentinel{kind: k} }

// HasKind reports whether err (or any error it wraps) is an *Error of the
// given Kind.
func HasKind(err error, k Kind) bool {
	var ae *Error
	if xerrors.As(err, &ae) {
		return ae.Kind == k
	}
	return false
}

// Wrap attaches a stack trace to err for top-level reporting, mirroring the
// teacher's commands.WrapError — go-errors.Wrap refuses to return nil for a
// non-error so the nil check stays explicit.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, 1)
}
