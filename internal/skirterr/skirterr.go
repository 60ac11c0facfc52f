// Package skirterr implements spec §7's error-kind taxonomy as typed
// errors carrying a stack trace, grounded on github.com/pkg/errors (an
// indirect dependency of both janelia-flyem-dvid and chazu-lignin in the
// example pack, here promoted to a direct one since the core's error path
// needs the annotation helpers throughout).
package skirterr

import "github.com/pkg/errors"

// Kind is one of spec §7's five error categories.
type Kind int

const (
	// FatalPhysical aborts the whole simulation: a Voronoi cell failed to
	// compute, an unknown neighbor id turned up during a walk, or
	// generatePosition exhausted its attempt budget.
	FatalPhysical Kind = iota

	// FatalUsage aborts: WorkerPool.Call was invoked from a thread other
	// than the constructing thread.
	FatalUsage

	// Propagated is any error raised inside a WorkerPool body: captured
	// first-error-wins, rethrown to the caller of Call after drain.
	Propagated

	// RecoverableNumeric is recovered in place: the walk's "no forward
	// intersection found" case, nudged by ε and relocated.
	RecoverableNumeric

	// SuppressedInput causes a warn-and-suppress rather than an abort:
	// sites outside the domain, duplicate sites, rows with non-positive
	// total mass.
	SuppressedInput
)

func (k Kind) String() string {
	switch k {
	case FatalPhysical:
		return "fatal-physical"
	case FatalUsage:
		return "fatal-usage"
	case Propagated:
		return "propagated"
	case RecoverableNumeric:
		return "recoverable-numeric"
	case SuppressedInput:
		return "suppressed-input"
	default:
		return "unknown"
	}
}

// Error is a stack-carrying error tagged with its spec §7 kind and the
// subsystem that raised it, so a top-level handler can surface "a single
// message naming the offending subsystem" as spec §7 requires.
type Error struct {
	Kind      Kind
	Subsystem string
	cause     error
}

func (e *Error) Error() string {
	return e.Subsystem + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a new Error with a stack trace attached at the call
// site.
func New(kind Kind, subsystem, message string) *Error {
	return &Error{Kind: kind, Subsystem: subsystem, cause: errors.New(message)}
}

// Wrap attaches kind/subsystem context to an existing error, preserving
// (or attaching, if absent) a stack trace.
func Wrap(kind Kind, subsystem string, err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Subsystem: subsystem, cause: errors.Wrap(err, message)}
}

// IsFatal reports whether kind aborts the whole simulation (spec §7:
// fatal-physical and fatal-usage are the two abort categories).
func IsFatal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == FatalPhysical || e.Kind == FatalUsage
}
