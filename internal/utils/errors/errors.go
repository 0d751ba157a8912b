// Package errors provides enhanced error handling for the cultivation
// planner, carrying a machine-readable Kind and a human-readable message
// alongside the underlying cause, with support for stack traces and
// structured metadata (offending entity ids, shortfall values).
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Kind enumerates the error taxonomy of the optimization kernel. Kinds are
// not Go types: every domain failure is a *Error carrying one of these as
// its Kind, so callers branch on Kind rather than on concrete type.
type Kind string

const (
	// KindInputValidation marks malformed or contradictory inputs. The
	// kernel never starts when this kind is returned.
	KindInputValidation Kind = "INPUT_VALIDATION"
	// KindInfeasibleConstraint marks a candidate or operator result that
	// violates feasibility. Always recovered locally; never surfaced to
	// the caller of the kernel.
	KindInfeasibleConstraint Kind = "INFEASIBLE_CONSTRAINT"
	// KindDeadlineMiss marks a GDDEvaluator run that ran out of weather
	// before reaching the required GDD threshold.
	KindDeadlineMiss Kind = "DEADLINE_MISS"
	// KindWeatherGap marks a missing weather record on a date the
	// GDDEvaluator needed to iterate through.
	KindWeatherGap Kind = "WEATHER_GAP"
	// KindCancelled marks a driver run stopped by an external
	// cancellation signal. Not an error condition.
	KindCancelled Kind = "CANCELLED"
	// KindTimedOut marks a driver run stopped by its wall-clock budget.
	// Not an error condition.
	KindTimedOut Kind = "TIMED_OUT"
	// KindEmptySolution marks a successful run that found no feasible
	// allocation.
	KindEmptySolution Kind = "EMPTY_SOLUTION"
	// KindInternal marks a programmer error (invariant breach) rather
	// than a domain-level failure.
	KindInternal Kind = "INTERNAL"
)

// Error implements the enhanced error type carrying a Kind, metadata, and
// an optional captured stack trace.
type Error struct {
	cause      error
	kind       Kind
	metadata   map[string]interface{}
	stackTrace []string
}

// Error implements the error interface with formatted output including
// kind, metadata and stack trace when present.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %v", e.kind, e.cause)

	if len(e.metadata) > 0 {
		fmt.Fprintf(&b, "\nmetadata: %+v", e.metadata)
	}

	if len(e.stackTrace) > 0 {
		b.WriteString("\nstack:\n\t")
		b.WriteString(strings.Join(e.stackTrace, "\n\t"))
	}

	return b.String()
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the error's taxonomy kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Metadata returns the structured context attached to the error.
func (e *Error) Metadata() map[string]interface{} {
	return e.metadata
}

func captureStack(skip int) []string {
	var trace []string
	for i := skip; i < skip+5; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		trace = append(trace, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
	}
	return trace
}

// New creates a new domain error of the given kind with a message and
// optional structured metadata (offending entity ids, shortfall values).
func New(kind Kind, message string, metadata map[string]interface{}) error {
	if message == "" {
		message = string(kind)
	}

	return &Error{
		cause:      errors.New(message),
		kind:       kind,
		metadata:   metadata,
		stackTrace: captureStack(2),
	}
}

// Wrap attaches a kind and message to an existing error, preserving its
// chain for errors.Is/errors.As.
func Wrap(kind Kind, err error, message string, metadata map[string]interface{}) error {
	if err == nil {
		return nil
	}

	wrapped := fmt.Errorf("%s: %w", message, err)

	return &Error{
		cause:      wrapped,
		kind:       kind,
		metadata:   metadata,
		stackTrace: captureStack(2),
	}
}

// GetKind extracts the Kind from an error, returning KindInternal if the
// error does not carry one.
func GetKind(err error) Kind {
	if err == nil {
		return ""
	}

	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.kind
	}

	return KindInternal
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}

	return GetKind(err) == kind
}
