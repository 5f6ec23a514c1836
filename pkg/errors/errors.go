// Package errors provides structured error handling for navstack.
//
// Every failure that crosses a package boundary is a [*NavError] carrying an
// [ErrorKind], so callers can branch on the category with [Is] or [KindOf]
// without string matching:
//
//	if errors.Is(err, errors.KindInvalidState) {
//	    // the container was busy; try again after the transition
//	}
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindInvalidState indicates an operation requested in a state that forbids it
	// (container busy, empty stack, duplicate key, terminal handle).
	KindInvalidState
	// KindResourceLoad indicates an asset load that finished with a failed status.
	KindResourceLoad
	// KindParticipant indicates a failure raised inside a lifecycle phase.
	KindParticipant
	// KindAggregate indicates several branch failures joined by a fan-in.
	KindAggregate
	// KindCancelled indicates an operation forcibly stopped while pending.
	KindCancelled
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates an invalid configuration.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidState:
		return "invalid_state"
	case KindResourceLoad:
		return "resource_load"
	case KindParticipant:
		return "participant"
	case KindAggregate:
		return "aggregate"
	case KindCancelled:
		return "cancelled"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// NavError represents a structured error raised by a container, the scheduler
// or the configuration layer.
type NavError struct {
	// Op is the operation that failed (e.g., "navigation.PageContainer.Push").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Container is the name of the container involved, if any.
	Container string
	// Key is the resource key or entity id involved, if any.
	Key string
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *NavError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	sb.WriteString(" [")
	sb.WriteString(e.Kind.String())
	sb.WriteString("]")
	if e.Container != "" {
		sb.WriteString(" container=")
		sb.WriteString(e.Container)
	}
	if e.Key != "" {
		sb.WriteString(" key=")
		sb.WriteString(e.Key)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *NavError) Unwrap() error {
	return e.Err
}

// New creates a NavError stamped with the current time.
func New(op string, kind ErrorKind, err error) *NavError {
	return &NavError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// InvalidState creates a KindInvalidState error with a formatted reason.
func InvalidState(op, format string, args ...any) *NavError {
	return New(op, KindInvalidState, fmt.Errorf(format, args...))
}

// AggregateError joins the failures of every faulted branch of a fan-in, in
// input order.
type AggregateError struct {
	Errs []error
}

func (e *AggregateError) Error() string {
	switch len(e.Errs) {
	case 0:
		return "aggregate: no errors"
	case 1:
		return e.Errs[0].Error()
	}
	parts := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d errors occurred: %s", len(e.Errs), strings.Join(parts, "; "))
}

// Unwrap exposes every branch error to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errs
}

// First returns the first branch error, or nil.
func (e *AggregateError) First() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e.Errs[0]
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "async.Scheduler.Tick").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// KindOf returns the kind of the first NavError in err's chain. A bare
// AggregateError reports KindAggregate and a PanicError reports KindPanic.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var navErr *NavError
	if stderrors.As(err, &navErr) {
		return navErr.Kind
	}
	var aggErr *AggregateError
	if stderrors.As(err, &aggErr) {
		return KindAggregate
	}
	var panicErr *PanicError
	if stderrors.As(err, &panicErr) {
		return KindPanic
	}
	return KindUnknown
}

// Is reports whether any error in err's tree is a NavError of the given kind.
func Is(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}
	if navErr, ok := err.(*NavError); ok && navErr.Kind == kind {
		return true
	}
	switch kind {
	case KindAggregate:
		if _, ok := err.(*AggregateError); ok {
			return true
		}
	case KindPanic:
		if _, ok := err.(*PanicError); ok {
			return true
		}
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return Is(u.Unwrap(), kind)
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if Is(inner, kind) {
				return true
			}
		}
	}
	return false
}

// ErrorHandler receives errors reported by navstack.
type ErrorHandler interface {
	// HandleError is called when a transition or operation fails.
	HandleError(err *NavError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
