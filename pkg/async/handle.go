package async

import (
	"fmt"

	"github.com/go-drift/navstack/pkg/errors"
)

// State is the lifecycle state of a [Handle].
//
//	           settle(value)
//	Pending ─────────────────► Completed
//	   │
//	   │       settle(err)
//	   └─────────────────────► Faulted
//
// State is write-once: a handle never leaves a terminal state.
type State int

const (
	// Pending means the operation has not finished yet.
	Pending State = iota
	// Completed means the operation finished successfully.
	Completed
	// Faulted means the operation finished with an error (including cancellation).
	Faulted
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case Faulted:
		return "faulted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Handle observes one unit of asynchronous work.
//
// Handles are owned by the tick thread: they are not safe for concurrent use.
// Code running on other goroutines must settle a [Promise] through
// [Scheduler.Dispatch].
type Handle struct {
	name   string
	state  State
	value  any
	err    error
	errs   []error
	onDone []func(*Handle)
}

func newHandle(name string) *Handle {
	return &Handle{name: name}
}

// Name returns the label given when the handle was created.
func (h *Handle) Name() string { return h.name }

// State returns the current state.
func (h *Handle) State() State { return h.state }

// IsDone reports whether the handle reached a terminal state.
func (h *Handle) IsDone() bool { return h.state != Pending }

// IsCompleted reports whether the handle completed successfully.
func (h *Handle) IsCompleted() bool { return h.state == Completed }

// IsFaulted reports whether the handle finished with an error.
func (h *Handle) IsFaulted() bool { return h.state == Faulted }

// Value returns the result payload of a completed handle, or nil.
func (h *Handle) Value() any { return h.value }

// Err returns the primary error of a faulted handle: for a fan-in this is
// the first faulted input in input order.
func (h *Handle) Err() error { return h.err }

// Errors returns every error collected by a faulted handle, in input order
// for fan-ins. The returned slice must not be modified.
func (h *Handle) Errors() []error { return h.errs }

// AggregateErr returns all collected errors joined in an AggregateError,
// or nil when the handle is not faulted.
func (h *Handle) AggregateErr() error {
	if h.state != Faulted {
		return nil
	}
	return &errors.AggregateError{Errs: h.errs}
}

// OnDone registers fn to run once the handle is terminal. If the handle is
// already terminal fn runs immediately.
func (h *Handle) OnDone(fn func(*Handle)) {
	if fn == nil {
		return
	}
	if h.IsDone() {
		fn(h)
		return
	}
	h.onDone = append(h.onDone, fn)
}

func (h *Handle) complete(value any) bool {
	return h.settle(Completed, value, nil, nil)
}

func (h *Handle) fault(err error, errs []error) bool {
	if err == nil && len(errs) > 0 {
		err = errs[0]
	}
	if err == nil {
		err = fmt.Errorf("%s: faulted without an error", h.name)
	}
	if len(errs) == 0 {
		errs = []error{err}
	}
	return h.settle(Faulted, nil, err, errs)
}

func (h *Handle) settle(state State, value any, err error, errs []error) bool {
	if h.state != Pending {
		return false
	}
	h.state = state
	h.value = value
	h.err = err
	h.errs = errs
	callbacks := h.onDone
	h.onDone = nil
	for _, cb := range callbacks {
		cb(h)
	}
	return true
}

// ValueAs returns the value of a completed handle converted to T.
func ValueAs[T any](h *Handle) (T, bool) {
	var zero T
	if h == nil || h.state != Completed {
		return zero, false
	}
	v, ok := h.value.(T)
	return v, ok
}

// Promise is the writable side of a Handle, for collaborators that finish
// work outside a Task (asset loaders, platform callbacks).
type Promise struct {
	handle *Handle
}

// NewPromise creates a pending promise.
func NewPromise(name string) *Promise {
	return &Promise{handle: newHandle(name)}
}

// Handle returns the read side.
func (p *Promise) Handle() *Handle { return p.handle }

// Resolve completes the handle with v. Returns false if already settled.
func (p *Promise) Resolve(v any) bool { return p.handle.complete(v) }

// Reject faults the handle with err. Returns false if already settled.
func (p *Promise) Reject(err error) bool { return p.handle.fault(err, nil) }

// Done returns an already-completed handle carrying v.
func Done(name string, v any) *Handle {
	h := newHandle(name)
	h.complete(v)
	return h
}

// Failed returns an already-faulted handle carrying err.
func Failed(name string, err error) *Handle {
	h := newHandle(name)
	h.fault(err, nil)
	return h
}

// WhenAll returns a handle that resolves once every input is terminal.
//
// It never short-circuits: even if the first input faults immediately, the
// combined handle stays pending until the others finish, so every branch can
// release its resources. If any input faulted, the result is faulted with
// every branch error in input order and the first of them as primary error.
// Nil inputs count as completed; no inputs yields a completed handle.
func WhenAll(handles ...*Handle) *Handle {
	all := newHandle("when_all")
	inputs := make([]*Handle, 0, len(handles))
	for _, h := range handles {
		if h != nil {
			inputs = append(inputs, h)
		}
	}
	remaining := len(inputs)
	if remaining == 0 {
		all.complete(nil)
		return all
	}

	resolve := func(*Handle) {
		remaining--
		if remaining > 0 {
			return
		}
		var errs []error
		for _, in := range inputs {
			if in.IsFaulted() {
				errs = append(errs, in.Errors()...)
			}
		}
		if len(errs) > 0 {
			all.fault(errs[0], errs)
			return
		}
		all.complete(nil)
	}
	for _, in := range inputs {
		in.OnDone(resolve)
	}
	return all
}
