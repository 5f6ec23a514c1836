// Package assets defines the resource loader containers consume and an
// in-memory implementation of it.
//
// Containers never look inside a loaded resource: they read a handle's
// [Status], take its [Handle.Result] to build an entity, and give the handle
// back through [Loader.Release] once the entity's cleanup has finished.
package assets

import (
	"fmt"
	"sync"
)

// Status is the state of a load.
type Status int

const (
	Pending Status = iota
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Loader loads resources by opaque key.
type Loader interface {
	// Load resolves the key before returning.
	Load(key string) *Handle
	// LoadAsync returns a handle that may still be Pending; it settles later,
	// possibly from another goroutine.
	LoadAsync(key string) *Handle
	// Release gives a loaded resource back.
	Release(h *Handle)
}

// Instantiable is implemented by resources that create a fresh view per
// entity rather than being used as the view directly.
type Instantiable interface {
	Instantiate() any
}

// Handle tracks one load. It is safe for concurrent use so loaders may
// settle it from a worker goroutine.
type Handle struct {
	key string

	mu     sync.Mutex
	status Status
	result any
	err    error
	done   []func(*Handle)
}

// NewHandle returns a pending handle for key.
func NewHandle(key string) *Handle {
	return &Handle{key: key}
}

// Key returns the key the handle loads.
func (h *Handle) Key() string { return h.key }

// Status returns the load status.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Result returns the loaded resource, or nil unless Success.
func (h *Handle) Result() any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Err returns the load failure, or nil unless Failed.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// OnSettled registers fn to run once the handle leaves Pending. If it
// already did, fn runs immediately. fn runs on the goroutine that settles.
func (h *Handle) OnSettled(fn func(*Handle)) {
	h.mu.Lock()
	if h.status == Pending {
		h.done = append(h.done, fn)
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()
	fn(h)
}

// Succeed settles the handle with result. Returns false if already settled.
func (h *Handle) Succeed(result any) bool {
	return h.settle(Success, result, nil)
}

// Fail settles the handle with err. Returns false if already settled.
func (h *Handle) Fail(err error) bool {
	if err == nil {
		err = fmt.Errorf("load %q failed", h.key)
	}
	return h.settle(Failed, nil, err)
}

func (h *Handle) settle(status Status, result any, err error) bool {
	h.mu.Lock()
	if h.status != Pending {
		h.mu.Unlock()
		return false
	}
	h.status = status
	h.result = result
	h.err = err
	callbacks := h.done
	h.done = nil
	h.mu.Unlock()
	for _, cb := range callbacks {
		cb(h)
	}
	return true
}

// View returns what an entity should use as its view: a fresh instance
// when the result is Instantiable, the result itself otherwise.
func View(h *Handle) any {
	r := h.Result()
	if inst, ok := r.(Instantiable); ok {
		return inst.Instantiate()
	}
	return r
}
