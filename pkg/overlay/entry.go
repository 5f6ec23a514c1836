// Package overlay provides the ordered layer stack modal containers draw
// from: modal entities and their dimming backdrops share one z-order.
package overlay

import (
	"sync/atomic"
)

// nextEntryID is an atomic counter for unique entry IDs.
var nextEntryID uint64

// NewEntry creates an Entry with a unique ID.
// Always use this constructor rather than literal struct creation
// to ensure proper keying.
func NewEntry(name string, payload any) *Entry {
	return &Entry{
		Name:    name,
		Payload: payload,
		id:      atomic.AddUint64(&nextEntryID, 1),
	}
}

// Entry represents a single layer in a Stack.
type Entry struct {
	// Name labels the layer in logs and diagnostics.
	Name string

	// Payload is what the layer draws: a modal entity or a *Barrier.
	Payload any

	// Opaque indicates the layer blocks input from reaching layers below.
	Opaque bool

	stack *Stack
	id    uint64
}

// ID returns the entry's unique id.
func (e *Entry) ID() uint64 { return e.id }

// Inserted reports whether the entry currently belongs to a stack.
func (e *Entry) Inserted() bool { return e.stack != nil }

// Remove removes this entry from its stack.
// Safe to call if not inserted or already removed (no-op).
func (e *Entry) Remove() {
	if e.stack == nil {
		return
	}
	e.stack.remove(e)
}
