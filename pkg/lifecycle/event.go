package lifecycle

import (
	"sort"

	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
)

type entry[P comparable] struct {
	p        P
	priority int
	seq      uint64
}

// Event is a priority-ordered set of participants for one entity.
//
// Iteration order is ascending priority, registration order within a
// priority. A participant can be registered at most once at a time.
// Event is not safe for concurrent use.
type Event[P comparable] struct {
	entries []entry[P]
	seq     uint64
	sorted  bool
}

// NewEvent returns an empty Event.
func NewEvent[P comparable]() *Event[P] {
	return &Event[P]{sorted: true}
}

// Add registers p at priority. Registering a participant that is already
// present is an InvalidState error.
func (e *Event[P]) Add(p P, priority int) error {
	for _, en := range e.entries {
		if en.p == p {
			return errors.InvalidState("lifecycle.Event.Add", "participant %v already registered at priority %d", p, en.priority)
		}
	}
	e.seq++
	e.entries = append(e.entries, entry[P]{p: p, priority: priority, seq: e.seq})
	e.sorted = false
	return nil
}

// Remove unregisters p. It reports whether p was present; removing an
// absent participant is a no-op.
func (e *Event[P]) Remove(p P) bool {
	for i, en := range e.entries {
		if en.p == p {
			e.entries = append(e.entries[:i], e.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered participants.
func (e *Event[P]) Len() int { return len(e.entries) }

// Participants returns a snapshot of the participants in execution order.
func (e *Event[P]) Participants() []P {
	if !e.sorted {
		sort.SliceStable(e.entries, func(i, j int) bool {
			a, b := e.entries[i], e.entries[j]
			if a.priority != b.priority {
				return a.priority < b.priority
			}
			return a.seq < b.seq
		})
		e.sorted = true
	}
	out := make([]P, len(e.entries))
	for i, en := range e.entries {
		out[i] = en.p
	}
	return out
}

// Each calls fn for every participant in execution order without waiting
// on anything. Used for the non-suspending phases.
func (e *Event[P]) Each(fn func(P)) {
	for _, p := range e.Participants() {
		fn(p)
	}
}

// Sequential returns a Task that runs invoke for each participant in
// execution order, awaiting each returned Task before invoking the next
// participant. A nil Task counts as an immediately finished phase. The
// participant set is captured when the Task first runs; changes made during
// the phase apply to the next one. The first failing participant fails the
// whole Task and later participants are not invoked.
func (e *Event[P]) Sequential(invoke func(P) async.Task) async.Task {
	var chain async.Task
	return func(co *async.Coroutine) async.Result {
		if chain == nil {
			snapshot := e.Participants()
			steps := make([]async.Task, len(snapshot))
			for i, p := range snapshot {
				p := p // per-iteration copy; go directive is 1.21
				steps[i] = async.Defer(func() async.Task { return invoke(p) })
			}
			chain = async.Chain(steps...)
		}
		return chain(co)
	}
}
