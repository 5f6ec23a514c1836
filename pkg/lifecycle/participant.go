// Package lifecycle runs the phases of a screen entity across every
// participant registered on it.
//
// A participant is anything that wants to take part in an entity's
// transitions: the view itself, a presenter bound to it, or an ad-hoc
// listener. Participants register on an [Event] with an integer priority;
// each phase visits them in ascending priority, in registration order
// within one priority:
//
//	ev := lifecycle.NewEvent[lifecycle.Participant]()
//	ev.Add(view, lifecycle.ViewPriority)
//	ev.Add(presenter, 1)
//	task := ev.Sequential(func(p lifecycle.Participant) async.Task {
//	    return p.WillEnter(tr)
//	})
//
// Suspending phases (Initialize, WillEnter, WillExit, Cleanup) return an
// [async.Task] that is awaited before the next participant starts.
// DidEnter and DidExit are plain calls.
package lifecycle

import (
	"fmt"

	"github.com/go-drift/navstack/pkg/async"
)

// ViewPriority is the priority the entity's own view registers at.
// Presenters conventionally use 1 or higher so they observe the view's state.
const ViewPriority = 0

// Op is the container operation a transition belongs to.
type Op int

const (
	Push Op = iota
	Pop
	Show
	Hide
)

func (o Op) String() string {
	switch o {
	case Push:
		return "push"
	case Pop:
		return "pop"
	case Show:
		return "show"
	case Hide:
		return "hide"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Transition describes the transition a phase runs in.
type Transition struct {
	// Op is the container operation.
	Op Op
	// PartnerID is the id of the counterpart entity, or "" when there is none
	// (first push, last pop, show with nothing active).
	PartnerID string
}

// Participant takes part in the lifecycle phases of one entity.
//
// Pages and modals see Op Push or Pop; sheets see Show or Hide.
type Participant interface {
	// Initialize runs once after the entity is attached to its container.
	Initialize() async.Task

	// WillEnter runs before the entity's enter animation.
	WillEnter(tr Transition) async.Task

	// DidEnter is called after the entity became the active one.
	DidEnter(tr Transition)

	// WillExit runs before the entity's exit animation.
	WillExit(tr Transition) async.Task

	// DidExit is called after the entity stopped being the active one.
	DidExit(tr Transition)

	// Cleanup runs once before the entity's resource is released.
	Cleanup() async.Task
}

// Base provides no-op implementations of every Participant method.
// Embed it to implement only the phases you need.
type Base struct{}

// Initialize is a no-op by default.
func (Base) Initialize() async.Task { return nil }

// WillEnter is a no-op by default.
func (Base) WillEnter(Transition) async.Task { return nil }

// DidEnter is a no-op by default.
func (Base) DidEnter(Transition) {}

// WillExit is a no-op by default.
func (Base) WillExit(Transition) async.Task { return nil }

// DidExit is a no-op by default.
func (Base) DidExit(Transition) {}

// Cleanup is a no-op by default.
func (Base) Cleanup() async.Task { return nil }

// Funcs adapts closures to a Participant. Nil fields are no-ops.
//
// Register a pointer: Funcs holds funcs and is not comparable by value.
type Funcs struct {
	OnInitialize func() async.Task
	OnWillEnter  func(Transition) async.Task
	OnDidEnter   func(Transition)
	OnWillExit   func(Transition) async.Task
	OnDidExit    func(Transition)
	OnCleanup    func() async.Task
}

func (f *Funcs) Initialize() async.Task {
	if f.OnInitialize == nil {
		return nil
	}
	return f.OnInitialize()
}

func (f *Funcs) WillEnter(tr Transition) async.Task {
	if f.OnWillEnter == nil {
		return nil
	}
	return f.OnWillEnter(tr)
}

func (f *Funcs) DidEnter(tr Transition) {
	if f.OnDidEnter != nil {
		f.OnDidEnter(tr)
	}
}

func (f *Funcs) WillExit(tr Transition) async.Task {
	if f.OnWillExit == nil {
		return nil
	}
	return f.OnWillExit(tr)
}

func (f *Funcs) DidExit(tr Transition) {
	if f.OnDidExit != nil {
		f.OnDidExit(tr)
	}
}

func (f *Funcs) Cleanup() async.Task {
	if f.OnCleanup == nil {
		return nil
	}
	return f.OnCleanup()
}
