// Package screen defines the navigable screen entity shared by page, modal
// and sheet containers.
//
// An [Entity] is a plain state machine. The container that owns it drives
// its phases; every phase fans out to the lifecycle participants
// registered on the entity (its view at [lifecycle.ViewPriority], then
// presenters and listeners):
//
//	Loaded ─Attach─► Attached ─Initialize─► Idle ─BeforeEnter─► Entering
//	                                          ▲                    │
//	                                 AfterExit│          AfterEnter│
//	                                          │                    ▼
//	             Released ◄─Cleanup─ Idle   Exiting ◄─BeforeExit─ Active
//
// Released is terminal; an entity is never reused after its cleanup.
package screen

import (
	"fmt"

	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/lifecycle"
)

// Kind identifies which container kind an entity belongs to.
type Kind int

const (
	Page Kind = iota
	Modal
	Sheet
)

func (k Kind) String() string {
	switch k {
	case Page:
		return "page"
	case Modal:
		return "modal"
	case Sheet:
		return "sheet"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// State is the lifecycle state of an entity.
type State int

const (
	Loaded State = iota
	Attached
	Idle
	Entering
	Active
	Exiting
	Released
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Attached:
		return "attached"
	case Idle:
		return "idle"
	case Entering:
		return "entering"
	case Active:
		return "active"
	case Exiting:
		return "exiting"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Entity is one navigable screen instance.
type Entity struct {
	id   string
	key  string
	kind Kind
	view any

	state          State
	stableState    State
	renderingOrder int
	transitioning  bool
	animType       animation.TransitionType
	progress       float64
	alpha          float64
	offset         animation.Offset
	stacked        bool

	events    *lifecycle.Event[lifecycle.Participant]
	listeners map[int]func(float64)
	nextID    int
}

// New creates an entity in the Loaded state around an instantiated view.
func New(id string, kind Kind, key string, view any) *Entity {
	return &Entity{
		id:        id,
		key:       key,
		kind:      kind,
		view:      view,
		alpha:     1,
		stacked:   true,
		events:    lifecycle.NewEvent[lifecycle.Participant](),
		listeners: make(map[int]func(float64)),
	}
}

// ID returns the entity id, stable for the entity's lifetime.
func (e *Entity) ID() string { return e.id }

// Key returns the resource key the entity was loaded from.
func (e *Entity) Key() string { return e.key }

// Kind returns the container kind.
func (e *Entity) Kind() Kind { return e.kind }

// View returns the instantiated view.
func (e *Entity) View() any { return e.view }

// State returns the lifecycle state.
func (e *Entity) State() State { return e.state }

// RenderingOrder returns the draw order assigned by the container.
func (e *Entity) RenderingOrder() int { return e.renderingOrder }

// SetRenderingOrder is called by the owning container.
func (e *Entity) SetRenderingOrder(order int) { e.renderingOrder = order }

// IsTransitioning reports whether the entity is between a Before phase
// start and the matching After phase completion.
func (e *Entity) IsTransitioning() bool { return e.transitioning }

// AnimationType returns the running transition type, or None.
func (e *Entity) AnimationType() animation.TransitionType { return e.animType }

// Progress returns the transition progress in [0, 1].
func (e *Entity) Progress() float64 { return e.progress }

// Alpha returns the alpha last set by a built-in animation.
func (e *Entity) Alpha() float64 { return e.alpha }

// Offset returns the offset last set by a built-in animation.
func (e *Entity) Offset() animation.Offset { return e.offset }

// SetAlpha implements animation.Transformable.
func (e *Entity) SetAlpha(alpha float64) { e.alpha = alpha }

// SetOffset implements animation.Transformable.
func (e *Entity) SetOffset(offset animation.Offset) { e.offset = offset }

// Stacked reports whether the entity stays in its page stack when the next
// page is pushed over it.
func (e *Entity) Stacked() bool { return e.stacked }

// SetStacked is called by the owning container before attach.
func (e *Entity) SetStacked(stacked bool) { e.stacked = stacked }

// Surface returns what built-in animations should drive: the view when it
// is Transformable, the entity itself otherwise.
func (e *Entity) Surface() animation.Transformable {
	if t, ok := e.view.(animation.Transformable); ok {
		return t
	}
	return e
}

// AnimationFor resolves the animation for one side of a transition. A view
// implementing animation.Provider is asked first; fallback is used when it
// has no opinion.
func (e *Entity) AnimationFor(t animation.TransitionType, partnerID string, fallback animation.Default) animation.Animation {
	if p, ok := e.view.(animation.Provider); ok {
		if anim := p.TransitionAnimation(t, partnerID); anim != nil {
			return anim
		}
	}
	return fallback.Build(e.Surface(), t)
}

// AddLifecycleEvent registers p to take part in this entity's phases.
func (e *Entity) AddLifecycleEvent(p lifecycle.Participant, priority int) error {
	return e.events.Add(p, priority)
}

// RemoveLifecycleEvent unregisters p. Removing an absent participant is a
// no-op that returns false.
func (e *Entity) RemoveLifecycleEvent(p lifecycle.Participant) bool {
	return e.events.Remove(p)
}

// Participants returns the registered participants in execution order.
func (e *Entity) Participants() []lifecycle.Participant {
	return e.events.Participants()
}

// OnProgress subscribes fn to transition progress changes. Returns an
// unsubscribe function.
func (e *Entity) OnProgress(fn func(progress float64)) func() {
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		delete(e.listeners, id)
	}
}

func (e *Entity) setProgress(p float64) {
	if p == e.progress {
		return
	}
	e.progress = p
	for _, l := range e.listeners {
		l(p)
	}
}

func (e *Entity) transit(op string, to State, from ...State) error {
	for _, f := range from {
		if e.state == f {
			e.state = to
			return nil
		}
	}
	return errors.InvalidState(op, "entity %s (%s) cannot move from %s to %s", e.id, e.kind, e.state, to)
}

// Attach binds the entity to its container. The view is registered as a
// participant at ViewPriority when it implements lifecycle.Participant.
func (e *Entity) Attach() error {
	if err := e.transit("screen.Entity.Attach", Attached, Loaded); err != nil {
		return err
	}
	if p, ok := e.view.(lifecycle.Participant); ok {
		return e.events.Add(p, lifecycle.ViewPriority)
	}
	return nil
}

// Initialize runs the initialize phase on every participant.
func (e *Entity) Initialize() async.Task {
	return e.phase("screen.Entity.Initialize", Attached, Idle, func(p lifecycle.Participant) async.Task {
		return p.Initialize()
	})
}

// BeforeEnter marks the entity as transitioning and runs the will-enter
// phase on every participant.
func (e *Entity) BeforeEnter(tr lifecycle.Transition, t animation.TransitionType) async.Task {
	return async.Chain(
		async.Func(func(*async.Coroutine) error {
			return e.begin("screen.Entity.BeforeEnter", Entering, t, Idle)
		}),
		e.events.Sequential(func(p lifecycle.Participant) async.Task { return p.WillEnter(tr) }),
	)
}

// Enter plays anim (nil means instant) paired with partner, driving the
// entity's progress from 0 to 1.
func (e *Entity) Enter(anim animation.Animation, partner any) async.Task {
	return e.play(anim, partner)
}

// AfterEnter notifies participants and makes the entity active. The entity
// is active even when a participant panics.
func (e *Entity) AfterEnter(tr lifecycle.Transition) {
	defer e.finish(Active)
	e.events.Each(func(p lifecycle.Participant) { p.DidEnter(tr) })
}

// BeforeExit marks the entity as transitioning and runs the will-exit phase
// on every participant.
func (e *Entity) BeforeExit(tr lifecycle.Transition, t animation.TransitionType) async.Task {
	return async.Chain(
		async.Func(func(*async.Coroutine) error {
			return e.begin("screen.Entity.BeforeExit", Exiting, t, Active, Idle)
		}),
		e.events.Sequential(func(p lifecycle.Participant) async.Task { return p.WillExit(tr) }),
	)
}

// Exit plays anim (nil means instant) paired with partner, driving the
// entity's progress from 0 to 1.
func (e *Entity) Exit(anim animation.Animation, partner any) async.Task {
	return e.play(anim, partner)
}

// AfterExit notifies participants and returns the entity to Idle.
func (e *Entity) AfterExit(tr lifecycle.Transition) {
	defer e.finish(Idle)
	e.events.Each(func(p lifecycle.Participant) { p.DidExit(tr) })
}

// Cleanup runs the cleanup phase on every participant; the entity is
// Released once it completes.
func (e *Entity) Cleanup() async.Task {
	return async.Chain(
		async.Func(func(*async.Coroutine) error {
			switch e.state {
			case Loaded, Attached, Idle:
				return nil
			}
			return errors.InvalidState("screen.Entity.Cleanup", "entity %s is %s", e.id, e.state)
		}),
		e.events.Sequential(func(p lifecycle.Participant) async.Task { return p.Cleanup() }),
		async.Do(func() {
			e.state = Released
			clear(e.listeners)
		}),
	)
}

// Settle completes an interrupted transition in its target state without
// notifying participants: Entering becomes Active and Exiting becomes Idle.
func (e *Entity) Settle() {
	if !e.transitioning {
		return
	}
	switch e.state {
	case Entering:
		e.finish(Active)
	case Exiting:
		e.finish(Idle)
	}
}

// Rollback abandons a failed transition: the entity returns to the state
// it had when its Before phase started and stops transitioning.
func (e *Entity) Rollback() {
	if !e.transitioning {
		return
	}
	e.state = e.stableState
	e.transitioning = false
	e.animType = animation.None
}

func (e *Entity) begin(op string, to State, t animation.TransitionType, from ...State) error {
	prev := e.state
	if err := e.transit(op, to, from...); err != nil {
		return err
	}
	e.stableState = prev
	e.transitioning = true
	e.animType = t
	e.setProgress(0)
	return nil
}

func (e *Entity) finish(to State) {
	e.state = to
	e.transitioning = false
	e.animType = animation.None
}

func (e *Entity) phase(op string, from, to State, invoke func(lifecycle.Participant) async.Task) async.Task {
	return async.Chain(
		async.Func(func(*async.Coroutine) error {
			if e.state != from {
				return errors.InvalidState(op, "entity %s is %s, want %s", e.id, e.state, from)
			}
			return nil
		}),
		e.events.Sequential(invoke),
		async.Do(func() { e.state = to }),
	)
}

func (e *Entity) play(anim animation.Animation, partner any) async.Task {
	player := animation.NewPlayer(anim)
	return async.Chain(
		async.Do(func() { player.Setup(partner) }),
		player.Task(e.setProgress),
	)
}
