// Package navigation orchestrates the transitions of screen containers.
//
// Three container kinds share one engine:
//
//   - [PageContainer]: a stack of full-screen pages. Optionally
//     non-stacking, in which case every push replaces the current page.
//   - [ModalContainer]: a stack of overlays with dimming backdrops managed
//     by a [BackdropHandler].
//   - [SheetContainer]: a registry of mutually exclusive sheets with one
//     active sheet.
//
// Every container allows one transition at a time. A transition loads its
// resource, runs the lifecycle phases of the entering and exiting entities,
// plays their animations, and only then mutates the stack. Resources of
// evicted entities are released after their cleanup phase completes.
//
// # Registry
//
// Containers are created from a [Registry], which carries the scheduler,
// the asset loader and the logger they share:
//
//	sched := async.NewScheduler()
//	reg := navigation.NewRegistry(sched, loader,
//	    navigation.WithLogger(logger),
//	    navigation.WithInteractionPolicy(navigation.Global),
//	)
//	pages, _ := reg.NewPageContainer("main")
//	h, err := pages.Push("home", true)
//	for !h.IsDone() {
//	    sched.Tick()
//	}
//
// # Back Handling
//
// [Registry.HandleBack] pops the topmost non-empty modal container, falling
// back to the most recently registered page container that can pop.
package navigation

import (
	"log/slog"

	"go.uber.org/atomic"

	"github.com/go-drift/navstack/pkg/assets"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/logging"
	"github.com/go-drift/navstack/pkg/screen"
)

// Container is the part of the API every container kind shares.
type Container interface {
	Name() string
	Kind() screen.Kind
	IsInTransition() bool
	Interactable() bool
	SetInteractable(interactable bool)
	Len() int
	AddCallbackReceiver(r CallbackReceiver)
	RemoveCallbackReceiver(r CallbackReceiver)
}

// Registry owns the collaborators containers share and the containers
// themselves, by name.
type Registry struct {
	scheduler *async.Scheduler
	loader    assets.Loader
	logger    *slog.Logger
	policy    InteractionPolicy
	global    *atomic.Int32

	containers map[string]Container
	order      []Container
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger containers write to. The default discards.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithInteractionPolicy sets how far a transition's input lock reaches.
func WithInteractionPolicy(p InteractionPolicy) RegistryOption {
	return func(r *Registry) { r.policy = p }
}

// NewRegistry creates a registry whose containers run on scheduler and load
// through loader.
func NewRegistry(scheduler *async.Scheduler, loader assets.Loader, opts ...RegistryOption) *Registry {
	r := &Registry{
		scheduler:  scheduler,
		loader:     loader,
		logger:     logging.Discard(),
		global:     atomic.NewInt32(0),
		containers: make(map[string]Container),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scheduler returns the scheduler transitions run on.
func (r *Registry) Scheduler() *async.Scheduler { return r.scheduler }

// Loader returns the asset loader.
func (r *Registry) Loader() assets.Loader { return r.loader }

// Logger returns the logger.
func (r *Registry) Logger() *slog.Logger { return r.logger }

// Policy returns the interaction policy.
func (r *Registry) Policy() InteractionPolicy { return r.policy }

// Container returns the container registered under name.
func (r *Registry) Container(name string) (Container, bool) {
	c, ok := r.containers[name]
	return c, ok
}

// Containers returns every container in registration order.
func (r *Registry) Containers() []Container {
	return append([]Container(nil), r.order...)
}

// Remove forgets the container registered under name. A container in
// transition cannot be removed.
func (r *Registry) Remove(name string) error {
	const op = "navigation.Registry.Remove"
	c, ok := r.containers[name]
	if !ok {
		return errors.InvalidState(op, "no container named %q", name)
	}
	if c.IsInTransition() {
		return errors.InvalidState(op, "container %q is in transition", name)
	}
	delete(r.containers, name)
	for i, existing := range r.order {
		if existing == c {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Registry) register(op string, c Container) error {
	if c.Name() == "" {
		return errors.New(op, errors.KindConfig, errEmptyName)
	}
	if _, dup := r.containers[c.Name()]; dup {
		return errors.InvalidState(op, "container %q already registered", c.Name())
	}
	r.containers[c.Name()] = c
	r.order = append(r.order, c)
	return nil
}

func (r *Registry) newLock() *interactionLock {
	return newInteractionLock(r.policy, r.global)
}

// HandleBack pops the topmost non-empty modal container or, when there is
// none, the most recently registered page container holding more than one
// page. It returns a nil handle when there is nothing to pop.
func (r *Registry) HandleBack() (*async.Handle, error) {
	for i := len(r.order) - 1; i >= 0; i-- {
		if m, ok := r.order[i].(*ModalContainer); ok && m.Len() > 0 {
			return m.Pop(true)
		}
	}
	for i := len(r.order) - 1; i >= 0; i-- {
		if p, ok := r.order[i].(*PageContainer); ok && p.CanPop() {
			return p.Pop(true)
		}
	}
	return nil, nil
}
