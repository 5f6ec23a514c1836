package navigation

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/assets"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/screen"
)

// containerBase holds the state every container kind shares: the
// in-transition flag, interaction locking, callback receivers and the
// asset handles of live entities.
type containerBase struct {
	name     string
	kind     screen.Kind
	typeName string
	reg      *Registry
	lock     *interactionLock
	opts     containerOptions

	inTransition bool
	interactable bool
	receivers    receivers
	handles      map[*screen.Entity]*assets.Handle
}

func newContainerBase(reg *Registry, name string, kind screen.Kind, typeName string, opts []ContainerOption) containerBase {
	o := defaultContainerOptions(kind)
	for _, opt := range opts {
		opt(&o)
	}
	return containerBase{
		name:         name,
		kind:         kind,
		typeName:     typeName,
		reg:          reg,
		lock:         reg.newLock(),
		opts:         o,
		interactable: true,
		handles:      make(map[*screen.Entity]*assets.Handle),
	}
}

// Name returns the container name.
func (c *containerBase) Name() string { return c.name }

// Kind returns the kind of entities the container holds.
func (c *containerBase) Kind() screen.Kind { return c.kind }

// IsInTransition reports whether a transition is in flight.
func (c *containerBase) IsInTransition() bool { return c.inTransition }

// Interactable reports whether the container accepts input: it was not
// disabled with SetInteractable and no transition holds its lock.
func (c *containerBase) Interactable() bool {
	return c.interactable && !c.lock.locked()
}

// SetInteractable enables or disables input independently of transitions.
func (c *containerBase) SetInteractable(interactable bool) {
	c.interactable = interactable
}

// AddCallbackReceiver registers r. Adding a receiver twice is a no-op.
func (c *containerBase) AddCallbackReceiver(r CallbackReceiver) { c.receivers.add(r) }

// RemoveCallbackReceiver unregisters r.
func (c *containerBase) RemoveCallbackReceiver(r CallbackReceiver) { c.receivers.remove(r) }

// DefaultAnimation returns the animation used when a view provides none.
func (c *containerBase) DefaultAnimation() animation.Default { return c.opts.anim }

func (c *containerBase) op(method string) string {
	return "navigation." + c.typeName + "." + method
}

func (c *containerBase) invalid(op, format string, args ...any) *errors.NavError {
	err := errors.InvalidState(op, format, args...)
	err.Container = c.name
	return err
}

func (c *containerBase) busy(op string) *errors.NavError {
	return c.invalid(op, "container %q is in transition", c.name)
}

func (c *containerBase) begin(op string, attrs ...any) {
	c.inTransition = true
	c.lock.acquire()
	c.reg.logger.Debug("transition started", append([]any{"container", c.name, "op", op}, attrs...)...)
}

func (c *containerBase) end(op string) {
	c.inTransition = false
	c.lock.release()
	c.reg.logger.Debug("transition completed", "container", c.name, "op", op)
}

// fail restores the container after a faulted transition and reports err.
func (c *containerBase) fail(op, key string, err error) {
	c.inTransition = false
	c.lock.release()
	c.reg.logger.Error("transition failed", "container", c.name, "op", op, "key", key, "error", err)
	errors.ReportFault(op, c.name, err)
}

func (c *containerBase) newID(o pushOptions) string {
	if o.id != "" {
		return o.id
	}
	return uuid.NewString()
}

// animationFor resolves the animation of one side of a transition, or nil
// when the transition is not animated.
func (c *containerBase) animationFor(e *screen.Entity, t animation.TransitionType, partnerID string, animate bool) animation.Animation {
	if !animate || e == nil {
		return nil
	}
	return e.AnimationFor(t, partnerID, c.opts.anim)
}

// loadEntity loads key, builds and attaches the entity and stores it in
// *out. The entity is not initialized.
func (c *containerBase) loadEntity(op, key, id string, o pushOptions, out **screen.Entity) async.Task {
	var h *assets.Handle
	return async.Chain(
		loadAsset(op, c.name, c.reg.loader, key, o.loadAsync, &h),
		async.Func(func(*async.Coroutine) error {
			e := screen.New(id, c.kind, key, assets.View(h))
			e.SetStacked(o.stack || c.kind != screen.Page)
			if err := e.Attach(); err != nil {
				return err
			}
			c.handles[e] = h
			if o.onLoad != nil {
				o.onLoad(e)
			}
			*out = e
			return nil
		}),
	)
}

// dispose runs e's cleanup as its own operation and releases e's resource
// once that operation finished. A cleanup fault is reported and the
// resource is released anyway.
func (c *containerBase) dispose(op string, e *screen.Entity) async.Task {
	if e == nil {
		return nil
	}
	var cleanup *async.Handle
	return async.Chain(
		func(co *async.Coroutine) async.Result {
			if cleanup == nil {
				cleanup = co.Scheduler().Run(op+"/cleanup", e.Cleanup())
			}
			if !cleanup.IsDone() {
				return co.Yield(nil)
			}
			return co.End()
		},
		async.Do(func() {
			if cleanup.IsFaulted() {
				c.reg.logger.Warn("entity cleanup failed",
					"container", c.name, "id", e.ID(), "key", e.Key(), "error", cleanup.Err())
				errors.ReportFault(op, c.name, cleanup.Err())
			}
			if h, ok := c.handles[e]; ok {
				delete(c.handles, e)
				c.reg.loader.Release(h)
			}
			c.reg.logger.Debug("entity released", "container", c.name, "id", e.ID(), "key", e.Key())
		}),
	)
}

// disposeLater disposes entities a faulted transition left behind, in a
// detached operation.
func (c *containerBase) disposeLater(op string, entities ...*screen.Entity) {
	steps := make([]async.Task, 0, len(entities))
	for _, e := range entities {
		if e != nil {
			steps = append(steps, c.dispose(op, e))
		}
	}
	if len(steps) > 0 {
		c.runDetached(op+"/dispose", async.Chain(steps...))
	}
}

// runDetached runs t as its own operation. A fault is logged and reported
// but does not touch the container state.
func (c *containerBase) runDetached(op string, t async.Task) {
	if t == nil {
		return
	}
	c.reg.scheduler.Run(op, async.OnFault(t, func(err error) {
		c.reg.logger.Warn("detached step failed", "container", c.name, "op", op, "error", err)
		errors.ReportFault(op, c.name, err)
	}))
}

// loadAsset starts the load on first run and waits for it to settle.
func loadAsset(op, container string, loader assets.Loader, key string, loadAsync bool, out **assets.Handle) async.Task {
	return func(co *async.Coroutine) async.Result {
		if loadAsync {
			*out = loader.LoadAsync(key)
		} else {
			*out = loader.Load(key)
		}
		return co.Transit(awaitAsset(op, container, key, *out))
	}
}

// awaitAsset polls h once per tick until it settles. A failed load faults
// with a KindResourceLoad error. A successful load may carry a nil result.
func awaitAsset(op, container, key string, h *assets.Handle) async.Task {
	return func(co *async.Coroutine) async.Result {
		switch h.Status() {
		case assets.Pending:
			return co.Yield(nil)
		case assets.Failed:
			return co.Fail(&errors.NavError{
				Op:        op,
				Kind:      errors.KindResourceLoad,
				Container: container,
				Key:       key,
				Err:       h.Err(),
				Timestamp: time.Now(),
			})
		}
		return co.End()
	}
}

func rollback(entities ...*screen.Entity) {
	for _, e := range entities {
		if e != nil {
			e.Rollback()
		}
	}
}

func settleEntities(entities ...*screen.Entity) {
	for _, e := range entities {
		if e != nil {
			e.Settle()
		}
	}
}

func removeEntity(list []*screen.Entity, e *screen.Entity) []*screen.Entity {
	for i, x := range list {
		if x == e {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
