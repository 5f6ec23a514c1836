package navigation

import (
	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/lifecycle"
	"github.com/go-drift/navstack/pkg/screen"
)

// SheetContainer holds registered sheets of which at most one is shown.
// Showing a sheet hides the active one in the same transition.
type SheetContainer struct {
	containerBase

	sheets      map[string]*screen.Entity
	order       []string
	registering map[string]bool
	active      *screen.Entity
}

// NewSheetContainer creates and registers a sheet container.
func (r *Registry) NewSheetContainer(name string, opts ...ContainerOption) (*SheetContainer, error) {
	c := &SheetContainer{
		containerBase: newContainerBase(r, name, screen.Sheet, "SheetContainer", opts),
		sheets:        make(map[string]*screen.Entity),
		registering:   make(map[string]bool),
	}
	if err := r.register(c.op("New"), c); err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of registered sheets.
func (c *SheetContainer) Len() int { return len(c.sheets) }

// IDs returns the registered sheet ids in registration order.
func (c *SheetContainer) IDs() []string {
	return append([]string(nil), c.order...)
}

// Sheet returns the sheet registered under id.
func (c *SheetContainer) Sheet(id string) (*screen.Entity, bool) {
	e, ok := c.sheets[id]
	return e, ok
}

// Active returns the active sheet, or nil.
func (c *SheetContainer) Active() *screen.Entity { return c.active }

// ActiveID returns the id of the active sheet, or "".
func (c *SheetContainer) ActiveID() string { return idOf(c.active) }

// Register loads key and initializes it as a hidden sheet. The returned
// handle completes with the sheet id. Registering does not take the
// transition lock.
func (c *SheetContainer) Register(key string, opts ...PushOption) (*async.Handle, error) {
	op := c.op("Register")
	var o pushOptions
	for _, opt := range opts {
		opt(&o)
	}
	id := c.newID(o)
	if _, dup := c.sheets[id]; dup || c.registering[id] {
		return nil, c.invalid(op, "sheet %q is already registered", id)
	}
	c.registering[id] = true
	c.reg.logger.Debug("sheet registering", "container", c.name, "key", key, "id", id)

	var e *screen.Entity
	task := async.Chain(
		c.loadEntity(op, key, id, o, &e),
		async.Defer(func() async.Task { return e.Initialize() }),
		func(co *async.Coroutine) async.Result {
			delete(c.registering, id)
			c.sheets[id] = e
			c.order = append(c.order, id)
			e.SetRenderingOrder(len(c.order) - 1)
			co.SetValue(id)
			return co.End()
		},
	)
	return c.reg.scheduler.Run(op, async.OnFault(task, func(err error) {
		delete(c.registering, id)
		c.reg.logger.Error("sheet register failed", "container", c.name, "key", key, "error", err)
		errors.ReportFault(op, c.name, err)
		c.disposeLater(op, e)
	})), nil
}

// Show makes the sheet id active, hiding the active sheet in the same
// transition. The returned handle completes with id.
func (c *SheetContainer) Show(id string, animate bool) (*async.Handle, error) {
	op := c.op("Show")
	if c.inTransition {
		return nil, c.busy(op)
	}
	requested, ok := c.sheets[id]
	if !ok {
		return nil, c.invalid(op, "no sheet %q", id)
	}
	if requested == c.active {
		return nil, c.invalid(op, "sheet %q is already shown", id)
	}
	ctx := newSheetContext(c.active, requested)
	exitTr := lifecycle.Transition{Op: lifecycle.Show, PartnerID: id}
	enterTr := lifecycle.Transition{Op: lifecycle.Show, PartnerID: idOf(ctx.exit)}

	c.begin(op, "id", id, "animate", animate)
	var mutated bool
	task := async.Chain(
		async.Do(func() {
			c.receivers.each(func(r CallbackReceiver) { r.BeforeShow(ctx.enter, ctx.exit) })
		}),
		async.Defer(func() async.Task {
			var exitTask async.Task
			if ctx.exit != nil {
				exitTask = ctx.exit.BeforeExit(exitTr, animation.Exit)
			}
			return async.All(op+"/before", exitTask, ctx.enter.BeforeEnter(enterTr, animation.Enter))
		}),
		async.Defer(func() async.Task {
			var exitTask async.Task
			if ctx.exit != nil {
				exitTask = ctx.exit.Exit(c.animationFor(ctx.exit, animation.Exit, id, animate), ctx.enter.View())
			}
			enterTask := ctx.enter.Enter(c.animationFor(ctx.enter, animation.Enter, idOf(ctx.exit), animate), viewOf(ctx.exit))
			return async.All(op+"/animation", exitTask, enterTask)
		}),
		async.Do(func() {
			c.active = ctx.enter
			mutated = true
			if ctx.exit != nil {
				ctx.exit.AfterExit(exitTr)
			}
			ctx.enter.AfterEnter(enterTr)
			c.receivers.each(func(r CallbackReceiver) { r.AfterShow(ctx.enter, ctx.exit) })
		}),
		func(co *async.Coroutine) async.Result {
			c.end(op)
			co.SetValue(id)
			return co.End()
		},
	)
	return c.reg.scheduler.Run(op, async.OnFault(task, func(err error) {
		if !mutated {
			rollback(ctx.enter, ctx.exit)
		} else {
			settleEntities(ctx.enter, ctx.exit)
		}
		c.fail(op, requested.Key(), err)
	})), nil
}

// Hide hides the active sheet.
func (c *SheetContainer) Hide(animate bool) (*async.Handle, error) {
	op := c.op("Hide")
	if c.inTransition {
		return nil, c.busy(op)
	}
	exit := c.active
	if exit == nil {
		return nil, c.invalid(op, "no sheet is shown")
	}
	tr := lifecycle.Transition{Op: lifecycle.Hide}

	c.begin(op, "id", exit.ID(), "animate", animate)
	var mutated bool
	task := async.Chain(
		async.Do(func() {
			c.receivers.each(func(r CallbackReceiver) { r.BeforeHide(exit) })
		}),
		exit.BeforeExit(tr, animation.Exit),
		async.Defer(func() async.Task {
			return exit.Exit(c.animationFor(exit, animation.Exit, "", animate), nil)
		}),
		async.Do(func() {
			c.active = nil
			mutated = true
			exit.AfterExit(tr)
			c.receivers.each(func(r CallbackReceiver) { r.AfterHide(exit) })
		}),
		func(co *async.Coroutine) async.Result {
			c.end(op)
			co.SetValue(exit.ID())
			return co.End()
		},
	)
	return c.reg.scheduler.Run(op, async.OnFault(task, func(err error) {
		if !mutated {
			rollback(exit)
		} else {
			settleEntities(exit)
		}
		c.fail(op, exit.Key(), err)
	})), nil
}

// Unregister removes a hidden sheet, runs its cleanup and releases its
// resource. The active sheet cannot be unregistered.
func (c *SheetContainer) Unregister(id string) (*async.Handle, error) {
	op := c.op("Unregister")
	if c.inTransition {
		return nil, c.busy(op)
	}
	e, ok := c.sheets[id]
	if !ok {
		return nil, c.invalid(op, "no sheet %q", id)
	}
	if e == c.active {
		return nil, c.invalid(op, "sheet %q is shown", id)
	}
	delete(c.sheets, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	for i, sid := range c.order {
		c.sheets[sid].SetRenderingOrder(i)
	}
	return c.reg.scheduler.Run(op, async.OnFault(c.dispose(op, e), func(err error) {
		c.reg.logger.Error("sheet cleanup failed", "container", c.name, "id", id, "error", err)
		errors.ReportFault(op, c.name, err)
	})), nil
}
