package navigation

import (
	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/assets"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/lifecycle"
	"github.com/go-drift/navstack/pkg/screen"
)

// stackContainer is the push/pop engine behind page and modal containers.
// Modal containers additionally carry layers and a backdrop handler.
type stackContainer struct {
	containerBase

	entities  []*screen.Entity
	preloaded map[string]*assets.Handle

	layers   *ModalLayers
	backdrop BackdropHandler
}

func newStackContainer(reg *Registry, name string, kind screen.Kind, typeName string, opts []ContainerOption) *stackContainer {
	return &stackContainer{
		containerBase: newContainerBase(reg, name, kind, typeName, opts),
		preloaded:     make(map[string]*assets.Handle),
	}
}

// Len returns the number of entities in the stack.
func (c *stackContainer) Len() int { return len(c.entities) }

// Entities returns the stack, bottom first.
func (c *stackContainer) Entities() []*screen.Entity {
	return append([]*screen.Entity(nil), c.entities...)
}

// Top returns the topmost entity, or nil when the stack is empty.
func (c *stackContainer) Top() *screen.Entity {
	if len(c.entities) == 0 {
		return nil
	}
	return c.entities[len(c.entities)-1]
}

// Entity returns the entity with id.
func (c *stackContainer) Entity(id string) (*screen.Entity, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.entities[i], true
	}
	return nil, false
}

func (c *stackContainer) indexOf(id string) int {
	for i, e := range c.entities {
		if e.ID() == id {
			return i
		}
	}
	return -1
}

func (c *stackContainer) at(index int) *screen.Entity {
	if index < 0 || index >= len(c.entities) {
		return nil
	}
	return c.entities[index]
}

// refreshOrder assigns rendering orders: stack positions for pages, layer
// positions for modals.
func (c *stackContainer) refreshOrder() {
	for i, e := range c.entities {
		if c.layers != nil {
			if entry := c.layers.EntryFor(e); entry != nil {
				e.SetRenderingOrder(c.layers.Stack.IndexOf(entry))
				continue
			}
		}
		e.SetRenderingOrder(i)
	}
}

func (c *stackContainer) push(key string, animate bool, opts []PushOption) (*async.Handle, error) {
	op := c.op("Push")
	if c.inTransition {
		return nil, c.busy(op)
	}
	o := pushOptions{stack: true}
	for _, opt := range opts {
		opt(&o)
	}
	id := c.newID(o)
	if c.indexOf(id) >= 0 {
		return nil, c.invalid(op, "entity %q is already in the stack", id)
	}

	c.begin(op, "key", key, "id", id, "animate", animate)
	var (
		enter        *screen.Entity
		ctx          pushContext
		evicted      *screen.Entity
		staged       bool
		mutated      bool
		backdropDone bool
	)
	task := async.Chain(
		c.loadEntity(op, key, id, o, &enter),
		async.Defer(func() async.Task { return enter.Initialize() }),
		async.Do(func() {
			ctx = newPushContext(c.entities, enter)
			c.receivers.each(func(r CallbackReceiver) { r.BeforePush(ctx.enter, ctx.exit) })
		}),
		async.Defer(func() async.Task {
			var exitTask async.Task
			if ctx.exit != nil {
				exitTask = ctx.exit.BeforeExit(lifecycle.Transition{Op: lifecycle.Push, PartnerID: id}, animation.PushExit)
			}
			enterTask := enter.BeforeEnter(lifecycle.Transition{Op: lifecycle.Push, PartnerID: idOf(ctx.exit)}, animation.PushEnter)
			return async.All(op+"/before", exitTask, enterTask)
		}),
		async.Defer(func() async.Task {
			staged = true
			return c.pushAnimations(op, ctx, animate)
		}),
		async.Do(func() {
			c.entities = append(c.entities, enter)
			if ctx.exit != nil && (!c.opts.stacking || !ctx.exit.Stacked()) {
				c.entities = removeEntity(c.entities, ctx.exit)
				evicted = ctx.exit
			}
			mutated = true
			c.refreshOrder()
			if ctx.exit != nil {
				ctx.exit.AfterExit(lifecycle.Transition{Op: lifecycle.Push, PartnerID: id})
			}
			enter.AfterEnter(lifecycle.Transition{Op: lifecycle.Push, PartnerID: idOf(ctx.exit)})
		}),
		async.Defer(func() async.Task {
			backdropDone = true
			if c.backdrop == nil {
				return nil
			}
			return c.backdrop.AfterEnter(c.layers, enter, ctx.enterIndex, animate)
		}),
		async.Do(func() {
			c.receivers.each(func(r CallbackReceiver) { r.AfterPush(ctx.enter, ctx.exit) })
		}),
		async.Defer(func() async.Task {
			e := evicted
			evicted = nil
			return c.dispose(op, e)
		}),
		func(co *async.Coroutine) async.Result {
			c.end(op)
			co.SetValue(enter)
			return co.End()
		},
	)
	return c.reg.scheduler.Run(op, async.OnFault(task, func(err error) {
		if !mutated {
			rollback(enter, ctx.exit)
			if staged && c.layers != nil {
				if c.backdrop != nil {
					c.backdrop.CancelEnter(c.layers, enter, ctx.enterIndex)
				}
				c.layers.removeModal(enter)
				c.refreshOrder()
			}
			c.disposeLater(op, enter)
		} else {
			settleEntities(enter, ctx.exit)
			if !backdropDone && c.backdrop != nil {
				c.runDetached(op+"/backdrop", c.backdrop.AfterEnter(c.layers, enter, ctx.enterIndex, false))
			}
			c.disposeLater(op, evicted)
		}
		c.fail(op, key, err)
	})), nil
}

func (c *stackContainer) pushAnimations(op string, ctx pushContext, animate bool) async.Task {
	enter, exit := ctx.enter, ctx.exit
	var backdropTask, exitTask async.Task
	if c.layers != nil {
		c.layers.insertModal(enter)
		c.refreshOrder()
		if c.backdrop != nil {
			backdropTask = c.backdrop.BeforeEnter(c.layers, enter, ctx.enterIndex, animate)
		}
	}
	if exit != nil {
		exitTask = exit.Exit(c.animationFor(exit, animation.PushExit, enter.ID(), animate), enter.View())
	}
	enterTask := enter.Enter(c.animationFor(enter, animation.PushEnter, idOf(exit), animate), viewOf(exit))
	return async.All(op+"/animation", backdropTask, exitTask, enterTask)
}

func (c *stackContainer) pop(animate bool, opts []PopOption) (*async.Handle, error) {
	op := c.op("Pop")
	if c.inTransition {
		return nil, c.busy(op)
	}
	o := popOptions{count: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.to != "" {
		i := c.indexOf(o.to)
		if i < 0 {
			return nil, c.invalid(op, "no entity %q in the stack", o.to)
		}
		o.count = len(c.entities) - 1 - i
	}
	ctx, err := newPopContext(c.entities, o.count)
	if err != nil {
		if nerr, ok := err.(*errors.NavError); ok {
			nerr.Op = op
			nerr.Container = c.name
		}
		return nil, err
	}

	top := ctx.exits[0]
	exitTr := lifecycle.Transition{Op: lifecycle.Pop, PartnerID: idOf(ctx.enter)}
	enterTr := lifecycle.Transition{Op: lifecycle.Pop, PartnerID: top.ID()}
	c.begin(op, "id", top.ID(), "count", len(ctx.exits), "animate", animate)
	var (
		staged, mutated, backdropDone bool
		removed                       []*screen.Entity
	)
	task := async.Chain(
		async.Do(func() {
			c.receivers.each(func(r CallbackReceiver) { r.BeforePop(ctx.enter, ctx.exits) })
		}),
		async.Defer(func() async.Task {
			before := make([]async.Task, 0, len(ctx.exits)+1)
			for _, e := range ctx.exits {
				before = append(before, e.BeforeExit(exitTr, animation.PopExit))
			}
			if ctx.enter != nil {
				before = append(before, ctx.enter.BeforeEnter(enterTr, animation.PopEnter))
			}
			return async.All(op+"/before", before...)
		}),
		async.Defer(func() async.Task {
			staged = true
			return c.popAnimations(op, ctx, animate)
		}),
		async.Do(func() {
			for _, e := range ctx.exits {
				c.entities = removeEntity(c.entities, e)
				if c.layers != nil {
					c.layers.removeModal(e)
				}
			}
			mutated = true
			removed = ctx.exits
			c.refreshOrder()
			for _, e := range ctx.exits {
				e.AfterExit(exitTr)
			}
			if ctx.enter != nil {
				ctx.enter.AfterEnter(enterTr)
			}
		}),
		async.Defer(func() async.Task {
			backdropDone = true
			return c.popBackdrops(ctx, animate)
		}),
		async.Do(func() {
			c.receivers.each(func(r CallbackReceiver) { r.AfterPop(ctx.enter, ctx.exits) })
		}),
		async.Defer(func() async.Task {
			steps := make([]async.Task, len(removed))
			for i, e := range removed {
				steps[i] = c.dispose(op, e)
			}
			removed = nil
			return async.Chain(steps...)
		}),
		func(co *async.Coroutine) async.Result {
			c.end(op)
			if ctx.enter != nil {
				co.SetValue(ctx.enter)
			}
			return co.End()
		},
	)
	return c.reg.scheduler.Run(op, async.OnFault(task, func(err error) {
		if !mutated {
			rollback(ctx.exits...)
			rollback(ctx.enter)
			if staged && c.backdrop != nil {
				for i := len(ctx.exits) - 1; i >= 0; i-- {
					c.backdrop.CancelExit(c.layers, ctx.exits[i], ctx.exitIndex(i))
				}
				c.refreshOrder()
			}
		} else {
			settleEntities(ctx.exits...)
			settleEntities(ctx.enter)
			if !backdropDone {
				c.runDetached(op+"/backdrop", c.popBackdrops(ctx, false))
			}
			c.disposeLater(op, removed...)
		}
		c.fail(op, top.Key(), err)
	})), nil
}

func (c *stackContainer) popBackdrops(ctx popContext, animate bool) async.Task {
	if c.backdrop == nil {
		return nil
	}
	steps := make([]async.Task, len(ctx.exits))
	for i, e := range ctx.exits {
		steps[i] = c.backdrop.AfterExit(c.layers, e, ctx.exitIndex(i), animate && i == 0)
	}
	return async.Chain(steps...)
}

// popAnimations plays the topmost exit against the enter. Deeper exits
// leave without an animation.
func (c *stackContainer) popAnimations(op string, ctx popContext, animate bool) async.Task {
	tasks := make([]async.Task, 0, len(ctx.exits)+2)
	if c.backdrop != nil {
		steps := make([]async.Task, len(ctx.exits))
		for i, e := range ctx.exits {
			steps[i] = c.backdrop.BeforeExit(c.layers, e, ctx.exitIndex(i), animate && i == 0)
		}
		tasks = append(tasks, async.Chain(steps...))
	}
	top := ctx.exits[0]
	tasks = append(tasks, top.Exit(c.animationFor(top, animation.PopExit, idOf(ctx.enter), animate), viewOf(ctx.enter)))
	for _, e := range ctx.exits[1:] {
		tasks = append(tasks, e.Exit(nil, nil))
	}
	if ctx.enter != nil {
		tasks = append(tasks, ctx.enter.Enter(c.animationFor(ctx.enter, animation.PopEnter, top.ID(), animate), top.View()))
	}
	return async.All(op+"/animation", tasks...)
}

func (c *stackContainer) preload(key string, opts []PushOption) (*async.Handle, error) {
	op := c.op("Preload")
	if _, dup := c.preloaded[key]; dup {
		return nil, c.invalid(op, "key %q is already preloaded", key)
	}
	var o pushOptions
	for _, opt := range opts {
		opt(&o)
	}
	var h *assets.Handle
	if o.loadAsync {
		h = c.reg.loader.LoadAsync(key)
	} else {
		h = c.reg.loader.Load(key)
	}
	c.preloaded[key] = h
	c.reg.logger.Debug("preload started", "container", c.name, "key", key)
	return c.reg.scheduler.Run(op, async.OnFault(awaitAsset(op, c.name, key, h), func(err error) {
		if c.preloaded[key] == h {
			delete(c.preloaded, key)
		}
		c.reg.logger.Warn("preload failed", "container", c.name, "key", key, "error", err)
	})), nil
}

func (c *stackContainer) releasePreloaded(key string) error {
	op := c.op("ReleasePreloaded")
	h, ok := c.preloaded[key]
	if !ok {
		return c.invalid(op, "key %q is not preloaded", key)
	}
	delete(c.preloaded, key)
	c.reg.loader.Release(h)
	return nil
}
