package navigation

import (
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/atomic"

	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/screen"
)

// LinkRoute maps a path pattern to a push on a named page or modal
// container.
type LinkRoute struct {
	// Path is the pattern the link must match, e.g. "/products/:id".
	Path string
	// Container names the target container.
	Container string
	// Key is the resource key to push. ":name" segments are replaced by
	// the matching path parameters, so "product/:id" pushes "product/42".
	Key     string
	Animate bool
}

// Link is a matched link.
type Link struct {
	Raw    string
	Route  LinkRoute
	Params map[string]string
	Query  url.Values
}

// Param returns a path parameter or "".
func (l Link) Param(name string) string { return l.Params[name] }

type compiledRoute struct {
	route   LinkRoute
	pattern *PathPattern
}

// LinkRouter turns links arriving from any goroutine into pushes on the
// tick thread. A link that targets a container in transition is kept and
// retried on the following ticks; a newer link replaces it.
type LinkRouter struct {
	// OnOpen is called with the pushed entity once its resource loaded.
	OnOpen func(e *screen.Entity, link Link)
	// OnError receives unmatched links and rejected pushes on the tick
	// thread.
	OnError func(err error)

	reg    *Registry
	routes []compiledRoute

	mu             sync.Mutex
	pending        *Link
	retryScheduled bool
	started        atomic.Bool
	stopCh         chan struct{}
}

// NewLinkRouter compiles routes. Routes are tried in order.
func (r *Registry) NewLinkRouter(routes ...LinkRoute) (*LinkRouter, error) {
	const op = "navigation.Registry.NewLinkRouter"
	lr := &LinkRouter{reg: r}
	for _, route := range routes {
		p, err := ParsePathPattern(route.Path)
		if err != nil {
			return nil, errors.New(op, errors.KindConfig, err)
		}
		if route.Container == "" || route.Key == "" {
			return nil, errors.New(op, errors.KindConfig, fmt.Errorf("link route %q needs a container and a key", route.Path))
		}
		lr.routes = append(lr.routes, compiledRoute{route: route, pattern: p})
	}
	return lr, nil
}

// Match resolves raw against the routes.
func (lr *LinkRouter) Match(raw string) (Link, bool) {
	path, query := ParsePath(raw)
	for _, cr := range lr.routes {
		if params, ok := cr.pattern.Match(path); ok {
			return Link{Raw: raw, Route: cr.route, Params: params, Query: query}, true
		}
	}
	return Link{}, false
}

// Open queues raw for navigation on the next tick. Safe for concurrent
// use. Returns false when no route matches.
func (lr *LinkRouter) Open(raw string) bool {
	link, ok := lr.Match(raw)
	if !ok {
		lr.handleError(errors.New("navigation.LinkRouter.Open", errors.KindInvalidState, fmt.Errorf("no route for link %q", raw)))
		return false
	}
	lr.reg.scheduler.Dispatch(func() { lr.navigate(link) })
	return true
}

// Listen opens every link received from links on a background goroutine
// until Stop is called or links is closed. Calling Listen on a started
// router is a no-op.
func (lr *LinkRouter) Listen(links <-chan string) {
	if lr.started.Swap(true) {
		return
	}
	stop := make(chan struct{})
	lr.mu.Lock()
	lr.stopCh = stop
	lr.mu.Unlock()
	go func() {
		for {
			select {
			case <-stop:
				return
			case raw, ok := <-links:
				if !ok {
					return
				}
				lr.Open(raw)
			}
		}
	}()
}

// Stop stops listening and drops a pending link.
func (lr *LinkRouter) Stop() {
	if !lr.started.Swap(false) {
		return
	}
	lr.mu.Lock()
	if lr.stopCh != nil {
		close(lr.stopCh)
		lr.stopCh = nil
	}
	lr.pending = nil
	lr.retryScheduled = false
	lr.mu.Unlock()
}

// Pending returns the link waiting for its container, if any.
func (lr *LinkRouter) Pending() (Link, bool) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	if lr.pending == nil {
		return Link{}, false
	}
	return *lr.pending, true
}

func (lr *LinkRouter) handleError(err error) {
	if lr.OnError != nil {
		lr.reg.scheduler.Dispatch(func() { lr.OnError(err) })
	}
}

func (lr *LinkRouter) navigate(link Link) {
	if lr.tryPush(link) {
		return
	}
	lr.mu.Lock()
	lr.pending = &link
	if lr.retryScheduled {
		lr.mu.Unlock()
		return
	}
	lr.retryScheduled = true
	lr.mu.Unlock()
	lr.reg.scheduler.Run("navigation.LinkRouter.retry", lr.retry())
}

// retry yields until the pending link could be pushed or was dropped.
func (lr *LinkRouter) retry() async.Task {
	return func(co *async.Coroutine) async.Result {
		lr.mu.Lock()
		pending := lr.pending
		lr.mu.Unlock()
		if pending != nil && !lr.tryPush(*pending) {
			return co.Yield(nil)
		}
		lr.mu.Lock()
		defer lr.mu.Unlock()
		if lr.pending != pending {
			// Replaced while pushing; try the newer link next tick.
			return co.Yield(nil)
		}
		lr.pending = nil
		lr.retryScheduled = false
		return co.End()
	}
}

// tryPush reports false only while the target container is in transition.
func (lr *LinkRouter) tryPush(link Link) bool {
	const op = "navigation.LinkRouter.navigate"
	c, ok := lr.reg.Container(link.Route.Container)
	if !ok {
		lr.fail(errors.InvalidState(op, "no container named %q", link.Route.Container))
		return true
	}
	if c.IsInTransition() {
		return false
	}
	key := Expand(link.Route.Key, link.Params)
	opts := []PushOption{WithOnLoad(func(e *screen.Entity) {
		if lr.OnOpen != nil {
			lr.OnOpen(e, link)
		}
	})}
	var err error
	switch c := c.(type) {
	case *PageContainer:
		_, err = c.Push(key, link.Route.Animate, opts...)
	case *ModalContainer:
		_, err = c.Push(key, link.Route.Animate, opts...)
	default:
		err = errors.InvalidState(op, "container %q cannot open links", link.Route.Container)
	}
	if err != nil {
		lr.fail(err)
	}
	return true
}

func (lr *LinkRouter) fail(err error) {
	lr.reg.logger.Warn("link dropped", "error", err)
	if lr.OnError != nil {
		lr.OnError(err)
	}
}
