package navigation

import (
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/screen"
)

// PageContainer is a stack of full-screen pages.
type PageContainer struct {
	*stackContainer
}

// NewPageContainer creates and registers a page container.
func (r *Registry) NewPageContainer(name string, opts ...ContainerOption) (*PageContainer, error) {
	c := &PageContainer{newStackContainer(r, name, screen.Page, "PageContainer", opts)}
	if err := r.register(c.op("New"), c); err != nil {
		return nil, err
	}
	return c, nil
}

// Push loads key and pushes it as the new top page. The returned handle
// completes with the pushed *screen.Entity. Push fails synchronously with
// an InvalidState error while another transition is running.
func (c *PageContainer) Push(key string, animate bool, opts ...PushOption) (*async.Handle, error) {
	return c.push(key, animate, opts)
}

// Pop removes the top page, or several with PopCount and PopTo. The
// returned handle completes with the page that became the top, or nil when
// the stack emptied.
func (c *PageContainer) Pop(animate bool, opts ...PopOption) (*async.Handle, error) {
	return c.pop(animate, opts)
}

// Preload starts loading key ahead of a push and holds the resource until
// ReleasePreloaded.
func (c *PageContainer) Preload(key string, opts ...PushOption) (*async.Handle, error) {
	return c.preload(key, opts)
}

// ReleasePreloaded releases a resource held by Preload.
func (c *PageContainer) ReleasePreloaded(key string) error {
	return c.releasePreloaded(key)
}

// CanPop reports whether a page other than the root could be popped.
func (c *PageContainer) CanPop() bool {
	return len(c.entities) > 1 && !c.inTransition
}

// Stacking reports whether pushed pages stay below the next page.
func (c *PageContainer) Stacking() bool { return c.opts.stacking }
