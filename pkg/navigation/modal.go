package navigation

import (
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/screen"
)

// ModalContainer is a stack of overlays drawn above the pages. Backdrops
// between them are managed by a BackdropHandler.
type ModalContainer struct {
	*stackContainer
}

// NewModalContainer creates and registers a modal container.
func (r *Registry) NewModalContainer(name string, opts ...ContainerOption) (*ModalContainer, error) {
	c := &ModalContainer{newStackContainer(r, name, screen.Modal, "ModalContainer", opts)}
	c.opts.stacking = true
	c.layers = newModalLayers(c.at)
	c.layers.Alpha = c.opts.alpha
	if c.opts.fade != nil {
		c.layers.Fade = *c.opts.fade
	}
	if c.opts.dismiss {
		c.layers.OnDismiss = c.dismiss
	}
	c.layers.Stack.OnChange(c.refreshOrder)
	c.backdrop = c.opts.backdrop
	if c.backdrop == nil {
		c.backdrop = NewPerModal()
	}
	if err := r.register(c.op("New"), c); err != nil {
		return nil, err
	}
	return c, nil
}

// Push loads key and shows it as the new top modal. The returned handle
// completes with the pushed *screen.Entity.
func (c *ModalContainer) Push(key string, animate bool, opts ...PushOption) (*async.Handle, error) {
	return c.push(key, animate, opts)
}

// Pop closes the top modal, or several with PopCount and PopTo. Only the
// topmost closing modal animates.
func (c *ModalContainer) Pop(animate bool, opts ...PopOption) (*async.Handle, error) {
	return c.pop(animate, opts)
}

// Preload starts loading key ahead of a push.
func (c *ModalContainer) Preload(key string, opts ...PushOption) (*async.Handle, error) {
	return c.preload(key, opts)
}

// ReleasePreloaded releases a resource held by Preload.
func (c *ModalContainer) ReleasePreloaded(key string) error {
	return c.releasePreloaded(key)
}

// Layers returns the container's layer stack.
func (c *ModalContainer) Layers() *ModalLayers { return c.layers }

// Backdrop returns the backdrop handler.
func (c *ModalContainer) Backdrop() BackdropHandler { return c.backdrop }

func (c *ModalContainer) dismiss() {
	if c.inTransition || !c.Interactable() || len(c.entities) == 0 {
		return
	}
	if _, err := c.pop(true, nil); err != nil {
		c.reg.logger.Warn("backdrop dismiss failed", "container", c.name, "error", err)
	}
}
