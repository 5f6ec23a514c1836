package navigation

import (
	stderrors "errors"
	"time"

	"github.com/go-drift/navstack/pkg/animation"
	"github.com/go-drift/navstack/pkg/screen"
)

var errEmptyName = stderrors.New("container name must not be empty")

// ContainerOption configures a container at creation.
type ContainerOption func(*containerOptions)

type containerOptions struct {
	anim     animation.Default
	stacking bool
	backdrop BackdropHandler
	fade     *animation.Default
	alpha    float64
	dismiss  bool
}

func defaultContainerOptions(kind screen.Kind) containerOptions {
	o := containerOptions{stacking: true, alpha: 0.5}
	switch kind {
	case screen.Page:
		o.anim = animation.Default{Kind: animation.KindSlide, Length: 300 * time.Millisecond, Curve: animation.IOSNavigation, Parallax: 0.3}
	case screen.Modal:
		o.anim = animation.Default{Kind: animation.KindFade, Length: 200 * time.Millisecond, Curve: animation.EaseOut}
	case screen.Sheet:
		o.anim = animation.Default{Kind: animation.KindSlide, Length: 250 * time.Millisecond, Curve: animation.EaseOut, Direction: animation.SlideFromBottom}
	}
	return o
}

// WithAnimation sets the container's default transition animation, used
// when a view does not provide its own.
func WithAnimation(d animation.Default) ContainerOption {
	return func(o *containerOptions) { o.anim = d }
}

// WithStacking sets whether pushed pages stay below the next page. A
// non-stacking page container evicts the current page on every push.
// Ignored by modal and sheet containers.
func WithStacking(stacking bool) ContainerOption {
	return func(o *containerOptions) { o.stacking = stacking }
}

// WithBackdrop sets a modal container's backdrop handler. The default is
// PerModal.
func WithBackdrop(h BackdropHandler) ContainerOption {
	return func(o *containerOptions) { o.backdrop = h }
}

// WithBackdropFade sets the backdrop fade animation and its target alpha.
func WithBackdropFade(fade animation.Default, alpha float64) ContainerOption {
	return func(o *containerOptions) {
		o.fade = &fade
		o.alpha = alpha
	}
}

// WithDismissibleBackdrop makes tapping a backdrop pop the modal stack.
func WithDismissibleBackdrop() ContainerOption {
	return func(o *containerOptions) { o.dismiss = true }
}

// PushOption configures a single push, preload or register.
type PushOption func(*pushOptions)

type pushOptions struct {
	id        string
	loadAsync bool
	stack     bool
	onLoad    func(*screen.Entity)
}

// WithID sets the entity id. The default is a random UUID.
func WithID(id string) PushOption {
	return func(o *pushOptions) { o.id = id }
}

// WithLoadAsync loads the resource with Loader.LoadAsync.
func WithLoadAsync(loadAsync bool) PushOption {
	return func(o *pushOptions) { o.loadAsync = loadAsync }
}

// WithStack sets whether a pushed page stays in the stack when the next page
// is pushed over it. Only page containers honor it.
func WithStack(stack bool) PushOption {
	return func(o *pushOptions) { o.stack = stack }
}

// WithOnLoad is called with the entity once its resource has loaded, before
// its initialize phase. Use it to attach presenters.
func WithOnLoad(fn func(*screen.Entity)) PushOption {
	return func(o *pushOptions) { o.onLoad = fn }
}

// PopOption configures a single pop.
type PopOption func(*popOptions)

type popOptions struct {
	count int
	to    string
}

// PopCount pops n entities at once.
func PopCount(n int) PopOption {
	return func(o *popOptions) { o.count = n }
}

// PopTo pops every entity above the one with id.
func PopTo(id string) PopOption {
	return func(o *popOptions) { o.to = id }
}
