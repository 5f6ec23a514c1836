package overlay

import "github.com/go-drift/navstack/pkg/animation"

// Barrier is the dimming backdrop drawn behind modals. It absorbs input
// whether or not it is dismissible.
type Barrier struct {
	// MaxAlpha is the alpha the barrier fades to when fully shown.
	MaxAlpha float64

	// Dismissible allows tapping the barrier to trigger OnDismiss.
	Dismissible bool

	// OnDismiss is called when the barrier is tapped (if Dismissible=true).
	OnDismiss func()

	alpha float64
}

// Alpha returns the current alpha.
func (b *Barrier) Alpha() float64 { return b.alpha }

// SetAlpha implements animation.Transformable. Alpha is scaled by MaxAlpha.
func (b *Barrier) SetAlpha(alpha float64) { b.alpha = alpha * b.MaxAlpha }

// SetOffset implements animation.Transformable. Barriers never move.
func (b *Barrier) SetOffset(animation.Offset) {}

// Tap handles a tap on the barrier.
func (b *Barrier) Tap() bool {
	if !b.Dismissible || b.OnDismiss == nil {
		return false
	}
	b.OnDismiss()
	return true
}
