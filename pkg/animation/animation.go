// Package animation provides the transition animations played while screen
// entities enter and exit their containers.
//
// # Core Components
//
//   - [Animation]: the opaque contract a container drives. It only knows its
//     duration and how to render itself at a point in time.
//
//   - [Player]: advances one Animation by the scheduler's frame delta and
//     reports eased, clamped, monotonic progress in [0, 1].
//
//   - [Curve]: easing functions such as [EaseIn], [EaseOut], [EaseInOut]
//     and [CubicBezier], resolvable by name with [CurveByName].
//
//   - [Fade] and [Slide]: built-in animations driving a [Transformable]
//     target through a [Tween].
//
// # Basic Usage
//
//	anim := &animation.Fade{Target: view, From: 0, To: 1, Length: 250 * time.Millisecond}
//	player := animation.NewPlayer(anim)
//	player.Curve = animation.EaseOut
//	player.Setup(partnerView)
//	h := scheduler.Run("fade-in", player.Task(func(p float64) {
//	    entity.SetProgress(p)
//	}))
package animation

import (
	"fmt"
	"time"
)

// Animation is an opaque transition animation.
type Animation interface {
	// Duration returns the total length. Zero means the animation is instant.
	Duration() time.Duration
	// SetTime renders the animation at t, with 0 <= t <= Duration().
	SetTime(t time.Duration)
}

// PartnerAware is implemented by animations that render relative to the
// counterpart of a paired enter/exit transition.
type PartnerAware interface {
	// SetPartner receives the partner's view, or nil when there is none.
	SetPartner(partner any)
}

// TransitionType identifies which side of which transition an animation
// plays for.
type TransitionType int

const (
	None TransitionType = iota
	PushEnter
	PushExit
	PopEnter
	PopExit
	Enter
	Exit
)

func (t TransitionType) String() string {
	switch t {
	case None:
		return "none"
	case PushEnter:
		return "push-enter"
	case PushExit:
		return "push-exit"
	case PopEnter:
		return "pop-enter"
	case PopExit:
		return "pop-exit"
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("TransitionType(%d)", int(t))
	}
}

// IsEnter reports whether t animates an entity becoming visible.
func (t TransitionType) IsEnter() bool {
	return t == PushEnter || t == PopEnter || t == Enter
}

// Provider is implemented by views that supply their own transition
// animations. Returning nil falls back to the container default.
type Provider interface {
	TransitionAnimation(t TransitionType, partnerID string) Animation
}
