package animation

import (
	"fmt"
	"time"

	"github.com/go-drift/navstack/pkg/async"
)

// PlayerStatus represents the current state of a Player.
//
//	        Setup()          Advance() reaches Duration
//	Idle ───────────► Playing ──────────────────────────► Finished
type PlayerStatus int

const (
	// PlayerIdle means Setup has not been called yet.
	PlayerIdle PlayerStatus = iota
	// PlayerPlaying means the animation is between time 0 and its duration.
	PlayerPlaying
	// PlayerFinished means the animation reached its duration.
	PlayerFinished
)

// String returns a human-readable representation of the status.
func (s PlayerStatus) String() string {
	switch s {
	case PlayerIdle:
		return "idle"
	case PlayerPlaying:
		return "playing"
	case PlayerFinished:
		return "finished"
	default:
		return fmt.Sprintf("PlayerStatus(%d)", int(s))
	}
}

// Player drives one Animation by elapsed time.
//
// Progress is elapsed/duration clamped to [0, 1], passed through Curve and
// never allowed to decrease. A zero-duration animation finishes on its
// first Advance.
type Player struct {
	// Curve eases the reported progress. Nil means linear.
	Curve Curve

	anim      Animation
	elapsed   time.Duration
	progress  float64
	status    PlayerStatus
	listeners map[int]func(float64)
	nextID    int
}

// NewPlayer creates a player for anim. A nil anim behaves as an instant
// animation.
func NewPlayer(anim Animation) *Player {
	return &Player{
		Curve:     Linear,
		anim:      anim,
		listeners: make(map[int]func(float64)),
	}
}

// Setup rewinds the player and hands partner to the animation when it is
// PartnerAware. The animation is rendered at time 0.
func (p *Player) Setup(partner any) {
	if pa, ok := p.anim.(PartnerAware); ok {
		pa.SetPartner(partner)
	}
	p.elapsed = 0
	p.progress = 0
	p.status = PlayerPlaying
	if p.anim != nil {
		p.anim.SetTime(0)
	}
}

// Duration returns the animation's duration, or zero without one.
func (p *Player) Duration() time.Duration {
	if p.anim == nil {
		return 0
	}
	return p.anim.Duration()
}

// Advance moves the animation forward by dt and returns the new progress.
func (p *Player) Advance(dt time.Duration) float64 {
	if p.status == PlayerIdle {
		p.Setup(nil)
	}
	if p.status == PlayerFinished {
		return p.progress
	}
	if dt > 0 {
		p.elapsed += dt
	}

	d := p.Duration()
	linear := 1.0
	if d > 0 {
		linear = clampUnit(float64(p.elapsed) / float64(d))
	}
	if p.elapsed > d {
		p.elapsed = d
	}
	if p.anim != nil {
		p.anim.SetTime(p.elapsed)
	}

	eased := linear
	if p.Curve != nil {
		eased = clampUnit(p.Curve(linear))
	}
	if linear >= 1 {
		eased = 1
	}
	if eased > p.progress {
		p.progress = eased
	}
	if linear >= 1 {
		p.status = PlayerFinished
	}
	p.notify()
	return p.progress
}

// Progress returns the current eased progress.
func (p *Player) Progress() float64 { return p.progress }

// Status returns the current status.
func (p *Player) Status() PlayerStatus { return p.status }

// IsFinished reports whether the animation reached its duration.
func (p *Player) IsFinished() bool { return p.status == PlayerFinished }

// AddListener adds a callback that fires whenever progress is recomputed.
// Returns an unsubscribe function.
func (p *Player) AddListener(fn func(progress float64)) func() {
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		delete(p.listeners, id)
	}
}

func (p *Player) notify() {
	for _, l := range p.listeners {
		l(p.progress)
	}
}

// Task returns a Task that plays the animation on the scheduler, calling
// onProgress (if non-nil) with the progress every tick until finished.
//
// The first run renders time 0 without consuming the frame delta, since
// the delta elapsed before the animation started. Later runs advance by
// the scheduler's frame delta.
func (p *Player) Task(onProgress func(float64)) async.Task {
	started := false
	return func(co *async.Coroutine) async.Result {
		var progress float64
		if !started {
			started = true
			if p.status == PlayerIdle {
				p.Setup(nil)
			}
			progress = p.Advance(0)
		} else {
			progress = p.Advance(co.Delta())
		}
		if onProgress != nil {
			onProgress(progress)
		}
		if p.IsFinished() {
			return co.End()
		}
		return co.Yield(nil)
	}
}
