package animation

import (
	"fmt"
	"strings"
	"time"
)

// Transformable is the visual surface built-in animations drive.
type Transformable interface {
	SetAlpha(alpha float64)
	SetOffset(offset Offset)
}

// Fade animates a target's alpha.
type Fade struct {
	Target Transformable
	From   float64
	To     float64
	Length time.Duration
	Curve  Curve
}

// Duration implements Animation.
func (f *Fade) Duration() time.Duration { return f.Length }

// SetTime implements Animation.
func (f *Fade) SetTime(t time.Duration) {
	if f.Target == nil {
		return
	}
	f.Target.SetAlpha(LerpFloat64(f.From, f.To, ease(f.Curve, t, f.Length)))
}

// SlideDirection determines the edge a slide enters from.
type SlideDirection int

const (
	// SlideFromRight slides content in from the right.
	SlideFromRight SlideDirection = iota
	// SlideFromLeft slides content in from the left.
	SlideFromLeft
	// SlideFromBottom slides content in from the bottom.
	SlideFromBottom
	// SlideFromTop slides content in from the top.
	SlideFromTop
)

func (d SlideDirection) String() string {
	switch d {
	case SlideFromLeft:
		return "left"
	case SlideFromBottom:
		return "bottom"
	case SlideFromTop:
		return "top"
	default:
		return "right"
	}
}

// ParseSlideDirection parses the edge name "right", "left", "bottom" or
// "top". "" is SlideFromRight.
func ParseSlideDirection(s string) (SlideDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "right":
		return SlideFromRight, nil
	case "left":
		return SlideFromLeft, nil
	case "bottom":
		return SlideFromBottom, nil
	case "top":
		return SlideFromTop, nil
	default:
		return 0, fmt.Errorf("unknown slide direction %q", s)
	}
}

// Unit returns the off-screen offset for the direction.
func (d SlideDirection) Unit() Offset {
	switch d {
	case SlideFromLeft:
		return Offset{X: -1}
	case SlideFromBottom:
		return Offset{Y: 1}
	case SlideFromTop:
		return Offset{Y: -1}
	default:
		return Offset{X: 1}
	}
}

// Slide animates a target's offset. When paired, the partner is recorded
// so callers can inspect which view the slide played against.
type Slide struct {
	Target Transformable
	From   Offset
	To     Offset
	Length time.Duration
	Curve  Curve

	partner any
}

// Duration implements Animation.
func (s *Slide) Duration() time.Duration { return s.Length }

// SetTime implements Animation.
func (s *Slide) SetTime(t time.Duration) {
	if s.Target == nil {
		return
	}
	s.Target.SetOffset(LerpOffset(s.From, s.To, ease(s.Curve, t, s.Length)))
}

// SetPartner implements PartnerAware.
func (s *Slide) SetPartner(partner any) { s.partner = partner }

// Partner returns the view set by SetPartner.
func (s *Slide) Partner() any { return s.partner }

func ease(c Curve, t, length time.Duration) float64 {
	p := 1.0
	if length > 0 {
		p = clampUnit(float64(t) / float64(length))
	}
	if c != nil {
		p = c(p)
	}
	return p
}

// Kind names a built-in animation.
type Kind string

const (
	KindNone  Kind = "none"
	KindFade  Kind = "fade"
	KindSlide Kind = "slide"
)

// ParseKind parses a built-in animation name. "" is KindNone.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindNone:
		return KindNone, nil
	case KindFade, KindSlide:
		return k, nil
	default:
		return "", fmt.Errorf("unknown animation type %q", s)
	}
}

// Default describes a container's fallback transition animation.
type Default struct {
	Kind      Kind
	Length    time.Duration
	Curve     Curve
	Direction SlideDirection
	// Parallax is how far, as a fraction of the slide distance, the page
	// underneath moves while covered or uncovered.
	Parallax float64
}

// Build returns the default animation for one side of a transition, or
// nil when the default is KindNone or target is nil.
func (d Default) Build(target Transformable, t TransitionType) Animation {
	if target == nil || t == None {
		return nil
	}
	switch d.Kind {
	case KindFade:
		from, to := 0.0, 1.0
		if !t.IsEnter() {
			from, to = 1, 0
		}
		return &Fade{Target: target, From: from, To: to, Length: d.Length, Curve: d.Curve}
	case KindSlide:
		away := d.Direction.Unit()
		behind := Offset{X: -away.X * d.Parallax, Y: -away.Y * d.Parallax}
		s := &Slide{Target: target, Length: d.Length, Curve: d.Curve}
		switch t {
		case PushEnter, Enter:
			s.From, s.To = away, Offset{}
		case PushExit:
			s.From, s.To = Offset{}, behind
		case PopEnter:
			s.From, s.To = behind, Offset{}
		case PopExit, Exit:
			s.From, s.To = Offset{}, away
		}
		return s
	default:
		return nil
	}
}
