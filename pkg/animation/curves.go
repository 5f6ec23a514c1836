package animation

import (
	"math"
	"sort"
	"strings"
)

// Curve maps linear progress t in [0, 1] to eased progress.
type Curve func(t float64) float64

// Linear returns linear progress (no easing).
func Linear(t float64) float64 {
	return t
}

// IOSNavigation approximates iOS navigation transition easing.
var IOSNavigation = CubicBezier(0.22, 1.0, 0.36, 1.0)

// Ease is equivalent to CSS ease.
var Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)

// EaseIn starts slowly and accelerates. Use for entities leaving the screen.
var EaseIn = CubicBezier(0.4, 0.0, 1.0, 1.0)

// EaseOut starts quickly and decelerates. Use for entities entering the screen.
var EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)

// EaseInOut starts and ends slowly.
var EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)

var namedCurves = map[string]Curve{
	"linear":      Linear,
	"ease":        Ease,
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,
	"ios":         IOSNavigation,
}

// CurveByName resolves a curve name as used in configuration files.
// Names are case-insensitive; "" resolves to Linear.
func CurveByName(name string) (Curve, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Linear, true
	}
	c, ok := namedCurves[name]
	return c, ok
}

// CurveNames returns the names accepted by CurveByName, sorted.
func CurveNames() []string {
	names := make([]string, 0, len(namedCurves))
	for n := range namedCurves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CubicBezier returns a cubic-bezier easing function matching CSS cubic-bezier().
// The curve starts at (0,0), ends at (1,1), and (x1,y1), (x2,y2) are its
// control points.
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		// Newton-Raphson on x(u) = t, then bisection if it stalls.
		u := t
		for i := 0; i < 8; i++ {
			dx := bezier(x1, x2, u) - t
			if math.Abs(dx) < 1e-7 {
				return bezier(y1, y2, clampUnit(u))
			}
			slope := bezierSlope(x1, x2, u)
			if math.Abs(slope) < 1e-7 {
				break
			}
			u -= dx / slope
		}

		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for i := 0; i < 12; i++ {
			dx := bezier(x1, x2, u) - t
			if math.Abs(dx) < 1e-7 {
				break
			}
			if dx > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) / 2
		}
		return bezier(y1, y2, u)
	}
}

func bezier(p1, p2, u float64) float64 {
	v := 1 - u
	return 3*v*v*u*p1 + 3*v*u*u*p2 + u*u*u
}

func bezierSlope(p1, p2, u float64) float64 {
	v := 1 - u
	return 3*v*v*p1 + 6*v*u*(p2-p1) + 3*u*u*(1-p2)
}

func clampUnit(value float64) float64 {
	return math.Max(0, math.Min(1, value))
}
