package tween

import (
	"fmt"
	"math"
	"strings"
)

// EaseMethod maps linear progress in [0, 1] to eased progress.
type EaseMethod interface {
	Sample(t float64) float64
}

// EaseFunction is one of the standard easing curves.
// See https://easings.net/ for the shapes.
type EaseFunction int

const (
	QuadraticIn EaseFunction = iota
	QuadraticOut
	QuadraticInOut
	CubicIn
	CubicOut
	CubicInOut
	QuarticIn
	QuarticOut
	QuarticInOut
	QuinticIn
	QuinticOut
	QuinticInOut
	SineIn
	SineOut
	SineInOut
	CircularIn
	CircularOut
	CircularInOut
	ExponentialIn
	ExponentialOut
	ExponentialInOut
	ElasticIn
	ElasticOut
	ElasticInOut
	BackIn
	BackOut
	BackInOut
	BounceIn
	BounceOut
	BounceInOut
)

var easeNames = [...]string{
	"quadratic_in", "quadratic_out", "quadratic_in_out",
	"cubic_in", "cubic_out", "cubic_in_out",
	"quartic_in", "quartic_out", "quartic_in_out",
	"quintic_in", "quintic_out", "quintic_in_out",
	"sine_in", "sine_out", "sine_in_out",
	"circular_in", "circular_out", "circular_in_out",
	"exponential_in", "exponential_out", "exponential_in_out",
	"elastic_in", "elastic_out", "elastic_in_out",
	"back_in", "back_out", "back_in_out",
	"bounce_in", "bounce_out", "bounce_in_out",
}

func (f EaseFunction) String() string {
	if f < 0 || int(f) >= len(easeNames) {
		return fmt.Sprintf("EaseFunction(%d)", int(f))
	}
	return easeNames[f]
}

// Sample evaluates the curve. Input is clamped to [0, 1].
func (f EaseFunction) Sample(t float64) float64 {
	t = clamp01(t)
	switch f {
	case QuadraticIn:
		return t * t
	case QuadraticOut:
		return 1 - (1-t)*(1-t)
	case QuadraticInOut:
		return inOut(t, 2)
	case CubicIn:
		return t * t * t
	case CubicOut:
		return 1 - math.Pow(1-t, 3)
	case CubicInOut:
		return inOut(t, 3)
	case QuarticIn:
		return math.Pow(t, 4)
	case QuarticOut:
		return 1 - math.Pow(1-t, 4)
	case QuarticInOut:
		return inOut(t, 4)
	case QuinticIn:
		return math.Pow(t, 5)
	case QuinticOut:
		return 1 - math.Pow(1-t, 5)
	case QuinticInOut:
		return inOut(t, 5)
	case SineIn:
		return 1 - math.Cos(t*math.Pi/2)
	case SineOut:
		return math.Sin(t * math.Pi / 2)
	case SineInOut:
		return -(math.Cos(math.Pi*t) - 1) / 2
	case CircularIn:
		return 1 - math.Sqrt(1-t*t)
	case CircularOut:
		return math.Sqrt(1 - (t-1)*(t-1))
	case CircularInOut:
		if t < 0.5 {
			return (1 - math.Sqrt(1-4*t*t)) / 2
		}
		return (math.Sqrt(1-math.Pow(-2*t+2, 2)) + 1) / 2
	case ExponentialIn:
		if t == 0 {
			return 0
		}
		return math.Pow(2, 10*t-10)
	case ExponentialOut:
		if t == 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*t)
	case ExponentialInOut:
		switch {
		case t == 0, t == 1:
			return t
		case t < 0.5:
			return math.Pow(2, 20*t-10) / 2
		default:
			return (2 - math.Pow(2, -20*t+10)) / 2
		}
	case ElasticIn:
		if t == 0 || t == 1 {
			return t
		}
		const c4 = 2 * math.Pi / 3
		return -math.Pow(2, 10*t-10) * math.Sin((t*10-10.75)*c4)
	case ElasticOut:
		if t == 0 || t == 1 {
			return t
		}
		const c4 = 2 * math.Pi / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
	case ElasticInOut:
		if t == 0 || t == 1 {
			return t
		}
		const c5 = 2 * math.Pi / 4.5
		if t < 0.5 {
			return -(math.Pow(2, 20*t-10) * math.Sin((20*t-11.125)*c5)) / 2
		}
		return (math.Pow(2, -20*t+10)*math.Sin((20*t-11.125)*c5))/2 + 1
	case BackIn:
		const c1 = 1.70158
		const c3 = c1 + 1
		return c3*t*t*t - c1*t*t
	case BackOut:
		const c1 = 1.70158
		const c3 = c1 + 1
		return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
	case BackInOut:
		const c2 = 1.70158 * 1.525
		if t < 0.5 {
			return (math.Pow(2*t, 2) * ((c2+1)*2*t - c2)) / 2
		}
		return (math.Pow(2*t-2, 2)*((c2+1)*(t*2-2)+c2) + 2) / 2
	case BounceIn:
		return 1 - bounceOut(1-t)
	case BounceOut:
		return bounceOut(t)
	case BounceInOut:
		if t < 0.5 {
			return (1 - bounceOut(1-2*t)) / 2
		}
		return (1 + bounceOut(2*t-1)) / 2
	}
	return t
}

func inOut(t float64, power float64) float64 {
	if t < 0.5 {
		return math.Pow(2, power-1) * math.Pow(t, power)
	}
	return 1 - math.Pow(-2*t+2, power)/2
}

func bounceOut(t float64) float64 {
	const n1 = 7.5625
	const d1 = 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

type linear struct{}

func (linear) Sample(t float64) float64 { return clamp01(t) }
func (linear) String() string           { return "linear" }

// Linear is the identity easing.
var Linear EaseMethod = linear{}

// Discrete jumps from 0 to 1 once progress passes limit.
type Discrete float64

func (d Discrete) Sample(t float64) float64 {
	if t > float64(d) {
		return 1
	}
	return 0
}

// Custom wraps an arbitrary easing function.
type Custom func(t float64) float64

func (c Custom) Sample(t float64) float64 { return c(clamp01(t)) }

// ErrUnknownEase is returned by ParseEase for unrecognised names.
var ErrUnknownEase = fmt.Errorf("unknown ease function")

// ParseEase resolves a configuration name such as "quartic_in_out",
// "QuarticInOut" or "linear".
func ParseEase(name string) (EaseMethod, error) {
	key := normalizeEaseName(name)
	if key == "" || key == "linear" {
		return Linear, nil
	}
	for i, n := range easeNames {
		if strings.ReplaceAll(n, "_", "") == key {
			return EaseFunction(i), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
}

func normalizeEaseName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)
}
