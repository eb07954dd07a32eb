package mapstate

import (
	"math"
	"time"

	"worldmap/internal/geom"
)

// Easing maps linear progress in [0,1] onto eased progress.
type Easing func(t float64) float64

func EaseOutCubic(t float64) float64 { return 1 - math.Pow(1-t, 3) }

func Linear(t float64) float64 { return t }

// Tween interpolates From→To over Duration. The start time is latched on the
// first Sample so tweens only advance on the host's frame signal.
type Tween[T any] struct {
	From     T
	To       T
	Duration time.Duration
	Ease     Easing
	Lerp     func(a, b T, t float64) T

	start   time.Time
	started bool
}

func NewTween[T any](from, to T, d time.Duration, ease Easing, lerp func(a, b T, t float64) T) *Tween[T] {
	if ease == nil {
		ease = Linear
	}
	return &Tween[T]{From: from, To: to, Duration: d, Ease: ease, Lerp: lerp}
}

// Sample returns the value at now and whether the tween has finished.
func (tw *Tween[T]) Sample(now time.Time) (T, bool) {
	if !tw.started {
		tw.start, tw.started = now, true
	}
	if tw.Duration <= 0 {
		return tw.To, true
	}
	t := float64(now.Sub(tw.start)) / float64(tw.Duration)
	if t >= 1 {
		return tw.To, true
	}
	if t < 0 {
		t = 0
	}
	return tw.Lerp(tw.From, tw.To, tw.Ease(t)), false
}

func lerpFloat(a, b, t float64) float64 { return a + (b-a)*t }

func lerpCoord(a, b geom.Coordinate, t float64) geom.Coordinate { return a.Lerp(b, t) }

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
