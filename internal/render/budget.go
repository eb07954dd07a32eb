package render

import "time"

// RenderBudget caps how much work a frame may do. The host picks it; the
// renderer never probes the machine.
type RenderBudget struct {
	// MaxVisiblePOIs caps individually drawn POIs; 0 means no cap.
	MaxVisiblePOIs int
	// FrameSkip draws one of every FrameSkip eligible ticks.
	FrameSkip int
	// ClusterBelowZoom enables clustering while zoom is below it.
	ClusterBelowZoom float64
	MinFrameInterval time.Duration
}

var (
	HighBudget = RenderBudget{
		MaxVisiblePOIs:   1000,
		FrameSkip:        1,
		ClusterBelowZoom: 7,
		MinFrameInterval: 16 * time.Millisecond,
	}
	LowBudget = RenderBudget{
		MaxVisiblePOIs:   200,
		FrameSkip:        3,
		ClusterBelowZoom: 7,
		MinFrameInterval: 16 * time.Millisecond,
	}
)

// BudgetFor returns the preset for a profile name ("low" or anything else).
func BudgetFor(profile string) RenderBudget {
	if profile == "low" {
		return LowBudget
	}
	return HighBudget
}

func (b RenderBudget) normalized() RenderBudget {
	if b.FrameSkip < 1 {
		b.FrameSkip = 1
	}
	if b.ClusterBelowZoom == 0 {
		b.ClusterBelowZoom = HighBudget.ClusterBelowZoom
	}
	if b.MinFrameInterval <= 0 {
		b.MinFrameInterval = HighBudget.MinFrameInterval
	}
	return b
}

// FrameScheduler decides on which ticks a frame is drawn: only when
// something changed, no more often than MinFrameInterval, and on one of
// every FrameSkip eligible ticks.
type FrameScheduler struct {
	budget   RenderBudget
	dirty    bool
	last     time.Time
	eligible int
}

func NewFrameScheduler(b RenderBudget) *FrameScheduler {
	return &FrameScheduler{budget: b.normalized(), dirty: true}
}

// Invalidate requests a frame.
func (f *FrameScheduler) Invalidate() { f.dirty = true }

func (f *FrameScheduler) Dirty() bool { return f.dirty }

// Ready reports whether to draw at now. A true result clears the request.
func (f *FrameScheduler) Ready(now time.Time) bool {
	if !f.dirty {
		return false
	}
	if !f.last.IsZero() && now.Sub(f.last) < f.budget.MinFrameInterval {
		return false
	}
	n := f.eligible
	f.eligible++
	if n%f.budget.FrameSkip != 0 {
		return false
	}
	f.dirty = false
	f.last = now
	return true
}
