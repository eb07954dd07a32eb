// Package mapstate owns the map state: camera (center/zoom with animated
// transitions), viewport size, entity collections, drag and hover state and
// the active theme. It is the only place coordinate transforms are defined.
//
// A State is not safe for concurrent use; it is mutated from a single
// event loop and read by the controller and renderer on the same loop.
package mapstate

import (
	"math"
	"time"

	"worldmap/internal/geom"
	"worldmap/internal/logging"
)

// Change is a bitmask of what a mutation touched.
type Change uint16

const (
	ChangeCenter Change = 1 << iota
	ChangeZoom
	ChangeTheme
	ChangeEntities
	ChangeHover
	ChangeViewport
)

const (
	DefaultMinZoom = 3.0
	DefaultMaxZoom = 10.0

	centerMinDuration = 100 * time.Millisecond
	centerMaxDuration = 500 * time.Millisecond
	zoomMinDuration   = 100 * time.Millisecond
	zoomMaxDuration   = 400 * time.Millisecond
	// per logical pixel of travel / per zoom level
	centerMsPerPixel = time.Millisecond
	zoomPerLevel     = 200 * time.Millisecond

	dragDamping   = 0.5
	dragMinDelta  = 1.0 // world units
	dragMaxHoldPx = 16.0
)

type Options struct {
	MinZoom float64
	MaxZoom float64
	Center  geom.Coordinate
	Zoom    float64
	Theme   Theme
	Width   float64
	Height  float64
	Logger  logging.Logger
}

type State struct {
	minZoom, maxZoom float64

	center       geom.Coordinate
	targetCenter geom.Coordinate
	centerTween  *Tween[geom.Coordinate]
	zoom         float64
	targetZoom   float64
	zoomTween    *Tween[float64]

	initialCenter geom.Coordinate
	initialZoom   float64

	width, height float64

	regions []Region
	pois    []POI
	paths   []Path
	ids     [3]map[string]struct{} // regions, pois, paths

	dragging  bool
	dragStart geom.Coordinate

	hovered string
	theme   Theme

	subs    map[int]func(Change)
	nextSub int

	log logging.Logger
}

const (
	kindRegion = iota
	kindPOI
	kindPath
)

// New builds a State. Zero MinZoom/MaxZoom select the 3–10 defaults.
func New(opts Options) *State {
	if opts.MinZoom == 0 {
		opts.MinZoom = DefaultMinZoom
	}
	if opts.MaxZoom == 0 {
		opts.MaxZoom = DefaultMaxZoom
	}
	if opts.MaxZoom < opts.MinZoom {
		opts.MinZoom, opts.MaxZoom = opts.MaxZoom, opts.MinZoom
	}
	s := &State{
		minZoom: opts.MinZoom,
		maxZoom: opts.MaxZoom,
		theme:   opts.Theme,
		width:   opts.Width,
		height:  opts.Height,
		subs:    map[int]func(Change){},
		log:     logging.OrNop(opts.Logger).Named("mapstate"),
	}
	for i := range s.ids {
		s.ids[i] = map[string]struct{}{}
	}
	z := s.clampZoom(opts.Zoom)
	s.zoom, s.targetZoom, s.initialZoom = z, z, z
	s.center, s.targetCenter, s.initialCenter = opts.Center, opts.Center, opts.Center
	return s
}

// Subscribe registers fn for change notifications. The returned func
// unregisters it.
func (s *State) Subscribe(fn func(Change)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *State) notify(c Change) {
	for _, fn := range s.subs {
		fn(c)
	}
}

func (s *State) Center() geom.Coordinate       { return s.center }
func (s *State) TargetCenter() geom.Coordinate { return s.targetCenter }
func (s *State) Zoom() float64                 { return s.zoom }
func (s *State) TargetZoom() float64           { return s.targetZoom }
func (s *State) MinZoom() float64              { return s.minZoom }
func (s *State) MaxZoom() float64              { return s.maxZoom }
func (s *State) Theme() Theme                  { return s.theme }
func (s *State) HoveredPOI() string            { return s.hovered }
func (s *State) Dragging() bool                { return s.dragging }
func (s *State) Size() (w, h float64)          { return s.width, s.height }

// Animating reports whether a center or zoom transition is in flight.
func (s *State) Animating() bool { return s.centerTween != nil || s.zoomTween != nil }

// Tick advances in-flight transitions to now. It returns true while an
// animation is still running.
func (s *State) Tick(now time.Time) bool {
	var changed Change
	if s.centerTween != nil {
		v, done := s.centerTween.Sample(now)
		if v != s.center {
			s.center = v
			changed |= ChangeCenter
		}
		if done {
			s.centerTween = nil
		}
	}
	if s.zoomTween != nil {
		v, done := s.zoomTween.Sample(now)
		v = s.clampZoom(v)
		if v != s.zoom {
			s.zoom = v
			changed |= ChangeZoom
		}
		if done {
			s.zoomTween = nil
		}
	}
	if changed != 0 {
		s.notify(changed)
	}
	return s.Animating()
}

// SetCenter animates the center to target. A later call replaces the
// transition, starting from wherever the center currently is.
func (s *State) SetCenter(target geom.Coordinate) {
	if !target.IsFinite() {
		s.log.Warn("ignoring non-finite center", logging.Float64("x", target.X), logging.Float64("y", target.Y))
		return
	}
	s.targetCenter = target
	if target == s.center {
		s.centerTween = nil
		return
	}
	px := s.center.Dist(target) * s.Scale()
	d := clampDuration(time.Duration(px*float64(centerMsPerPixel)), centerMinDuration, centerMaxDuration)
	s.centerTween = NewTween(s.center, target, d, EaseOutCubic, lerpCoord)
	s.notify(ChangeCenter)
}

// SetZoom animates the zoom to target, clamped to the zoom bounds.
func (s *State) SetZoom(target float64) {
	if math.IsNaN(target) {
		return
	}
	target = s.clampZoom(target)
	s.targetZoom = target
	if target == s.zoom {
		s.zoomTween = nil
		return
	}
	d := clampDuration(time.Duration(math.Abs(target-s.zoom)*float64(zoomPerLevel)), zoomMinDuration, zoomMaxDuration)
	s.zoomTween = NewTween(s.zoom, target, d, EaseOutCubic, lerpFloat)
	s.notify(ChangeZoom)
}

// UpdateCenter moves the center immediately and cancels any center transition.
func (s *State) UpdateCenter(target geom.Coordinate) {
	if !target.IsFinite() {
		return
	}
	s.centerTween = nil
	s.targetCenter = target
	if target == s.center {
		return
	}
	s.center = target
	s.notify(ChangeCenter)
}

// UpdateZoom applies a clamped zoom immediately and cancels any zoom transition.
func (s *State) UpdateZoom(target float64) {
	if math.IsNaN(target) {
		return
	}
	target = s.clampZoom(target)
	s.zoomTween = nil
	s.targetZoom = target
	if target == s.zoom {
		return
	}
	s.zoom = target
	s.notify(ChangeZoom)
}

func (s *State) ZoomIn()  { s.SetZoom(s.targetZoom + 1) }
func (s *State) ZoomOut() { s.SetZoom(s.targetZoom - 1) }

// Reset animates back to the initial center and zoom.
func (s *State) Reset() {
	s.SetCenter(s.initialCenter)
	s.SetZoom(s.initialZoom)
}

func (s *State) clampZoom(z float64) float64 {
	if z < s.minZoom {
		return s.minZoom
	}
	if z > s.maxZoom {
		return s.maxZoom
	}
	return z
}

// Resize records the logical surface size.
func (s *State) Resize(w, h float64) {
	if w <= 0 || h <= 0 || (w == s.width && h == s.height) {
		return
	}
	s.width, s.height = w, h
	s.notify(ChangeViewport)
}

func (s *State) SetTheme(t Theme) {
	if t == s.theme {
		return
	}
	s.theme = t
	s.notify(ChangeTheme)
}

// CycleTheme switches to the next theme and returns it.
func (s *State) CycleTheme() Theme {
	s.SetTheme(s.theme.Next())
	return s.theme
}

// SetHoveredPOI sets the hover highlight; "" clears it.
func (s *State) SetHoveredPOI(id string) {
	if id == s.hovered {
		return
	}
	s.hovered = id
	s.notify(ChangeHover)
}

// StartDrag anchors a drag at screen point p. Any center transition stops.
func (s *State) StartDrag(p geom.Coordinate) {
	s.dragging = true
	s.dragStart = p
	s.centerTween = nil
	s.targetCenter = s.center
}

// Drag pans by the damped pointer delta since the last applied update.
// Deltas under one world unit, or under dragMaxHoldPx pointer pixels at
// high zoom, are held back until they accumulate; it reports whether the
// center moved.
func (s *State) Drag(p geom.Coordinate) bool {
	if !s.dragging {
		return false
	}
	world := p.Sub(s.dragStart).Scale(dragDamping / s.Scale())
	if world.Len() < s.dragThreshold() {
		return false
	}
	s.dragStart = p
	s.UpdateCenter(s.center.Sub(world))
	return true
}

func (s *State) EndDrag() { s.dragging = false }

func (s *State) dragThreshold() float64 {
	return math.Min(dragMinDelta, dragMaxHoldPx*dragDamping/s.Scale())
}
