// Package input turns pointer, wheel and touch events into map state
// commands and click/hover callbacks. Device specifics stop here; the
// renderer never sees raw events.
package input

import (
	"math"
	"time"

	"worldmap/internal/geom"
	"worldmap/internal/logging"
	"worldmap/internal/mapstate"
)

const (
	clickThreshold = 3.0 // px of travel before a press becomes a drag
	hoverDelay     = 30 * time.Millisecond
	wheelBaseStep  = 0.15
	wheelFalloff   = 0.05
	pinchFactor    = 0.5
	hitRadiusBase  = 25.0
	hitRadiusSlope = 2.0
	hitRadiusMax   = 40.0
)

// Target is the part of the map state the controller drives.
type Target interface {
	Zoom() float64
	TargetZoom() float64
	POIs() []mapstate.POI
	WorldToScreen(c geom.Coordinate) geom.Coordinate
	ScreenToWorld(p geom.Coordinate) geom.Coordinate
	StartDrag(p geom.Coordinate)
	Drag(p geom.Coordinate) bool
	EndDrag()
	SetZoom(target float64)
	UpdateZoom(target float64)
	SetHoveredPOI(id string)
}

type Options struct {
	OnPOIClick func(id string)
	OnMapClick func(world geom.Coordinate)
	Logger     logging.Logger
	// Clock schedules hover hit-tests; defaults to time.Now.
	Clock func() time.Time
}

type Controller struct {
	target     Target
	onPOIClick func(string)
	onMapClick func(geom.Coordinate)
	log        logging.Logger
	clock      func() time.Time

	pressed        bool
	pressAt        geom.Coordinate
	potentialClick bool
	dragUpdates    int

	hoverPending bool
	hoverAt      geom.Coordinate
	hoverDue     time.Time

	touches   int
	pinchDist float64

	detached bool
}

func New(target Target, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Controller{
		target:     target,
		onPOIClick: opts.OnPOIClick,
		onMapClick: opts.OnMapClick,
		log:        logging.OrNop(opts.Logger).Named("input"),
		clock:      opts.Clock,
	}
}

// Detach disconnects the controller; every later event is ignored.
func (c *Controller) Detach() {
	if c.detached {
		return
	}
	if c.pressed {
		c.target.EndDrag()
	}
	c.pressed, c.potentialClick, c.hoverPending = false, false, false
	c.detached = true
}

func (c *Controller) Detached() bool { return c.detached }

// Pressed reports whether a pointer or finger is down.
func (c *Controller) Pressed() bool { return c.pressed }

// DragUpdates counts pointer moves forwarded as drags since the last press.
func (c *Controller) DragUpdates() int { return c.dragUpdates }

// HoverPending reports whether a hover hit-test is waiting for Tick.
func (c *Controller) HoverPending() bool { return c.hoverPending }

func (c *Controller) PointerDown(p geom.Coordinate) {
	if c.detached || c.target == nil {
		return
	}
	c.pressed = true
	c.pressAt = p
	c.potentialClick = true
	c.dragUpdates = 0
	c.hoverPending = false
	c.target.StartDrag(p)
}

func (c *Controller) PointerMove(p geom.Coordinate) {
	if c.detached || c.target == nil {
		return
	}
	if !c.pressed {
		c.hoverPending = true
		c.hoverAt = p
		c.hoverDue = c.clock().Add(hoverDelay)
		return
	}
	if c.potentialClick && p.Dist(c.pressAt) > clickThreshold {
		c.potentialClick = false
	}
	if !c.potentialClick {
		c.target.Drag(p)
		c.dragUpdates++
	}
}

func (c *Controller) PointerUp(p geom.Coordinate) {
	if c.detached || c.target == nil || !c.pressed {
		return
	}
	c.pressed = false
	c.target.EndDrag()
	if c.potentialClick {
		c.potentialClick = false
		c.click(p)
	}
}

// PointerLeave ends any drag and clears the hover highlight.
func (c *Controller) PointerLeave() {
	if c.detached || c.target == nil {
		return
	}
	if c.pressed {
		c.pressed, c.potentialClick = false, false
		c.target.EndDrag()
	}
	c.hoverPending = false
	c.target.SetHoveredPOI("")
}

// ContextMenu always suppresses the host context menu.
func (c *Controller) ContextMenu() bool { return true }

// WheelStep is the zoom change per wheel notch at zoom; it shrinks as the
// map zooms in.
func WheelStep(zoom float64) float64 {
	return wheelBaseStep * (1 - (zoom-1)*wheelFalloff)
}

// Wheel zooms in for negative deltaY (wheel up) and out for positive,
// animated. Bounds are enforced by the target.
func (c *Controller) Wheel(deltaY float64) {
	if c.detached || c.target == nil || deltaY == 0 || math.IsNaN(deltaY) {
		return
	}
	step := WheelStep(c.target.Zoom())
	if deltaY > 0 {
		step = -step
	}
	c.target.SetZoom(c.target.TargetZoom() + step)
}

// TouchStart/TouchMove/TouchEnd take every active touch point. One finger
// behaves like the pointer; two fingers pinch-zoom without animation.
func (c *Controller) TouchStart(touches []geom.Coordinate) {
	if c.detached || c.target == nil {
		return
	}
	c.touches = len(touches)
	switch len(touches) {
	case 0:
	case 1:
		c.PointerDown(touches[0])
	default:
		if c.pressed {
			c.pressed, c.potentialClick = false, false
			c.target.EndDrag()
		}
		c.pinchDist = touches[0].Dist(touches[1])
	}
}

func (c *Controller) TouchMove(touches []geom.Coordinate) {
	if c.detached || c.target == nil {
		return
	}
	switch {
	case len(touches) == 1 && c.touches == 1:
		c.PointerMove(touches[0])
	case len(touches) >= 2:
		d := touches[0].Dist(touches[1])
		if c.pinchDist > 0 && d > 0 {
			c.target.UpdateZoom(c.target.Zoom() + PinchDelta(c.pinchDist, d))
		}
		c.pinchDist = d
	}
}

// TouchEnd receives the touches still down after the lift.
func (c *Controller) TouchEnd(remaining []geom.Coordinate, lifted geom.Coordinate) {
	if c.detached || c.target == nil {
		return
	}
	was := c.touches
	c.touches = len(remaining)
	switch {
	case was == 1 && len(remaining) == 0:
		c.PointerUp(lifted)
	case was >= 2 && len(remaining) == 1:
		// pinch finished; the remaining finger drags, never clicks
		c.pinchDist = 0
		c.PointerDown(remaining[0])
		c.potentialClick = false
	case len(remaining) == 0:
		c.pinchDist = 0
	}
}

// PinchDelta is the zoom change for a finger distance going from prev to cur.
func PinchDelta(prev, cur float64) float64 {
	return pinchFactor * math.Log2(cur/prev)
}

// HitRadius is the interaction radius in screen pixels at zoom.
func HitRadius(zoom float64) float64 {
	return math.Min(hitRadiusMax, hitRadiusBase+(zoom-1)*hitRadiusSlope)
}

// HitTest returns the first POI, in collection order, whose projected
// position lies within the hit radius of p.
func (c *Controller) HitTest(p geom.Coordinate) (string, bool) {
	if c.target == nil {
		return "", false
	}
	r := HitRadius(c.target.Zoom())
	r2 := r * r
	for _, poi := range c.target.POIs() {
		if c.target.WorldToScreen(poi.Pos()).DistSq(p) <= r2 {
			return poi.ID, true
		}
	}
	return "", false
}

// Tick resolves a due hover hit-test. It reports whether one is still pending.
func (c *Controller) Tick(now time.Time) bool {
	if c.detached || !c.hoverPending {
		return false
	}
	if now.Before(c.hoverDue) {
		return true
	}
	c.hoverPending = false
	id, _ := c.HitTest(c.hoverAt)
	c.target.SetHoveredPOI(id)
	return false
}

func (c *Controller) click(p geom.Coordinate) {
	if id, ok := c.HitTest(p); ok {
		c.log.Debug("poi click", logging.String("id", id))
		if c.onPOIClick != nil {
			c.onPOIClick(id)
		}
		return
	}
	w := c.target.ScreenToWorld(p)
	c.log.Debug("map click", logging.Float64("x", w.X), logging.Float64("y", w.Y))
	if c.onMapClick != nil {
		c.onMapClick(w)
	}
}
