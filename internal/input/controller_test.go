package input

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldmap/internal/geom"
	"worldmap/internal/mapstate"
)

type recorder struct {
	poiClicks []string
	mapClicks []geom.Coordinate
}

type fixture struct {
	state *mapstate.State
	ctl   *Controller
	rec   *recorder
	now   time.Time
}

// zoom 4, centre (0,0), 800x600: world (0,0) is screen (400,300), scale 8.
func newFixture(t *testing.T, pois ...mapstate.POI) *fixture {
	t.Helper()
	f := &fixture{
		state: mapstate.New(mapstate.Options{Zoom: 4, Width: 800, Height: 600}),
		rec:   &recorder{},
		now:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, p := range pois {
		require.NoError(t, f.state.AddPOI(p))
	}
	f.ctl = New(f.state, Options{
		OnPOIClick: func(id string) { f.rec.poiClicks = append(f.rec.poiClicks, id) },
		OnMapClick: func(c geom.Coordinate) { f.rec.mapClicks = append(f.rec.mapClicks, c) },
		Clock:      func() time.Time { return f.now },
	})
	return f
}

func poiAt(id string, x, y float64) mapstate.POI {
	p := geom.C(x, y)
	return mapstate.POI{ID: id, Position: &p}
}

func TestClickVsDrag(t *testing.T) {
	t.Run("small move is a click", func(t *testing.T) {
		f := newFixture(t, poiAt("a", 0, 0))
		f.ctl.PointerDown(geom.C(400, 300))
		f.ctl.PointerMove(geom.C(401, 301))
		f.ctl.PointerUp(geom.C(401, 301))

		assert.Equal(t, []string{"a"}, f.rec.poiClicks)
		assert.Empty(t, f.rec.mapClicks)
		assert.Zero(t, f.ctl.DragUpdates())
		assert.Equal(t, geom.C(0, 0), f.state.Center())
	})

	t.Run("large move is a drag", func(t *testing.T) {
		f := newFixture(t, poiAt("a", 0, 0))
		f.ctl.PointerDown(geom.C(400, 300))
		f.ctl.PointerMove(geom.C(440, 300))
		f.ctl.PointerUp(geom.C(440, 300))

		assert.Empty(t, f.rec.poiClicks)
		assert.Empty(t, f.rec.mapClicks)
		assert.GreaterOrEqual(t, f.ctl.DragUpdates(), 1)
		// 40px * 0.5 / 8 = 2.5 world units, opposite to the pointer
		assert.InDelta(t, -2.5, f.state.Center().X, 1e-9)
		assert.False(t, f.state.Dragging())
	})
}

func TestMapClickResolvesWorldCoordinate(t *testing.T) {
	f := newFixture(t, poiAt("a", 0, 0))
	f.ctl.PointerDown(geom.C(500, 300))
	f.ctl.PointerUp(geom.C(500, 300))

	assert.Empty(t, f.rec.poiClicks)
	require.Len(t, f.rec.mapClicks, 1)
	assert.InDelta(t, 12.5, f.rec.mapClicks[0].X, 1e-9)
	assert.InDelta(t, 0, f.rec.mapClicks[0].Y, 1e-9)
}

func TestHitTest_FirstMatchInCollectionOrder(t *testing.T) {
	// both within the radius of (410,300); "b" is nearer but "a" comes first
	f := newFixture(t, poiAt("a", 0, 0), poiAt("b", 1, 0))
	id, ok := f.ctl.HitTest(geom.C(410, 300))
	require.True(t, ok)
	assert.Equal(t, "a", id)

	_, ok = f.ctl.HitTest(geom.C(0, 0))
	assert.False(t, ok)
}

func TestHitRadius(t *testing.T) {
	assert.Equal(t, 29.0, HitRadius(3))
	assert.Equal(t, 31.0, HitRadius(4))
	assert.Equal(t, 40.0, HitRadius(10))

	// boundary at zoom 4: exactly 31px hits, 32px misses
	f := newFixture(t, poiAt("a", 0, 0))
	_, ok := f.ctl.HitTest(geom.C(431, 300))
	assert.True(t, ok)
	_, ok = f.ctl.HitTest(geom.C(432, 300))
	assert.False(t, ok)
}

func TestHoverIsDebounced(t *testing.T) {
	f := newFixture(t, poiAt("a", 0, 0))
	f.ctl.PointerMove(geom.C(405, 300))
	assert.True(t, f.ctl.HoverPending())

	assert.True(t, f.ctl.Tick(f.now.Add(10*time.Millisecond)))
	assert.Empty(t, f.state.HoveredPOI())

	assert.False(t, f.ctl.Tick(f.now.Add(30*time.Millisecond)))
	assert.Equal(t, "a", f.state.HoveredPOI())
	assert.Empty(t, f.rec.poiClicks, "hover never clicks")

	// a later move reschedules from the newest position
	f.now = f.now.Add(time.Second)
	f.ctl.PointerMove(geom.C(100, 100))
	f.ctl.Tick(f.now.Add(hoverDelay))
	assert.Empty(t, f.state.HoveredPOI())
}

func TestHover_NotWhilePressed(t *testing.T) {
	f := newFixture(t, poiAt("a", 0, 0))
	f.ctl.PointerDown(geom.C(300, 300))
	f.ctl.PointerMove(geom.C(301, 300))
	assert.False(t, f.ctl.HoverPending())
}

func TestPointerLeaveClearsHover(t *testing.T) {
	f := newFixture(t, poiAt("a", 0, 0))
	f.state.SetHoveredPOI("a")
	f.ctl.PointerDown(geom.C(100, 100))
	f.ctl.PointerLeave()

	assert.Empty(t, f.state.HoveredPOI())
	assert.False(t, f.ctl.Pressed())
	assert.False(t, f.state.Dragging())
}

func TestWheel(t *testing.T) {
	assert.InDelta(t, 0.1275, WheelStep(4), 1e-12)
	assert.Less(t, WheelStep(9), WheelStep(4))

	f := newFixture(t)
	f.ctl.Wheel(-1)
	assert.InDelta(t, 4.1275, f.state.TargetZoom(), 1e-12)
	assert.Equal(t, 4.0, f.state.Zoom(), "wheel zoom is animated")

	f.ctl.Wheel(1)
	f.ctl.Wheel(0)
	assert.InDelta(t, 4.0, f.state.TargetZoom(), 1e-12)
}

func TestZoomStaysInBoundsUnderAnyInput(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		switch rng.IntN(5) {
		case 0:
			f.state.ZoomIn()
		case 1:
			f.state.ZoomOut()
		case 2:
			f.state.SetZoom(rng.Float64()*40 - 20)
		case 3:
			f.ctl.Wheel(rng.Float64()*2 - 1)
		case 4:
			f.ctl.TouchStart([]geom.Coordinate{geom.C(100, 100), geom.C(100+rng.Float64()*300+1, 100)})
			f.ctl.TouchMove([]geom.Coordinate{geom.C(100, 100), geom.C(100+rng.Float64()*3000+1, 100)})
			f.ctl.TouchEnd(nil, geom.C(0, 0))
		}
		f.now = f.now.Add(time.Duration(rng.IntN(300)) * time.Millisecond)
		f.state.Tick(f.now)

		z := f.state.Zoom()
		require.GreaterOrEqual(t, z, f.state.MinZoom())
		require.LessOrEqual(t, z, f.state.MaxZoom())
		require.GreaterOrEqual(t, f.state.TargetZoom(), f.state.MinZoom())
		require.LessOrEqual(t, f.state.TargetZoom(), f.state.MaxZoom())
	}
}

func TestPinchZoomIsImmediate(t *testing.T) {
	assert.InDelta(t, 0.5, PinchDelta(200, 400), 1e-12)
	assert.InDelta(t, -0.5, PinchDelta(400, 200), 1e-12)

	f := newFixture(t)
	f.ctl.TouchStart([]geom.Coordinate{geom.C(300, 300), geom.C(500, 300)})
	f.ctl.TouchMove([]geom.Coordinate{geom.C(200, 300), geom.C(600, 300)})
	assert.InDelta(t, 4.5, f.state.Zoom(), 1e-12)
	assert.False(t, f.state.Animating())

	// lifting one finger leaves a drag, not a click
	f.ctl.TouchEnd([]geom.Coordinate{geom.C(200, 300)}, geom.C(600, 300))
	f.ctl.TouchMove([]geom.Coordinate{geom.C(201, 300)})
	f.ctl.TouchEnd(nil, geom.C(201, 300))
	assert.Empty(t, f.rec.mapClicks)
	assert.Empty(t, f.rec.poiClicks)
}

func TestSingleTouchTapClicks(t *testing.T) {
	f := newFixture(t, poiAt("a", 0, 0))
	f.ctl.TouchStart([]geom.Coordinate{geom.C(400, 300)})
	f.ctl.TouchEnd(nil, geom.C(400, 300))
	assert.Equal(t, []string{"a"}, f.rec.poiClicks)
}

func TestContextMenuSuppressed(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.ctl.ContextMenu())
	f.ctl.Detach()
	assert.True(t, f.ctl.ContextMenu())
}

func TestDetachedIgnoresEvents(t *testing.T) {
	f := newFixture(t, poiAt("a", 0, 0))
	f.ctl.PointerDown(geom.C(10, 10))
	f.ctl.Detach()
	assert.False(t, f.state.Dragging())

	f.ctl.PointerDown(geom.C(400, 300))
	f.ctl.PointerUp(geom.C(400, 300))
	f.ctl.PointerMove(geom.C(400, 300))
	f.ctl.Wheel(-1)
	f.ctl.TouchStart([]geom.Coordinate{geom.C(0, 0), geom.C(10, 0)})
	f.ctl.TouchMove([]geom.Coordinate{geom.C(0, 0), geom.C(100, 0)})

	assert.Empty(t, f.rec.poiClicks)
	assert.False(t, f.ctl.HoverPending())
	assert.False(t, f.ctl.Tick(f.now.Add(time.Second)))
	assert.Equal(t, 4.0, f.state.TargetZoom())
	assert.Equal(t, 4.0, f.state.Zoom())
}

func TestNilCallbacksAreSafe(t *testing.T) {
	st := mapstate.New(mapstate.Options{Zoom: 4, Width: 800, Height: 600})
	ctl := New(st, Options{})
	assert.NotPanics(t, func() {
		ctl.PointerDown(geom.C(1, 1))
		ctl.PointerUp(geom.C(1, 1))
	})
}
