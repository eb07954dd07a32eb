package pathfind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldmap/internal/geom"
)

func TestFindPath_Straight(t *testing.T) {
	path := FindPath(geom.C(0, 0), geom.C(100, 0), Options{GridStep: 10})
	require.NotEmpty(t, path)

	assert.Equal(t, geom.C(0, 0), path[0])
	assert.Equal(t, geom.C(100, 0), path[len(path)-1])
	assert.LessOrEqual(t, len(path), 11)
	assert.InDelta(t, 100, Length(path), 1e-9)
}

func TestFindPath_Diagonal(t *testing.T) {
	path := FindPath(geom.C(0, 0), geom.C(50, 50), Options{GridStep: 10})
	require.NotEmpty(t, path)

	assert.Equal(t, geom.C(50, 50), path[len(path)-1])
	assert.InDelta(t, 50*math.Sqrt2, Length(path), 1e-6)
}

func TestFindPath_OffGridGoal(t *testing.T) {
	goal := geom.C(37, -12)
	path := FindPath(geom.C(0, 0), goal, Options{GridStep: 10})
	require.NotEmpty(t, path)

	assert.Equal(t, goal, path[len(path)-1])
	// the step before the goal is within one grid step of it
	assert.LessOrEqual(t, path[len(path)-2].Dist(goal), 10.0)
}

func TestFindPath_SamePoint(t *testing.T) {
	p := geom.C(3, 4)
	assert.Equal(t, []geom.Coordinate{p}, FindPath(p, p, Options{}))
}

func TestFindPath_IterationCap(t *testing.T) {
	path := FindPath(geom.C(0, 0), geom.C(1000, 1000), Options{GridStep: 10, MaxIterations: 1})
	assert.Empty(t, path)
}

func TestFindPath_NonFinite(t *testing.T) {
	assert.Empty(t, FindPath(geom.C(math.NaN(), 0), geom.C(1, 1), Options{}))
	assert.Empty(t, FindPath(geom.C(0, 0), geom.C(math.Inf(1), 1), Options{}))
}

func TestFindPath_DefaultsApplied(t *testing.T) {
	path := FindPath(geom.C(0, 0), geom.C(30, 0), Options{})
	require.NotEmpty(t, path)
	assert.InDelta(t, 30, Length(path), 1e-9)
}

func TestSimplifyPath(t *testing.T) {
	t.Run("collinear collapses to endpoints", func(t *testing.T) {
		var line []geom.Coordinate
		for x := 0.0; x <= 100; x += 10 {
			line = append(line, geom.C(x, 0))
		}
		out := SimplifyPath(line, 10)
		assert.Equal(t, []geom.Coordinate{geom.C(0, 0), geom.C(100, 0)}, out)
	})

	t.Run("sharp corners survive", func(t *testing.T) {
		zig := []geom.Coordinate{geom.C(0, 0), geom.C(10, 0), geom.C(10, 10), geom.C(20, 10)}
		out := SimplifyPath(zig, 10)
		assert.Equal(t, zig, out)
	})

	t.Run("angle measured from last kept point", func(t *testing.T) {
		// the raw segments at (20,1) turn 11.4 degrees, but from (0,0) the
		// heading changes only 8.6
		wobble := []geom.Coordinate{geom.C(0, 0), geom.C(10, 0), geom.C(20, 1), geom.C(30, 0)}
		out := SimplifyPath(wobble, 10)
		assert.Equal(t, []geom.Coordinate{geom.C(0, 0), geom.C(30, 0)}, out)
	})

	t.Run("never grows and keeps endpoints", func(t *testing.T) {
		path := FindPath(geom.C(-20, 5), geom.C(73, 41), Options{GridStep: 10})
		require.NotEmpty(t, path)
		out := SimplifyPath(path, 10)
		assert.LessOrEqual(t, len(out), len(path))
		assert.Equal(t, path[0], out[0])
		assert.Equal(t, path[len(path)-1], out[len(out)-1])
	})

	t.Run("short input is copied", func(t *testing.T) {
		in := []geom.Coordinate{geom.C(1, 1), geom.C(2, 2)}
		out := SimplifyPath(in, 10)
		assert.Equal(t, in, out)
		out[0] = geom.C(9, 9)
		assert.Equal(t, geom.C(1, 1), in[0])
	})
}

func TestSmoothPath(t *testing.T) {
	corner := []geom.Coordinate{geom.C(0, 0), geom.C(10, 0), geom.C(10, 10)}
	out := SmoothPath(corner, 0.5)

	require.Len(t, out, 3)
	assert.Equal(t, corner[0], out[0])
	assert.Equal(t, corner[2], out[2])
	// the corner is pulled inwards towards the chord
	assert.Less(t, out[1].X, 10.0)
	assert.Greater(t, out[1].Y, 0.0)
	// input untouched
	assert.Equal(t, geom.C(10, 0), corner[1])
}

func TestSmoothPath_StraightLineUnchanged(t *testing.T) {
	line := []geom.Coordinate{geom.C(0, 0), geom.C(10, 0), geom.C(20, 0), geom.C(30, 0)}
	out := SmoothPath(line, 0.25)
	for i := range line {
		assert.InDelta(t, line[i].X, out[i].X, 1e-9)
		assert.InDelta(t, line[i].Y, out[i].Y, 1e-9)
	}
}

func TestSmoothPath_ZeroFactor(t *testing.T) {
	line := []geom.Coordinate{geom.C(0, 0), geom.C(10, 5), geom.C(20, 0)}
	assert.Equal(t, line, SmoothPath(line, 0))
}
