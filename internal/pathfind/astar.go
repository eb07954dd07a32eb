// Package pathfind computes travel routes between world coordinates with A*
// over an implicit uniform grid, plus post-processing to simplify and smooth
// the result. The grid only bounds branching; there is no obstacle layer.
package pathfind

import (
	"math"

	"worldmap/internal/geom"
)

const (
	DefaultGridStep      = 10.0
	DefaultMaxIterations = 1000
)

type Options struct {
	GridStep      float64
	MaxIterations int
}

func (o Options) withDefaults() Options {
	if o.GridStep <= 0 {
		o.GridStep = DefaultGridStep
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// cell is a grid index relative to the start coordinate.
type cell struct{ x, y int }

// 8-neighbourhood, N clockwise
var neighbors = [8]cell{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// FindPath searches from start to goal. It succeeds once the expanded node is
// within one grid step of goal; the goal itself is appended as the last point.
// When the iteration cap is reached it returns an empty path, never a partial one.
func FindPath(start, goal geom.Coordinate, opts Options) []geom.Coordinate {
	opts = opts.withDefaults()
	if !start.IsFinite() || !goal.IsFinite() {
		return nil
	}
	if start == goal {
		return []geom.Coordinate{start}
	}
	step := opts.GridStep
	world := func(c cell) geom.Coordinate {
		return geom.Coordinate{X: start.X + float64(c.x)*step, Y: start.Y + float64(c.y)*step}
	}
	heuristic := func(c cell) float64 { return world(c).Dist(goal) }

	origin := cell{}
	open := []cell{origin}
	inOpen := map[cell]bool{origin: true}
	closed := map[cell]bool{}
	cameFrom := map[cell]cell{}
	gScore := map[cell]float64{origin: 0}
	fScore := map[cell]float64{origin: heuristic(origin)}

	for iterations := 0; len(open) > 0 && iterations < opts.MaxIterations; iterations++ {
		// linear scan for the lowest f
		bestIdx := 0
		bestScore := math.MaxFloat64
		for i, n := range open {
			if f := fScore[n]; f < bestScore {
				bestScore = f
				bestIdx = i
			}
		}
		current := open[bestIdx]
		open = append(open[:bestIdx], open[bestIdx+1:]...)
		delete(inOpen, current)

		if world(current).Dist(goal) <= step {
			path := reconstruct(cameFrom, current, world)
			if path[len(path)-1] != goal {
				path = append(path, goal)
			}
			return path
		}
		closed[current] = true

		for _, d := range neighbors {
			next := cell{current.x + d.x, current.y + d.y}
			if closed[next] {
				continue
			}
			tentative := gScore[current] + step*math.Hypot(float64(d.x), float64(d.y))
			prev, seen := gScore[next]
			if seen && tentative >= prev {
				continue
			}
			cameFrom[next] = current
			gScore[next] = tentative
			fScore[next] = tentative + heuristic(next)
			if !inOpen[next] {
				open = append(open, next)
				inOpen[next] = true
			}
		}
	}
	return nil
}

func reconstruct(cameFrom map[cell]cell, current cell, world func(cell) geom.Coordinate) []geom.Coordinate {
	path := []geom.Coordinate{world(current)}
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
		path = append(path, world(current))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Length is the total polyline length of path.
func Length(path []geom.Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].Dist(path[i])
	}
	return total
}
