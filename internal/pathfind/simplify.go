package pathfind

import (
	"math"
	"slices"

	"worldmap/internal/geom"
)

const smoothPasses = 3

// SimplifyPath drops interior points whose turning angle is below
// toleranceDeg. The angle is measured against the last kept point so long
// gentle curves still collapse. Endpoints are always kept.
func SimplifyPath(path []geom.Coordinate, toleranceDeg float64) []geom.Coordinate {
	if len(path) <= 2 {
		return slices.Clone(path)
	}
	tol := toleranceDeg * math.Pi / 180
	out := []geom.Coordinate{path[0]}
	for i := 1; i < len(path)-1; i++ {
		prev := out[len(out)-1]
		in := path[i].Sub(prev)
		outgoing := path[i+1].Sub(path[i])
		if in.Len() == 0 || outgoing.Len() == 0 {
			continue
		}
		if turnAngle(in, outgoing) >= tol {
			out = append(out, path[i])
		}
	}
	return append(out, path[len(path)-1])
}

// turnAngle is the absolute heading change between two direction vectors.
func turnAngle(a, b geom.Coordinate) float64 {
	cross := a.X*b.Y - a.Y*b.X
	dot := a.X*b.X + a.Y*b.Y
	return math.Abs(math.Atan2(cross, dot))
}

// SmoothPath relaxes interior points towards the midpoint of their
// neighbours by factor, over a few passes. Endpoints never move.
func SmoothPath(path []geom.Coordinate, factor float64) []geom.Coordinate {
	cur := slices.Clone(path)
	if len(cur) <= 2 || factor <= 0 {
		return cur
	}
	if factor > 1 {
		factor = 1
	}
	next := make([]geom.Coordinate, len(cur))
	for pass := 0; pass < smoothPasses; pass++ {
		next[0], next[len(cur)-1] = cur[0], cur[len(cur)-1]
		for i := 1; i < len(cur)-1; i++ {
			mid := cur[i-1].Lerp(cur[i+1], 0.5)
			next[i] = cur[i].Lerp(mid, factor)
		}
		cur, next = next, cur
	}
	return cur
}
