package render

import (
	"math"

	"worldmap/internal/geom"
	"worldmap/internal/mapstate"
)

// Cluster stands in for every visible POI that projects into one screen cell.
type Cluster struct {
	// Center is the importance-weighted centroid in world units.
	Center   geom.Coordinate
	Count    int
	Category mapstate.Category
	Members  []string
}

// CellSize is the clustering cell edge in screen pixels at zoom.
func CellSize(zoom float64) float64 {
	return math.Max(20, 60-(zoom-1)*5)
}

type cellKey struct{ x, y int }

type clusterAcc struct {
	sum      geom.Coordinate
	weight   float64
	members  []string
	category map[mapstate.Category]int
}

// BuildClusters buckets pois by the screen cell their projection falls in.
// Clusters come out in the order their first member appears in pois.
func BuildClusters(pois []mapstate.POI, project func(geom.Coordinate) geom.Coordinate, cell float64) []Cluster {
	if cell <= 0 {
		cell = 20
	}
	var order []cellKey
	cells := map[cellKey]*clusterAcc{}
	for _, p := range pois {
		pos := p.Pos()
		sp := project(pos)
		k := cellKey{int(math.Floor(sp.X / cell)), int(math.Floor(sp.Y / cell))}
		acc, ok := cells[k]
		if !ok {
			acc = &clusterAcc{category: map[mapstate.Category]int{}}
			cells[k] = acc
			order = append(order, k)
		}
		w := p.Importance
		if w <= 0 {
			w = 1
		}
		acc.sum = acc.sum.Add(pos.Scale(w))
		acc.weight += w
		acc.members = append(acc.members, p.ID)
		acc.category[p.Category]++
	}

	out := make([]Cluster, 0, len(order))
	for _, k := range order {
		acc := cells[k]
		out = append(out, Cluster{
			Center:   acc.sum.Scale(1 / acc.weight),
			Count:    len(acc.members),
			Category: plurality(acc.category),
			Members:  acc.members,
		})
	}
	return out
}

// plurality picks the most frequent category; ties go to the earlier one.
func plurality(counts map[mapstate.Category]int) mapstate.Category {
	best, bestN := mapstate.CategoryOther, -1
	for _, c := range mapstate.Categories() {
		if n := counts[c]; n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

// clusterRadius grows with the log of the member count, capped at 4× the icon.
func clusterRadius(count int, icon float64) float64 {
	r := icon + 3*math.Log2(float64(count))
	return math.Min(r, 4*icon)
}
