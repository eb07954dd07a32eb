package geom

import (
	"errors"
	"strconv"
	"strings"
)

type GeometryType int

const (
	GeomPoint GeometryType = iota
	GeomMultiPoint
	GeomLineString
	GeomPolygon
)

func (t GeometryType) String() string {
	switch t {
	case GeomPoint:
		return "POINT"
	case GeomMultiPoint:
		return "MULTIPOINT"
	case GeomLineString:
		return "LINESTRING"
	case GeomPolygon:
		return "POLYGON"
	}
	return "UNKNOWN"
}

// Geometry is a single parsed WKT shape. Points holds the vertices of
// POINT/MULTIPOINT/LINESTRING; Rings holds polygon rings (first outer).
type Geometry struct {
	Type   GeometryType
	Points []Coordinate
	Rings  [][]Coordinate
}

// BBox returns the bounds of every vertex of g.
func (g Geometry) BBox() BBox {
	all := append([]Coordinate(nil), g.Points...)
	for _, r := range g.Rings {
		all = append(all, r...)
	}
	return BoundsOf(all)
}

var (
	ErrEmptyWKT       = errors.New("empty wkt")
	ErrUnsupportedWKT = errors.New("unsupported wkt type")
)

// ParseWKT parses a subset of WKT.
// Supported: POINT(x y), MULTIPOINT(x y, ...), LINESTRING(x y, ...), POLYGON((x y, ...), (...))
func ParseWKT(wkt string) (Geometry, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return Geometry{}, ErrEmptyWKT
	}
	up := strings.ToUpper(s)
	inner := func(open, close string) (string, error) {
		i := strings.Index(s, open)
		j := strings.LastIndex(s, close)
		if i < 0 || j <= i {
			return "", errors.New("wkt: unbalanced parentheses")
		}
		return s[i+len(open) : j], nil
	}
	var g Geometry
	switch {
	case strings.HasPrefix(up, "MULTIPOINT"):
		block, err := inner("(", ")")
		if err != nil {
			return Geometry{}, err
		}
		// MULTIPOINT((1 2), (3 4)) and MULTIPOINT(1 2, 3 4) are both valid
		block = strings.NewReplacer("(", "", ")", "").Replace(block)
		g = Geometry{Type: GeomMultiPoint, Points: parseTuples(block)}
	case strings.HasPrefix(up, "POINT"):
		block, err := inner("(", ")")
		if err != nil {
			return Geometry{}, err
		}
		g = Geometry{Type: GeomPoint, Points: parseTuples(block)}
	case strings.HasPrefix(up, "LINESTRING"):
		block, err := inner("(", ")")
		if err != nil {
			return Geometry{}, err
		}
		g = Geometry{Type: GeomLineString, Points: parseTuples(block)}
	case strings.HasPrefix(up, "POLYGON"):
		block, err := inner("((", "))")
		if err != nil {
			return Geometry{}, err
		}
		// normalize spaces around ring separators
		norm := strings.ReplaceAll(block, "), (", "),(")
		norm = strings.ReplaceAll(norm, ") , (", "),(")
		g = Geometry{Type: GeomPolygon}
		for _, rp := range strings.Split(norm, "),(") {
			if ring := parseTuples(rp); len(ring) > 0 {
				g.Rings = append(g.Rings, ring)
			}
		}
		if len(g.Rings) == 0 {
			return Geometry{}, errors.New("wkt: no coordinates parsed")
		}
		return g, nil
	default:
		return Geometry{}, ErrUnsupportedWKT
	}
	if len(g.Points) == 0 {
		return Geometry{}, errors.New("wkt: no coordinates parsed")
	}
	return g, nil
}

// parseTuples splits "x y, x y" into coordinates, skipping malformed tuples.
func parseTuples(block string) []Coordinate {
	var out []Coordinate
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, Coordinate{x, y})
	}
	return out
}
