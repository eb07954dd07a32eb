package geom

import "math"

// Coordinate is a point in world space.
type Coordinate struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// C is shorthand for Coordinate{X: x, Y: y}.
func C(x, y float64) Coordinate { return Coordinate{X: x, Y: y} }

func (c Coordinate) Add(o Coordinate) Coordinate { return Coordinate{c.X + o.X, c.Y + o.Y} }
func (c Coordinate) Sub(o Coordinate) Coordinate { return Coordinate{c.X - o.X, c.Y - o.Y} }
func (c Coordinate) Scale(f float64) Coordinate  { return Coordinate{c.X * f, c.Y * f} }
func (c Coordinate) Len() float64                { return math.Hypot(c.X, c.Y) }

// Dist returns the Euclidean distance between c and o.
func (c Coordinate) Dist(o Coordinate) float64 { return math.Hypot(c.X-o.X, c.Y-o.Y) }

// DistSq returns the squared distance; use it for radius checks.
func (c Coordinate) DistSq(o Coordinate) float64 {
	dx, dy := c.X-o.X, c.Y-o.Y
	return dx*dx + dy*dy
}

// Lerp interpolates from c towards o by t.
func (c Coordinate) Lerp(o Coordinate, t float64) Coordinate {
	return Coordinate{c.X + (o.X-c.X)*t, c.Y + (o.Y-c.Y)*t}
}

// IsFinite reports whether both components are neither NaN nor Inf.
func (c Coordinate) IsFinite() bool {
	return !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0)
}

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// BoundsOf returns the bbox of pts. An empty slice yields the zero BBox.
func BoundsOf(pts []Coordinate) BBox {
	if len(pts) == 0 {
		return BBox{}
	}
	bb := BBox{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		bb = bb.Extend(p)
	}
	return bb
}

// Extend grows the bbox to include c.
func (b BBox) Extend(c Coordinate) BBox {
	if c.X < b.MinX {
		b.MinX = c.X
	}
	if c.Y < b.MinY {
		b.MinY = c.Y
	}
	if c.X > b.MaxX {
		b.MaxX = c.X
	}
	if c.Y > b.MaxY {
		b.MaxY = c.Y
	}
	return b
}

// Union returns the smallest bbox containing both.
func (b BBox) Union(o BBox) BBox {
	return b.Extend(Coordinate{o.MinX, o.MinY}).Extend(Coordinate{o.MaxX, o.MaxY})
}

// Intersects reports whether the two boxes overlap (touching edges count).
func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && b.MaxX >= o.MinX && b.MinY <= o.MaxY && b.MaxY >= o.MinY
}

func (b BBox) Contains(c Coordinate) bool {
	return c.X >= b.MinX && c.X <= b.MaxX && c.Y >= b.MinY && c.Y <= b.MaxY
}

// Expand pads every side by d.
func (b BBox) Expand(d float64) BBox {
	return BBox{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}

func (b BBox) Center() Coordinate {
	return Coordinate{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }
