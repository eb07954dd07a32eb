// Package render draws a map frame onto a Surface: background grid,
// regions, paths and POIs (clustered at low zoom), within an injected
// RenderBudget. All coordinates handed to a Surface are logical screen
// pixels; surfaces scale to device pixels themselves.
package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"worldmap/internal/geom"
)

// Surface is a 2D drawing target.
type Surface interface {
	// Size is the logical size in pixels.
	Size() (w, h float64)
	// Resize re-measures the surface; pixelRatio scales the backing store only.
	Resize(w, h, pixelRatio float64)
	Clear(bg colorful.Color)
	FillPolygon(pts []geom.Coordinate, fill colorful.Color, alpha float64)
	StrokePolyline(pts []geom.Coordinate, stroke colorful.Color, width float64, closed bool)
	FillCircle(center geom.Coordinate, r float64, fill colorful.Color)
	StrokeCircle(center geom.Coordinate, r float64, stroke colorful.Color, width float64)
	// Text draws s horizontally centred on at.
	Text(at geom.Coordinate, s string, c colorful.Color)
}
