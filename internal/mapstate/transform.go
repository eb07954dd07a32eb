package mapstate

import (
	"math"

	"worldmap/internal/geom"
)

// ScaleAt is the world→screen scale factor for a zoom level.
func ScaleAt(zoom float64) float64 { return math.Pow(2, zoom-1) }

// Scale is the current world→screen scale, 2^(zoom-1).
func (s *State) Scale() float64 { return ScaleAt(s.zoom) }

func (s *State) viewportCenter() geom.Coordinate {
	return geom.Coordinate{X: s.width / 2, Y: s.height / 2}
}

// WorldToScreen projects a world coordinate to logical screen pixels.
func (s *State) WorldToScreen(c geom.Coordinate) geom.Coordinate {
	return s.viewportCenter().Add(c.Sub(s.center).Scale(s.Scale()))
}

// ScreenToWorld is the inverse of WorldToScreen.
func (s *State) ScreenToWorld(p geom.Coordinate) geom.Coordinate {
	return s.center.Add(p.Sub(s.viewportCenter()).Scale(1 / s.Scale()))
}

// Viewport is the world rectangle currently visible.
func (s *State) Viewport() geom.BBox {
	scale := s.Scale()
	hw, hh := s.width/2/scale, s.height/2/scale
	return geom.BBox{
		MinX: s.center.X - hw,
		MinY: s.center.Y - hh,
		MaxX: s.center.X + hw,
		MaxY: s.center.Y + hh,
	}
}
