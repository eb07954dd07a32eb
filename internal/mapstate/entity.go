package mapstate

import (
	"errors"
	"fmt"

	"worldmap/internal/geom"
)

var (
	ErrInvalidEntity = errors.New("invalid entity")
	ErrDuplicateID   = errors.New("duplicate id")
)

type Region struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Polygon     []geom.Coordinate `yaml:"polygon"`
	Fill        string            `yaml:"fill"`
	Border      string            `yaml:"border"`
	BorderWidth float64           `yaml:"border_width"`
	MinZoom     float64           `yaml:"min_zoom"`
}

// BBox of the polygon.
func (r Region) BBox() geom.BBox { return geom.BoundsOf(r.Polygon) }

type POI struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Position    *geom.Coordinate `yaml:"position"`
	Category    Category         `yaml:"category"`
	Color       string           `yaml:"color"`
	Icon        string           `yaml:"icon"`
	Description string           `yaml:"description"`
	Importance  float64          `yaml:"importance"`
}

// Pos returns the position, or the origin for a POI that never passed validation.
func (p POI) Pos() geom.Coordinate {
	if p.Position == nil {
		return geom.Coordinate{}
	}
	return *p.Position
}

type PathPoint struct {
	geom.Coordinate `yaml:",inline"`
	Waypoint        bool `yaml:"waypoint"`
}

type Path struct {
	ID     string      `yaml:"id"`
	Points []PathPoint `yaml:"points"`
	Color  string      `yaml:"color"`
	Width  float64     `yaml:"width"`
}

func (p Path) Coordinates() []geom.Coordinate {
	out := make([]geom.Coordinate, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Coordinate
	}
	return out
}

func (p Path) BBox() geom.BBox { return geom.BoundsOf(p.Coordinates()) }

func invalid(kind, id, reason string) error {
	return fmt.Errorf("%w: %s %q: %s", ErrInvalidEntity, kind, id, reason)
}

// ValidateRegion reports why r cannot be stored, if it cannot.
func ValidateRegion(r Region) error {
	if r.ID == "" {
		return invalid("region", r.ID, "missing id")
	}
	if len(r.Polygon) == 0 {
		return invalid("region", r.ID, "empty polygon")
	}
	for i, c := range r.Polygon {
		if !c.IsFinite() {
			return invalid("region", r.ID, fmt.Sprintf("non-finite vertex %d", i))
		}
	}
	return nil
}

func ValidatePOI(p POI) error {
	if p.ID == "" {
		return invalid("poi", p.ID, "missing id")
	}
	if p.Position == nil {
		return invalid("poi", p.ID, "missing position")
	}
	if !p.Position.IsFinite() {
		return invalid("poi", p.ID, "non-finite position")
	}
	return nil
}

func ValidatePath(p Path) error {
	if p.ID == "" {
		return invalid("path", p.ID, "missing id")
	}
	if len(p.Points) == 0 {
		return invalid("path", p.ID, "no points")
	}
	for i, pt := range p.Points {
		if !pt.IsFinite() {
			return invalid("path", p.ID, fmt.Sprintf("non-finite point %d", i))
		}
	}
	return nil
}

// normalizePOI copies the position so callers cannot mutate stored state,
// and applies the default importance.
func normalizePOI(p POI) POI {
	pos := *p.Position
	p.Position = &pos
	if p.Importance <= 0 {
		p.Importance = 1
	}
	return p
}
