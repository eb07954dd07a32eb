package mapstate

import (
	"time"

	"worldmap/internal/geom"
)

// Store is the map state as seen by the input controller, the renderer and
// the host. *State is the implementation.
type Store interface {
	Center() geom.Coordinate
	TargetCenter() geom.Coordinate
	Zoom() float64
	TargetZoom() float64
	MinZoom() float64
	MaxZoom() float64
	Size() (w, h float64)
	Theme() Theme
	HoveredPOI() string
	Dragging() bool
	Animating() bool

	Tick(now time.Time) bool
	SetCenter(target geom.Coordinate)
	SetZoom(target float64)
	UpdateCenter(target geom.Coordinate)
	UpdateZoom(target float64)
	ZoomIn()
	ZoomOut()
	Reset()
	Resize(w, h float64)
	SetTheme(t Theme)
	CycleTheme() Theme
	SetHoveredPOI(id string)

	Scale() float64
	WorldToScreen(c geom.Coordinate) geom.Coordinate
	ScreenToWorld(p geom.Coordinate) geom.Coordinate
	Viewport() geom.BBox

	StartDrag(p geom.Coordinate)
	Drag(p geom.Coordinate) bool
	EndDrag()

	Regions() []Region
	POIs() []POI
	Paths() []Path
	POI(id string) (POI, bool)
	AddRegion(r Region) error
	RemoveRegion(id string) bool
	AddPOI(p POI) error
	RemovePOI(id string) bool
	AddPath(p Path) error
	RemovePath(id string) bool
	SetInitialData(regions []Region, pois []POI, paths []Path) int

	Subscribe(fn func(Change)) func()
}

var _ Store = (*State)(nil)
