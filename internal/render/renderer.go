package render

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"worldmap/internal/geom"
	"worldmap/internal/logging"
	"worldmap/internal/mapstate"
)

const (
	gridMaxZoom        = 6
	gridBaseSpacing    = 100.0
	maxGridLines       = 1024
	regionLabelZoom    = 5
	waypointZoom       = 6
	poiNameZoom        = 8
	poiCullMargin      = 100.0 // world units
	hoverScale         = 1.5
	waypointRadius     = 3.0
	defaultPathWidth   = 2.0
	defaultBorderWidth = 1.0
	labelOffset        = 4.0
)

// Scene is the read side of the map state the renderer draws from, plus
// Resize so the surface and the state agree on the logical size.
type Scene interface {
	Zoom() float64
	Theme() mapstate.Theme
	HoveredPOI() string
	Viewport() geom.BBox
	WorldToScreen(c geom.Coordinate) geom.Coordinate
	Regions() []mapstate.Region
	POIs() []mapstate.POI
	Paths() []mapstate.Path
	Resize(w, h float64)
}

type Options struct {
	Budget RenderBudget
	Logger logging.Logger
	// Clock measures frame time; defaults to time.Now.
	Clock func() time.Time
}

// FrameInfo describes the last drawn frame.
type FrameInfo struct {
	GridLines   int
	Regions     int
	Paths       int
	VisiblePOIs int
	DrawnPOIs   int
	Clusters    []Cluster
	Failures    int
}

type Renderer struct {
	scene   Scene
	surface Surface
	budget  RenderBudget
	log     logging.Logger
	clock   func() time.Time

	stats    statsRoller
	last     FrameInfo
	reported map[string]struct{}
}

func New(scene Scene, surface Surface, opts Options) *Renderer {
	if opts.Budget == (RenderBudget{}) {
		opts.Budget = HighBudget
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Renderer{
		scene:    scene,
		surface:  surface,
		budget:   opts.Budget.normalized(),
		log:      logging.OrNop(opts.Logger).Named("render"),
		clock:    opts.Clock,
		reported: map[string]struct{}{},
	}
}

func (r *Renderer) Budget() RenderBudget { return r.budget }
func (r *Renderer) Stats() Stats         { return r.stats.published }
func (r *Renderer) LastFrame() FrameInfo { return r.last }
func (r *Renderer) Surface() Surface     { return r.surface }

// Resize re-measures the surface and tells the scene the new logical size.
func (r *Renderer) Resize(w, h, pixelRatio float64) {
	if w <= 0 || h <= 0 {
		return
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	r.surface.Resize(w, h, pixelRatio)
	r.scene.Resize(w, h)
}

// Render draws one frame. now drives the stats window.
func (r *Renderer) Render(now time.Time) FrameInfo {
	start := r.clock()
	zoom := r.scene.Zoom()
	pal := r.scene.Theme().Palette()
	vp := r.scene.Viewport()
	info := FrameInfo{}

	r.surface.Clear(paletteColor(pal.Background))
	if zoom <= gridMaxZoom {
		info.GridLines = r.drawGrid(vp, zoom, paletteColor(pal.GridLine))
	}
	r.drawRegions(&info, vp, zoom, pal)
	r.drawPaths(&info, vp, zoom, pal)
	r.drawPOIs(&info, vp, zoom, pal)

	if r.stats.record(now, r.clock().Sub(start), info.VisiblePOIs) {
		s := r.stats.published
		r.log.Debug("frame stats",
			logging.Duration("frame_time", s.FrameTime),
			logging.Float64("fps", s.FPS),
			logging.Int("visible_pois", s.VisiblePOIs))
	}
	r.last = info
	return info
}

// GridSpacing is the world distance between grid lines; it halves every
// two zoom levels.
func GridSpacing(zoom float64) float64 {
	return gridBaseSpacing / math.Pow(2, math.Floor((zoom-1)/2))
}

func (r *Renderer) drawGrid(vp geom.BBox, zoom float64, c colorful.Color) int {
	step := GridSpacing(zoom)
	n := 0
	for _, x := range gridLines(vp.MinX, vp.MaxX, step) {
		a := r.scene.WorldToScreen(geom.C(x, vp.MinY))
		b := r.scene.WorldToScreen(geom.C(x, vp.MaxY))
		r.surface.StrokePolyline([]geom.Coordinate{a, b}, c, 1, false)
		n++
	}
	for _, y := range gridLines(vp.MinY, vp.MaxY, step) {
		a := r.scene.WorldToScreen(geom.C(vp.MinX, y))
		b := r.scene.WorldToScreen(geom.C(vp.MaxX, y))
		r.surface.StrokePolyline([]geom.Coordinate{a, b}, c, 1, false)
		n++
	}
	return n
}

// gridLines lists the multiples of step within [lo, hi]. Lines are
// indexed by an integer count so the walk ends even where step is below
// the float resolution of lo; lines that round onto each other are
// emitted once.
func gridLines(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo || math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	first := math.Floor(lo / step)
	count := math.Floor(hi/step) - first + 1
	if count <= 0 || count > maxGridLines {
		return nil
	}
	var out []float64
	for k := 0; k < int(count); k++ {
		x := (first + float64(k)) * step
		if x < lo || x > hi || (len(out) > 0 && x == out[len(out)-1]) {
			continue
		}
		out = append(out, x)
	}
	return out
}

func (r *Renderer) project(pts []geom.Coordinate) []geom.Coordinate {
	out := make([]geom.Coordinate, len(pts))
	for i, p := range pts {
		out[i] = r.scene.WorldToScreen(p)
	}
	return out
}

func (r *Renderer) drawRegions(info *FrameInfo, vp geom.BBox, zoom float64, pal mapstate.Palette) {
	text := paletteColor(pal.Text)
	for _, reg := range r.scene.Regions() {
		if zoom < reg.MinZoom {
			continue
		}
		bb := reg.BBox()
		if !bb.Intersects(vp) {
			continue
		}
		ok := r.guard("region", reg.ID, info, func() error {
			fill, err := colorOr(reg.Fill, paletteColor(pal.GridLine))
			if err != nil {
				return fmt.Errorf("fill: %w", err)
			}
			border, err := colorOr(reg.Border, fill)
			if err != nil {
				return fmt.Errorf("border: %w", err)
			}
			width := reg.BorderWidth
			if width <= 0 {
				width = defaultBorderWidth
			}
			pts := r.project(reg.Polygon)
			r.surface.FillPolygon(pts, fill, pal.RegionFillOpacity)
			r.surface.StrokePolyline(pts, border, width, true)
			if zoom >= regionLabelZoom && reg.Name != "" {
				r.surface.Text(r.scene.WorldToScreen(bb.Center()), reg.Name, text)
			}
			return nil
		})
		if ok {
			info.Regions++
		}
	}
}

func (r *Renderer) drawPaths(info *FrameInfo, vp geom.BBox, zoom float64, pal mapstate.Palette) {
	for _, p := range r.scene.Paths() {
		if !p.BBox().Intersects(vp) {
			continue
		}
		ok := r.guard("path", p.ID, info, func() error {
			c, err := colorOr(p.Color, paletteColor(pal.PathColor))
			if err != nil {
				return err
			}
			width := p.Width
			if width <= 0 {
				width = defaultPathWidth
			}
			r.surface.StrokePolyline(r.project(p.Coordinates()), c, width, false)
			if zoom >= waypointZoom {
				for _, pt := range p.Points {
					if pt.Waypoint {
						r.surface.FillCircle(r.scene.WorldToScreen(pt.Coordinate), waypointRadius, c)
					}
				}
			}
			return nil
		})
		if ok {
			info.Paths++
		}
	}
}

func (r *Renderer) drawPOIs(info *FrameInfo, vp geom.BBox, zoom float64, pal mapstate.Palette) {
	cull := vp.Expand(poiCullMargin)
	var visible []mapstate.POI
	for _, p := range r.scene.POIs() {
		if cull.Contains(p.Pos()) {
			visible = append(visible, p)
		}
	}
	info.VisiblePOIs = len(visible)

	if zoom < r.budget.ClusterBelowZoom {
		info.Clusters = BuildClusters(visible, r.scene.WorldToScreen, CellSize(zoom))
		for _, c := range info.Clusters {
			r.drawCluster(c, pal)
		}
		return
	}

	if limit := r.budget.MaxVisiblePOIs; limit > 0 && len(visible) > limit {
		slices.SortStableFunc(visible, func(a, b mapstate.POI) int {
			switch {
			case a.Importance > b.Importance:
				return -1
			case a.Importance < b.Importance:
				return 1
			}
			return 0
		})
		visible = visible[:limit]
	}
	hovered := r.scene.HoveredPOI()
	text := paletteColor(pal.Text)
	for _, p := range visible {
		ok := r.guard("poi", p.ID, info, func() error {
			return r.drawPOI(p, p.ID == hovered, zoom, pal.POIIconSize, text)
		})
		if ok {
			info.DrawnPOIs++
		}
	}
}

func (r *Renderer) drawPOI(p mapstate.POI, hovered bool, zoom, size float64, text colorful.Color) error {
	style := p.Category.Style()
	c, err := colorOr(p.Color, paletteColor(style.Color))
	if err != nil {
		return err
	}
	at := r.scene.WorldToScreen(p.Pos())
	if hovered {
		size *= hoverScale
		c = lighten(c, 0.25)
	}
	r.surface.FillCircle(at, size, c)
	if hovered {
		r.surface.StrokeCircle(at, size+1, text, 1)
	}
	if zoom < poiNameZoom && !hovered {
		return nil
	}
	icon := p.Icon
	if icon == "" {
		icon = string(style.Icon)
	}
	r.surface.Text(at, icon, text)
	label := geom.C(at.X, at.Y-size-labelOffset)
	r.surface.Text(label, p.Name, text)
	if hovered && p.Description != "" {
		r.surface.Text(geom.C(at.X, at.Y+size+labelOffset*2), p.Description, text)
	}
	return nil
}

func (r *Renderer) drawCluster(c Cluster, pal mapstate.Palette) {
	col := paletteColor(c.Category.Style().Color)
	at := r.scene.WorldToScreen(c.Center)
	if c.Count == 1 {
		r.surface.FillCircle(at, pal.POIIconSize, col)
		return
	}
	rad := clusterRadius(c.Count, pal.POIIconSize)
	r.surface.FillCircle(at, rad, col)
	r.surface.StrokeCircle(at, rad, lighten(col, 0.4), 1)
	r.surface.Text(at, fmt.Sprint(c.Count), paletteColor(pal.Text))
}

// guard runs one entity's draw call. Errors and panics are logged with the
// entity id (once per id and message) and the entity is skipped.
func (r *Renderer) guard(kind, id string, info *FrameInfo, fn func() error) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			info.Failures++
			r.report(kind, id, fmt.Errorf("panic: %v", p))
			ok = false
		}
	}()
	if err := fn(); err != nil {
		info.Failures++
		r.report(kind, id, err)
		return false
	}
	return true
}

func (r *Renderer) report(kind, id string, err error) {
	key := kind + "\x00" + id + "\x00" + err.Error()
	if _, seen := r.reported[key]; seen {
		return
	}
	r.reported[key] = struct{}{}
	r.log.Warn("entity draw failed", logging.String("kind", kind), logging.String("id", id), logging.Err(err))
}
