package tui

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"worldmap/internal/geom"
	"worldmap/internal/logging"
	"worldmap/internal/mapstate"
	"worldmap/internal/pathfind"
)

var ErrNoRoute = errors.New("no route found")

const (
	defaultSimplifyTolerance = 10.0
	defaultSmoothFactor      = 0.25
)

// RouteOptions tune the route tool: the grid search, then simplification
// (degrees of heading change kept) and smoothing.
type RouteOptions struct {
	Search            pathfind.Options
	SimplifyTolerance float64
	SmoothFactor      float64
}

func (o RouteOptions) withDefaults() RouteOptions {
	if o.SimplifyTolerance <= 0 {
		o.SimplifyTolerance = defaultSimplifyTolerance
	}
	if o.SmoothFactor < 0 {
		o.SmoothFactor = 0
	}
	return o
}

// PlanRoute searches a route from one point to another and returns it as a
// path whose endpoints are waypoints. An empty id gets a random one.
func PlanRoute(id string, from, to geom.Coordinate, opts RouteOptions) (mapstate.Path, error) {
	opts = opts.withDefaults()
	raw := pathfind.FindPath(from, to, opts.Search)
	if len(raw) == 0 {
		return mapstate.Path{}, fmt.Errorf("route (%.1f, %.1f) → (%.1f, %.1f): %w", from.X, from.Y, to.X, to.Y, ErrNoRoute)
	}
	pts := pathfind.SmoothPath(pathfind.SimplifyPath(raw, opts.SimplifyTolerance), opts.SmoothFactor)
	if id == "" {
		id = "route-" + uuid.NewString()
	}
	p := mapstate.Path{ID: id, Points: make([]mapstate.PathPoint, len(pts))}
	for i, c := range pts {
		p.Points[i] = mapstate.PathPoint{Coordinate: c, Waypoint: i == 0 || i == len(pts)-1}
	}
	return p, nil
}

// route connects the last two map clicks.
func (m *Model) route() {
	if len(m.clicks) < 2 {
		m.setStatus("route: click two points on the map first")
		return
	}
	from, to := m.clicks[0], m.clicks[1]
	p, err := PlanRoute("", from, to, m.opts.Route)
	if err != nil {
		m.log.Warn("route failed", logging.Err(err))
		m.setError("%v", err)
		return
	}
	if err := m.store.AddPath(p); err != nil {
		m.setError("route: %v", err)
		return
	}
	m.clicks = m.clicks[:0]
	m.log.Info("route added",
		logging.String("id", p.ID),
		logging.Int("points", len(p.Points)),
		logging.Float64("length", pathfind.Length(p.Coordinates())))
	m.setStatus("route added: %.1f units, %d points", pathfind.Length(p.Coordinates()), len(p.Points))
}
