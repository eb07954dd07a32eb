// Package dataset reads map entities from files: GeoJSON, CSV, KML, WKT and
// YAML. Loaders are lenient about individual records; validation happens
// when the result is handed to the map state.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"worldmap/internal/geom"
	"worldmap/internal/mapstate"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrNoGeometry        = errors.New("no geometries found")
)

type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatCSV     Format = "csv"
	FormatKML     Format = "kml"
	FormatWKT     Format = "wkt"
	FormatYAML    Format = "yaml"
)

type Dataset struct {
	Regions []mapstate.Region `yaml:"regions"`
	POIs    []mapstate.POI    `yaml:"pois"`
	Paths   []mapstate.Path   `yaml:"paths"`
}

func (d Dataset) Len() int { return len(d.Regions) + len(d.POIs) + len(d.Paths) }

// BBox covers every coordinate in d; ok is false for an empty dataset.
func (d Dataset) BBox() (bb geom.BBox, ok bool) {
	add := func(c geom.Coordinate) {
		if !c.IsFinite() {
			return
		}
		if !ok {
			bb, ok = geom.BBox{MinX: c.X, MinY: c.Y, MaxX: c.X, MaxY: c.Y}, true
			return
		}
		bb = bb.Extend(c)
	}
	for _, r := range d.Regions {
		for _, c := range r.Polygon {
			add(c)
		}
	}
	for _, p := range d.POIs {
		if p.Position != nil {
			add(*p.Position)
		}
	}
	for _, p := range d.Paths {
		for _, pt := range p.Points {
			add(pt.Coordinate)
		}
	}
	return bb, ok
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return FormatGeoJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".kml":
		return FormatKML, nil
	case ".wkt", ".txt":
		return FormatWKT, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads the file at path in the format its extension names.
func Load(path string) (Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Dataset{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	d, err := Parse(format, f)
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return d, nil
}

func Parse(format Format, r io.Reader) (Dataset, error) {
	var (
		d   Dataset
		err error
	)
	switch format {
	case FormatGeoJSON:
		d, err = parseGeoJSON(r)
	case FormatCSV:
		d, err = parseCSV(r)
	case FormatKML:
		d, err = parseKML(r)
	case FormatWKT:
		d, err = parseWKT(r)
	case FormatYAML:
		d, err = parseYAML(r)
	default:
		return Dataset{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Dataset{}, err
	}
	if d.Len() == 0 {
		return Dataset{}, ErrNoGeometry
	}
	return d, nil
}

// attrs is a loose bag of per-record properties (GeoJSON properties, CSV
// columns, KML fields).
type attrs map[string]any

func (a attrs) str(keys ...string) string {
	for _, k := range keys {
		switch v := a[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func (a attrs) num(keys ...string) float64 {
	for _, k := range keys {
		switch v := a[k].(type) {
		case float64:
			return v
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// builder turns loose geometry plus attributes into entities, inventing
// ids for records without one.
type builder struct {
	d                Dataset
	nPOI, nPath, nRg int
}

func (b *builder) id(a attrs, prefix string, n *int) string {
	*n++
	if id := a.str("id"); id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", prefix, *n)
}

func (b *builder) poi(pos geom.Coordinate, a attrs) {
	b.d.POIs = append(b.d.POIs, mapstate.POI{
		ID:          b.id(a, "poi", &b.nPOI),
		Name:        a.str("name", "title"),
		Position:    &pos,
		Category:    mapstate.ParseCategory(a.str("category", "type", "kind")),
		Color:       a.str("color", "marker-color"),
		Icon:        a.str("icon"),
		Description: a.str("description", "desc"),
		Importance:  a.num("importance", "weight"),
	})
}

func (b *builder) path(pts []geom.Coordinate, a attrs) {
	if len(pts) == 0 {
		return
	}
	points := make([]mapstate.PathPoint, len(pts))
	for i, c := range pts {
		points[i] = mapstate.PathPoint{Coordinate: c}
	}
	// endpoints of imported lines are the natural waypoints
	points[0].Waypoint = true
	points[len(points)-1].Waypoint = true
	b.d.Paths = append(b.d.Paths, mapstate.Path{
		ID:     b.id(a, "path", &b.nPath),
		Points: points,
		Color:  a.str("color", "stroke"),
		Width:  a.num("width", "stroke-width"),
	})
}

func (b *builder) region(ring []geom.Coordinate, a attrs) {
	ring = openRing(ring)
	if len(ring) == 0 {
		return
	}
	b.d.Regions = append(b.d.Regions, mapstate.Region{
		ID:          b.id(a, "region", &b.nRg),
		Name:        a.str("name", "title"),
		Polygon:     ring,
		Fill:        a.str("fill", "color"),
		Border:      a.str("border", "stroke"),
		BorderWidth: a.num("border_width", "stroke-width"),
		MinZoom:     a.num("min_zoom", "minzoom"),
	})
}

// openRing drops the closing vertex that GeoJSON/WKT/KML rings repeat.
func openRing(ring []geom.Coordinate) []geom.Coordinate {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		return ring[:n-1]
	}
	return ring
}

// FromGeometry converts one parsed WKT shape into entities: points become
// POIs, a line string a path, a polygon a region (outer ring only).
func FromGeometry(g geom.Geometry, id, name string) Dataset {
	b := &builder{}
	a := attrs{"name": name}
	switch g.Type {
	case geom.GeomPoint, geom.GeomMultiPoint:
		for i, p := range g.Points {
			pa := attrs{"name": name}
			if id != "" {
				pa["id"] = id
				if len(g.Points) > 1 {
					pa["id"] = fmt.Sprintf("%s-%d", id, i+1)
				}
			}
			b.poi(p, pa)
		}
	case geom.GeomLineString:
		if id != "" {
			a["id"] = id
		}
		b.path(g.Points, a)
	case geom.GeomPolygon:
		if id != "" {
			a["id"] = id
		}
		if len(g.Rings) > 0 {
			b.region(g.Rings[0], a)
		}
	}
	return b.d
}
