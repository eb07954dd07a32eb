package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"worldmap/internal/geom"
)

func parseGeoJSON(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Dataset{}, fmt.Errorf("geojson: %w", err)
	}
	b := &builder{}

	parsePoint := func(v any) (geom.Coordinate, bool) {
		if a, ok := v.([]any); ok && len(a) >= 2 {
			x, xok := a[0].(float64)
			y, yok := a[1].(float64)
			if xok && yok {
				return geom.C(x, y), true
			}
		}
		return geom.Coordinate{}, false
	}
	parsePoints := func(v any) []geom.Coordinate {
		arr, _ := v.([]any)
		var pts []geom.Coordinate
		for _, el := range arr {
			if pt, ok := parsePoint(el); ok {
				pts = append(pts, pt)
			}
		}
		return pts
	}
	parseNested := func(v any) [][]geom.Coordinate {
		arr, _ := v.([]any)
		var out [][]geom.Coordinate
		for _, el := range arr {
			out = append(out, parsePoints(el))
		}
		return out
	}
	outerRing := func(v any) []geom.Coordinate {
		if rings := parseNested(v); len(rings) > 0 {
			return rings[0]
		}
		return nil
	}

	var walkGeom func(g map[string]any, a attrs)
	walkGeom = func(g map[string]any, a attrs) {
		gt, _ := g["type"].(string)
		switch gt {
		case "Point":
			if pt, ok := parsePoint(g["coordinates"]); ok {
				b.poi(pt, a)
			}
		case "MultiPoint":
			for _, pt := range parsePoints(g["coordinates"]) {
				b.poi(pt, withoutID(a))
			}
		case "LineString":
			b.path(parsePoints(g["coordinates"]), a)
		case "MultiLineString":
			for _, ls := range parseNested(g["coordinates"]) {
				b.path(ls, withoutID(a))
			}
		case "Polygon":
			b.region(outerRing(g["coordinates"]), a)
		case "MultiPolygon":
			polys, _ := g["coordinates"].([]any)
			for _, p := range polys {
				b.region(outerRing(p), withoutID(a))
			}
		case "GeometryCollection":
			geoms, _ := g["geometries"].([]any)
			for _, el := range geoms {
				if gm, ok := el.(map[string]any); ok {
					walkGeom(gm, withoutID(a))
				}
			}
		}
	}
	feature := func(fm map[string]any) {
		a := attrs{}
		if props, ok := fm["properties"].(map[string]any); ok {
			for k, v := range props {
				a[k] = v
			}
		}
		if _, ok := a["id"]; !ok {
			if id, ok := fm["id"]; ok {
				a["id"] = id
			}
		}
		if g, ok := fm["geometry"].(map[string]any); ok {
			walkGeom(g, a)
		}
	}

	t, _ := raw["type"].(string)
	switch t {
	case "Feature":
		feature(raw)
	case "FeatureCollection":
		fs, _ := raw["features"].([]any)
		for _, f := range fs {
			if fm, ok := f.(map[string]any); ok {
				feature(fm)
			}
		}
	case "":
		return Dataset{}, fmt.Errorf("geojson: missing type")
	default:
		walkGeom(raw, attrs{})
	}
	return b.d, nil
}

// withoutID copies a minus its id so multi-geometries get generated ids
// instead of repeating one.
func withoutID(a attrs) attrs {
	out := make(attrs, len(a))
	for k, v := range a {
		if k != "id" {
			out[k] = v
		}
	}
	return out
}
