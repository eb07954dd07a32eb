package dataset

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"worldmap/internal/geom"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer struct {
		Ring kmlCoords `xml:"LinearRing"`
	} `xml:"outerBoundaryIs"`
}

type kmlPlacemark struct {
	ID          string      `xml:"id,attr"`
	Name        string      `xml:"name"`
	Description string      `xml:"description"`
	Point       *kmlCoords  `xml:"Point"`
	LineString  *kmlCoords  `xml:"LineString"`
	Polygon     *kmlPolygon `xml:"Polygon"`
}

// kmlDoc matches Placemarks at any depth under Document/Folder.
type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Document   *kmlDoc        `xml:"Document"`
	Folders    []kmlDoc       `xml:"Folder"`
}

func (d *kmlDoc) walk(fn func(kmlPlacemark)) {
	for _, pm := range d.Placemarks {
		fn(pm)
	}
	if d.Document != nil {
		d.Document.walk(fn)
	}
	for i := range d.Folders {
		d.Folders[i].walk(fn)
	}
}

// parseKMLCoords reads whitespace-separated "x,y[,alt]" tuples; altitude is ignored.
func parseKMLCoords(s string) []geom.Coordinate {
	var out []geom.Coordinate
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, geom.C(x, y))
	}
	return out
}

func parseKML(r io.Reader) (Dataset, error) {
	var doc kmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Dataset{}, fmt.Errorf("kml: %w", err)
	}
	b := &builder{}
	doc.walk(func(pm kmlPlacemark) {
		a := attrs{"name": strings.TrimSpace(pm.Name), "description": strings.TrimSpace(pm.Description)}
		if pm.ID != "" {
			a["id"] = pm.ID
		}
		switch {
		case pm.Point != nil:
			for _, c := range parseKMLCoords(pm.Point.Coordinates) {
				b.poi(c, a)
				delete(a, "id")
			}
		case pm.LineString != nil:
			b.path(parseKMLCoords(pm.LineString.Coordinates), a)
		case pm.Polygon != nil:
			b.region(parseKMLCoords(pm.Polygon.Outer.Ring.Coordinates), a)
		}
	})
	return b.d, nil
}
