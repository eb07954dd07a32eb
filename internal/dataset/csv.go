package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"worldmap/internal/geom"
)

// parseCSV reads one POI per row. Column detection is case-insensitive:
// x|lon|lng|long|longitude and y|lat|latitude; every other column becomes
// an attribute (id, name, category, color, description, importance...).
func parseCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("csv: %w", err)
	}
	if len(recs) == 0 {
		return Dataset{}, errors.New("csv: empty file")
	}
	header := make([]string, len(recs[0]))
	idxX, idxY := -1, -1
	for i, h := range recs[0] {
		lh := strings.ToLower(strings.TrimSpace(h))
		header[i] = lh
		switch lh {
		case "y", "lat", "latitude":
			if idxY == -1 {
				idxY = i
			}
		case "x", "lon", "lng", "long", "longitude":
			if idxX == -1 {
				idxX = i
			}
		}
	}
	if idxX == -1 || idxY == -1 {
		return Dataset{}, errors.New("csv: x/y (or lon/lat) columns not found")
	}
	b := &builder{}
	for _, row := range recs[1:] {
		if idxX >= len(row) || idxY >= len(row) {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxX]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxY]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		a := attrs{}
		for i, v := range row {
			if i < len(header) && i != idxX && i != idxY {
				a[header[i]] = strings.TrimSpace(v)
			}
		}
		b.poi(geom.C(x, y), a)
	}
	return b.d, nil
}
