package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldmap/internal/geom"
	"worldmap/internal/mapstate"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "mill",
     "properties": {"name": "Old Mill", "category": "landmark", "importance": 3},
     "geometry": {"type": "Point", "coordinates": [10, 20]}},
    {"type": "Feature",
     "properties": {"name": "Road", "color": "#aa5500"},
     "geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 0], [10, 10]]}},
    {"type": "Feature",
     "properties": {"id": "lake", "name": "Lake", "fill": "steelblue", "min_zoom": 5},
     "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [5, 0], [5, 5], [0, 0]]]}},
    {"type": "Feature",
     "geometry": {"type": "MultiPoint", "coordinates": [[1, 1], [2, 2]]}}
  ]
}`

func TestParseGeoJSON(t *testing.T) {
	d, err := Parse(FormatGeoJSON, strings.NewReader(sampleGeoJSON))
	require.NoError(t, err)

	require.Len(t, d.POIs, 3)
	mill := d.POIs[0]
	assert.Equal(t, "mill", mill.ID)
	assert.Equal(t, "Old Mill", mill.Name)
	assert.Equal(t, mapstate.CategoryLandmark, mill.Category)
	assert.Equal(t, 3.0, mill.Importance)
	assert.Equal(t, geom.C(10, 20), *mill.Position)
	assert.Equal(t, "poi-2", d.POIs[1].ID)
	assert.Equal(t, "poi-3", d.POIs[2].ID)

	require.Len(t, d.Paths, 1)
	road := d.Paths[0]
	assert.Equal(t, "path-1", road.ID)
	assert.Equal(t, "#aa5500", road.Color)
	assert.Len(t, road.Points, 3)
	assert.True(t, road.Points[0].Waypoint)
	assert.False(t, road.Points[1].Waypoint)
	assert.True(t, road.Points[2].Waypoint)

	require.Len(t, d.Regions, 1)
	lake := d.Regions[0]
	assert.Equal(t, "lake", lake.ID)
	assert.Equal(t, "steelblue", lake.Fill)
	assert.Equal(t, 5.0, lake.MinZoom)
	// closing vertex dropped
	assert.Len(t, lake.Polygon, 3)

	bb, ok := d.BBox()
	require.True(t, ok)
	assert.Equal(t, geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 20}, bb)
}

func TestParseGeoJSON_Errors(t *testing.T) {
	_, err := Parse(FormatGeoJSON, strings.NewReader(`{"type": "FeatureCollection", "features": []}`))
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = Parse(FormatGeoJSON, strings.NewReader(`{`))
	assert.Error(t, err)

	_, err = Parse(FormatGeoJSON, strings.NewReader(`{"coordinates": [1, 2]}`))
	assert.Error(t, err)
}

func TestParseCSV(t *testing.T) {
	in := "ID,Name,Lon,Lat,Category,Description\n" +
		"a,Alpha,1.5,2.5,shop,first\n" +
		"b,Beta,bad,3,city,\n" +
		",Gamma,4,5,town,\n"
	d, err := Parse(FormatCSV, strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, d.POIs, 2)
	assert.Equal(t, "a", d.POIs[0].ID)
	assert.Equal(t, "Alpha", d.POIs[0].Name)
	assert.Equal(t, geom.C(1.5, 2.5), *d.POIs[0].Position)
	assert.Equal(t, mapstate.CategoryShop, d.POIs[0].Category)
	assert.Equal(t, "first", d.POIs[0].Description)
	// generated id counts every POI, the skipped row does not
	assert.Equal(t, "poi-2", d.POIs[1].ID)
	assert.Equal(t, mapstate.CategoryCity, d.POIs[1].Category)

	_, err = Parse(FormatCSV, strings.NewReader("name,foo\nx,1\n"))
	assert.ErrorContains(t, err, "columns not found")
}

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark id="tower">
      <name>Tower</name>
      <description>tall</description>
      <Point><coordinates>3,4,0</coordinates></Point>
    </Placemark>
    <Folder>
      <Placemark>
        <name>Trail</name>
        <LineString><coordinates>0,0 5,5 10,0</coordinates></LineString>
      </Placemark>
      <Placemark>
        <name>Field</name>
        <Polygon><outerBoundaryIs><LinearRing>
          <coordinates>0,0 4,0 4,4 0,4 0,0</coordinates>
        </LinearRing></outerBoundaryIs></Polygon>
      </Placemark>
    </Folder>
  </Document>
</kml>`

func TestParseKML(t *testing.T) {
	d, err := Parse(FormatKML, strings.NewReader(sampleKML))
	require.NoError(t, err)

	require.Len(t, d.POIs, 1)
	assert.Equal(t, "tower", d.POIs[0].ID)
	assert.Equal(t, "Tower", d.POIs[0].Name)
	assert.Equal(t, "tall", d.POIs[0].Description)
	assert.Equal(t, geom.C(3, 4), *d.POIs[0].Position)

	require.Len(t, d.Paths, 1)
	assert.Equal(t, "path-1", d.Paths[0].ID)
	assert.Len(t, d.Paths[0].Points, 3)

	require.Len(t, d.Regions, 1)
	assert.Equal(t, "Field", d.Regions[0].Name)
	assert.Len(t, d.Regions[0].Polygon, 4)
}

func TestParseWKT(t *testing.T) {
	in := "# sample\n" +
		"POINT(10 20)\tOld Mill\n" +
		"\n" +
		"LINESTRING(0 0, 10 0)\n" +
		"POLYGON((0 0, 4 0, 4 4, 0 0))\tPond\n" +
		"MULTIPOINT((1 1), (2 2))\n"
	d, err := Parse(FormatWKT, strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, d.POIs, 3)
	assert.Equal(t, "wkt-1", d.POIs[0].ID)
	assert.Equal(t, "Old Mill", d.POIs[0].Name)
	assert.Equal(t, "wkt-4-1", d.POIs[1].ID)
	assert.Equal(t, "wkt-4-2", d.POIs[2].ID)

	require.Len(t, d.Paths, 1)
	assert.Equal(t, "wkt-2", d.Paths[0].ID)

	require.Len(t, d.Regions, 1)
	assert.Equal(t, "Pond", d.Regions[0].Name)
	assert.Len(t, d.Regions[0].Polygon, 3)

	_, err = Parse(FormatWKT, strings.NewReader("CIRCLE(1 2 3)\n"))
	assert.ErrorIs(t, err, geom.ErrUnsupportedWKT)
}

const sampleYAML = `
regions:
  - id: lake
    name: Lake
    fill: steelblue
    polygon:
      - {x: 0, y: 0}
      - {x: 10, y: 0}
      - {x: 10, y: 10}
pois:
  - id: mill
    name: Old Mill
    position: {x: 10, y: 20}
    category: town
    importance: 2
  - id: ghost
    name: No position
paths:
  - id: road
    color: "#aa5500"
    points:
      - {x: 0, y: 0, waypoint: true}
      - {x: 10, y: 10}
`

func TestParseYAML(t *testing.T) {
	d, err := Parse(FormatYAML, strings.NewReader(sampleYAML))
	require.NoError(t, err)

	require.Len(t, d.Regions, 1)
	assert.Len(t, d.Regions[0].Polygon, 3)

	require.Len(t, d.POIs, 2)
	assert.Equal(t, mapstate.CategoryCity, d.POIs[0].Category)
	assert.Equal(t, geom.C(10, 20), *d.POIs[0].Position)
	assert.Nil(t, d.POIs[1].Position, "validation is left to the map state")

	require.Len(t, d.Paths, 1)
	assert.True(t, d.Paths[0].Points[0].Waypoint)
	assert.Equal(t, geom.C(10, 10), d.Paths[0].Points[1].Coordinate)

	// the invalid POI is rejected on ingestion, the rest is stored
	st := mapstate.New(mapstate.Options{})
	assert.Equal(t, 1, st.SetInitialData(d.Regions, d.POIs, d.Paths))
	assert.Len(t, st.POIs(), 1)

	_, err = Parse(FormatYAML, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoGeometry)
}

func TestEncodeYAML_ReadsBack(t *testing.T) {
	pos := geom.C(1, 2)
	in := Dataset{
		POIs:  []mapstate.POI{{ID: "a", Name: "A", Position: &pos, Category: mapstate.CategoryQuest}},
		Paths: []mapstate.Path{{ID: "p", Points: []mapstate.PathPoint{{Coordinate: geom.C(0, 0), Waypoint: true}}}},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, in))
	assert.Contains(t, buf.String(), "category: quest")

	out, err := Parse(FormatYAML, &buf)
	require.NoError(t, err)
	assert.Equal(t, in.POIs[0].Category, out.POIs[0].Category)
	assert.Equal(t, pos, *out.POIs[0].Position)
	assert.Equal(t, in.Paths[0].Points, out.Paths[0].Points)
}

func TestFromGeometry(t *testing.T) {
	g, err := geom.ParseWKT("POINT(3 4)")
	require.NoError(t, err)
	d := FromGeometry(g, "x", "X")
	require.Len(t, d.POIs, 1)
	assert.Equal(t, "x", d.POIs[0].ID)
	assert.Equal(t, "X", d.POIs[0].Name)

	g, err = geom.ParseWKT("POLYGON((0 0, 1 0, 1 1, 0 0))")
	require.NoError(t, err)
	d = FromGeometry(g, "", "")
	require.Len(t, d.Regions, 1)
	assert.Equal(t, "region-1", d.Regions[0].ID)
}

func TestDetectFormatAndLoad(t *testing.T) {
	for path, want := range map[string]Format{
		"a.geojson": FormatGeoJSON, "a.JSON": FormatGeoJSON, "a.csv": FormatCSV,
		"a.kml": FormatKML, "a.wkt": FormatWKT, "a.yml": FormatYAML,
	} {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := DetectFormat("a.shp")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	dir := t.TempDir()
	path := filepath.Join(dir, "map.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleGeoJSON), 0o644))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Len())

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.wkt")
	require.NoError(t, os.WriteFile(path, []byte("POINT(1 1)\n"), 0o644))

	w, err := NewWatcher(path, WatchOptions{Debounce: 20 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(path, []byte("POINT(1 1)\nPOINT(2 2)\n"), 0o644))

	select {
	case u := <-w.Updates():
		require.NoError(t, u.Err)
		assert.Len(t, u.Data.POIs, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	// unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.wkt"), []byte("POINT(0 0)\n"), 0o644))
	select {
	case u := <-w.Updates():
		t.Fatalf("unexpected update %+v", u)
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, w.Close())
	_, open := <-w.Updates()
	assert.False(t, open)
}
