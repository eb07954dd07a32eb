package main

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldmap/internal/dataset"
	"worldmap/internal/geom"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-file", filepath.Join(t.TempDir(), "worldmap.log")))
	err := cmd.Execute()
	return out.String(), err
}

func TestParsePoint(t *testing.T) {
	c, err := parsePoint(" 1.5, -2 ")
	require.NoError(t, err)
	assert.Equal(t, geom.C(1.5, -2), c)

	for _, bad := range []string{"", "1", "a,2", "1,b", "NaN,1"} {
		_, err := parsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestFitZoom(t *testing.T) {
	bb := geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50}
	z, ok := fitZoom(bb, 800, 600)
	require.True(t, ok)
	assert.InDelta(t, 1+math.Log2(800/110.0), z, 1e-9)

	_, ok = fitZoom(geom.BBox{MinX: 3, MinY: 3, MaxX: 3, MaxY: 3}, 800, 600)
	assert.False(t, ok)
}

func TestRouteCommand(t *testing.T) {
	out, err := run(t, "route", "--from", "0,0", "--to", "100,0", "--id", "r1")
	require.NoError(t, err)
	assert.Contains(t, out, "id: r1")

	d, err := dataset.Parse(dataset.FormatYAML, strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, d.Paths, 1)
	pts := d.Paths[0].Points
	assert.Equal(t, geom.C(0, 0), pts[0].Coordinate)
	assert.Equal(t, geom.C(100, 0), pts[len(pts)-1].Coordinate)
}

func TestRouteCommand_Errors(t *testing.T) {
	_, err := run(t, "route", "--from", "0,0", "--to", "oops")
	assert.ErrorContains(t, err, "oops")

	_, err = run(t, "route", "--from", "0,0")
	assert.Error(t, err, "--to is required")
}

func TestSnapshotCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "places.geojson")
	require.NoError(t, os.WriteFile(src, []byte(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {"name": "A"}, "geometry": {"type": "Point", "coordinates": [0, 0]}},
		{"type": "Feature", "properties": {"name": "B"}, "geometry": {"type": "Point", "coordinates": [40, 20]}}
	]}`), 0o644))
	pngPath := filepath.Join(dir, "out.png")

	out, err := run(t, "snapshot", src, "--out", pngPath, "--width", "200", "--height", "100", "--pixel-ratio", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+pngPath)

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestSnapshotCommand_MissingFile(t *testing.T) {
	_, err := run(t, "snapshot", filepath.Join(t.TempDir(), "nope.csv"), "--out", filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)
}
