package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
map:
  min_zoom: 2
  max_zoom: 12
  initial_zoom: 5
  center_x: 500
  center_y: 250
  theme: parchment
render:
  profile: low
  max_visible_pois: 300
  min_frame_interval: 20ms
route:
  grid_step: 5
data:
  path: world.yaml
  watch: true
log:
  level: debug
  output_paths: ["stderr"]
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "worldmap.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeFile(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Map.MinZoom)
	assert.Equal(t, 12.0, cfg.Map.MaxZoom)
	assert.Equal(t, 5.0, cfg.Map.InitialZoom)
	assert.Equal(t, 500.0, cfg.Map.CenterX)
	assert.Equal(t, "parchment", cfg.Map.Theme)
	assert.Equal(t, ProfileLow, cfg.Render.Profile)
	assert.Equal(t, 3, cfg.Render.FrameSkip, "low profile defaults to 1-of-3 frames")
	assert.Equal(t, 300, cfg.Render.MaxVisiblePOIs)
	assert.Equal(t, 20*time.Millisecond, cfg.Render.MinFrameInterval)
	assert.Equal(t, 5.0, cfg.Route.GridStep)
	assert.Equal(t, DefaultMaxIterations, cfg.Route.MaxIterations)
	assert.Equal(t, "world.yaml", cfg.Data.Path)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("WORLDMAP_MAP_MAX_ZOOM", "9")
	t.Setenv("WORLDMAP_RENDER_FRAME_SKIP", "2")
	cfg, err := Load(writeFile(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 9.0, cfg.Map.MaxZoom)
	assert.Equal(t, 2, cfg.Render.FrameSkip)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultMinZoom, cfg.Map.MinZoom)
	assert.Equal(t, DefaultMaxZoom, cfg.Map.MaxZoom)
	assert.Equal(t, ProfileHigh, cfg.Render.Profile)
	assert.Equal(t, 1, cfg.Render.FrameSkip)
	assert.Equal(t, DefaultMinFrameInterval, cfg.Render.MinFrameInterval)
	assert.Equal(t, []string{DefaultLogFile}, cfg.Log.OutputPaths)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"zoom order":     func(c *Config) { c.Map.MinZoom, c.Map.MaxZoom = 8, 4 },
		"initial zoom":   func(c *Config) { c.Map.InitialZoom = 50 },
		"theme":          func(c *Config) { c.Map.Theme = "neon" },
		"profile":        func(c *Config) { c.Render.Profile = "ultra" },
		"frame skip":     func(c *Config) { c.Render.FrameSkip = -1 },
		"pixel ratio":    func(c *Config) { c.Render.PixelRatio = -2 },
		"grid step":      func(c *Config) { c.Route.GridStep = -1 },
		"smooth factor":  func(c *Config) { c.Route.SmoothFactor = 3 },
		"max iterations": func(c *Config) { c.Route.MaxIterations = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
