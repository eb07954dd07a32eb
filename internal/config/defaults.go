package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	ProfileHigh = "high"
	ProfileLow  = "low"

	DefaultMinZoom     = 3.0
	DefaultMaxZoom     = 10.0
	DefaultInitialZoom = 4.0
	DefaultTheme       = "dark"

	DefaultClusterBelowZoom = 7.0
	DefaultMinFrameInterval = 16 * time.Millisecond
	DefaultPixelRatio       = 1.0
	lowProfileFrameSkip     = 3

	DefaultGridStep          = 10.0
	DefaultMaxIterations     = 1000
	DefaultSimplifyTolerance = 10.0
	DefaultSmoothFactor      = 0.25

	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	DefaultLogFile   = "worldmap.log"
)

// ApplyDefaults fills zero-valued fields. Explicit values always win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Map.MinZoom == 0 {
		cfg.Map.MinZoom = DefaultMinZoom
	}
	if cfg.Map.MaxZoom == 0 {
		cfg.Map.MaxZoom = DefaultMaxZoom
	}
	if cfg.Map.InitialZoom == 0 {
		cfg.Map.InitialZoom = DefaultInitialZoom
	}
	if cfg.Map.Theme == "" {
		cfg.Map.Theme = DefaultTheme
	}

	if cfg.Render.Profile == "" {
		cfg.Render.Profile = ProfileHigh
	}
	if cfg.Render.FrameSkip == 0 {
		cfg.Render.FrameSkip = 1
		if cfg.Render.Profile == ProfileLow {
			cfg.Render.FrameSkip = lowProfileFrameSkip
		}
	}
	if cfg.Render.ClusterBelowZoom == 0 {
		cfg.Render.ClusterBelowZoom = DefaultClusterBelowZoom
	}
	if cfg.Render.MinFrameInterval == 0 {
		cfg.Render.MinFrameInterval = DefaultMinFrameInterval
	}
	if cfg.Render.PixelRatio == 0 {
		cfg.Render.PixelRatio = DefaultPixelRatio
	}

	if cfg.Route.GridStep == 0 {
		cfg.Route.GridStep = DefaultGridStep
	}
	if cfg.Route.MaxIterations == 0 {
		cfg.Route.MaxIterations = DefaultMaxIterations
	}
	if cfg.Route.SimplifyTolerance == 0 {
		cfg.Route.SimplifyTolerance = DefaultSimplifyTolerance
	}
	if cfg.Route.SmoothFactor == 0 {
		cfg.Route.SmoothFactor = DefaultSmoothFactor
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{DefaultLogFile}
	}
}

// Default returns a fully defaulted configuration.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// registerKeys makes every key known to viper so AutomaticEnv can override
// keys that are absent from the file.
func registerKeys(v *viper.Viper) {
	for _, k := range []string{
		"map.min_zoom", "map.max_zoom", "map.initial_zoom", "map.center_x", "map.center_y", "map.theme",
		"render.profile", "render.max_visible_pois", "render.frame_skip", "render.cluster_below_zoom",
		"render.min_frame_interval", "render.pixel_ratio",
		"route.grid_step", "route.max_iterations", "route.simplify_tolerance", "route.smooth_factor",
		"data.path", "data.watch",
		"log.level", "log.format", "log.output_paths",
	} {
		v.SetDefault(k, nil)
	}
}
