// Package config loads worldmap settings from YAML and WORLDMAP_* env vars.
package config

import (
	"fmt"
	"time"

	"worldmap/internal/logging"
	"worldmap/internal/mapstate"
)

type Config struct {
	Map    MapConfig         `mapstructure:"map"`
	Render RenderConfig      `mapstructure:"render"`
	Route  RouteConfig       `mapstructure:"route"`
	Data   DataConfig        `mapstructure:"data"`
	Log    logging.LogConfig `mapstructure:"log"`
}

type MapConfig struct {
	MinZoom     float64 `mapstructure:"min_zoom"`
	MaxZoom     float64 `mapstructure:"max_zoom"`
	InitialZoom float64 `mapstructure:"initial_zoom"`
	CenterX     float64 `mapstructure:"center_x"`
	CenterY     float64 `mapstructure:"center_y"`
	Theme       string  `mapstructure:"theme"`
}

type RenderConfig struct {
	// high|low; selects FrameSkip when it is unset
	Profile          string        `mapstructure:"profile"`
	MaxVisiblePOIs   int           `mapstructure:"max_visible_pois"`
	FrameSkip        int           `mapstructure:"frame_skip"`
	ClusterBelowZoom float64       `mapstructure:"cluster_below_zoom"`
	MinFrameInterval time.Duration `mapstructure:"min_frame_interval"`
	PixelRatio       float64       `mapstructure:"pixel_ratio"`
}

type RouteConfig struct {
	GridStep          float64 `mapstructure:"grid_step"`
	MaxIterations     int     `mapstructure:"max_iterations"`
	SimplifyTolerance float64 `mapstructure:"simplify_tolerance"`
	SmoothFactor      float64 `mapstructure:"smooth_factor"`
}

type DataConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// Validate checks ranges after defaults have been applied.
func (c *Config) Validate() error {
	if c.Map.MinZoom >= c.Map.MaxZoom {
		return fmt.Errorf("config: map.min_zoom %.2f must be below map.max_zoom %.2f", c.Map.MinZoom, c.Map.MaxZoom)
	}
	if c.Map.InitialZoom < c.Map.MinZoom || c.Map.InitialZoom > c.Map.MaxZoom {
		return fmt.Errorf("config: map.initial_zoom %.2f outside [%.2f, %.2f]", c.Map.InitialZoom, c.Map.MinZoom, c.Map.MaxZoom)
	}
	if _, err := mapstate.ParseTheme(c.Map.Theme); err != nil {
		return fmt.Errorf("config: map.theme: %w", err)
	}
	switch c.Render.Profile {
	case ProfileHigh, ProfileLow:
	default:
		return fmt.Errorf("config: render.profile %q is invalid; expected high|low", c.Render.Profile)
	}
	if c.Render.FrameSkip < 1 {
		return fmt.Errorf("config: render.frame_skip must be >= 1, got %d", c.Render.FrameSkip)
	}
	if c.Render.MaxVisiblePOIs < 0 {
		return fmt.Errorf("config: render.max_visible_pois must be >= 0, got %d", c.Render.MaxVisiblePOIs)
	}
	if c.Render.PixelRatio <= 0 {
		return fmt.Errorf("config: render.pixel_ratio must be > 0, got %.2f", c.Render.PixelRatio)
	}
	if c.Route.GridStep <= 0 {
		return fmt.Errorf("config: route.grid_step must be > 0, got %.2f", c.Route.GridStep)
	}
	if c.Route.MaxIterations < 1 {
		return fmt.Errorf("config: route.max_iterations must be >= 1, got %d", c.Route.MaxIterations)
	}
	if c.Route.SmoothFactor < 0 || c.Route.SmoothFactor > 1 {
		return fmt.Errorf("config: route.smooth_factor %.2f outside [0, 1]", c.Route.SmoothFactor)
	}
	return nil
}
