package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "WORLDMAP"

// newViper maps nested keys to env vars, e.g. map.min_zoom -> WORLDMAP_MAP_MIN_ZOOM.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerKeys(v)
	return v
}

// Load reads the YAML file at path, merges WORLDMAP_* overrides, applies
// defaults and validates. An empty path loads from the environment only.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromEnv()
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	return finalize(v)
}

// LoadFromEnv builds a Config from WORLDMAP_* variables and defaults.
func LoadFromEnv() (*Config, error) {
	return finalize(newViper())
}

func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
