package mapstate

import (
	"fmt"
	"strings"
)

// Theme is a named palette, swappable without touching entities.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
	ThemeParchment
	themeCount
)

// Palette is the set of colours and sizes a theme applies to a frame.
// Colours are "#rrggbb" or SVG colour names.
type Palette struct {
	Background        string
	GridLine          string
	Text              string
	PathColor         string
	RegionFillOpacity float64
	POIIconSize       float64
}

var palettes = [themeCount]Palette{
	ThemeDark: {
		Background:        "#0B0F14",
		GridLine:          "#1C2733",
		Text:              "#E6E6E6",
		PathColor:         "#F5A524",
		RegionFillOpacity: 0.35,
		POIIconSize:       6,
	},
	ThemeLight: {
		Background:        "#F4F6F8",
		GridLine:          "#D5DCE3",
		Text:              "#1F2933",
		PathColor:         "#D9480F",
		RegionFillOpacity: 0.25,
		POIIconSize:       6,
	},
	ThemeParchment: {
		Background:        "#EFE3C8",
		GridLine:          "#D8C7A1",
		Text:              "#3B2F1E",
		PathColor:         "#8B3A1A",
		RegionFillOpacity: 0.3,
		POIIconSize:       7,
	},
}

var themeNames = [themeCount]string{"dark", "light", "parchment"}

func (t Theme) Palette() Palette {
	if t < 0 || t >= themeCount {
		return palettes[ThemeDark]
	}
	return palettes[t]
}

func (t Theme) String() string {
	if t < 0 || t >= themeCount {
		return "unknown"
	}
	return themeNames[t]
}

// Next returns the theme after t, wrapping around.
func (t Theme) Next() Theme { return (t + 1) % themeCount }

// ParseTheme resolves a theme name. Empty selects the dark theme.
func ParseTheme(s string) (Theme, error) {
	if s == "" {
		return ThemeDark, nil
	}
	for i, n := range themeNames {
		if strings.EqualFold(n, s) {
			return Theme(i), nil
		}
	}
	return ThemeDark, fmt.Errorf("unknown theme %q", s)
}
