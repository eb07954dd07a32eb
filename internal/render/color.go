package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var ErrBadColor = errors.New("unrecognised colour")

var white = colorful.Color{R: 1, G: 1, B: 1}

// ParseColor accepts "#rgb", "#rrggbb" or an SVG colour name.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		return c, nil
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, nil
	}
	return colorful.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// colorOr parses s, or returns fallback when s is empty.
func colorOr(s string, fallback colorful.Color) (colorful.Color, error) {
	if s == "" {
		return fallback, nil
	}
	return ParseColor(s)
}

// paletteColor is for built-in palette entries, which are always valid hex.
func paletteColor(s string) colorful.Color {
	c, err := ParseColor(s)
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return c
}

func lighten(c colorful.Color, t float64) colorful.Color {
	return c.BlendRgb(white, t).Clamped()
}
