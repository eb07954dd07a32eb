package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"worldmap/internal/geom"
)

// ImageSurface rasterizes into an RGBA image whose backing size is the
// logical size times the pixel ratio.
type ImageSurface struct {
	w, h  float64
	ratio float64
	img   *image.RGBA
	ras   *vector.Rasterizer
	face  font.Face
}

func NewImageSurface(w, h, pixelRatio float64) *ImageSurface {
	s := &ImageSurface{face: basicfont.Face7x13}
	s.Resize(w, h, pixelRatio)
	return s
}

func (s *ImageSurface) Size() (w, h float64) { return s.w, s.h }

func (s *ImageSurface) Resize(w, h, pixelRatio float64) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	s.w, s.h, s.ratio = w, h, pixelRatio
	pw, ph := int(math.Ceil(w*pixelRatio)), int(math.Ceil(h*pixelRatio))
	s.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
	s.ras = vector.NewRasterizer(pw, ph)
}

// Image is the backing image in device pixels.
func (s *ImageSurface) Image() *image.RGBA { return s.img }

func (s *ImageSurface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

func (s *ImageSurface) Clear(bg colorful.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(nrgba(bg, 1)), image.Point{}, draw.Src)
}

// fill rasterizes one closed path in device pixels.
func (s *ImageSurface) fill(pts []geom.Coordinate, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := s.img.Bounds()
	s.ras.Reset(b.Dx(), b.Dy())
	s.ras.DrawOp = draw.Over
	s.ras.MoveTo(float32(pts[0].X*s.ratio), float32(pts[0].Y*s.ratio))
	for _, p := range pts[1:] {
		s.ras.LineTo(float32(p.X*s.ratio), float32(p.Y*s.ratio))
	}
	s.ras.ClosePath()
	s.ras.Draw(s.img, b, image.NewUniform(c), image.Point{})
}

func (s *ImageSurface) FillPolygon(pts []geom.Coordinate, fill colorful.Color, alpha float64) {
	s.fill(pts, nrgba(fill, alpha))
}

// StrokePolyline draws each segment as a quad with round caps at the joints.
func (s *ImageSurface) StrokePolyline(pts []geom.Coordinate, stroke colorful.Color, width float64, closed bool) {
	if len(pts) == 0 {
		return
	}
	if width <= 0 {
		width = 1
	}
	c := nrgba(stroke, 1)
	segs := len(pts) - 1
	if closed && len(pts) > 2 {
		segs = len(pts)
	}
	half := width / 2
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%len(pts)]
		d := b.Sub(a)
		l := d.Len()
		if l == 0 {
			continue
		}
		n := geom.C(-d.Y/l*half, d.X/l*half)
		s.fill([]geom.Coordinate{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, c)
	}
	if width > 2 {
		for _, p := range pts {
			s.fill(circlePoints(p, half), c)
		}
	}
}

func (s *ImageSurface) FillCircle(center geom.Coordinate, r float64, fill colorful.Color) {
	s.fill(circlePoints(center, r), nrgba(fill, 1))
}

func (s *ImageSurface) StrokeCircle(center geom.Coordinate, r float64, stroke colorful.Color, width float64) {
	s.StrokePolyline(circlePoints(center, r), stroke, width, true)
}

func (s *ImageSurface) Text(at geom.Coordinate, str string, c colorful.Color) {
	if str == "" {
		return
	}
	adv := font.MeasureString(s.face, str).Round()
	ascent := s.face.Metrics().Ascent.Round()
	x := int(math.Round(at.X*s.ratio)) - adv/2
	y := int(math.Round(at.Y*s.ratio)) + ascent/2
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(nrgba(c, 1)),
		Face: s.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(str)
}
