package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"worldmap/internal/dataset"
	"worldmap/internal/geom"
	"worldmap/internal/logging"
	"worldmap/internal/mapstate"
	"worldmap/internal/render"
)

type snapshotOptions struct {
	out        string
	width      int
	height     int
	zoom       float64
	center     string
	theme      string
	pixelRatio float64
}

func newSnapshotCommand(a *app) *cobra.Command {
	so := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "Render the map to a PNG image",
		Example: "  worldmap snapshot world.geojson --out world.png\n" +
			"  worldmap snapshot towns.csv --zoom 6 --center 120,80 --theme parchment",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Data.Path
			if len(args) == 1 {
				path = args[0]
			}
			data, err := loadData(path)
			if err != nil {
				return err
			}
			return a.snapshot(cmd, so, data)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&so.out, "out", "o", "worldmap.png", "output PNG file")
	f.IntVar(&so.width, "width", 800, "logical width in pixels")
	f.IntVar(&so.height, "height", 600, "logical height in pixels")
	f.Float64Var(&so.zoom, "zoom", 0, "zoom level (default: fit the data)")
	f.StringVar(&so.center, "center", "", "map center x,y (default: data center)")
	f.StringVar(&so.theme, "theme", "", "theme (dark, light, parchment)")
	f.Float64Var(&so.pixelRatio, "pixel-ratio", 0, "device pixel ratio (default: render.pixel_ratio)")
	return cmd
}

func (a *app) snapshot(cmd *cobra.Command, so *snapshotOptions, data dataset.Dataset) error {
	if so.width <= 0 || so.height <= 0 {
		return fmt.Errorf("snapshot: size %dx%d must be positive", so.width, so.height)
	}
	opts, err := a.storeOptions(data)
	if err != nil {
		return err
	}
	w, h := float64(so.width), float64(so.height)
	opts.Width, opts.Height = w, h
	if so.center != "" {
		if opts.Center, err = parsePoint(so.center); err != nil {
			return err
		}
	}
	switch bb, ok := data.BBox(); {
	case so.zoom > 0:
		opts.Zoom = so.zoom
	case ok:
		if z, fits := fitZoom(bb, w, h); fits {
			opts.Zoom = z
		}
	}
	if so.theme != "" {
		if opts.Theme, err = mapstate.ParseTheme(so.theme); err != nil {
			return err
		}
	}
	ratio := so.pixelRatio
	if ratio <= 0 {
		ratio = a.cfg.Render.PixelRatio
	}

	store := mapstate.New(opts)
	rejected := store.SetInitialData(data.Regions, data.POIs, data.Paths)
	surface := render.NewImageSurface(w, h, ratio)
	r := render.New(store, surface, render.Options{Budget: a.budget(), Logger: a.log})
	r.Resize(w, h, ratio)
	info := r.Render(time.Now())

	f, err := os.Create(so.out)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := surface.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	a.log.Info("snapshot written",
		logging.String("out", so.out),
		logging.Float64("zoom", store.Zoom()),
		logging.Int("visible_pois", info.VisiblePOIs),
		logging.Int("rejected", rejected))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d @%gx, zoom %.2f, %d regions, %d paths, %d pois)\n",
		so.out, so.width, so.height, ratio, store.Zoom(), info.Regions, info.Paths, info.VisiblePOIs)
	return nil
}

// fitZoom is the zoom at which bb fills the view with a 10% margin; it
// reports false for a single point. The store clamps it to its bounds.
func fitZoom(bb geom.BBox, w, h float64) (float64, bool) {
	bw, bh := bb.Width()*1.1, bb.Height()*1.1
	if bw <= 0 && bh <= 0 {
		return 0, false
	}
	scale := math.Inf(1)
	if bw > 0 {
		scale = w / bw
	}
	if bh > 0 {
		scale = math.Min(scale, h/bh)
	}
	return 1 + math.Log2(scale), true
}
