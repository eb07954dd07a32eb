package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"worldmap/internal/config"
	"worldmap/internal/dataset"
	"worldmap/internal/geom"
	"worldmap/internal/logging"
	"worldmap/internal/mapstate"
	"worldmap/internal/pathfind"
	"worldmap/internal/render"
	"worldmap/internal/tui"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFile    string
	profile    string
	watch      bool
}

// app carries what PersistentPreRunE initialised to the subcommands.
type app struct {
	cfg *config.Config
	log logging.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:     "worldmap [file]",
		Short:   "Terminal map of regions, places and paths",
		Long:    "worldmap renders a virtual-coordinate map in the terminal with animated pan/zoom,\nPOI clustering, hover and click inspection and A* routing between clicks.\nSupported data: GeoJSON, CSV, KML, WKT and YAML.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runViewer(cmd, opts, args)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "log file (default: worldmap.log)")
	pf.StringVar(&opts.profile, "profile", "", "render profile (high, low)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the data file when it changes")

	cmd.AddCommand(newRouteCommand(a), newSnapshotCommand(a))
	return cmd
}

func (a *app) init(opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.OutputPaths = []string{opts.logFile}
	}
	if opts.profile != "" {
		cfg.Render.Profile = opts.profile
		cfg.Render.FrameSkip = 0
		config.ApplyDefaults(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) runViewer(cmd *cobra.Command, opts *rootOptions, args []string) error {
	path := a.cfg.Data.Path
	if len(args) == 1 {
		path = args[0]
	}
	data, err := loadData(path)
	if err != nil {
		return err
	}
	so, err := a.storeOptions(data)
	if err != nil {
		return err
	}
	source := ""
	if path != "" {
		source = filepath.Base(path)
	}

	m := tui.New(tui.Options{
		Regions: data.Regions,
		POIs:    data.POIs,
		Paths:   data.Paths,
		Budget:  a.budget(),
		Store:   so,
		Route:   a.routeOptions(),
		Logger:  a.log,
		Source:  source,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context()))

	if path != "" && (opts.watch || a.cfg.Data.Watch) {
		w, err := dataset.NewWatcher(path, dataset.WatchOptions{Logger: a.log})
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			for u := range w.Updates() {
				p.Send(tui.DatasetMsg(u))
			}
		}()
	}

	a.log.Info("viewer started",
		logging.String("source", source),
		logging.Int("entities", data.Len()),
		logging.String("profile", a.cfg.Render.Profile))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

// loadData reads path, or returns an empty dataset when there is none.
func loadData(path string) (dataset.Dataset, error) {
	if path == "" {
		return dataset.Dataset{}, nil
	}
	return dataset.Load(path)
}

// storeOptions centres the map on the data unless the config names a center.
func (a *app) storeOptions(data dataset.Dataset) (mapstate.Options, error) {
	mc := a.cfg.Map
	theme, err := mapstate.ParseTheme(mc.Theme)
	if err != nil {
		return mapstate.Options{}, err
	}
	center := geom.C(mc.CenterX, mc.CenterY)
	if bb, ok := data.BBox(); ok && center == (geom.Coordinate{}) {
		center = bb.Center()
	}
	return mapstate.Options{
		MinZoom: mc.MinZoom,
		MaxZoom: mc.MaxZoom,
		Center:  center,
		Zoom:    mc.InitialZoom,
		Theme:   theme,
		Logger:  a.log,
	}, nil
}

func (a *app) budget() render.RenderBudget {
	rc := a.cfg.Render
	b := render.BudgetFor(rc.Profile)
	if rc.MaxVisiblePOIs > 0 {
		b.MaxVisiblePOIs = rc.MaxVisiblePOIs
	}
	b.FrameSkip = rc.FrameSkip
	b.ClusterBelowZoom = rc.ClusterBelowZoom
	b.MinFrameInterval = rc.MinFrameInterval
	return b
}

func (a *app) routeOptions() tui.RouteOptions {
	rc := a.cfg.Route
	return tui.RouteOptions{
		Search:            pathfind.Options{GridStep: rc.GridStep, MaxIterations: rc.MaxIterations},
		SimplifyTolerance: rc.SimplifyTolerance,
		SmoothFactor:      rc.SmoothFactor,
	}
}

// parsePoint reads "x,y".
func parsePoint(s string) (geom.Coordinate, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Coordinate{}, fmt.Errorf("point %q: expected x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Coordinate{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Coordinate{}, fmt.Errorf("point %q: %w", s, err)
	}
	c := geom.C(x, y)
	if !c.IsFinite() {
		return geom.Coordinate{}, fmt.Errorf("point %q: not finite", s)
	}
	return c, nil
}
