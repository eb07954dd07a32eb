// Package tui is the terminal composition shell: it owns a map state, an
// input controller and a renderer drawing into a braille surface, and runs
// them on the bubbletea event loop together with the header controls, the
// places list, the attribute table, the WKT paste box and the route tool.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"worldmap/internal/geom"
	"worldmap/internal/input"
	"worldmap/internal/logging"
	"worldmap/internal/mapstate"
	"worldmap/internal/render"
)

const (
	headerHeight = 1
	sidebarWidth = 28
	inspectWidth = 34
	minMapCols   = 10
	minMapRows   = 4
)

// Options configure an embeddable map panel.
type Options struct {
	Regions []mapstate.Region
	POIs    []mapstate.POI
	Paths   []mapstate.Path

	// OnPOIClick and OnMapClick are called after the panel's own handling.
	OnPOIClick func(id string)
	OnMapClick func(world geom.Coordinate)

	Budget render.RenderBudget
	Store  mapstate.Options
	Route  RouteOptions
	Logger logging.Logger

	// Source names the loaded dataset in the header.
	Source string
	// Clock drives hover timing and frame stats; defaults to time.Now.
	Clock func() time.Time
}

type Model struct {
	opts Options
	log  logging.Logger

	store *mapstate.State
	ctrl  *input.Controller
	surf  *render.BrailleSurface
	rend  *render.Renderer
	sched *render.FrameScheduler
	unsub func()

	keys keyMap
	help help.Model

	width  int
	height int

	// a frame tick is in flight
	ticking bool
	canvas  []string
	frame   render.FrameInfo

	status    string
	statusErr bool

	// places list
	showSidebar bool
	l           list.Model
	listStale   bool

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// attributes table
	showAttrs bool
	tbl       table.Model

	// inspect popup
	showInspect bool
	inspectID   string

	// last two map clicks, oldest first
	clicks []geom.Coordinate

	// pointer state
	hovering bool
	pointer  geom.Coordinate
}

// New builds the panel and loads the initial entities.
func New(opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Budget == (render.RenderBudget{}) {
		opts.Budget = render.HighBudget
	}
	opts.Route = opts.Route.withDefaults()
	log := logging.OrNop(opts.Logger)
	so := opts.Store
	if so.Logger == nil {
		so.Logger = log
	}

	m := &Model{
		opts:      opts,
		log:       log.Named("tui"),
		store:     mapstate.New(so),
		surf:      render.NewBrailleSurface(0, 0),
		sched:     render.NewFrameScheduler(opts.Budget),
		keys:      defaultKeys(),
		help:      help.New(),
		status:    "worldmap ready",
		listStale: true,
	}
	m.ctrl = input.New(m.store, input.Options{
		OnPOIClick: m.poiClicked,
		OnMapClick: m.mapClicked,
		Logger:     log,
		Clock:      opts.Clock,
	})
	m.rend = render.New(m.store, m.surf, render.Options{
		Budget: opts.Budget,
		Logger: log,
		Clock:  opts.Clock,
	})
	m.unsub = m.store.Subscribe(func(c mapstate.Change) {
		m.sched.Invalidate()
		if c&mapstate.ChangeEntities != 0 {
			m.listStale = true
		}
	})
	if rejected := m.store.SetInitialData(opts.Regions, opts.POIs, opts.Paths); rejected > 0 {
		m.setError("%d invalid entities skipped", rejected)
	}

	// list setup
	d := list.NewDefaultDelegate()
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Places"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, MULTIPOINT, LINESTRING, POLYGON). Press Enter to add; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// attributes table setup
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m
}

// Store exposes the map state so the host can drive it at runtime.
func (m *Model) Store() *mapstate.State { return m.store }

// Stats are the renderer's last published frame statistics.
func (m *Model) Stats() render.Stats { return m.rend.Stats() }

// Status is the footer message.
func (m *Model) Status() string { return m.status }

// Close detaches input handling and stops listening to the store.
func (m *Model) Close() {
	m.ctrl.Detach()
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

func (m *Model) Init() tea.Cmd { return m.schedule() }

// mapRect is the map area in terminal cells.
func (m *Model) mapRect() (x, y, cols, rows int) {
	if m.showSidebar {
		x = sidebarWidth + 1
	}
	cols = m.width - x
	if m.showInspect {
		cols -= inspectWidth
	}
	return x, headerHeight, max(minMapCols, cols), max(minMapRows, m.height-headerHeight-m.footerRows())
}

// footerRows is the status line plus the help view.
func (m *Model) footerRows() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

// layout sizes the surface to the map area; one cell is 2x4 dots.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	_, _, cols, rows := m.mapRect()
	m.rend.Resize(float64(cols*2), float64(rows*4), 1)
	m.l.SetSize(sidebarWidth-2, rows-2)
	m.help.Width = m.width
	m.sched.Invalidate()
}

// cellToDot maps a terminal cell to the surface dot at its centre, or
// reports false outside the map area.
func (m *Model) cellToDot(cx, cy int) (geom.Coordinate, bool) {
	x, y, cols, rows := m.mapRect()
	if cx < x || cx >= x+cols || cy < y || cy >= y+rows {
		return geom.Coordinate{}, false
	}
	return geom.C(float64((cx-x)*2+1), float64((cy-y)*4+2)), true
}
