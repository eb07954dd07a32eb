package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"worldmap/internal/dataset"
	"worldmap/internal/geom"
	"worldmap/internal/logging"
)

// frameMsg is a frame tick carrying its timestamp.
type frameMsg time.Time

// DatasetMsg delivers a reloaded dataset; the host sends it with
// Program.Send from the file watcher.
type DatasetMsg dataset.Update

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
	case frameMsg:
		return m, m.frameTick(time.Time(msg))
	case DatasetMsg:
		m.reload(dataset.Update(msg))
	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			m.Close()
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	cmds = append(cmds, m.schedule())
	return m, tea.Batch(cmds...)
}

// schedule starts a frame tick when something needs drawing, an animation
// runs or a hover test is due, unless one is already in flight.
func (m *Model) schedule() tea.Cmd {
	if m.ticking {
		return nil
	}
	if !m.sched.Dirty() && !m.store.Animating() && !m.ctrl.HoverPending() {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.rend.Budget().MinFrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// frameTick advances animations and hover, then draws if the scheduler
// allows it.
func (m *Model) frameTick(now time.Time) tea.Cmd {
	m.ticking = false
	m.store.Tick(now)
	m.ctrl.Tick(now)
	if m.width > 0 && m.height > 0 && m.sched.Ready(now) {
		m.frame = m.rend.Render(now)
		m.canvas = m.surf.Lines()
	}
	return m.schedule()
}

func (m *Model) reload(u dataset.Update) {
	if u.Err != nil {
		m.setError("reload failed: %v", u.Err)
		return
	}
	rejected := m.store.SetInitialData(u.Data.Regions, u.Data.POIs, u.Data.Paths)
	if m.showInspect {
		if _, ok := m.store.POI(m.inspectID); !ok {
			m.showInspect = false
			m.layout()
		}
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
	if rejected > 0 {
		m.setError("reloaded %d entities, %d rejected", u.Data.Len()-rejected, rejected)
		return
	}
	m.setStatus("reloaded %d entities", u.Data.Len())
}

// handleKey reports quit=true when the program should exit.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return cmd, false
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.closePaste()
			m.setStatus("view mode")
			return nil, false
		case "enter":
			m.submitPaste()
			return nil, false
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return cmd, false
	}
	if m.showAttrs {
		switch {
		case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Attrs):
			m.showAttrs = false
			return nil, false
		case msg.String() == "enter":
			if id, ok := m.selectedAttrID(); ok && m.flyTo(id) {
				m.showAttrs = false
			}
			return nil, false
		case key.Matches(msg, m.keys.Quit):
			return nil, true
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return cmd, false
	}
	if m.showSidebar {
		switch {
		case msg.String() == "enter":
			if it, ok := m.l.SelectedItem().(placeItem); ok {
				m.flyTo(it.id)
			}
			return nil, false
		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down), msg.String() == "/":
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return cmd, false
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return nil, true
	case key.Matches(msg, m.keys.ZoomIn):
		m.press(controlZoomIn)
	case key.Matches(msg, m.keys.ZoomOut):
		m.press(controlZoomOut)
	case key.Matches(msg, m.keys.Theme):
		m.press(controlTheme)
	case key.Matches(msg, m.keys.Reset):
		m.press(controlReset)
	case key.Matches(msg, m.keys.Up):
		m.pan(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.pan(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.pan(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.pan(1, 0)
	case key.Matches(msg, m.keys.List):
		m.showSidebar = !m.showSidebar
		if m.showSidebar && m.listStale {
			m.refreshPlaces()
		}
		m.layout()
	case key.Matches(msg, m.keys.Paste):
		m.openPaste()
	case key.Matches(msg, m.keys.Attrs):
		m.showAttrs = true
		m.refreshAttrs()
	case key.Matches(msg, m.keys.Inspect):
		m.toggleInspect()
	case key.Matches(msg, m.keys.Route):
		m.route()
	case key.Matches(msg, m.keys.Close):
		if m.showInspect {
			m.showInspect = false
			m.layout()
		}
		m.clicks = m.clicks[:0]
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	}
	return nil, false
}

// pan animates the center a quarter of the viewport in direction (dx, dy).
func (m *Model) pan(dx, dy float64) {
	vp := m.store.Viewport()
	step := geom.C(dx*vp.Width()/4, dy*vp.Height()/4)
	m.store.SetCenter(m.store.TargetCenter().Add(step))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Y < headerHeight {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if c, ok := controlAt(m.width, msg.X); ok {
				m.press(c)
			}
		}
		m.leave()
		return
	}
	if m.pasteMode || m.showAttrs {
		return
	}
	p, inside := m.cellToDot(msg.X, msg.Y)
	if !inside {
		m.leave()
		return
	}
	m.hovering = true
	m.pointer = m.store.ScreenToWorld(p)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.Wheel(-1)
		return
	case tea.MouseButtonWheelDown:
		m.ctrl.Wheel(1)
		return
	case tea.MouseButtonRight:
		if msg.Action == tea.MouseActionPress && m.ctrl.ContextMenu() {
			m.setStatus("%.1f, %.1f", m.pointer.X, m.pointer.Y)
		}
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.ctrl.PointerDown(p)
		}
	case tea.MouseActionMotion:
		m.ctrl.PointerMove(p)
	case tea.MouseActionRelease:
		m.ctrl.PointerUp(p)
	}
}

// leave ends pointer interaction when it moves off the map.
func (m *Model) leave() {
	if m.hovering || m.ctrl.Pressed() {
		m.ctrl.PointerLeave()
	}
	m.hovering = false
}

func (m *Model) poiClicked(id string) {
	p, ok := m.store.POI(id)
	if !ok {
		return
	}
	m.inspectID = id
	if !m.showInspect {
		m.showInspect = true
		m.layout()
	}
	name := p.Name
	if name == "" {
		name = p.ID
	}
	m.setStatus("%s (%s)", name, p.Category)
	if m.opts.OnPOIClick != nil {
		m.opts.OnPOIClick(id)
	}
}

func (m *Model) mapClicked(w geom.Coordinate) {
	m.clicks = append(m.clicks, w)
	if len(m.clicks) > 2 {
		m.clicks = m.clicks[len(m.clicks)-2:]
	}
	if len(m.clicks) == 2 {
		m.setStatus("%.1f, %.1f  (r to route from %.1f, %.1f)", w.X, w.Y, m.clicks[0].X, m.clicks[0].Y)
	} else {
		m.setStatus("%.1f, %.1f", w.X, w.Y)
	}
	if m.opts.OnMapClick != nil {
		m.opts.OnMapClick(w)
	}
}

func (m *Model) toggleInspect() {
	if m.inspectID == "" {
		m.setStatus("click a place to inspect it")
		return
	}
	m.showInspect = !m.showInspect
	m.layout()
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
	m.log.Debug("status error", logging.String("status", m.status))
}
