package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	x, _, mapWidth, mapHeight := m.mapRect()

	header := m.renderHeader()

	var mapView string
	switch {
	case m.showAttrs:
		// Render attributes table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		// plain map canvas: no border
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(strings.Join(m.canvas, "\n"))
	}

	cols := []string{}
	if m.showSidebar {
		cols = append(cols, lipgloss.NewStyle().Width(x-1).Height(mapHeight).Render(m.l.View()), " ")
	}
	cols = append(cols, mapView)
	if m.showInspect {
		cols = append(cols, m.renderInspect(mapHeight))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
	return appStyle.Width(m.width).MaxHeight(m.height).Render(ui)
}

// renderInspect draws the popup for the last clicked POI.
func (m *Model) renderInspect(height int) string {
	var lines []string
	if p, ok := m.store.POI(m.inspectID); ok {
		pos := p.Pos()
		lines = []string{
			activeStyle.Render(p.Name),
			fmt.Sprintf("id: %s", p.ID),
			fmt.Sprintf("category: %s", p.Category),
			fmt.Sprintf("position: %.2f, %.2f", pos.X, pos.Y),
			fmt.Sprintf("importance: %g", p.Importance),
		}
		if p.Description != "" {
			lines = append(lines, "", p.Description)
		}
	} else {
		lines = []string{"no place selected"}
	}
	box := boxStyle.Width(inspectWidth - 2).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(inspectWidth, height, lipgloss.Left, lipgloss.Top, box)
}

func (m *Model) renderFooter() string {
	st := dimStyle
	if m.statusErr {
		st = errStyle
	}
	status := st.Render(" " + m.status + " ")

	var info []string
	if m.hovering {
		info = append(info, fmt.Sprintf("x=%.1f y=%.1f", m.pointer.X, m.pointer.Y))
	}
	info = append(info, fmt.Sprintf("zoom %.2f", m.store.Zoom()))
	s := m.rend.Stats()
	if s.FPS > 0 {
		info = append(info, fmt.Sprintf("%.0f fps %s", s.FPS, s.FrameTime.Round(10*time.Microsecond)))
	}
	info = append(info, fmt.Sprintf("%d pois", m.frame.VisiblePOIs))
	if n := len(m.frame.Clusters); n > 0 {
		info = append(info, fmt.Sprintf("%d clusters", n))
	}
	if len(m.clicks) > 0 {
		info = append(info, fmt.Sprintf("route %d/2", len(m.clicks)))
	}
	right := dimStyle.Render("  " + strings.Join(info, "  ") + " ")
	gap := max(0, m.width-lipgloss.Width(status)-lipgloss.Width(right))
	line := lipgloss.NewStyle().MaxWidth(m.width).Render(status + strings.Repeat(" ", gap) + right)

	return lipgloss.JoinVertical(lipgloss.Left, line, dimStyle.Render(" "+m.help.View(m.keys)))
}
