package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type control int

const (
	controlZoomIn control = iota
	controlZoomOut
	controlTheme
	controlReset
)

var controlLabels = [...]string{
	controlZoomIn:  "[+]",
	controlZoomOut: "[-]",
	controlTheme:   "[theme]",
	controlReset:   "[reset]",
}

// button is a header control and the cell columns it covers, [x0, x1).
type button struct {
	control control
	x0, x1  int
}

// controlButtons lays the controls out right-aligned in a header of the
// given width, one space apart, with one trailing space.
func controlButtons(width int) []button {
	total := len(controlLabels) - 1
	for _, l := range controlLabels {
		total += len(l)
	}
	x := max(0, width-total-1)
	out := make([]button, 0, len(controlLabels))
	for i, l := range controlLabels {
		out = append(out, button{control: control(i), x0: x, x1: x + len(l)})
		x += len(l) + 1
	}
	return out
}

// controlAt returns the control under header cell x.
func controlAt(width, x int) (control, bool) {
	for _, b := range controlButtons(width) {
		if x >= b.x0 && x < b.x1 {
			return b.control, true
		}
	}
	return 0, false
}

func (m *Model) press(c control) {
	switch c {
	case controlZoomIn:
		m.store.ZoomIn()
		m.setStatus("zoom %.1f", m.store.TargetZoom())
	case controlZoomOut:
		m.store.ZoomOut()
		m.setStatus("zoom %.1f", m.store.TargetZoom())
	case controlTheme:
		m.setStatus("theme: %s", m.store.CycleTheme())
	case controlReset:
		m.store.Reset()
		m.setStatus("view reset")
	}
}

func (m *Model) renderControls() string {
	parts := make([]string, len(controlLabels))
	for i, l := range controlLabels {
		parts[i] = buttonStyle.Render(l)
	}
	return strings.Join(parts, " ") + " "
}

func (m *Model) renderHeader() string {
	title := " worldmap ─ " + m.store.Theme().String()
	if m.opts.Source != "" {
		title += " ─ " + m.opts.Source
	}
	left := titleStyle.Render(title + " ")
	controls := m.renderControls()
	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(controls))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + controls)
}
