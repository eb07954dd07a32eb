package tui

import (
	"strings"

	"github.com/google/uuid"

	"worldmap/internal/dataset"
	"worldmap/internal/geom"
	"worldmap/internal/logging"
)

func (m *Model) openPaste() {
	m.pasteMode = true
	m.ta.SetValue("")
	m.ta.Focus()
	m.setStatus("paste mode")
}

func (m *Model) closePaste() {
	m.pasteMode = false
	m.ta.Blur()
}

// submitPaste parses the paste box as WKT and adds the shape to the map.
func (m *Model) submitPaste() {
	w := strings.TrimSpace(m.ta.Value())
	if w == "" {
		m.setStatus("paste: empty")
		return
	}
	g, err := geom.ParseWKT(w)
	if err != nil {
		m.setError("wkt error: %v", err)
		return
	}
	d := dataset.FromGeometry(g, uuid.NewString(), "pasted "+strings.ToLower(g.Type.String()))
	added, failed := m.addDataset(d)
	m.closePaste()
	if added == 0 {
		m.setError("wkt: nothing added (%d rejected)", failed)
		return
	}
	m.store.SetCenter(g.BBox().Center())
	m.setStatus("added %s: %d entities", g.Type, added)
}

// addDataset adds every entity of d, keeping what the store accepts.
func (m *Model) addDataset(d dataset.Dataset) (added, failed int) {
	count := func(err error) {
		if err != nil {
			m.log.Warn("entity rejected", logging.Err(err))
			failed++
			return
		}
		added++
	}
	for _, r := range d.Regions {
		count(m.store.AddRegion(r))
	}
	for _, p := range d.POIs {
		count(m.store.AddPOI(p))
	}
	for _, p := range d.Paths {
		count(m.store.AddPath(p))
	}
	return added, failed
}
