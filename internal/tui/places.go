package tui

import (
	"fmt"
	"sort"

	list "github.com/charmbracelet/bubbles/list"
)

// flyToZoom is where the places list flies to; POI names show from here.
const flyToZoom = 8

type placeItem struct {
	title, desc string
	id          string
	category    string
}

func (p placeItem) Title() string       { return p.title }
func (p placeItem) Description() string { return p.desc }
func (p placeItem) FilterValue() string { return p.title + " " + p.category }

// refreshPlaces rebuilds the list from the POIs in the store.
func (m *Model) refreshPlaces() {
	pois := m.store.POIs()
	items := make([]list.Item, 0, len(pois))
	for _, p := range pois {
		title := p.Name
		if title == "" {
			title = p.ID
		}
		pos := p.Pos()
		items = append(items, placeItem{
			title:    title,
			desc:     fmt.Sprintf("%s  %.1f, %.1f", p.Category, pos.X, pos.Y),
			id:       p.ID,
			category: p.Category.String(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(placeItem).Title() < items[j].(placeItem).Title() })
	m.l.SetItems(items)
	m.listStale = false
	if len(items) == 0 {
		m.setStatus("no places loaded")
	}
}

// flyTo animates the camera onto a POI.
func (m *Model) flyTo(id string) bool {
	p, ok := m.store.POI(id)
	if !ok {
		m.setError("unknown place %q", id)
		return false
	}
	m.store.SetCenter(p.Pos())
	if m.store.TargetZoom() < flyToZoom {
		m.store.SetZoom(flyToZoom)
	}
	name := p.Name
	if name == "" {
		name = p.ID
	}
	m.setStatus("→ %s", name)
	return true
}
