package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

const maxColW = 24

var attrColumns = []string{"id", "name", "category", "x", "y", "importance", "description"}

// refreshAttrs rebuilds the table from the POIs in the store.
func (m *Model) refreshAttrs() {
	rows := m.buildAttributes()
	if len(rows) == 0 {
		m.showAttrs = false
		m.setStatus("no attributes for current dataset")
		return
	}
	tcols := make([]table.Column, 0, len(attrColumns)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for i, c := range attrColumns {
		w := len(c) + 2
		for _, r := range rows {
			w = max(w, len([]rune(r[i]))+1)
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, strconv.Itoa(i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns one row per POI in attrColumns order.
func (m *Model) buildAttributes() [][]string {
	pois := m.store.POIs()
	rows := make([][]string, 0, len(pois))
	for _, p := range pois {
		pos := p.Pos()
		rows = append(rows, []string{
			p.ID,
			p.Name,
			p.Category.String(),
			fmt.Sprintf("%g", pos.X),
			fmt.Sprintf("%g", pos.Y),
			fmt.Sprintf("%g", p.Importance),
			p.Description,
		})
	}
	return rows
}

// selectedAttrID is the POI id of the highlighted table row.
func (m *Model) selectedAttrID() (string, bool) {
	row := m.tbl.SelectedRow()
	if len(row) < 2 {
		return "", false
	}
	return row[1], true
}
