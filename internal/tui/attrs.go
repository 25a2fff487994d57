package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"stationmap/internal/geom"
	"stationmap/internal/layers"
)

var stationColumns = []string{geom.PropStation, geom.PropTripsStarted, geom.PropTripsEnded, geom.PropTotalTrips}

// refreshAttrs rebuilds the station table from the active year's layer.
func (m *Model) refreshAttrs() {
	d, ok := m.reg.Lookup(m.store.State().ActiveYear)
	if !ok {
		return
	}
	props := m.mp.Features(layers.PointLayerID(d))
	if props == nil {
		props = m.mp.Features(layers.HeatLayerID(d))
	}
	if len(props) == 0 {
		// avoid rendering an empty table
		m.showAttrs = false
		m.status = "no stations loaded for " + d.ID
		return
	}
	tcols := make([]table.Column, 0, len(stationColumns)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for i, c := range stationColumns {
		w := len(c) + 2
		if i == 0 {
			w = 28
		}
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}
	trows := make([]table.Row, 0, len(props))
	for i, p := range props {
		row := table.Row{fmt.Sprintf("%d", i+1)}
		for _, c := range stationColumns {
			row = append(row, layers.FormatValue(p[c]))
		}
		trows = append(trows, row)
	}
	// clear rows first so columns and rows never mismatch
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	m.status = fmt.Sprintf("%s: %d stations", d.ID, len(trows))
}
