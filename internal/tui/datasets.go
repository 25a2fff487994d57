package tui

import (
	list "github.com/charmbracelet/bubbles/list"

	"stationmap/internal/registry"
)

type datasetItem struct {
	d registry.DatasetDescriptor
}

func (i datasetItem) Title() string       { return i.d.ID }
func (i datasetItem) Description() string { return i.d.SourceLocator }
func (i datasetItem) FilterValue() string { return i.d.ID }

// datasetItems lists the registry in order; the sidebar and the year tabs
// are both built from it.
func datasetItems(reg *registry.Registry) []list.Item {
	all := reg.All()
	items := make([]list.Item, 0, len(all))
	for _, d := range all {
		items = append(items, datasetItem{d: d})
	}
	return items
}

// selectYear applies a year selection and reports the outcome in the status line.
func (m *Model) selectYear(id string) {
	if err := m.store.SelectYear(id); err != nil {
		m.log.Warn("year selection rejected", "year", id, "err", err)
		m.status = err.Error()
		return
	}
	m.mp.ClosePopup()
	m.status = "year: " + id
	if i := m.reg.IndexOf(id); i >= 0 {
		m.l.Select(i)
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// stepYear moves the selection by delta positions, wrapping around.
func (m *Model) stepYear(delta int) {
	n := m.reg.Len()
	i := m.reg.IndexOf(m.store.State().ActiveYear)
	m.selectYear(m.reg.At(((i+delta)%n + n) % n).ID)
}
