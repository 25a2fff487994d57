package tui

import (
	"fmt"
	"strconv"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"stationmap/internal/engine"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeMap()
		if m.store.State().EngineReady && m.status == "loading map" {
			m.status = "map ready"
		}
	case iconLoadedMsg:
		m.ctl.IconLoaded(msg.img, msg.err)
		if msg.err != nil {
			m.status = "marker icon unavailable; points disabled"
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			m.ctl.Close()
			return m, tea.Quit
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			i, _ := strconv.Atoi(key)
			if i > m.reg.Len() {
				m.status = fmt.Sprintf("no dataset #%d", i)
				break
			}
			m.selectYear(m.reg.At(i - 1).ID)
		case ",":
			m.stepYear(-1)
		case ".":
			m.stepYear(1)
		case "m":
			next := m.store.State().Mode.Toggle()
			if err := m.store.SelectMode(next); err != nil {
				m.status = err.Error()
				break
			}
			m.mp.ClosePopup()
			m.status = "mode: " + next.String()
		case "+", "=":
			m.mp.ZoomBy(0.5)
			m.status = fmt.Sprintf("zoom: %.1f", m.mp.Zoom())
		case "-", "_":
			m.mp.ZoomBy(-0.5)
			m.status = fmt.Sprintf("zoom: %.1f", m.mp.Zoom())
		case "tab":
			m.showSidebar = !m.showSidebar
			m.resizeMap()
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
			}
		case "esc":
			m.mp.ClosePopup()
		case "h":
			m.helpVisible = !m.helpVisible
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(datasetItem); ok {
					m.selectYear(it.d.ID)
				}
			}
		case "f":
			m.fitActive()
		default:
			if m.showAttrs {
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
			switch key {
			case "up":
				m.mp.Pan(0, -1)
			case "down":
				m.mp.Pan(0, 1)
			case "left":
				m.mp.Pan(-2, 0)
			case "right":
				m.mp.Pan(2, 0)
			}
		}
	case tea.MouseMsg:
		if m.showAttrs {
			break
		}
		ox, oy, w, h := m.layout()
		cx, cy := msg.X-ox, msg.Y-oy
		if cx < 0 || cy < 0 || cx >= w || cy >= h {
			m.hoverHasGeo = false
			m.mp.PointerOut()
			break
		}
		pt := engine.ScreenPoint{X: cx, Y: cy}
		ll := m.mp.LngLatAt(pt)
		m.hoverHasGeo, m.hoverLon, m.hoverLat = true, ll.Lon(), ll.Lat()
		m.mp.PointerMove(pt)
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.mp.Click(pt)
			if _, ok := m.mp.Popup(); ok {
				m.status = "station popup"
			}
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// fitActive frames the active year's stations.
func (m *Model) fitActive() {
	id := m.store.State().ActiveYear
	b, ok := m.mp.SourceBound(id)
	if !ok {
		m.status = "no stations loaded for " + id
		return
	}
	m.mp.Fit(b)
	m.status = fmt.Sprintf("fit %s, zoom: %.1f", id, m.mp.Zoom())
}
