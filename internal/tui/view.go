package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stationmap/internal/view"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	_, _, mapWidth, mapHeight := m.layout()

	// Header
	header := titleStyle.Render(" Montreal BIXI Stations ")
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)
	selectors := lipgloss.JoinHorizontal(lipgloss.Top, m.renderYearTabs(), "   ", m.renderModeSelector())
	glider := m.renderGlider()

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	if m.showAttrs {
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, attrsBox)
	} else {
		// plain map canvas: no border, no background highlight
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.mp.Render())
	}

	panel := lipgloss.NewStyle().Width(panelWidth).Height(mapHeight).Render(m.renderPanel())

	// Body row
	cols := []string{}
	if m.showSidebar {
		cols = append(cols, sidebar, " ")
	}
	cols = append(cols, mapView, " ", panel)
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, selectors, glider, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderYearTabs() string {
	active := m.store.State().ActiveYear
	tabs := make([]string, 0, m.reg.Len())
	for _, d := range m.reg.All() {
		st := tabStyle
		if d.ID == active {
			st = st.Foreground(lipgloss.Color(d.Color)).Bold(true)
		} else {
			st = st.Inherit(dimStyle)
		}
		tabs = append(tabs, st.Render(d.ID))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderGlider draws the indicator under the active year tab; its offset is
// derived from the view state on every frame.
func (m Model) renderGlider() string {
	i := view.ActiveIndex(m.reg, m.store.State())
	if i < 0 {
		return ""
	}
	return strings.Repeat(" ", i*tabWidth) + titleStyle.Render(strings.Repeat("▔", tabWidth))
}

func (m Model) renderModeSelector() string {
	mode := m.store.State().Mode
	opt := func(label string, on bool) string {
		if on {
			return titleStyle.Render("(●) " + label)
		}
		return dimStyle.Render("( ) " + label)
	}
	return opt("points", mode == view.Points) + "  " + opt("heatmap", mode == view.Heatmap)
}

// renderPanel shows the open station popup, or the legend.
func (m Model) renderPanel() string {
	if p, ok := m.mp.Popup(); ok {
		lines := strings.Split(p.Content, "\n")
		lines[0] = popupTitle.Render(lines[0])
		box := boxStyle.Render(strings.Join(lines, "\n"))
		return box + "\n" + dimStyle.Render(fmt.Sprintf(" %.5f, %.5f  esc close", p.At.Lon(), p.At.Lat()))
	}
	st := m.store.State()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Legend") + "\n")
	for _, d := range m.reg.All() {
		marker := "  "
		if d.ID == st.ActiveYear {
			marker = "▸ "
		}
		b.WriteString(marker + swatch(d.Color) + " " + d.ID + "\n")
	}
	if bb, ok := m.mp.SourceBound(st.ActiveYear); ok {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%.3f,%.3f", bb.Min.Lon(), bb.Min.Lat())))
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%.3f,%.3f", bb.Max.Lon(), bb.Max.Lat())))
		b.WriteString("\n")
	}
	b.WriteString("\n" + dimStyle.Render("mode: "+st.Mode.String()))
	if st.Mode == view.Points {
		b.WriteString("\n" + dimStyle.Render("click a station for trips"))
	} else {
		b.WriteString("\n" + dimStyle.Render("weighted by total trips"))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"1-9/,. year",
		"m mode",
		"↑↓←→ pan",
		"+/- zoom",
		"f fit",
		"Tab datasets",
		"a stations",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
