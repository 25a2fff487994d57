package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stationmap/internal/engine"
)

type palette struct {
	ramp  []string // heatmap colour ramp, cold to hot
	hover string
}

var palettes = map[string]palette{
	"light": {
		ramp:  []string{"#2166AC", "#67A9CF", "#D1E5F0", "#FDDBC7", "#EF8A62", "#B2182B"},
		hover: "#FFA500",
	},
	"dark": {
		ramp:  []string{"#313695", "#4575B4", "#74ADD1", "#FEE090", "#F46D43", "#A50026"},
		hover: "#FFD166",
	},
}

func paletteFor(style string) palette {
	if p, ok := palettes[style]; ok {
		return p
	}
	return palettes["light"]
}

type cell struct {
	r     string
	color string
}

// Render draws heatmap layers, then symbol layers, in layer order. When the
// cursor hint is "pointer" the hovered cell is highlighted.
func (m *Map) Render() string {
	if m.width == 0 || m.height == 0 || m.destroyed {
		return ""
	}
	canvas := make([][]cell, m.height)
	for y := range canvas {
		canvas[y] = make([]cell, m.width)
		for x := range canvas[y] {
			canvas[y][x] = cell{r: " "}
		}
	}

	for _, l := range m.layers {
		if !l.def.Visible || l.def.Kind != engine.KindHeatmap {
			continue
		}
		br := newBrailleBuf(m.width, m.height)
		grid := m.heatGrid(l)
		for y := range grid {
			for x, v := range grid[y] {
				br.fillLevel(x, y, levelOf(v), rampColor(m.style.ramp, v))
			}
		}
		for y := 0; y < m.height; y++ {
			for x := 0; x < m.width; x++ {
				if r, c := br.cell(x, y); r != ' ' {
					canvas[y][x] = cell{r: string(r), color: c}
				}
			}
		}
	}

	for _, l := range m.layers {
		if !l.rendered() {
			continue
		}
		glyph := m.images[l.def.Icon].Glyph
		for _, f := range l.features {
			c := m.cellOf(f.at)
			if !m.inCanvas(c) {
				continue
			}
			canvas[c.Y][c.X] = cell{r: glyph, color: l.def.Color}
		}
	}

	if m.cursor == engine.CursorPointer && m.inside && m.inCanvas(m.pointer) {
		canvas[m.pointer.Y][m.pointer.X].color = m.style.hover
	}

	lines := make([]string, m.height)
	for y, row := range canvas {
		lines[y] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

// renderRow styles runs of same-coloured cells together.
func renderRow(row []cell) string {
	var b, run strings.Builder
	cur := ""
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if cur == "" {
			b.WriteString(run.String())
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(cur)).Render(run.String()))
		}
		run.Reset()
	}
	for _, c := range row {
		if c.color != cur {
			flush()
			cur = c.color
		}
		run.WriteString(c.r)
	}
	flush()
	return b.String()
}
