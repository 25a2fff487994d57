package term

import (
	"math"

	"github.com/golang/geo/s2"

	"stationmap/internal/geom"
)

const defaultHeatRadius = 30 // pixels

// heatGrid accumulates the kernel density of one heatmap layer per cell,
// normalised to [0, 1].
func (m *Map) heatGrid(l *layer) [][]float64 {
	grid := make([][]float64, m.height)
	for i := range grid {
		grid[i] = make([]float64, m.width)
	}
	radiusPx := l.def.Radius
	if radiusPx <= 0 {
		radiusPx = defaultHeatRadius
	}
	maxW := 0.0
	for _, f := range l.features {
		if w := featureWeight(f.props, l.def.Weight); w > maxW {
			maxW = w
		}
	}
	if maxW == 0 {
		return grid
	}
	// cell centres are shared by every feature
	centres := make(map[[2]int]s2.LatLng)
	centre := func(x, y int) s2.LatLng {
		k := [2]int{x, y}
		if ll, ok := centres[k]; ok {
			return ll
		}
		p := m.LngLatAt(cellPoint(x, y))
		ll := s2.LatLngFromDegrees(p.Lat(), p.Lon())
		centres[k] = ll
		return ll
	}
	rx := radiusPx/cellPxW + 1
	ry := radiusPx/cellPxH + 1
	peak := 0.0
	for _, f := range l.features {
		w := featureWeight(f.props, l.def.Weight) / maxW
		if w <= 0 {
			continue
		}
		c := m.cellOf(f.at)
		if c.X < -rx || c.Y < -ry || c.X >= m.width+rx || c.Y >= m.height+ry {
			continue
		}
		radiusM := float64(radiusPx) * m.groundResolution(f.at.Lat())
		src := s2.LatLngFromDegrees(f.at.Lat(), f.at.Lon())
		for y := c.Y - ry; y <= c.Y+ry; y++ {
			for x := c.X - rx; x <= c.X+rx; x++ {
				if x < 0 || y < 0 || x >= m.width || y >= m.height {
					continue
				}
				d := src.Distance(centre(x, y)).Radians() * earthRadius
				if d >= radiusM {
					continue
				}
				k := 1 - d/radiusM
				grid[y][x] += w * k * k
				peak = math.Max(peak, grid[y][x])
			}
		}
	}
	if peak > 0 {
		for y := range grid {
			for x := range grid[y] {
				grid[y][x] /= peak
			}
		}
	}
	return grid
}

// featureWeight is the weight property, or 1 when the layer has none.
func featureWeight(props map[string]any, key string) float64 {
	if key == "" {
		return 1
	}
	v, ok := geom.Number(props, key)
	if !ok || v < 0 {
		return 0
	}
	return v
}

func rampColor(ramp []string, v float64) string {
	i := int(v * float64(len(ramp)))
	if i >= len(ramp) {
		i = len(ramp) - 1
	}
	return ramp[i]
}

func levelOf(v float64) int { return int(math.Round(v * 8)) }
