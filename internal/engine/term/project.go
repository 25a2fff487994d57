package term

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"stationmap/internal/engine"
)

// A cell is 8x16 pixels; a braille dot is 4x4, so a cell holds 2x4 dots.
const (
	cellPxW = 8
	cellPxH = 16
	dotPx   = 4

	minZoom = 1
	maxZoom = 20

	earthRadius    = 6378137.0
	mercatorExtent = math.Pi * earthRadius
)

func worldSize(zoom float64) float64 { return 256 * math.Exp2(zoom) }

// pixel maps lon/lat to global Web Mercator pixels at the current zoom.
func (m *Map) pixel(p orb.Point) (float64, float64) {
	mp := project.WGS84.ToMercator(p)
	ws := worldSize(m.zoom)
	x := (mp[0] + mercatorExtent) / (2 * mercatorExtent) * ws
	y := (mercatorExtent - mp[1]) / (2 * mercatorExtent) * ws
	return x, y
}

func (m *Map) unpixel(x, y float64) orb.Point {
	ws := worldSize(m.zoom)
	mx := x/ws*2*mercatorExtent - mercatorExtent
	my := mercatorExtent - y/ws*2*mercatorExtent
	return project.Mercator.ToWGS84(orb.Point{mx, my})
}

// dotXY maps lon/lat into the 2x4 per cell dot grid of the canvas.
func (m *Map) dotXY(p orb.Point) (int, int) {
	px, py := m.pixel(p)
	cx, cy := m.pixel(m.center)
	// absorb projection round-trip error after Pan
	dx := int(math.Floor((px-cx)/dotPx+1e-6)) + m.width
	dy := int(math.Floor((py-cy)/dotPx+1e-6)) + m.height*2
	return dx, dy
}

func (m *Map) cellOf(p orb.Point) engine.ScreenPoint {
	dx, dy := m.dotXY(p)
	return engine.ScreenPoint{X: floorDiv(dx, 2), Y: floorDiv(dy, 4)}
}

// LngLatAt returns the coordinate under the centre of a canvas cell.
func (m *Map) LngLatAt(pt engine.ScreenPoint) orb.Point {
	cx, cy := m.pixel(m.center)
	x := cx + (float64(pt.X)+0.5-float64(m.width)/2)*cellPxW
	y := cy + (float64(pt.Y)+0.5-float64(m.height)/2)*cellPxH
	return m.unpixel(x, y)
}

// groundResolution is metres per pixel at latitude lat.
func (m *Map) groundResolution(lat float64) float64 {
	return math.Cos(lat*math.Pi/180) * 2 * math.Pi * earthRadius / worldSize(m.zoom)
}

// Pan moves the view by whole cells.
func (m *Map) Pan(dx, dy int) {
	cx, cy := m.pixel(m.center)
	m.center = m.unpixel(cx+float64(dx*cellPxW), cy+float64(dy*cellPxH))
}

func (m *Map) ZoomBy(dz float64) {
	m.zoom = math.Max(minZoom, math.Min(maxZoom, m.zoom+dz))
}

func (m *Map) Zoom() float64     { return m.zoom }
func (m *Map) Center() orb.Point { return m.center }

func (m *Map) inCanvas(pt engine.ScreenPoint) bool {
	return pt.X >= 0 && pt.Y >= 0 && pt.X < m.width && pt.Y < m.height
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Fit centres the view on b and zooms in as far as the canvas still shows
// all of it. A single point keeps the current zoom.
func (m *Map) Fit(b orb.Bound) {
	zoom := m.zoom
	m.zoom = 0
	x0, y0 := m.pixel(orb.Point{b.Min.Lon(), b.Max.Lat()})
	x1, y1 := m.pixel(orb.Point{b.Max.Lon(), b.Min.Lat()})
	m.center = m.unpixel((x0+x1)/2, (y0+y1)/2)
	m.zoom = zoom

	dx, dy := x1-x0, y1-y0
	if dx <= 0 && dy <= 0 {
		return
	}
	z := float64(maxZoom)
	if dx > 0 {
		z = math.Min(z, math.Log2(float64(m.width*cellPxW)/dx))
	}
	if dy > 0 {
		z = math.Min(z, math.Log2(float64(m.height*cellPxH)/dy))
	}
	// keep markers on the edge inside the canvas
	z = math.Floor(z*2)/2 - 0.5
	m.zoom = math.Max(minZoom, math.Min(maxZoom, z))
}
