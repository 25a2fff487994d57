package term

import (
	"fmt"

	"stationmap/internal/engine"
)

func cellPoint(x, y int) engine.ScreenPoint { return engine.ScreenPoint{X: x, Y: y} }

// rendered reports whether a layer currently draws queryable features.
func (l *layer) rendered() bool {
	return l.def.Visible && l.def.Kind == engine.KindSymbol
}

func (m *Map) hitLayer(l *layer, pt engine.ScreenPoint) []engine.Feature {
	var out []engine.Feature
	// later features are drawn on top
	for i := len(l.features) - 1; i >= 0; i-- {
		f := l.features[i]
		if m.cellOf(f.at) != pt {
			continue
		}
		props := make(map[string]any, len(f.props))
		for k, v := range f.props {
			props[k] = v
		}
		out = append(out, engine.Feature{Layer: l.def.ID, Geometry: f.at, Properties: props})
	}
	return out
}

// QueryFeaturesAt returns rendered features in the cell pt, topmost first.
// Heatmap layers are never returned.
func (m *Map) QueryFeaturesAt(pt engine.ScreenPoint, layers []string) ([]engine.Feature, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	var filter map[string]bool
	if len(layers) > 0 {
		filter = make(map[string]bool, len(layers))
		for _, id := range layers {
			if _, ok := m.byID[id]; !ok {
				return nil, fmt.Errorf("%w: %s", engine.ErrLayerNotFound, id)
			}
			filter[id] = true
		}
	}
	if !m.inCanvas(pt) {
		return nil, nil
	}
	var out []engine.Feature
	for i := len(m.layers) - 1; i >= 0; i-- {
		l := m.layers[i]
		if filter != nil && !filter[l.def.ID] {
			continue
		}
		if !l.rendered() {
			continue
		}
		out = append(out, m.hitLayer(l, pt)...)
	}
	return out, nil
}

// PointerMove records the pointer cell, fires pointerenter/pointerleave on
// transitions for layers that have such handlers, then fires pointermove.
func (m *Map) PointerMove(pt engine.ScreenPoint) {
	if m.check() != nil {
		return
	}
	m.pointer, m.inside = pt, m.inCanvas(pt)
	next := map[string]bool{}
	for _, l := range m.layers {
		id := l.def.ID
		if !m.handlers.Scoped(engine.EventPointerEnter, id) && !m.handlers.Scoped(engine.EventPointerLeave, id) {
			continue
		}
		if m.inside && l.rendered() && len(m.hitLayer(l, pt)) > 0 {
			next[id] = true
		}
	}
	m.transition(next)
	m.handlers.Emit(engine.Event{Type: engine.EventPointerMove, Point: pt, LngLat: m.LngLatAt(pt)})
}

// PointerOut is called when the pointer leaves the canvas.
func (m *Map) PointerOut() {
	if m.check() != nil {
		return
	}
	m.inside = false
	m.transition(map[string]bool{})
}

func (m *Map) transition(next map[string]bool) {
	for _, l := range m.layers {
		id := l.def.ID
		switch {
		case next[id] && !m.hover[id]:
			m.handlers.Emit(engine.Event{Type: engine.EventPointerEnter, Layer: id, Point: m.pointer, LngLat: m.LngLatAt(m.pointer)})
		case !next[id] && m.hover[id]:
			m.handlers.Emit(engine.Event{Type: engine.EventPointerLeave, Layer: id, Point: m.pointer, LngLat: m.LngLatAt(m.pointer)})
		}
	}
	m.hover = next
}

func (m *Map) Click(pt engine.ScreenPoint) {
	if m.check() != nil || !m.inCanvas(pt) {
		return
	}
	m.handlers.Emit(engine.Event{Type: engine.EventClick, Point: pt, LngLat: m.LngLatAt(pt)})
}

// Pointer returns the last pointer cell and whether it is over the canvas.
func (m *Map) Pointer() (engine.ScreenPoint, bool) { return m.pointer, m.inside }
