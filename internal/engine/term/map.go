// Package term is a map engine that draws onto a character canvas: braille
// heatmaps, glyph markers, pointer hit-testing and popups.
package term

import (
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"

	"stationmap/internal/engine"
	"stationmap/internal/geom"
	"stationmap/internal/logger"
)

type Options struct {
	Center orb.Point
	Zoom   float64
	Style  string // "light" or "dark"
}

type feature struct {
	at    orb.Point
	props map[string]any
}

type layer struct {
	def      engine.LayerDef
	features []feature
}

// Map implements engine.Engine. It is driven from a single goroutine.
type Map struct {
	center orb.Point
	zoom   float64
	style  palette

	width  int
	height int

	ready     bool
	destroyed bool

	sources map[string]*geom.Source
	opened  map[string]*geom.Source // by locator
	images  map[string]engine.Image
	layers  []*layer
	byID    map[string]*layer

	handlers engine.Handlers
	hover    map[string]bool
	pointer  engine.ScreenPoint
	inside   bool

	cursor engine.Cursor
	popup  *engine.Popup

	log *slog.Logger
}

var _ engine.Engine = (*Map)(nil)

func New(opts Options, log *slog.Logger) *Map {
	if log == nil {
		log = logger.L()
	}
	z := opts.Zoom
	if z < minZoom || z > maxZoom {
		z = 12
	}
	return &Map{
		center:  opts.Center,
		zoom:    z,
		style:   paletteFor(opts.Style),
		sources: map[string]*geom.Source{},
		opened:  map[string]*geom.Source{},
		images:  map[string]engine.Image{},
		byID:    map[string]*layer{},
		hover:   map[string]bool{},
		log:     log,
	}
}

// Resize sets the canvas size. The first non-empty size makes the engine
// ready and fires the ready event once.
func (m *Map) Resize(w, h int) {
	if m.destroyed {
		return
	}
	m.width, m.height = max(0, w), max(0, h)
	if !m.ready && m.width > 0 && m.height > 0 {
		m.ready = true
		m.handlers.Emit(engine.Event{Type: engine.EventReady})
	}
}

func (m *Map) Ready() bool           { return m.ready }
func (m *Map) Size() (int, int)      { return m.width, m.height }
func (m *Map) Cursor() engine.Cursor { return m.cursor }

// On registers h. A new pointerenter or pointerleave handler starts from
// "not hovering" on its layer, so the next hit fires an enter.
func (m *Map) On(ev engine.EventType, layerID string, h engine.Handler) engine.HandlerID {
	if ev == engine.EventPointerEnter || ev == engine.EventPointerLeave {
		delete(m.hover, layerID)
	}
	return m.handlers.On(ev, layerID, h)
}

func (m *Map) Off(id engine.HandlerID) { m.handlers.Off(id) }

// HandlerCount is the number of registered handlers.
func (m *Map) HandlerCount() int { return m.handlers.Len() }

func (m *Map) check() error {
	if m.destroyed {
		return engine.ErrDestroyed
	}
	if !m.ready {
		return engine.ErrNotReady
	}
	return nil
}

func (m *Map) AddVectorSource(id, locator string) error {
	if err := m.check(); err != nil {
		return err
	}
	if _, ok := m.sources[id]; ok {
		return fmt.Errorf("%w: %s", engine.ErrSourceExists, id)
	}
	// several datasets may share one sqlite file
	src, ok := m.opened[locator]
	if !ok {
		var err error
		if src, err = geom.Open(locator); err != nil {
			return err
		}
		m.opened[locator] = src
	}
	m.sources[id] = src
	m.log.Debug("source added", "source", id, "locator", locator, "sublayers", len(src.Layers))
	return nil
}

// SourceBound is the extent of a source's features.
func (m *Map) SourceBound(id string) (orb.Bound, bool) {
	src, ok := m.sources[id]
	if !ok {
		return orb.Bound{}, false
	}
	return src.Bounds()
}

func (m *Map) AddImage(name string, img engine.Image) error {
	if m.destroyed {
		return engine.ErrDestroyed
	}
	if img.Glyph == "" {
		return fmt.Errorf("image %s: empty glyph", name)
	}
	m.images[name] = img
	return nil
}

func (m *Map) AddLayer(def engine.LayerDef) error {
	if err := m.check(); err != nil {
		return err
	}
	if _, ok := m.byID[def.ID]; ok {
		return fmt.Errorf("%w: %s", engine.ErrLayerExists, def.ID)
	}
	src, ok := m.sources[def.Source]
	if !ok {
		return fmt.Errorf("%w: %s", engine.ErrSourceNotFound, def.Source)
	}
	fc, ok := src.Layer(def.SourceLayer)
	if !ok {
		return fmt.Errorf("%w: %s/%s", engine.ErrSubLayerNotFound, def.Source, def.SourceLayer)
	}
	switch def.Kind {
	case engine.KindSymbol:
		if _, ok := m.images[def.Icon]; !ok {
			return fmt.Errorf("%w: %q for layer %s", engine.ErrImageMissing, def.Icon, def.ID)
		}
	case engine.KindHeatmap:
	default:
		return fmt.Errorf("layer %s: unknown kind %q", def.ID, def.Kind)
	}
	l := &layer{def: def}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		l.features = append(l.features, feature{at: geom.Anchor(f.Geometry), props: f.Properties})
	}
	m.layers = append(m.layers, l)
	m.byID[def.ID] = l
	return nil
}

func (m *Map) HasLayer(id string) bool {
	_, ok := m.byID[id]
	return ok
}

func (m *Map) SetLayerVisibility(id string, visible bool) error {
	if err := m.check(); err != nil {
		return err
	}
	l, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", engine.ErrLayerNotFound, id)
	}
	l.def.Visible = visible
	return nil
}

// LayerVisible reports a layer's visibility flag.
func (m *Map) LayerVisible(id string) (visible, ok bool) {
	l, ok := m.byID[id]
	if !ok {
		return false, false
	}
	return l.def.Visible, true
}

// Features returns the properties of every feature of a layer, in draw order.
func (m *Map) Features(id string) []map[string]any {
	l, ok := m.byID[id]
	if !ok {
		return nil
	}
	out := make([]map[string]any, len(l.features))
	for i, f := range l.features {
		out[i] = f.props
	}
	return out
}

func (m *Map) ShowPopup(at orb.Point, content string, opts engine.PopupOptions) {
	if m.destroyed {
		return
	}
	m.popup = &engine.Popup{At: at, Content: content, Options: opts}
}

func (m *Map) Popup() (engine.Popup, bool) {
	if m.popup == nil {
		return engine.Popup{}, false
	}
	return *m.popup, true
}

func (m *Map) ClosePopup() { m.popup = nil }

func (m *Map) SetCursor(c engine.Cursor) { m.cursor = c }

// Destroy drops every handler, layer and source. Further calls fail with
// engine.ErrDestroyed.
func (m *Map) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.handlers.Clear()
	m.layers = nil
	m.byID = map[string]*layer{}
	m.sources = map[string]*geom.Source{}
	m.opened = map[string]*geom.Source{}
	m.popup = nil
	m.cursor = engine.CursorDefault
}
