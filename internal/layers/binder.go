package layers

import (
	"log/slog"

	"stationmap/internal/engine"
	"stationmap/internal/logger"
	"stationmap/internal/registry"
	"stationmap/internal/view"
)

var popupOptions = engine.PopupOptions{Offset: 1, Class: "station-popup"}

// Binder owns the click and hover handlers on the engine. Handlers are only
// attached to the active dataset's point layer, and only in Points mode.
type Binder struct {
	reg *registry.Registry
	eng engine.Engine
	log *slog.Logger

	handles   []engine.HandlerID
	clickable []string
	hovering  bool
}

func NewBinder(reg *registry.Registry, eng engine.Engine, log *slog.Logger) *Binder {
	if log == nil {
		log = logger.L()
	}
	return &Binder{reg: reg, eng: eng, log: log}
}

// Bind detaches every handler and attaches the ones st calls for.
func (b *Binder) Bind(st view.State) {
	b.Detach()
	if !st.EngineReady || st.Mode != view.Points {
		return
	}
	d, ok := b.reg.Lookup(st.ActiveYear)
	if !ok {
		return
	}
	id := PointLayerID(d)
	b.clickable = []string{id}
	b.handles = append(b.handles,
		b.eng.On(engine.EventClick, "", b.onClick),
		b.eng.On(engine.EventPointerEnter, id, b.onEnter),
		b.eng.On(engine.EventPointerLeave, id, b.onLeave),
	)
}

// Detach removes every handler this binder attached and resets the cursor
// if it was showing the hover hint.
func (b *Binder) Detach() {
	for _, h := range b.handles {
		b.eng.Off(h)
	}
	b.handles = nil
	b.clickable = nil
	if b.hovering {
		b.hovering = false
		b.eng.SetCursor(engine.CursorDefault)
	}
}

// Attached is the number of live handlers.
func (b *Binder) Attached() int { return len(b.handles) }

// Clickable lists the layers click queries are restricted to.
func (b *Binder) Clickable() []string { return append([]string(nil), b.clickable...) }

func (b *Binder) onClick(ev engine.Event) {
	if len(b.clickable) == 0 {
		return
	}
	// only layers that exist can be queried
	layers := make([]string, 0, len(b.clickable))
	for _, id := range b.clickable {
		if b.eng.HasLayer(id) {
			layers = append(layers, id)
		}
	}
	if len(layers) == 0 {
		return
	}
	fs, err := b.eng.QueryFeaturesAt(ev.Point, layers)
	if err != nil {
		b.log.Warn("query features failed", "point", ev.Point, "err", err)
		return
	}
	if len(fs) == 0 {
		return
	}
	f := fs[0]
	b.eng.ShowPopup(f.Geometry, PopupContent(f.Properties), popupOptions)
}

func (b *Binder) onEnter(engine.Event) {
	if b.hovering {
		return
	}
	b.hovering = true
	b.eng.SetCursor(engine.CursorPointer)
}

func (b *Binder) onLeave(engine.Event) {
	if !b.hovering {
		return
	}
	b.hovering = false
	b.eng.SetCursor(engine.CursorDefault)
}
