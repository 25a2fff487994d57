package layers

import (
	"errors"

	"github.com/paulmach/orb"

	"stationmap/internal/engine"
)

type visCall struct {
	id      string
	visible bool
}

// fakeEngine records every call made by the synchronizer and binder.
type fakeEngine struct {
	engine.Handlers

	sources    map[string]string
	failSource map[string]bool
	images     map[string]engine.Image
	layers     map[string]*engine.LayerDef
	failVis    map[string]bool

	hits map[engine.ScreenPoint][]engine.Feature

	visCalls  []visCall
	queries   [][]string
	popups    []engine.Popup
	cursors   []engine.Cursor
	destroyed bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		sources:    map[string]string{},
		failSource: map[string]bool{},
		images:     map[string]engine.Image{},
		layers:     map[string]*engine.LayerDef{},
		failVis:    map[string]bool{},
		hits:       map[engine.ScreenPoint][]engine.Feature{},
	}
}

func (f *fakeEngine) AddVectorSource(id, locator string) error {
	if f.failSource[id] {
		return errors.New("source fetch failed")
	}
	f.sources[id] = locator
	return nil
}

func (f *fakeEngine) AddImage(name string, img engine.Image) error {
	f.images[name] = img
	return nil
}

func (f *fakeEngine) AddLayer(def engine.LayerDef) error {
	if _, ok := f.sources[def.Source]; !ok {
		return engine.ErrSourceNotFound
	}
	if def.Kind == engine.KindSymbol {
		if _, ok := f.images[def.Icon]; !ok {
			return engine.ErrImageMissing
		}
	}
	d := def
	f.layers[def.ID] = &d
	return nil
}

func (f *fakeEngine) HasLayer(id string) bool {
	_, ok := f.layers[id]
	return ok
}

func (f *fakeEngine) SetLayerVisibility(id string, visible bool) error {
	l, ok := f.layers[id]
	if !ok {
		return engine.ErrLayerNotFound
	}
	if f.failVis[id] {
		return errors.New("rejected")
	}
	l.Visible = visible
	f.visCalls = append(f.visCalls, visCall{id, visible})
	return nil
}

func (f *fakeEngine) QueryFeaturesAt(pt engine.ScreenPoint, layers []string) ([]engine.Feature, error) {
	f.queries = append(f.queries, layers)
	allowed := map[string]bool{}
	for _, id := range layers {
		allowed[id] = true
	}
	var out []engine.Feature
	for _, ft := range f.hits[pt] {
		l, ok := f.layers[ft.Layer]
		if ok && l.Visible && allowed[ft.Layer] {
			out = append(out, ft)
		}
	}
	return out, nil
}

func (f *fakeEngine) ShowPopup(at orb.Point, content string, opts engine.PopupOptions) {
	f.popups = append(f.popups, engine.Popup{At: at, Content: content, Options: opts})
}

func (f *fakeEngine) SetCursor(c engine.Cursor) { f.cursors = append(f.cursors, c) }

func (f *fakeEngine) Destroy() {
	f.destroyed = true
	f.Clear()
}

// visible lists the layers whose flag is set.
func (f *fakeEngine) visible() []string {
	var out []string
	for id, l := range f.layers {
		if l.Visible {
			out = append(out, id)
		}
	}
	return out
}

var _ engine.Engine = (*fakeEngine)(nil)
