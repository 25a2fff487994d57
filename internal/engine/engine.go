// Package engine defines the contract of the map engine the layer controller
// drives: sources, layers, visibility, hit-testing, popups and pointer events.
package engine

import (
	"errors"

	"github.com/paulmach/orb"
)

var (
	ErrSourceNotFound   = errors.New("engine: source not found")
	ErrSourceExists     = errors.New("engine: source already exists")
	ErrSubLayerNotFound = errors.New("engine: sub-layer not found in source")
	ErrLayerNotFound    = errors.New("engine: layer not found")
	ErrLayerExists      = errors.New("engine: layer already exists")
	ErrImageMissing     = errors.New("engine: image not registered")
	ErrNotReady         = errors.New("engine: not ready")
	ErrDestroyed        = errors.New("engine: destroyed")
)

type EventType string

const (
	EventReady        EventType = "ready"
	EventClick        EventType = "click"
	EventPointerEnter EventType = "pointerenter"
	EventPointerLeave EventType = "pointerleave"
	EventPointerMove  EventType = "pointermove"
)

// ScreenPoint is a cell position relative to the map canvas origin.
type ScreenPoint struct {
	X, Y int
}

type Event struct {
	Type   EventType
	Layer  string // set for layer-scoped events
	Point  ScreenPoint
	LngLat orb.Point
}

type Handler func(Event)

type HandlerID uint64

type Cursor string

const (
	CursorDefault Cursor = ""
	CursorPointer Cursor = "pointer"
)

type LayerKind string

const (
	KindSymbol  LayerKind = "symbol"
	KindHeatmap LayerKind = "heatmap"
)

type LayerDef struct {
	ID          string
	Kind        LayerKind
	Source      string
	SourceLayer string
	Visible     bool
	Color       string
	Icon        string // symbol layers: registered image name
	Weight      string // heatmap layers: numeric property used as weight
	Radius      int    // heatmap layers: kernel radius in pixels
}

// Image is a marker asset. On a character canvas it is a single glyph.
type Image struct {
	Glyph string
}

type Feature struct {
	Layer      string
	Geometry   orb.Point
	Properties map[string]any
}

type PopupOptions struct {
	Offset int
	Class  string
}

type Popup struct {
	At      orb.Point
	Content string
	Options PopupOptions
}

// Engine is the map engine collaborator. Implementations are driven from a
// single goroutine.
type Engine interface {
	On(ev EventType, layerID string, h Handler) HandlerID
	Off(id HandlerID)

	AddVectorSource(id, locator string) error
	AddImage(name string, img Image) error
	AddLayer(def LayerDef) error
	HasLayer(id string) bool
	SetLayerVisibility(id string, visible bool) error

	// QueryFeaturesAt returns rendered features at pt, topmost first,
	// restricted to layers when it is non-empty.
	QueryFeaturesAt(pt ScreenPoint, layers []string) ([]Feature, error)
	ShowPopup(at orb.Point, content string, opts PopupOptions)
	SetCursor(c Cursor)

	Destroy()
}
