// Package layers keeps the map engine's layers in step with the view state:
// which dataset layer is visible, and which layers answer clicks and hover.
package layers

import (
	"log/slog"

	"stationmap/internal/engine"
	"stationmap/internal/geom"
	"stationmap/internal/logger"
	"stationmap/internal/registry"
	"stationmap/internal/view"
)

const (
	MarkerImage = "station-marker"
	heatRadius  = 30
)

func PointLayerID(d registry.DatasetDescriptor) string { return d.ID + "-points" }
func HeatLayerID(d registry.DatasetDescriptor) string  { return d.ID + "-heat" }

// Assignment computes the visibility of every renderable layer: only the
// active dataset's layer for the active mode is visible.
func Assignment(reg *registry.Registry, st view.State) map[string]bool {
	out := make(map[string]bool, reg.Len()*2)
	for _, d := range reg.All() {
		active := d.ID == st.ActiveYear
		out[PointLayerID(d)] = active && st.Mode == view.Points
		out[HeatLayerID(d)] = active && st.Mode == view.Heatmap
	}
	return out
}

type Synchronizer struct {
	reg *registry.Registry
	eng engine.Engine
	log *slog.Logger
}

func NewSynchronizer(reg *registry.Registry, eng engine.Engine, log *slog.Logger) *Synchronizer {
	if log == nil {
		log = logger.L()
	}
	return &Synchronizer{reg: reg, eng: eng, log: log}
}

// Setup adds one source per dataset and every heatmap layer, each created
// with its assigned visibility. Failures are logged and skipped.
func (s *Synchronizer) Setup(st view.State) {
	vis := Assignment(s.reg, st)
	for _, d := range s.reg.All() {
		if err := s.eng.AddVectorSource(d.ID, d.SourceLocator); err != nil {
			s.log.Error("add source failed", "dataset", d.ID, "locator", d.SourceLocator, "err", err)
			continue
		}
		def := engine.LayerDef{
			ID:          HeatLayerID(d),
			Kind:        engine.KindHeatmap,
			Source:      d.ID,
			SourceLayer: d.SubLayer,
			Visible:     vis[HeatLayerID(d)],
			Weight:      geom.PropTotalTrips,
			Radius:      heatRadius,
		}
		if err := s.eng.AddLayer(def); err != nil {
			s.log.Error("add layer failed", "layer", def.ID, "err", err)
		}
	}
}

// AddPointLayers adds the icon based point layers. It needs the marker image
// to be registered; datasets whose source failed are skipped.
func (s *Synchronizer) AddPointLayers(st view.State) {
	vis := Assignment(s.reg, st)
	for _, d := range s.reg.All() {
		id := PointLayerID(d)
		if s.eng.HasLayer(id) {
			continue
		}
		def := engine.LayerDef{
			ID:          id,
			Kind:        engine.KindSymbol,
			Source:      d.ID,
			SourceLayer: d.SubLayer,
			Visible:     vis[id],
			Color:       d.Color,
			Icon:        MarkerImage,
		}
		if err := s.eng.AddLayer(def); err != nil {
			s.log.Error("add layer failed", "layer", id, "err", err)
		}
	}
}

// Sync applies the assignment for st to every layer that exists. It does
// nothing before the engine is ready. Missing layers are skipped and a
// rejected call does not stop the batch. It returns what was applied.
func (s *Synchronizer) Sync(st view.State) map[string]bool {
	applied := map[string]bool{}
	if !st.EngineReady {
		return applied
	}
	vis := Assignment(s.reg, st)
	for _, d := range s.reg.All() {
		for _, id := range []string{PointLayerID(d), HeatLayerID(d)} {
			if !s.eng.HasLayer(id) {
				continue
			}
			visible := vis[id]
			if err := s.eng.SetLayerVisibility(id, visible); err != nil {
				s.log.Warn("set visibility failed", "layer", id, "err", err)
				continue
			}
			applied[id] = visible
		}
	}
	return applied
}
