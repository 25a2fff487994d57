package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Source is a set of named feature collections loaded from one locator.
type Source struct {
	Locator string
	Layers  map[string]*geojson.FeatureCollection
	Bound   orb.Bound
	hasBB   bool
}

func newSource(locator string) *Source {
	return &Source{Locator: locator, Layers: map[string]*geojson.FeatureCollection{}}
}

// Bounds is the extent of every feature; ok is false for an empty source.
func (s *Source) Bounds() (b orb.Bound, ok bool) { return s.Bound, s.hasBB }

func (s *Source) Layer(name string) (*geojson.FeatureCollection, bool) {
	fc, ok := s.Layers[name]
	return fc, ok
}

func (s *Source) add(name string, fc *geojson.FeatureCollection) {
	s.Layers[name] = fc
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b := f.Geometry.Bound()
		if !s.hasBB {
			s.Bound, s.hasBB = b, true
			continue
		}
		s.Bound = s.Bound.Union(b)
	}
}

// Anchor is the coordinate a feature is drawn and hit-tested at.
func Anchor(g orb.Geometry) orb.Point {
	if p, ok := g.(orb.Point); ok {
		return p
	}
	return g.Bound().Center()
}

// Number reads a numeric property; text that parses as a number counts.
func Number(props map[string]any, key string) (float64, bool) {
	return toNumber(props[key])
}

func toNumber(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return parseNumber(v)
	}
	return 0, false
}
