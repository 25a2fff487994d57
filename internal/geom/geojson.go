package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

var errNoGeometries = errors.New("no geometries found")

// LoadGeoJSON reads a FeatureCollection, a single Feature or a bare geometry.
func LoadGeoJSON(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	var fc *geojson.FeatureCollection
	switch head.Type {
	case "FeatureCollection":
		fc, err = geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		fc = geojson.NewFeatureCollection().Append(f)
	case "":
		return nil, errors.New("invalid geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("geojson %s: %w", head.Type, err)
		}
		fc = geojson.NewFeatureCollection().Append(geojson.NewFeature(g.Geometry()))
	}
	for _, f := range fc.Features {
		if f.Geometry != nil {
			return fc, nil
		}
	}
	return nil, errNoGeometries
}
