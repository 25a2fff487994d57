// Package geom loads station sources: GeoJSON, CSV and KML files, and sqlite
// databases holding one table per sub-layer.
package geom

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Station feature properties.
const (
	PropStation      = "Station"
	PropTripsStarted = "Trips Started"
	PropTripsEnded   = "Trips Ended"
	PropTotalTrips   = "Total Trips"
)

const SQLiteScheme = "sqlite://"

var ErrUnsupportedSource = errors.New("unsupported source")

// Open loads the source named by locator. File sources carry a single
// sub-layer named after the file stem.
func Open(locator string) (*Source, error) {
	if strings.HasPrefix(locator, SQLiteScheme) {
		layers, err := LoadSQLite(strings.TrimPrefix(locator, SQLiteScheme))
		if err != nil {
			return nil, err
		}
		s := newSource(locator)
		for name, fc := range layers {
			s.add(name, fc)
		}
		return s, nil
	}
	ext := strings.ToLower(filepath.Ext(locator))
	stem := strings.TrimSuffix(filepath.Base(locator), filepath.Ext(locator))
	var (
		fc  *geojson.FeatureCollection
		err error
	)
	switch ext {
	case ".geojson", ".json":
		fc, err = LoadGeoJSON(locator)
	case ".csv":
		fc, err = LoadCSV(locator)
	case ".kml":
		fc, err = LoadKML(locator)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, locator)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", locator, err)
	}
	s := newSource(locator)
	s.add(stem, fc)
	return s, nil
}
