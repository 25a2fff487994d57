package geom

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// coordColumns finds latitude/longitude columns.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
func coordColumns(header []string) (idxLat, idxLon int) {
	idxLat, idxLon = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	return idxLat, idxLon
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

// propValue keeps numeric text as float64 so CSV rows match GeoJSON properties.
func propValue(s string) any {
	if v, ok := parseNumber(s); ok {
		return v
	}
	return s
}

// LoadCSV reads a CSV with latitude/longitude columns. Every other column
// becomes a feature property.
func LoadCSV(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLon := coordColumns(header)
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	fc := geojson.NewFeatureCollection()
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, ok1 := parseNumber(row[idxLon])
		lat, ok2 := parseNumber(row[idxLat])
		if !ok1 || !ok2 {
			continue
		}
		feat := geojson.NewFeature(orb.Point{lon, lat})
		for i, h := range header {
			if i == idxLat || i == idxLon || i >= len(row) {
				continue
			}
			feat.Properties[strings.TrimSpace(h)] = propValue(row[i])
		}
		fc.Append(feat)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("csv: no valid points parsed")
	}
	return fc, nil
}
