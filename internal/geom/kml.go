package geom

import (
	"encoding/xml"
	"errors"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPlacemark struct {
	Name  string    `xml:"name"`
	Point *kmlPoint `xml:"Point"`
	Data  []kmlData `xml:"ExtendedData>Data"`
}

type kmlDoc struct {
	Placemarks    []kmlPlacemark `xml:"Placemark"`
	DocPlacemarks []kmlPlacemark `xml:"Document>Placemark"`
}

// LoadKML extracts Placemark points. The placemark name becomes the Station
// property; ExtendedData entries become properties.
// KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func LoadKML(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	for _, pm := range append(doc.Placemarks, doc.DocPlacemarks...) {
		if pm.Point == nil {
			continue
		}
		// only the first tuple of a Point is meaningful
		tuples := strings.Fields(pm.Point.Coordinates)
		if len(tuples) == 0 {
			continue
		}
		vals := strings.Split(tuples[0], ",")
		if len(vals) < 2 {
			continue
		}
		lon, ok1 := parseNumber(vals[0])
		lat, ok2 := parseNumber(vals[1])
		if !ok1 || !ok2 {
			continue
		}
		feat := geojson.NewFeature(orb.Point{lon, lat})
		if pm.Name != "" {
			feat.Properties[PropStation] = strings.TrimSpace(pm.Name)
		}
		for _, d := range pm.Data {
			feat.Properties[d.Name] = propValue(d.Value)
		}
		fc.Append(feat)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("kml: no points found")
	}
	return fc, nil
}
