package geom

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenGeoJSONCollection(t *testing.T) {
	p := writeFile(t, "2023.geojson", `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-73.57,45.50]},
		 "properties":{"Station":"Atwater","Trips Started":120,"Trips Ended":98,"Total Trips":218}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[-73.60,45.52]},"properties":{"Station":"Jean-Talon"}}]}`)
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fc, ok := s.Layer("2023")
	if !ok {
		t.Fatalf("sub-layer 2023 missing, have %v", s.Layers)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("features=%d, want 2", len(fc.Features))
	}
	if got := fc.Features[0].Properties[PropStation]; got != "Atwater" {
		t.Fatalf("Station=%v", got)
	}
	if v, ok := Number(fc.Features[0].Properties, PropTotalTrips); !ok || v != 218 {
		t.Fatalf("Total Trips=%v,%v", v, ok)
	}
	if s.Bound.Min != (orb.Point{-73.60, 45.50}) || s.Bound.Max != (orb.Point{-73.57, 45.52}) {
		t.Fatalf("bound=%v", s.Bound)
	}
}

func TestOpenGeoJSONBareGeometry(t *testing.T) {
	p := writeFile(t, "one.json", `{"type":"Point","coordinates":[1,2]}`)
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fc, _ := s.Layer("one")
	if len(fc.Features) != 1 || Anchor(fc.Features[0].Geometry) != (orb.Point{1, 2}) {
		t.Fatalf("unexpected features %v", fc.Features)
	}
}

func TestOpenCSVKeepsProperties(t *testing.T) {
	p := writeFile(t, "2021.csv", "Station,Latitude,Longitude,Trips Started\nAtwater,45.50,-73.57,120\nBad,x,y,1\n")
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fc, _ := s.Layer("2021")
	if len(fc.Features) != 1 {
		t.Fatalf("features=%d, want 1", len(fc.Features))
	}
	f := fc.Features[0]
	if f.Geometry.(orb.Point) != (orb.Point{-73.57, 45.50}) {
		t.Fatalf("geometry=%v", f.Geometry)
	}
	if f.Properties["Trips Started"] != 120.0 || f.Properties[PropStation] != "Atwater" {
		t.Fatalf("properties=%v", f.Properties)
	}
	if _, ok := f.Properties["Latitude"]; ok {
		t.Fatalf("coordinate column leaked into properties")
	}
}

func TestOpenKML(t *testing.T) {
	p := writeFile(t, "s.kml", `<?xml version="1.0"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document>
<Placemark><name>Atwater</name><ExtendedData><Data name="Total Trips"><value>218</value></Data></ExtendedData>
<Point><coordinates>-73.57,45.50,0</coordinates></Point></Placemark>
</Document></kml>`)
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fc, _ := s.Layer("s")
	if len(fc.Features) != 1 {
		t.Fatalf("features=%d", len(fc.Features))
	}
	props := fc.Features[0].Properties
	if props[PropStation] != "Atwater" || props[PropTotalTrips] != 218.0 {
		t.Fatalf("properties=%v", props)
	}
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bixi.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		`CREATE TABLE stations_2025 (Station TEXT, geom TEXT, "Total Trips" INTEGER)`,
		`INSERT INTO stations_2025 VALUES ('Atwater', 'POINT(-73.57 45.5)', 218)`,
		`CREATE TABLE stations_2024 (Station TEXT, lat REAL, lon REAL)`,
		`INSERT INTO stations_2024 VALUES ('Jean-Talon', 45.53, -73.61)`,
		`CREATE TABLE notes (body TEXT)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	db.Close()

	s, err := Open(SQLiteScheme + path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.Layer("notes"); ok {
		t.Fatalf("table without geometry became a sub-layer")
	}
	fc, ok := s.Layer("stations_2025")
	if !ok || len(fc.Features) != 1 {
		t.Fatalf("stations_2025 missing or empty")
	}
	if fc.Features[0].Geometry.(orb.Point) != (orb.Point{-73.57, 45.5}) {
		t.Fatalf("geometry=%v", fc.Features[0].Geometry)
	}
	if v, ok := Number(fc.Features[0].Properties, PropTotalTrips); !ok || v != 218 {
		t.Fatalf("Total Trips=%v", fc.Features[0].Properties)
	}
	fc, _ = s.Layer("stations_2024")
	if len(fc.Features) != 1 || fc.Features[0].Properties[PropStation] != "Jean-Talon" {
		t.Fatalf("stations_2024=%v", fc.Features)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open("stations.shp"); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("err=%v, want ErrUnsupportedSource", err)
	}
	if _, err := Open(SQLiteScheme + filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatalf("missing sqlite file opened")
	}
	p := writeFile(t, "empty.geojson", `{"type":"FeatureCollection","features":[]}`)
	if _, err := Open(p); err == nil {
		t.Fatalf("empty collection accepted")
	}
}
