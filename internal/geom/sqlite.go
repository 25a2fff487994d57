package geom

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	_ "modernc.org/sqlite"
)

// LoadSQLite reads every user table that has a geometry as a sub-layer.
// Geometry comes from a WKT column (geom, geometry or wkt) or from
// latitude/longitude columns; the other columns become properties.
func LoadSQLite(path string) (map[string]*geojson.FeatureCollection, error) {
	// sql.Open would silently create a missing database
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		tables = append(tables, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := map[string]*geojson.FeatureCollection{}
	for _, t := range tables {
		fc, ok, err := loadTable(db, t)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t, err)
		}
		if ok {
			out[t] = fc
		}
	}
	return out, nil
}

func wktColumn(cols []string) int {
	for i, c := range cols {
		switch strings.ToLower(c) {
		case "geom", "geometry", "wkt":
			return i
		}
	}
	return -1
}

func loadTable(db *sql.DB, table string) (*geojson.FeatureCollection, bool, error) {
	rows, err := db.Query(`SELECT * FROM "` + strings.ReplaceAll(table, `"`, `""`) + `"`)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, false, err
	}
	idxGeom := wktColumn(cols)
	idxLat, idxLon := coordColumns(cols)
	if idxGeom == -1 && (idxLat == -1 || idxLon == -1) {
		return nil, false, nil
	}

	fc := geojson.NewFeatureCollection()
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, false, err
		}
		var g orb.Geometry
		if idxGeom >= 0 {
			g, err = wkt.Unmarshal(columnText(vals[idxGeom]))
			if err != nil {
				continue
			}
		} else {
			lon, ok1 := toNumber(normalize(vals[idxLon]))
			lat, ok2 := toNumber(normalize(vals[idxLat]))
			if !ok1 || !ok2 {
				continue
			}
			g = orb.Point{lon, lat}
		}
		feat := geojson.NewFeature(g)
		for i, c := range cols {
			if i == idxGeom || ((idxGeom == -1) && (i == idxLat || i == idxLon)) {
				continue
			}
			feat.Properties[c] = normalize(vals[i])
		}
		fc.Append(feat)
	}
	return fc, true, rows.Err()
}

func columnText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return ""
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
