// Package config loads settings from .env and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/paulmach/orb"
)

type Config struct {
	DataDir string
	DBPath  string // when set, datasets are read from this sqlite file

	Center orb.Point
	Zoom   float64
	Style  string

	Year     string // empty means the first registry year
	Mode     string
	IconPath string // empty means the built-in marker

	LogFile   string
	LogLevel  string
	LogFormat string
}

// Load reads .env files (missing ones are ignored) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := &Config{
		DataDir:   getenv("STATIONMAP_DATA_DIR", "./data"),
		DBPath:    os.Getenv("STATIONMAP_DB"),
		Style:     getenv("STATIONMAP_STYLE", "light"),
		Year:      os.Getenv("STATIONMAP_YEAR"),
		Mode:      getenv("STATIONMAP_MODE", "points"),
		IconPath:  os.Getenv("STATIONMAP_ICON"),
		LogFile:   getenv("LOG_FILE", "stationmap.log"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),
	}

	center, err := parseCenter(getenv("STATIONMAP_CENTER", "-73.58781,45.50884"))
	if err != nil {
		return nil, err
	}
	cfg.Center = center

	zoom, err := strconv.ParseFloat(getenv("STATIONMAP_ZOOM", "12"), 64)
	if err != nil {
		return nil, fmt.Errorf("STATIONMAP_ZOOM: %w", err)
	}
	cfg.Zoom = zoom
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// parseCenter reads "lon,lat".
func parseCenter(s string) (orb.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return orb.Point{}, fmt.Errorf("STATIONMAP_CENTER: want lon,lat, got %q", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("STATIONMAP_CENTER lon: %w", err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("STATIONMAP_CENTER lat: %w", err)
	}
	if lon < -180 || lon > 180 || lat < -85 || lat > 85 {
		return orb.Point{}, fmt.Errorf("STATIONMAP_CENTER out of range: %q", s)
	}
	return orb.Point{lon, lat}, nil
}
