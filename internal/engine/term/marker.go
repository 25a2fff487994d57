package term

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"stationmap/internal/engine"
)

//go:embed assets/marker.txt
var defaultMarker string

// LoadImage reads a marker asset: the first glyph of a text file. An empty
// path loads the built-in marker.
func LoadImage(path string) (engine.Image, error) {
	data := defaultMarker
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return engine.Image{}, err
		}
		data = string(b)
	}
	s := strings.TrimSpace(data)
	if s == "" {
		return engine.Image{}, errors.New("marker asset is empty")
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return engine.Image{}, fmt.Errorf("marker asset %q is not valid UTF-8", path)
	}
	return engine.Image{Glyph: string(r)}, nil
}
