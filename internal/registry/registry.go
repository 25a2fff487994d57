// Package registry holds the static, ordered list of station datasets.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	ErrEmptyID     = errors.New("registry: empty dataset id")
	ErrDuplicateID = errors.New("registry: duplicate dataset id")
)

// DatasetDescriptor describes one year's station dataset and where it lives.
type DatasetDescriptor struct {
	ID            string // year label
	SourceLocator string
	SubLayer      string
	Color         string
}

// Registry is an ordered, immutable sequence of descriptors.
type Registry struct {
	ds  []DatasetDescriptor
	idx map[string]int
}

func New(ds ...DatasetDescriptor) (*Registry, error) {
	r := &Registry{
		ds:  make([]DatasetDescriptor, 0, len(ds)),
		idx: make(map[string]int, len(ds)),
	}
	for _, d := range ds {
		if d.ID == "" {
			return nil, ErrEmptyID
		}
		if _, dup := r.idx[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, d.ID)
		}
		r.idx[d.ID] = len(r.ds)
		r.ds = append(r.ds, d)
	}
	return r, nil
}

func MustNew(ds ...DatasetDescriptor) *Registry {
	r, err := New(ds...)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns a copy of the descriptors in registry order.
func (r *Registry) All() []DatasetDescriptor {
	out := make([]DatasetDescriptor, len(r.ds))
	copy(out, r.ds)
	return out
}

func (r *Registry) Len() int { return len(r.ds) }

func (r *Registry) At(i int) DatasetDescriptor { return r.ds[i] }

func (r *Registry) Lookup(id string) (DatasetDescriptor, bool) {
	i, ok := r.idx[id]
	if !ok {
		return DatasetDescriptor{}, false
	}
	return r.ds[i], true
}

// IndexOf returns the position of id, or -1.
func (r *Registry) IndexOf(id string) int {
	if i, ok := r.idx[id]; ok {
		return i
	}
	return -1
}

func (r *Registry) IDs() []string {
	ids := make([]string, len(r.ds))
	for i, d := range r.ds {
		ids[i] = d.ID
	}
	return ids
}

// shipped years, newest first
var years = []struct {
	id    string
	color string
}{
	{"2025", "#E66150"},
	{"2024", "#46B478"},
	{"2023", "#DC96C8"},
	{"2022", "#B37337"},
	{"2021", "#3794B3"},
}

// Default describes the shipped years as one GeoJSON file per year under dataDir.
func Default(dataDir string) *Registry {
	ds := make([]DatasetDescriptor, 0, len(years))
	for _, y := range years {
		ds = append(ds, DatasetDescriptor{
			ID:            y.id,
			SourceLocator: filepath.Join(dataDir, y.id+".geojson"),
			SubLayer:      y.id,
			Color:         y.color,
		})
	}
	return MustNew(ds...)
}

// DefaultSQLite describes the shipped years as tables stations_<year> of one sqlite file.
func DefaultSQLite(dbPath string) *Registry {
	ds := make([]DatasetDescriptor, 0, len(years))
	for _, y := range years {
		ds = append(ds, DatasetDescriptor{
			ID:            y.id,
			SourceLocator: "sqlite://" + dbPath,
			SubLayer:      "stations_" + y.id,
			Color:         y.color,
		})
	}
	return MustNew(ds...)
}
