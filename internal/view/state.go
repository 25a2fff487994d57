// Package view holds the user's selection state: active year, display mode
// and engine readiness.
package view

import (
	"errors"
	"fmt"
	"strings"

	"stationmap/internal/registry"
)

var ErrInvalidSelection = errors.New("invalid selection")

type Mode int

const (
	Points Mode = iota
	Heatmap
)

func (m Mode) String() string {
	switch m {
	case Points:
		return "points"
	case Heatmap:
		return "heatmap"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) valid() bool { return m == Points || m == Heatmap }

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Points {
		return Heatmap
	}
	return Points
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "points", "point", "":
		return Points, nil
	case "heatmap", "heat":
		return Heatmap, nil
	}
	return Points, fmt.Errorf("%w: mode %q", ErrInvalidSelection, s)
}

type State struct {
	ActiveYear  string
	Mode        Mode
	EngineReady bool
}

// Store holds the State behind setters and notifies subscribers after every
// accepted call. It is not safe for concurrent use; all calls come from the
// UI update loop.
type Store struct {
	reg  *registry.Registry
	st   State
	subs map[int]func(prev, next State)
	next int
}

func NewStore(reg *registry.Registry, year string, mode Mode) (*Store, error) {
	if _, ok := reg.Lookup(year); !ok {
		return nil, fmt.Errorf("%w: year %q", ErrInvalidSelection, year)
	}
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSelection, mode)
	}
	return &Store{
		reg:  reg,
		st:   State{ActiveYear: year, Mode: mode},
		subs: map[int]func(prev, next State){},
	}, nil
}

func (s *Store) State() State { return s.st }

func (s *Store) SelectYear(id string) error {
	if _, ok := s.reg.Lookup(id); !ok {
		return fmt.Errorf("%w: year %q", ErrInvalidSelection, id)
	}
	s.set(func(st *State) { st.ActiveYear = id })
	return nil
}

func (s *Store) SelectMode(m Mode) error {
	if !m.valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSelection, m)
	}
	s.set(func(st *State) { st.Mode = m })
	return nil
}

func (s *Store) MarkEngineReady() {
	s.set(func(st *State) { st.EngineReady = true })
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn func(prev, next State)) (cancel func()) {
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) set(mut func(*State)) {
	prev := s.st
	mut(&s.st)
	next := s.st
	for i := 0; i < s.next; i++ {
		if fn, ok := s.subs[i]; ok {
			fn(prev, next)
		}
	}
}

// ActiveIndex is the registry position of the active year, or -1.
func ActiveIndex(reg *registry.Registry, st State) int {
	return reg.IndexOf(st.ActiveYear)
}
