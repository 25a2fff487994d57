package tui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"stationmap/internal/config"
	"stationmap/internal/engine"
	"stationmap/internal/registry"
	"stationmap/internal/view"
)

const stationsJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"Point","coordinates":[-73.58781,45.50884]},
  "properties":{"Station":"Atwater / Sainte-Catherine","Trips Started":120,"Trips Ended":98,"Total Trips":218}},
 {"type":"Feature","geometry":{"type":"Point","coordinates":[-73.57,45.52]},
  "properties":{"Station":"Peel / Sherbrooke","Trips Started":40,"Trips Ended":61,"Total Trips":101}}]}`

func newTestModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2025.geojson"), []byte(stationsJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		DataDir: dir,
		Center:  orb.Point{-73.58781, 45.50884},
		Zoom:    14,
		Style:   "light",
		Mode:    "points",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := New(cfg, registry.Default(dir), log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// stationCell is the screen position of the map centre.
func stationCell(m Model) (int, int) {
	ox, oy, w, h := m.layout()
	return ox + w/2, oy + h/2
}

func TestEngineReadyOnFirstResize(t *testing.T) {
	m := newTestModel(t)
	if m.store.State().EngineReady {
		t.Fatal("ready before the canvas has a size")
	}
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if !m.store.State().EngineReady {
		t.Fatal("engine not ready after resize")
	}
	if !m.mp.HasLayer("2025-heat") {
		t.Fatal("heat layer missing after ready")
	}
	if m.mp.HasLayer("2025-points") {
		t.Fatal("point layer added before the icon loaded")
	}
	if !strings.Contains(m.View(), "Montreal BIXI Stations") {
		t.Fatal("title missing from view")
	}
}

func TestClickStationOpensPopup(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = send(t, m, iconLoadedMsg{img: engine.Image{Glyph: "●"}})
	if vis, ok := m.mp.LayerVisible("2025-points"); !ok || !vis {
		t.Fatalf("2025-points visible=%v exists=%v", vis, ok)
	}

	x, y := stationCell(m)
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if m.mp.Cursor() != engine.CursorPointer {
		t.Fatalf("cursor=%q over a station", m.mp.Cursor())
	}
	if !m.hoverHasGeo {
		t.Fatal("hover coordinates not recorded")
	}
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	p, ok := m.mp.Popup()
	if !ok {
		t.Fatal("no popup after click")
	}
	want := "Atwater / Sainte-Catherine\nTrips Started: 120\nTrips Ended: 98\nTotal Trips: 218"
	if p.Content != want {
		t.Fatalf("popup=%q", p.Content)
	}
	if p.Options.Class != "station-popup" || p.Options.Offset != 1 {
		t.Fatalf("popup options=%+v", p.Options)
	}
	if !strings.Contains(m.View(), "Trips Started: 120") {
		t.Fatal("popup not drawn")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.mp.Popup(); ok {
		t.Fatal("esc did not close the popup")
	}

	m, _ = send(t, m, tea.MouseMsg{X: m.width - 1, Y: y, Action: tea.MouseActionMotion})
	if m.mp.Cursor() != engine.CursorDefault {
		t.Fatalf("cursor=%q after leaving the map", m.mp.Cursor())
	}
}

func TestModeAndYearKeys(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = send(t, m, iconLoadedMsg{img: engine.Image{Glyph: "●"}})

	m, _ = send(t, m, key("m"))
	if m.store.State().Mode != view.Heatmap {
		t.Fatalf("mode=%v", m.store.State().Mode)
	}
	if vis, _ := m.mp.LayerVisible("2025-heat"); !vis {
		t.Fatal("heat layer hidden in heatmap mode")
	}
	if vis, _ := m.mp.LayerVisible("2025-points"); vis {
		t.Fatal("point layer visible in heatmap mode")
	}
	if n := m.ctl.Binder().Attached(); n != 0 {
		t.Fatalf("%d handlers attached in heatmap mode", n)
	}

	// clicking in heatmap mode opens nothing
	x, y := stationCell(m)
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if _, ok := m.mp.Popup(); ok {
		t.Fatal("popup opened in heatmap mode")
	}

	m, _ = send(t, m, key("3"))
	if got := m.store.State().ActiveYear; got != "2023" {
		t.Fatalf("year=%s, want 2023", got)
	}
	if vis, _ := m.mp.LayerVisible("2025-heat"); vis {
		t.Fatal("2025 heat still visible after switching year")
	}
	m, _ = send(t, m, key("."))
	if got := m.store.State().ActiveYear; got != "2022" {
		t.Fatalf("year=%s, want 2022", got)
	}
	m, _ = send(t, m, key("9"))
	if got := m.store.State().ActiveYear; got != "2022" {
		t.Fatalf("out of range key changed year to %s", got)
	}
	if i := view.ActiveIndex(m.reg, m.store.State()); i != 3 {
		t.Fatalf("active index=%d", i)
	}
}

func TestQuitClosesController(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = send(t, m, iconLoadedMsg{img: engine.Image{Glyph: "●"}})
	m, cmd := send(t, m, key("q"))
	if cmd == nil {
		t.Fatal("no quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
	if n := m.mp.HandlerCount(); n != 0 {
		t.Fatalf("%d handlers left after quit", n)
	}
}

func TestIconFailureKeepsHeatmap(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = send(t, m, iconLoadedMsg{err: os.ErrNotExist})
	if m.ctl.IconErr() == nil {
		t.Fatal("icon error not recorded")
	}
	if m.mp.HasLayer("2025-points") {
		t.Fatal("point layer added without an icon")
	}
	m, _ = send(t, m, key("m"))
	if vis, _ := m.mp.LayerVisible("2025-heat"); !vis {
		t.Fatal("heatmap unavailable after icon failure")
	}
}

func TestHoverSurvivesModeRoundTrip(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = send(t, m, iconLoadedMsg{img: engine.Image{Glyph: "●"}})
	x, y := stationCell(m)
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if m.mp.Cursor() != engine.CursorPointer {
		t.Fatalf("cursor=%q over a station", m.mp.Cursor())
	}

	m, _ = send(t, m, key("m"))
	if m.mp.Cursor() != engine.CursorDefault {
		t.Fatalf("cursor=%q in heatmap mode", m.mp.Cursor())
	}
	m, _ = send(t, m, key("m"))
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if m.mp.Cursor() != engine.CursorPointer {
		t.Fatalf("cursor=%q over a station after returning to points", m.mp.Cursor())
	}

	m, _ = send(t, m, key("2"))
	m, _ = send(t, m, key("1"))
	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	if m.mp.Cursor() != engine.CursorPointer {
		t.Fatalf("cursor=%q over a station after switching year and back", m.mp.Cursor())
	}
}

func TestArrowKeysMoveStationTable(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = send(t, m, iconLoadedMsg{img: engine.Image{Glyph: "●"}})
	centre := m.mp.Center()

	m, _ = send(t, m, key("a"))
	if !m.showAttrs || len(m.tbl.Rows()) != 2 {
		t.Fatalf("station table open=%v rows=%d", m.showAttrs, len(m.tbl.Rows()))
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.tbl.Cursor() != 1 {
		t.Fatalf("table cursor=%d, want 1", m.tbl.Cursor())
	}
	if m.mp.Center() != centre {
		t.Fatal("arrow key panned the map behind the table")
	}

	m, _ = send(t, m, key("a"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.mp.Center() == centre {
		t.Fatal("arrow key did not pan the map")
	}
}

func TestFitKeyFramesActiveYear(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "-73.588,45.509") {
		t.Fatal("dataset extent missing from the legend")
	}

	m, _ = send(t, m, key("f"))
	c := m.mp.Center()
	if c.Lon() <= -73.58781 || c.Lon() >= -73.57 || c.Lat() <= 45.50884 || c.Lat() >= 45.52 {
		t.Fatalf("centre=%v not between the two stations", c)
	}
	if !strings.HasPrefix(m.status, "fit 2025") {
		t.Fatalf("status=%q", m.status)
	}

	m, _ = send(t, m, key("3"))
	m, _ = send(t, m, key("f"))
	if m.status != "no stations loaded for 2023" {
		t.Fatalf("status=%q", m.status)
	}
}
