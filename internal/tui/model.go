package tui

import (
	"log/slog"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"stationmap/internal/config"
	"stationmap/internal/engine"
	"stationmap/internal/engine/term"
	"stationmap/internal/layers"
	"stationmap/internal/logger"
	"stationmap/internal/registry"
	"stationmap/internal/view"
)

// layout constants, in cells
const (
	sidebarWidth = 28
	panelWidth   = 30
	headerHeight = 3 // title, selectors, glider
	footerHeight = 1
	tabWidth     = 6
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showAttrs   bool

	status string

	reg   *registry.Registry
	store *view.Store
	mp    *term.Map
	ctl   *layers.Controller
	log   *slog.Logger

	iconPath string

	// dataset sidebar
	l list.Model

	// station table for the active year
	tbl table.Model

	// hover state
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64
}

type iconLoadedMsg struct {
	img engine.Image
	err error
}

func loadIcon(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := term.LoadImage(path)
		return iconLoadedMsg{img: img, err: err}
	}
}

// New builds the model. The map engine becomes ready on the first window
// size message.
func New(cfg *config.Config, reg *registry.Registry, log *slog.Logger) (Model, error) {
	if log == nil {
		log = logger.L()
	}
	year := cfg.Year
	if year == "" {
		year = reg.At(0).ID
	}
	mode, err := view.ParseMode(cfg.Mode)
	if err != nil {
		return Model{}, err
	}
	store, err := view.NewStore(reg, year, mode)
	if err != nil {
		return Model{}, err
	}
	mp := term.New(term.Options{Center: cfg.Center, Zoom: cfg.Zoom, Style: cfg.Style}, log)
	m := Model{
		helpVisible: true,
		status:      "loading map",
		reg:         reg,
		store:       store,
		mp:          mp,
		ctl:         layers.NewController(reg, store, mp, log),
		log:         log,
		iconPath:    cfg.IconPath,
	}
	d := list.NewDefaultDelegate()
	m.l = list.New(datasetItems(reg), d, 0, 0)
	m.l.Title = "Datasets"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m, nil
}

func (m Model) Init() tea.Cmd { return loadIcon(m.iconPath) }

// layout returns the map canvas origin and size.
func (m Model) layout() (x, y, w, h int) {
	x = 0
	if m.showSidebar {
		x = sidebarWidth + 1
	}
	y = headerHeight
	w = max(10, m.width-x-panelWidth-1)
	h = max(4, m.height-headerHeight-footerHeight)
	return x, y, w, h
}

func (m *Model) resizeMap() {
	_, _, w, h := m.layout()
	m.mp.Resize(w, h)
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, h-2)
	}
}
