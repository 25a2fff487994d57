package main

import (
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"stationmap/internal/config"
	"stationmap/internal/logger"
	"stationmap/internal/registry"
	"stationmap/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.DataDir = args[0]
	}

	f, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer f.Close()
	lg := logger.Setup(f, cfg.LogLevel, cfg.LogFormat)

	reg := registry.Default(cfg.DataDir)
	if cfg.DBPath != "" {
		reg = registry.DefaultSQLite(cfg.DBPath)
	}
	lg.Info("starting", "datasets", reg.Len(), "data_dir", cfg.DataDir, "db", cfg.DBPath)

	m, err := tui.New(cfg, reg, lg)
	if err != nil {
		lg.Error("setup failed", "err", err)
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		lg.Error("program exited", "err", err)
		return err
	}
	return nil
}
