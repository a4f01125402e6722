package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/gamearch/logging"
	"github.com/milk9111/gamearch/telemetry"
)

func main() {
	if err := loadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		os.Exit(2)
	}

	log, err := logging.Init(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if cfg.BaseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("gamearch")

	var telem *telemetry.System
	if cfg.TelemetryAddr != "" {
		hub := telemetry.NewHub(&telemetry.Metrics{}, logging.Named("telemetry"))
		srv := telemetry.NewServer(cfg.TelemetryAddr, hub, logging.Named("telemetry"))
		if err := srv.Start(); err != nil {
			log.Fatalw("telemetry start failed", "addr", cfg.TelemetryAddr, "error", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		telem = telemetry.NewSystem(hub, cfg.SnapshotEvery, logging.Named("telemetry"))
	}

	game, err := NewGame(cfg, telem, log)
	if err != nil {
		log.Fatalw("start game failed", "level", cfg.Level, "error", err)
	}
	defer game.Close()

	// Mouse look needs the cursor captured from the first frame.
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Errorw("game stopped", "error", err)
	}
}
