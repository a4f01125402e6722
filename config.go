package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	envLogFile       = "GAMEARCH_LOG_FILE"
	envTelemetryAddr = "GAMEARCH_TELEMETRY_ADDR"
	envLevel         = "GAMEARCH_LEVEL"
	envDebug         = "GAMEARCH_DEBUG"

	defaultLevel = "level1"
)

type Config struct {
	Level         string
	Debug         bool
	Watch         bool
	TelemetryAddr string
	SnapshotEvery int
	LogFile       string
	BaseMonitor   bool
}

// loadEnv reads .env files if present. Existing environment variables win.
func loadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// parseConfig parses flags; the environment supplies their defaults.
func parseConfig(args []string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	level := getenv(envLevel)
	if level == "" {
		level = defaultLevel
	}
	debugDefault, _ := strconv.ParseBool(getenv(envDebug))

	var cfg Config
	fset := flag.NewFlagSet("gamearch", flag.ContinueOnError)
	fset.StringVar(&cfg.Level, "level", level, "level name in levels/ (basename, .json optional)")
	fset.BoolVar(&cfg.Debug, "debug", debugDefault, "enable the physics debug view and debug logging")
	fset.BoolVar(&cfg.Watch, "watch", false, "hot reload prefabs and scripts from disk")
	fset.StringVar(&cfg.TelemetryAddr, "telemetry", getenv(envTelemetryAddr), "serve telemetry on this address, e.g. :8090")
	fset.IntVar(&cfg.SnapshotEvery, "snapshot-every", 6, "ticks between telemetry snapshots")
	fset.StringVar(&cfg.LogFile, "log", getenv(envLogFile), "rolling log file path (stderr only when empty)")
	fset.BoolVar(&cfg.BaseMonitor, "m", false, "use base monitor instead of primary (for multi-monitor setups)")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.SnapshotEvery <= 0 {
		return Config{}, errors.New("snapshot-every must be positive")
	}
	return cfg, nil
}
