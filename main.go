package main

import (
	"log/slog"

	"github.com/birdscan/birdscan-go/cmd"
	"github.com/birdscan/birdscan-go/internal/conf"
	"github.com/birdscan/birdscan-go/internal/logging"
)

// Set at build time via ldflags.
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		logging.Fatal("Error loading configuration", "error", err)
	}
	settings.Version = version
	settings.BuildDate = buildDate

	if settings.Debug {
		logging.SetLevel(slog.LevelDebug)
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		logging.Fatal("Command failed", "error", err)
	}
}
