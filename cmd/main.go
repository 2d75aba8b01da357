package main

import (
	"context"
	"os"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	configPath := os.Getenv("MIXTAPE_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
		config.ApplyEnv(os.Getenv)
	}
	shared.SetLogLevel(logger, config.Log.Level)

	runner := NewRunner(wire(ctx, config, configPath, logger))

	app := &cli.Command{
		Name:     "mixtape",
		Usage:    "Build AI-titled playlists from Last.fm top tracks and export them to YouTube Music or Spotify",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
