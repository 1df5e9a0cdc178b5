package main

import (
	"context"
	"os"

	"github.com/desertthunder/trax/internal/services"
	"github.com/desertthunder/trax/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService services.Service
	if svc, err := services.NewSpotifyService(config.Credentials.App.Map()); err == nil {
		spotifyService = svc
	} else {
		logger.Warn("spotify app credentials not configured", "error", err)
	}

	var catalog services.CatalogService
	if cat, err := services.NewCatalog(config.Credentials.API.ClientID, config.Credentials.API.ClientSecret); err == nil {
		catalog = cat
	} else {
		logger.Warn("catalog credentials not configured", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Catalog: catalog,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "trax",
		Usage:    "Bearer-token gateway to the Spotify Web API",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
