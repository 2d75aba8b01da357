package main

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
)

// wire builds every backend enabled by cfg. Backends without credentials are left nil and
// reported as unconfigured by the commands that need them.
func wire(ctx context.Context, cfg *shared.Config, configPath string, logger *log.Logger) RunnerOpts {
	creds := cfg.Credentials
	httpClient := &http.Client{Timeout: cfg.Playlist.HTTPTimeout()}

	var generator services.Generator
	if creds.GenAI.Enabled() {
		gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
			APIKey:     creds.GenAI.APIKey,
			Model:      creds.GenAI.Model,
			HTTPClient: httpClient,
		})
		if err != nil {
			logger.Warn("creative generation disabled", "error", err)
		} else {
			generator = gemini
		}
	} else {
		logger.Warn("GENAI_APIKEY not set, creative generation disabled")
	}

	var collector *tasks.Collector
	if creds.LastFM.Enabled() {
		lastfm := services.NewLastFMService(creds.LastFM.APIKey, creds.LastFM.BaseURL, httpClient)
		collector = tasks.NewCollector(lastfm, cfg.Playlist.Concurrency, shared.WithLogger(logger, "component", "collector"))
	} else {
		logger.Warn("LASTFM_API_KEY not set, track collection disabled")
	}

	builder := tasks.NewBuilder(
		tasks.NewCreativeGenerator(generator, creds.GenAI.Temperature, shared.WithLogger(logger, "component", "creative")),
		collector,
		tasks.NewAssembler(cfg.Playlist.MaxTracks),
		shared.WithLogger(logger, "component", "builder"),
	)

	youtube := tasks.NewExporter(
		services.NewYouTubeService(creds.YouTube.ProxyURL, httpClient),
		creds.YouTube.Map(),
		shared.WithLogger(logger, "component", "exporter"),
	)

	opts := RunnerOpts{
		Config:     cfg,
		ConfigPath: configPath,
		Builder:    builder,
		YouTube:    youtube,
		API:        services.NewAPIService(creds.YouTube.ProxyURL, httpClient),
		HTTPClient: httpClient,
		Logger:     logger,
	}

	if creds.Spotify.ClientID != "" && creds.Spotify.ClientSecret != "" {
		spotify, err := services.NewSpotifyService(creds.Spotify.Map(), services.WithSpotifyHTTPClient(httpClient))
		if err != nil {
			logger.Warn("spotify export disabled", "error", err)
		} else {
			opts.SpotifyAuth = spotify
			opts.Spotify = tasks.NewExporter(
				spotify,
				creds.Spotify.Map(),
				shared.WithLogger(logger, "component", "exporter"),
			)
		}
	}

	return opts
}
