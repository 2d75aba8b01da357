package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

// StatusReport describes which backends are usable.
type StatusReport struct {
	Creative          bool   `json:"creative"`
	Tracks            bool   `json:"tracks"`
	YouTubeAuthFile   string `json:"youtube_auth_file"`
	YouTubeAuthExists bool   `json:"youtube_auth_exists"`
	Proxy             string `json:"proxy"`
	ProxyHealthy      bool   `json:"proxy_healthy"`
	ProxyError        string `json:"proxy_error,omitempty"`
	Spotify           bool   `json:"spotify"`
	SpotifyAuthorized bool   `json:"spotify_authorized"`
}

func (r *Runner) status(ctx context.Context) StatusReport {
	creds := r.config.Credentials
	report := StatusReport{
		YouTubeAuthFile:   creds.YouTube.AuthFile,
		Proxy:             creds.YouTube.ProxyURL,
		Spotify:           r.spotify != nil,
		SpotifyAuthorized: creds.Spotify.AccessToken != "" || creds.Spotify.RefreshToken != "",
	}
	if r.builder != nil {
		report.Creative = r.builder.CreativeEnabled()
		report.Tracks = r.builder.TracksEnabled()
	}
	if report.YouTubeAuthFile != "" {
		_, err := os.Stat(report.YouTubeAuthFile)
		report.YouTubeAuthExists = err == nil
	}

	if _, err := r.api.Health(ctx); err != nil {
		r.logger.Debug("proxy health check failed", "error", err)
		report.ProxyError = err.Error()
	} else {
		report.ProxyHealthy = true
	}
	return report
}

// Status reports backend configuration and YouTube Music proxy health.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	report := r.status(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	mark := func(ok bool) string {
		if ok {
			return "✓"
		}
		return "✗"
	}

	r.writePlainHeader("mixtape status")
	r.writePlain("%s Creative generation (Gemini)\n", mark(report.Creative))
	r.writePlain("%s Track source (Last.fm)\n", mark(report.Tracks))
	r.writePlain("%s YouTube Music proxy at %s\n", mark(report.ProxyHealthy), report.Proxy)
	if report.ProxyError != "" {
		r.writePlain("   %s\n", report.ProxyError)
	}
	r.writePlain("%s YouTube Music auth file %s\n", mark(report.YouTubeAuthExists), report.YouTubeAuthFile)
	r.writePlain("%s Spotify client credentials\n", mark(report.Spotify))
	return r.writePlain("%s Spotify tokens\n", mark(report.SpotifyAuthorized))
}
