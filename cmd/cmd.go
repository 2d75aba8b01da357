// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/urfave/cli/v3"
)

// serveCommand starts the HTTP service
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the playlist HTTP server",
		Action: r.Serve,
	}
}

// buildCommand runs the build pipeline locally
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build a playlist for a genre and a list of artists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "genre",
				Aliases:  []string{"g"},
				Usage:    "Musical genre of the playlist",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "Artist to draw tracks from (repeatable)",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (" + strings.Join(formatter.Formats, ", ") + ")",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the playlist to a file instead of stdout",
			},
		},
		Action: r.Build,
	}
}

// exportCommand exports a saved playlist
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Create a playlist on YouTube Music or Spotify from a saved playlist JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"i"},
				Usage:    "Playlist JSON produced by 'mixtape build --json'",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Usage:   "Destination platform (youtube, spotify)",
				Value:   "youtube",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the export result as JSON",
			},
		},
		Action: r.Export,
	}
}

// setupCommand handles first-run configuration
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Configuration helpers",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configPath,
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "youtube",
				Usage: "Create the YouTube Music proxy auth file from browser request headers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from the browser's network tab",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "File containing the copied cURL command",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Auth file path (defaults to credentials.youtube.auth_file)",
					},
				},
				Action: r.SetupYouTube,
			},
		},
	}
}

// spotifyCommand handles Spotify authorization
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify operations",
		Commands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "Authenticate with Spotify using OAuth2 and store the tokens",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configPath,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser authorization",
						Value: defaultAuthTimeout,
					},
				},
				Action: r.SpotifyAuth,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Build a playlist and export it interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "genre",
				Aliases:  []string{"g"},
				Usage:    "Musical genre of the playlist",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "Artist to draw tracks from (repeatable)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI is running",
				Value: "./tmp/mixtape-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// statusCommand reports backend configuration and proxy health
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show which backends are configured and whether the YouTube Music proxy is reachable",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}
