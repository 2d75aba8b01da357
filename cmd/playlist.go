package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/server"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP server until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.builder == nil {
		return fmt.Errorf("%w: playlist builder", shared.ErrNotConfigured)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(r.config.Server, server.Deps{
		Builder: r.builder,
		YouTube: r.youtube,
		Spotify: r.spotify,
	}, shared.WithLogger(r.logger, "component", "server"))

	r.logger.Info("starting server",
		"addr", srv.Addr(),
		"creative", r.builder.CreativeEnabled(),
		"tracks", r.builder.TracksEnabled(),
		"spotify", r.spotify != nil,
	)
	return srv.ListenAndServe(ctx)
}

// Build assembles a playlist for the given genre and artists and prints or saves it.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	if r.builder == nil {
		return fmt.Errorf("%w: playlist builder", shared.ErrNotConfigured)
	}

	req := models.PlaylistRequest{
		Genre:   cmd.String("genre"),
		Artists: cmd.StringSlice("artist"),
	}

	result, err := r.builder.Build(ctx, req)
	if err != nil {
		return err
	}

	playlist := result.Playlist
	switch result.Status {
	case tasks.StatusDegraded:
		r.logger.Warn("track source is not configured, playlist has no tracks")
	case tasks.StatusNoTracks:
		r.logger.Warn("no tracks found for the given artists")
	}

	format := cmd.String("format")
	if output := cmd.String("output"); output != "" {
		if format == "" {
			format = formatter.FormatFromPath(output)
		}
		if err := formatter.WriteFile(playlist, format, output); err != nil {
			return err
		}
		r.logger.Info("playlist saved", "path", output, "format", format, "tracks", len(playlist.Tracks))
		return r.writePlain("✓ Playlist saved to %s (%d tracks)\n", output, len(playlist.Tracks))
	}

	if cmd.Bool("json") || format == formatter.FormatJSON {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	if format != "" {
		data, err := formatter.Render(playlist, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	return r.writePlain("%s\n", formatter.Pretty(playlist))
}

// Export creates a playlist on the selected platform from a saved playlist file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")

	exporter, err := r.exporter(cmd.String("platform"))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read playlist file: %w", err)
	}

	var playlist models.AssembledPlaylist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return fmt.Errorf("%w: %s is not a playlist JSON file: %v", shared.ErrInvalidInput, path, err)
	}

	r.logger.Info("exporting playlist", "file", path, "platform", exporter.Platform(), "tracks", len(playlist.Tracks))
	r.writePlain("Exporting %q to %s...\n\n", playlist.Title, exporter.Platform())

	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.TracksResolving:
				r.writePlain("   %s\n", update.Message)
			default:
				r.writePlain("→ %s\n", update.Message)
			}
		}
	}()

	result, err := exporter.Export(ctx, models.ExportRequestFrom(playlist), progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("\n")
	return r.writePlain("%s\n", formatter.DefaultPalette.Export(result))
}
