package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for building and exporting a playlist.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.builder == nil {
		return fmt.Errorf("%w: playlist builder", shared.ErrNotConfigured)
	}

	req := models.PlaylistRequest{Genre: cmd.String("genre"), Artists: cmd.StringSlice("artist")}
	if err := req.Validate(); err != nil {
		return err
	}

	// Logs would interfere with TUI rendering
	logPath := cmd.String("log-file")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	restore := shared.RedirectLogs(logFile)
	defer restore()

	var exporters []ui.Exporter
	if r.youtube != nil {
		exporters = append(exporters, r.youtube)
	}
	if r.spotify != nil {
		exporters = append(exporters, r.spotify)
	}

	model := ui.NewModel(ctx, r.builder, req, exporters...)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if result := model.Result(); result != nil {
		return r.writePlain("%s\n", formatter.ExportSummary(result))
	}
	return nil
}
