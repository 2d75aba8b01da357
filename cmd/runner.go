package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	builder     *tasks.Builder
	youtube     *tasks.Exporter
	spotify     *tasks.Exporter
	spotifyAuth *services.SpotifyService
	api         *services.APIService
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Nil exporters and a nil SpotifyAuth belong to unconfigured backends.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Builder     *tasks.Builder
	YouTube     *tasks.Exporter
	Spotify     *tasks.Exporter
	SpotifyAuth *services.SpotifyService
	API         *services.APIService
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.Credentials.YouTube.ProxyURL, opts.HTTPClient)
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		builder:     opts.Builder,
		youtube:     opts.YouTube,
		spotify:     opts.Spotify,
		spotifyAuth: opts.SpotifyAuth,
		api:         opts.API,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, buildCommand, exportCommand, tuiCommand, setupCommand, spotifyCommand, statusCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// exporter returns the exporter registered for a platform flag value.
func (r *Runner) exporter(platform string) (*tasks.Exporter, error) {
	var exporter *tasks.Exporter
	switch platform {
	case "youtube", "ytmusic", "":
		exporter = r.youtube
	case "spotify":
		exporter = r.spotify
	default:
		return nil, fmt.Errorf("%w: unknown platform %q (want youtube or spotify)", shared.ErrInvalidArgument, platform)
	}

	if exporter == nil {
		return nil, fmt.Errorf("%w: %s export is not configured", shared.ErrNotConfigured, platform)
	}
	return exporter, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
