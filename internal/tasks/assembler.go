package tasks

import (
	"context"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/sync/errgroup"
)

const (
	AdvisoryTrackSourceDisabled = "Last.fm API is not configured; tracks cannot be fetched."
	AdvisoryNoTracks            = "No tracks were found for the given artists. Try other names."
)

// ShuffleFunc permutes n elements through swap.
type ShuffleFunc func(n int, swap func(i, j int))

// Assembler merges creative content with collected tracks.
type Assembler struct {
	maxTracks int
	shuffle   ShuffleFunc
}

// NewAssembler creates an assembler capping playlists at maxTracks, itself capped at [models.MaxTracks].
func NewAssembler(maxTracks int) *Assembler {
	if maxTracks <= 0 || maxTracks > models.MaxTracks {
		maxTracks = models.MaxTracks
	}
	return &Assembler{maxTracks: maxTracks, shuffle: rand.Shuffle}
}

// WithShuffle replaces the Fisher–Yates shuffle, for deterministic tests.
func (a *Assembler) WithShuffle(fn ShuffleFunc) *Assembler {
	a.shuffle = fn
	return a
}

// MaxTracks is the cap applied by [Assembler.Assemble].
func (a *Assembler) MaxTracks() int {
	return a.maxTracks
}

// Assemble appends collection advisories to the content, shuffles the tracks and keeps the first MaxTracks.
func (a *Assembler) Assemble(content models.CreativeContent, collection Collection) models.AssembledPlaylist {
	tracks := make([]models.Track, len(collection.Tracks))
	copy(tracks, collection.Tracks)

	a.shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})
	if len(tracks) > a.maxTracks {
		tracks = tracks[:a.maxTracks]
	}

	return models.AssembledPlaylist{
		CreativeContent: content.WithAdvisories(collection.Advisories...),
		Tracks:          tracks,
	}
}

// Status classifies a build outcome for the transport layer.
type Status int

const (
	StatusOK       Status = iota
	StatusDegraded        // track source unconfigured
	StatusNoTracks        // no artist yielded a track
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusNoTracks:
		return "no_tracks"
	default:
		return ""
	}
}

// BuildResult is the outcome of [Builder.Build].
type BuildResult struct {
	Playlist models.AssembledPlaylist
	Status   Status
}

// Builder runs the build pipeline for a single request.
type Builder struct {
	creative  *CreativeGenerator
	collector *Collector
	assembler *Assembler
	logger    *log.Logger
}

// NewBuilder wires the pipeline. A nil collector means the track source is not configured.
func NewBuilder(creative *CreativeGenerator, collector *Collector, assembler *Assembler, logger *log.Logger) *Builder {
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	if creative == nil {
		creative = NewCreativeGenerator(nil, DefaultTemperature, logger)
	}
	if assembler == nil {
		assembler = NewAssembler(models.MaxTracks)
	}
	return &Builder{creative: creative, collector: collector, assembler: assembler, logger: logger}
}

// TracksEnabled reports whether a track source is configured.
func (b *Builder) TracksEnabled() bool {
	return b.collector != nil
}

// CreativeEnabled reports whether a generative backend is configured.
func (b *Builder) CreativeEnabled() bool {
	return b.creative.Enabled()
}

// Build validates req, then generates creative content and collects tracks concurrently.
//
// The only error returned wraps [shared.ErrInvalidInput]; upstream problems are reported through
// advisories and [BuildResult.Status].
func (b *Builder) Build(ctx context.Context, req models.PlaylistRequest) (*BuildResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.Normalize()

	logger := shared.WithLogger(b.logger, "genre", req.Genre, "artists", len(req.Artists))

	var (
		content    models.CreativeContent
		collection Collection
	)

	var g errgroup.Group
	g.Go(func() error {
		content = b.creative.Generate(ctx, req.Genre, req.Artists)
		return nil
	})
	if b.collector != nil {
		g.Go(func() error {
			collection = b.collector.Collect(ctx, req.Artists, b.assembler.MaxTracks())
			return nil
		})
	}
	_ = g.Wait()

	if b.collector == nil {
		logger.Warn("track source not configured")
		return &BuildResult{
			Playlist: models.AssembledPlaylist{
				CreativeContent: content.WithAdvisories(AdvisoryTrackSourceDisabled),
				Tracks:          []models.Track{},
			},
			Status: StatusDegraded,
		}, nil
	}

	if len(collection.Tracks) == 0 {
		logger.Warn("no tracks found")
		collection.Advisories.Add(AdvisoryNoTracks)
		return &BuildResult{Playlist: b.assembler.Assemble(content, collection), Status: StatusNoTracks}, nil
	}

	playlist := b.assembler.Assemble(content, collection)
	logger.Info("playlist assembled", "title", playlist.Title, "tracks", len(playlist.Tracks), "advisories", len(playlist.Advisories))
	return &BuildResult{Playlist: playlist, Status: StatusOK}, nil
}
