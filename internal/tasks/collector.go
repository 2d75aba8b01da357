package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds simultaneous artist lookups when none is configured.
const DefaultConcurrency = 4

// Collection is the accumulator threaded through track collection.
type Collection struct {
	Tracks     []models.Track
	Advisories models.Advisories
}

// Quota returns the per-artist lookup limit for n artists: total/n + 1.
func Quota(total, n int) int {
	if n <= 0 {
		return 0
	}
	return total/n + 1
}

// ArtistNotFoundAdvisory is recorded when the track source does not know an artist.
func ArtistNotFoundAdvisory(artist string) string {
	return fmt.Sprintf("artist '%s' was not found.", artist)
}

// ArtistFailedAdvisory is recorded for any other lookup failure.
func ArtistFailedAdvisory(artist string) string {
	return fmt.Sprintf("tracks for artist '%s' could not be fetched.", artist)
}

// Collector fetches top tracks for a list of artists.
type Collector struct {
	source      services.TrackSource
	concurrency int
	logger      *log.Logger
}

// NewCollector creates a collector over source running at most concurrency lookups at once.
func NewCollector(source services.TrackSource, concurrency int, logger *log.Logger) *Collector {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	return &Collector{source: source, concurrency: concurrency, logger: logger}
}

type artistResult struct {
	tracks []models.Track
	err    error
}

// Collect looks up every artist and folds the outcomes, in request order, into a [Collection].
//
// No lookup failure is fatal: the artist is skipped and an advisory is recorded.
func (c *Collector) Collect(ctx context.Context, artists []string, totalDesired int) Collection {
	collection := Collection{Tracks: []models.Track{}}
	if len(artists) == 0 {
		return collection
	}

	quota := Quota(totalDesired, len(artists))
	results := make([]artistResult, len(artists))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, artist := range artists {
		g.Go(func() error {
			tracks, err := c.source.TopTracks(ctx, artist, quota)
			results[i] = artistResult{tracks: tracks, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, artist := range artists {
		collection.add(artist, results[i], c.logger)
	}

	c.logger.Info("tracks collected",
		"source", c.source.Name(), "artists", len(artists), "quota", quota,
		"tracks", len(collection.Tracks), "skipped", len(collection.Advisories))
	return collection
}

func (c *Collection) add(artist string, result artistResult, logger *log.Logger) {
	switch {
	case errors.Is(result.err, shared.ErrArtistNotFound):
		logger.Warn("artist not found", "artist", artist)
		c.Advisories.Add(ArtistNotFoundAdvisory(artist))
		return
	case result.err != nil:
		logger.Warn("artist lookup failed", "artist", artist, "error", result.err)
		c.Advisories.Add(ArtistFailedAdvisory(artist))
		return
	}

	for _, track := range result.tracks {
		if track.Valid() {
			c.Tracks = append(c.Tracks, track)
		}
	}
}
