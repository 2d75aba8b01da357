package tasks

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Exporter creates playlists on an external [services.Platform].
type Exporter struct {
	platform    services.Platform
	credentials map[string]string
	logger      *log.Logger
}

// NewExporter creates an exporter. Credentials are checked on every export, not here.
func NewExporter(platform services.Platform, credentials map[string]string, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	return &Exporter{
		platform:    platform,
		credentials: credentials,
		logger:      shared.WithLogger(logger, "platform", platform.Name()),
	}
}

// Platform returns the name of the target platform.
func (e *Exporter) Platform() string {
	return e.platform.Name()
}

// Export authenticates, resolves each track, creates the playlist and adds the resolved tracks in one batch.
//
// Unresolvable tracks are dropped. Errors wrap [shared.ErrInvalidInput], [shared.ErrAuthFailed],
// [shared.ErrNothingResolvable] or [shared.ErrPlaylistCreate].
func (e *Exporter) Export(ctx context.Context, req models.ExportRequest, progress chan<- ProgressUpdate) (*models.ExportResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.Defaults()

	phase := Unauthenticated
	fail := func(err error) (*models.ExportResult, error) {
		e.logger.Error("export failed", "phase", phase, "error", err)
		sendProgress(progress, failedUpdate(phase, err))
		return nil, err
	}

	sendProgress(progress, authenticatingUpdate(e.platform.Name()))
	session, err := e.platform.Authenticate(ctx, e.credentials)
	if err != nil {
		return fail(fmt.Errorf("%w: %s: %w", shared.ErrAuthFailed, e.platform.Name(), err))
	}
	phase = Authenticated
	e.logger.Debug("authenticated")
	sendProgress(progress, authenticatedUpdate(e.platform.Name()))

	phase = TracksResolving
	ids := e.resolve(ctx, session, req.Tracks, progress)
	if len(ids) == 0 {
		return fail(fmt.Errorf("%w: 0 of %d tracks found", shared.ErrNothingResolvable, len(req.Tracks)))
	}

	playlist, err := session.CreatePlaylist(ctx, req.Title, req.Description)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", shared.ErrPlaylistCreate, err))
	}
	phase = PlaylistCreated
	e.logger.Info("playlist created", "id", playlist.ID, "title", req.Title)
	sendProgress(progress, playlistCreatedUpdate(playlist, len(ids)))

	if err := session.AddPlaylistItems(ctx, playlist.ID, ids); err != nil {
		return fail(fmt.Errorf("%w: adding items to %s: %w", shared.ErrPlaylistCreate, playlist.ID, err))
	}
	phase = ItemsAdded

	result := &models.ExportResult{
		PlaylistID: playlist.ID,
		URL:        session.PlaylistURL(playlist.ID),
		Platform:   e.platform.Name(),
		Resolved:   len(ids),
		Requested:  len(req.Tracks),
	}
	e.logger.Info("playlist exported", "id", result.PlaylistID, "resolved", result.Resolved, "requested", result.Requested)
	sendProgress(progress, itemsAddedUpdate(result))
	return result, nil
}

// resolve maps tracks to platform identifiers, in order, dropping the ones that cannot be found.
func (e *Exporter) resolve(ctx context.Context, session services.Session, tracks []models.Track, progress chan<- ProgressUpdate) []string {
	total := len(tracks)
	ids := make([]string, 0, total)

	for i, track := range tracks {
		step := i + 1
		if !track.Valid() {
			e.logger.Warn("skipping incomplete track", "title", track.Title, "artist", track.Artist)
			continue
		}

		sendProgress(progress, resolvingUpdate(step, total, track))
		found, err := session.SearchTrack(ctx, track.Title, track.Artist)
		if err != nil {
			e.logger.Warn("track not resolved", "title", track.Title, "artist", track.Artist, "error", err)
			sendProgress(progress, unresolvedUpdate(step, total, track, err))
			continue
		}
		ids = append(ids, found.ID)
	}
	return ids
}
