// package services defines the external collaborators of the playlist service
//
// Gemini (generative text), Last.fm (track metadata), YouTube Music (via proxy) and Spotify
package services

import (
	"context"

	"github.com/desertthunder/mixtape/internal/models"
)

// Generator produces structured text from a prompt.
type Generator interface {
	// Generate returns the raw JSON document produced for the request.
	Generate(ctx context.Context, req GenerationRequest) (string, error)

	Name() string
}

// GenerationRequest describes a single structured-output generation call.
type GenerationRequest struct {
	Prompt      string
	Temperature float32
	Fields      []SchemaField // Fields of the single JSON object the model must return
}

// SchemaField is a string property of the generated JSON object.
type SchemaField struct {
	Name        string
	Description string
	Nullable    bool
}

// TrackSource looks up popular tracks for an artist.
type TrackSource interface {
	// TopTracks returns at most limit tracks, carrying the artist name as spelled by the source.
	// Returns an error wrapping [shared.ErrArtistNotFound] when the artist is unknown.
	TopTracks(ctx context.Context, artist string, limit int) ([]models.Track, error)

	Name() string
}

// Platform is a streaming service that playlists can be exported to.
type Platform interface {
	// Authenticate validates credentials and returns a session bound to them.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) (Session, error)

	// Name returns the name of the service (e.g., "Spotify", "YouTube Music")
	Name() string
}

// Session is an authenticated connection to a [Platform].
type Session interface {
	// SearchTrack searches for a song by title and artist.
	// Returns the best match or an error wrapping [shared.ErrTrackNotFound] if nothing matches.
	SearchTrack(ctx context.Context, title, artist string) (*Track, error)

	// CreatePlaylist creates an empty playlist.
	CreatePlaylist(ctx context.Context, name, description string) (*Playlist, error)

	// AddPlaylistItems adds platform track identifiers to a playlist in one batch.
	AddPlaylistItems(ctx context.Context, playlistID string, trackIDs []string) error

	// PlaylistURL returns a browsable link to the playlist.
	PlaylistURL(playlistID string) string
}

// Playlist represents a music playlist from any service
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
}

// Track represents a music track from any service
type Track struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration int // Duration in seconds
}
