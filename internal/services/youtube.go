// YouTube Music API [Platform] implementation
//
// Communicates with the FastAPI proxy server running on port 8080.
// The proxy wraps ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	defaultYTBaseURL      string = "http://localhost:8080"
	youtubeMusicPlaylistURL      = "https://music.youtube.com/playlist?list="
)

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type youtubeAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeSearchResult is a single song returned by the proxy search endpoint.
type YouTubeSearchResult struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	ResultType  string          `json:"resultType"`
	Artists     []YouTubeArtist `json:"artists"`
	Album       *youtubeAlbum   `json:"album"`
	DurationSec int             `json:"duration_seconds"`
}

// YouTubeService implements the [Platform] interface for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate checks that the ytmusicapi auth file exists and binds it to a new session.
//
// Expects credentials["auth_file"] to contain the path to browser.json or oauth.json.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) (Session, error) {
	authFile := credentials["auth_file"]
	if authFile == "" {
		return nil, fmt.Errorf("%w: missing auth_file", shared.ErrMissingCredentials)
	}

	if _, err := os.Stat(authFile); err != nil {
		return nil, fmt.Errorf("%w: auth file unavailable: %v", shared.ErrInvalidCredentials, err)
	}

	return &youtubeSession{service: y, authFile: authFile}, nil
}

type youtubeSession struct {
	service  *YouTubeService
	authFile string
}

func (s *youtubeSession) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	apiURL := s.service.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Auth-File", s.authFile)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.service.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: youtube music (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: youtube music status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchTrack searches for a song by artist and title, returning the single best match.
//
// Calls GET /api/search?q={artist} {title}&filter=songs&limit=1 on the proxy.
func (s *youtubeSession) SearchTrack(ctx context.Context, title, artist string) (*Track, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s %s", artist, title))
	params.Set("filter", "songs")
	params.Set("limit", "1")

	var results []YouTubeSearchResult
	if err := s.doRequest(ctx, http.MethodGet, "/api/search?"+params.Encode(), nil, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 || results[0].VideoID == "" {
		return nil, fmt.Errorf("%w: '%s' by '%s'", shared.ErrTrackNotFound, title, artist)
	}

	result := results[0]
	track := &Track{
		ID:       result.VideoID,
		Title:    result.Title,
		Duration: result.DurationSec,
	}

	if len(result.Artists) > 0 {
		track.Artist = result.Artists[0].Name
	}

	if result.Album != nil {
		track.Album = result.Album.Name
	}

	return track, nil
}

// CreatePlaylist creates a private playlist via POST /api/playlists.
func (s *youtubeSession) CreatePlaylist(ctx context.Context, name, description string) (*Playlist, error) {
	createReq := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         name,
		Description:   description,
		PrivacyStatus: "PRIVATE",
	}

	var createResp struct {
		PlaylistID string `json:"playlist_id"`
	}
	if err := s.doRequest(ctx, http.MethodPost, "/api/playlists", createReq, &createResp); err != nil {
		return nil, err
	}

	if createResp.PlaylistID == "" {
		return nil, fmt.Errorf("%w: proxy returned no playlist id", shared.ErrAPIRequest)
	}

	return &Playlist{
		ID:          createResp.PlaylistID,
		Name:        name,
		Description: description,
	}, nil
}

// AddPlaylistItems adds videos to a playlist via POST /api/playlists/{id}/items.
func (s *youtubeSession) AddPlaylistItems(ctx context.Context, playlistID string, videoIDs []string) error {
	addReq := struct {
		VideoIDs []string `json:"video_ids"`
	}{
		VideoIDs: videoIDs,
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", url.PathEscape(playlistID))
	return s.doRequest(ctx, http.MethodPost, endpoint, addReq, nil)
}

// PlaylistURL returns the music.youtube.com link for a playlist.
func (s *youtubeSession) PlaylistURL(playlistID string) string {
	return youtubeMusicPlaylistURL + url.QueryEscape(playlistID)
}
