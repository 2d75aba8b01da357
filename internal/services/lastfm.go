// Last.fm API [TrackSource] implementation
//
// Response shapes based on https://www.last.fm/api/show/artist.getTopTracks
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	defaultLastFMBaseURL = "https://ws.audioscrobbler.com/2.0/"

	// lastFMInvalidParameters is returned by Last.fm when the artist cannot be found.
	lastFMInvalidParameters = 6
)

type lastFMArtist struct {
	Name string `json:"name"`
	MBID string `json:"mbid"`
}

// LastFMTrack is a single entry of an artist.gettoptracks response.
type LastFMTrack struct {
	Name   string       `json:"name"`
	URL    string       `json:"url"`
	Artist lastFMArtist `json:"artist"`
}

// lastFMTracks decodes the "track" field, which Last.fm renders as an object when only one track is present.
type lastFMTracks []LastFMTrack

func (t *lastFMTracks) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var single LastFMTrack
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*t = lastFMTracks{single}
		return nil
	}

	var many []LastFMTrack
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = many
	return nil
}

type lastFMTopTracksResponse struct {
	Error     int    `json:"error"`
	Message   string `json:"message"`
	TopTracks *struct {
		Track *lastFMTracks `json:"track"`
	} `json:"toptracks"`
}

// LastFMService implements [TrackSource] using the Last.fm 2.0 API.
type LastFMService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewLastFMService creates a Last.fm client. An empty baseURL uses the public endpoint.
func NewLastFMService(apiKey, baseURL string, client *http.Client) *LastFMService {
	if baseURL == "" {
		baseURL = defaultLastFMBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &LastFMService{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Name returns the service name.
func (l *LastFMService) Name() string {
	return "Last.fm"
}

// TopTracks retrieves an artist's most popular tracks.
//
// Calls GET ?method=artist.gettoptracks with autocorrect enabled, so track artists carry the canonical spelling.
func (l *LastFMService) TopTracks(ctx context.Context, artist string, limit int) ([]models.Track, error) {
	params := url.Values{}
	params.Set("method", "artist.gettoptracks")
	params.Set("artist", artist)
	params.Set("api_key", l.apiKey)
	params.Set("format", "json")
	params.Set("autocorrect", "1")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	var payload lastFMTopTracksResponse
	decodeErr := json.Unmarshal(body, &payload)

	if decodeErr == nil && payload.Error != 0 {
		if payload.Error == lastFMInvalidParameters {
			return nil, fmt.Errorf("%w: %s: %s", shared.ErrArtistNotFound, artist, payload.Message)
		}
		return nil, fmt.Errorf("%w: last.fm error %d: %s", shared.ErrAPIRequest, payload.Error, payload.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: last.fm status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, decodeErr)
	}

	if payload.TopTracks == nil || payload.TopTracks.Track == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrArtistNotFound, artist)
	}

	tracks := make([]models.Track, 0, len(*payload.TopTracks.Track))
	for _, t := range *payload.TopTracks.Track {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}

		artistName := strings.TrimSpace(t.Artist.Name)
		if artistName == "" {
			artistName = artist
		}

		tracks = append(tracks, models.Track{Title: name, Artist: artistName})
		if limit > 0 && len(tracks) == limit {
			break
		}
	}

	return tracks, nil
}
