// Spotify Web API implementation of [Platform]
//
// Requests go through github.com/zmb3/spotify/v2 over an [oauth2] client built from stored tokens.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL         = "https://accounts.spotify.com/authorize"
	spotifyTokenURL        = "https://accounts.spotify.com/api/token"
	spotifyPlaylistBaseURL = "https://open.spotify.com/playlist/"
	defaultRedirectURI     = "http://127.0.0.1:5000/callback"
)

var spotifyScopes = []string{
	"user-read-private",
	"playlist-modify-private",
	"playlist-modify-public",
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithSpotifyAPIURL overrides the Web API base URL. The URL must end with a slash.
func WithSpotifyAPIURL(apiURL string) SpotifyOption {
	return func(s *SpotifyService) { s.apiURL = apiURL }
}

// WithSpotifyEndpoint overrides the OAuth2 authorize and token endpoints.
func WithSpotifyEndpoint(endpoint oauth2.Endpoint) SpotifyOption {
	return func(s *SpotifyService) { s.config.Endpoint = endpoint }
}

// WithSpotifyHTTPClient sets the base client used for token refreshes and API calls.
func WithSpotifyHTTPClient(client *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.httpClient = client }
}

// SpotifyService implements the [Platform] interface for the Spotify Web API.
type SpotifyService struct {
	config     *oauth2.Config
	apiURL     string
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 client credentials.
func NewSpotifyService(credentials map[string]string, opts ...SpotifyOption) (*SpotifyService, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       spotifyScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 configuration for the callback handler.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// Exchange trades an authorization code for a token.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	if s.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// Authenticate builds a client from the stored tokens and verifies it against the current user profile.
//
// Expects "access_token" and/or "refresh_token" in credentials, plus an optional RFC 3339 "token_expiry".
// An expired access token is refreshed transparently when a refresh token is present. Without a stored
// expiry the access token is assumed stale and refreshed.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) (Session, error) {
	token := &oauth2.Token{
		AccessToken:  credentials["access_token"],
		RefreshToken: credentials["refresh_token"],
		TokenType:    "Bearer",
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: missing access_token or refresh_token", shared.ErrMissingCredentials)
	}

	expiry, err := tokenExpiry(credentials["token_expiry"], token.RefreshToken != "")
	if err != nil {
		return nil, err
	}
	token.Expiry = expiry

	httpClient := s.config.Client(s.oauthContext(ctx), token)

	var opts []spotify.ClientOption
	if s.apiURL != "" {
		opts = append(opts, spotify.WithBaseURL(s.apiURL))
	}
	client := spotify.New(httpClient, opts...)

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return &spotifySession{client: client, userID: user.ID}, nil
}

// tokenExpiry parses a stored expiry. A zero expiry never expires in oauth2, so an unknown expiry
// becomes one in the past whenever a refresh is possible.
func tokenExpiry(raw string, refreshable bool) (time.Time, error) {
	if raw == "" {
		if refreshable {
			return time.Unix(0, 0), nil
		}
		return time.Time{}, nil
	}

	expiry, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: token_expiry: %v", shared.ErrInvalidCredentials, err)
	}
	return expiry, nil
}

type spotifySession struct {
	client *spotify.Client
	userID string
}

// SearchTrack returns the first track matching "{artist} {title}".
func (s *spotifySession) SearchTrack(ctx context.Context, title, artist string) (*Track, error) {
	query := strings.TrimSpace(fmt.Sprintf("%s %s", artist, title))

	result, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("%w: spotify search: %v", shared.ErrAPIRequest, err)
	}

	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return nil, fmt.Errorf("%w: '%s' by '%s'", shared.ErrTrackNotFound, title, artist)
	}

	found := result.Tracks.Tracks[0]
	track := &Track{
		ID:       found.ID.String(),
		Title:    found.Name,
		Album:    found.Album.Name,
		Duration: int(found.Duration) / 1000,
	}
	if len(found.Artists) > 0 {
		track.Artist = found.Artists[0].Name
	}
	return track, nil
}

// CreatePlaylist creates a private playlist owned by the authenticated user.
func (s *spotifySession) CreatePlaylist(ctx context.Context, name, description string) (*Playlist, error) {
	created, err := s.client.CreatePlaylistForUser(ctx, s.userID, name, description, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: spotify create playlist: %v", shared.ErrAPIRequest, err)
	}

	return &Playlist{
		ID:          created.ID.String(),
		Name:        name,
		Description: description,
		Public:      created.IsPublic,
	}, nil
}

// AddPlaylistItems adds tracks to a playlist in a single request.
func (s *spotifySession) AddPlaylistItems(ctx context.Context, playlistID string, trackIDs []string) error {
	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), ids...); err != nil {
		return fmt.Errorf("%w: spotify add tracks: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

func (s *spotifySession) PlaylistURL(playlistID string) string {
	return spotifyPlaylistBaseURL + playlistID
}
