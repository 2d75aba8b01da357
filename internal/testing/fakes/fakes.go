// package fakes provides in-memory implementations of the service interfaces
package fakes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Generator is a [services.Generator] that returns a canned response.
type Generator struct {
	Response string
	Err      error

	mu       sync.Mutex
	requests []services.GenerationRequest
}

func (g *Generator) Generate(ctx context.Context, req services.GenerationRequest) (string, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()

	if g.Err != nil {
		return "", g.Err
	}
	return g.Response, nil
}

func (g *Generator) Name() string { return "fake-generator" }

// Requests returns every request received so far.
func (g *Generator) Requests() []services.GenerationRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]services.GenerationRequest(nil), g.requests...)
}

// TrackSource is a [services.TrackSource] backed by a map keyed by artist name.
//
// Artists missing from both maps are reported as not found.
type TrackSource struct {
	Tracks map[string][]models.Track
	Errs   map[string]error

	mu     sync.Mutex
	limits map[string]int
}

func (s *TrackSource) TopTracks(ctx context.Context, artist string, limit int) ([]models.Track, error) {
	s.mu.Lock()
	if s.limits == nil {
		s.limits = make(map[string]int)
	}
	s.limits[artist] = limit
	s.mu.Unlock()

	if err, ok := s.Errs[artist]; ok {
		return nil, err
	}

	tracks, ok := s.Tracks[artist]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrArtistNotFound, artist)
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return append([]models.Track(nil), tracks...), nil
}

func (s *TrackSource) Name() string { return "fake-tracks" }

// Limit returns the limit requested for artist and whether it was looked up at all.
func (s *TrackSource) Limit(artist string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit, ok := s.limits[artist]
	return limit, ok
}

// Calls returns how many distinct artists were looked up.
func (s *TrackSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limits)
}

// Platform is a [services.Platform] handing out a fixed [Session].
type Platform struct {
	Session *Session
	Err     error

	Credentials map[string]string
}

func (p *Platform) Authenticate(ctx context.Context, credentials map[string]string) (services.Session, error) {
	p.Credentials = credentials
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Session, nil
}

func (p *Platform) Name() string { return "fake-platform" }

// Session is a [services.Session] that resolves every track except the ones listed in Missing.
type Session struct {
	Missing   map[string]bool // keyed by title
	SearchErr error
	CreateErr error
	AddErr    error

	mu         sync.Mutex
	searches   []string
	Created    []services.Playlist
	AddedTo    string
	AddedItems []string
}

// TrackID is the identifier the fake assigns to a resolved track.
func TrackID(title, artist string) string {
	return strings.ToLower(strings.ReplaceAll(artist+"-"+title, " ", "_"))
}

func (s *Session) SearchTrack(ctx context.Context, title, artist string) (*services.Track, error) {
	s.mu.Lock()
	s.searches = append(s.searches, artist+" "+title)
	s.mu.Unlock()

	if s.SearchErr != nil {
		return nil, s.SearchErr
	}
	if s.Missing[title] {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, title)
	}
	return &services.Track{ID: TrackID(title, artist), Title: title, Artist: artist}, nil
}

func (s *Session) CreatePlaylist(ctx context.Context, name, description string) (*services.Playlist, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	playlist := services.Playlist{ID: fmt.Sprintf("PL%d", len(s.Created)+1), Name: name, Description: description}
	s.Created = append(s.Created, playlist)
	return &playlist, nil
}

func (s *Session) AddPlaylistItems(ctx context.Context, playlistID string, trackIDs []string) error {
	if s.AddErr != nil {
		return s.AddErr
	}
	s.AddedTo = playlistID
	s.AddedItems = append(s.AddedItems, trackIDs...)
	return nil
}

func (s *Session) PlaylistURL(playlistID string) string {
	return "https://music.example.com/playlist?list=" + playlistID
}

// Searches returns the queries issued so far, formatted as "{artist} {title}".
func (s *Session) Searches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.searches...)
}
