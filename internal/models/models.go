// package models defines the data model for the playlist service
package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/mixtape/internal/shared"
)

// MaxTracks is the upper bound on the number of tracks in an assembled playlist.
const MaxTracks = 15

const (
	defaultExportTitle       = "AI Generated Playlist"
	defaultExportDescription = "Created by mixtape"
)

// PlaylistRequest is the body of a build-playlist request.
type PlaylistRequest struct {
	Genre   string   `json:"genero"`
	Artists []string `json:"artistas"`
}

// Validate checks that the genre is non-empty and that at least one non-empty artist was given.
func (r PlaylistRequest) Validate() error {
	if strings.TrimSpace(r.Genre) == "" {
		return fmt.Errorf("%w: field \"genero\" is required and must be a non-empty string", shared.ErrInvalidInput)
	}
	if len(r.Artists) == 0 {
		return fmt.Errorf("%w: field \"artistas\" is required and must list at least one artist", shared.ErrInvalidInput)
	}
	for i, a := range r.Artists {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("%w: artist at position %d is empty", shared.ErrInvalidInput, i)
		}
	}
	return nil
}

// Normalize returns a copy with surrounding whitespace removed from every field.
func (r PlaylistRequest) Normalize() PlaylistRequest {
	artists := make([]string, len(r.Artists))
	for i, a := range r.Artists {
		artists[i] = strings.TrimSpace(a)
	}
	return PlaylistRequest{Genre: strings.TrimSpace(r.Genre), Artists: artists}
}

// Track is a song identified by its title and artist.
type Track struct {
	Title  string `json:"titulo_musica"`
	Artist string `json:"artista_musica"`
}

// Valid reports whether both title and artist are present.
func (t Track) Valid() bool {
	return strings.TrimSpace(t.Title) != "" && strings.TrimSpace(t.Artist) != ""
}

// Advisories accumulates user-facing notes about degraded or partial results.
type Advisories []string

// Add appends non-empty reasons.
func (a *Advisories) Add(reasons ...string) {
	for _, r := range reasons {
		if r = strings.TrimSpace(r); r != "" {
			*a = append(*a, r)
		}
	}
}

// String joins all reasons into a single sentence-separated note.
func (a Advisories) String() string {
	return strings.Join(a, " ")
}

// Ptr returns the joined advisory, or nil when there is nothing to report.
func (a Advisories) Ptr() *string {
	if len(a) == 0 {
		return nil
	}
	s := a.String()
	return &s
}

// CreativeContent is the generated title/description pair with an optional advisory.
type CreativeContent struct {
	Title       string     `json:"titulo_playlist"`
	Description string     `json:"descricao_playlist"`
	Advisories  Advisories `json:"-"`
}

type creativeContentJSON struct {
	Title       string  `json:"titulo_playlist"`
	Description string  `json:"descricao_playlist"`
	Advisory    *string `json:"aviso_conteudo"`
}

// MarshalJSON renders advisories as a single nullable aviso_conteudo field.
func (c CreativeContent) MarshalJSON() ([]byte, error) {
	return json.Marshal(creativeContentJSON{
		Title:       c.Title,
		Description: c.Description,
		Advisory:    c.Advisories.Ptr(),
	})
}

// UnmarshalJSON reads the nullable aviso_conteudo field into advisories.
func (c *CreativeContent) UnmarshalJSON(data []byte) error {
	var raw creativeContentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Title = raw.Title
	c.Description = raw.Description
	c.Advisories = nil
	if raw.Advisory != nil {
		c.Advisories.Add(*raw.Advisory)
	}
	return nil
}

// WithAdvisories returns a copy of the content with extra reasons appended.
func (c CreativeContent) WithAdvisories(reasons ...string) CreativeContent {
	out := c
	out.Advisories = append(Advisories(nil), c.Advisories...)
	out.Advisories.Add(reasons...)
	return out
}

// AssembledPlaylist is the response payload of a build request.
type AssembledPlaylist struct {
	CreativeContent
	Tracks []Track `json:"musicas"`
}

type assembledPlaylistJSON struct {
	creativeContentJSON
	Tracks []Track `json:"musicas"`
}

// MarshalJSON flattens creative content and tracks into one object. Tracks always encode as an array.
func (p AssembledPlaylist) MarshalJSON() ([]byte, error) {
	tracks := p.Tracks
	if tracks == nil {
		tracks = []Track{}
	}
	return json.Marshal(assembledPlaylistJSON{
		creativeContentJSON: creativeContentJSON{
			Title:       p.Title,
			Description: p.Description,
			Advisory:    p.Advisories.Ptr(),
		},
		Tracks: tracks,
	})
}

// UnmarshalJSON reads a previously rendered playlist, e.g. one saved by the CLI.
func (p *AssembledPlaylist) UnmarshalJSON(data []byte) error {
	var raw assembledPlaylistJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Title = raw.Title
	p.Description = raw.Description
	p.Advisories = nil
	if raw.Advisory != nil {
		p.Advisories.Add(*raw.Advisory)
	}
	p.Tracks = raw.Tracks
	return nil
}

// ExportRequest is the body of an export request.
type ExportRequest struct {
	Title       string  `json:"titulo_playlist"`
	Description string  `json:"descricao_playlist"`
	Tracks      []Track `json:"musicas"`
}

// Defaults fills a missing title or description.
func (r ExportRequest) Defaults() ExportRequest {
	if strings.TrimSpace(r.Title) == "" {
		r.Title = defaultExportTitle
	}
	if strings.TrimSpace(r.Description) == "" {
		r.Description = defaultExportDescription
	}
	return r
}

// Validate requires at least one track.
func (r ExportRequest) Validate() error {
	if len(r.Tracks) == 0 {
		return fmt.Errorf("%w: no tracks supplied", shared.ErrInvalidInput)
	}
	return nil
}

// ExportRequestFrom converts an assembled playlist into an export request.
func ExportRequestFrom(p AssembledPlaylist) ExportRequest {
	return ExportRequest{Title: p.Title, Description: p.Description, Tracks: p.Tracks}
}

// ExportResult describes a playlist created on an external platform.
type ExportResult struct {
	PlaylistID string `json:"playlist_id"`
	URL        string `json:"playlist_url"`
	Platform   string `json:"platform"`
	Resolved   int    `json:"resolved"`
	Requested  int    `json:"requested"`
}

// ExportResponse is the HTTP response body of a successful export.
type ExportResponse struct {
	Message     string `json:"message"`
	PlaylistURL string `json:"playlist_url"`
}

// ErrorResponse is the HTTP response body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
