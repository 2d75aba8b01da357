package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	tu "github.com/desertthunder/mixtape/internal/testing"
	"github.com/desertthunder/mixtape/internal/testing/fakes"
)

func drain(progress chan ProgressUpdate) []Phase {
	close(progress)
	var phases []Phase
	for update := range progress {
		if len(phases) == 0 || phases[len(phases)-1] != update.Phase {
			phases = append(phases, update.Phase)
		}
	}
	return phases
}

func samePhases(a, b []Phase) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestExporter(t *testing.T) {
	ctx := context.Background()
	logger := tu.DiscardLogger()
	creds := map[string]string{"auth_file": "oauth.json"}
	request := models.ExportRequest{
		Title:       "Mix",
		Description: "desc",
		Tracks: []models.Track{
			{Title: "Creep", Artist: "Radiohead"},
			{Title: "Missing", Artist: "Nobody"},
			{Title: "Glory Box", Artist: "Portishead"},
		},
	}

	t.Run("exports resolved tracks", func(t *testing.T) {
		session := &fakes.Session{Missing: map[string]bool{"Missing": true}}
		platform := &fakes.Platform{Session: session}
		progress := make(chan ProgressUpdate, 32)

		result, err := NewExporter(platform, creds, logger).Export(ctx, request, progress)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if platform.Credentials["auth_file"] != "oauth.json" {
			t.Error("expected configured credentials to be passed to the platform")
		}
		if result.Resolved != 2 || result.Requested != 3 {
			t.Errorf("expected 2/3 resolved, got %d/%d", result.Resolved, result.Requested)
		}
		if result.PlaylistID != "PL1" || result.URL != session.PlaylistURL("PL1") || result.Platform != "fake-platform" {
			t.Errorf("unexpected result %+v", result)
		}
		if len(session.Created) != 1 || session.Created[0].Name != "Mix" {
			t.Errorf("expected one playlist named Mix, got %+v", session.Created)
		}
		want := []string{fakes.TrackID("Creep", "Radiohead"), fakes.TrackID("Glory Box", "Portishead")}
		if session.AddedTo != "PL1" || len(session.AddedItems) != 2 || session.AddedItems[0] != want[0] || session.AddedItems[1] != want[1] {
			t.Errorf("unexpected added items %v to %s", session.AddedItems, session.AddedTo)
		}
		if searches := session.Searches(); len(searches) != 3 || searches[0] != "Radiohead Creep" {
			t.Errorf("unexpected searches %v", searches)
		}

		phases := drain(progress)
		wantPhases := []Phase{Unauthenticated, Authenticated, TracksResolving, PlaylistCreated, ItemsAdded}
		if !samePhases(phases, wantPhases) {
			t.Errorf("phases = %v, want %v", phases, wantPhases)
		}
	})

	t.Run("exports a single resolved track", func(t *testing.T) {
		session := &fakes.Session{Missing: map[string]bool{"Missing": true, "Glory Box": true}}

		result, err := NewExporter(&fakes.Platform{Session: session}, creds, logger).Export(ctx, request, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Resolved != 1 || result.Requested != 3 {
			t.Errorf("expected 1/3 resolved, got %d/%d", result.Resolved, result.Requested)
		}
		if len(session.AddedItems) != 1 || session.AddedItems[0] != fakes.TrackID("Creep", "Radiohead") {
			t.Errorf("expected exactly Creep to be added, got %v", session.AddedItems)
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		session := &fakes.Session{}
		req := models.ExportRequest{Tracks: request.Tracks[:1]}

		if _, err := NewExporter(&fakes.Platform{Session: session}, creds, logger).Export(ctx, req, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.Created[0].Name != "AI Generated Playlist" || session.Created[0].Description != "Created by mixtape" {
			t.Errorf("expected default title and description, got %+v", session.Created[0])
		}
	})

	t.Run("no tracks", func(t *testing.T) {
		platform := &fakes.Platform{Session: &fakes.Session{}}
		_, err := NewExporter(platform, creds, logger).Export(ctx, models.ExportRequest{Title: "x"}, nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if platform.Credentials != nil {
			t.Error("expected no authentication attempt")
		}
	})

	failures := []struct {
		name       string
		platform   *fakes.Platform
		wantErr    error
		lastPhase  Phase
		wantCreate bool
	}{
		{
			name:      "authentication failure",
			platform:  &fakes.Platform{Err: shared.ErrMissingCredentials},
			wantErr:   shared.ErrAuthFailed,
			lastPhase: Unauthenticated,
		},
		{
			name:      "nothing resolvable",
			platform:  &fakes.Platform{Session: &fakes.Session{SearchErr: shared.ErrAPIRequest}},
			wantErr:   shared.ErrNothingResolvable,
			lastPhase: TracksResolving,
		},
		{
			name:      "creation failure",
			platform:  &fakes.Platform{Session: &fakes.Session{CreateErr: errors.New("quota")}},
			wantErr:   shared.ErrPlaylistCreate,
			lastPhase: TracksResolving,
		},
		{
			name:       "add items failure",
			platform:   &fakes.Platform{Session: &fakes.Session{AddErr: errors.New("quota")}},
			wantErr:    shared.ErrPlaylistCreate,
			lastPhase:  PlaylistCreated,
			wantCreate: true,
		},
	}

	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			progress := make(chan ProgressUpdate, 32)
			result, err := NewExporter(tc.platform, creds, logger).Export(ctx, request, progress)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if result != nil {
				t.Errorf("expected nil result, got %+v", result)
			}

			phases := drain(progress)
			if len(phases) < 2 || phases[len(phases)-1] != Failed || phases[len(phases)-2] != tc.lastPhase {
				t.Errorf("expected %s then failed, got %v", tc.lastPhase, phases)
			}

			if session := tc.platform.Session; session != nil && (len(session.Created) > 0) != tc.wantCreate {
				t.Errorf("unexpected playlist creation: %+v", session.Created)
			}
		})
	}

	t.Run("authentication error keeps cause", func(t *testing.T) {
		_, err := NewExporter(&fakes.Platform{Err: shared.ErrMissingCredentials}, creds, logger).Export(ctx, request, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected wrapped cause, got %v", err)
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		if _, err := NewExporter(&fakes.Platform{Session: &fakes.Session{}}, creds, logger).Export(ctx, request, progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPhase(t *testing.T) {
	tests := []struct {
		phase    Phase
		name     string
		terminal bool
	}{
		{Unauthenticated, "unauthenticated", false},
		{Authenticated, "authenticated", false},
		{TracksResolving, "tracks_resolving", false},
		{PlaylistCreated, "playlist_created", false},
		{ItemsAdded, "items_added", true},
		{Failed, "failed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.phase.String() != tt.name {
				t.Errorf("String() = %s, want %s", tt.phase.String(), tt.name)
			}
			if tt.phase.Terminal() != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", tt.phase.Terminal(), tt.terminal)
			}
		})
	}
}
