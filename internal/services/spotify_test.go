package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/oauth2"
)

var spotifyTestCreds = map[string]string{
	"client_id":     "test_client_id",
	"client_secret": "test_client_secret",
}

func newSpotifyTestServer(t *testing.T, mux *http.ServeMux) (*SpotifyService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	svc, err := NewSpotifyService(spotifyTestCreds,
		WithSpotifyAPIURL(server.URL+"/v1/"),
		WithSpotifyEndpoint(oauth2.Endpoint{AuthURL: server.URL + "/authorize", TokenURL: server.URL + "/api/token"}),
		WithSpotifyHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc, server
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		tests := []struct {
			name        string
			credentials map[string]string
			wantErr     bool
		}{
			{name: "valid credentials", credentials: spotifyTestCreds},
			{name: "missing client_id", credentials: map[string]string{"client_secret": "s"}, wantErr: true},
			{name: "missing client_secret", credentials: map[string]string{"client_id": "c"}, wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, err := NewSpotifyService(tt.credentials)
				if tt.wantErr {
					if !errors.Is(err, shared.ErrMissingCredentials) {
						t.Errorf("expected ErrMissingCredentials, got %v", err)
					}
					return
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if svc.config.RedirectURL != defaultRedirectURI {
					t.Errorf("expected default redirect URI, got %s", svc.config.RedirectURL)
				}
			})
		}
	})

	t.Run("GetAuthURL", func(t *testing.T) {
		svc, _ := NewSpotifyService(spotifyTestCreds)
		authURL := svc.GetAuthURL("state123")

		for _, want := range []string{spotifyAuthURL, "client_id=test_client_id", "state=state123", "playlist-modify-private"} {
			if !strings.Contains(authURL, want) {
				t.Errorf("expected auth URL to contain %q, got %s", want, authURL)
			}
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("missing tokens", func(t *testing.T) {
			svc, _ := NewSpotifyService(spotifyTestCreds)
			_, err := svc.Authenticate(context.Background(), map[string]string{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("rejected token", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"status":401,"message":"Invalid access token"}}`))
			})
			svc, _ := newSpotifyTestServer(t, mux)

			_, err := svc.Authenticate(context.Background(), map[string]string{"access_token": "bad"})
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("refreshes with refresh token only", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
				r.ParseForm()
				if r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "refresh" {
					t.Errorf("unexpected token request: %v", r.Form)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
			})
			mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer fresh" {
					t.Errorf("expected refreshed bearer token, got %q", got)
				}
				w.Write([]byte(`{"id":"user1","display_name":"Test User"}`))
			})
			svc, _ := newSpotifyTestServer(t, mux)

			session, err := svc.Authenticate(context.Background(), map[string]string{"refresh_token": "refresh"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if s := session.(*spotifySession); s.userID != "user1" {
				t.Errorf("expected user1, got %s", s.userID)
			}
		})
	})

	t.Run("Authenticate refreshes a stale access token", func(t *testing.T) {
		tests := []struct {
			name        string
			credentials map[string]string
		}{
			{
				name:        "expiry in the past",
				credentials: map[string]string{"access_token": "stale", "refresh_token": "refresh", "token_expiry": "2020-01-01T00:00:00Z"},
			},
			{
				name:        "unknown expiry",
				credentials: map[string]string{"access_token": "stale", "refresh_token": "refresh"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				refreshed := false
				mux := http.NewServeMux()
				mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
					r.ParseForm()
					if r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "refresh" {
						t.Errorf("unexpected token request: %v", r.Form)
					}
					refreshed = true
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`))
				})
				mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
					if r.Header.Get("Authorization") != "Bearer fresh" {
						w.WriteHeader(http.StatusUnauthorized)
						w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
						return
					}
					w.Write([]byte(`{"id":"user1"}`))
				})
				svc, _ := newSpotifyTestServer(t, mux)

				if _, err := svc.Authenticate(context.Background(), tt.credentials); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if !refreshed {
					t.Error("expected the refresh token to be used")
				}
			})
		}

		t.Run("keeps an unexpired access token", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
				t.Error("unexpected refresh")
				w.WriteHeader(http.StatusBadRequest)
			})
			mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer current" {
					t.Errorf("expected stored bearer token, got %q", got)
				}
				w.Write([]byte(`{"id":"user1"}`))
			})
			svc, _ := newSpotifyTestServer(t, mux)

			expiry := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
			creds := map[string]string{"access_token": "current", "refresh_token": "refresh", "token_expiry": expiry}
			if _, err := svc.Authenticate(context.Background(), creds); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("malformed expiry", func(t *testing.T) {
			svc, _ := NewSpotifyService(spotifyTestCreds)
			creds := map[string]string{"access_token": "a", "token_expiry": "tomorrow"}
			if _, err := svc.Authenticate(context.Background(), creds); !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	})

	t.Run("Session", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"user1"}`))
		})
		mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("type") != "track" || q.Get("limit") != "1" {
				t.Errorf("unexpected search params: %s", r.URL.RawQuery)
			}
			if q.Get("q") == "Nobody Nothing" {
				w.Write([]byte(`{"tracks":{"items":[]}}`))
				return
			}
			w.Write([]byte(`{"tracks":{"items":[{"id":"sp1","name":"Creep","duration_ms":238000,
				"artists":[{"id":"a1","name":"Radiohead"}],"album":{"id":"al1","name":"Pablo Honey"}}]}}`))
		})
		mux.HandleFunc("/v1/users/user1/playlists", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "Mix" || body["public"] != false {
				t.Errorf("unexpected create body: %v", body)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"pl1","name":"Mix","public":false}`))
		})
		mux.HandleFunc("/v1/playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				URIs []string `json:"uris"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if len(body.URIs) != 1 || body.URIs[0] != "spotify:track:sp1" {
				t.Errorf("unexpected uris: %v", body.URIs)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"snapshot_id":"snap"}`))
		})
		svc, _ := newSpotifyTestServer(t, mux)

		ctx := context.Background()
		session, err := svc.Authenticate(ctx, map[string]string{"access_token": "token"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		t.Run("SearchTrack", func(t *testing.T) {
			track, err := session.SearchTrack(ctx, "Creep", "Radiohead")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if track.ID != "sp1" || track.Artist != "Radiohead" || track.Album != "Pablo Honey" || track.Duration != 238 {
				t.Errorf("unexpected track: %+v", track)
			}
		})

		t.Run("SearchTrack not found", func(t *testing.T) {
			if _, err := session.SearchTrack(ctx, "Nothing", "Nobody"); !errors.Is(err, shared.ErrTrackNotFound) {
				t.Errorf("expected ErrTrackNotFound, got %v", err)
			}
		})

		t.Run("CreatePlaylist and AddPlaylistItems", func(t *testing.T) {
			playlist, err := session.CreatePlaylist(ctx, "Mix", "desc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if playlist.ID != "pl1" {
				t.Errorf("expected pl1, got %s", playlist.ID)
			}
			if err := session.AddPlaylistItems(ctx, playlist.ID, []string{"sp1"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("PlaylistURL", func(t *testing.T) {
			if got := session.PlaylistURL("pl1"); got != "https://open.spotify.com/playlist/pl1" {
				t.Errorf("unexpected url %s", got)
			}
		})
	})
}
