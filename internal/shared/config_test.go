package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}
		if config.Playlist.MaxTracks != 15 {
			t.Errorf("expected max tracks 15, got %d", config.Playlist.MaxTracks)
		}
		if config.Credentials.YouTube.ProxyURL != "http://127.0.0.1:8080" {
			t.Errorf("expected youtube proxy URL http://127.0.0.1:8080, got %s", config.Credentials.YouTube.ProxyURL)
		}
		if config.Credentials.GenAI.Enabled() {
			t.Error("expected generative backend to be disabled by default")
		}
		if config.Credentials.LastFM.Enabled() {
			t.Error("expected Last.fm to be disabled by default")
		}
		if config.Credentials.GenAI.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", config.Credentials.GenAI.Temperature)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Server.Port != DefaultConfig().Server.Port {
			t.Errorf("created config port doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig overlays defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[server]
port = 8081

[credentials.lastfm]
api_key = "lastfm_key"

[credentials.youtube]
auth_file = "/path/to/oauth.json"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Server.Port != 8081 {
			t.Errorf("expected server port 8081, got %d", config.Server.Port)
		}
		if !config.Credentials.LastFM.Enabled() {
			t.Error("expected Last.fm to be enabled")
		}
		if config.Credentials.LastFM.BaseURL == "" {
			t.Error("expected default Last.fm base URL to be kept")
		}
		if config.Credentials.YouTube.Map()["auth_file"] != "/path/to/oauth.json" {
			t.Errorf("unexpected youtube credentials %v", config.Credentials.YouTube.Map())
		}
	})

	t.Run("LoadConfig with invalid file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(configPath, []byte("not = [valid"), 0644)

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		env := map[string]string{
			"GENAI_APIKEY":      "genai",
			"LASTFM_API_KEY":    "lastfm",
			"YTMUSIC_AUTH_FILE": "/tmp/oauth.json",
			"PORT":              "9000",
			"LOG_LEVEL":         "debug",
		}
		config := DefaultConfig()
		config.ApplyEnv(func(k string) string { return env[k] })

		if config.Credentials.GenAI.APIKey != "genai" {
			t.Errorf("expected genai key from env, got %q", config.Credentials.GenAI.APIKey)
		}
		if config.Credentials.LastFM.APIKey != "lastfm" {
			t.Errorf("expected lastfm key from env, got %q", config.Credentials.LastFM.APIKey)
		}
		if config.Credentials.YouTube.AuthFile != "/tmp/oauth.json" {
			t.Errorf("expected auth file from env, got %q", config.Credentials.YouTube.AuthFile)
		}
		if config.Server.Port != 9000 {
			t.Errorf("expected port 9000, got %d", config.Server.Port)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected debug level, got %q", config.Log.Level)
		}
	})

	t.Run("ResolveConfig reads .env file", func(t *testing.T) {
		dir := t.TempDir()
		envPath := filepath.Join(dir, ".env")
		if err := os.WriteFile(envPath, []byte("LASTFM_API_KEY=from_dotenv\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv("LASTFM_API_KEY", "")
		os.Unsetenv("LASTFM_API_KEY")

		config, err := ResolveConfig(filepath.Join(dir, "missing.toml"), envPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Credentials.LastFM.APIKey != "from_dotenv" {
			t.Errorf("expected key from .env, got %q", config.Credentials.LastFM.APIKey)
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		expiry := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: expiry}
		if err := config.Credentials.Spotify.Update(token); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Credentials.Spotify.AccessToken != "access" || loaded.Credentials.Spotify.RefreshToken != "refresh" {
			t.Errorf("tokens not persisted: %+v", loaded.Credentials.Spotify)
		}
		if got := loaded.Credentials.Spotify.Map()["token_expiry"]; got != "2025-06-01T12:00:00Z" {
			t.Errorf("expected token expiry to be persisted, got %q", got)
		}
	})

	t.Run("SpotifyConfig.Update clears expiry for tokens without one", func(t *testing.T) {
		c := SpotifyConfig{RefreshToken: "refresh", TokenExpiry: "2025-06-01T12:00:00Z"}
		if err := c.Update(&oauth2.Token{AccessToken: "access"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.TokenExpiry != "" || c.RefreshToken != "refresh" {
			t.Errorf("unexpected config after update: %+v", c)
		}
	})

	t.Run("SpotifyConfig.Update rejects empty token", func(t *testing.T) {
		var c SpotifyConfig
		if err := c.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty token")
		}
	})
}
