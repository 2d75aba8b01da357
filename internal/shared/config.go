package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// It is read once at startup and treated as read-only afterwards.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Playlist    PlaylistConfig    `toml:"playlist"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	GenAI   GenAIConfig   `toml:"genai"`
	LastFM  LastFMConfig  `toml:"lastfm"`
	YouTube YouTubeConfig `toml:"youtube"`
	Spotify SpotifyConfig `toml:"spotify"`
}

// GenAIConfig configures the generative text backend. An empty APIKey disables it.
type GenAIConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
}

// Enabled reports whether an API key is set.
func (c GenAIConfig) Enabled() bool { return c.APIKey != "" }

// LastFMConfig configures the track-metadata backend. An empty APIKey disables it.
type LastFMConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Enabled reports whether an API key is set.
func (c LastFMConfig) Enabled() bool { return c.APIKey != "" }

// YouTubeConfig contains YouTube Music proxy settings.
type YouTubeConfig struct {
	ProxyURL string `toml:"proxy_url"`
	AuthFile string `toml:"auth_file"`
}

// Map returns the credentials consumed by the YouTube Music platform.
func (c YouTubeConfig) Map() map[string]string {
	return map[string]string{"auth_file": c.AuthFile}
}

// SpotifyConfig contains Spotify API credentials and stored OAuth tokens.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
	TokenExpiry  string `toml:"token_expiry"` // RFC 3339; empty when unknown
}

// Map returns the credentials consumed by the Spotify platform.
func (c SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"redirect_uri":  c.RedirectURI,
		"access_token":  c.AccessToken,
		"refresh_token": c.RefreshToken,
		"token_expiry":  c.TokenExpiry,
	}
}

// Update stores tokens obtained from an OAuth exchange.
func (c *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}
	c.AccessToken = token.AccessToken
	c.TokenExpiry = ""
	if !token.Expiry.IsZero() {
		c.TokenExpiry = token.Expiry.UTC().Format(time.RFC3339)
	}
	if token.RefreshToken != "" {
		c.RefreshToken = token.RefreshToken
	}
	return nil
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host                string   `toml:"host"`
	Port                int      `toml:"port"`
	AllowedOrigins      []string `toml:"allowed_origins"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PlaylistConfig tunes playlist assembly.
type PlaylistConfig struct {
	MaxTracks          int `toml:"max_tracks"`
	Concurrency        int `toml:"concurrency"`
	HTTPTimeoutSeconds int `toml:"http_timeout_seconds"`
}

// HTTPTimeout is the per-call timeout applied to upstream HTTP clients.
func (c PlaylistConfig) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads the config file at path when it exists, falling back to defaults,
// then overlays environment variables (including those from .env files).
func ResolveConfig(path string, envFiles ...string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	// Missing .env files are expected; variables may come from the environment instead.
	_ = godotenv.Load(envFiles...)

	config.ApplyEnv(os.Getenv)
	return config, nil
}

// ApplyEnv overrides config values with non-empty environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Credentials.GenAI.APIKey, "GENAI_APIKEY")
	set(&c.Credentials.GenAI.Model, "GENAI_MODEL")
	set(&c.Credentials.LastFM.APIKey, "LASTFM_API_KEY")
	set(&c.Credentials.YouTube.ProxyURL, "YTMUSIC_PROXY_URL")
	set(&c.Credentials.YouTube.AuthFile, "YTMUSIC_AUTH_FILE")
	set(&c.Credentials.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	set(&c.Credentials.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	set(&c.Credentials.Spotify.AccessToken, "SPOTIFY_ACCESS_TOKEN")
	set(&c.Credentials.Spotify.RefreshToken, "SPOTIFY_REFRESH_TOKEN")
	set(&c.Log.Level, "LOG_LEVEL")

	if v := getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// SaveConfig writes the config as TOML to path, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
