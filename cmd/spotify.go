package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/desertthunder/mixtape/internal/server"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const defaultAuthTimeout = 2 * time.Minute

// SpotifyAuth performs OAuth2 authentication flow for Spotify.
//
// Starts a local HTTP server on the redirect URI, opens the browser for user authorization,
// and stores the exchanged tokens in the config file.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	if r.spotifyAuth == nil {
		return fmt.Errorf("%w: set credentials.spotify.client_id and client_secret (or SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET)",
			shared.ErrMissingCredentials)
	}

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}

	token, err := r.doOAuth(ctx, timeout)
	if err != nil {
		return err
	}

	if err := r.saveTokens(configPath, token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now use: mixtape export --platform spotify --file playlist.json\n")
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, timeout time.Duration) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	redirect, err := url.Parse(r.spotifyAuth.GetOAuthConfig().RedirectURL)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: redirect_uri %q", shared.ErrInvalidConfig, r.spotifyAuth.GetOAuthConfig().RedirectURL)
	}

	oauthHandler := server.NewOAuthHandler(r.spotifyAuth, state, redirect.Path)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(oauthHandler)

	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}

	httpServer := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting OAuth callback server", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := r.spotifyAuth.GetAuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser automatically", "error", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-waitCtx.Done():
		return nil, fmt.Errorf("%w: authorization not completed within %s", shared.ErrTimeout, timeout)
	}

	if result.Err != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Err)
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}

// saveTokens stores the token in the config file at configPath.
//
// The file is re-read so values that came from the environment are not persisted.
func (r *Runner) saveTokens(configPath string, token *oauth2.Token) error {
	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			return err
		}
	} else {
		config = shared.DefaultConfig()
		config.Credentials.Spotify = r.config.Credentials.Spotify
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}
	return nil
}
