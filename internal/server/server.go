// package server contains middleware & handlers for the playlist web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
)

const shutdownTimeout = 10 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own their routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Deps are the components exposed over HTTP. Nil exporters belong to unconfigured platforms.
type Deps struct {
	Builder *tasks.Builder
	YouTube *tasks.Exporter
	Spotify *tasks.Exporter
}

// Server is the playlist HTTP service.
type Server struct {
	router     *BasicRouter
	httpServer *http.Server
	logger     *log.Logger
}

// New builds the router and HTTP server for cfg.
func New(cfg shared.ServerConfig, deps Deps, logger *log.Logger) *Server {
	router := NewBasicRouter()
	router.Use(
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		RecoverMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	router.Handle(http.MethodPost, "/playlist", NewPlaylistHandler(deps.Builder, logger))
	router.Handle(http.MethodPost, "/create-yt-playlist", NewExportHandler(deps.YouTube, "YouTube Music", logger))
	router.Handle(http.MethodPost, "/create-spotify-playlist", NewExportHandler(deps.Spotify, "Spotify", logger))
	router.Handle(http.MethodGet, "/health", &HealthHandler{
		builder:   deps.Builder,
		platforms: map[string]bool{"youtube": deps.YouTube != nil, "spotify": deps.Spotify != nil},
	})

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  seconds(cfg.ReadTimeoutSeconds, 15),
			WriteTimeout: seconds(cfg.WriteTimeoutSeconds, 60),
		},
		logger: logger,
	}
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
