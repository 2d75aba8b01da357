package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON request: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// PlaylistHandler serves POST /playlist.
type PlaylistHandler struct {
	builder *tasks.Builder
	logger  *log.Logger
}

// NewPlaylistHandler creates a handler running requests through builder.
func NewPlaylistHandler(builder *tasks.Builder, logger *log.Logger) *PlaylistHandler {
	return &PlaylistHandler{builder: builder, logger: logger}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.PlaylistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request.")
		return
	}

	result, err := h.builder.Build(r.Context(), req)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("build failed", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusOK
	if result.Status == tasks.StatusDegraded {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result.Playlist)
}

// ExportHandler serves an export route for one platform.
type ExportHandler struct {
	exporter *tasks.Exporter
	platform string
	logger   *log.Logger
}

// NewExportHandler creates a handler for platform. A nil exporter answers every request with an
// authentication error.
func NewExportHandler(exporter *tasks.Exporter, platform string, logger *log.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, platform: platform, logger: shared.WithLogger(logger, "platform", platform)}
}

func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request.")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "No tracks supplied.")
		return
	}

	if h.exporter == nil {
		h.logger.Error("export requested but platform is not configured", "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, h.authMessage())
		return
	}

	result, err := h.exporter.Export(r.Context(), req, nil)
	if err != nil {
		status, msg := h.classify(err)
		h.logger.Error("export failed", "status", status, "error", err, "request_id", RequestID(r.Context()))
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, models.ExportResponse{
		Message:     fmt.Sprintf("Playlist created successfully with %d of %d tracks!", result.Resolved, result.Requested),
		PlaylistURL: result.URL,
	})
}

func (h *ExportHandler) authMessage() string {
	return fmt.Sprintf("Authentication with %s failed. Check the server configuration.", h.platform)
}

// classify maps an export error to a status code and a message that never includes the cause.
func (h *ExportHandler) classify(err error) (int, string) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, "No tracks supplied."
	case errors.Is(err, shared.ErrAuthFailed):
		return http.StatusInternalServerError, h.authMessage()
	case errors.Is(err, shared.ErrNothingResolvable):
		return http.StatusNotFound, fmt.Sprintf("None of the tracks were found on %s.", h.platform)
	case errors.Is(err, shared.ErrPlaylistCreate):
		return http.StatusInternalServerError, fmt.Sprintf("Failed to create the playlist on %s.", h.platform)
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// HealthResponse reports liveness and which optional backends are configured.
type HealthResponse struct {
	Status    string          `json:"status"`
	Creative  bool            `json:"creative"`
	Tracks    bool            `json:"tracks"`
	Platforms map[string]bool `json:"platforms"`
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	builder   *tasks.Builder
	platforms map[string]bool
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Creative:  h.builder.CreativeEnabled(),
		Tracks:    h.builder.TracksEnabled(),
		Platforms: h.platforms,
	})
}
