// package shared defines shared helpers
package shared

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type redirectWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (r *redirectWriter) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Write(p)
}

var logOutput = &redirectWriter{w: os.Stderr}

// RedirectLogs sends the output of every logger created with a nil writer (and its children) to w.
//
// The returned func restores the previous destination.
func RedirectLogs(w io.Writer) (restore func()) {
	logOutput.mu.Lock()
	prev := logOutput.w
	logOutput.w = w
	logOutput.mu.Unlock()

	return func() {
		logOutput.mu.Lock()
		logOutput.w = prev
		logOutput.mu.Unlock()
	}
}

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr], redirectable with [RedirectLogs].
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = logOutput
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel parses a level name ("debug", "info", ...) and applies it to the [log.Logger].
//
// Unknown names leave the current level untouched.
func SetLogLevel(l *log.Logger, level string) {
	if level == "" {
		return
	}
	if ll, err := log.ParseLevel(strings.ToLower(level)); err == nil {
		l.SetLevel(ll)
	}
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateState returns a random URL-safe token for OAuth CSRF protection.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MarshalJSON encodes data as JSON, indented when pretty is set.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// JoinArtists renders an artist list for human-readable text.
func JoinArtists(artists []string) string {
	return strings.Join(artists, ", ")
}
