// package formatter renders assembled playlists as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Format names accepted by [Render].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// Formats lists every supported format name.
var Formats = []string{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// Render converts a playlist to the named format.
func Render(p models.AssembledPlaylist, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return ToText(p)
	case FormatMarkdown, "md":
		return ToMarkdown(p)
	case FormatCSV:
		return ToCSV(p)
	case FormatJSON:
		return shared.MarshalJSON(p, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (expected one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// ToCSV converts a playlist to CSV format with columns: Position, Title, Artist
func ToCSV(p models.AssembledPlaylist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "Title", "Artist"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range p.Tracks {
		if err := writer.Write([]string{strconv.Itoa(i + 1), track.Title, track.Artist}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown converts a playlist to Markdown with the advisory rendered as a blockquote
func ToMarkdown(p models.AssembledPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&buf, "%s\n\n", p.Description)
	}
	if len(p.Advisories) > 0 {
		fmt.Fprintf(&buf, "> **Note**: %s\n\n", p.Advisories.String())
	}

	fmt.Fprintf(&buf, "## Tracks (%d)\n\n", len(p.Tracks))
	if len(p.Tracks) == 0 {
		buf.WriteString("_No tracks._\n")
	}
	for i, track := range p.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
	}

	return buf.Bytes(), nil
}

// ToText converts a playlist to plain text format
func ToText(p models.AssembledPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", p.Description)
	}
	if len(p.Advisories) > 0 {
		fmt.Fprintf(&buf, "Note: %s\n", p.Advisories.String())
	}
	fmt.Fprintf(&buf, "Tracks: %d\n\n", len(p.Tracks))

	for i, track := range p.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Title)
	}

	return buf.Bytes(), nil
}

// ExportSummary describes a completed export in one line.
func ExportSummary(result *models.ExportResult) string {
	return fmt.Sprintf("Created %s playlist %s with %d of %d tracks: %s",
		result.Platform, result.PlaylistID, result.Resolved, result.Requested, result.URL)
}

// WriteFile renders p in format and writes it to path, creating parent directories.
func WriteFile(p models.AssembledPlaylist, format, path string) error {
	data, err := Render(p, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FormatFromPath guesses a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".csv":
		return FormatCSV
	case ".txt":
		return FormatText
	default:
		return FormatJSON
	}
}
