package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/mixtape/internal/models"
)

// DefaultPalette is used by [Pretty].
var DefaultPalette = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	Title lipgloss.Style
	OK    lipgloss.Style
	Err   lipgloss.Style
	Warn  lipgloss.Style
	Help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		Title: NewBold(t).MarginBottom(1),
		OK:    NewBold(s),
		Err:   NewBold(e),
		Warn:  NewStyle(w),
		Help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Pretty renders a playlist for a terminal.
func Pretty(p models.AssembledPlaylist) string {
	return DefaultPalette.Playlist(p)
}

// Playlist renders a playlist with the palette's styles.
func (s *Palette) Playlist(p models.AssembledPlaylist) string {
	var b strings.Builder

	b.WriteString(s.Title.Render(p.Title))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(s.Help.Render(p.Description))
		b.WriteString("\n")
	}
	if len(p.Advisories) > 0 {
		b.WriteString(s.Warn.Render("⚠ " + p.Advisories.String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(p.Tracks) == 0 {
		b.WriteString(s.Err.Render("No tracks"))
		b.WriteString("\n")
		return b.String()
	}

	width := len(fmt.Sprint(len(p.Tracks)))
	for i, track := range p.Tracks {
		fmt.Fprintf(&b, "%*d. %s %s\n", width, i+1, s.OK.Render(track.Title), s.Help.Render(track.Artist))
	}
	return b.String()
}

// Export renders an export result line.
func (s *Palette) Export(result *models.ExportResult) string {
	return s.OK.Render("✓ ") + ExportSummary(result)
}
