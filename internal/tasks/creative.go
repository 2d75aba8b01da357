package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	AdvisoryGenerationDisabled = "creative generation is disabled (generative API key not configured)"
	AdvisoryGenerationFailed   = "creative generation failed"

	// DefaultTemperature is a moderate creativity setting for title generation.
	DefaultTemperature float32 = 0.7
)

var creativeFields = []services.SchemaField{
	{Name: "titulo_playlist", Description: "Creative playlist title reflecting the genre and artists."},
	{Name: "descricao_playlist", Description: "One or two sentences about the vibe of the playlist."},
	{Name: "aviso_conteudo", Description: "Reason why the genre or artists are inappropriate or unrelated to music, otherwise null.", Nullable: true},
}

// CreativeGenerator produces the title, description and advisory of a playlist.
type CreativeGenerator struct {
	generator   services.Generator
	temperature float32
	logger      *log.Logger
}

// NewCreativeGenerator creates a generator backed by g. A nil g always yields the disabled fallback.
func NewCreativeGenerator(g services.Generator, temperature float32, logger *log.Logger) *CreativeGenerator {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	return &CreativeGenerator{generator: g, temperature: temperature, logger: logger}
}

// Enabled reports whether a generative backend is configured.
func (c *CreativeGenerator) Enabled() bool {
	return c.generator != nil
}

// Generate returns creative content for the genre and artists. It never fails.
func (c *CreativeGenerator) Generate(ctx context.Context, genre string, artists []string) models.CreativeContent {
	if c.generator == nil {
		return Fallback(genre, artists, AdvisoryGenerationDisabled)
	}

	raw, err := c.generator.Generate(ctx, services.GenerationRequest{
		Prompt:      creativePrompt(genre, artists),
		Temperature: c.temperature,
		Fields:      creativeFields,
	})
	if err != nil {
		c.logger.Warn("creative generation failed", "generator", c.generator.Name(), "error", err)
		return Fallback(genre, artists, AdvisoryGenerationFailed)
	}

	content, err := parseCreativeContent(raw)
	if err != nil {
		c.logger.Warn("creative generation returned unusable content", "generator", c.generator.Name(), "error", err)
		return Fallback(genre, artists, AdvisoryGenerationFailed)
	}

	c.logger.Debug("creative content generated", "title", content.Title, "advisories", len(content.Advisories))
	return content
}

// Fallback is the deterministic content used when the generator is unavailable.
func Fallback(genre string, artists []string, advisory string) models.CreativeContent {
	content := models.CreativeContent{
		Title:       fmt.Sprintf("Playlist of %s", genre),
		Description: fmt.Sprintf("A selection of songs based on the artists: %s.", shared.JoinArtists(artists)),
	}
	content.Advisories.Add(advisory)
	return content
}

func parseCreativeContent(raw string) (models.CreativeContent, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```")

	var content models.CreativeContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return content, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	content.Title = strings.TrimSpace(content.Title)
	content.Description = strings.TrimSpace(content.Description)
	if content.Title == "" || content.Description == "" {
		return content, fmt.Errorf("%w: missing title or description", shared.ErrAPIRequest)
	}
	return content, nil
}

func creativePrompt(genre string, artists []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a creative DJ. Based on the music genre %q and the reference artists %q, ", genre, shared.JoinArtists(artists))
	b.WriteString("come up with a name and a short description for a playlist.\n\n")
	b.WriteString("Instructions:\n")
	b.WriteString("1. Suggest a creative playlist title that reflects the genre and the artists.\n")
	b.WriteString("2. Include a short description (1-2 sentences) of the playlist's vibe.\n")
	b.WriteString("3. If the genre or the artists are inappropriate or unrelated to music, explain why in aviso_conteudo.\n\n")
	b.WriteString("Return ONLY a JSON object with the fields titulo_playlist, descricao_playlist and aviso_conteudo. ")
	b.WriteString("aviso_conteudo must be null when there is nothing to report.")
	return b.String()
}
