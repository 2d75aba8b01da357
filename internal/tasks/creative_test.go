package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	tu "github.com/desertthunder/mixtape/internal/testing"
	"github.com/desertthunder/mixtape/internal/testing/fakes"
)

func TestCreativeGenerator(t *testing.T) {
	ctx := context.Background()
	artists := []string{"Radiohead", "Portishead"}

	t.Run("disabled generator falls back", func(t *testing.T) {
		gen := NewCreativeGenerator(nil, 0, tu.DiscardLogger())
		if gen.Enabled() {
			t.Error("expected generator to be disabled")
		}

		content := gen.Generate(ctx, "trip-hop", artists)
		if content.Title != "Playlist of trip-hop" {
			t.Errorf("unexpected title %q", content.Title)
		}
		if !strings.Contains(content.Description, "Radiohead, Portishead") {
			t.Errorf("expected description to list artists, got %q", content.Description)
		}
		if content.Advisories.String() != AdvisoryGenerationDisabled {
			t.Errorf("unexpected advisory %q", content.Advisories.String())
		}
	})

	t.Run("successful generation", func(t *testing.T) {
		fake := &fakes.Generator{Response: `{"titulo_playlist":" Rainy Bristol ","descricao_playlist":"Slow beats.","aviso_conteudo":null}`}
		gen := NewCreativeGenerator(fake, 0, tu.DiscardLogger())

		content := gen.Generate(ctx, "trip-hop", artists)
		if content.Title != "Rainy Bristol" || content.Description != "Slow beats." {
			t.Errorf("unexpected content %+v", content)
		}
		if content.Advisories.Ptr() != nil {
			t.Errorf("expected no advisory, got %v", content.Advisories)
		}

		reqs := fake.Requests()
		if len(reqs) != 1 {
			t.Fatalf("expected 1 request, got %d", len(reqs))
		}
		if reqs[0].Temperature != DefaultTemperature {
			t.Errorf("expected temperature %v, got %v", DefaultTemperature, reqs[0].Temperature)
		}
		if len(reqs[0].Fields) != 3 || !reqs[0].Fields[2].Nullable {
			t.Errorf("expected 3 schema fields with nullable advisory, got %+v", reqs[0].Fields)
		}
		if !strings.Contains(reqs[0].Prompt, "trip-hop") || !strings.Contains(reqs[0].Prompt, "Portishead") {
			t.Errorf("prompt does not mention genre and artists: %s", reqs[0].Prompt)
		}
	})

	t.Run("model advisory is kept", func(t *testing.T) {
		fake := &fakes.Generator{Response: "```json\n{\"titulo_playlist\":\"T\",\"descricao_playlist\":\"D\",\"aviso_conteudo\":\"Cooking is not a music genre.\"}\n```"}
		content := NewCreativeGenerator(fake, 0.3, tu.DiscardLogger()).Generate(ctx, "cooking", artists)

		if content.Advisories.String() != "Cooking is not a music genre." {
			t.Errorf("unexpected advisory %q", content.Advisories.String())
		}
		if fake.Requests()[0].Temperature != 0.3 {
			t.Errorf("expected configured temperature")
		}
	})

	failures := []struct {
		name string
		gen  *fakes.Generator
	}{
		{name: "call error", gen: &fakes.Generator{Err: errors.New("quota exceeded")}},
		{name: "invalid json", gen: &fakes.Generator{Response: "Here is your playlist!"}},
		{name: "blank title", gen: &fakes.Generator{Response: `{"titulo_playlist":"","descricao_playlist":"D"}`}},
	}

	for _, tc := range failures {
		t.Run(tc.name+" falls back", func(t *testing.T) {
			content := NewCreativeGenerator(tc.gen, 0, tu.DiscardLogger()).Generate(ctx, "jazz", []string{"Miles Davis"})
			if content.Title != "Playlist of jazz" {
				t.Errorf("unexpected title %q", content.Title)
			}
			if content.Advisories.String() != AdvisoryGenerationFailed {
				t.Errorf("unexpected advisory %q", content.Advisories.String())
			}
		})
	}
}
