// Gemini [Generator] implementation backed by the Google Gen AI SDK.
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/mixtape/internal/shared"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiOptions configures a [GeminiService].
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string // Overrides the API endpoint, used in tests
	HTTPClient *http.Client
}

// GeminiService implements [Generator] using Gemini models.
type GeminiService struct {
	client *genai.Client
	model  string
}

// NewGeminiService creates a Gemini client. Returns [shared.ErrMissingCredentials] without an API key.
func NewGeminiService(ctx context.Context, opts GeminiOptions) (*GeminiService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key", shared.ErrMissingCredentials)
	}
	if opts.Model == "" {
		opts.Model = defaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{client: client, model: opts.Model}, nil
}

// Name returns the service name.
func (g *GeminiService) Name() string {
	return "Gemini"
}

// Generate asks the model for a single JSON object matching req.Fields.
func (g *GeminiService) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   objectSchema(req.Fields),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", shared.ErrAPIRequest, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned an empty response", shared.ErrAPIRequest)
	}

	return text, nil
}

func objectSchema(fields []SchemaField) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(fields)),
	}

	for _, f := range fields {
		schema.Properties[f.Name] = &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
			Nullable:    genai.Ptr(f.Nullable),
		}
		schema.PropertyOrdering = append(schema.PropertyOrdering, f.Name)
		if !f.Nullable {
			schema.Required = append(schema.Required, f.Name)
		}
	}

	return schema
}
