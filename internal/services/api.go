// API service for making raw HTTP requests to the FastAPI proxy
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/mixtape/internal/shared"
)

// APIService provides methods for making raw HTTP requests to the FastAPI proxy.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the FastAPI proxy.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the proxy answered with a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// SetupResponse is returned by the proxy's browser setup endpoint.
type SetupResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	AuthContent any    `json:"auth_content"`
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	if data == nil {
		data = []byte("{}")
	}
	return a.do(ctx, http.MethodPost, path, data)
}

// Health calls the proxy's /health endpoint.
func (a *APIService) Health(ctx context.Context) (*APIResponse, error) {
	resp, err := a.Get(ctx, "/health")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return resp, fmt.Errorf("%w: proxy health status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return resp, nil
}

// SetupBrowser sends raw browser headers to the proxy, which turns them into ytmusicapi auth content.
func (a *APIService) SetupBrowser(ctx context.Context, headersRaw string) (*SetupResponse, error) {
	payload, err := json.Marshal(map[string]string{"headers_raw": headersRaw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := a.Post(ctx, "/api/setup/browser", payload)
	if err != nil {
		return nil, err
	}

	var setup SetupResponse
	if err := json.Unmarshal(resp.Body, &setup); err != nil {
		return nil, fmt.Errorf("%w: unexpected setup response (status %d)", shared.ErrAPIRequest, resp.StatusCode)
	}

	if !resp.OK() && setup.Message == "" {
		setup.Message = fmt.Sprintf("proxy returned status %d", resp.StatusCode)
	}
	if !resp.OK() {
		setup.Success = false
	}
	return &setup, nil
}
