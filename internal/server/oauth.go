package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/oauth2"
)

// TokenExchanger trades an authorization code for a token.
//
// Satisfied by services.SpotifyService.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	Err   error
}

// OAuthHandler handles the redirect of an OAuth2 authorization-code flow.
//
// Only the first callback carrying the expected state is processed; its outcome is delivered once on [OAuthHandler.Result].
type OAuthHandler struct {
	exchanger TokenExchanger
	state     string
	path      string
	results   chan OAuthResult
	once      sync.Once

	mu  sync.Mutex
	hit bool
}

// NewOAuthHandler creates a callback handler for path that accepts only the given state token.
func NewOAuthHandler(exchanger TokenExchanger, state, path string) *OAuthHandler {
	if path == "" {
		path = "/callback"
	}
	return &OAuthHandler{
		exchanger: exchanger,
		state:     state,
		path:      path,
		results:   make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP validates the state parameter and exchanges the authorization code.
//
// Requests with a foreign state are rejected without consuming the handler.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("state") != h.state {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	code := q.Get("code")
	if code == "" {
		h.send(OAuthResult{Err: fmt.Errorf("%w: %s: %s", shared.ErrAuthFailed, q.Get("error"), q.Get("error_description"))})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.send(OAuthResult{Err: err})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, callbackPage)
}

func (h *OAuthHandler) send(result OAuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result returns a channel that receives exactly one result and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}

const callbackPage = `<!DOCTYPE html>
<html>
<head>
    <title>mixtape: authorized</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .card { text-align: center; background: white; padding: 2rem;
                border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>✓ Spotify connected</h1>
        <p>Tokens were saved. You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
