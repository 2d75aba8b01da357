package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/oauth2"
)

type fakeExchanger struct {
	token *oauth2.Token
	err   error
	code  string
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.code = code
	return f.token, f.err
}

func TestOAuthHandler(t *testing.T) {
	t.Run("routes", func(t *testing.T) {
		if routes := NewOAuthHandler(&fakeExchanger{}, "s", "").Routes(); len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("unexpected routes %v", routes)
		}
	})

	t.Run("exchanges code", func(t *testing.T) {
		ex := &fakeExchanger{token: &oauth2.Token{AccessToken: "access"}}
		h := NewOAuthHandler(ex, "state123", "/callback")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=abc", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		select {
		case res := <-h.Result():
			if res.Err != nil || res.Token.AccessToken != "access" || ex.code != "abc" {
				t.Errorf("unexpected result %+v (code %s)", res, ex.code)
			}
		case <-time.After(time.Second):
			t.Fatal("expected a result")
		}
	})

	t.Run("state mismatch does not consume the callback", func(t *testing.T) {
		ex := &fakeExchanger{token: &oauth2.Token{AccessToken: "access"}}
		h := NewOAuthHandler(ex, "state123", "")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=other&code=forged", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if ex.code != "" {
			t.Errorf("expected no exchange for a foreign state, got code %q", ex.code)
		}
		select {
		case res := <-h.Result():
			t.Fatalf("expected no result yet, got %+v", res)
		default:
		}

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=abc", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected the real callback to succeed, got %d", rec.Code)
		}
		if res := <-h.Result(); res.Err != nil || res.Token.AccessToken != "access" || ex.code != "abc" {
			t.Errorf("unexpected result %+v (code %s)", res, ex.code)
		}
	})

	t.Run("authorization denied", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{}, "s", "")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&error=access_denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if res := <-h.Result(); !errors.Is(res.Err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", res.Err)
		}
	})

	t.Run("exchange failure", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{err: errors.New("bad code")}, "s", "")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=x", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("second callback rejected", func(t *testing.T) {
		h := NewOAuthHandler(&fakeExchanger{token: &oauth2.Token{AccessToken: "a"}}, "s", "")
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=s&code=x", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s&code=x", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}
