package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	tt := []struct {
		name        string
		curlCmd     string
		wantHeaders map[string]string
		wantCookie  string
		wantErr     bool
	}{
		{
			name:        "single quoted header",
			curlCmd:     `curl -H 'Authorization: Bearer token123' https://music.youtube.com`,
			wantHeaders: map[string]string{"Authorization": "Bearer token123"},
		},
		{
			name:        "double quoted header",
			curlCmd:     `curl -H "Authorization: Bearer token123" https://music.youtube.com`,
			wantHeaders: map[string]string{"Authorization": "Bearer token123"},
		},
		{
			name:        "cookie header is split out",
			curlCmd:     `curl -H 'Cookie: session=abc' -H 'x-goog-authuser: 0' https://music.youtube.com`,
			wantHeaders: map[string]string{"x-goog-authuser": "0"},
			wantCookie:  "session=abc",
		},
		{
			name:        "-b cookie takes precedence",
			curlCmd:     `curl -H 'Cookie: old=value' -b 'new=value' https://music.youtube.com`,
			wantHeaders: map[string]string{},
			wantCookie:  "new=value",
		},
		{
			name: "multiline command",
			curlCmd: `curl 'https://music.youtube.com/youtubei/v1/browse' \
  -H 'accept: */*' \
  -H 'authorization: SAPISIDHASH abc' \
  --data-raw '{"context":{}}'`,
			wantHeaders: map[string]string{"accept": "*/*", "authorization": "SAPISIDHASH abc"},
		},
		{
			name:    "no headers",
			curlCmd: `curl https://music.youtube.com`,
			wantErr: true,
		},
		{
			name:    "empty command",
			curlCmd: "",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseCurlCommand(tc.curlCmd)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCurlCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}

			if len(result.Headers) != len(tc.wantHeaders) {
				t.Errorf("headers count = %d, want %d (%v)", len(result.Headers), len(tc.wantHeaders), result.Headers)
			}
			for key, want := range tc.wantHeaders {
				if got := result.Headers[key]; got != want {
					t.Errorf("header[%s] = %q, want %q", key, got, want)
				}
			}
			if result.Cookie != tc.wantCookie {
				t.Errorf("cookie = %q, want %q", result.Cookie, tc.wantCookie)
			}
		})
	}
}

func TestParseCurlFile(t *testing.T) {
	t.Run("reads command from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "curl.sh")
		if err := os.WriteFile(path, []byte(`curl -H 'accept: */*' https://music.youtube.com`), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		result, err := ParseCurlFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Headers["accept"] != "*/*" {
			t.Errorf("unexpected headers %v", result.Headers)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/curl.sh"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestBrowserHeaders_HeadersRaw(t *testing.T) {
	h := &BrowserHeaders{
		Headers: map[string]string{"b-header": "2", "a-header": "1"},
		Cookie:  "session=abc",
	}

	want := "a-header: 1\nb-header: 2\ncookie: session=abc"
	if got := h.HeadersRaw(); got != want {
		t.Errorf("HeadersRaw() = %q, want %q", got, want)
	}

	if got := (&BrowserHeaders{Headers: map[string]string{}}).HeadersRaw(); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
