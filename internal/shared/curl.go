// Browser header extraction for YouTube Music proxy authentication.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var curlFlagPattern = regexp.MustCompile(`(-H|--header|-b|--cookie)\s+(?:'([^']*)'|"([^"]*)")`)

// BrowserHeaders holds the request headers and cookie copied from a browser session.
type BrowserHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a file containing a "Copy as cURL" command and extracts its headers.
func ParseCurlFile(path string) (*BrowserHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(string(content))
}

// ParseCurlCommand extracts headers and cookies from a cURL command.
//
// A -b/--cookie flag takes precedence over a Cookie header.
func ParseCurlCommand(command string) (*BrowserHeaders, error) {
	command = strings.ReplaceAll(command, "\\\n", " ")

	parsed := &BrowserHeaders{Headers: map[string]string{}}
	var headerCookie, flagCookie string

	for _, m := range curlFlagPattern.FindAllStringSubmatch(command, -1) {
		value := m[2] + m[3]
		if m[1] == "-b" || m[1] == "--cookie" {
			flagCookie = strings.TrimSpace(value)
			continue
		}

		key, val, ok := strings.Cut(value, ":")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if strings.EqualFold(key, "cookie") {
			headerCookie = val
			continue
		}
		parsed.Headers[key] = val
	}

	parsed.Cookie = headerCookie
	if flagCookie != "" {
		parsed.Cookie = flagCookie
	}

	if len(parsed.Headers) == 0 && parsed.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}

	return parsed, nil
}

// HeadersRaw renders newline-separated "Key: Value" pairs, sorted by key, as ytmusicapi expects.
func (b *BrowserHeaders) HeadersRaw() string {
	keys := make([]string, 0, len(b.Headers))
	for k := range b.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		lines = append(lines, k+": "+b.Headers[k])
	}
	if b.Cookie != "" {
		lines = append(lines, "cookie: "+b.Cookie)
	}
	return strings.Join(lines, "\n")
}
