// Utilities for turning a browser "Copy as cURL" request into YouTube Music auth headers.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var (
	curlHeaderPattern = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']+)'|"([^"]+)")`)
	curlCookiePattern = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']+)'|"([^"]+)")`)
)

// BrowserHeaders are the request headers of an authenticated YouTube Music browser session.
type BrowserHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a file holding a copied cURL command and extracts its headers.
func ParseCurlFile(path string) (*BrowserHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(content)
}

// ParseCurlCommand extracts headers and the cookie from a cURL command.
//
// A -b/--cookie flag wins over a Cookie header.
func ParseCurlCommand(data []byte) (*BrowserHeaders, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	parsed := &BrowserHeaders{Headers: make(map[string]string)}
	var headerCookie string

	for _, match := range curlHeaderPattern.FindAllStringSubmatch(cmd, -1) {
		key, value, ok := strings.Cut(firstGroup(match), ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if headerCookie == "" {
				headerCookie = value
			}
			continue
		}
		parsed.Headers[key] = value
	}

	if match := curlCookiePattern.FindStringSubmatch(cmd); match != nil {
		parsed.Cookie = firstGroup(match)
	}
	if parsed.Cookie == "" {
		parsed.Cookie = headerCookie
	}

	if len(parsed.Headers) == 0 && parsed.Cookie == "" {
		return nil, fmt.Errorf("%w: no headers found in curl command", ErrInvalidInput)
	}
	return parsed, nil
}

func firstGroup(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// Authenticated reports whether the headers carry a session cookie.
func (b *BrowserHeaders) Authenticated() bool {
	return b.Cookie != ""
}

// ToHeadersRaw renders the headers as newline-separated "Key: Value" pairs sorted by key,
// with the cookie last. This is the raw form the YouTube Music proxy accepts on /auth/setup.
func (b *BrowserHeaders) ToHeadersRaw() string {
	keys := make([]string, 0, len(b.Headers))
	for key := range b.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, b.Headers[key]))
	}
	if b.Cookie != "" {
		lines = append(lines, "cookie: "+b.Cookie)
	}
	return strings.Join(lines, "\n")
}
