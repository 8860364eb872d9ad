// Package urlnorm provides URL normalization for discovered-link
// reconciliation. Candidates are normalized before the duplicate check and
// again at store time so that the same article expressed differently always
// maps to the same stored URL.
package urlnorm

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
)

// trackingParams lists query parameters stripped during normalization.
// These are advertising and analytics trackers that do not affect which
// article a URL points at.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"gclsrc":       {},
	"dclid":        {},
	"msclkid":      {},
}

// defaultPorts maps schemes to their default port strings.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

var (
	errEmptyInput          = errors.New("normalize url: empty input")
	errMissingSchemeOrHost = errors.New("normalize url: missing scheme or host")
	errEmptyHostInput      = errors.New("extract host: empty input")
)

// Normalize applies deterministic transformations to a raw URL so that
// equivalent URLs produce identical strings: lowercase scheme and host,
// upgrade http to https, drop default ports, resolve path dot-segments,
// drop trailing slashes, drop fragments, sort query parameters, and strip
// tracking parameters. Normalize is idempotent.
func Normalize(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errEmptyInput
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize url: %w", err)
	}

	if validateErr := validateParsedURL(parsed); validateErr != nil {
		return "", validateErr
	}

	originalScheme := strings.ToLower(parsed.Scheme)
	parsed.Scheme = "https"
	parsed.Host = normalizeHost(parsed, originalScheme)
	parsed.Fragment = ""
	parsed.RawQuery = buildCleanQuery(parsed.Query())
	parsed.Path = normalizePath(parsed.Path)

	return parsed.String(), nil
}

// ResolveAndNormalize resolves candidate against the source homepage when it
// is relative, then normalizes the result. Absolute candidates are normalized
// as-is. Candidates that resolve to something without a host (mailto:,
// javascript:, fragments on an unparseable base) return an error.
func ResolveAndNormalize(homepage, candidate string) (string, error) {
	if candidate == "" {
		return "", errEmptyInput
	}

	ref, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve url: %w", err)
	}

	if ref.IsAbs() {
		return Normalize(ref.String())
	}

	base, err := url.Parse(homepage)
	if err != nil {
		return "", fmt.Errorf("resolve url: bad base %q: %w", homepage, err)
	}

	return Normalize(base.ResolveReference(ref).String())
}

// Host returns the hostname (without port) from a URL, lowercased.
func Host(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errEmptyHostInput
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("extract host: %w", err)
	}

	if validateErr := validateParsedURL(parsed); validateErr != nil {
		return "", validateErr
	}

	return strings.ToLower(parsed.Hostname()), nil
}

// validateParsedURL checks that a parsed URL has the minimum required components.
func validateParsedURL(u *url.URL) error {
	if u.Scheme == "" || u.Host == "" {
		return errMissingSchemeOrHost
	}

	return nil
}

// normalizeHost lowercases the hostname and removes default ports.
// originalScheme is the scheme before upgrade to https, used to identify
// default ports (e.g., port 80 is default for http).
func normalizeHost(u *url.URL, originalScheme string) string {
	hostname := strings.ToLower(u.Hostname())
	port := u.Port()

	if port == "" {
		return hostname
	}

	// Remove port if it matches the default for either the original or final scheme.
	for _, scheme := range []string{originalScheme, u.Scheme} {
		if defaultPort, ok := defaultPorts[scheme]; ok && port == defaultPort {
			return hostname
		}
	}

	return hostname + ":" + port
}

// buildCleanQuery strips tracking parameters, sorts the remaining keys
// alphabetically, and returns the encoded query string. Returns an empty
// string when no parameters remain after filtering.
func buildCleanQuery(values url.Values) string {
	keys := make([]string, 0, len(values))

	for key := range values {
		if _, isTracking := trackingParams[key]; !isTracking {
			keys = append(keys, key)
		}
	}

	if len(keys) == 0 {
		return ""
	}

	sort.Strings(keys)

	var b strings.Builder

	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}

		vals := values[key]
		for j, val := range vals {
			if j > 0 {
				b.WriteByte('&')
			}

			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(val))
		}
	}

	return b.String()
}

// normalizePath resolves dot-segments (/../, /./) and removes trailing slashes
// while preserving the root "/". Paths that collapse to the root ("//",
// "/a/..") normalize to "/" as well, never to an empty path.
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}

	cleaned := strings.TrimRight(path.Clean(p), "/")
	if cleaned == "" {
		return "/"
	}

	return cleaned
}
