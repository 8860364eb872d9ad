package strategy

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/jonesrussell/godiscover/internal/discovery"
	"github.com/jonesrussell/godiscover/internal/domain"
)

// minSlugWords is the minimum number of hyphen-separated words for a
// path segment to read like an article headline slug.
const minSlugWords = 4

// nonArticleSegments are path segments that mark navigation, account,
// or utility pages rather than articles.
var nonArticleSegments = map[string]struct{}{
	"login":    {},
	"signin":   {},
	"signup":   {},
	"register": {},
	"search":   {},
	"contact":  {},
	"about":    {},
	"privacy":  {},
	"terms":    {},
	"tag":      {},
	"tags":     {},
	"category": {},
	"author":   {},
	"page":     {},
	"feed":     {},
	"rss":      {},
	"sitemap":  {},
	"admin":    {},
	"wp-admin": {},
	"account":  {},
	"cart":     {},
	"checkout": {},
}

// nonArticleExtensions are file extensions that never point at article
// pages.
var nonArticleExtensions = []string{
	".pdf", ".xml", ".json", ".css", ".js",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico",
	".woff", ".woff2", ".zip", ".mp3", ".mp4",
}

// articleSegments are path segments that news sites conventionally put
// in front of article slugs.
var articleSegments = map[string]struct{}{
	"article":  {},
	"articles": {},
	"story":    {},
	"stories":  {},
	"post":     {},
	"posts":    {},
	"news":     {},
	"press":    {},
	"media":    {},
	"newsroom": {},
	"blog":     {},
	"opinion":  {},
	"politics": {},
	"business": {},
	"sports":   {},
	"world":    {},
	"local":    {},
}

// datePathPattern matches date-based article paths like /2024/03/15/slug.
var datePathPattern = regexp.MustCompile(`/\d{4}/\d{2}(/\d{2})?/[^/]+`)

// IsArticleURL reports whether a URL's path shape looks like an
// article page. The check runs on the path alone, without fetching:
// date-based paths, slugs under conventional section segments, and
// long headline-like slugs count as articles; navigation pages, asset
// files, and utility paths do not.
func IsArticleURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	urlPath := strings.ToLower(strings.TrimSuffix(parsed.Path, "/"))
	if urlPath == "" || urlPath == "/" {
		return false
	}

	for _, ext := range nonArticleExtensions {
		if strings.HasSuffix(urlPath, ext) {
			return false
		}
	}

	segments := strings.Split(strings.TrimPrefix(urlPath, "/"), "/")
	for _, segment := range segments {
		if _, bad := nonArticleSegments[segment]; bad {
			return false
		}
	}

	if len(segments) == 1 {
		return slugWordCount(segments[0]) >= minSlugWords
	}

	if datePathPattern.MatchString(urlPath) {
		return true
	}

	for _, segment := range segments[:len(segments)-1] {
		if _, ok := articleSegments[segment]; ok {
			return true
		}
	}

	for _, segment := range segments {
		if slugWordCount(segment) >= minSlugWords {
			return true
		}
	}
	return false
}

// slugWordCount counts hyphen-separated words in a path segment.
func slugWordCount(segment string) int {
	count := 0
	for _, word := range strings.Split(segment, "-") {
		if word != "" {
			count++
		}
	}
	return count
}

// ClassifierStrategy represents the URL classification method. The
// classifier labels individual URLs as articles but has no way to
// produce new URLs on its own, so it can never serve as a discovery
// method; Discover always fails with ErrCannotEnumerate. It is
// registered so that the method registry covers every label telemetry
// can report.
type ClassifierStrategy struct{}

// NewClassifierStrategy creates the classifier method stub.
func NewClassifierStrategy() *ClassifierStrategy {
	return &ClassifierStrategy{}
}

// Method implements discovery.Strategy.
func (s *ClassifierStrategy) Method() domain.Method {
	return domain.MethodClassifier
}

// Discover implements discovery.Strategy. It always fails: the
// classifier cannot enumerate candidate URLs.
func (s *ClassifierStrategy) Discover(_ context.Context, _ discovery.DiscoverRequest) (discovery.DiscoverResult, error) {
	return discovery.DiscoverResult{}, discovery.ErrCannotEnumerate
}
