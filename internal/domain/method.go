package domain

import "fmt"

// Method identifies a discovery strategy. The set is closed: telemetry labels
// must map through ParseMethod rather than flowing through as free-form
// strings.
type Method string

const (
	// MethodRSS discovers candidates by locating and parsing syndication feeds.
	MethodRSS Method = "rss"
	// MethodHomepage discovers candidates by crawling the source homepage for
	// article-looking links.
	MethodHomepage Method = "homepage"
	// MethodClassifier answers "is this URL an article?" for URLs produced
	// elsewhere. It cannot enumerate candidates on its own.
	MethodClassifier Method = "classifier"
)

// methodLabels maps telemetry labels (including historical aliases) to the
// closed Method set. Labels outside this table are rejected, not guessed at.
var methodLabels = map[string]Method{
	"rss":            MethodRSS,
	"rss_feed":       MethodRSS,
	"feed":           MethodRSS,
	"homepage":       MethodHomepage,
	"homepage_crawl": MethodHomepage,
	"classifier":     MethodClassifier,
	"url_classifier": MethodClassifier,
}

// ParseMethod maps a telemetry label to a Method. Unknown labels return an
// error so callers surface them instead of silently dropping or inventing
// strategies.
func ParseMethod(label string) (Method, error) {
	m, ok := methodLabels[label]
	if !ok {
		return "", fmt.Errorf("unknown discovery method label: %q", label)
	}
	return m, nil
}

// String returns the canonical label for the method.
func (m Method) String() string {
	return string(m)
}

// CanEnumerate reports whether the method can produce candidate URLs from a
// homepage by itself. Classifier-style methods cannot and are therefore
// excluded from the default method set.
func (m Method) CanEnumerate() bool {
	switch m {
	case MethodRSS, MethodHomepage:
		return true
	case MethodClassifier:
		return false
	default:
		return false
	}
}

// EnumeratingMethods returns the default fallback method order used when a
// source has no effectiveness history: cheapest enumerating strategy first.
func EnumeratingMethods() []Method {
	return []Method{MethodRSS, MethodHomepage}
}
