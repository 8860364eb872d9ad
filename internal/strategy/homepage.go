package strategy

import (
	"context"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/jonesrussell/godiscover/internal/discovery"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// DefaultMaxHomepageLinks caps how many article-looking links a single
// homepage scan collects.
const DefaultMaxHomepageLinks = 200

// homepageMaxDepth keeps the collector on the landing page only.
const homepageMaxDepth = 1

// HomepageStrategy discovers article links by scraping anchors off the
// source's homepage and keeping the ones whose path shape looks like
// an article. It fetches exactly one page and never follows links.
type HomepageStrategy struct {
	userAgent string
	maxLinks  int
	logger    logger.Interface
}

// NewHomepageStrategy creates the homepage scraping strategy.
func NewHomepageStrategy(userAgent string, maxLinks int, log logger.Interface) *HomepageStrategy {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if maxLinks <= 0 {
		maxLinks = DefaultMaxHomepageLinks
	}
	return &HomepageStrategy{
		userAgent: userAgent,
		maxLinks:  maxLinks,
		logger:    log.WithComponent("homepage_strategy"),
	}
}

// Method implements discovery.Strategy.
func (s *HomepageStrategy) Method() domain.Method {
	return domain.MethodHomepage
}

// Discover scrapes the homepage and returns article-looking links.
func (s *HomepageStrategy) Discover(ctx context.Context, req discovery.DiscoverRequest) (discovery.DiscoverResult, error) {
	log := s.logger.WithSource(req.Source.ID, req.Source.Name)

	limit := req.Quota
	if limit <= 0 || limit > s.maxLinks {
		limit = s.maxLinks
	}

	var (
		candidates []domain.RawCandidate
		seen       = make(map[string]struct{})
		scanErr    error
	)

	collector := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.MaxDepth(homepageMaxDepth),
		colly.UserAgent(s.userAgent),
		colly.MaxBodySize(maxBodyBytes),
	)

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if len(candidates) >= limit {
			return
		}
		absolute := e.Request.AbsoluteURL(e.Attr("href"))
		if absolute == "" {
			return
		}
		if _, dup := seen[absolute]; dup {
			return
		}
		seen[absolute] = struct{}{}
		if !IsArticleURL(absolute) {
			return
		}
		candidates = append(candidates, domain.RawCandidate{
			URL:    absolute,
			Title:  strings.TrimSpace(e.Text),
			Method: domain.MethodHomepage,
		})
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			scanErr = discovery.NewHTTPError(r.Request.URL.String(), r.StatusCode)
			return
		}
		scanErr = discovery.NewNetworkError(req.Source.URL, err)
	})

	if err := collector.Visit(req.Source.URL); err != nil && scanErr == nil {
		if discovery.IsTransient(err) {
			scanErr = discovery.NewNetworkError(req.Source.URL, err)
		} else {
			scanErr = discovery.NewParseError(req.Source.URL, err)
		}
	}

	if scanErr != nil {
		return discovery.DiscoverResult{}, scanErr
	}

	log.Debug("Homepage scan complete",
		"anchors_seen", len(seen),
		"article_links", len(candidates))
	return discovery.DiscoverResult{Candidates: candidates}, nil
}
