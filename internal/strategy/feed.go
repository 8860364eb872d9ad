package strategy

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/godiscover/internal/discovery"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/logger"
)

// commonFeedPaths are well-known paths probed when HTML autodiscovery
// yields nothing.
var commonFeedPaths = []string{
	"/feed",
	"/rss",
	"/feed.xml",
	"/rss.xml",
	"/atom.xml",
	"/index.xml",
}

// rssXMLType and atomXMLType are the MIME type substrings for feed
// link detection.
const (
	rssXMLType  = "rss+xml"
	atomXMLType = "atom+xml"
)

// FeedStrategy discovers article links through RSS and Atom feeds. It
// autodiscovers feed URLs from the homepage's link tags, falls back to
// well-known paths, and returns the first feed that carries items.
//
// Its error contract drives the caller's feed-state bookkeeping: a
// returned error means the site either never answered (transient) or
// demonstrably has no working feed (permanent); a clean empty result
// with the attempt summary means the evidence was softer than that.
type FeedStrategy struct {
	fetcher *Fetcher
	parser  *gofeed.Parser
	logger  logger.Interface
}

// NewFeedStrategy creates the feed discovery strategy.
func NewFeedStrategy(fetcher *Fetcher, log logger.Interface) *FeedStrategy {
	return &FeedStrategy{
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
		logger:  log.WithComponent("feed_strategy"),
	}
}

// Method implements discovery.Strategy.
func (s *FeedStrategy) Method() domain.Method {
	return domain.MethodRSS
}

// Discover probes candidate feed URLs until one yields items.
func (s *FeedStrategy) Discover(ctx context.Context, req discovery.DiscoverRequest) (discovery.DiscoverResult, error) {
	log := s.logger.WithSource(req.Source.ID, req.Source.Name)

	var (
		summary      discovery.AttemptSummary
		firstNetwork error
		lastHard     error
	)

	for _, feedURL := range s.feedCandidates(ctx, req.Source.URL, log) {
		if ctx.Err() != nil {
			return discovery.DiscoverResult{Summary: summary},
				discovery.NewNetworkError(feedURL, ctx.Err())
		}

		summary.FeedsAttempted++

		items, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			if discovery.IsTransient(err) {
				summary.NetworkErrors++
				if firstNetwork == nil {
					firstNetwork = err
				}
			} else {
				lastHard = err
			}
			log.Debug("Feed probe failed", "feed_url", feedURL, "error", err)
			continue
		}

		summary.FeedsSuccessful++
		if len(items) == 0 {
			log.Debug("Feed parsed but carries no items", "feed_url", feedURL)
			continue
		}

		log.Info("Feed yielded candidates",
			"feed_url", feedURL,
			"items", len(items))
		return discovery.DiscoverResult{
			Candidates: s.toCandidates(items, feedURL, req.Quota),
			Summary:    summary,
		}, nil
	}

	result := discovery.DiscoverResult{Summary: summary}
	switch {
	case summary.FeedsSuccessful > 0:
		// At least one real feed exists; it just carried nothing.
		return result, nil
	case firstNetwork != nil && lastHard == nil:
		// The site never answered a single probe.
		return result, firstNetwork
	case summary.NetworkErrors > 0:
		// Mixed failures lean lenient: blame the network.
		return result, nil
	case lastHard != nil:
		// Every probe came back "not found" or unparseable: there is
		// no working feed here.
		return result, lastHard
	default:
		return result, nil
	}
}

// feedCandidates returns feed URLs to probe: autodiscovered link tags
// first, then the well-known paths, deduplicated in order. A homepage
// fetch failure only skips autodiscovery; the well-known paths still
// carry the evidence.
func (s *FeedStrategy) feedCandidates(ctx context.Context, baseURL string, log logger.Interface) []string {
	var candidates []string

	resp, err := s.fetcher.Get(ctx, baseURL)
	switch {
	case err != nil:
		log.Debug("Homepage fetch failed during feed autodiscovery", "error", err)
	case resp.StatusCode != http.StatusOK:
		log.Debug("Homepage not available for feed autodiscovery", "status", resp.StatusCode)
	default:
		candidates = extractFeedLinks(baseURL, resp.Body)
	}

	for _, path := range commonFeedPaths {
		if resolved := resolveURL(baseURL, path); resolved != "" {
			candidates = append(candidates, resolved)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, c := range candidates {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// extractFeedLinks parses HTML and returns feed URLs from
// <link rel="alternate"> tags.
func extractFeedLinks(baseURL, body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find(`link[rel="alternate"]`).Each(func(_ int, sel *goquery.Selection) {
		linkType, _ := sel.Attr("type")
		if !isFeedType(linkType) {
			return
		}
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if resolved := resolveURL(baseURL, href); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links
}

// fetchFeed retrieves and parses one feed URL.
func (s *FeedStrategy) fetchFeed(ctx context.Context, feedURL string) ([]*gofeed.Item, error) {
	resp, err := s.fetcher.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, discovery.NewHTTPError(feedURL, resp.StatusCode)
	}

	parsed, err := s.parser.ParseString(resp.Body)
	if err != nil {
		return nil, discovery.NewParseError(feedURL, err)
	}
	return parsed.Items, nil
}

// toCandidates converts feed items to raw candidates, capped at the
// per-run quota. Items without a usable link are skipped.
func (s *FeedStrategy) toCandidates(items []*gofeed.Item, feedURL string, quota int) []domain.RawCandidate {
	candidates := make([]domain.RawCandidate, 0, len(items))
	for _, item := range items {
		if quota > 0 && len(candidates) >= quota {
			break
		}
		link := extractItemLink(item)
		if link == "" {
			continue
		}
		candidates = append(candidates, domain.RawCandidate{
			URL:         link,
			Title:       item.Title,
			PublishedAt: itemPublishedAt(item),
			Method:      domain.MethodRSS,
			Metadata:    map[string]any{"feed_url": feedURL},
		})
	}
	return candidates
}

// extractItemLink returns the best available URL from a feed entry,
// preferring the explicit link and falling back to an http GUID.
func extractItemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if strings.HasPrefix(item.GUID, "http") {
		return item.GUID
	}
	return ""
}

// itemPublishedAt returns the entry's publish timestamp as a string,
// preferring parsed times rendered as RFC3339 and falling back to the
// raw feed value.
func itemPublishedAt(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Format(time.RFC3339)
	case item.Published != "":
		return item.Published
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Format(time.RFC3339)
	default:
		return item.Updated
	}
}

// isFeedType checks if a link type attribute indicates an RSS or Atom
// feed.
func isFeedType(linkType string) bool {
	return strings.Contains(linkType, rssXMLType) || strings.Contains(linkType, atomXMLType)
}

// resolveURL resolves a potentially relative href against a base URL.
func resolveURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
