package strategy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jonesrussell/godiscover/internal/discovery"
	"github.com/jonesrussell/godiscover/internal/domain"
	"github.com/jonesrussell/godiscover/internal/strategy"
)

func TestIsArticleURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
		want bool
	}{
		{
			name: "slug under news section",
			url:  "https://example.com/news/city-council-votes-tonight",
			want: true,
		},
		{
			name: "date based path",
			url:  "https://example.com/2026/02/10/budget-announcement",
			want: true,
		},
		{
			name: "date path without day",
			url:  "https://example.com/blog/2026/02/budget-announcement",
			want: true,
		},
		{
			name: "long root level slug",
			url:  "https://example.com/breaking-news-at-city-hall",
			want: true,
		},
		{
			name: "long slug in unknown section",
			url:  "https://example.com/x/y/this-is-a-long-headline-slug",
			want: true,
		},
		{
			name: "mixed case section and slug",
			url:  "https://example.com/News/City-Council-Votes-For-Budget",
			want: true,
		},
		{
			name: "section index page",
			url:  "https://example.com/news",
			want: false,
		},
		{
			name: "section index with trailing slash",
			url:  "https://example.com/news/",
			want: false,
		},
		{
			name: "homepage",
			url:  "https://example.com/",
			want: false,
		},
		{
			name: "about page",
			url:  "https://example.com/about",
			want: false,
		},
		{
			name: "tag listing",
			url:  "https://example.com/tag/politics",
			want: false,
		},
		{
			name: "short root level slug",
			url:  "https://example.com/contact-us",
			want: false,
		},
		{
			name: "asset file under article section",
			url:  "https://example.com/news/report.pdf",
			want: false,
		},
		{
			name: "image file",
			url:  "https://example.com/assets/logo.png",
			want: false,
		},
		{
			name: "short deep path",
			url:  "https://example.com/x/y",
			want: false,
		},
		{
			name: "feed path",
			url:  "https://example.com/feed",
			want: false,
		},
		{
			name: "unparseable url",
			url:  "://bad",
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := strategy.IsArticleURL(tc.url); got != tc.want {
				t.Errorf("IsArticleURL(%q) = %v, want %v", tc.url, got, tc.want)
			}
		})
	}
}

func TestClassifierStrategy_CannotEnumerate(t *testing.T) {
	t.Parallel()

	strat := strategy.NewClassifierStrategy()
	assertEqual(t, domain.MethodClassifier, strat.Method())

	_, err := strat.Discover(context.Background(), discovery.DiscoverRequest{})
	if !errors.Is(err, discovery.ErrCannotEnumerate) {
		t.Errorf("expected ErrCannotEnumerate, got %v", err)
	}
}
