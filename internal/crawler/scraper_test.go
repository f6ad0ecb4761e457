package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpapi"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

type fakePage struct {
	status int
	body   string
}

type fakeClient struct {
	pages map[string]fakePage
}

func (c *fakeClient) Get(ctx context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	page, ok := c.pages[url]
	if !ok {
		return nil, errors.New("unexpected url " + url)
	}
	return fakeResponse{page: page}, nil
}

func (c *fakeClient) Do(ctx context.Context, req *httpapi.Prepared) (httpclient.Response, error) {
	return nil, errors.New("do is not used by the scraper")
}

type fakeResponse struct{ page fakePage }

func (r fakeResponse) Body() []byte    { return []byte(r.page.body) }
func (r fakeResponse) StatusCode() int { return r.page.status }

const richPage = `<!DOCTYPE html>
<html><head>
<title>Fallback title | Site</title>
<meta property="og:title" content="Budget session opens today">
<meta property="og:description" content="Parliament convenes for the budget session.">
<meta property="og:image" content="/img/parliament.jpg">
<meta property="og:site_name" content="The Hindu">
<meta property="article:published_time" content="2025-02-01T09:00:00Z">
</head><body></body></html>`

func TestScraper_EnrichOne(t *testing.T) {
	client := &fakeClient{pages: map[string]fakePage{
		"https://example.com/news/budget": {status: 200, body: richPage},
	}}
	s := NewScraper(client, nil)

	art := domain.Article{
		ID:  domain.ArticleID("https://example.com/news/budget"),
		URL: "https://example.com/news/budget",
	}
	got, err := s.EnrichOne(context.Background(), ScrapeConfig{}, art)
	if err != nil {
		t.Fatalf("EnrichOne() error = %v", err)
	}

	if got.Title != "Budget session opens today" {
		t.Errorf("Title = %q, want the og:title", got.Title)
	}
	if got.Description != "Parliament convenes for the budget session." {
		t.Errorf("Description = %q, want the og:description", got.Description)
	}
	if got.ImageURL != "https://example.com/img/parliament.jpg" {
		t.Errorf("ImageURL = %q, want the resolved og:image", got.ImageURL)
	}
	if got.SourceName != "The Hindu" {
		t.Errorf("SourceName = %q, want the og:site_name", got.SourceName)
	}
	if want := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC); !got.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, want)
	}
}

func TestScraper_EnrichOneKeepsExistingFields(t *testing.T) {
	client := &fakeClient{pages: map[string]fakePage{
		"https://example.com/news/budget": {status: 200, body: richPage},
	}}
	s := NewScraper(client, nil)

	published := time.Date(2025, 1, 31, 18, 0, 0, 0, time.UTC)
	art := domain.Article{
		URL:         "https://example.com/news/budget",
		SourceName:  "PTI Wire",
		PublishedAt: published,
	}
	got, err := s.EnrichOne(context.Background(), ScrapeConfig{}, art)
	if err != nil {
		t.Fatalf("EnrichOne() error = %v", err)
	}

	if got.SourceName != "PTI Wire" {
		t.Errorf("SourceName = %q, want the existing value kept", got.SourceName)
	}
	if !got.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want the existing value kept", got.PublishedAt)
	}
	if got.Title != "Budget session opens today" {
		t.Errorf("Title = %q, want the scraped title to still apply", got.Title)
	}
}

func TestScraper_EnrichKeepsOriginalOnFailure(t *testing.T) {
	client := &fakeClient{pages: map[string]fakePage{
		"https://example.com/ok":   {status: 200, body: richPage},
		"https://example.com/gone": {status: 404, body: "not found"},
	}}
	s := NewScraper(client, nil)

	articles := []domain.Article{
		{URL: "https://example.com/ok", Title: "stub"},
		{URL: "https://example.com/gone", Title: "original headline"},
	}
	out := s.Enrich(context.Background(), ScrapeConfig{}, articles)

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0].Title != "Budget session opens today" {
		t.Errorf("out[0].Title = %q, want the scraped title", out[0].Title)
	}
	if out[1].Title != "original headline" {
		t.Errorf("out[1].Title = %q, want the original kept on failure", out[1].Title)
	}
}

func TestScraper_EnrichEmptyInput(t *testing.T) {
	s := NewScraper(&fakeClient{}, nil)

	out := s.Enrich(context.Background(), ScrapeConfig{}, nil)
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
}

func TestScraper_EnrichCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScraper(&fakeClient{}, nil)
	articles := []domain.Article{{URL: "https://example.com/never", Title: "untouched"}}

	out := s.Enrich(ctx, ScrapeConfig{Delay: 50 * time.Millisecond}, articles)
	if len(out) != 1 || out[0].Title != "untouched" {
		t.Errorf("out = %+v, want originals back on cancel", out)
	}
}

func TestParseMeta_Fallbacks(t *testing.T) {
	page := `<html><head>
<title>  Plain page title  </title>
<meta name="description" content="plain description">
</head></html>`

	meta, err := parseMeta([]byte(page))
	if err != nil {
		t.Fatalf("parseMeta() error = %v", err)
	}
	if meta.Title != "Plain page title" {
		t.Errorf("Title = %q, want the <title> fallback", meta.Title)
	}
	if meta.Description != "plain description" {
		t.Errorf("Description = %q, want the meta description fallback", meta.Description)
	}
	if meta.SiteName != "" || !meta.PublishedAt.IsZero() {
		t.Errorf("meta = %+v, want no site name or timestamp", meta)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		base string
		want string
	}{
		{"absolute stays", "https://cdn.example.com/a.jpg", "https://example.com/x", "https://cdn.example.com/a.jpg"},
		{"relative resolves", "/img/a.jpg", "https://example.com/news/story", "https://example.com/img/a.jpg"},
		{"empty stays empty", "", "https://example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveURL(tt.raw, tt.base); got != tt.want {
				t.Errorf("resolveURL(%q, %q) = %q, want %q", tt.raw, tt.base, got, tt.want)
			}
		})
	}
}
