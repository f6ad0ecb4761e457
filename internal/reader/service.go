package reader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/bookmarks"
	"github.com/samvad-hq/samvad-news-reader/internal/crawler"
	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/internal/logger"
	"github.com/samvad-hq/samvad-news-reader/pkg/newsapi"
)

// NewsAPI is the slice of the news API client the service depends on.
type NewsAPI interface {
	TopHeadlines(ctx context.Context, p newsapi.TopHeadlinesParams) ([]domain.Article, int, error)
	Everything(ctx context.Context, p newsapi.EverythingParams) ([]domain.Article, int, error)
	Sources(ctx context.Context, p newsapi.SourcesParams) ([]domain.Source, error)
}

// Scraper enriches a single article from its page metadata.
type Scraper interface {
	EnrichOne(ctx context.Context, cfg crawler.ScrapeConfig, art domain.Article) (domain.Article, error)
}

// Options tunes service behavior.
type Options struct {
	DefaultCountry  string
	DefaultPageSize int
	ScrapeEnabled   bool
	Scrape          crawler.ScrapeConfig
}

// Service ties the news API, the bookmark store, and the page scraper into
// the operations the CLI exposes.
type Service struct {
	api     NewsAPI
	store   *bookmarks.Store
	scraper Scraper
	opts    Options
	log     logger.Logger
}

// NewService assembles a Service. A nil logger falls back to a silent one; a
// nil scraper disables enrichment regardless of options.
func NewService(api NewsAPI, store *bookmarks.Store, scraper Scraper, opts Options, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		api:     api,
		store:   store,
		scraper: scraper,
		opts:    opts,
		log:     log,
	}
}

// HeadlinesFilter narrows a headlines request. Zero values fall back to the
// service defaults.
type HeadlinesFilter struct {
	Country  string
	Category string
	Query    string
	Page     int
	PageSize int
}

// Headlines fetches current headlines for the filter.
func (s *Service) Headlines(ctx context.Context, f HeadlinesFilter) ([]domain.Article, int, error) {
	category := strings.ToLower(strings.TrimSpace(f.Category))
	if category != "" && !domain.ValidCategory(category) {
		return nil, 0, fmt.Errorf("category %q not recognized (known: %s)",
			f.Category, strings.Join(domain.Categories(), ", "))
	}

	country := strings.TrimSpace(f.Country)
	if country == "" {
		country = s.opts.DefaultCountry
	}
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = s.opts.DefaultPageSize
	}

	return s.api.TopHeadlines(ctx, newsapi.TopHeadlinesParams{
		Country:  country,
		Category: category,
		Query:    f.Query,
		Page:     f.Page,
		PageSize: pageSize,
	})
}

// SearchFilter narrows an archive search.
type SearchFilter struct {
	Query    string
	Language string
	SortBy   string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// Search queries the full article archive. The query is required.
func (s *Service) Search(ctx context.Context, f SearchFilter) ([]domain.Article, int, error) {
	if strings.TrimSpace(f.Query) == "" {
		return nil, 0, errors.New("search query is required")
	}

	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = s.opts.DefaultPageSize
	}

	return s.api.Everything(ctx, newsapi.EverythingParams{
		Query:    f.Query,
		Language: f.Language,
		SortBy:   f.SortBy,
		From:     f.From,
		To:       f.To,
		Page:     f.Page,
		PageSize: pageSize,
	})
}

// SourcesFilter narrows the source directory listing.
type SourcesFilter struct {
	Category string
	Language string
	Country  string
}

// Sources lists news outlets matching the filter.
func (s *Service) Sources(ctx context.Context, f SourcesFilter) ([]domain.Source, error) {
	category := strings.ToLower(strings.TrimSpace(f.Category))
	if category != "" && !domain.ValidCategory(category) {
		return nil, fmt.Errorf("category %q not recognized (known: %s)",
			f.Category, strings.Join(domain.Categories(), ", "))
	}

	return s.api.Sources(ctx, newsapi.SourcesParams{
		Category: category,
		Language: f.Language,
		Country:  f.Country,
	})
}

// Bookmark saves the article behind the URL for offline reading, enriching
// it from page metadata when scraping is enabled. Enrichment failures are
// logged and the bare bookmark is saved anyway.
func (s *Service) Bookmark(ctx context.Context, rawURL string) (domain.Bookmark, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return domain.Bookmark{}, fmt.Errorf("article url %q is not absolute", rawURL)
	}

	art := domain.Article{ID: domain.ArticleID(rawURL), URL: rawURL}
	if s.opts.ScrapeEnabled && s.scraper != nil {
		if enriched, err := s.scraper.EnrichOne(ctx, s.opts.Scrape, art); err != nil {
			s.log.WarnObj("bookmark enrichment failed", "bookmark_scrape_error", map[string]any{
				"url":   rawURL,
				"error": err.Error(),
			})
		} else {
			art = enriched
		}
	}

	bm := domain.Bookmark{Article: art, SavedAt: time.Now().UTC()}
	if err := s.store.Save(bm); err != nil {
		return domain.Bookmark{}, fmt.Errorf("save bookmark: %w", err)
	}

	s.log.InfoObj("bookmark saved", "bookmark_saved", map[string]any{
		"article_id": art.ID,
		"url":        rawURL,
	})
	return bm, nil
}

// SaveBookmark stores an article the caller already holds.
func (s *Service) SaveBookmark(art domain.Article) (domain.Bookmark, error) {
	if art.ID == "" && art.URL != "" {
		art.ID = domain.ArticleID(art.URL)
	}

	bm := domain.Bookmark{Article: art, SavedAt: time.Now().UTC()}
	if err := s.store.Save(bm); err != nil {
		return domain.Bookmark{}, fmt.Errorf("save bookmark: %w", err)
	}
	return bm, nil
}

// RemoveBookmark deletes a bookmark by article id or by its URL.
func (s *Service) RemoveBookmark(idOrURL string) error {
	key := strings.TrimSpace(idOrURL)
	if key == "" {
		return errors.New("bookmark id or url is required")
	}
	if strings.Contains(key, "://") {
		key = domain.ArticleID(key)
	}

	if err := s.store.Delete(key); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

// Bookmarks lists saved bookmarks, most recently saved first.
func (s *Service) Bookmarks() ([]domain.Bookmark, error) {
	return s.store.All()
}
