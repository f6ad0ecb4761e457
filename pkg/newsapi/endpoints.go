package newsapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpapi"
)

// Relative paths of the v2 news API operations.
const (
	pathTopHeadlines = "top-headlines"
	pathEverything   = "everything"
	pathSources      = "top-headlines/sources"
)

// TopHeadlinesParams narrows the live headline feed. Zero values are left out
// of the call entirely.
type TopHeadlinesParams struct {
	Country  string
	Category string
	Sources  []string
	Query    string
	Page     int
	PageSize int
}

func (p TopHeadlinesParams) query() map[string]string {
	q := make(map[string]string)
	setIfPresent(q, "country", p.Country)
	setIfPresent(q, "category", p.Category)
	setIfPresent(q, "sources", strings.Join(p.Sources, ","))
	setIfPresent(q, "q", p.Query)
	setIfPositive(q, "page", p.Page)
	setIfPositive(q, "pageSize", p.PageSize)
	return q
}

// TopHeadlinesRequest declares the live-headlines endpoint for the filter.
// Endpoints are plain descriptor values; pair one with an environment config
// through the builder to obtain a sendable request.
func TopHeadlinesRequest(p TopHeadlinesParams) httpapi.Request {
	return httpapi.NewRequest(pathTopHeadlines, httpapi.WithQuery(p.query()))
}

// EverythingParams searches the full article archive.
type EverythingParams struct {
	Query          string
	SearchIn       string
	Sources        []string
	Domains        []string
	ExcludeDomains []string
	From           time.Time
	To             time.Time
	Language       string
	SortBy         string
	Page           int
	PageSize       int
}

func (p EverythingParams) query() map[string]string {
	q := make(map[string]string)
	setIfPresent(q, "q", p.Query)
	setIfPresent(q, "searchIn", p.SearchIn)
	setIfPresent(q, "sources", strings.Join(p.Sources, ","))
	setIfPresent(q, "domains", strings.Join(p.Domains, ","))
	setIfPresent(q, "excludeDomains", strings.Join(p.ExcludeDomains, ","))
	if !p.From.IsZero() {
		q["from"] = p.From.UTC().Format(time.RFC3339)
	}
	if !p.To.IsZero() {
		q["to"] = p.To.UTC().Format(time.RFC3339)
	}
	setIfPresent(q, "language", p.Language)
	setIfPresent(q, "sortBy", p.SortBy)
	setIfPositive(q, "page", p.Page)
	setIfPositive(q, "pageSize", p.PageSize)
	return q
}

// EverythingRequest declares the archive-search endpoint for the filter.
func EverythingRequest(p EverythingParams) httpapi.Request {
	return httpapi.NewRequest(pathEverything, httpapi.WithQuery(p.query()))
}

// SourcesParams filters the source directory.
type SourcesParams struct {
	Category string
	Language string
	Country  string
}

func (p SourcesParams) query() map[string]string {
	q := make(map[string]string)
	setIfPresent(q, "category", p.Category)
	setIfPresent(q, "language", p.Language)
	setIfPresent(q, "country", p.Country)
	return q
}

// SourcesRequest declares the source-directory endpoint for the filter.
func SourcesRequest(p SourcesParams) httpapi.Request {
	return httpapi.NewRequest(pathSources, httpapi.WithQuery(p.query()))
}

func setIfPresent(q map[string]string, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		q[key] = v
	}
}

func setIfPositive(q map[string]string, key string, value int) {
	if value > 0 {
		q[key] = strconv.Itoa(value)
	}
}
