package newsapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

const statusOK = "ok"

// envelope is the status frame present in every news API response.
type envelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e envelope) env() envelope { return e }

// enveloped lets call decoding inspect the status frame of any payload.
type enveloped interface {
	env() envelope
}

// articlesPayload is the wire shape of top-headlines and everything responses.
type articlesPayload struct {
	envelope
	TotalResults int              `json:"totalResults"`
	Articles     []articlePayload `json:"articles"`
}

type articlePayload struct {
	Source      sourceRefPayload `json:"source"`
	Author      string           `json:"author"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	URL         string           `json:"url"`
	URLToImage  string           `json:"urlToImage"`
	PublishedAt string           `json:"publishedAt"`
	Content     string           `json:"content"`
}

type sourceRefPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// sourcesPayload is the wire shape of the source directory response.
type sourcesPayload struct {
	envelope
	Sources []sourcePayload `json:"sources"`
}

type sourcePayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Language    string `json:"language"`
	Country     string `json:"country"`
}

// buildArticles maps wire articles to domain values, skipping entries with no
// usable URL.
func buildArticles(payloads []articlePayload) []domain.Article {
	articles := make([]domain.Article, 0, len(payloads))
	for _, p := range payloads {
		loc := strings.TrimSpace(p.URL)
		if loc == "" {
			continue
		}

		articles = append(articles, domain.Article{
			ID:          domain.ArticleID(loc),
			SourceID:    strings.TrimSpace(p.Source.ID),
			SourceName:  strings.TrimSpace(p.Source.Name),
			Author:      strings.TrimSpace(p.Author),
			Title:       strings.TrimSpace(p.Title),
			Description: strings.TrimSpace(p.Description),
			URL:         loc,
			ImageURL:    strings.TrimSpace(p.URLToImage),
			Content:     p.Content,
			PublishedAt: parsePublishedAt(p.PublishedAt),
		})
	}
	return articles
}

// buildSources maps wire sources to domain values.
func buildSources(payloads []sourcePayload) []domain.Source {
	sources := make([]domain.Source, 0, len(payloads))
	for _, p := range payloads {
		if strings.TrimSpace(p.ID) == "" && strings.TrimSpace(p.Name) == "" {
			continue
		}

		sources = append(sources, domain.Source{
			ID:          strings.TrimSpace(p.ID),
			Name:        strings.TrimSpace(p.Name),
			Description: strings.TrimSpace(p.Description),
			URL:         strings.TrimSpace(p.URL),
			Category:    strings.TrimSpace(p.Category),
			Language:    strings.TrimSpace(p.Language),
			Country:     strings.TrimSpace(p.Country),
		})
	}
	return sources
}

// parsePublishedAt attempts to parse the API's RFC3339 timestamps.
func parsePublishedAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}

	return time.Time{}
}

// responseSnippet returns a truncated snippet of the response body for error
// messages.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// APIError is the failure envelope the news API returns when a call is
// rejected (bad key, rate limit, invalid parameter).
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("news api error %s (http %d): %s", e.Code, e.HTTPStatus, e.Message)
}
