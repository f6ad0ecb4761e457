package reader

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// exportRecord is the serialized shape of one bookmark in export files.
type exportRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	URL         string    `json:"url" yaml:"url"`
	Source      string    `json:"source,omitempty" yaml:"source,omitempty"`
	Author      string    `json:"author,omitempty" yaml:"author,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	SavedAt     time.Time `json:"saved_at" yaml:"saved_at"`
}

type exportFile struct {
	Bookmarks []exportRecord `json:"bookmarks" yaml:"bookmarks"`
}

func toExportRecord(b domain.Bookmark) exportRecord {
	return exportRecord{
		ID:          b.Article.ID,
		Title:       b.Article.Title,
		URL:         b.Article.URL,
		Source:      b.Article.SourceName,
		Author:      b.Article.Author,
		Description: b.Article.Description,
		PublishedAt: b.Article.PublishedAt,
		SavedAt:     b.SavedAt,
	}
}

// ExportBookmarks writes all bookmarks to w in the given format (yaml or
// json, yaml when empty) and reports how many were written.
func (s *Service) ExportBookmarks(w io.Writer, format string) (int, error) {
	all, err := s.store.All()
	if err != nil {
		return 0, fmt.Errorf("load bookmarks: %w", err)
	}

	payload := exportFile{Bookmarks: make([]exportRecord, len(all))}
	for i, b := range all {
		payload.Bookmarks[i] = toExportRecord(b)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return 0, fmt.Errorf("encode yaml export: %w", err)
		}
		if err := enc.Close(); err != nil {
			return 0, fmt.Errorf("finish yaml export: %w", err)
		}
	case "json":
		raw, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("encode json export: %w", err)
		}
		raw = append(raw, '\n')
		if _, err := w.Write(raw); err != nil {
			return 0, fmt.Errorf("write json export: %w", err)
		}
	default:
		return 0, fmt.Errorf("export format %q not supported (expected yaml or json)", format)
	}

	return len(all), nil
}
