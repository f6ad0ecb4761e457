package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

const displayTimeLayout = "2006-01-02 15:04"

func printArticles(w io.Writer, articles []domain.Article, total int) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	if total > len(articles) {
		fmt.Fprintf(w, "Showing %d of %d articles.\n\n", len(articles), total)
	}

	for i, art := range articles {
		fmt.Fprintf(w, "%2d. %s\n", i+1, art.Title)
		if line := joinNonEmpty("  ", art.SourceName, formatTime(art.PublishedAt)); line != "" {
			fmt.Fprintf(w, "    %s\n", line)
		}
		fmt.Fprintf(w, "    %s\n", art.URL)
		if art.Description != "" {
			fmt.Fprintf(w, "    %s\n", art.Description)
		}
		fmt.Fprintln(w)
	}
}

func printSources(w io.Writer, sources []domain.Source) {
	if len(sources) == 0 {
		fmt.Fprintln(w, "No sources found.")
		return
	}

	for i, src := range sources {
		fmt.Fprintf(w, "%2d. %s (%s)\n", i+1, src.Name, src.ID)
		if line := joinNonEmpty("  ", src.Category, src.Language, src.Country); line != "" {
			fmt.Fprintf(w, "    %s\n", line)
		}
		if src.URL != "" {
			fmt.Fprintf(w, "    %s\n", src.URL)
		}
		if src.Description != "" {
			fmt.Fprintf(w, "    %s\n", src.Description)
		}
		fmt.Fprintln(w)
	}
}

func printBookmarks(w io.Writer, bookmarks []domain.Bookmark) {
	if len(bookmarks) == 0 {
		fmt.Fprintln(w, "No bookmarks saved.")
		return
	}

	for i, bm := range bookmarks {
		fmt.Fprintf(w, "%2d. %s\n", i+1, bm.Article.Title)
		fmt.Fprintf(w, "    saved %s  id %s\n", formatTime(bm.SavedAt), shortID(bm.Article.ID))
		fmt.Fprintf(w, "    %s\n", bm.Article.URL)
		fmt.Fprintln(w)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(displayTimeLayout)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
