package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"slices"
	"strings"
	"time"
)

// Domain contains the reader's core models.

type Article struct {
	ID          string
	SourceID    string
	SourceName  string
	Author      string
	Title       string
	Description string
	URL         string
	ImageURL    string
	Content     string
	PublishedAt time.Time
}

type Source struct {
	ID          string
	Name        string
	Description string
	URL         string
	Category    string
	Language    string
	Country     string
}

// Bookmark pairs an article with the time it was saved for offline reading.
type Bookmark struct {
	Article Article
	SavedAt time.Time
}

// ArticleID derives the stable article identifier from its URL.
func ArticleID(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// categories is the vocabulary the news API accepts for category filters.
var categories = []string{
	"business",
	"entertainment",
	"general",
	"health",
	"science",
	"sports",
	"technology",
}

// Categories returns the category vocabulary in a caller-owned slice.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// ValidCategory reports whether the value names a known category.
func ValidCategory(value string) bool {
	return slices.Contains(categories, strings.ToLower(strings.TrimSpace(value)))
}
