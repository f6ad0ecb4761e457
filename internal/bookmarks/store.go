package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

var (
	bucketBookmarks = []byte("bookmarks")
	bucketSeen      = []byte("seen")
)

// ErrNotFound is returned when no bookmark exists under the requested id.
var ErrNotFound = errors.New("bookmark not found")

// Store persists bookmarks and the watcher's seen-article index in a local
// bolt database. A Store is safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Open opens the database at path, creating file and buckets as needed.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bookmark store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketBookmarks, bucketSeen} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// storedBookmark is the on-disk record. Kept flat so exported files and the
// database share one shape.
type storedBookmark struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id,omitempty"`
	SourceName  string    `json:"source_name,omitempty"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	Content     string    `json:"content,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	SavedAt     time.Time `json:"saved_at"`
}

func toStored(b domain.Bookmark) storedBookmark {
	return storedBookmark{
		ID:          b.Article.ID,
		SourceID:    b.Article.SourceID,
		SourceName:  b.Article.SourceName,
		Author:      b.Article.Author,
		Title:       b.Article.Title,
		Description: b.Article.Description,
		URL:         b.Article.URL,
		ImageURL:    b.Article.ImageURL,
		Content:     b.Article.Content,
		PublishedAt: b.Article.PublishedAt,
		SavedAt:     b.SavedAt,
	}
}

func (r storedBookmark) bookmark() domain.Bookmark {
	return domain.Bookmark{
		Article: domain.Article{
			ID:          r.ID,
			SourceID:    r.SourceID,
			SourceName:  r.SourceName,
			Author:      r.Author,
			Title:       r.Title,
			Description: r.Description,
			URL:         r.URL,
			ImageURL:    r.ImageURL,
			Content:     r.Content,
			PublishedAt: r.PublishedAt,
		},
		SavedAt: r.SavedAt,
	}
}

// Save upserts the bookmark keyed by its article id. A zero SavedAt is
// stamped with the current time.
func (s *Store) Save(b domain.Bookmark) error {
	if b.Article.ID == "" {
		return errors.New("bookmark has no article id")
	}
	if b.SavedAt.IsZero() {
		b.SavedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(toStored(b))
	if err != nil {
		return fmt.Errorf("encode bookmark: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBookmarks).Put([]byte(b.Article.ID), raw)
	})
}

// Get returns the bookmark stored under id, or ErrNotFound.
func (s *Store) Get(id string) (domain.Bookmark, error) {
	var rec storedBookmark
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketBookmarks).Get([]byte(id))
		if raw == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("decode bookmark %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return domain.Bookmark{}, err
	}
	return rec.bookmark(), nil
}

// Delete removes the bookmark stored under id, or returns ErrNotFound.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBookmarks)
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

// All returns every bookmark, most recently saved first.
func (s *Store) All() ([]domain.Bookmark, error) {
	var out []domain.Bookmark
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBookmarks).ForEach(func(_, raw []byte) error {
			var rec storedBookmark
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("decode bookmark: %w", err)
			}
			out = append(out, rec.bookmark())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b domain.Bookmark) int {
		return b.SavedAt.Compare(a.SavedAt)
	})
	return out, nil
}

// MarkSeen records the article ids as already surfaced at the given time.
func (s *Store) MarkSeen(ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	stamp := []byte(at.UTC().Format(time.RFC3339))

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSeen)
		for _, id := range ids {
			if id == "" {
				continue
			}
			if err := b.Put([]byte(id), stamp); err != nil {
				return err
			}
		}
		return nil
	})
}

// WasSeen reports whether the article id has been surfaced before.
func (s *Store) WasSeen(id string) (bool, error) {
	var seen bool
	err := s.db.View(func(tx *bolt.Tx) error {
		seen = tx.Bucket(bucketSeen).Get([]byte(id)) != nil
		return nil
	})
	return seen, err
}

// PruneSeen drops seen entries recorded before the cutoff and reports how
// many were removed. Entries with unreadable stamps are dropped too.
func (s *Store) PruneSeen(before time.Time) (int, error) {
	cutoff := before.UTC()

	var pruned int
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSeen)

		// Mutating inside ForEach is undefined, so collect first.
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			ts, err := time.Parse(time.RFC3339, string(v))
			if err != nil || ts.Before(cutoff) {
				stale = append(stale, slices.Clone(k))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		pruned = len(stale)
		return nil
	})
	return pruned, err
}
