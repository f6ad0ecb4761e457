package alerts

import (
	"context"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
)

// Alert is the payload dispatched to sinks when the watcher surfaces an
// article it has not seen before.
type Alert struct {
	ArticleID   string    `json:"article_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source,omitempty"`
	Category    string    `json:"category,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	DetectedAt  time.Time `json:"detected_at"`
}

// NewAlert builds the alert payload for a newly surfaced article.
func NewAlert(art domain.Article, category string, detectedAt time.Time) Alert {
	return Alert{
		ArticleID:   art.ID,
		Title:       art.Title,
		URL:         art.URL,
		Source:      art.SourceName,
		Category:    category,
		PublishedAt: art.PublishedAt,
		DetectedAt:  detectedAt.UTC(),
	}
}

// Notifier delivers alerts to one configured sink.
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, alert Alert) error
}

// Logger is the logging contract sinks need; the reader's structured logger
// satisfies it.
type Logger interface {
	DebugObj(msg, event string, obj map[string]any)
	ErrorObj(msg, event string, obj map[string]any)
}

type nopLogger struct{}

func (nopLogger) DebugObj(msg, event string, obj map[string]any) {}
func (nopLogger) ErrorObj(msg, event string, obj map[string]any) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}
