package reader

import (
	"context"
	"errors"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/alerts"
	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/pkg/newsapi"
)

// WatchOptions tunes the polling watcher.
type WatchOptions struct {
	Interval   time.Duration
	Categories []string
	Country    string
	PageSize   int
	// SkipInitial marks the first poll's articles as seen without alerting,
	// so a fresh start does not flood sinks with old headlines.
	SkipInitial bool
	// SeenRetention bounds how long surfaced article ids are remembered.
	// Zero disables pruning.
	SeenRetention time.Duration
}

// Watch polls headlines on the interval and pushes an alert to every notifier
// for each article it has not surfaced before. It blocks until the context is
// cancelled.
func (s *Service) Watch(ctx context.Context, opts WatchOptions, notifiers []alerts.Notifier) error {
	if opts.Interval <= 0 {
		return errors.New("watch interval must be positive")
	}
	if len(opts.Categories) == 0 {
		opts.Categories = []string{""}
	}

	s.log.InfoObj("watch started", "watch_start", map[string]any{
		"interval_seconds": int(opts.Interval.Seconds()),
		"categories":       opts.Categories,
		"sinks":            len(notifiers),
	})

	initial := notifiers
	if opts.SkipInitial {
		initial = nil
	}
	s.pollOnce(ctx, opts, initial)

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("watch stopped", "watch_stop", nil)
			return ctx.Err()
		case <-ticker.C:
			s.pollOnce(ctx, opts, notifiers)
			s.pruneSeen(opts.SeenRetention)
		}
	}
}

// pollOnce fetches each category once and dispatches alerts for unseen
// articles. With no notifiers it still marks articles seen, which is how the
// initial baseline poll works.
func (s *Service) pollOnce(ctx context.Context, opts WatchOptions, notifiers []alerts.Notifier) {
	now := time.Now().UTC()

	for _, category := range opts.Categories {
		if ctx.Err() != nil {
			return
		}

		articles, _, err := s.api.TopHeadlines(ctx, newsapi.TopHeadlinesParams{
			Country:  opts.Country,
			Category: category,
			PageSize: opts.PageSize,
		})
		if err != nil {
			s.log.ErrorObj("watch poll failed", "watch_poll_error", map[string]any{
				"category": category,
				"error":    err.Error(),
			})
			continue
		}

		fresh := s.unseen(articles)
		if len(fresh) == 0 {
			continue
		}

		ids := make([]string, len(fresh))
		for i, art := range fresh {
			ids[i] = art.ID
		}
		if err := s.store.MarkSeen(ids, now); err != nil {
			s.log.ErrorObj("watch seen index update failed", "watch_seen_error", map[string]any{
				"category": category,
				"error":    err.Error(),
			})
		}

		if len(notifiers) == 0 {
			continue
		}

		for _, art := range fresh {
			alert := alerts.NewAlert(art, category, now)
			for _, n := range notifiers {
				if err := n.Notify(ctx, alert); err != nil {
					s.log.ErrorObj("alert delivery failed", "watch_alert_error", map[string]any{
						"sink":       n.ID(),
						"article_id": art.ID,
						"error":      err.Error(),
					})
				}
			}
		}

		s.log.InfoObj("new articles surfaced", "watch_new_articles", map[string]any{
			"category": category,
			"count":    len(fresh),
		})
	}
}

// unseen filters out articles the seen index already holds.
func (s *Service) unseen(articles []domain.Article) []domain.Article {
	var fresh []domain.Article
	for _, art := range articles {
		if art.ID == "" {
			continue
		}
		seen, err := s.store.WasSeen(art.ID)
		if err != nil {
			s.log.ErrorObj("seen index lookup failed", "watch_seen_error", map[string]any{
				"article_id": art.ID,
				"error":      err.Error(),
			})
			continue
		}
		if !seen {
			fresh = append(fresh, art)
		}
	}
	return fresh
}

func (s *Service) pruneSeen(retention time.Duration) {
	if retention <= 0 {
		return
	}

	pruned, err := s.store.PruneSeen(time.Now().Add(-retention))
	if err != nil {
		s.log.ErrorObj("seen index prune failed", "watch_prune_error", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if pruned > 0 {
		s.log.DebugObj("seen index pruned", "watch_prune", map[string]any{
			"pruned": pruned,
		})
	}
}
