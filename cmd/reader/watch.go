package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-news-reader/internal/alerts"
	"github.com/samvad-hq/samvad-news-reader/internal/reader"
)

var watchFlags struct {
	interval   time.Duration
	categories []string
	country    string
	alertsFile string
	alertFirst bool
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll headlines and push alerts for new articles",
	Long: `watch polls top headlines for the configured categories and remembers which
articles it has seen. Each new article is pushed to every enabled sink from the
alerts file (webhooks or cloud queues). Runs until interrupted.`,
	Example: `  reader watch
  reader watch --interval 2m --categories business,technology
  reader watch --alerts alerts.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := app.apiClient()
		if err != nil {
			return err
		}
		store, err := app.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := app.service(api, store)

		notifiers, err := buildNotifiers(cmd.Context())
		if err != nil {
			return err
		}
		if len(notifiers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No alert sinks configured; new articles will only be logged.")
		}

		opts := watchOptions()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err = svc.Watch(ctx, opts, notifiers)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// watchOptions merges config values with flag overrides.
func watchOptions() reader.WatchOptions {
	cfg := app.cfg

	opts := reader.WatchOptions{
		Interval:      time.Duration(cfg.Watch.IntervalSeconds) * time.Second,
		Categories:    cfg.Watch.Categories,
		Country:       cfg.Watch.Country,
		PageSize:      cfg.API.PageSize,
		SkipInitial:   cfg.Watch.SkipInitial,
		SeenRetention: time.Duration(cfg.Watch.SeenRetentionDays) * 24 * time.Hour,
	}

	if watchFlags.interval > 0 {
		opts.Interval = watchFlags.interval
	}
	if len(watchFlags.categories) > 0 {
		opts.Categories = watchFlags.categories
	}
	if watchFlags.country != "" {
		opts.Country = watchFlags.country
	}
	if watchFlags.alertFirst {
		opts.SkipInitial = false
	}

	return opts
}

// buildNotifiers loads the sink registry and instantiates every enabled sink.
// No alerts file configured means no notifiers, which is fine.
func buildNotifiers(ctx context.Context) ([]alerts.Notifier, error) {
	path := watchFlags.alertsFile
	if path == "" {
		path = app.cfg.Alerts.File
	}
	if path == "" {
		return nil, nil
	}

	reg, err := alerts.LoadRegistry(path)
	if err != nil {
		return nil, err
	}

	return alerts.BuildAll(ctx, alerts.DefaultRegistry(), reg.Enabled(), app.log)
}

func init() {
	f := watchCmd.Flags()
	f.DurationVar(&watchFlags.interval, "interval", 0, "poll interval (default from config)")
	f.StringSliceVar(&watchFlags.categories, "categories", nil, "categories to watch (default from config)")
	f.StringVar(&watchFlags.country, "country", "", "two-letter country code (default from config)")
	f.StringVar(&watchFlags.alertsFile, "alerts", "", "sink definitions file (default from config)")
	f.BoolVar(&watchFlags.alertFirst, "alert-first-poll", false, "alert on the first poll instead of treating it as a baseline")

	rootCmd.AddCommand(watchCmd)
}
