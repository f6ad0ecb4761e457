package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-news-reader/internal/bookmarks"
	"github.com/samvad-hq/samvad-news-reader/internal/config"
	"github.com/samvad-hq/samvad-news-reader/internal/crawler"
	"github.com/samvad-hq/samvad-news-reader/internal/logger"
	"github.com/samvad-hq/samvad-news-reader/internal/reader"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
	"github.com/samvad-hq/samvad-news-reader/pkg/newsapi"
)

var (
	cfgFile string

	app = &application{}

	rootCmd = &cobra.Command{
		Use:   "reader",
		Short: "Read, search, and follow the news from your terminal",
		Long: `reader pulls headlines and archive searches from the news API, keeps
bookmarks in a local database for offline reading, and can watch categories in
the background, pushing alerts for new articles to configured sinks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cfgFile)
		},
	}
)

// application carries state shared by every subcommand.
type application struct {
	cfg config.Config
	log logger.Logger
}

// init loads .env, the config file, and the logger, in that order so .env
// values are visible to the config loader.
func (a *application) init(cfgPath string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// apiClient builds the news API client, failing early when no key is set.
func (a *application) apiClient() (*newsapi.Client, error) {
	if a.cfg.API.Key == "" {
		return nil, errors.New("news api key missing: set NEWSREADER_API_KEY or api.key in the config file")
	}

	hc := httpclient.NewRestyClient(time.Duration(a.cfg.API.TimeoutSeconds) * time.Second)
	return newsapi.New(a.cfg.RequestConfig(), hc, a.log), nil
}

// openStore opens the bookmark database configured under storage.path.
func (a *application) openStore() (*bookmarks.Store, error) {
	return bookmarks.Open(a.cfg.Storage.Path)
}

func (a *application) scrapeConfig() crawler.ScrapeConfig {
	return crawler.ScrapeConfig{
		Headers: map[string]string{"User-Agent": a.cfg.Scrape.UserAgent},
		Delay:   time.Duration(a.cfg.Scrape.DelayMS) * time.Millisecond,
	}
}

func (a *application) serviceOptions() reader.Options {
	return reader.Options{
		DefaultCountry:  a.cfg.API.Country,
		DefaultPageSize: a.cfg.API.PageSize,
		ScrapeEnabled:   a.cfg.Scrape.EnabledValue(),
		Scrape:          a.scrapeConfig(),
	}
}

// service assembles the reader service. Store may be nil for commands that
// never touch bookmarks.
func (a *application) service(api reader.NewsAPI, store *bookmarks.Store) *reader.Service {
	scraper := crawler.NewScraper(nil, a.log)
	return reader.NewService(api, store, scraper, a.serviceOptions(), a.log)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, then $HOME/.newsreader/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
