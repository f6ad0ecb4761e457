package config

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/viper"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpapi"
)

// Auth placement modes for the API key.
const (
	AuthHeader = "header"
	AuthQuery  = "query"
)

const (
	defaultBaseURL        = "https://newsapi.org/v2/"
	defaultUserAgent      = "samvad-news-reader/1.0"
	envPrefix             = "NEWSREADER"
	maxPageSize           = 100
	minWatchIntervalSecs  = 30
	defaultTimeoutSeconds = 15
)

// Config is the application configuration assembled from file, environment,
// and defaults.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Scrape  ScrapeConfig  `mapstructure:"scrape"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Alerts  AlertsConfig  `mapstructure:"alerts"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig configures the news API environment.
type APIConfig struct {
	BaseURL        string            `mapstructure:"base_url"`
	Key            string            `mapstructure:"key"`
	Auth           string            `mapstructure:"auth"`
	Country        string            `mapstructure:"country"`
	PageSize       int               `mapstructure:"page_size"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
	Headers        map[string]string `mapstructure:"headers"`
	Query          map[string]string `mapstructure:"query"`
}

// StorageConfig configures the local bookmark database.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// ScrapeConfig configures article page enrichment.
type ScrapeConfig struct {
	Enabled   *bool  `mapstructure:"enabled"`
	DelayMS   int    `mapstructure:"delay_ms"`
	UserAgent string `mapstructure:"user_agent"`
}

// EnabledValue returns the enabled flag defaulting to true.
func (c ScrapeConfig) EnabledValue() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// WatchConfig configures the polling watcher.
type WatchConfig struct {
	IntervalSeconds   int      `mapstructure:"interval_seconds"`
	Categories        []string `mapstructure:"categories"`
	Country           string   `mapstructure:"country"`
	SkipInitial       bool     `mapstructure:"skip_initial"`
	SeenRetentionDays int      `mapstructure:"seen_retention_days"`
}

// AlertsConfig points at the sink definitions file.
type AlertsConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the given file (or the default search path
// when path is empty), environment variables, and built-in defaults.
// Environment variables use the NEWSREADER_ prefix, e.g. NEWSREADER_API_KEY.
func Load(path string) (Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.newsreader")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg = sanitize(cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// setDefaults registers every known key. Keys without a real default still
// get an empty one so AutomaticEnv can override them through Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", defaultBaseURL)
	v.SetDefault("api.key", "")
	v.SetDefault("api.auth", AuthHeader)
	v.SetDefault("api.country", "in")
	v.SetDefault("api.page_size", 20)
	v.SetDefault("api.timeout_seconds", defaultTimeoutSeconds)
	v.SetDefault("storage.path", "bookmarks.db")
	v.SetDefault("scrape.enabled", true)
	v.SetDefault("scrape.delay_ms", 250)
	v.SetDefault("scrape.user_agent", defaultUserAgent)
	v.SetDefault("watch.interval_seconds", 300)
	v.SetDefault("watch.categories", []string{"general"})
	v.SetDefault("watch.country", "")
	v.SetDefault("watch.skip_initial", true)
	v.SetDefault("watch.seen_retention_days", 14)
	v.SetDefault("alerts.file", "")
	v.SetDefault("log.level", "info")
}

// sanitize trims and normalizes fields after decoding.
func sanitize(cfg Config) Config {
	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	cfg.API.Key = strings.TrimSpace(cfg.API.Key)
	cfg.API.Auth = strings.ToLower(strings.TrimSpace(cfg.API.Auth))
	cfg.API.Country = strings.ToLower(strings.TrimSpace(cfg.API.Country))
	cfg.Storage.Path = strings.TrimSpace(cfg.Storage.Path)
	cfg.Scrape.UserAgent = strings.TrimSpace(cfg.Scrape.UserAgent)
	cfg.Watch.Country = strings.ToLower(strings.TrimSpace(cfg.Watch.Country))
	cfg.Alerts.File = strings.TrimSpace(cfg.Alerts.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultBaseURL
	}
	if cfg.API.Auth == "" {
		cfg.API.Auth = AuthHeader
	}
	if cfg.Watch.Country == "" {
		cfg.Watch.Country = cfg.API.Country
	}

	cats := make([]string, 0, len(cfg.Watch.Categories))
	for _, c := range cfg.Watch.Categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			cats = append(cats, c)
		}
	}
	cfg.Watch.Categories = cats

	return cfg
}

// validate checks ranges and enums. The API key is deliberately not required
// here so commands that never call the API keep working without one.
func validate(cfg Config) error {
	switch cfg.API.Auth {
	case AuthHeader, AuthQuery:
	default:
		return fmt.Errorf("api.auth %q not supported (expected %s or %s)", cfg.API.Auth, AuthHeader, AuthQuery)
	}
	if cfg.API.PageSize < 0 || cfg.API.PageSize > maxPageSize {
		return fmt.Errorf("api.page_size %d out of range (0..%d)", cfg.API.PageSize, maxPageSize)
	}
	if cfg.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds %d must be positive", cfg.API.TimeoutSeconds)
	}
	if cfg.Storage.Path == "" {
		return errors.New("storage.path is required")
	}
	if cfg.Scrape.DelayMS < 0 {
		return fmt.Errorf("scrape.delay_ms %d must not be negative", cfg.Scrape.DelayMS)
	}
	if cfg.Watch.IntervalSeconds < minWatchIntervalSecs {
		return fmt.Errorf("watch.interval_seconds %d below minimum %d", cfg.Watch.IntervalSeconds, minWatchIntervalSecs)
	}
	if cfg.Watch.SeenRetentionDays <= 0 {
		return fmt.Errorf("watch.seen_retention_days %d must be positive", cfg.Watch.SeenRetentionDays)
	}
	return nil
}

// RequestConfig materializes the API environment for the request builder.
// Each call returns fresh maps so callers cannot alias shared state.
func (c Config) RequestConfig() httpapi.Config {
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": defaultUserAgent,
	}
	maps.Copy(headers, c.API.Headers)

	query := make(map[string]string, len(c.API.Query)+1)
	maps.Copy(query, c.API.Query)

	if c.API.Key != "" {
		if c.API.Auth == AuthQuery {
			query["apiKey"] = c.API.Key
		} else {
			headers["X-Api-Key"] = c.API.Key
		}
	}

	return httpapi.Config{
		BaseURL: c.API.BaseURL,
		Headers: headers,
		Query:   query,
	}
}
