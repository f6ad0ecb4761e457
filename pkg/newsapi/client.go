package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-reader/internal/domain"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpapi"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

// DefaultBaseURL is the production news API endpoint.
const DefaultBaseURL = "https://newsapi.org/v2/"

const defaultTimeout = 15 * time.Second

// Logger is the logging contract this package needs; the reader's structured
// logger satisfies it.
type Logger interface {
	DebugObj(msg, event string, obj map[string]any)
	WarnObj(msg, event string, obj map[string]any)
}

type nopLogger struct{}

func (nopLogger) DebugObj(msg, event string, obj map[string]any) {}
func (nopLogger) WarnObj(msg, event string, obj map[string]any)  {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}

// Client calls the news API with one environment configuration applied to
// every request. Methods are safe for concurrent use; the config is read,
// never written.
type Client struct {
	cfg     httpapi.Config
	builder *httpapi.Builder
	http    httpclient.Client
	log     Logger
}

// New builds a Client for the given environment. An empty base URL falls back
// to the production API, a nil transport to the default resty client, and a
// nil logger to a silent one.
func New(cfg httpapi.Config, hc httpclient.Client, log Logger) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = httpclient.NewRestyClient(defaultTimeout)
	}
	log = ensureLogger(log)

	return &Client{
		cfg:     cfg,
		builder: httpapi.NewBuilder(log),
		http:    hc,
		log:     log,
	}
}

// TopHeadlines returns the current headlines matching the filter together
// with the API's total result count.
func (c *Client) TopHeadlines(ctx context.Context, p TopHeadlinesParams) ([]domain.Article, int, error) {
	var payload articlesPayload
	if err := c.call(ctx, TopHeadlinesRequest(p), &payload); err != nil {
		return nil, 0, err
	}
	return buildArticles(payload.Articles), payload.TotalResults, nil
}

// Everything searches the full article archive.
func (c *Client) Everything(ctx context.Context, p EverythingParams) ([]domain.Article, int, error) {
	var payload articlesPayload
	if err := c.call(ctx, EverythingRequest(p), &payload); err != nil {
		return nil, 0, err
	}
	return buildArticles(payload.Articles), payload.TotalResults, nil
}

// Sources lists the outlets matching the filter.
func (c *Client) Sources(ctx context.Context, p SourcesParams) ([]domain.Source, error) {
	var payload sourcesPayload
	if err := c.call(ctx, SourcesRequest(p), &payload); err != nil {
		return nil, err
	}
	return buildSources(payload.Sources), nil
}

// call resolves the endpoint against the environment, sends it, and decodes
// the enveloped response into out.
func (c *Client) call(ctx context.Context, ep httpapi.Endpoint, out enveloped) error {
	prep, err := c.builder.Build(ep, c.cfg)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, prep)
	if err != nil {
		return fmt.Errorf("%s %s: %w", prep.Method, ep.Path(), err)
	}

	body := resp.Body()
	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("news api returned status %d body: %s", resp.StatusCode(), responseSnippet(body))
		}
		return fmt.Errorf("decode news api response: %w", err)
	}

	if env := out.env(); env.Status != statusOK {
		return &APIError{HTTPStatus: resp.StatusCode(), Code: env.Code, Message: env.Message}
	}

	c.log.DebugObj("news api call complete", "newsapi_call", map[string]any{
		"path":        ep.Path(),
		"http_status": resp.StatusCode(),
	})

	return nil
}
