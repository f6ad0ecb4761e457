package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpapi"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

// webhookNotifier posts alerts to a configured HTTP endpoint.
type webhookNotifier struct {
	id      string
	typ     string
	url     string
	method  httpapi.Method
	headers map[string]string
	client  httpclient.Client
	log     Logger
}

// newWebhookNotifier creates a webhook notifier from the sink config.
func newWebhookNotifier(_ context.Context, cfg SinkConfig, log Logger) (Notifier, error) {
	if cfg.Webhook == nil {
		return nil, fmt.Errorf("sink %q missing webhook configuration", cfg.ID)
	}

	timeout := time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second

	return &webhookNotifier{
		id:      cfg.ID,
		typ:     cfg.Type,
		url:     cfg.Webhook.URL,
		method:  httpapi.Method(cfg.Webhook.Method),
		headers: cfg.Webhook.Headers,
		client:  httpclient.NewRestyClient(timeout),
		log:     ensureLogger(log),
	}, nil
}

func (n *webhookNotifier) ID() string   { return n.id }
func (n *webhookNotifier) Type() string { return n.typ }

// Notify posts the alert as a JSON document to the webhook URL.
func (n *webhookNotifier) Notify(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	headers := make(map[string]string, len(n.headers)+1)
	maps.Copy(headers, n.headers)
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}

	req := &httpapi.Prepared{
		URL:     n.url,
		Method:  n.method,
		Headers: headers,
		Body:    payload,
	}

	resp, err := n.client.Do(ctx, req)
	if err != nil {
		n.log.ErrorObj("webhook sink send failed", "sink_webhook_error", map[string]any{
			"error": err.Error(),
			"url":   n.url,
		})
		return fmt.Errorf("send alert to webhook: %w", err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 512 {
			snippet = snippet[:512] + "..."
		}
		return fmt.Errorf("webhook returned status %d body: %s", resp.StatusCode(), snippet)
	}

	n.log.DebugObj("webhook sink delivered alert", "sink_webhook_delivery", map[string]any{
		"url":         n.url,
		"http_status": resp.StatusCode(),
	})
	return nil
}
