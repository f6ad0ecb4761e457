package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpapi"
	"github.com/samvad-hq/samvad-news-reader/pkg/httpclient"
)

type fakeHTTPClient struct {
	status int
	body   string
	err    error

	last *httpapi.Prepared
}

func (f *fakeHTTPClient) Get(ctx context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	return nil, errors.New("get is not used by the webhook sink")
}

func (f *fakeHTTPClient) Do(ctx context.Context, req *httpapi.Prepared) (httpclient.Response, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return fakeHTTPResponse{status: f.status, body: []byte(f.body)}, nil
}

type fakeHTTPResponse struct {
	status int
	body   []byte
}

func (r fakeHTTPResponse) Body() []byte    { return r.body }
func (r fakeHTTPResponse) StatusCode() int { return r.status }

func newTestWebhook(client httpclient.Client, headers map[string]string) *webhookNotifier {
	return &webhookNotifier{
		id:      "hook",
		typ:     TypeWebhook,
		url:     "https://hooks.example.com/news",
		method:  httpapi.MethodPost,
		headers: headers,
		client:  client,
		log:     nopLogger{},
	}
}

func TestWebhookNotifier_Notify(t *testing.T) {
	client := &fakeHTTPClient{status: 202}
	n := newTestWebhook(client, map[string]string{"Authorization": "Bearer abc"})

	alert := sampleAlert()
	if err := n.Notify(context.Background(), alert); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	req := client.last
	if req == nil {
		t.Fatal("webhook never sent a request")
	}
	if req.URL != "https://hooks.example.com/news" {
		t.Errorf("URL = %q, want the configured hook", req.URL)
	}
	if req.Method != httpapi.MethodPost {
		t.Errorf("Method = %q, want POST", req.Method)
	}
	if req.Headers["Authorization"] != "Bearer abc" {
		t.Errorf("Authorization = %q, want the configured header", req.Headers["Authorization"])
	}
	if req.Headers["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", req.Headers["Content-Type"])
	}

	var decoded Alert
	if err := json.Unmarshal(req.Body, &decoded); err != nil {
		t.Fatalf("body is not valid alert json: %v", err)
	}
	if decoded.ArticleID != alert.ArticleID || decoded.Title != alert.Title {
		t.Errorf("decoded = %+v, want the alert payload", decoded)
	}
}

func TestWebhookNotifier_KeepsConfiguredContentType(t *testing.T) {
	client := &fakeHTTPClient{status: 200}
	n := newTestWebhook(client, map[string]string{"Content-Type": "application/vnd.custom+json"})

	if err := n.Notify(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if got := client.last.Headers["Content-Type"]; got != "application/vnd.custom+json" {
		t.Errorf("Content-Type = %q, want the configured value kept", got)
	}
}

func TestWebhookNotifier_RejectedStatus(t *testing.T) {
	client := &fakeHTTPClient{status: 500, body: "upstream exploded"}
	n := newTestWebhook(client, nil)

	err := n.Notify(context.Background(), sampleAlert())
	if err == nil {
		t.Fatal("Notify() error = nil, want one for a 500")
	}
	if !strings.Contains(err.Error(), "status 500") || !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("error = %v, want the status and body snippet", err)
	}
}

func TestWebhookNotifier_TransportError(t *testing.T) {
	cause := errors.New("dial timeout")
	n := newTestWebhook(&fakeHTTPClient{err: cause}, nil)

	if err := n.Notify(context.Background(), sampleAlert()); !errors.Is(err, cause) {
		t.Errorf("error = %v, want it to wrap %v", err, cause)
	}
}

func TestNewWebhookNotifier_RequiresConfig(t *testing.T) {
	if _, err := newWebhookNotifier(context.Background(), SinkConfig{ID: "x", Type: TypeWebhook}, nil); err == nil {
		t.Error("newWebhookNotifier() error = nil without webhook config, want one")
	}
}
