package alerts

import (
	"context"
	"errors"
	"testing"
)

type stubNotifier struct {
	id     string
	typ    string
	alerts []Alert
	err    error
}

func (s *stubNotifier) ID() string   { return s.id }
func (s *stubNotifier) Type() string { return s.typ }

func (s *stubNotifier) Notify(ctx context.Context, alert Alert) error {
	s.alerts = append(s.alerts, alert)
	return s.err
}

func TestRegistry_Dispatch(t *testing.T) {
	built := 0
	reg := NewRegistry(map[string]Builder{
		"stub": func(ctx context.Context, cfg SinkConfig, log Logger) (Notifier, error) {
			built++
			return &stubNotifier{id: cfg.ID, typ: cfg.Type}, nil
		},
	})

	n, err := reg.NotifierFor(context.Background(), SinkConfig{ID: "a", Type: "stub"}, nil)
	if err != nil {
		t.Fatalf("NotifierFor() error = %v", err)
	}
	if n.ID() != "a" || built != 1 {
		t.Errorf("built notifier = %q (builds %d), want a built once", n.ID(), built)
	}

	if _, err := reg.NotifierFor(context.Background(), SinkConfig{ID: "b", Type: "smoke-signal"}, nil); err == nil {
		t.Error("NotifierFor() error = nil for an unregistered type, want one")
	}
	if _, err := reg.NotifierFor(context.Background(), SinkConfig{ID: "c"}, nil); err == nil {
		t.Error("NotifierFor() error = nil for an empty type, want one")
	}
}

func TestDefaultRegistry_BuildsWebhook(t *testing.T) {
	reg := DefaultRegistry()

	n, err := reg.NotifierFor(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeWebhook,
		Webhook: &WebhookSinkConfig{
			URL:            "https://hooks.example.com/news",
			Method:         "POST",
			TimeoutSeconds: 5,
		},
	}, nil)
	if err != nil {
		t.Fatalf("NotifierFor(webhook) error = %v", err)
	}
	if n.ID() != "hook" || n.Type() != TypeWebhook {
		t.Errorf("notifier = %s/%s, want hook/webhook", n.ID(), n.Type())
	}
}

func TestBuildAll(t *testing.T) {
	reg := NewRegistry(map[string]Builder{
		"stub": func(ctx context.Context, cfg SinkConfig, log Logger) (Notifier, error) {
			if cfg.ID == "broken" {
				return nil, errors.New("cannot build")
			}
			return &stubNotifier{id: cfg.ID, typ: cfg.Type}, nil
		},
	})

	notifiers, err := BuildAll(context.Background(), reg, []SinkConfig{
		{ID: "one", Type: "stub"},
		{ID: "two", Type: "stub"},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll() error = %v", err)
	}
	if len(notifiers) != 2 {
		t.Errorf("len(notifiers) = %d, want 2", len(notifiers))
	}

	if _, err := BuildAll(context.Background(), reg, []SinkConfig{{ID: "broken", Type: "stub"}}, nil); err == nil {
		t.Error("BuildAll() error = nil, want the builder failure surfaced")
	}

	none, err := BuildAll(context.Background(), reg, nil, nil)
	if err != nil || none != nil {
		t.Errorf("BuildAll(no configs) = %v, %v, want nil, nil", none, err)
	}
}
