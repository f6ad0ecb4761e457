package httpapi

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// countingEncoder records how often Encode runs and can be told to fail.
type countingEncoder struct {
	calls int
	err   error
	out   []byte
}

func (e *countingEncoder) Encode(params map[string]string) ([]byte, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.out, nil
}

func (e *countingEncoder) ContentType() string { return "application/octet-stream" }

// recordingLogger captures builder diagnostics.
type recordingLogger struct {
	events []string
}

func (l *recordingLogger) DebugObj(msg, event string, obj map[string]any) {
	l.events = append(l.events, event)
}

func TestBuild_EndToEnd(t *testing.T) {
	ep := NewRequest("top-headlines",
		WithQueryParam("category", "business"),
	)
	cfg := Config{
		BaseURL: "https://newsapi.org/v2/",
		Headers: map[string]string{"Accept": "application/json"},
		Query:   map[string]string{"apiKey": "XYZ"},
	}

	prep, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if want := "https://newsapi.org/v2/top-headlines?category=business&apiKey=XYZ"; prep.URL != want {
		t.Errorf("URL = %q, want %q", prep.URL, want)
	}
	if prep.Method != MethodGet {
		t.Errorf("Method = %q, want %q", prep.Method, MethodGet)
	}
	if diff := cmp.Diff(map[string]string{"Accept": "application/json"}, prep.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
	if prep.Body != nil {
		t.Errorf("Body = %v, want nil", prep.Body)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	ep := NewRequest("everything",
		WithQuery(map[string]string{"q": "elections", "language": "en", "pageSize": "20"}),
		WithHeader("X-Trace", "abc"),
	)
	cfg := Config{
		BaseURL: "https://newsapi.org/v2",
		Headers: map[string]string{"Accept": "application/json", "User-Agent": "reader"},
		Query:   map[string]string{"apiKey": "XYZ"},
	}

	first, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("first Build returned error: %v", err)
	}

	for i := 0; i < 25; i++ {
		again, err := Build(ep, cfg)
		if err != nil {
			t.Fatalf("Build #%d returned error: %v", i+2, err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("Build #%d differs (-first +again):\n%s", i+2, diff)
		}
	}
}

func TestBuild_BaseURLNormalization(t *testing.T) {
	ep := NewRequest("top-headlines", WithQueryParam("country", "in"))

	withSlash, err := Build(ep, Config{BaseURL: "https://api.example.com/"})
	if err != nil {
		t.Fatalf("Build with trailing slash: %v", err)
	}
	withoutSlash, err := Build(ep, Config{BaseURL: "https://api.example.com"})
	if err != nil {
		t.Fatalf("Build without trailing slash: %v", err)
	}

	if withSlash.URL != withoutSlash.URL {
		t.Errorf("URLs differ: %q vs %q", withSlash.URL, withoutSlash.URL)
	}
	if want := "https://api.example.com/top-headlines?country=in"; withSlash.URL != want {
		t.Errorf("URL = %q, want %q", withSlash.URL, want)
	}
}

func TestBuild_HeaderPrecedence(t *testing.T) {
	ep := NewRequest("sources",
		WithHeader("X-Key", "call"),
		WithHeader("X-Call-Only", "1"),
	)
	cfg := Config{
		BaseURL: "https://api.example.com/",
		Headers: map[string]string{"X-Key": "env", "X-Env-Only": "1"},
	}

	prep, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	want := map[string]string{
		"X-Key":       "call",
		"X-Call-Only": "1",
		"X-Env-Only":  "1",
	}
	if diff := cmp.Diff(want, prep.Headers); diff != "" {
		t.Errorf("merged headers mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_QueryMergeKeepsDuplicates(t *testing.T) {
	ep := NewRequest("everything", WithQueryParam("q", "a"))
	cfg := Config{
		BaseURL: "https://api.example.com",
		Query:   map[string]string{"q": "b"},
	}

	prep, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if want := "https://api.example.com/everything?q=a&q=b"; prep.URL != want {
		t.Errorf("URL = %q, want %q", prep.URL, want)
	}
}

func TestBuild_QueryBlockOrder(t *testing.T) {
	// Call parameters come first sorted among themselves, then the
	// environment defaults sorted among themselves.
	ep := NewRequest("everything",
		WithQuery(map[string]string{"zz": "1", "aa": "2"}),
	)
	cfg := Config{
		BaseURL: "https://api.example.com",
		Query:   map[string]string{"mm": "3", "bb": "4"},
	}

	prep, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if want := "https://api.example.com/everything?aa=2&zz=1&bb=4&mm=3"; prep.URL != want {
		t.Errorf("URL = %q, want %q", prep.URL, want)
	}
}

func TestBuild_EmptyQueryOmitted(t *testing.T) {
	ep := NewRequest("top-headlines")
	cfg := Config{BaseURL: "https://api.example.com"}

	prep, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if strings.Contains(prep.URL, "?") {
		t.Errorf("URL %q carries a query component, want none", prep.URL)
	}
}

func TestBuild_QueryEscaping(t *testing.T) {
	ep := NewRequest("everything", WithQueryParam("q", "modi & budget 2025"))
	cfg := Config{BaseURL: "https://api.example.com"}

	prep, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if want := "https://api.example.com/everything?q=modi+%26+budget+2025"; prep.URL != want {
		t.Errorf("URL = %q, want %q", prep.URL, want)
	}
}

func TestBuild_NoBodySkipsEncoder(t *testing.T) {
	enc := &countingEncoder{out: []byte("unused")}
	ep := NewRequest("top-headlines", WithEncoder(enc))
	cfg := Config{BaseURL: "https://api.example.com"}

	prep, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if prep.Body != nil {
		t.Errorf("Body = %q, want nil", prep.Body)
	}
	if enc.calls != 0 {
		t.Errorf("encoder ran %d times, want 0", enc.calls)
	}
}

func TestBuild_BodyEncoded(t *testing.T) {
	enc := &countingEncoder{out: []byte(`payload`)}
	ep := NewRequest("watchlist",
		WithMethod(MethodPost),
		WithBody(map[string]string{"category": "science"}),
		WithEncoder(enc),
	)
	cfg := Config{BaseURL: "https://api.example.com"}

	prep, err := Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if string(prep.Body) != "payload" {
		t.Errorf("Body = %q, want %q", prep.Body, "payload")
	}
	if prep.Method != MethodPost {
		t.Errorf("Method = %q, want %q", prep.Method, MethodPost)
	}
	if enc.calls != 1 {
		t.Errorf("encoder ran %d times, want 1", enc.calls)
	}
}

func TestBuild_EncoderFailurePropagates(t *testing.T) {
	cause := errors.New("boom")
	enc := &countingEncoder{err: cause}
	ep := NewRequest("watchlist",
		WithMethod(MethodPost),
		WithBodyParam("category", "science"),
		WithEncoder(enc),
	)

	prep, err := Build(ep, Config{BaseURL: "https://api.example.com"})
	if prep != nil {
		t.Fatalf("Build returned a request alongside the error: %+v", prep)
	}
	if !errors.Is(err, ErrBodyEncoding) {
		t.Errorf("errors.Is(err, ErrBodyEncoding) = false, err = %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("encoder failure not in chain, err = %v", err)
	}
}

func TestBuild_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
	}{
		{name: "whitespace in host", base: "https://news api.org", path: "top-headlines"},
		{name: "control character in path", base: "https://newsapi.org/v2", path: "top\nheadlines"},
		{name: "empty base yields relative url", base: "", path: "top-headlines"},
		{name: "scheme only", base: "https://", path: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prep, err := Build(NewRequest(tt.path), Config{BaseURL: tt.base})
			if prep != nil {
				t.Fatalf("Build returned a request alongside the error: %+v", prep)
			}
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("errors.Is(err, ErrInvalidURL) = false, err = %v", err)
			}
		})
	}
}

func TestBuilder_LogsWithoutAffectingResult(t *testing.T) {
	ep := NewRequest("top-headlines", WithQueryParam("category", "health"))
	cfg := Config{BaseURL: "https://api.example.com", Query: map[string]string{"apiKey": "k"}}

	log := &recordingLogger{}
	logged, err := NewBuilder(log).Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build with logger returned error: %v", err)
	}
	silent, err := NewBuilder(nil).Build(ep, cfg)
	if err != nil {
		t.Fatalf("Build without logger returned error: %v", err)
	}

	if diff := cmp.Diff(silent, logged); diff != "" {
		t.Errorf("logging changed the result (-silent +logged):\n%s", diff)
	}
	if len(log.events) != 1 || log.events[0] != "request_build" {
		t.Errorf("events = %v, want exactly one request_build", log.events)
	}
}

func TestBuild_ConfigSwapDoesNotLeak(t *testing.T) {
	// Rotating the environment means handing Build a new Config value; an
	// already-built request keeps the old environment's values.
	ep := NewRequest("top-headlines")
	old := Config{
		BaseURL: "https://api.example.com",
		Headers: map[string]string{"X-Api-Key": "old"},
	}

	prep, err := Build(ep, old)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	rotated := Config{
		BaseURL: "https://api.example.com",
		Headers: map[string]string{"X-Api-Key": "new"},
	}
	if _, err := Build(ep, rotated); err != nil {
		t.Fatalf("Build after rotation returned error: %v", err)
	}

	if got := prep.Headers["X-Api-Key"]; got != "old" {
		t.Errorf("prepared request header = %q, want %q", got, "old")
	}
}

func ExampleBuild() {
	ep := NewRequest("top-headlines", WithQueryParam("category", "business"))
	cfg := Config{
		BaseURL: "https://newsapi.org/v2/",
		Query:   map[string]string{"apiKey": "XYZ"},
	}

	prep, _ := Build(ep, cfg)
	fmt.Println(prep.Method, prep.URL)
	// Output: GET https://newsapi.org/v2/top-headlines?category=business&apiKey=XYZ
}
