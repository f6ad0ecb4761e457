package httpapi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONEncoder_SortedStableOutput(t *testing.T) {
	enc := JSONEncoder{}

	got, err := enc.Encode(map[string]string{"zebra": "1", "alpha": "2", "mid": "3"})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if want := `{"alpha":"2","mid":"3","zebra":"1"}`; string(got) != want {
		t.Errorf("Encode = %s, want %s", got, want)
	}
	if ct := enc.ContentType(); ct != "application/json" {
		t.Errorf("ContentType = %q, want application/json", ct)
	}
}

func TestFormEncoder_EscapesValues(t *testing.T) {
	enc := FormEncoder{}

	got, err := enc.Encode(map[string]string{"q": "budget & taxes", "lang": "en"})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	if want := "lang=en&q=budget+%26+taxes"; string(got) != want {
		t.Errorf("Encode = %s, want %s", got, want)
	}
	if ct := enc.ContentType(); ct != "application/x-www-form-urlencoded" {
		t.Errorf("ContentType = %q, want form encoding", ct)
	}
}

func TestNewRequest_Defaults(t *testing.T) {
	r := NewRequest("top-headlines")

	if r.Path() != "top-headlines" {
		t.Errorf("Path = %q, want top-headlines", r.Path())
	}
	if r.Method() != MethodGet {
		t.Errorf("Method = %q, want GET", r.Method())
	}
	if len(r.QueryParameters()) != 0 || len(r.BodyParameters()) != 0 || len(r.Headers()) != 0 {
		t.Errorf("new request carries parameters: query=%v body=%v headers=%v",
			r.QueryParameters(), r.BodyParameters(), r.Headers())
	}
	if _, ok := r.BodyEncoder().(JSONEncoder); !ok {
		t.Errorf("BodyEncoder = %T, want JSONEncoder", r.BodyEncoder())
	}
}

func TestNewRequest_CopiesOptionMaps(t *testing.T) {
	query := map[string]string{"category": "science"}
	headers := map[string]string{"X-Trace": "1"}
	body := map[string]string{"note": "a"}

	r := NewRequest("everything",
		WithQuery(query),
		WithHeaders(headers),
		WithBody(body),
	)

	// Mutating the caller's maps afterwards must not reach the descriptor.
	query["category"] = "sports"
	headers["X-Trace"] = "2"
	body["note"] = "b"
	query["extra"] = "x"

	want := map[string]string{"category": "science"}
	if diff := cmp.Diff(want, r.QueryParameters()); diff != "" {
		t.Errorf("query leaked caller mutation (-want +got):\n%s", diff)
	}
	if got := r.Headers()["X-Trace"]; got != "1" {
		t.Errorf("header = %q, want %q", got, "1")
	}
	if got := r.BodyParameters()["note"]; got != "a" {
		t.Errorf("body parameter = %q, want %q", got, "a")
	}
}

func TestNewRequest_BodyOptionsSetContentType(t *testing.T) {
	tests := []struct {
		name     string
		opt      RequestOption
		wantCT   string
		wantJSON bool
	}{
		{
			name:     "json body",
			opt:      WithJSONBody(map[string]string{"k": "v"}),
			wantCT:   "application/json",
			wantJSON: true,
		},
		{
			name:   "form body",
			opt:    WithFormBody(map[string]string{"k": "v"}),
			wantCT: "application/x-www-form-urlencoded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRequest("watchlist", WithMethod(MethodPost), tt.opt)

			if got := r.Headers()["Content-Type"]; got != tt.wantCT {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantCT)
			}
			if got := r.BodyParameters()["k"]; got != "v" {
				t.Errorf("body parameter = %q, want %q", got, "v")
			}
			_, isJSON := r.BodyEncoder().(JSONEncoder)
			if isJSON != tt.wantJSON {
				t.Errorf("BodyEncoder = %T", r.BodyEncoder())
			}
		})
	}
}
