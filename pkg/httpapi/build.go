package httpapi

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Logger is the minimal diagnostic contract the builder needs. The reader's
// structured logger satisfies it; nil is replaced with a silent sink, and
// nothing logged here may influence the built request.
type Logger interface {
	DebugObj(msg, event string, obj map[string]any)
}

type nopLogger struct{}

func (nopLogger) DebugObj(msg, event string, obj map[string]any) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return nopLogger{}
	}
	return log
}

// Prepared is a transport-ready request: the fully resolved absolute URL with
// its query string, the method, the complete header set, and the encoded body
// (nil when the call carries none). A Prepared value is derived from exactly
// one (Endpoint, Config) pair and is not mutated afterwards.
type Prepared struct {
	URL     string
	Method  Method
	Headers map[string]string
	Body    []byte
}

// Builder assembles Prepared requests from endpoint descriptors and an
// environment Config. It keeps no per-request state, so a single Builder may
// serve any number of concurrent calls.
type Builder struct {
	log Logger
}

// NewBuilder returns a Builder that reports built requests through the given
// sink. A nil sink is replaced with a no-op one.
func NewBuilder(log Logger) *Builder {
	return &Builder{log: ensureLogger(log)}
}

// Build merges the endpoint descriptor with the environment configuration
// into a Prepared request. The result is fully determined by its two inputs:
// base URL normalization, header overlay (call wins), query concatenation
// (call block first, then environment block, duplicates kept), and body
// encoding only when body parameters are present. A failed build returns
// ErrInvalidURL or ErrBodyEncoding and no request.
func (b *Builder) Build(ep Endpoint, cfg Config) (*Prepared, error) {
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	raw := base + ep.Path()
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrInvalidURL, raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}

	headers := mergeHeaders(cfg.Headers, ep.Headers())

	if query := encodeQuery(ep.QueryParameters(), cfg.Query); query != "" {
		u.RawQuery = query
	}

	var body []byte
	if params := ep.BodyParameters(); len(params) > 0 {
		enc := ep.BodyEncoder()
		if enc == nil {
			enc = JSONEncoder{}
		}
		body, err = enc.Encode(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBodyEncoding, err)
		}
	}

	prep := &Prepared{
		URL:     u.String(),
		Method:  ep.Method(),
		Headers: headers,
		Body:    body,
	}

	b.log.DebugObj("prepared request", "request_build", map[string]any{
		"method":     string(prep.Method),
		"url":        prep.URL,
		"headers":    len(prep.Headers),
		"body_bytes": len(prep.Body),
	})

	return prep, nil
}

// Build assembles a Prepared request without diagnostics.
func Build(ep Endpoint, cfg Config) (*Prepared, error) {
	return NewBuilder(nil).Build(ep, cfg)
}

// mergeHeaders overlays call headers onto the environment defaults. Call
// values win on key collision, and the result is the request's complete
// header set.
func mergeHeaders(defaults, call map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(call))
	maps.Copy(merged, defaults)
	maps.Copy(merged, call)
	return merged
}

// encodeQuery renders the final query string: call parameters first, then
// environment defaults. Pairs sharing a key are all kept; dropping one here
// would silently change what the server sees, so both values travel. Keys are
// sorted inside each block so identical inputs produce identical strings.
func encodeQuery(call, defaults map[string]string) string {
	var sb strings.Builder

	appendBlock := func(params map[string]string) {
		for _, k := range slices.Sorted(maps.Keys(params)) {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(k))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(params[k]))
		}
	}

	appendBlock(call)
	appendBlock(defaults)

	return sb.String()
}
