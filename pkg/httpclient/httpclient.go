package httpclient

import (
	"context"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpapi"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different
// transports. Get covers plain page fetches; Do sends a request the builder
// has already resolved. Cancellation, timeouts, and status handling live
// here or above, never in the builder.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, req *httpapi.Prepared) (Response, error)
}
