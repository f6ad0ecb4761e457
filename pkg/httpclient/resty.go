package httpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/samvad-hq/samvad-news-reader/pkg/httpapi"
)

// restyClient implements Client on top of resty.
type restyClient struct {
	rc *resty.Client
}

// NewRestyClient returns a Client with the given per-request timeout. The
// client never retries; a failed call is reported to the caller as is.
func NewRestyClient(timeout time.Duration) Client {
	rc := resty.New().SetTimeout(timeout)
	return &restyClient{rc: rc}
}

// Get fetches the URL with the given headers.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	return restyResponse{resp: resp}, nil
}

// Do sends a prepared request exactly as resolved by the builder.
func (c *restyClient) Do(ctx context.Context, req *httpapi.Prepared) (Response, error) {
	if req == nil {
		return nil, errors.New("prepared request is nil")
	}

	r := c.rc.R().
		SetContext(ctx).
		SetHeaders(req.Headers)
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(string(req.Method), req.URL)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	return restyResponse{resp: resp}, nil
}

// restyResponse adapts a resty response to the Response contract.
type restyResponse struct {
	resp *resty.Response
}

func (r restyResponse) Body() []byte    { return r.resp.Body() }
func (r restyResponse) StatusCode() int { return r.resp.StatusCode() }
