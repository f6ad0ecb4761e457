package httpapi

import "net/http"

// Method is the HTTP method an endpoint is called with.
type Method string

// The methods the news APIs we talk to actually use.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
	MethodHead   Method = http.MethodHead
)

// Endpoint describes one HTTP call independent of any environment: the
// relative path plus call-specific method, query, body, and header values.
// Endpoint values are purely descriptive; combining one with a Config into a
// sendable request is the Builder's job.
type Endpoint interface {
	Path() string
	Method() Method
	QueryParameters() map[string]string
	BodyParameters() map[string]string
	Headers() map[string]string
	BodyEncoder() Encoder
}

// Request is the plain-value Endpoint implementation. API packages declare
// each of their endpoints as a Request value through NewRequest instead of
// defining a behavioral type per call.
type Request struct {
	path    string
	method  Method
	query   map[string]string
	body    map[string]string
	headers map[string]string
	encoder Encoder
}

// RequestOption configures a Request under construction.
type RequestOption func(*Request)

// NewRequest builds a descriptor for the given relative path. Defaults: GET,
// no parameters, JSON body encoding. Maps passed through options are copied
// key by key, so callers may reuse or mutate their own maps afterwards
// without affecting the descriptor.
func NewRequest(path string, opts ...RequestOption) Request {
	r := Request{
		path:    path,
		method:  MethodGet,
		query:   make(map[string]string),
		body:    make(map[string]string),
		headers: make(map[string]string),
		encoder: JSONEncoder{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&r)
		}
	}
	return r
}

// WithMethod sets the HTTP method.
func WithMethod(m Method) RequestOption {
	return func(r *Request) { r.method = m }
}

// WithQueryParam adds one call query parameter.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) { r.query[key] = value }
}

// WithQuery merges the given map into the call query parameters.
func WithQuery(params map[string]string) RequestOption {
	return func(r *Request) {
		for k, v := range params {
			r.query[k] = v
		}
	}
}

// WithHeader adds one call header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) { r.headers[key] = value }
}

// WithHeaders merges the given map into the call headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		for k, v := range headers {
			r.headers[k] = v
		}
	}
}

// WithBodyParam adds one body parameter.
func WithBodyParam(key, value string) RequestOption {
	return func(r *Request) { r.body[key] = value }
}

// WithBody merges the given map into the body parameters.
func WithBody(params map[string]string) RequestOption {
	return func(r *Request) {
		for k, v := range params {
			r.body[k] = v
		}
	}
}

// WithEncoder selects the body encoding strategy. Nil is ignored.
func WithEncoder(enc Encoder) RequestOption {
	return func(r *Request) {
		if enc != nil {
			r.encoder = enc
		}
	}
}

// WithJSONBody sets JSON body parameters together with the matching
// Content-Type header. The header lands on the descriptor itself, so the
// builder's header merge stays the single source of the final header set.
func WithJSONBody(params map[string]string) RequestOption {
	return func(r *Request) {
		for k, v := range params {
			r.body[k] = v
		}
		r.encoder = JSONEncoder{}
		r.headers["Content-Type"] = JSONEncoder{}.ContentType()
	}
}

// WithFormBody sets form body parameters together with the matching
// Content-Type header.
func WithFormBody(params map[string]string) RequestOption {
	return func(r *Request) {
		for k, v := range params {
			r.body[k] = v
		}
		r.encoder = FormEncoder{}
		r.headers["Content-Type"] = FormEncoder{}.ContentType()
	}
}

func (r Request) Path() string                       { return r.path }
func (r Request) Method() Method                     { return r.method }
func (r Request) QueryParameters() map[string]string { return r.query }
func (r Request) BodyParameters() map[string]string  { return r.body }
func (r Request) Headers() map[string]string         { return r.headers }
func (r Request) BodyEncoder() Encoder               { return r.encoder }

// Config carries the process-wide request environment: the API base URL plus
// the default headers and query parameters applied to every call. Treat a
// Config as immutable once the process is up; rotate credentials by swapping
// in a whole new value, never by editing a shared one in place.
type Config struct {
	BaseURL string
	Headers map[string]string
	Query   map[string]string
}
