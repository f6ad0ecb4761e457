package httpapi

import "errors"

// Build failures form a closed set so callers can branch with errors.Is.
// Anything past building (connectivity, HTTP status, response decoding) belongs
// to the transport layer and never originates here.
var (
	// ErrInvalidURL reports that the environment base URL and the endpoint
	// path did not combine into a parseable absolute URL.
	ErrInvalidURL = errors.New("invalid request url")

	// ErrBodyEncoding reports that the endpoint's body encoder rejected the
	// body parameters. The encoder's own failure is attached to the chain.
	ErrBodyEncoding = errors.New("encode request body")
)
