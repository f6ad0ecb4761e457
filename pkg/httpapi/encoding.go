package httpapi

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Encoder serializes body parameters into raw request bytes. Implementations
// must be deterministic for a given parameter map and must not touch the
// network or filesystem.
type Encoder interface {
	Encode(params map[string]string) ([]byte, error)
	ContentType() string
}

// JSONEncoder renders body parameters as a JSON object. encoding/json writes
// map keys in sorted order, so output is stable across calls.
type JSONEncoder struct{}

// Encode marshals the parameter map as JSON.
func (JSONEncoder) Encode(params map[string]string) ([]byte, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal body parameters: %w", err)
	}
	return data, nil
}

// ContentType returns the media type JSON bodies should be sent as.
func (JSONEncoder) ContentType() string { return "application/json" }

// FormEncoder renders body parameters as an x-www-form-urlencoded string.
type FormEncoder struct{}

// Encode percent-encodes the parameter map in sorted key order.
func (FormEncoder) Encode(params map[string]string) ([]byte, error) {
	values := make(url.Values, len(params))
	for k, v := range params {
		values.Set(k, v)
	}
	return []byte(values.Encode()), nil
}

// ContentType returns the media type form bodies should be sent as.
func (FormEncoder) ContentType() string { return "application/x-www-form-urlencoded" }
