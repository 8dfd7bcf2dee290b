package endpoint

import "encoding/json"

// Input is the registration payload for endpoints.
type Input struct {
	// ID is the desired endpoint identifier. Generated if empty.
	ID string `json:"id,omitempty"`

	// Name is a display name. Defaults to the id.
	Name string `json:"name,omitempty"`

	// Secret enables mandatory signature verification when non-empty.
	Secret string `json:"secret,omitempty"`

	// MaxPayloads bounds the retained history. Defaults when not positive.
	MaxPayloads int `json:"max_payloads,omitempty"`

	// RateLimit is the maximum accepted deliveries per second. 0 means
	// unlimited.
	RateLimit int `json:"rate_limit,omitempty"`

	// Schema is an optional JSON Schema delivered bodies must satisfy.
	Schema json.RawMessage `json:"schema,omitempty"`
}
