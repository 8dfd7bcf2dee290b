package endpoint

import (
	"encoding/json"
	"time"

	"github.com/hooksink/hooksink/signature"
)

// Endpoint represents a registered logical destination for inbound webhook
// deliveries.
type Endpoint struct {
	// ID is the unique endpoint identifier, restricted to letters, digits,
	// and hyphens. Caller-supplied or generated at registration.
	ID string `json:"id"`

	// Name is a display name, defaulting to the id.
	Name string `json:"name"`

	// Secret is the shared signing secret. When set, every delivery must
	// carry a valid signature. Never serialized.
	Secret signature.Secret `json:"-"`

	// MaxPayloads bounds the retained payload history.
	MaxPayloads int `json:"max_payloads"`

	// RateLimit is the maximum accepted deliveries per second. 0 means
	// unlimited.
	RateLimit int `json:"rate_limit,omitempty"`

	// Schema is an optional JSON Schema that delivered bodies must satisfy.
	Schema json.RawMessage `json:"schema,omitempty"`

	// CreatedAt is the registration timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the external view of an endpoint. It reports whether a secret
// is configured but never the secret value.
type Summary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	HasSecret    bool      `json:"has_secret"`
	PayloadCount int       `json:"payload_count"`
	MaxPayloads  int       `json:"max_payloads"`
}

// Summarize builds the external view of ep with the given stored payload
// count.
func Summarize(ep *Endpoint, payloadCount int) *Summary {
	return &Summary{
		ID:           ep.ID,
		Name:         ep.Name,
		CreatedAt:    ep.CreatedAt,
		HasSecret:    ep.Secret.IsSet(),
		PayloadCount: payloadCount,
		MaxPayloads:  ep.MaxPayloads,
	}
}
