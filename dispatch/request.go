package dispatch

import "encoding/json"

// Request is a tagged action request. Only the fields the action's schema
// names are consulted; the rest are ignored.
type Request struct {
	// Action selects the operation.
	Action Action `json:"action"`

	// EndpointID identifies the target endpoint. Required by every action
	// except register (where it is the optional desired id) and list.
	EndpointID string `json:"endpointId,omitempty"`

	// Name is the display name for register.
	Name string `json:"name,omitempty"`

	// Secret enables signature verification for register.
	Secret string `json:"secret,omitempty"`

	// MaxPayloads bounds the payload history for register.
	MaxPayloads int `json:"maxPayloads,omitempty"`

	// RateLimit caps accepted deliveries per second for register.
	RateLimit int `json:"rateLimit,omitempty"`

	// Schema is an optional JSON Schema bodies must satisfy, for register.
	Schema json.RawMessage `json:"schema,omitempty"`

	// Payload is the delivered body for receive: a string, raw bytes, or
	// any JSON-marshalable value.
	Payload any `json:"payload,omitempty"`

	// Headers is the delivery header map for receive.
	Headers map[string]string `json:"headers,omitempty"`

	// Limit and Offset page the history for inspect. A zero Limit means
	// "to the end".
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Response is the uniform result envelope: a human-readable message plus
// structured metadata. Metadata always carries "success"; failures add
// "errorCode".
type Response struct {
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata"`
}
