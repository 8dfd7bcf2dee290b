// Package payload defines received webhook payloads and their bounded,
// insertion-ordered per-endpoint history.
package payload

import (
	"context"
	"time"
)

// Payload is one delivered event body plus its receipt metadata, owned by a
// single endpoint.
type Payload struct {
	// ID is the unique TypeID for this payload.
	ID string `json:"id"`

	// ReceivedAt is the receipt timestamp.
	ReceivedAt time.Time `json:"received_at"`

	// Headers is the opaque key/value map supplied with the delivery.
	Headers map[string]string `json:"headers,omitempty"`

	// Body is the delivered value, stored verbatim as the exact bytes the
	// signature was verified over.
	Body []byte `json:"body"`
}

// ListOpts configures pagination for payload inspection. A Limit of 0 means
// "to the end".
type ListOpts struct {
	Offset int
	Limit  int
}

// Store defines the persistence contract for per-endpoint payload history.
type Store interface {
	// AppendPayload inserts p at the tail of the endpoint's history,
	// evicting from the head if the endpoint's capacity is exceeded.
	// Reports whether an eviction occurred.
	AppendPayload(ctx context.Context, endpointID string, p *Payload) (evicted bool, err error)

	// ListPayloads returns a contiguous page of the endpoint's history in
	// receipt order. An out-of-range offset yields an empty page.
	ListPayloads(ctx context.Context, endpointID string, opts ListOpts) ([]*Payload, error)

	// ClearPayloads empties the endpoint's history and returns how many
	// payloads were removed.
	ClearPayloads(ctx context.Context, endpointID string) (int, error)
}
