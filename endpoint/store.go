package endpoint

import "context"

// Store defines the persistence contract for the endpoint registry.
type Store interface {
	// CreateEndpoint persists a new endpoint together with an empty payload
	// history. Fails with ErrDuplicateEndpoint if the id exists.
	CreateEndpoint(ctx context.Context, ep *Endpoint) error

	// GetEndpoint returns an endpoint by id.
	GetEndpoint(ctx context.Context, epID string) (*Endpoint, error)

	// DeleteEndpoint removes an endpoint and its entire payload history
	// atomically, returning how many payloads were destroyed.
	DeleteEndpoint(ctx context.Context, epID string) (int, error)

	// ListEndpoints returns all endpoints ordered by creation time.
	ListEndpoints(ctx context.Context) ([]*Endpoint, error)

	// CountPayloads returns the number of payloads stored for an endpoint.
	CountPayloads(ctx context.Context, epID string) (int, error)
}
