// Package memory provides the default in-memory Store implementation.
package memory

import (
	"context"
	"sort"
	"sync"

	hooksink "github.com/hooksink/hooksink"
	"github.com/hooksink/hooksink/endpoint"
	"github.com/hooksink/hooksink/payload"
	sinkstore "github.com/hooksink/hooksink/store"
)

// compile-time interface check.
var _ sinkstore.Store = (*Store)(nil)

// entry binds an endpoint to its bounded payload history. Both live and die
// together under the store lock, so an endpoint is never discoverable
// without its history or vice versa.
type entry struct {
	ep      *endpoint.Endpoint
	history *payload.History
}

// Store is the in-memory implementation of store.Store. A single RWMutex
// guards the endpoint map and every history: append-with-evict and
// delete-endpoint-with-history are each one critical section, so concurrent
// receives never interleave partial queue updates.
type Store struct {
	mu        sync.RWMutex
	endpoints map[string]*entry
	closed    bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		endpoints: make(map[string]*entry),
	}
}

// Ping reports whether the store is usable.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return hooksink.ErrStoreClosed
	}
	return nil
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ──────────────────────────────────────────────────
// endpoint.Store
// ──────────────────────────────────────────────────

// CreateEndpoint persists a new endpoint with an empty history.
func (s *Store) CreateEndpoint(_ context.Context, ep *endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.endpoints[ep.ID]; ok {
		return hooksink.ErrDuplicateEndpoint
	}
	s.endpoints[ep.ID] = &entry{
		ep:      ep,
		history: payload.NewHistory(ep.MaxPayloads),
	}
	return nil
}

// GetEndpoint returns an endpoint by id.
func (s *Store) GetEndpoint(_ context.Context, epID string) (*endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.endpoints[epID]
	if !ok {
		return nil, hooksink.ErrEndpointNotFound
	}
	return e.ep, nil
}

// DeleteEndpoint removes an endpoint and its history atomically.
func (s *Store) DeleteEndpoint(_ context.Context, epID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.endpoints[epID]
	if !ok {
		return 0, hooksink.ErrEndpointNotFound
	}
	removed := e.history.Len()
	delete(s.endpoints, epID)
	return removed, nil
}

// ListEndpoints returns all endpoints ordered by creation time.
func (s *Store) ListEndpoints(_ context.Context) ([]*endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*endpoint.Endpoint, 0, len(s.endpoints))
	for _, e := range s.endpoints {
		result = append(result, e.ep)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// CountPayloads returns the number of stored payloads for an endpoint.
func (s *Store) CountPayloads(_ context.Context, epID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.endpoints[epID]
	if !ok {
		return 0, hooksink.ErrEndpointNotFound
	}
	return e.history.Len(), nil
}

// ──────────────────────────────────────────────────
// payload.Store
// ──────────────────────────────────────────────────

// AppendPayload inserts p at the tail of the endpoint's history, evicting
// the oldest payload if the capacity bound is exceeded. An unregister that
// won the lock first makes this fail with ErrEndpointNotFound, never landing
// a payload in a deleted history.
func (s *Store) AppendPayload(_ context.Context, epID string, p *payload.Payload) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.endpoints[epID]
	if !ok {
		return false, hooksink.ErrEndpointNotFound
	}
	return e.history.Append(p), nil
}

// ListPayloads returns a page of the endpoint's history in receipt order.
func (s *Store) ListPayloads(_ context.Context, epID string, opts payload.ListOpts) ([]*payload.Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.endpoints[epID]
	if !ok {
		return nil, hooksink.ErrEndpointNotFound
	}
	return e.history.Page(opts.Offset, opts.Limit), nil
}

// ClearPayloads empties the endpoint's history.
func (s *Store) ClearPayloads(_ context.Context, epID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.endpoints[epID]
	if !ok {
		return 0, hooksink.ErrEndpointNotFound
	}
	return e.history.Clear(), nil
}
