// Package redis provides a Redis-backed Store implementation.
//
// Endpoints are JSON entities under per-id keys with a sorted-set index by
// creation time; payload history is a Redis list per endpoint, bounded with
// RPUSH + LTRIM so eviction is O(1) on the server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	hooksink "github.com/hooksink/hooksink"
	"github.com/hooksink/hooksink/endpoint"
	"github.com/hooksink/hooksink/payload"
	"github.com/hooksink/hooksink/signature"
	sinkstore "github.com/hooksink/hooksink/store"
)

// compile-time interface check.
var _ sinkstore.Store = (*Store)(nil)

// Store implements store.Store on a Redis client.
type Store struct {
	rdb goredis.UniversalClient
}

// New creates a new Redis store.
func New(client goredis.UniversalClient) *Store {
	return &Store{rdb: client}
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// endpointModel is the JSON representation stored in Redis. The secret is
// persisted here and nowhere else; it never reaches a summary or response.
type endpointModel struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Secret      string          `json:"secret,omitempty"`
	MaxPayloads int             `json:"max_payloads"`
	RateLimit   int             `json:"rate_limit,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toEndpointModel(ep *endpoint.Endpoint) *endpointModel {
	return &endpointModel{
		ID:          ep.ID,
		Name:        ep.Name,
		Secret:      ep.Secret.Reveal(),
		MaxPayloads: ep.MaxPayloads,
		RateLimit:   ep.RateLimit,
		Schema:      ep.Schema,
		CreatedAt:   ep.CreatedAt,
	}
}

func fromEndpointModel(m *endpointModel) *endpoint.Endpoint {
	return &endpoint.Endpoint{
		ID:          m.ID,
		Name:        m.Name,
		Secret:      signature.NewSecret(m.Secret),
		MaxPayloads: m.MaxPayloads,
		RateLimit:   m.RateLimit,
		Schema:      m.Schema,
		CreatedAt:   m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// endpoint.Store
// ──────────────────────────────────────────────────

// CreateEndpoint persists a new endpoint with an empty history. SETNX on the
// entity key is the duplicate check, so two racing registers resolve to one
// winner.
func (s *Store) CreateEndpoint(ctx context.Context, ep *endpoint.Endpoint) error {
	raw, err := json.Marshal(toEndpointModel(ep))
	if err != nil {
		return fmt.Errorf("hooksink/redis: marshal endpoint: %w", err)
	}

	created, err := s.rdb.SetNX(ctx, endpointKey(ep.ID), raw, 0).Result()
	if err != nil {
		return fmt.Errorf("hooksink/redis: create endpoint: %w", err)
	}
	if !created {
		return hooksink.ErrDuplicateEndpoint
	}

	score := float64(ep.CreatedAt.UnixNano()) / 1e9
	pipe := s.rdb.TxPipeline()
	// A prior holder of this id may have left a history list behind; a
	// re-registered endpoint must start empty.
	pipe.Del(ctx, historyKey(ep.ID))
	pipe.ZAdd(ctx, zEndpointAll, goredis.Z{Score: score, Member: ep.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		// Roll the entity back so Get and List stay consistent.
		s.rdb.Del(ctx, endpointKey(ep.ID))
		return fmt.Errorf("hooksink/redis: create endpoint index: %w", err)
	}
	return nil
}

// GetEndpoint returns an endpoint by id.
func (s *Store) GetEndpoint(ctx context.Context, epID string) (*endpoint.Endpoint, error) {
	raw, err := s.rdb.Get(ctx, endpointKey(epID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, hooksink.ErrEndpointNotFound
		}
		return nil, fmt.Errorf("hooksink/redis: get endpoint: %w", err)
	}

	var m endpointModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("hooksink/redis: decode endpoint: %w", err)
	}
	return fromEndpointModel(&m), nil
}

// DeleteEndpoint removes an endpoint, its index entry, and its history in
// one transaction, returning how many payloads were destroyed.
func (s *Store) DeleteEndpoint(ctx context.Context, epID string) (int, error) {
	if err := s.ensureExists(ctx, epID); err != nil {
		return 0, err
	}

	pipe := s.rdb.TxPipeline()
	lenCmd := pipe.LLen(ctx, historyKey(epID))
	pipe.Del(ctx, endpointKey(epID), historyKey(epID))
	pipe.ZRem(ctx, zEndpointAll, epID)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("hooksink/redis: delete endpoint: %w", err)
	}
	return int(lenCmd.Val()), nil
}

// ListEndpoints returns all endpoints ordered by creation time.
func (s *Store) ListEndpoints(ctx context.Context) ([]*endpoint.Endpoint, error) {
	ids, err := s.rdb.ZRange(ctx, zEndpointAll, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("hooksink/redis: list endpoints: %w", err)
	}

	result := make([]*endpoint.Endpoint, 0, len(ids))
	for _, epID := range ids {
		ep, err := s.GetEndpoint(ctx, epID)
		if err != nil {
			if errors.Is(err, hooksink.ErrEndpointNotFound) {
				continue // index entry raced a delete
			}
			return nil, err
		}
		result = append(result, ep)
	}
	return result, nil
}

// CountPayloads returns the number of stored payloads for an endpoint.
func (s *Store) CountPayloads(ctx context.Context, epID string) (int, error) {
	if err := s.ensureExists(ctx, epID); err != nil {
		return 0, err
	}

	n, err := s.rdb.LLen(ctx, historyKey(epID)).Result()
	if err != nil {
		return 0, fmt.Errorf("hooksink/redis: count payloads: %w", err)
	}
	return int(n), nil
}

// ──────────────────────────────────────────────────
// payload.Store
// ──────────────────────────────────────────────────

// appendScript pushes a payload onto an endpoint's history and trims it to
// the capacity bound, but only while the endpoint entity still exists. The
// existence check runs inside the script, so an append racing a delete
// either lands before the delete's transaction or fails cleanly; it can
// never recreate the history list of a deleted endpoint.
// KEYS[1] = hooksink:ep:<id>
// KEYS[2] = hooksink:pl:<id>
// ARGV[1] = payload JSON
// ARGV[2] = max payloads
var appendScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
local n = redis.call('RPUSH', KEYS[2], ARGV[1])
redis.call('LTRIM', KEYS[2], 0 - tonumber(ARGV[2]), -1)
return n
`)

// AppendPayload pushes p onto the endpoint's history list, trimmed to the
// capacity bound, atomically with the endpoint-existence check.
func (s *Store) AppendPayload(ctx context.Context, epID string, p *payload.Payload) (bool, error) {
	ep, err := s.GetEndpoint(ctx, epID)
	if err != nil {
		return false, err
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("hooksink/redis: marshal payload: %w", err)
	}

	keys := []string{endpointKey(epID), historyKey(epID)}
	n, err := appendScript.Run(ctx, s.rdb, keys, raw, ep.MaxPayloads).Int64()
	if err != nil {
		return false, fmt.Errorf("hooksink/redis: append payload: %w", err)
	}
	if n < 0 {
		return false, hooksink.ErrEndpointNotFound
	}
	return n > int64(ep.MaxPayloads), nil
}

// ListPayloads returns a page of the endpoint's history in receipt order.
func (s *Store) ListPayloads(ctx context.Context, epID string, opts payload.ListOpts) ([]*payload.Payload, error) {
	if err := s.ensureExists(ctx, epID); err != nil {
		return nil, err
	}

	start := int64(opts.Offset)
	stop := int64(-1)
	if opts.Limit > 0 {
		stop = start + int64(opts.Limit) - 1
	}

	raws, err := s.rdb.LRange(ctx, historyKey(epID), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("hooksink/redis: list payloads: %w", err)
	}

	result := make([]*payload.Payload, 0, len(raws))
	for _, raw := range raws {
		var p payload.Payload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("hooksink/redis: decode payload: %w", err)
		}
		result = append(result, &p)
	}
	return result, nil
}

// ClearPayloads empties the endpoint's history.
func (s *Store) ClearPayloads(ctx context.Context, epID string) (int, error) {
	if err := s.ensureExists(ctx, epID); err != nil {
		return 0, err
	}

	pipe := s.rdb.TxPipeline()
	lenCmd := pipe.LLen(ctx, historyKey(epID))
	pipe.Del(ctx, historyKey(epID))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("hooksink/redis: clear payloads: %w", err)
	}
	return int(lenCmd.Val()), nil
}

func (s *Store) ensureExists(ctx context.Context, epID string) error {
	n, err := s.rdb.Exists(ctx, endpointKey(epID)).Result()
	if err != nil {
		return fmt.Errorf("hooksink/redis: exists: %w", err)
	}
	if n == 0 {
		return hooksink.ErrEndpointNotFound
	}
	return nil
}
