// Package endpoint provides the inbound webhook endpoint registry: identity,
// configuration, and lifecycle of logical delivery destinations.
package endpoint

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hooksink/hooksink/id"
	"github.com/hooksink/hooksink/signature"
)

// Config holds registry-level defaults.
type Config struct {
	// DefaultMaxPayloads is applied when an Input carries no positive bound.
	DefaultMaxPayloads int
}

// Service provides endpoint registry operations. Identifier validation and
// coded-error mapping happen in the Receiver; the service owns defaults,
// construction, and store delegation.
type Service struct {
	store  Store
	config Config
	logger *slog.Logger
}

// NewService creates a new endpoint registry service.
func NewService(store Store, cfg Config, logger *slog.Logger) *Service {
	if cfg.DefaultMaxPayloads <= 0 {
		cfg.DefaultMaxPayloads = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// Register creates a new endpoint with an empty payload history. The id is
// generated when absent; a live duplicate id fails at the store.
func (svc *Service) Register(ctx context.Context, in Input) (*Endpoint, error) {
	epID := in.ID
	if epID == "" {
		epID = id.NewEndpointID()
	}

	name := in.Name
	if name == "" {
		name = epID
	}

	maxPayloads := in.MaxPayloads
	if maxPayloads <= 0 {
		maxPayloads = svc.config.DefaultMaxPayloads
	}

	ep := &Endpoint{
		ID:          epID,
		Name:        name,
		Secret:      signature.NewSecret(in.Secret),
		MaxPayloads: maxPayloads,
		RateLimit:   in.RateLimit,
		Schema:      in.Schema,
		CreatedAt:   time.Now().UTC(),
	}

	if err := svc.store.CreateEndpoint(ctx, ep); err != nil {
		return nil, err
	}

	svc.logger.InfoContext(ctx, "endpoint registered",
		"endpoint_id", ep.ID,
		"has_secret", ep.Secret.IsSet(),
		"max_payloads", ep.MaxPayloads,
	)

	return ep, nil
}

// Get returns an endpoint by id.
func (svc *Service) Get(ctx context.Context, epID string) (*Endpoint, error) {
	return svc.store.GetEndpoint(ctx, epID)
}

// Unregister deletes an endpoint and its entire payload history, returning
// how many payloads were destroyed with it.
func (svc *Service) Unregister(ctx context.Context, epID string) (int, error) {
	removed, err := svc.store.DeleteEndpoint(ctx, epID)
	if err != nil {
		return 0, err
	}

	svc.logger.InfoContext(ctx, "endpoint unregistered",
		"endpoint_id", epID,
		"payloads_removed", removed,
	)

	return removed, nil
}

// List returns summaries of all registered endpoints in creation order.
// An empty registry yields an empty list.
func (svc *Service) List(ctx context.Context) ([]*Summary, error) {
	eps, err := svc.store.ListEndpoints(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, 0, len(eps))
	for _, ep := range eps {
		count, err := svc.store.CountPayloads(ctx, ep.ID)
		if err != nil {
			var nf interface{ NotFound() bool }
			if errors.As(err, &nf) && nf.NotFound() {
				continue // endpoint unregistered mid-list
			}
			return nil, err
		}
		summaries = append(summaries, Summarize(ep, count))
	}
	return summaries, nil
}
