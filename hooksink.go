package hooksink

import (
	"context"
	"log/slog"
	"time"

	"github.com/hooksink/hooksink/endpoint"
	"github.com/hooksink/hooksink/id"
	"github.com/hooksink/hooksink/observability"
	"github.com/hooksink/hooksink/payload"
	"github.com/hooksink/hooksink/ratelimit"
	"github.com/hooksink/hooksink/schema"
	"github.com/hooksink/hooksink/signature"
	"github.com/hooksink/hooksink/store"
)

// Receiver is the root inbound webhook engine: it owns the endpoint
// registry, consults the signature verifier, and retains bounded payload
// history per endpoint. Construct one per process and tear it down on
// shutdown; all state lives behind the injected store.
type Receiver struct {
	config    Config
	store     store.Store
	endpoints *endpoint.Service
	validator *schema.Validator
	limiter   *ratelimit.Limiter
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	logger    *slog.Logger
}

// New creates a new Receiver with the given options.
func New(opts ...Option) (*Receiver, error) {
	r := &Receiver{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.store == nil {
		return nil, ErrNoStore
	}
	r.wireServices()
	return r, nil
}

// wireServices initializes the internal services after options have been
// applied.
func (r *Receiver) wireServices() {
	r.endpoints = endpoint.NewService(r.store, endpoint.Config{
		DefaultMaxPayloads: r.config.DefaultMaxPayloads,
	}, r.logger)

	r.validator = schema.NewValidator()
	r.limiter = ratelimit.New()
}

// Close releases the backing store.
func (r *Receiver) Close() error {
	return r.store.Close()
}

// Register creates a new endpoint. A caller-supplied id must stay within the
// letters-digits-hyphens charset; a missing id is generated. Registering a
// live id again fails with ErrDuplicateEndpoint.
func (r *Receiver) Register(ctx context.Context, in endpoint.Input) (*endpoint.Endpoint, error) {
	if in.ID != "" && !id.ValidEndpointID(in.ID) {
		return nil, ErrInvalidEndpointID
	}

	ep, err := r.endpoints.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.EndpointsActive.Inc()
	}
	return ep, nil
}

// Unregister deletes an endpoint and its entire payload history, returning
// how many payloads were destroyed with it.
func (r *Receiver) Unregister(ctx context.Context, endpointID string) (int, error) {
	if endpointID == "" {
		return 0, ErrMissingEndpointID
	}

	removed, err := r.endpoints.Unregister(ctx, endpointID)
	if err != nil {
		return 0, err
	}

	r.limiter.Forget(endpointID)
	if r.metrics != nil {
		r.metrics.EndpointsActive.Dec()
	}
	return removed, nil
}

// List returns summaries of all registered endpoints in creation order.
func (r *Receiver) List(ctx context.Context) ([]*endpoint.Summary, error) {
	return r.endpoints.List(ctx)
}

// Receive accepts one delivered payload for an endpoint.
//
// The critical path:
//  1. Look up the endpoint (reject unknown ids).
//  2. Enforce the endpoint's receive rate limit, if configured.
//  3. Verify the delivery signature against the exact body bytes, if the
//     endpoint has a secret. Missing header fails closed.
//  4. Validate the body against the endpoint's JSON Schema, if configured.
//  5. Append to the payload history, evicting oldest-first past capacity.
//
// Each step short-circuits with a coded error; the append re-checks
// existence under the store's lock, so a receive racing an unregister either
// lands just before deletion or fails with ErrEndpointNotFound.
func (r *Receiver) Receive(ctx context.Context, endpointID string, body []byte, headers map[string]string) (*payload.Payload, error) {
	if r.tracer == nil {
		return r.receive(ctx, endpointID, body, headers)
	}

	ctx, span := r.tracer.StartReceiveSpan(ctx, endpointID, len(body))
	p, err := r.receive(ctx, endpointID, body, headers)

	payloadID := ""
	if p != nil {
		payloadID = p.ID
	}
	errCode := ""
	if code, ok := CodeOf(err); ok {
		errCode = string(code)
	}
	r.tracer.EndReceiveSpan(span, payloadID, errCode)

	return p, err
}

func (r *Receiver) receive(ctx context.Context, endpointID string, body []byte, headers map[string]string) (*payload.Payload, error) {
	if endpointID == "" {
		return nil, r.reject(ctx, endpointID, ErrMissingEndpointID)
	}
	if len(body) == 0 {
		return nil, r.reject(ctx, endpointID, ErrMissingPayload)
	}

	// 1. Look up the endpoint.
	ep, err := r.store.GetEndpoint(ctx, endpointID)
	if err != nil {
		return nil, r.reject(ctx, endpointID, err)
	}

	// 2. Enforce the receive rate limit.
	if !r.limiter.Allow(ep.ID, ep.RateLimit) {
		return nil, r.reject(ctx, endpointID, ErrRateLimited)
	}

	// 3. Verify the signature over the raw body bytes.
	sig, _ := signature.FromHeaders(headers, r.config.SignatureHeader)
	if !signature.Verify(ep.Secret, sig, body) {
		return nil, r.reject(ctx, endpointID, ErrInvalidSignature)
	}

	// 4. Validate against the endpoint's schema.
	if len(ep.Schema) > 0 {
		if validateErr := r.validator.Validate(ep.Schema, body); validateErr != nil {
			return nil, r.reject(ctx, endpointID, &Error{
				Code:    CodeInvalidPayload,
				Message: "payload body rejected: " + validateErr.Error(),
			})
		}
	}

	// 5. Append with eviction.
	p := &payload.Payload{
		ID:         id.NewPayloadID(),
		ReceivedAt: time.Now().UTC(),
		Headers:    headers,
		Body:       body,
	}
	evicted, err := r.store.AppendPayload(ctx, ep.ID, p)
	if err != nil {
		return nil, r.reject(ctx, endpointID, err)
	}

	if r.metrics != nil {
		r.metrics.PayloadsReceivedTotal.Inc()
		if evicted {
			r.metrics.PayloadsEvictedTotal.Inc()
		}
	}

	r.logger.DebugContext(ctx, "payload received",
		"endpoint_id", ep.ID,
		"payload_id", p.ID,
		"body_bytes", len(body),
		"evicted", evicted,
	)

	return p, nil
}

// Inspect returns a page of an endpoint's payload history in receipt order.
// An out-of-range offset yields an empty page, not an error.
func (r *Receiver) Inspect(ctx context.Context, endpointID string, opts payload.ListOpts) ([]*payload.Payload, error) {
	if endpointID == "" {
		return nil, ErrMissingEndpointID
	}
	return r.store.ListPayloads(ctx, endpointID, opts)
}

// Clear empties an endpoint's payload history, returning how many payloads
// were removed.
func (r *Receiver) Clear(ctx context.Context, endpointID string) (int, error) {
	if endpointID == "" {
		return 0, ErrMissingEndpointID
	}
	return r.store.ClearPayloads(ctx, endpointID)
}

// Endpoints returns the endpoint registry service.
func (r *Receiver) Endpoints() *endpoint.Service {
	return r.endpoints
}

// Store returns the underlying store.
func (r *Receiver) Store() store.Store {
	return r.store
}

// reject records a rejected delivery and returns err unchanged.
func (r *Receiver) reject(ctx context.Context, endpointID string, err error) error {
	code, _ := CodeOf(err)
	if r.metrics != nil {
		r.metrics.RecordRejection(string(code))
	}
	r.logger.DebugContext(ctx, "payload rejected",
		"endpoint_id", endpointID,
		"code", string(code),
	)
	return err
}
