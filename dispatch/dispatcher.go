// Package dispatch routes tagged action requests to receiver operations and
// normalizes every result into a uniform message/metadata envelope.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	hooksink "github.com/hooksink/hooksink"
	"github.com/hooksink/hooksink/endpoint"
	"github.com/hooksink/hooksink/payload"
)

// Dispatcher is the single entry point for structured receiver requests.
type Dispatcher struct {
	rcv    *hooksink.Receiver
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over a Receiver.
func NewDispatcher(rcv *hooksink.Receiver, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		rcv:    rcv,
		logger: logger,
	}
}

// Dispatch routes req to the matching receiver operation. Every action
// validates its own required fields before touching registry state; an
// unknown or missing action fails terminally with INVALID_ACTION.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	switch req.Action {
	case ActionRegister:
		return d.register(ctx, req)
	case ActionUnregister:
		return d.unregister(ctx, req)
	case ActionList:
		return d.list(ctx)
	case ActionInspect:
		return d.inspect(ctx, req)
	case ActionReceive:
		return d.receive(ctx, req)
	case ActionClear:
		return d.clear(ctx, req)
	default:
		return failure(hooksink.ErrInvalidAction)
	}
}

func (d *Dispatcher) register(ctx context.Context, req Request) Response {
	ep, err := d.rcv.Register(ctx, endpoint.Input{
		ID:          req.EndpointID,
		Name:        req.Name,
		Secret:      req.Secret,
		MaxPayloads: req.MaxPayloads,
		RateLimit:   req.RateLimit,
		Schema:      req.Schema,
	})
	if err != nil {
		return failure(err)
	}

	return success(
		fmt.Sprintf("registered endpoint %q", ep.ID),
		map[string]any{
			"endpoint": summaryMeta(endpoint.Summarize(ep, 0)),
		},
	)
}

func (d *Dispatcher) unregister(ctx context.Context, req Request) Response {
	if req.EndpointID == "" {
		return failure(hooksink.ErrMissingEndpointID)
	}

	removed, err := d.rcv.Unregister(ctx, req.EndpointID)
	if err != nil {
		return failure(err)
	}

	return success(
		fmt.Sprintf("unregistered endpoint %q", req.EndpointID),
		map[string]any{
			"payloadsRemoved": removed,
		},
	)
}

func (d *Dispatcher) list(ctx context.Context) Response {
	summaries, err := d.rcv.List(ctx)
	if err != nil {
		return failure(err)
	}

	endpoints := make([]map[string]any, 0, len(summaries))
	for _, s := range summaries {
		endpoints = append(endpoints, summaryMeta(s))
	}

	return success(
		fmt.Sprintf("%d endpoint(s) registered", len(endpoints)),
		map[string]any{
			"endpoints": endpoints,
			"count":     len(endpoints),
		},
	)
}

func (d *Dispatcher) inspect(ctx context.Context, req Request) Response {
	if req.EndpointID == "" {
		return failure(hooksink.ErrMissingEndpointID)
	}

	payloads, err := d.rcv.Inspect(ctx, req.EndpointID, payload.ListOpts{
		Offset: req.Offset,
		Limit:  req.Limit,
	})
	if err != nil {
		return failure(err)
	}

	entries := make([]map[string]any, 0, len(payloads))
	for _, p := range payloads {
		entries = append(entries, payloadMeta(p))
	}

	return success(
		fmt.Sprintf("%d payload(s) for endpoint %q", len(entries), req.EndpointID),
		map[string]any{
			"payloads": entries,
			"count":    len(entries),
		},
	)
}

func (d *Dispatcher) receive(ctx context.Context, req Request) Response {
	if req.EndpointID == "" {
		return failure(hooksink.ErrMissingEndpointID)
	}

	body, err := canonicalBody(req.Payload)
	if err != nil {
		return failure(err)
	}
	if len(body) == 0 {
		return failure(hooksink.ErrMissingPayload)
	}

	p, err := d.rcv.Receive(ctx, req.EndpointID, body, req.Headers)
	if err != nil {
		return failure(err)
	}

	return success(
		fmt.Sprintf("received payload %s for endpoint %q", p.ID, req.EndpointID),
		map[string]any{
			"payloadId":  p.ID,
			"receivedAt": p.ReceivedAt,
		},
	)
}

func (d *Dispatcher) clear(ctx context.Context, req Request) Response {
	if req.EndpointID == "" {
		return failure(hooksink.ErrMissingEndpointID)
	}

	cleared, err := d.rcv.Clear(ctx, req.EndpointID)
	if err != nil {
		return failure(err)
	}

	return success(
		fmt.Sprintf("cleared %d payload(s) for endpoint %q", cleared, req.EndpointID),
		map[string]any{
			"payloadsCleared": cleared,
		},
	)
}

// canonicalBody fixes the delivered value into the exact bytes that get
// signed, verified, and stored. A string contributes its UTF-8 bytes; raw
// bytes pass verbatim; anything else is marshaled once. The same bytes flow
// through every later step, so verification never depends on
// re-serialization ordering.
func canonicalBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, &hooksink.Error{
				Code:    hooksink.CodeInvalidPayload,
				Message: "payload body is not serializable: " + err.Error(),
			}
		}
		return raw, nil
	}
}

func summaryMeta(s *endpoint.Summary) map[string]any {
	return map[string]any{
		"id":           s.ID,
		"name":         s.Name,
		"createdAt":    s.CreatedAt,
		"hasSecret":    s.HasSecret,
		"payloadCount": s.PayloadCount,
		"maxPayloads":  s.MaxPayloads,
	}
}

func payloadMeta(p *payload.Payload) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"receivedAt": p.ReceivedAt,
		"headers":    p.Headers,
		"body":       bodyValue(p.Body),
	}
}

// bodyValue renders a stored body for inspection: valid JSON comes back
// structured, anything else as a string.
func bodyValue(body []byte) any {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

func success(message string, metadata map[string]any) Response {
	metadata["success"] = true
	return Response{Message: message, Metadata: metadata}
}

func failure(err error) Response {
	metadata := map[string]any{"success": false}
	if code, ok := hooksink.CodeOf(err); ok {
		metadata["errorCode"] = string(code)
	}
	return Response{Message: err.Error(), Metadata: metadata}
}
