package hooksink_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	hooksink "github.com/hooksink/hooksink"
	"github.com/hooksink/hooksink/endpoint"
	"github.com/hooksink/hooksink/payload"
	"github.com/hooksink/hooksink/signature"
	"github.com/hooksink/hooksink/store/memory"
)

func newTestReceiver(t *testing.T, opts ...hooksink.Option) *hooksink.Receiver {
	t.Helper()
	opts = append([]hooksink.Option{hooksink.WithStore(memory.New())}, opts...)
	r, err := hooksink.New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestNewRequiresStore(t *testing.T) {
	_, err := hooksink.New()
	if !errors.Is(err, hooksink.ErrNoStore) {
		t.Errorf("New() error = %v, want ErrNoStore", err)
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := newTestReceiver(t, hooksink.WithDefaultMaxPayloads(7))
	ctx := context.Background()

	ep, err := r.Register(ctx, endpoint.Input{})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if ep.ID == "" {
		t.Error("expected a generated endpoint id")
	}
	if ep.Name != ep.ID {
		t.Errorf("Name = %q, want the id %q", ep.Name, ep.ID)
	}
	if ep.MaxPayloads != 7 {
		t.Errorf("MaxPayloads = %d, want 7", ep.MaxPayloads)
	}
	if ep.Secret.IsSet() {
		t.Error("expected no secret by default")
	}
}

func TestRegisterRejectsBadID(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	for _, bad := range []string{"hook 1", "hook/1", "hook_1", "hük"} {
		_, err := r.Register(ctx, endpoint.Input{ID: bad})
		if !errors.Is(err, hooksink.ErrInvalidEndpointID) {
			t.Errorf("Register(%q) error = %v, want ErrInvalidEndpointID", bad, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, endpoint.Input{ID: "hook-1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	_, err := r.Register(ctx, endpoint.Input{ID: "hook-1"})
	if !errors.Is(err, hooksink.ErrDuplicateEndpoint) {
		t.Errorf("second Register() error = %v, want ErrDuplicateEndpoint", err)
	}
}

func TestReceiveUnknownEndpoint(t *testing.T) {
	r := newTestReceiver(t)

	_, err := r.Receive(context.Background(), "ghost", []byte("x"), nil)
	if !errors.Is(err, hooksink.ErrEndpointNotFound) {
		t.Errorf("Receive() error = %v, want ErrEndpointNotFound", err)
	}
}

func TestReceiveStoresPayload(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, endpoint.Input{ID: "hook-1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	body := []byte(`{"event":"ping"}`)
	headers := map[string]string{"Content-Type": "application/json"}
	p, err := r.Receive(ctx, "hook-1", body, headers)
	if err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if p.ID == "" {
		t.Error("expected a payload id")
	}

	stored, err := r.Inspect(ctx, "hook-1", payload.ListOpts{})
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored payload, got %d", len(stored))
	}
	if string(stored[0].Body) != string(body) {
		t.Errorf("stored body = %q, want %q", stored[0].Body, body)
	}
	if stored[0].Headers["Content-Type"] != "application/json" {
		t.Errorf("stored headers = %v", stored[0].Headers)
	}
}

func TestReceiveEvictsOldest(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, endpoint.Input{ID: "hook-1", MaxPayloads: 2}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		if _, err := r.Receive(ctx, "hook-1", []byte(fmt.Sprintf("p%d", i)), nil); err != nil {
			t.Fatalf("Receive(%d) error = %v", i, err)
		}
	}

	stored, err := r.Inspect(ctx, "hook-1", payload.ListOpts{})
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 retained payloads, got %d", len(stored))
	}
	for i, want := range []string{"p2", "p3"} {
		if got := string(stored[i].Body); got != want {
			t.Errorf("payload %d body = %q, want %q", i, got, want)
		}
	}
}

func TestReceiveVerifiesSignature(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	secret := signature.NewSecret("topsecret")
	if _, err := r.Register(ctx, endpoint.Input{ID: "secure", Secret: "topsecret"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	body := []byte(`{"event":"ping"}`)

	// Correctly signed delivery succeeds.
	if _, err := r.Receive(ctx, "secure", body, map[string]string{
		signature.DefaultHeader: signature.Sign(secret, body),
	}); err != nil {
		t.Fatalf("signed Receive() error = %v", err)
	}

	// Missing signature fails closed.
	_, err := r.Receive(ctx, "secure", body, nil)
	if !errors.Is(err, hooksink.ErrInvalidSignature) {
		t.Errorf("unsigned Receive() error = %v, want ErrInvalidSignature", err)
	}

	// Signature over different bytes fails.
	_, err = r.Receive(ctx, "secure", body, map[string]string{
		signature.DefaultHeader: signature.Sign(secret, []byte(`{"event":"pong"}`)),
	})
	if !errors.Is(err, hooksink.ErrInvalidSignature) {
		t.Errorf("mismatched Receive() error = %v, want ErrInvalidSignature", err)
	}

	// Rejected deliveries are not stored.
	stored, err := r.Inspect(ctx, "secure", payload.ListOpts{})
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("expected only the signed payload stored, got %d", len(stored))
	}
}

func TestReceiveRateLimit(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, endpoint.Input{ID: "hook-1", RateLimit: 2}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := r.Receive(ctx, "hook-1", []byte("x"), nil); err != nil {
			t.Fatalf("Receive(%d) error = %v", i, err)
		}
	}
	_, err := r.Receive(ctx, "hook-1", []byte("x"), nil)
	if !errors.Is(err, hooksink.ErrRateLimited) {
		t.Errorf("Receive() over the limit error = %v, want ErrRateLimited", err)
	}
}

func TestReceiveValidatesSchema(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	schema := []byte(`{
		"type": "object",
		"required": ["event"],
		"properties": {"event": {"type": "string"}}
	}`)
	if _, err := r.Register(ctx, endpoint.Input{ID: "hook-1", Schema: schema}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := r.Receive(ctx, "hook-1", []byte(`{"event":"ping"}`), nil); err != nil {
		t.Fatalf("conforming Receive() error = %v", err)
	}

	_, err := r.Receive(ctx, "hook-1", []byte(`{"other":1}`), nil)
	if code, ok := hooksink.CodeOf(err); !ok || code != hooksink.CodeInvalidPayload {
		t.Errorf("nonconforming Receive() error = %v, want code %s", err, hooksink.CodeInvalidPayload)
	}
}

func TestUnregisterDestroysHistory(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, endpoint.Input{ID: "hook-1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := r.Receive(ctx, "hook-1", []byte("x"), nil); err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
	}

	removed, err := r.Unregister(ctx, "hook-1")
	if err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("Unregister() removed = %d, want 3", removed)
	}

	if _, err := r.Receive(ctx, "hook-1", []byte("x"), nil); !errors.Is(err, hooksink.ErrEndpointNotFound) {
		t.Errorf("Receive() after unregister error = %v, want ErrEndpointNotFound", err)
	}

	// The id is free for reuse, with fresh history.
	if _, err := r.Register(ctx, endpoint.Input{ID: "hook-1"}); err != nil {
		t.Fatalf("re-Register() error = %v", err)
	}
	stored, err := r.Inspect(ctx, "hook-1", payload.ListOpts{})
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("expected empty history after re-register, got %d", len(stored))
	}
}

func TestClear(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, endpoint.Input{ID: "hook-1"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := r.Receive(ctx, "hook-1", []byte("x"), nil); err != nil {
			t.Fatalf("Receive() error = %v", err)
		}
	}

	cleared, err := r.Clear(ctx, "hook-1")
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if cleared != 3 {
		t.Errorf("Clear() = %d, want 3", cleared)
	}

	// The endpoint itself survives and keeps receiving.
	if _, err := r.Receive(ctx, "hook-1", []byte("y"), nil); err != nil {
		t.Fatalf("Receive() after clear error = %v", err)
	}
}

func TestListSummaries(t *testing.T) {
	r := newTestReceiver(t)
	ctx := context.Background()

	if _, err := r.Register(ctx, endpoint.Input{ID: "a", Secret: "s"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := r.Register(ctx, endpoint.Input{ID: "b"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := r.Receive(ctx, "b", []byte("x"), nil); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}

	summaries, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if !summaries[0].HasSecret || summaries[0].PayloadCount != 0 {
		t.Errorf("summary a = %+v", summaries[0])
	}
	if summaries[1].HasSecret || summaries[1].PayloadCount != 1 {
		t.Errorf("summary b = %+v", summaries[1])
	}
}
