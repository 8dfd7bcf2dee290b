package redis_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	hooksink "github.com/hooksink/hooksink"
	"github.com/hooksink/hooksink/endpoint"
	"github.com/hooksink/hooksink/payload"
	redisstore "github.com/hooksink/hooksink/store/redis"
)

// Tests in this file need a live Redis server and are skipped without one.
// Point HOOKSINK_REDIS_ADDR at a disposable instance; the selected DB is
// flushed before every test.
func newTestStore(t *testing.T) (*redisstore.Store, *goredis.Client) {
	t.Helper()

	addr := os.Getenv("HOOKSINK_REDIS_ADDR")
	if addr == "" {
		t.Skip("HOOKSINK_REDIS_ADDR not set")
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	if err := client.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("flush test db: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return redisstore.New(client), client
}

func testEndpoint(epID string, maxPayloads int) *endpoint.Endpoint {
	return &endpoint.Endpoint{
		ID:          epID,
		Name:        epID,
		MaxPayloads: maxPayloads,
		CreatedAt:   time.Now().UTC(),
	}
}

func testPayload(body string) *payload.Payload {
	return &payload.Payload{
		ID:         "pl_" + body,
		ReceivedAt: time.Now().UTC(),
		Body:       []byte(body),
	}
}

func TestEndpointLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateEndpoint(ctx, testEndpoint("hook-1", 10)); err != nil {
		t.Fatalf("CreateEndpoint() error = %v", err)
	}
	if err := s.CreateEndpoint(ctx, testEndpoint("hook-1", 10)); !errors.Is(err, hooksink.ErrDuplicateEndpoint) {
		t.Errorf("duplicate CreateEndpoint() error = %v, want ErrDuplicateEndpoint", err)
	}

	ep, err := s.GetEndpoint(ctx, "hook-1")
	if err != nil {
		t.Fatalf("GetEndpoint() error = %v", err)
	}
	if ep.MaxPayloads != 10 {
		t.Errorf("MaxPayloads = %d, want 10", ep.MaxPayloads)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.AppendPayload(ctx, "hook-1", testPayload(fmt.Sprintf("p%d", i))); err != nil {
			t.Fatalf("AppendPayload(%d) error = %v", i, err)
		}
	}

	removed, err := s.DeleteEndpoint(ctx, "hook-1")
	if err != nil {
		t.Fatalf("DeleteEndpoint() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("DeleteEndpoint() removed = %d, want 3", removed)
	}

	if _, err := s.GetEndpoint(ctx, "hook-1"); !errors.Is(err, hooksink.ErrEndpointNotFound) {
		t.Errorf("GetEndpoint() after delete error = %v, want ErrEndpointNotFound", err)
	}
}

func TestAppendEvictsAtCapacity(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateEndpoint(ctx, testEndpoint("hook-1", 2)); err != nil {
		t.Fatalf("CreateEndpoint() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		evicted, err := s.AppendPayload(ctx, "hook-1", testPayload(fmt.Sprintf("p%d", i)))
		if err != nil {
			t.Fatalf("AppendPayload(%d) error = %v", i, err)
		}
		if wantEvicted := i >= 2; evicted != wantEvicted {
			t.Errorf("AppendPayload(%d) evicted = %v, want %v", i, evicted, wantEvicted)
		}
	}

	stored, err := s.ListPayloads(ctx, "hook-1", payload.ListOpts{})
	if err != nil {
		t.Fatalf("ListPayloads() error = %v", err)
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

// A delete that raced an in-flight append can leave a payload list behind
// with no owning endpoint; re-registering the id must start from an empty
// history regardless.
func TestCreateReclaimsStaleHistory(t *testing.T) {
	s, client := newTestStore(t)
	ctx := context.Background()

	if err := client.RPush(ctx, "hooksink:pl:hook-1", `{"id":"pl_stale"}`).Err(); err != nil {
		t.Fatalf("seed stale history: %v", err)
	}

	if err := s.CreateEndpoint(ctx, testEndpoint("hook-1", 10)); err != nil {
		t.Fatalf("CreateEndpoint() error = %v", err)
	}

	count, err := s.CountPayloads(ctx, "hook-1")
	if err != nil {
		t.Fatalf("CountPayloads() error = %v", err)
	}
	if count != 0 {
		t.Errorf("history after register = %d payloads, want 0", count)
	}
}

// Appends racing a delete must never resurrect the deleted endpoint's
// history list: each append either lands before the delete or fails with
// ErrEndpointNotFound.
func TestDeleteRacingAppendLeavesNoHistory(t *testing.T) {
	s, client := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateEndpoint(ctx, testEndpoint("hook-1", 100)); err != nil {
		t.Fatalf("CreateEndpoint() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.AppendPayload(ctx, "hook-1", testPayload(fmt.Sprintf("p%d", n)))
			if err != nil && !errors.Is(err, hooksink.ErrEndpointNotFound) {
				t.Errorf("AppendPayload(%d) error = %v", n, err)
			}
		}(i)
	}

	if _, err := s.DeleteEndpoint(ctx, "hook-1"); err != nil {
		t.Fatalf("DeleteEndpoint() error = %v", err)
	}
	wg.Wait()

	n, err := client.Exists(ctx, "hooksink:pl:hook-1").Result()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("history list survived endpoint deletion")
	}
}
