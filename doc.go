// Package hooksink provides a composable inbound webhook receiver for Go.
//
// Hooksink is a library — not a service. Import it into your application to
// register logical inbound endpoints, accept delivered payloads for them,
// authenticate deliveries with per-endpoint HMAC-SHA256 secrets, and keep a
// bounded, inspectable history of recent payloads per endpoint. Framing real
// HTTP requests into deliveries stays with the caller; hooksink is invoked
// in-process with the already-parsed body and headers.
//
// Key features:
//   - Endpoint registry with caller-supplied or generated ids
//   - Raw-bytes HMAC-SHA256 signature verification with constant-time compare
//   - Bounded per-endpoint payload history with O(1) oldest-first eviction
//   - Optional per-endpoint JSON Schema validation and rate limiting
//   - Composable store pattern with memory and Redis backends
//   - Tagged-action dispatch surface with a uniform response envelope
//
// Quick start:
//
//	r, err := hooksink.New(
//	    hooksink.WithStore(memory.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	secret := signature.GenerateSecret()
//	r.Register(ctx, endpoint.Input{
//	    ID:     "billing-hooks",
//	    Secret: secret.Reveal(),
//	})
//
//	r.Receive(ctx, "billing-hooks", body, map[string]string{
//	    "X-Signature-256": signature.Sign(secret, body),
//	})
package hooksink
