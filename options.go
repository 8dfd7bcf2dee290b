package hooksink

import (
	"log/slog"

	"github.com/hooksink/hooksink/observability"
	"github.com/hooksink/hooksink/store"
)

// Option configures a Receiver instance.
type Option func(*Receiver) error

// WithStore sets the backing store for the Receiver instance.
func WithStore(s store.Store) Option {
	return func(r *Receiver) error {
		r.store = s
		return nil
	}
}

// WithLogger sets the structured logger for the Receiver instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Receiver) error {
		r.logger = logger
		return nil
	}
}

// WithDefaultMaxPayloads sets the history capacity used when an endpoint is
// registered without an explicit bound.
func WithDefaultMaxPayloads(n int) Option {
	return func(r *Receiver) error {
		r.config.DefaultMaxPayloads = n
		return nil
	}
}

// WithSignatureHeader sets the delivery header carrying the payload
// signature.
func WithSignatureHeader(name string) Option {
	return func(r *Receiver) error {
		r.config.SignatureHeader = name
		return nil
	}
}

// WithMetrics attaches metric instruments to the Receiver.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Receiver) error {
		r.metrics = m
		return nil
	}
}

// WithTracer attaches an OpenTelemetry tracer to the receive path.
func WithTracer(t *observability.Tracer) Option {
	return func(r *Receiver) error {
		r.tracer = t
		return nil
	}
}
