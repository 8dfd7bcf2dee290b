// Package store composes the persistence contracts for all hooksink
// subsystems into a single swappable interface.
package store

import (
	"context"

	"github.com/hooksink/hooksink/endpoint"
	"github.com/hooksink/hooksink/payload"
)

// Store is the composed persistence interface a backend must implement.
// The memory backend is the default; alternative backends (such as Redis)
// satisfy the same contract so the Receiver never knows the difference.
type Store interface {
	endpoint.Store
	payload.Store

	// Ping checks backend health.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
