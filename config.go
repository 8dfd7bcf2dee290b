package hooksink

import "github.com/hooksink/hooksink/signature"

// Config holds the configuration for a Receiver instance.
type Config struct {
	// DefaultMaxPayloads is the payload history capacity used when an
	// endpoint is registered without an explicit bound.
	DefaultMaxPayloads int

	// SignatureHeader is the delivery header carrying the payload signature.
	SignatureHeader string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMaxPayloads: 100,
		SignatureHeader:    signature.DefaultHeader,
	}
}
