// Package id generates and validates identifiers for hooksink entities.
//
// Payload ids are TypeIDs (K-sortable, UUIDv7-based, globally unique) in the
// usual "prefix_suffix" form. Endpoint ids are caller-facing and restricted
// to letters, digits, and hyphens, so generated endpoint ids use a
// hyphenated TypeID ("ep-suffix") instead of the underscore form.
package id

import (
	"fmt"
	"strings"

	"go.jetify.com/typeid/v2"
)

// Prefix constants for hooksink entity types.
const (
	PrefixEndpoint = "ep"
	PrefixPayload  = "pl"
)

// NewPayloadID generates a new globally unique payload id.
func NewPayloadID() string {
	return generate(PrefixPayload)
}

// NewEndpointID generates a new globally unique endpoint id that satisfies
// the endpoint id charset.
func NewEndpointID() string {
	return strings.Replace(generate(PrefixEndpoint), "_", "-", 1)
}

func generate(prefix string) string {
	tid, err := typeid.Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return tid.String()
}

// ValidEndpointID reports whether s is a non-empty string containing only
// ASCII letters, digits, and hyphens.
func ValidEndpointID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
