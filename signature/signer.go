// Package signature provides HMAC-SHA256 signing and verification for
// inbound webhook deliveries.
//
// Signatures are computed over the raw body bytes exactly as delivered,
// never over a re-serialized form, so sender and receiver always agree on
// the signed content.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// DefaultHeader is the delivery header conventionally carrying the signature.
const DefaultHeader = "X-Signature-256"

// Tag prefixes every signature and names the algorithm.
const Tag = "sha256="

// Sign generates the HMAC-SHA256 signature of body under secret.
// Returns a tagged signature in the format "sha256=<hex>". Signing with an
// unset secret returns the empty string.
func Sign(secret Secret, body []byte) string {
	if !secret.IsSet() {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(secret.value))
	mac.Write(body)
	return Tag + hex.EncodeToString(mac.Sum(nil))
}
