package signature

import (
	"crypto/hmac"
	"strings"
)

// Verify checks the provided signature header value against the expected
// HMAC-SHA256 signature of body under secret.
//
// An unset secret means verification is not required: Verify always returns
// true and the delivery is accepted unauthenticated. With a secret set,
// Verify fails closed on a missing signature and compares in constant time
// otherwise.
func Verify(secret Secret, provided string, body []byte) bool {
	if !secret.IsSet() {
		return true
	}
	if provided == "" {
		return false
	}
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// FromHeaders locates the signature value in a delivery header map by a
// case-insensitive name match.
func FromHeaders(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
