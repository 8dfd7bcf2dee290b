package signature

import (
	"crypto/rand"
	"encoding/hex"
)

// Secret is an optional signing credential. The zero value means "no secret
// configured": signature verification is skipped and deliveries are accepted
// unauthenticated. A set Secret makes verification mandatory.
//
// The underlying value is unexported so a Secret can never leak through
// encoding/json or fmt verbs by accident.
type Secret struct {
	value string
}

// NewSecret wraps a shared-secret value. An empty string yields the unset
// Secret.
func NewSecret(v string) Secret {
	return Secret{value: v}
}

// GenerateSecret creates a cryptographically random signing secret.
// Format: "whsec_" + 32 bytes hex.
func GenerateSecret() Secret {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("signature: failed to generate random secret: " + err.Error())
	}
	return Secret{value: "whsec_" + hex.EncodeToString(b)}
}

// IsSet reports whether a secret is configured.
func (s Secret) IsSet() bool {
	return s.value != ""
}

// Reveal returns the underlying secret value. It exists for store backends
// that must persist the credential and for handing a generated secret to the
// sender; the value must never appear in endpoint views or dispatch output.
func (s Secret) Reveal() string {
	return s.value
}

// String implements fmt.Stringer with a redacted form.
func (s Secret) String() string {
	if !s.IsSet() {
		return ""
	}
	return "whsec_****"
}
