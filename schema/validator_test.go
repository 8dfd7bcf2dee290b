package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/hooksink/hooksink/schema"
)

func TestValidatorNilSchema(t *testing.T) {
	v := schema.NewValidator()

	if err := v.Validate(nil, []byte(`{"key":"value"}`)); err != nil {
		t.Fatal("nil schema should skip validation, got:", err)
	}
}

func TestValidatorValidBody(t *testing.T) {
	v := schema.NewValidator()

	sch := json.RawMessage(`{
		"type": "object",
		"properties": {
			"amount":   {"type": "number"},
			"currency": {"type": "string"}
		},
		"required": ["amount", "currency"]
	}`)

	body := []byte(`{"amount": 100.50, "currency": "USD"}`)

	if err := v.Validate(sch, body); err != nil {
		t.Fatal("valid body should pass, got:", err)
	}
}

func TestValidatorMissingRequired(t *testing.T) {
	v := schema.NewValidator()

	sch := json.RawMessage(`{
		"type": "object",
		"properties": {"name": {"type": "string"}},
		"required": ["name"]
	}`)

	if err := v.Validate(sch, []byte(`{}`)); err == nil {
		t.Fatal("body missing a required field should fail")
	}
}

func TestValidatorNonJSONBody(t *testing.T) {
	v := schema.NewValidator()

	sch := json.RawMessage(`{"type": "object"}`)

	if err := v.Validate(sch, []byte("plain text")); err == nil {
		t.Fatal("non-JSON body should fail when a schema is configured")
	}
}

func TestValidatorCachesCompiledSchemas(t *testing.T) {
	v := schema.NewValidator()

	sch := json.RawMessage(`{"type": "object"}`)

	// Repeated validation against the same schema content must keep working
	// (and exercises the cache path).
	for i := 0; i < 3; i++ {
		if err := v.Validate(sch, []byte(`{}`)); err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
	}
}
