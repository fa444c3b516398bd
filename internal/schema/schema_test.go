// ABOUTME: Tests for schema combinators over decoded JSON values
// ABOUTME: Covers type mismatches, missing fields, length caps, and enums

package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

// decode parses raw JSON into the generic representation schemas consume.
func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return v
}

func TestObjectAcceptsMatchingShape(t *testing.T) {
	sch := Object(
		Field{Name: "id", Schema: String(64)},
		Field{Name: "name", Schema: String(120)},
		Field{Name: "done", Schema: Bool()},
		Field{Name: "note", Schema: String(0), Optional: true},
	)

	v := decode(t, `{"id":"abc","name":"hello","done":true}`)
	if err := sch.Validate(v); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
}

func TestObjectRejectsMissingField(t *testing.T) {
	sch := Object(Field{Name: "id", Schema: String(64)})

	if err := sch.Validate(decode(t, `{}`)); err == nil {
		t.Fatal("expected error for missing field")
	}
}

func TestObjectRejectsUnknownField(t *testing.T) {
	sch := Object(Field{Name: "id", Schema: String(64)})

	err := sch.Validate(decode(t, `{"id":"a","__proto__":{"x":1}}`))
	if err == nil {
		t.Fatal("expected error for unexpected field")
	}
}

func TestObjectRejectsNonObject(t *testing.T) {
	sch := Object(Field{Name: "id", Schema: String(64)})

	if err := sch.Validate(decode(t, `[1,2,3]`)); err == nil {
		t.Fatal("expected error for array where object expected")
	}
}

func TestNullOptionalFieldAllowed(t *testing.T) {
	sch := Object(
		Field{Name: "id", Schema: String(64)},
		Field{Name: "due", Schema: TimeString(), Optional: true},
	)

	if err := sch.Validate(decode(t, `{"id":"a","due":null}`)); err != nil {
		t.Fatalf("expected null optional field to pass, got: %v", err)
	}
}

func TestStringLengthCap(t *testing.T) {
	sch := String(10)

	if err := sch.Validate("short"); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
	if err := sch.Validate(strings.Repeat("x", 11)); err == nil {
		t.Fatal("expected error for over-length string")
	}
}

func TestStringRejectsWrongType(t *testing.T) {
	if err := String(0).Validate(42.0); err == nil {
		t.Fatal("expected error for number where string expected")
	}
}

func TestArrayValidatesElements(t *testing.T) {
	sch := Array(String(5))

	if err := sch.Validate(decode(t, `["a","b"]`)); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
	if err := sch.Validate(decode(t, `["a","toolong"]`)); err == nil {
		t.Fatal("expected error for over-length element")
	}
	if err := sch.Validate(decode(t, `{"not":"array"}`)); err == nil {
		t.Fatal("expected error for object where array expected")
	}
}

func TestTimeString(t *testing.T) {
	sch := TimeString()

	if err := sch.Validate("2024-03-01T10:30:00Z"); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
	if err := sch.Validate("yesterday"); err == nil {
		t.Fatal("expected error for non-RFC3339 string")
	}
}

func TestEnum(t *testing.T) {
	sch := Enum("tech", "productive", "design")

	if err := sch.Validate("design"); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
	if err := sch.Validate("gaming"); err == nil {
		t.Fatal("expected error for value outside enum")
	}
}
