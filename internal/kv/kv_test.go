// ABOUTME: Tests for the durable key-value store using in-memory SQLite
// ABOUTME: Covers round-trips, corrupt-data recovery, and key clearing

package kv

import (
	"context"
	"strings"
	"testing"

	"github.com/Lz027/palette/internal/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func recordSchema() schema.Schema {
	return schema.Array(schema.Object(
		schema.Field{Name: "id", Schema: schema.String(64)},
		schema.Field{Name: "name", Schema: schema.String(20)},
	))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []record{{ID: "a", Name: "first"}, {ID: "b", Name: "second"}}
	s.Save(ctx, "records", in)

	var out []record
	if !s.Load(ctx, "records", recordSchema(), &out) {
		t.Fatal("expected Load to succeed")
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].Name != "second" {
		t.Fatalf("unexpected round-trip result: %+v", out)
	}
}

func TestLoadAbsentKey(t *testing.T) {
	s := newTestStore(t)

	var out []record
	if s.Load(context.Background(), "missing", recordSchema(), &out) {
		t.Fatal("expected Load to report absent key")
	}
}

func TestLoadInvalidJSONClearsKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.putRaw(ctx, "records", `{not json!`); err != nil {
		t.Fatalf("putRaw: %v", err)
	}

	var out []record
	if s.Load(ctx, "records", recordSchema(), &out) {
		t.Fatal("expected Load to reject invalid JSON")
	}
	if s.Has(ctx, "records") {
		t.Fatal("expected corrupt key to be cleared")
	}
}

func TestLoadWrongShapeClearsKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Object where an array is expected.
	s.Save(ctx, "records", map[string]any{"id": "a"})

	var out []record
	if s.Load(ctx, "records", recordSchema(), &out) {
		t.Fatal("expected Load to reject wrong shape")
	}
	if s.Has(ctx, "records") {
		t.Fatal("expected mis-shaped key to be cleared")
	}
}

func TestLoadOverLengthFieldClearsKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Save(ctx, "records", []record{{ID: "a", Name: strings.Repeat("x", 21)}})

	var out []record
	if s.Load(ctx, "records", recordSchema(), &out) {
		t.Fatal("expected Load to reject over-length field")
	}
	if s.Has(ctx, "records") {
		t.Fatal("expected key with over-length field to be cleared")
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Save(ctx, "records", []record{{ID: "a", Name: "x"}})
	s.Delete(ctx, "records")

	if s.Has(ctx, "records") {
		t.Fatal("expected key to be gone after Delete")
	}
	// Deleting again is not an error.
	s.Delete(ctx, "records")
}

func TestSaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Save(ctx, "records", []record{{ID: "a", Name: "old"}})
	s.Save(ctx, "records", []record{{ID: "a", Name: "new"}})

	var out []record
	if !s.Load(ctx, "records", recordSchema(), &out) {
		t.Fatal("expected Load to succeed")
	}
	if len(out) != 1 || out[0].Name != "new" {
		t.Fatalf("expected overwritten value, got: %+v", out)
	}
}
