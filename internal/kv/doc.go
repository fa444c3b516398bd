// Package kv provides the durable storage medium backing every entity
// store: a SQLite-backed key-value table holding one JSON document per
// key.
//
// # Layout
//
// A single table stores all documents:
//
//	CREATE TABLE kv_entries (
//		key        TEXT PRIMARY KEY,
//		value      TEXT NOT NULL,
//		updated_at TEXT NOT NULL
//	);
//
// Each entity family (boards, notes, snippets, statuses, the focus mode,
// the status selection) owns a dedicated key and rewrites its full
// collection on every mutation.
//
// # Failure semantics
//
// Load recovers silently from corrupt data: a blob that fails JSON
// parsing or schema validation is logged, cleared, and reported as
// absent so the caller substitutes its default. Save failures (disk
// full, locked database) are logged and swallowed; in-memory state
// remains the source of truth for the session.
//
// There is no transactional guarantee across keys. Two stores writing in
// the same call stack are two independent writes; no cross-entity
// invariant depends on multi-key atomicity.
package kv
