// Package features implements the flat auxiliary stores: notes, code
// snippets, and workflow statuses.
//
// Each store follows the same pattern as the board store in miniature:
// load-on-init with schema validation, mutex-serialized operations, and
// a full-collection rewrite to its own durable-storage key on every
// mutation. Referential misses are benign no-ops.
//
// Statuses carry two extra rules the others don't: the collection never
// drops below one entry (Delete returns ErrLastStatus instead), and a
// persisted "current selection" follows deletions to the first remaining
// entry.
package features
