// Package boards implements the board store: the single authority over
// the kanban board collection for the lifetime of a session.
//
// # Model
//
// A Board holds an ordered sequence of Columns; a Column holds an
// ordered sequence of Cards. Identifiers are unique within their
// containing collection, and cards belong to exactly one column at a
// time. Deleting a board removes its columns and cards transitively
// because they are nested inside the board record.
//
// # Lifecycle
//
// The store starts unloaded and refuses every operation with ErrNotReady
// until Load has read the persisted collection. Malformed persisted data
// is treated as "start fresh": the store seeds a built-in default board
// rather than surfacing an error.
//
// # Concurrency
//
// All operations serialize under a single mutex, so two calls are always
// applied one after the other with no interleaving. Accessors return
// deep copies; the live collection never escapes the store.
//
// # Persistence
//
// Every mutation rewrites the full collection to durable storage before
// returning. Write failures are absorbed by the storage layer; the
// in-memory collection stays authoritative for the session.
package boards
