// Package schema provides structural validation of decoded JSON values
// before they cross into application state.
//
// Durable storage contents are untrusted: a stored blob may have been
// corrupted, truncated, or written by an older version with a different
// shape. Every store validates loaded data against a schema built from
// the combinators in this package before accepting it, so a deserialized
// value's declared type is never trusted directly.
//
// # Combinators
//
//	Object(fields...)  JSON object with exactly the given fields
//	Array(elem)        JSON array of elem-shaped values
//	String(maxLen)     string with an optional byte-length cap
//	Bool()             boolean
//	TimeString()       RFC3339 timestamp string
//	Enum(values...)    one of a fixed set of strings
//
// Schemas validate the generic representation produced by json.Unmarshal
// into an `any` (maps, slices, strings, bools, float64s). Objects reject
// unknown fields; this keeps type-confused or adversarially-shaped data
// from reaching application structs.
package schema
