// Package tree holds the arena behind every report entity.
//
// A Document owns a single JSON-shaped tree (map[string]interface{}, []interface{},
// string, float64, bool and nil). Entities never copy that tree: each one keeps a
// Node, a lightweight handle made of the owning Document and an RFC 6901 pointer
// into it. Reads resolve the pointer against the live tree; writes go through the
// Document, which records the written pointer so that Modified can answer for any
// handle whether something at, above or below it has changed.
//
// Values are normalized on the way in: every numeric kind becomes float64, typed
// slices and maps become []interface{} and map[string]interface{}, and containers
// are copied so the Document stays the single owner of its data.
//
// A Document is not safe for concurrent use.
package tree
