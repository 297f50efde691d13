// Package ids hands out task identifiers for a board.
//
// Identifiers are plain positive integers. The Allocator keeps a single counter
// holding the next value to hand out; it only ever moves forward. When a board is
// loaded from disk the store reseeds the allocator with one past the highest
// persisted id, so ids from a previous session are never reused.
//
// Each store owns its own Allocator. Nothing in this package is global, so two
// boards (or two tests) never share a counter.
package ids
