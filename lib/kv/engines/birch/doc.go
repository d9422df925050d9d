// Package birch implements the kv.Mapping interface with a plain in-memory
// hash map. It is the simplest possible base container: no sharding, no
// locking, no time-based features.
//
// The package focuses on:
//   - Exact, predictable semantics for Set, Get, Delete, Len and Range
//   - Zero per-operation overhead beyond the underlying Go map
//   - Full feature support for every kv.Feature flag
//
// Thread Safety:
//
//	None. The birch mapping targets single-threaded embedding, where the
//	store above it is documented to run with exclusive access. Applications
//	that need concurrent access must serialize all calls externally, for
//	example with a mutex owned by the embedding application.
//
// Usage Example:
//
//	mapping := birch.NewMapping[string](nil)
//	mapping.Set("greeting", "hello")
//	value, loaded := mapping.Get("greeting")
package birch
