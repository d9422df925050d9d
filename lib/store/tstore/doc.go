// Package tstore implements an in-memory, generic key-value store with nested
// transactions based on the store.ITransactionalStore interface. Mutations
// made inside a transaction are staged in a per-level diff layer and only
// reach the base container when the outermost transaction commits. Data is
// held entirely in memory and is not persisted between process restarts.
//
// Key Features:
//   - Arbitrarily nested transactions (bounded only by available memory)
//   - Copy-on-write style diff layering instead of full map snapshots
//   - Explicit tombstones so a delete inside a transaction masks committed values
//   - Value-filtered key and count queries over the resolved visible state
//   - Pluggable base container through the store.MappingFactory pattern
//
// Implementation Details:
//
//   - Diff Layers: Each Begin pushes an empty layer mapping keys to either a
//     pending value or a tombstone. A key absent from a layer has no opinion at
//     that level. Set and Delete always target the innermost layer while a
//     transaction is open, and the base mapping otherwise.
//
//   - Visibility: The currently visible value of a key is the one found in the
//     nearest layer that mentions it, else the base mapping's value, else
//     absent. Single-key reads walk the layers newest to oldest; aggregate
//     queries fold the base and all layers oldest to newest into a fresh
//     snapshot. Both directions implement the same resolution rule and always
//     agree.
//
//   - Commit: Pops the innermost layer and folds it one level down, values and
//     tombstones alike, overwriting whatever the enclosing layer held for the
//     same key. The outermost commit folds into the base mapping, erasing
//     tombstoned keys and writing pending values. Commit never recomputes the
//     full visible state.
//
//   - Rollback: Pops and discards the innermost layer wholesale. Values hidden
//     by tombstones in the discarded layer become visible again.
//
//   - Empty-stack Commit/Rollback: Silent no-ops by contract, reported through
//     the applied boolean so callers can detect unbalanced Begin/Commit pairs
//     without changing the default behavior.
//
// Thread Safety:
//
//	None. The store is single-threaded and synchronous; every operation runs
//	to completion without blocking. Applications that need concurrent access
//	must serialize all calls externally. "Transaction" refers only to the
//	layered staging mechanism, not to ACID isolation between observers.
//
// Usage Example:
//
//	// Create a store with a birch mapping backend
//	factory := func() kv.Mapping[string] { return birch.NewMapping[string](nil) }
//	kvs := tstore.NewTransactionalStore(factory)
//
//	_ = kvs.Set("a", "1")
//	_ = kvs.Begin()
//	_ = kvs.Set("a", "2")
//	_, _ = kvs.Rollback()
//
//	value, _, _ := kvs.Get("a") // "1"
package tstore
