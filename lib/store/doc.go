// Package store provides a high-level interface for generic key-value storage
// operations with nested transaction support and unified error handling. It
// serves as an abstraction layer over the lower-level kv.Mapping
// implementations, adding functionality such as value-filtered queries,
// diagnostic enumeration and standardized error reporting.
//
// The package focuses on:
//   - A unified interface (IStore) for key-value operations across different backends
//   - A transactional extension (ITransactionalStore) for layered, nestable
//     mutation staging with commit and rollback
//   - Pluggable base container architecture through the MappingFactory pattern
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining operations for interacting
//     with a key-value store. All implementations share this common interface,
//     allowing applications to switch between different storage backends without
//     code changes. The interface methods return custom Error types that provide
//     detailed information about operation results.
//
//   - ITransactionalStore Interface: Extends IStore with Begin, Commit, Rollback
//     and Depth. A transaction stages mutations in a per-level diff layer; the
//     visible state is the composition of the base container with all open
//     layers. Commit folds the innermost layer one level down, rollback discards
//     it. Committing or rolling back with no open transaction is a documented
//     no-op, reported through a boolean rather than an error.
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes and descriptive messages. This system allows applications to make
//     informed decisions based on specific error conditions rather than generic
//     errors.
//
//   - MappingFactory: A function type that abstracts the creation of underlying
//     kv.Mapping instances, providing dependency injection and flexible
//     configuration of base containers.
//
// Implementations:
//
//	The package includes two implementations of the interfaces:
//
//	- Transactional Store (tstore): The canonical in-memory implementation of
//	  ITransactionalStore. It layers a stack of diff maps over any kv.Mapping
//	  base container and resolves visibility by composing the two. Available in
//	  the "github.com/Tony-Hui/KeyValueStore/lib/store/tstore" package.
//
//	- Instrumented Store (instrument): A decorator that wraps any
//	  ITransactionalStore and counts operations using VictoriaMetrics metrics,
//	  exposable in Prometheus text format. Available in the
//	  "github.com/Tony-Hui/KeyValueStore/lib/store/instrument" package.
//
// This interface-driven approach allows applications to:
//   - Swap base containers without touching transaction logic
//   - Handle errors in a consistent and type-safe manner across implementations
//   - Abstract storage implementation details from application logic
package store
