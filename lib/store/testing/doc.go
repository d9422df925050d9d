// Package testing provides standardised tests and benchmarks for store
// implementations that satisfy the store.ITransactionalStore interface.
//
// The package contains:
//   - testing: A comprehensive test suite for validating conformance to the
//     ITransactionalStore interface contract, including nested transaction,
//     tombstone and visibility-resolution semantics
//   - benchmark: Performance tests for measuring throughput of common store
//     operations and transaction cycles
//
// This package is particularly useful for:
//   - Store developers implementing the ITransactionalStore interface
//   - Applications that want to validate a decorated or wrapped store still
//     honors the full contract
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() store.ITransactionalStore[string] {
//		return NewMyStore()
//	}
//
//	// Running the standard test suite
//	storetesting.RunStoreTests(t, "MyStore", factory)
//
//	// Running performance benchmarks
//	storetesting.RunStoreBenchmarks(b, "MyStore", factory)
package testing
