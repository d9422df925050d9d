// Package cmd implements the command-line interface for the kvs transactional
// key-value store. It provides a hierarchical command structure with an
// interactive shell for exploring the store and a micro-benchmark runner.
//
// The package is organized into several subpackages:
//
//   - shell: An interactive read-eval-print loop over an in-process store
//   - perf: In-process performance measurements of store operations
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See kvs -help for a list of all commands.
package cmd
