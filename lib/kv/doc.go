// Package kv defines the low-level mapping abstraction used as the base
// container of a store. It contains the generic Mapping interface along with
// the feature flag system that lets a store discover at runtime which
// operations an injected mapping implementation supports.
//
// The package focuses on:
//   - A minimal, generic interface (Mapping) for raw associative storage
//   - Feature detection via bit flags so stores can fail gracefully on
//     partially capable backends
//   - Implementation metadata reporting through MappingInfo
//
// Implementations live in the engines subdirectory. The only engine shipped
// with this module is birch, a plain in-memory hash map, available in the
// "github.com/Tony-Hui/KeyValueStore/lib/kv/engines/birch" package.
package kv
