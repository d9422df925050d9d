package birch

import (
	"github.com/Tony-Hui/KeyValueStore/lib/kv"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// defaultCapacity is the initial bucket hint for the backing map
	defaultCapacity = 64
)

// --------------------------------------------------------------------------
// Core birch mapping structure
// --------------------------------------------------------------------------

// birchImpl implements kv.Mapping with a plain in-memory hash map.
// It is deliberately unsynchronized: callers own serialization.
type birchImpl[T any] struct {
	data map[string]T
}

// Options configures the birchImpl behavior during initialization
type Options struct {
	InitialCapacity int // Initial capacity hint for the backing map (0 = use default)
}

// DefaultOptions returns the default birchImpl options
func DefaultOptions() *Options {
	return &Options{
		InitialCapacity: defaultCapacity,
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewMapping creates a new birch mapping instance with the specified options (optional).
//
// Thread-safety: The returned mapping is not thread-safe. It is intended for
// single-threaded embedding; concurrent callers must serialize access externally.
func NewMapping[T any](opts *Options) kv.Mapping[T] {

	// Generate default options if not provided
	if opts == nil {
		opts = DefaultOptions()
	}

	capacity := opts.InitialCapacity
	if capacity <= 0 {
		capacity = defaultCapacity
	}

	return &birchImpl[T]{
		data: make(map[string]T, capacity),
	}
}

// --------------------------------------------------------------------------
// Core Mapping Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key and value.
// If the key already exists, the old value is overwritten.
func (birch *birchImpl[T]) Set(key string, value T) {
	birch.data[key] = value
}

// Delete removes an entry with the specified key.
// Deleting a key that does not exist is a no-op.
func (birch *birchImpl[T]) Delete(key string) {
	delete(birch.data, key)
}

// --------------------------------------------------------------------------
// Core Mapping Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves the value for an exact key.
// The boolean indicates whether a value for the key was found.
func (birch *birchImpl[T]) Get(key string) (T, bool) {
	value, loaded := birch.data[key]
	return value, loaded
}

// Len returns the number of entries currently held.
func (birch *birchImpl[T]) Len() int {
	return len(birch.data)
}

// Range calls fn for every entry until fn returns false.
// The iteration order is the map's order and therefore unspecified.
func (birch *birchImpl[T]) Range(fn func(key string, value T) bool) {
	for key, value := range birch.data {
		if !fn(key, value) {
			return
		}
	}
}

// --------------------------------------------------------------------------
// Mapping Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the mapping
func (birch *birchImpl[T]) GetInfo() kv.MappingInfo {

	// Metadata for this specific mapping implementation
	meta := &struct {
		Info string `json:"info"`
	}{
		Info: "Unsynchronized in-memory hash map. Record count is exact.",
	}

	// features
	supportedFeatures := []kv.Feature{
		kv.FeatureSet, kv.FeatureGet, kv.FeatureDelete,
		kv.FeatureLen, kv.FeatureRange,
	}

	return kv.MappingInfo{
		Records:           len(birch.data),
		MapType:           kv.ImplBirch,
		SupportedFeatures: supportedFeatures,
		Metadata:          meta,
	}
}

// SupportsFeature checks if this implementation supports a specific kv.Mapping feature
func (birch *birchImpl[T]) SupportsFeature(feature kv.Feature) bool {
	supportedFeatures := kv.FeatureSet |
		kv.FeatureGet |
		kv.FeatureDelete |
		kv.FeatureLen |
		kv.FeatureRange
	return supportedFeatures&feature == feature
}
