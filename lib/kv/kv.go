package kv

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplBirch Implementation = "birch"
)

// Feature represents mapping features as bit flags
type Feature uint64

const (
	FeatureSet    Feature = 1 << iota // Support for Set operations
	FeatureGet                        // Support for Get operations
	FeatureDelete                     // Support for Delete operations
	FeatureLen                        // Support for Len operations
	FeatureRange                      // Support for Range operations
)

func (f Feature) String() string {
	switch f {
	case FeatureSet:
		return "Set"
	case FeatureGet:
		return "Get"
	case FeatureDelete:
		return "Delete"
	case FeatureLen:
		return "Len"
	case FeatureRange:
		return "Range"
	default:
		return "Unknown"
	}
}

type MappingInfo struct {
	Records           int            `json:"records"`
	MapType           Implementation `json:"map_type"`
	SupportedFeatures []Feature      `json:"supported_features"`
	Metadata          interface{}    `json:"metadata"`
}

// --------------------------------------------------------------------------
// Mapping Interface
// --------------------------------------------------------------------------

// Mapping defines an interface for the base associative container underlying
// a store. It provides methods for the raw storage operations: Set, Get,
// Delete, and bulk enumeration. Implementations can vary in their feature
// support, which can be queried with SupportsFeature.
//
// A Mapping holds only fully committed state. It knows nothing about
// transactions; diff layering happens entirely above this interface.
type Mapping[T any] interface {

	// --------------------------------------------------------------------------
	// Write Operations
	// --------------------------------------------------------------------------

	// Set inserts or updates an entry with the given key and value.
	// If the key already exists, the old value is overwritten.
	Set(key string, value T)

	// Delete removes an entry with the specified key.
	// Deleting a key that does not exist is a no-op.
	Delete(key string)

	// --------------------------------------------------------------------------
	// Query Operations
	// --------------------------------------------------------------------------

	// Get retrieves the value for an exact key.
	// The boolean return value indicates whether a value for the key was found.
	Get(key string) (value T, loaded bool)

	// Len returns the number of entries currently held.
	Len() (n int)

	// Range calls fn for every entry in the mapping until fn returns false.
	// The iteration order is unspecified and must not be relied upon to be
	// stable across calls.
	Range(fn func(key string, value T) bool)

	// --------------------------------------------------------------------------
	// Feature Support
	// --------------------------------------------------------------------------

	// SupportsFeature checks if the mapping implementation supports the specified feature.
	// Returns true if the feature is supported, false otherwise.
	// Multiple features can be checked at once using bitwise OR (|) operator.
	SupportsFeature(feature Feature) (ok bool)

	// GetInfo returns information about the mapping.
	GetInfo() (info MappingInfo)
}
