package tstore

import (
	"fmt"
	"io"

	"github.com/Tony-Hui/KeyValueStore/lib/kv"
	"github.com/Tony-Hui/KeyValueStore/lib/store"
)

// --------------------------------------------------------------------------
// Diff Layer Types
// --------------------------------------------------------------------------

// layerEntry is the per-layer state recorded for a key: either a pending
// value or a tombstone. A key absent from a layer's map carries no opinion
// at that level and defers to the layer below.
type layerEntry[T comparable] struct {
	value     T
	tombstone bool
}

// diffLayer records the pending mutations of one transaction level.
type diffLayer[T comparable] map[string]layerEntry[T]

// --------------------------------------------------------------------------
// Core transactional store structure
// --------------------------------------------------------------------------

type storeImpl[T comparable] struct {
	base   kv.Mapping[T]  // committed state, mutated only outside transactions and by outermost commits
	layers []diffLayer[T] // transaction stack, the last element is the innermost open transaction
}

// NewTransactionalStore creates a new transactional store instance.
// The base mapping created by the factory holds the committed state; all
// transaction layering happens inside the store itself, so any kv.Mapping
// implementation works as a backend.
//
// Thread-safety: The returned store is not thread-safe. It assumes exclusive
// single-threaded access; embedding applications that share it across
// goroutines must serialize all calls externally.
func NewTransactionalStore[T comparable](factory store.MappingFactory[T]) store.ITransactionalStore[T] {
	return &storeImpl[T]{
		base:   factory(),
		layers: nil,
	}
}

// --------------------------------------------------------------------------
// Visibility Resolution
// --------------------------------------------------------------------------

// resolve composes the base mapping with all open diff layers into a fresh
// snapshot of the currently visible state. Layers are applied from oldest to
// newest so that inner edits win; tombstones remove keys from the running
// result. Every call pays O(base + total layer entries) and returns a map
// owned by the caller.
//
// Get answers the same question for a single key by walking the layers in the
// opposite direction. The two must never diverge.
func (s *storeImpl[T]) resolve() map[string]T {
	visible := make(map[string]T, s.base.Len())
	s.base.Range(func(key string, value T) bool {
		visible[key] = value
		return true
	})

	for _, layer := range s.layers {
		for key, entry := range layer {
			if entry.tombstone {
				delete(visible, key)
			} else {
				visible[key] = entry.value
			}
		}
	}

	return visible
}

// lookup is the single-key counterpart of resolve. It searches the layers
// from the innermost outwards and stops at the first mention of the key,
// tombstone or value, falling back to the base mapping.
func (s *storeImpl[T]) lookup(key string) (T, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if entry, mentioned := s.layers[i][key]; mentioned {
			if entry.tombstone {
				var zero T
				return zero, false
			}
			return entry.value, true
		}
	}
	return s.base.Get(key)
}

// --------------------------------------------------------------------------
// Interface Methods - Write Operations (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[T]) Set(key string, value T) error {
	if !s.base.SupportsFeature(kv.FeatureSet) {
		return store.NewError(store.RetCUnsupportedOperation, "Set operation is not supported")
	}

	// inside a transaction the innermost layer absorbs the write, overwriting
	// any prior mention (value or tombstone) at that level
	if top, open := s.topLayer(); open {
		top[key] = layerEntry[T]{value: value}
		return nil
	}

	s.base.Set(key, value)
	return nil
}

func (s *storeImpl[T]) Delete(key string) error {
	if !s.base.SupportsFeature(kv.FeatureDelete) {
		return store.NewError(store.RetCUnsupportedOperation, "Delete operation is not supported")
	}

	// a tombstone is recorded even for keys that never existed so it masks
	// values from older layers and the base mapping until resolved
	if top, open := s.topLayer(); open {
		top[key] = layerEntry[T]{tombstone: true}
		return nil
	}

	s.base.Delete(key)
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods - Read Operations (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[T]) Get(key string) (T, bool, error) {
	if !s.base.SupportsFeature(kv.FeatureGet) {
		var zero T
		return zero, false, store.NewError(store.RetCUnsupportedOperation, "Get operation is not supported")
	}
	value, loaded := s.lookup(key)
	return value, loaded, nil
}

func (s *storeImpl[T]) Has(key string) (bool, error) {
	if !s.base.SupportsFeature(kv.FeatureGet) {
		return false, store.NewError(store.RetCUnsupportedOperation, "Has operation is not supported")
	}
	_, loaded := s.lookup(key)
	return loaded, nil
}

// --------------------------------------------------------------------------
// Interface Methods - Aggregate Queries (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[T]) Keys() ([]string, error) {
	visible, err := s.resolveChecked()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(visible))
	for key := range visible {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *storeImpl[T]) KeysWithValue(value T) ([]string, error) {
	visible, err := s.resolveChecked()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0)
	for key, v := range visible {
		if v == value {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *storeImpl[T]) Values() ([]T, error) {
	visible, err := s.resolveChecked()
	if err != nil {
		return nil, err
	}

	values := make([]T, 0, len(visible))
	for _, value := range visible {
		values = append(values, value)
	}
	return values, nil
}

func (s *storeImpl[T]) Count() (uint32, error) {
	visible, err := s.resolveChecked()
	if err != nil {
		return 0, err
	}
	return uint32(len(visible)), nil
}

func (s *storeImpl[T]) CountWithValue(value T) (uint32, error) {
	visible, err := s.resolveChecked()
	if err != nil {
		return 0, err
	}

	var n uint32
	for _, v := range visible {
		if v == value {
			n++
		}
	}
	return n, nil
}

func (s *storeImpl[T]) Show(w io.Writer, maxRecords uint32) error {
	visible, err := s.resolveChecked()
	if err != nil {
		return err
	}

	var written uint32
	for key, value := range visible {
		if written >= maxRecords {
			break
		}
		if _, err := fmt.Fprintf(w, "%s : %v\n", key, value); err != nil {
			return store.NewError(store.RetCInternalError, fmt.Sprintf("Show failed to write record: %v", err))
		}
		written++
	}
	return nil
}

func (s *storeImpl[T]) GetMappingInfo() (kv.MappingInfo, error) {
	return s.base.GetInfo(), nil
}

// --------------------------------------------------------------------------
// Interface Methods - Transactions (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[T]) Begin() error {
	s.layers = append(s.layers, make(diffLayer[T]))
	return nil
}

func (s *storeImpl[T]) Commit() (bool, error) {
	top, open := s.topLayer()
	if !open {
		// no open transaction, silent no-op by contract
		return false, nil
	}

	// fold into the enclosing layer if one exists; inner state wins over
	// whatever the outer layer already held for the same key
	if len(s.layers) > 1 {
		below := s.layers[len(s.layers)-2]
		for key, entry := range top {
			below[key] = entry
		}
		s.popLayer()
		return true, nil
	}

	// outermost commit folds into the base mapping
	if len(top) > 0 && !s.base.SupportsFeature(kv.FeatureSet|kv.FeatureDelete) {
		// keep the layer so no staged mutation is lost
		return false, store.NewError(store.RetCUnsupportedOperation, "Commit requires Set and Delete support in the base mapping")
	}
	for key, entry := range top {
		if entry.tombstone {
			s.base.Delete(key)
		} else {
			s.base.Set(key, entry.value)
		}
	}
	s.popLayer()
	return true, nil
}

func (s *storeImpl[T]) Rollback() (bool, error) {
	if _, open := s.topLayer(); !open {
		// no open transaction, silent no-op by contract
		return false, nil
	}
	s.popLayer()
	return true, nil
}

func (s *storeImpl[T]) Depth() uint32 {
	return uint32(len(s.layers))
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// topLayer returns the innermost open diff layer, if any.
func (s *storeImpl[T]) topLayer() (diffLayer[T], bool) {
	if len(s.layers) == 0 {
		return nil, false
	}
	return s.layers[len(s.layers)-1], true
}

// popLayer discards the innermost diff layer.
func (s *storeImpl[T]) popLayer() {
	s.layers[len(s.layers)-1] = nil
	s.layers = s.layers[:len(s.layers)-1]
}

// resolveChecked verifies the base mapping supports bulk enumeration before
// materializing the visible state.
func (s *storeImpl[T]) resolveChecked() (map[string]T, error) {
	if !s.base.SupportsFeature(kv.FeatureRange | kv.FeatureLen) {
		return nil, store.NewError(store.RetCUnsupportedOperation, "aggregate queries require Range and Len support in the base mapping")
	}
	return s.resolve(), nil
}
