package instrument

import (
	"io"

	"github.com/Tony-Hui/KeyValueStore/lib/kv"
	"github.com/Tony-Hui/KeyValueStore/lib/store"
	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IInstrumentedStore is an ITransactionalStore that additionally exposes its
// operation counters in Prometheus text format.
type IInstrumentedStore[T comparable] interface {
	store.ITransactionalStore[T]

	// WriteMetrics writes all collected counters to w in Prometheus text format.
	WriteMetrics(w io.Writer)
}

// --------------------------------------------------------------------------
// Instrumented store decorator
// --------------------------------------------------------------------------

// storeImpl decorates an ITransactionalStore with per-operation counters.
// Each public method delegates unchanged to the wrapped store; the decorator
// adds no semantics beyond counting.
type storeImpl[T comparable] struct {
	inner store.ITransactionalStore[T]
	set   *metrics.Set

	opSet      *metrics.Counter
	opDelete   *metrics.Counter
	opGet      *metrics.Counter
	opHas      *metrics.Counter
	opResolve  *metrics.Counter
	opBegin    *metrics.Counter
	opCommit   *metrics.Counter
	opRollback *metrics.Counter
	skipped    *metrics.Counter
}

// NewInstrumentedStore wraps an existing transactional store with operation
// counters. The counters live in a private metrics.Set, so multiple
// instrumented stores in one process do not collide.
func NewInstrumentedStore[T comparable](inner store.ITransactionalStore[T]) IInstrumentedStore[T] {
	set := metrics.NewSet()

	return &storeImpl[T]{
		inner: inner,
		set:   set,

		opSet:      set.GetOrCreateCounter(`kvs_store_ops_total{op="set"}`),
		opDelete:   set.GetOrCreateCounter(`kvs_store_ops_total{op="delete"}`),
		opGet:      set.GetOrCreateCounter(`kvs_store_ops_total{op="get"}`),
		opHas:      set.GetOrCreateCounter(`kvs_store_ops_total{op="has"}`),
		opResolve:  set.GetOrCreateCounter(`kvs_store_ops_total{op="resolve"}`),
		opBegin:    set.GetOrCreateCounter(`kvs_store_ops_total{op="begin"}`),
		opCommit:   set.GetOrCreateCounter(`kvs_store_ops_total{op="commit"}`),
		opRollback: set.GetOrCreateCounter(`kvs_store_ops_total{op="rollback"}`),
		skipped:    set.GetOrCreateCounter(`kvs_store_noop_tx_closes_total`),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[T]) Set(key string, value T) error {
	s.opSet.Inc()
	return s.inner.Set(key, value)
}

func (s *storeImpl[T]) Delete(key string) error {
	s.opDelete.Inc()
	return s.inner.Delete(key)
}

func (s *storeImpl[T]) Get(key string) (T, bool, error) {
	s.opGet.Inc()
	return s.inner.Get(key)
}

func (s *storeImpl[T]) Has(key string) (bool, error) {
	s.opHas.Inc()
	return s.inner.Has(key)
}

func (s *storeImpl[T]) Keys() ([]string, error) {
	s.opResolve.Inc()
	return s.inner.Keys()
}

func (s *storeImpl[T]) KeysWithValue(value T) ([]string, error) {
	s.opResolve.Inc()
	return s.inner.KeysWithValue(value)
}

func (s *storeImpl[T]) Values() ([]T, error) {
	s.opResolve.Inc()
	return s.inner.Values()
}

func (s *storeImpl[T]) Count() (uint32, error) {
	s.opResolve.Inc()
	return s.inner.Count()
}

func (s *storeImpl[T]) CountWithValue(value T) (uint32, error) {
	s.opResolve.Inc()
	return s.inner.CountWithValue(value)
}

func (s *storeImpl[T]) Show(w io.Writer, maxRecords uint32) error {
	s.opResolve.Inc()
	return s.inner.Show(w, maxRecords)
}

func (s *storeImpl[T]) GetMappingInfo() (kv.MappingInfo, error) {
	return s.inner.GetMappingInfo()
}

func (s *storeImpl[T]) Begin() error {
	s.opBegin.Inc()
	return s.inner.Begin()
}

func (s *storeImpl[T]) Commit() (bool, error) {
	s.opCommit.Inc()
	applied, err := s.inner.Commit()
	if err == nil && !applied {
		s.skipped.Inc()
	}
	return applied, err
}

func (s *storeImpl[T]) Rollback() (bool, error) {
	s.opRollback.Inc()
	applied, err := s.inner.Rollback()
	if err == nil && !applied {
		s.skipped.Inc()
	}
	return applied, err
}

func (s *storeImpl[T]) Depth() uint32 {
	return s.inner.Depth()
}

// --------------------------------------------------------------------------
// Metrics Exposure
// --------------------------------------------------------------------------

func (s *storeImpl[T]) WriteMetrics(w io.Writer) {
	s.set.WritePrometheus(w)
}
