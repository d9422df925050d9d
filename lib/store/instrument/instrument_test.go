package instrument

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Tony-Hui/KeyValueStore/lib/kv"
	"github.com/Tony-Hui/KeyValueStore/lib/kv/engines/birch"
	"github.com/Tony-Hui/KeyValueStore/lib/store"
	storetesting "github.com/Tony-Hui/KeyValueStore/lib/store/testing"
	"github.com/Tony-Hui/KeyValueStore/lib/store/tstore"
)

func newInstrumentedStore() IInstrumentedStore[string] {
	return NewInstrumentedStore(tstore.NewTransactionalStore(func() kv.Mapping[string] {
		return birch.NewMapping[string](nil)
	}))
}

// The decorator must still satisfy the full store contract.
func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "InstrumentedStore", func() store.ITransactionalStore[string] {
		return newInstrumentedStore()
	})
}

func TestCounters(t *testing.T) {
	s := newInstrumentedStore()

	_ = s.Set("alice", "23")
	_ = s.Set("bob", "24")
	_, _, _ = s.Get("alice")
	_ = s.Begin()
	_, _ = s.Commit()
	_, _ = s.Commit() // empty stack, counted as no-op close

	var buf bytes.Buffer
	s.WriteMetrics(&buf)
	out := buf.String()

	for _, want := range []string{
		`kvs_store_ops_total{op="set"} 2`,
		`kvs_store_ops_total{op="get"} 1`,
		`kvs_store_ops_total{op="begin"} 1`,
		`kvs_store_ops_total{op="commit"} 2`,
		`kvs_store_noop_tx_closes_total 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected metrics output to contain %q, got:\n%s", want, out)
		}
	}
}
