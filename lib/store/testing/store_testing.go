package testing

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/Tony-Hui/KeyValueStore/lib/store"
)

// StoreFactory is a function that creates a new instance of an
// ITransactionalStore implementation with string values.
type StoreFactory func() store.ITransactionalStore[string]

// RunStoreTests runs a comprehensive test suite for an ITransactionalStore
// implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("DeleteIdempotent", func(t *testing.T) {
			testDeleteIdempotent(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("Keys", func(t *testing.T) {
			testKeys(t, factory())
		})

		t.Run("KeysWithValue", func(t *testing.T) {
			testKeysWithValue(t, factory())
		})

		t.Run("Values", func(t *testing.T) {
			testValues(t, factory())
		})

		t.Run("Count", func(t *testing.T) {
			testCount(t, factory())
		})

		t.Run("CountMatchesKeys", func(t *testing.T) {
			testCountMatchesKeys(t, factory())
		})

		t.Run("Show", func(t *testing.T) {
			testShow(t, factory())
		})

		t.Run("Rollback", func(t *testing.T) {
			testRollback(t, factory())
		})

		t.Run("Commit", func(t *testing.T) {
			testCommit(t, factory())
		})

		t.Run("TombstoneMasking", func(t *testing.T) {
			testTombstoneMasking(t, factory())
		})

		t.Run("RollbackRestoresDelete", func(t *testing.T) {
			testRollbackRestoresDelete(t, factory())
		})

		t.Run("NestedTransactions", func(t *testing.T) {
			testNestedTransactions(t, factory())
		})

		t.Run("NestedCommitIntoOuterLayer", func(t *testing.T) {
			testNestedCommitIntoOuterLayer(t, factory())
		})

		t.Run("EmptyStackNoOps", func(t *testing.T) {
			testEmptyStackNoOps(t, factory())
		})

		t.Run("Depth", func(t *testing.T) {
			testDepth(t, factory())
		})

		t.Run("TransactionScenario", func(t *testing.T) {
			testTransactionScenario(t, factory())
		})

		t.Run("DeepNesting", func(t *testing.T) {
			testDeepNesting(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// mustSet fails the test on any write error
func mustSet(t testing.TB, s store.ITransactionalStore[string], key, value string) {
	t.Helper()
	if err := s.Set(key, value); err != nil {
		t.Fatalf("Set(%q, %q) returned error: %v", key, value, err)
	}
}

// mustDelete fails the test on any write error
func mustDelete(t testing.TB, s store.ITransactionalStore[string], key string) {
	t.Helper()
	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete(%q) returned error: %v", key, err)
	}
}

// mustBegin fails the test if a transaction can not be opened
func mustBegin(t testing.TB, s store.ITransactionalStore[string]) {
	t.Helper()
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
}

// expectValue asserts that a key resolves to the given value
func expectValue(t testing.TB, s store.ITransactionalStore[string], key, want string) {
	t.Helper()
	value, loaded, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) returned error: %v", key, err)
	}
	if !loaded {
		t.Fatalf("Expected key %q to be visible with value %q, got absent", key, want)
	}
	if value != want {
		t.Errorf("Expected value %q for key %q, got %q", want, key, value)
	}
}

// expectAbsent asserts that a key is not visible
func expectAbsent(t testing.TB, s store.ITransactionalStore[string], key string) {
	t.Helper()
	_, loaded, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) returned error: %v", key, err)
	}
	if loaded {
		t.Errorf("Expected key %q to be absent", key)
	}
}

// expectCount asserts the unfiltered visible record count
func expectCount(t testing.TB, s store.ITransactionalStore[string], want uint32) {
	t.Helper()
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if n != want {
		t.Errorf("Expected count %d, got %d", want, n)
	}
}

// expectKeys asserts the visible key set regardless of order
func expectKeys(t testing.TB, got []string, want ...string) {
	t.Helper()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("Expected keys %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected keys %v, got %v", want, got)
		}
	}
}

// --------------------------------------------------------------------------
// Test functions - plain store operations
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.ITransactionalStore[string]) {
	expectAbsent(t, s, "alice")

	mustSet(t, s, "alice", "23")
	expectCount(t, s, 1)
	expectValue(t, s, "alice", "23")
}

func testOverwrite(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "23")
	mustSet(t, s, "alice", "24")

	expectCount(t, s, 1)
	expectValue(t, s, "alice", "24")
}

func testDelete(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "23")
	mustDelete(t, s, "alice")
	expectAbsent(t, s, "alice")

	mustSet(t, s, "alice", "25")
	expectValue(t, s, "alice", "25")
}

func testDeleteIdempotent(t *testing.T, s store.ITransactionalStore[string]) {
	mustDelete(t, s, "alice")
	mustDelete(t, s, "alice")
	mustDelete(t, s, "alice")
	expectCount(t, s, 0)
	expectAbsent(t, s, "alice")

	mustSet(t, s, "alice", "25")
	mustDelete(t, s, "alice")
	mustDelete(t, s, "alice")
	expectCount(t, s, 0)
	expectAbsent(t, s, "alice")
}

func testHas(t *testing.T, s store.ITransactionalStore[string]) {
	loaded, err := s.Has("alice")
	if err != nil {
		t.Fatalf("Has returned error: %v", err)
	}
	if loaded {
		t.Errorf("Expected Has to report a missing key as absent")
	}

	mustSet(t, s, "alice", "23")
	loaded, err = s.Has("alice")
	if err != nil {
		t.Fatalf("Has returned error: %v", err)
	}
	if !loaded {
		t.Errorf("Expected Has to report an existing key as present")
	}

	// a tombstone inside a transaction must hide the key from Has too
	mustBegin(t, s)
	mustDelete(t, s, "alice")
	loaded, _ = s.Has("alice")
	if loaded {
		t.Errorf("Expected Has to report a tombstoned key as absent")
	}
}

func testKeys(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "25")
	mustSet(t, s, "bob", "24")
	mustSet(t, s, "carol", "25")

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	expectKeys(t, keys, "alice", "bob", "carol")
}

func testKeysWithValue(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "25")
	mustSet(t, s, "bob", "24")
	mustSet(t, s, "carol", "25")

	keys, err := s.KeysWithValue("25")
	if err != nil {
		t.Fatalf("KeysWithValue returned error: %v", err)
	}
	expectKeys(t, keys, "alice", "carol")

	keys, err = s.KeysWithValue("missing")
	if err != nil {
		t.Fatalf("KeysWithValue returned error: %v", err)
	}
	expectKeys(t, keys)
}

func testValues(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "25")
	mustSet(t, s, "bob", "24")

	values, err := s.Values()
	if err != nil {
		t.Fatalf("Values returned error: %v", err)
	}
	expectKeys(t, values, "24", "25")
}

func testCount(t *testing.T, s store.ITransactionalStore[string]) {
	const numKeys = 100
	for i := 0; i < numKeys; i++ {
		mustSet(t, s, fmt.Sprintf("key-%d", i), fmt.Sprintf("%d", i))
	}
	expectCount(t, s, numKeys)

	// overwriting must not change the number of keys
	for i := 0; i < numKeys; i++ {
		mustSet(t, s, fmt.Sprintf("key-%d", i), fmt.Sprintf("%d", i*10))
	}
	expectCount(t, s, numKeys)
}

func testCountMatchesKeys(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "25")
	mustSet(t, s, "bob", "24")
	mustSet(t, s, "carol", "25")
	mustBegin(t, s)
	mustDelete(t, s, "bob")
	mustSet(t, s, "dave", "25")

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if int(n) != len(keys) {
		t.Errorf("Count (%d) does not match number of Keys (%d)", n, len(keys))
	}

	filtered, err := s.KeysWithValue("25")
	if err != nil {
		t.Fatalf("KeysWithValue returned error: %v", err)
	}
	fn, err := s.CountWithValue("25")
	if err != nil {
		t.Fatalf("CountWithValue returned error: %v", err)
	}
	if int(fn) != len(filtered) {
		t.Errorf("CountWithValue (%d) does not match number of filtered Keys (%d)", fn, len(filtered))
	}
}

func testShow(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "25")
	mustSet(t, s, "bob", "24")
	mustSet(t, s, "carol", "23")

	// the listing must reflect resolved state, including pending mutations
	mustBegin(t, s)
	mustDelete(t, s, "carol")

	var buf bytes.Buffer
	if err := s.Show(&buf, 100); err != nil {
		t.Fatalf("Show returned error: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 records, got %d: %q", len(lines), out)
	}
	if !strings.Contains(out, "alice : 25") || !strings.Contains(out, "bob : 24") {
		t.Errorf("Expected records for alice and bob, got %q", out)
	}
	if strings.Contains(out, "carol") {
		t.Errorf("Expected tombstoned key carol to be hidden, got %q", out)
	}

	// the record cap must be respected
	buf.Reset()
	if err := s.Show(&buf, 1); err != nil {
		t.Fatalf("Show returned error: %v", err)
	}
	lines = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("Expected Show to emit at most 1 record, got %d", len(lines))
	}

	// a zero cap emits nothing
	buf.Reset()
	if err := s.Show(&buf, 0); err != nil {
		t.Fatalf("Show returned error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected Show with cap 0 to emit nothing, got %q", buf.String())
	}
}

// --------------------------------------------------------------------------
// Test functions - transactions
// --------------------------------------------------------------------------

func testRollback(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "25")
	mustBegin(t, s)
	mustSet(t, s, "alice", "24")
	expectValue(t, s, "alice", "24")

	applied, err := s.Rollback()
	if err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	if !applied {
		t.Errorf("Expected Rollback to discard an open transaction")
	}
	expectValue(t, s, "alice", "25")
}

func testCommit(t *testing.T, s store.ITransactionalStore[string]) {
	mustBegin(t, s)
	mustSet(t, s, "alice", "69")
	expectValue(t, s, "alice", "69")

	applied, err := s.Commit()
	if err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if !applied {
		t.Errorf("Expected Commit to apply an open transaction")
	}

	// the committed value survives a rollback attempt with no open transaction
	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	expectValue(t, s, "alice", "69")
}

func testTombstoneMasking(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "1")
	mustBegin(t, s)
	mustDelete(t, s, "alice")

	// the base still holds the value but the tombstone must mask it
	expectAbsent(t, s, "alice")
	expectCount(t, s, 0)

	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	expectValue(t, s, "alice", "1")
}

func testRollbackRestoresDelete(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "old")
	mustBegin(t, s)
	mustDelete(t, s, "alice")
	mustSet(t, s, "bob", "new")
	expectAbsent(t, s, "alice")

	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}

	// the deleted key reappears, the uncommitted key vanishes
	expectValue(t, s, "alice", "old")
	expectAbsent(t, s, "bob")
}

func testNestedTransactions(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "alice", "69")
	mustBegin(t, s)
	mustDelete(t, s, "alice")
	expectAbsent(t, s, "alice")

	mustBegin(t, s)
	mustSet(t, s, "bob", "23")
	expectValue(t, s, "bob", "23")

	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	expectValue(t, s, "alice", "69")
	expectAbsent(t, s, "bob")

	mustBegin(t, s)
	mustSet(t, s, "carol", "20")
	expectValue(t, s, "carol", "20")

	mustBegin(t, s)
	mustSet(t, s, "carol", "21")
	mustBegin(t, s)
	mustSet(t, s, "bob", "24")
	mustDelete(t, s, "carol")
	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	if _, err := s.Commit(); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	expectValue(t, s, "carol", "21")
	expectAbsent(t, s, "bob")
}

func testNestedCommitIntoOuterLayer(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "k", "v1")
	mustBegin(t, s)
	mustSet(t, s, "k", "v2")
	mustBegin(t, s)
	mustSet(t, s, "k", "v3")

	// the inner commit folds into the outer layer, not the base
	if _, err := s.Commit(); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	expectValue(t, s, "k", "v3")

	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	expectValue(t, s, "k", "v1")
}

func testEmptyStackNoOps(t *testing.T, s store.ITransactionalStore[string]) {
	applied, err := s.Commit()
	if err != nil {
		t.Fatalf("Commit with empty stack returned error: %v", err)
	}
	if applied {
		t.Errorf("Expected Commit with empty stack to report applied=false")
	}

	applied, err = s.Rollback()
	if err != nil {
		t.Fatalf("Rollback with empty stack returned error: %v", err)
	}
	if applied {
		t.Errorf("Expected Rollback with empty stack to report applied=false")
	}

	// the no-ops must not disturb committed state
	mustSet(t, s, "alice", "23")
	if _, err := s.Commit(); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	expectValue(t, s, "alice", "23")
}

func testDepth(t *testing.T, s store.ITransactionalStore[string]) {
	if d := s.Depth(); d != 0 {
		t.Errorf("Expected depth 0, got %d", d)
	}
	mustBegin(t, s)
	mustBegin(t, s)
	if d := s.Depth(); d != 2 {
		t.Errorf("Expected depth 2, got %d", d)
	}
	if _, err := s.Commit(); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if d := s.Depth(); d != 1 {
		t.Errorf("Expected depth 1, got %d", d)
	}
	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	if d := s.Depth(); d != 0 {
		t.Errorf("Expected depth 0, got %d", d)
	}
}

func testTransactionScenario(t *testing.T, s store.ITransactionalStore[string]) {
	mustSet(t, s, "a", "1")
	mustSet(t, s, "b", "2")
	mustBegin(t, s)
	mustSet(t, s, "a", "3")
	mustDelete(t, s, "b")

	expectValue(t, s, "a", "3")
	expectAbsent(t, s, "b")
	expectCount(t, s, 1)

	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	expectValue(t, s, "a", "1")
	expectValue(t, s, "b", "2")
	expectCount(t, s, 2)

	// commit inside an open outer transaction stays invisible to the base
	// until the outer transaction resolves
	mustBegin(t, s)
	mustBegin(t, s)
	mustSet(t, s, "x", "9")
	if _, err := s.Commit(); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	expectValue(t, s, "x", "9")
	if _, err := s.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	expectAbsent(t, s, "x")
}

func testDeepNesting(t *testing.T, s store.ITransactionalStore[string]) {
	const depth = 64

	mustSet(t, s, "counter", "0")
	for i := 1; i <= depth; i++ {
		mustBegin(t, s)
		mustSet(t, s, "counter", fmt.Sprintf("%d", i))
	}
	expectValue(t, s, "counter", fmt.Sprintf("%d", depth))

	// commit every level down to the base
	for i := 0; i < depth; i++ {
		if _, err := s.Commit(); err != nil {
			t.Fatalf("Commit returned error: %v", err)
		}
	}
	if d := s.Depth(); d != 0 {
		t.Fatalf("Expected depth 0 after committing all levels, got %d", d)
	}
	expectValue(t, s, "counter", fmt.Sprintf("%d", depth))
}
