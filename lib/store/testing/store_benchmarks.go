package testing

import (
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/Tony-Hui/KeyValueStore/lib/store"
)

// RunStoreBenchmarks runs all benchmarks for an ITransactionalStore
// implementation.
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, factory())
		})

		b.Run("SetExisting", func(b *testing.B) {
			benchmarkSetExisting(b, factory())
		})

		b.Run("SetInTransaction", func(b *testing.B) {
			benchmarkSetInTransaction(b, factory())
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory())
		})

		b.Run("Get(miss)", func(b *testing.B) {
			benchmarkGetMiss(b, factory())
		})

		b.Run("GetDeepNesting", func(b *testing.B) {
			benchmarkGetDeepNesting(b, factory())
		})

		b.Run("Delete", func(b *testing.B) {
			benchmarkDelete(b, factory())
		})

		b.Run("Keys", func(b *testing.B) {
			benchmarkKeys(b, factory())
		})

		b.Run("Count", func(b *testing.B) {
			benchmarkCount(b, factory())
		})

		b.Run("CommitCycle", func(b *testing.B) {
			benchmarkCommitCycle(b, factory())
		})

		b.Run("RollbackCycle", func(b *testing.B) {
			benchmarkRollbackCycle(b, factory())
		})

		b.Run("Show", func(b *testing.B) {
			benchmarkShow(b, factory())
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Benchmark helpers
// --------------------------------------------------------------------------

const benchKeySpread = 1000

func benchKey(i int) string {
	return fmt.Sprintf("bench-key-%d", i%benchKeySpread)
}

// seed populates the store with benchKeySpread committed records
func seed(b *testing.B, s store.ITransactionalStore[string]) {
	b.Helper()
	for i := 0; i < benchKeySpread; i++ {
		if err := s.Set(benchKey(i), "bench-value"); err != nil {
			b.Fatalf("seeding failed: %v", err)
		}
	}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

// Benchmark for Set operation on fresh keys
func benchmarkSet(b *testing.B, s store.ITransactionalStore[string]) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set(fmt.Sprintf("bench-key-%d", i), "bench-value")
	}
}

// Benchmark for Set operation overwriting existing keys
func benchmarkSetExisting(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set(benchKey(i), "bench-value-2")
	}
}

// Benchmark for Set operation targeting an open diff layer
func benchmarkSetInTransaction(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)
	if err := s.Begin(); err != nil {
		b.Fatalf("Begin failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Set(benchKey(i), "bench-value-2")
	}
}

// Benchmark for Get operation on committed keys
func benchmarkGet(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.Get(benchKey(i))
	}
}

// Benchmark for Get operation on missing keys
func benchmarkGetMiss(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.Get("missing-key")
	}
}

// Benchmark for Get operation through a deep transaction stack
func benchmarkGetDeepNesting(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)
	for i := 0; i < 32; i++ {
		if err := s.Begin(); err != nil {
			b.Fatalf("Begin failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.Get(benchKey(i))
	}
}

// Benchmark for Delete operation
func benchmarkDelete(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Delete(benchKey(i))
	}
}

// Benchmark for Keys (full visibility resolution)
func benchmarkKeys(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Keys()
	}
}

// Benchmark for Count (full visibility resolution)
func benchmarkCount(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Count()
	}
}

// Benchmark for a full Begin/Set/Commit cycle
func benchmarkCommitCycle(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Begin()
		_ = s.Set(benchKey(i), "bench-value-2")
		_, _ = s.Commit()
	}
}

// Benchmark for a full Begin/Set/Rollback cycle
func benchmarkRollbackCycle(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Begin()
		_ = s.Set(benchKey(i), "bench-value-2")
		_, _ = s.Rollback()
	}
}

// Benchmark for the diagnostic listing
func benchmarkShow(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Show(io.Discard, 100)
	}
}

// Benchmark for realistic mixed usage
func benchmarkMixedUsage(b *testing.B, s store.ITransactionalStore[string]) {
	seed(b, s)
	rng := rand.New(rand.NewSource(42))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		switch rng.Intn(10) {
		case 0:
			_ = s.Begin()
		case 1:
			_, _ = s.Commit()
		case 2:
			_, _ = s.Rollback()
		case 3:
			_ = s.Delete(benchKey(i))
		case 4, 5:
			_ = s.Set(benchKey(i), "bench-value-2")
		default:
			_, _, _ = s.Get(benchKey(i))
		}
	}
}
