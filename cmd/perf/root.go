package perf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tony-Hui/KeyValueStore/cmd/util"
	"github.com/Tony-Hui/KeyValueStore/lib/kv"
	"github.com/Tony-Hui/KeyValueStore/lib/kv/engines/birch"
	"github.com/Tony-Hui/KeyValueStore/lib/store"
	"github.com/Tony-Hui/KeyValueStore/lib/store/tstore"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// PerfCmd represents the perf command
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the in-process store",
		Long:    "Runs micro-benchmarks against a fresh in-process store and reports latency percentiles per operation.",
		PreRunE: processPerfConfig,
		RunE:    run,
	}

	perfOps       = 100000
	perfKeySpread = 1000
	perfValueSize = 16
	perfDepth     = 8
	perfSkip      = make([]string, 0)
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitEnvConfig)

	// add flags
	key := "ops"
	PerfCmd.PersistentFlags().Int(key, 100000, util.WrapString("Number of operations per benchmark"))

	key = "keys"
	PerfCmd.PersistentFlags().Int(key, 1000, util.WrapString("How many different keys to use for the tests"))

	key = "value-size"
	PerfCmd.PersistentFlags().Int(key, 16, util.WrapString("Size of the values in bytes"))

	key = "tx-depth"
	PerfCmd.PersistentFlags().Int(key, 8, util.WrapString("Transaction nesting depth for the nested-read benchmark"))

	key = "skip"
	PerfCmd.PersistentFlags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	perfOps = viper.GetInt("ops")
	perfKeySpread = viper.GetInt("keys")
	perfValueSize = viper.GetInt("value-size")
	perfDepth = viper.GetInt("tx-depth")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func shouldSkip(name string) bool {
	for _, skip := range perfSkip {
		if strings.TrimSpace(skip) == name {
			return true
		}
	}
	return false
}

// --------------------------------------------------------------------------
// Benchmark harness
// --------------------------------------------------------------------------

func newStore() store.ITransactionalStore[string] {
	return tstore.NewTransactionalStore(func() kv.Mapping[string] {
		return birch.NewMapping[string](&birch.Options{InitialCapacity: perfKeySpread})
	})
}

func perfKey(i int) string {
	return fmt.Sprintf("perf-key-%d", i%perfKeySpread)
}

// measure times fn once per operation and registers the samples under name
func measure(registry metrics.Registry, out io.Writer, name string, fn func(i int)) {
	if shouldSkip(name) {
		fmt.Fprintf(out, "%-14s skipped\n", name)
		return
	}

	timer := metrics.NewRegisteredTimer(name, registry)
	for i := 0; i < perfOps; i++ {
		start := time.Now()
		fn(i)
		timer.UpdateSince(start)
	}

	printResult(out, name, timer)
}

func printResult(out io.Writer, name string, timer metrics.Timer) {
	toMicro := func(ns float64) float64 { return ns / float64(time.Microsecond) }
	fmt.Fprintf(out, "%-14s %9d ops %12.0f ops/s   mean %8.2f µs   p95 %8.2f µs   p99 %8.2f µs\n",
		name,
		timer.Count(),
		timer.RateMean(),
		toMicro(timer.Mean()),
		toMicro(timer.Percentile(0.95)),
		toMicro(timer.Percentile(0.99)),
	)
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

func run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Performance testing tool for the in-process store")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "Operations per benchmark: %d\n", perfOps)
	fmt.Fprintf(out, "Key spread:               %d\n", perfKeySpread)
	fmt.Fprintf(out, "Value size:               %d bytes\n", perfValueSize)
	fmt.Fprintf(out, "Nesting depth:            %d\n", perfDepth)
	fmt.Fprintln(out)

	registry := metrics.NewRegistry()
	value := strings.Repeat("x", perfValueSize)

	// fresh keys
	s := newStore()
	measure(registry, out, "set", func(i int) {
		_ = s.Set(fmt.Sprintf("perf-key-%d", i), value)
	})

	// overwrites of a bounded key set
	s = newStore()
	seedStore(s, value)
	measure(registry, out, "set-existing", func(i int) {
		_ = s.Set(perfKey(i), value)
	})

	// reads against committed state
	s = newStore()
	seedStore(s, value)
	measure(registry, out, "get", func(i int) {
		_, _, _ = s.Get(perfKey(i))
	})

	// reads through a deep transaction stack
	s = newStore()
	seedStore(s, value)
	for i := 0; i < perfDepth; i++ {
		_ = s.Begin()
	}
	measure(registry, out, "get-nested", func(i int) {
		_, _, _ = s.Get(perfKey(i))
	})

	// deletes
	s = newStore()
	seedStore(s, value)
	measure(registry, out, "delete", func(i int) {
		_ = s.Delete(perfKey(i))
	})

	// full transaction cycles
	s = newStore()
	seedStore(s, value)
	measure(registry, out, "commit-cycle", func(i int) {
		_ = s.Begin()
		_ = s.Set(perfKey(i), value)
		_, _ = s.Commit()
	})

	s = newStore()
	seedStore(s, value)
	measure(registry, out, "rollback-cycle", func(i int) {
		_ = s.Begin()
		_ = s.Set(perfKey(i), value)
		_, _ = s.Rollback()
	})

	// full visibility resolution
	s = newStore()
	seedStore(s, value)
	measure(registry, out, "count", func(i int) {
		_, _ = s.Count()
	})

	return nil
}

// seedStore fills the bounded key set with committed values
func seedStore(s store.ITransactionalStore[string], value string) {
	for i := 0; i < perfKeySpread; i++ {
		_ = s.Set(perfKey(i), value)
	}
}
