// Package instrument provides a metrics-collecting decorator for any
// store.ITransactionalStore implementation. Every operation is counted in a
// private VictoriaMetrics set and can be written out in Prometheus text
// format, for example by the "stats" command of the interactive shell.
//
// The decorator adds no semantics: all calls delegate unchanged to the
// wrapped store. A separate counter tracks commit/rollback calls that hit an
// empty transaction stack, which is the diagnostic signal for unbalanced
// Begin/Commit pairs.
package instrument
