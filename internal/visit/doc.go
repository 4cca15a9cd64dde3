// Package visit aggregates link visits in memory and persists them in batches.
//
// Two independent sinks receive every visit: the Counter, whose deltas are
// periodically drained by the FlushWorker into durable additive totals, and the
// LogSink, which appends one row per visit without blocking the redirect.
package visit
