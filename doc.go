// Package promxx provides in-process metric instrumentation with a plain-text
// exposition format consumable by pull-based monitoring scrapers.
//
// Metric templates
//   - NewCounter: monotonic counter.
//   - NewGauge[T]: value that moves up, down, or is set absolutely; T is one
//     of int64, uint64, float64.
//   - NewHistogram: distribution recorded as cumulative counts at fixed
//     integer upper bounds, plus a running sum and total count.
//
// A template is declared once, typically at startup, and is immutable. All
// validation (duplicate label keys, the reserved "le" key, bucket ordering
// and generation) happens at construction and registration time and is
// reported through the package's sentinel errors; the mutation hot path has
// no error returns.
//
// Registration binds a template to one concrete label-value combination on a
// Registry and returns a live cell:
//
//	c, err := promxx.NewCounter("requests_total",
//		promxx.WithHelp("Total requests"), promxx.WithLabels("method"))
//	get, err := promxx.RegisterCounter(promxx.Default(), c, "GET")
//	get.Inc()
//
// Cells are the only objects touched on the hot path. Counter and gauge cells
// update with lock-free atomics; a histogram cell takes a short per-cell lock
// per observation because it mutates correlated fields. Registry.Flush writes
// the current state of all families to an io.Writer, holding the registry
// lock so concurrent registrations cannot expose a half-built family.
//
// Default returns a lazily created process-wide registry; New creates
// independent instances for isolation in tests.
package promxx
