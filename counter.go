package promxx

import (
	"io"
	"strconv"
	"sync/atomic"
)

// Counter declares a monotonic counter metric family.
// A Counter is an immutable template: construct it once, then register one
// series per label-value combination via RegisterCounter.
type Counter struct {
	desc *desc
}

// NewCounter constructs a counter template.
func NewCounter(name string, opts ...Option) (*Counter, error) {
	d, err := newDescFromOptions(name, opts)
	if err != nil {
		return nil, err
	}
	return &Counter{desc: d}, nil
}

// CounterCell is the live accumulator behind one registered counter series.
// Its value only increases. All methods are safe for concurrent use and
// never block; concurrent adders are eventually consistent and successive
// flushes never observe the total decreasing.
type CounterCell struct {
	v atomic.Uint64
}

// Inc increments the counter by one.
func (c *CounterCell) Inc() { c.v.Add(1) }

// Add increments the counter by d.
func (c *CounterCell) Add(d uint64) { c.v.Add(d) }

func (c *CounterCell) write(w io.Writer, s *series) error {
	return s.writeSample(w, "", "", strconv.FormatUint(c.v.Load(), 10))
}
