package promxx

import (
	"io"
	"math"
	"strconv"
	"sync/atomic"
)

// Value is the set of numeric types a gauge can carry.
type Value interface {
	int64 | uint64 | float64
}

// Gauge declares a gauge metric family carrying values of type T.
// A Gauge is an immutable template: construct it once, then register one
// series per label-value combination via RegisterGauge.
type Gauge[T Value] struct {
	desc *desc
}

// NewGauge constructs a gauge template.
func NewGauge[T Value](name string, opts ...Option) (*Gauge[T], error) {
	d, err := newDescFromOptions(name, opts)
	if err != nil {
		return nil, err
	}
	return &Gauge[T]{desc: d}, nil
}

// GaugeCell is the live accumulator behind one registered gauge series.
// The value is kept as its bit pattern in a single atomic word; updates are
// lock-free compare-and-swap loops, so methods are safe for concurrent use
// and never block.
type GaugeCell[T Value] struct {
	bits atomic.Uint64
}

// Inc increments the gauge by one.
func (g *GaugeCell[T]) Inc() { g.Add(1) }

// Dec decrements the gauge by one.
func (g *GaugeCell[T]) Dec() { g.Sub(1) }

// Add adds d to the gauge.
func (g *GaugeCell[T]) Add(d T) {
	for {
		old := g.bits.Load()
		if g.bits.CompareAndSwap(old, toBits(fromBits[T](old)+d)) {
			return
		}
	}
}

// Sub subtracts d from the gauge.
func (g *GaugeCell[T]) Sub(d T) {
	for {
		old := g.bits.Load()
		if g.bits.CompareAndSwap(old, toBits(fromBits[T](old)-d)) {
			return
		}
	}
}

// Set sets the gauge to v.
func (g *GaugeCell[T]) Set(v T) { g.bits.Store(toBits(v)) }

func (g *GaugeCell[T]) write(w io.Writer, s *series) error {
	return s.writeSample(w, "", "", formatValue(fromBits[T](g.bits.Load())))
}

func toBits[T Value](v T) uint64 {
	switch x := any(v).(type) {
	case int64:
		return uint64(x)
	case uint64:
		return x
	default:
		return math.Float64bits(any(v).(float64))
	}
}

func fromBits[T Value](b uint64) T {
	var zero T
	switch any(zero).(type) {
	case int64:
		return any(int64(b)).(T)
	case uint64:
		return any(b).(T)
	default:
		return any(math.Float64frombits(b)).(T)
	}
}

func formatValue[T Value](v T) string {
	switch x := any(v).(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	default:
		return strconv.FormatFloat(any(v).(float64), 'g', -1, 64)
	}
}
