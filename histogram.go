package promxx

import (
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/ygrebnov/errorc"
)

// Histogram declares a histogram metric family with fixed upper bounds.
// A Histogram is an immutable template: construct it once, then register one
// series per label-value combination via RegisterHistogram. Every series gets
// its own cell sized after the template's bounds.
type Histogram struct {
	desc   *desc
	bounds []uint64
}

// NewHistogram constructs a histogram template. The buckets argument selects
// one of the three bound-construction modes (ExplicitBuckets, LinearBuckets,
// ExponentialBuckets); nil is treated as no explicit bounds. The label key
// "le" is reserved for bucket exposition and rejected in every mode.
func NewHistogram(name string, buckets Buckets, opts ...Option) (*Histogram, error) {
	d, err := newDescFromOptions(name, opts)
	if err != nil {
		return nil, err
	}
	for _, k := range d.keys {
		if k.name == bucketLabel {
			return nil, errorc.With(ErrReservedLabelName, errorc.String("metric", name))
		}
	}

	if buckets == nil {
		buckets = ExplicitBuckets()
	}
	bounds, err := buckets.bounds()
	if err != nil {
		return nil, errorc.With(err, errorc.String("metric", name))
	}
	return &Histogram{desc: d, bounds: bounds}, nil
}

// HistogramCell is the live state behind one registered histogram series:
// one cumulative count per bucket bound, the running sum of observed values,
// and the total observation count. A single mutex keeps the three mutually
// consistent; independent cells never contend.
type HistogramCell struct {
	mu     sync.Mutex
	bounds []uint64 // ascending upper bounds, immutable
	counts []uint64 // cumulative count per bound
	sum    uint64
	count  uint64
}

func newHistogramCell(bounds []uint64) *HistogramCell {
	return &HistogramCell{bounds: bounds, counts: make([]uint64, len(bounds))}
}

// Observe records v: the cumulative count of every bucket with bound >= v is
// incremented along with the running sum and total count. Sum and count wrap
// on uint64 overflow; no reset is attempted.
func (h *HistogramCell) Observe(v uint64) {
	h.mu.Lock()
	h.sum += v
	h.count++
	i := sort.Search(len(h.bounds), func(i int) bool { return h.bounds[i] >= v })
	for ; i < len(h.bounds); i++ {
		h.counts[i]++
	}
	h.mu.Unlock()
}

func (h *HistogramCell) write(w io.Writer, s *series) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, le := range h.bounds {
		err := s.writeSample(w, suffixBucket,
			strconv.FormatUint(le, 10), strconv.FormatUint(h.counts[i], 10))
		if err != nil {
			return err
		}
	}
	// the implicit +Inf bucket carries the total observation count
	count := strconv.FormatUint(h.count, 10)
	if err := s.writeSample(w, suffixBucket, "+Inf", count); err != nil {
		return err
	}
	if err := s.writeSample(w, suffixSum, "", strconv.FormatUint(h.sum, 10)); err != nil {
		return err
	}
	return s.writeSample(w, suffixCount, "", count)
}
