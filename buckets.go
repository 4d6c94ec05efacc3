package promxx

import (
	"math"
	"strconv"

	"github.com/ygrebnov/errorc"
)

// Buckets describes how a histogram's upper bounds are produced. The three
// implementations — ExplicitBuckets, LinearBuckets, ExponentialBuckets — all
// yield one ordered, strictly increasing sequence of uint64 bounds. Bounds
// are integers on purpose: observation compares and accumulates in exact
// unsigned arithmetic, keeping floating rounding out of the hot path.
type Buckets interface {
	bounds() ([]uint64, error)
}

type explicitBuckets []uint64

// ExplicitBuckets uses the given bounds as-is. The sequence must be strictly
// increasing; an empty sequence is valid and leaves only the implicit +Inf
// bucket.
func ExplicitBuckets(bounds ...uint64) Buckets { return explicitBuckets(bounds) }

func (b explicitBuckets) bounds() ([]uint64, error) {
	for i := 1; i < len(b); i++ {
		if b[i-1] >= b[i] {
			return nil, errorc.With(
				ErrUnorderedBuckets,
				errorc.String("bound", strconv.FormatUint(b[i], 10)),
			)
		}
	}
	// copy: the caller may keep mutating its slice
	return append([]uint64(nil), b...), nil
}

type linearBuckets struct {
	start uint64
	delta uint64
	count int
}

// LinearBuckets generates count bounds start, start+delta, start+2*delta, ...
// delta must be at least 1.
func LinearBuckets(start, delta uint64, count int) Buckets {
	return linearBuckets{start: start, delta: delta, count: count}
}

func (b linearBuckets) bounds() ([]uint64, error) {
	if b.delta < 1 {
		return nil, errorc.With(ErrInvalidDelta, errorc.String("", "linear delta must be not less than 1"))
	}
	if b.count <= 0 {
		return nil, nil
	}

	out := make([]uint64, 0, b.count)
	le := b.start
	out = append(out, le)
	for i := 1; i < b.count; i++ {
		if le > math.MaxUint64-b.delta {
			return nil, ErrBucketOverflow
		}
		le += b.delta
		out = append(out, le)
	}
	return out, nil
}

type exponentialBuckets struct {
	start uint64
	delta float64
	count int
}

// ExponentialBuckets generates count bounds where each bound is the previous
// one multiplied by delta and floored to an integer. delta must be greater
// than 1, and large enough that flooring never collapses two successive
// bounds to the same value.
func ExponentialBuckets(start uint64, delta float64, count int) Buckets {
	return exponentialBuckets{start: start, delta: delta, count: count}
}

func (b exponentialBuckets) bounds() ([]uint64, error) {
	if b.delta <= 1 {
		return nil, errorc.With(ErrInvalidDelta, errorc.String("", "exponential delta must be greater than 1"))
	}
	if b.count <= 0 {
		return nil, nil
	}

	out := make([]uint64, 0, b.count)
	le := b.start
	out = append(out, le)
	limit := uint64(math.Floor(float64(math.MaxUint64) / b.delta))
	for i := 1; i < b.count; i++ {
		if le > limit {
			return nil, ErrBucketOverflow
		}
		le = uint64(math.Floor(float64(le) * b.delta))
		if le == out[len(out)-1] {
			return nil, errorc.With(
				ErrDuplicateBucket,
				errorc.String("bound", strconv.FormatUint(le, 10)),
			)
		}
		out = append(out, le)
	}
	return out, nil
}
