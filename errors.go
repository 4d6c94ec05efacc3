package promxx

import "errors"

const Namespace = "promxx"

var (
	ErrDuplicateLabelName = errors.New(Namespace + ": metric has duplicate label names")
	ErrReservedLabelName  = errors.New(
		Namespace + `: "le" is not allowed as a label name in histogram`,
	)
	ErrUnorderedBuckets = errors.New(Namespace + ": histogram buckets must be in increasing order")
	ErrInvalidDelta     = errors.New(Namespace + ": invalid histogram bucket delta")
	ErrBucketOverflow   = errors.New(Namespace + ": histogram bucket boundaries overflow")
	ErrDuplicateBucket  = errors.New(
		Namespace + ": histogram got duplicate buckets, try to increase the delta",
	)
	ErrLabelCountMismatch  = errors.New(Namespace + ": label key/value count mismatch")
	ErrMetricTypeAmbiguous = errors.New(Namespace + ": metric type is ambiguous")
	ErrDuplicateSeries     = errors.New(Namespace + ": metric has duplicate labels")
)
