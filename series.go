package promxx

import (
	"io"
	"strings"
)

const (
	kindCounter   = "counter"
	kindGauge     = "gauge"
	kindHistogram = "histogram"

	// bucketLabel is synthesized on histogram bucket lines and therefore
	// reserved as a label key.
	bucketLabel = "le"

	suffixBucket = "_bucket"
	suffixSum    = "_sum"
	suffixCount  = "_count"
)

// cell is implemented by the three live accumulator kinds. write renders the
// cell's sample lines for the series that owns it.
type cell interface {
	write(w io.Writer, s *series) error
}

// series is one registered label-value variant of a metric family. The label
// string is rendered once at registration in canonical key order and reused
// verbatim on every flush; it doubles as the uniqueness key within the
// family.
type series struct {
	name   string
	kind   string
	help   string
	labels string
	cell   cell
}

// writeSample writes one exposition line: the metric name plus suffix, the
// series labels with an optional synthesized le bound appended, and the
// value. Braces are omitted entirely when there are no labels at all.
func (s *series) writeSample(w io.Writer, suffix, le, value string) error {
	var b strings.Builder
	b.WriteString(s.name)
	b.WriteString(suffix)
	switch {
	case s.labels != "" && le != "":
		b.WriteByte('{')
		b.WriteString(s.labels)
		b.WriteString(`,le="`)
		b.WriteString(le)
		b.WriteString(`"}`)
	case s.labels != "":
		b.WriteByte('{')
		b.WriteString(s.labels)
		b.WriteByte('}')
	case le != "":
		b.WriteString(`{le="`)
		b.WriteString(le)
		b.WriteString(`"}`)
	}
	b.WriteByte(' ')
	b.WriteString(value)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
