package promxx

import (
	"sort"
	"strings"

	"github.com/ygrebnov/errorc"
)

// labelKey pairs a canonical (sorted) label key with the position its value
// occupies in the caller-supplied value list at registration time.
type labelKey struct {
	name  string
	index int
}

// desc is the immutable metadata shared by every series registered from one
// metric template: metric name, help text, and the label key set sorted
// lexicographically. It is never mutated after newDesc returns and may be
// referenced by any number of registrations without synchronization.
type desc struct {
	name string
	help string
	keys []labelKey
}

func newDesc(name, help string, labels []string) (*desc, error) {
	d := &desc{name: name, help: help}
	if len(labels) == 0 {
		return d, nil
	}

	d.keys = make([]labelKey, len(labels))
	for i, k := range labels {
		d.keys[i] = labelKey{name: k, index: i}
	}
	sort.SliceStable(d.keys, func(i, j int) bool { return d.keys[i].name < d.keys[j].name })
	for i := 1; i < len(d.keys); i++ {
		if d.keys[i].name == d.keys[i-1].name {
			return nil, errorc.With(
				ErrDuplicateLabelName,
				errorc.String("metric", name),
				errorc.String("label", d.keys[i].name),
			)
		}
	}
	return d, nil
}

// renderLabels builds the series label string `k1="v1",k2="v2"` in canonical
// key order. Values are positional relative to the declaration order of the
// keys; the index stored next to each sorted key re-maps them, so callers
// never pre-sort their values.
func (d *desc) renderLabels(values []string) (string, error) {
	if len(values) != len(d.keys) {
		return "", errorc.With(ErrLabelCountMismatch, errorc.String("metric", d.name))
	}
	if len(d.keys) == 0 {
		return "", nil
	}

	var b strings.Builder
	for i, k := range d.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k.name)
		b.WriteString(`="`)
		b.WriteString(values[k.index])
		b.WriteByte('"')
	}
	return b.String(), nil
}

// Option configures a metric template at construction time.
// Use it with NewCounter, NewGauge, and NewHistogram.
type Option func(*templateConfig) error

// templateConfig is the internal builder state for template options.
type templateConfig struct {
	help   string
	labels []string
}

// WithHelp sets the help text emitted on the family's # HELP line.
func WithHelp(help string) Option {
	return func(c *templateConfig) error { c.help = help; return nil }
}

// WithLabels declares the metric's label keys. Values are supplied to
// Register* in this exact order; exposition output always renders keys
// sorted, regardless of the order chosen here.
func WithLabels(keys ...string) Option {
	return func(c *templateConfig) error { c.labels = append(c.labels, keys...); return nil }
}

// newDescFromOptions assembles a descriptor from functional options.
func newDescFromOptions(name string, opts []Option) (*desc, error) {
	var cfg templateConfig
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return newDesc(name, cfg.help, cfg.labels)
}
