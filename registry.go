package promxx

import (
	"io"
	"sort"
	"sync"

	"github.com/ygrebnov/errorc"
)

// family groups every series registered under one metric name. All members
// share the kind and help of the first registration, which is what header
// rendering uses; series stay in registration order.
type family struct {
	series []*series
}

// Registry is a concurrency-safe collection of metric families. It owns every
// registered series for the process lifetime: registration returns a live
// cell pointer into registry-held storage, and there is no unregistration.
// The zero value is not usable; construct with New or use Default.
type Registry struct {
	// noCopy prevents accidental copying of the registry.
	nc noCopy

	mu       sync.Mutex
	families map[string]*family
}

// noCopy is a vet-recognized marker to discourage copying types with this
// field embedded. It works with the "-copylocks" analyzer via the presence of
// Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates an independent, empty registry. Independent instances are
// handy for tests; most applications use Default.
func New() *Registry {
	return &Registry{families: make(map[string]*family)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
// It lives until process exit; there is no teardown to perform because the
// registry holds no external resources.
func Default() *Registry {
	defaultOnce.Do(func() { defaultRegistry = New() })
	return defaultRegistry
}

// register validates s against its family and appends it. The registry lock
// covers the whole operation so a concurrent Flush never sees a half-inserted
// series.
func (r *Registry) register(s *series) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := r.families[s.name]
	if f == nil {
		f = &family{}
		r.families[s.name] = f
	} else {
		if f.series[0].kind != s.kind {
			return errorc.With(ErrMetricTypeAmbiguous, errorc.String("metric", s.name))
		}
		for _, v := range f.series {
			if v.labels == s.labels {
				return errorc.With(
					ErrDuplicateSeries,
					errorc.String("metric", s.name),
					errorc.String("labels", s.labels),
				)
			}
		}
	}
	f.series = append(f.series, s)
	return nil
}

// RegisterCounter registers one series of the counter family described by c
// with the given label values (positional, in WithLabels declaration order)
// and returns its live cell.
func RegisterCounter(r *Registry, c *Counter, labelValues ...string) (*CounterCell, error) {
	labels, err := c.desc.renderLabels(labelValues)
	if err != nil {
		return nil, err
	}
	cell := &CounterCell{}
	s := &series{name: c.desc.name, kind: kindCounter, help: c.desc.help, labels: labels, cell: cell}
	if err = r.register(s); err != nil {
		return nil, err
	}
	return cell, nil
}

// RegisterGauge registers one series of the gauge family described by g with
// the given label values and returns its live cell.
//
// Register* are top-level functions rather than Registry methods: gauge
// registration is generic in the gauge's value type, and Go methods cannot
// introduce type parameters. The three are kept symmetric.
func RegisterGauge[T Value](r *Registry, g *Gauge[T], labelValues ...string) (*GaugeCell[T], error) {
	labels, err := g.desc.renderLabels(labelValues)
	if err != nil {
		return nil, err
	}
	cell := &GaugeCell[T]{}
	s := &series{name: g.desc.name, kind: kindGauge, help: g.desc.help, labels: labels, cell: cell}
	if err = r.register(s); err != nil {
		return nil, err
	}
	return cell, nil
}

// RegisterHistogram registers one series of the histogram family described by
// h with the given label values and returns its live cell.
func RegisterHistogram(r *Registry, h *Histogram, labelValues ...string) (*HistogramCell, error) {
	labels, err := h.desc.renderLabels(labelValues)
	if err != nil {
		return nil, err
	}
	cell := newHistogramCell(h.bounds)
	s := &series{name: h.desc.name, kind: kindHistogram, help: h.desc.help, labels: labels, cell: cell}
	if err = r.register(s); err != nil {
		return nil, err
	}
	return cell, nil
}

// Flush writes the exposition text of every registered family to w. Families
// are written in name order, each as a # HELP line, a # TYPE line, and its
// series in registration order.
//
// The registry lock is held for the whole pass: concurrent registrations wait
// until the flush finishes, while cell mutation on already-registered series
// continues unblocked. Values of different cells may therefore be captured at
// slightly different instants. A sink write error aborts the flush and is
// returned as-is.
func (r *Registry) Flush(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := r.families[name]
		first := f.series[0]
		if _, err := io.WriteString(w, "# HELP "+name+" "+first.help+"\n"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "# TYPE "+name+" "+first.kind+"\n"); err != nil {
			return err
		}
		for _, s := range f.series {
			if err := s.cell.write(w, s); err != nil {
				return err
			}
		}
	}
	return nil
}
