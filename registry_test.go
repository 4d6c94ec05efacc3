package promxx

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_CounterRoundTrip(t *testing.T) {
	r := New()

	tpl, err := NewCounter("c1", WithHelp("Simple counter"))
	require.NoError(t, err)
	c, err := RegisterCounter(r, tpl)
	require.NoError(t, err)

	c.Inc()
	c.Add(2)

	var b strings.Builder
	require.NoError(t, r.Flush(&b))
	require.Equal(t, "# HELP c1 Simple counter\n# TYPE c1 counter\nc1 3\n", b.String())
}

func TestRegistry_MetricTypeAmbiguous(t *testing.T) {
	r := New()

	c, err := NewCounter("m")
	require.NoError(t, err)
	_, err = RegisterCounter(r, c)
	require.NoError(t, err)

	g, err := NewGauge[uint64]("m")
	require.NoError(t, err)
	_, err = RegisterGauge(r, g)
	require.ErrorIs(t, err, ErrMetricTypeAmbiguous)
}

func TestRegistry_DuplicateSeries(t *testing.T) {
	r := New()

	t.Run("empty label set", func(t *testing.T) {
		c, err := NewCounter("m")
		require.NoError(t, err)
		_, err = RegisterCounter(r, c)
		require.NoError(t, err)
		_, err = RegisterCounter(r, c)
		require.ErrorIs(t, err, ErrDuplicateSeries)
	})

	t.Run("same labels through reordered descriptor", func(t *testing.T) {
		a, err := NewCounter("c2", WithLabels("l1", "l2"))
		require.NoError(t, err)
		_, err = RegisterCounter(r, a, "l1v2", "l2v3")
		require.NoError(t, err)

		// a second template declaring the same keys in reverse order still
		// canonicalizes to the identical label string
		b, err := NewCounter("c2", WithLabels("l2", "l1"))
		require.NoError(t, err)
		_, err = RegisterCounter(r, b, "l2v3", "l1v2")
		require.ErrorIs(t, err, ErrDuplicateSeries)
	})

	t.Run("different labels succeed", func(t *testing.T) {
		a, err := NewCounter("c2", WithLabels("l1", "l2"))
		require.NoError(t, err)
		_, err = RegisterCounter(r, a, "l1v9", "l2v9")
		require.NoError(t, err)
	})
}

func TestRegistry_LabelCountMismatch(t *testing.T) {
	r := New()
	g, err := NewGauge[int64]("g2", WithLabels("l2", "l3", "l1"))
	require.NoError(t, err)
	_, err = RegisterGauge(r, g, "v2", "v3")
	require.ErrorIs(t, err, ErrLabelCountMismatch)
}

func TestRegistry_FamiliesSortedSeriesInRegistrationOrder(t *testing.T) {
	r := New()

	tpl, err := NewCounter("b", WithLabels("l"))
	require.NoError(t, err)
	_, err = RegisterCounter(r, tpl, "z")
	require.NoError(t, err)
	_, err = RegisterCounter(r, tpl, "a")
	require.NoError(t, err)

	a, err := NewCounter("a")
	require.NoError(t, err)
	_, err = RegisterCounter(r, a)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, r.Flush(&b))
	require.Equal(t,
		"# HELP a \n# TYPE a counter\na 0\n"+
			"# HELP b \n# TYPE b counter\n"+
			`b{l="z"} 0`+"\n"+`b{l="a"} 0`+"\n",
		b.String())
}

func TestDefault_SingletonIdentity(t *testing.T) {
	n := 20
	regs := make([]*Registry, n)
	wg := sync.WaitGroup{}
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			regs[i] = Default()
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if regs[i] != regs[0] {
			t.Fatalf("Default returned distinct registries at %d", i)
		}
	}
	if Default() == New() {
		t.Fatalf("New must not return the default registry")
	}
}

type failingWriter struct {
	remaining int
	err       error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.remaining == 0 {
		return 0, w.err
	}
	w.remaining--
	return len(p), nil
}

func TestRegistry_FlushSinkError(t *testing.T) {
	r := New()
	tpl, err := NewCounter("c", WithHelp("h"))
	require.NoError(t, err)
	_, err = RegisterCounter(r, tpl)
	require.NoError(t, err)

	sinkErr := errors.New("sink closed")
	for failAt := 0; failAt < 3; failAt++ {
		w := &failingWriter{remaining: failAt, err: sinkErr}
		require.ErrorIs(t, r.Flush(w), sinkErr, "failAt=%d", failAt)
	}
}

func TestRegistry_ConcurrentRegisterAndFlush(t *testing.T) {
	r := New()
	tpl, err := NewCounter("m", WithLabels("w", "i"))
	require.NoError(t, err)

	workers := 8
	iters := 50
	wg := sync.WaitGroup{}
	wg.Add(workers + 1)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				c, err := RegisterCounter(r, tpl, string(rune('a'+w)), string(rune('a'+i%26)))
				if err == nil {
					c.Inc()
				}
			}
		}(w)
	}
	go func() {
		defer wg.Done()
		for i := 0; i < iters; i++ {
			var b strings.Builder
			if err := r.Flush(&b); err != nil {
				t.Errorf("flush failed: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	var b strings.Builder
	require.NoError(t, r.Flush(&b))
	// every line of the final flush is complete and well-formed
	for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		require.True(t,
			strings.HasPrefix(line, "# ") || strings.HasSuffix(line, " 1"),
			"unexpected line %q", line)
	}
}
