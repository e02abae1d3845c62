package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theflywheel/oahash/internal/bench"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(bench.Result{Strategy: "linear", Capacity: 1024, Fill: 0.5, Entries: 512, Collisions: 256, LoadFactor: 50, Duration: 2 * time.Millisecond})
	m.Observe(bench.Result{Strategy: "linear", Capacity: 1024, Fill: 1.25, Entries: 1024, Collisions: 9000, LoadFactor: 100, TableFull: true})

	assert.Equal(t, 256.0, testutil.ToFloat64(m.collisions.WithLabelValues("linear", "1024", "0.5")))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.perEntry.WithLabelValues("linear", "1024", "0.5")))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.loadFactor.WithLabelValues("linear", "1024", "0.5")))
	assert.Equal(t, 0.002, testutil.ToFloat64(m.duration.WithLabelValues("linear", "1024", "0.5")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.tableFull.WithLabelValues("linear", "1024", "0.5")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tableFull.WithLabelValues("linear", "1024", "1.25")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.tablesTotal.WithLabelValues("linear")))

	err := testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(`
# HELP oahash_tables_total Tables measured per strategy.
# TYPE oahash_tables_total counter
oahash_tables_total{strategy="linear"} 2
`), "oahash_tables_total")
	require.NoError(t, err)
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Observe(bench.Result{Strategy: "quadratic", Capacity: 128, Fill: 1, Entries: 128, Collisions: 400, LoadFactor: 100})

	path := filepath.Join(t.TempDir(), "oahash.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `oahash_collisions{capacity="128",fill="1",strategy="quadratic"} 400`)
}
