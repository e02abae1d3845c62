// Package metrics exposes benchmark results as Prometheus gauges so they
// can be scraped through a node-exporter textfile.
package metrics

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/theflywheel/oahash/internal/bench"
)

// Metrics implements bench.Observer.
type Metrics struct {
	reg *prometheus.Registry

	collisions  *prometheus.GaugeVec
	perEntry    *prometheus.GaugeVec
	loadFactor  *prometheus.GaugeVec
	duration    *prometheus.GaugeVec
	tableFull   *prometheus.GaugeVec
	tablesTotal *prometheus.CounterVec
}

var labels = []string{"strategy", "capacity", "fill"}

// New registers the benchmark metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		reg: reg,
		collisions: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "oahash_collisions",
			Help: "Occupied slots probed while filling the table.",
		}, labels),
		perEntry: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "oahash_collisions_per_entry",
			Help: "Mean occupied slots probed per stored value.",
		}, labels),
		loadFactor: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "oahash_load_factor_percent",
			Help: "Occupied share of slots after filling.",
		}, labels),
		duration: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "oahash_insert_duration_seconds",
			Help: "Wall-clock time of the insertion batch.",
		}, labels),
		tableFull: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "oahash_table_full",
			Help: "1 if an insertion found no free slot.",
		}, labels),
		tablesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "oahash_tables_total",
			Help: "Tables measured per strategy.",
		}, []string{"strategy"}),
	}
}

// Observe records one result.
func (m *Metrics) Observe(r bench.Result) {
	lv := []string{
		r.Strategy,
		strconv.Itoa(r.Capacity),
		strconv.FormatFloat(r.Fill, 'f', -1, 64),
	}

	m.collisions.WithLabelValues(lv...).Set(float64(r.Collisions))
	m.perEntry.WithLabelValues(lv...).Set(r.CollisionsPerEntry())
	m.loadFactor.WithLabelValues(lv...).Set(r.LoadFactor)
	m.duration.WithLabelValues(lv...).Set(r.Duration.Seconds())
	full := 0.0
	if r.TableFull {
		full = 1
	}
	m.tableFull.WithLabelValues(lv...).Set(full)
	m.tablesTotal.WithLabelValues(r.Strategy).Inc()
}

// Gatherer returns the registry holding the metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.reg
}

// WriteTextfile writes the metrics in the text exposition format, replacing
// path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return errors.Wrap(prometheus.WriteToTextfile(path, m.reg), "write metrics textfile")
}
