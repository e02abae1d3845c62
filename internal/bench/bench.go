// Package bench drives oahash tables through a benchmark plan and records
// collision counts, load factors and insertion times.
package bench

import (
	"context"
	"math"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/theflywheel/oahash"
	"github.com/theflywheel/oahash/internal/config"
	"github.com/theflywheel/oahash/internal/keygen"
)

// Result is the outcome of filling one table.
type Result struct {
	Strategy   string        `json:"strategy"`
	Requested  int           `json:"requested_capacity"`
	Capacity   int           `json:"capacity"`
	Fill       float64       `json:"fill"`
	Keys       int           `json:"keys"`
	Entries    int           `json:"entries"`
	Collisions int           `json:"collisions"`
	LoadFactor float64       `json:"load_factor"`
	Duration   time.Duration `json:"duration_ns"`
	TableFull  bool          `json:"table_full"`
}

// CollisionsPerEntry is the mean number of occupied slots an insertion ran
// into.
func (r Result) CollisionsPerEntry() float64 {
	if r.Entries == 0 {
		return 0
	}
	return float64(r.Collisions) / float64(r.Entries)
}

// InsertsPerSecond is the insertion rate over the timed batch.
func (r Result) InsertsPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Entries) / r.Duration.Seconds()
}

// Observer receives every result as soon as it is measured.
type Observer interface {
	Observe(Result)
}

// Runner executes a plan one table at a time.
type Runner struct {
	plan      config.Plan
	logger    log.Logger
	observers []Observer
}

// NewRunner returns a runner for plan that reports each result to observers.
func NewRunner(plan config.Plan, logger log.Logger, observers ...Observer) *Runner {
	return &Runner{
		plan:      plan,
		logger:    log.With(logger, "component", "bench"),
		observers: observers,
	}
}

// Run measures every capacity, strategy and fill combination of the plan in
// that order. A full table is recorded in its result, not returned as an
// error. Cancellation is checked between tables.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	if err := r.plan.Validate(); err != nil {
		return nil, err
	}
	probes, err := r.plan.Probes()
	if err != nil {
		return nil, err
	}

	level.Info(r.logger).Log("msg", "starting benchmark",
		"capacities", len(r.plan.Capacities), "strategies", len(probes), "fills", len(r.plan.Fills),
		"seed", r.plan.Seed, "pattern", r.plan.Pattern)

	results := make([]Result, 0, len(r.plan.Capacities)*len(probes)*len(r.plan.Fills))
	for _, requested := range r.plan.Capacities {
		for _, np := range probes {
			for _, fill := range r.plan.Fills {
				if err := ctx.Err(); err != nil {
					return results, err
				}

				res, err := r.measure(np, requested, fill)
				if err != nil {
					return results, err
				}
				results = append(results, res)
				for _, o := range r.observers {
					o.Observe(res)
				}
			}
		}
	}

	level.Info(r.logger).Log("msg", "benchmark finished", "results", len(results))
	return results, nil
}

func (r *Runner) measure(np oahash.NamedProbe, requested int, fill float64) (Result, error) {
	tbl, err := oahash.New(requested, np.Probe)
	if err != nil {
		return Result{}, err
	}

	n := KeyCount(tbl.Capacity(), fill)
	keys := keygen.Generate(r.plan.Pattern, n, r.plan.Seed, r.plan.Stride)

	res, err := Measure(tbl, keys)
	if err != nil {
		return Result{}, err
	}
	res.Strategy = np.Name
	res.Requested = requested
	res.Fill = fill

	logger := log.With(r.logger, "strategy", res.Strategy, "capacity", res.Capacity, "fill", res.Fill)
	if res.TableFull {
		level.Warn(logger).Log("msg", "table full", "keys", res.Keys, "entries", res.Entries)
	}
	level.Debug(logger).Log("msg", "measured",
		"entries", res.Entries, "collisions", res.Collisions,
		"load_factor", res.LoadFactor, "duration", res.Duration)
	return res, nil
}

// Measure times inserting keys into tbl. A full table ends the batch and is
// reported through Result.TableFull; any other error is returned.
func Measure(tbl *oahash.Table, keys []int) (Result, error) {
	start := time.Now()
	_, err := tbl.InsertAll(keys)
	elapsed := time.Since(start)

	full := errors.Is(err, oahash.ErrTableFull)
	if err != nil && !full {
		return Result{}, err
	}

	s := tbl.Stats()
	return Result{
		Strategy:   s.Probe.String(),
		Requested:  s.Capacity,
		Capacity:   s.Capacity,
		Keys:       len(keys),
		Entries:    s.Entries,
		Collisions: s.Collisions,
		LoadFactor: s.LoadFactor,
		Duration:   elapsed,
		TableFull:  full,
	}, nil
}

// KeyCount is the number of keys that fills capacity to the given fraction,
// rounded up. The epsilon keeps products like 0.7*1000 from rounding past
// the exact count.
func KeyCount(capacity int, fill float64) int {
	return int(math.Ceil(float64(capacity)*fill - 1e-9))
}
