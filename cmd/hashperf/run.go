package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/theflywheel/oahash/internal/bench"
	"github.com/theflywheel/oahash/internal/config"
	"github.com/theflywheel/oahash/internal/history"
	"github.com/theflywheel/oahash/internal/keygen"
	"github.com/theflywheel/oahash/internal/metrics"
	"github.com/theflywheel/oahash/internal/report"
)

// runCommand runs a benchmark plan and reports the results.
type runCommand struct {
	logger func() log.Logger

	configFile *string
	capacities *string
	strategies *[]string
	fills      *[]float64
	seed       *int64
	seedSet    bool
	pattern    *string
	stride     *int
	jsonOut    *string
	historyDB  *string
	textfile   *string
	quiet      *bool
}

func (cmd *runCommand) register(app *kingpin.Application) {
	c := app.Command("run", "Fill tables with every strategy and report collisions.").Default().Action(cmd.run)
	cmd.configFile = c.Flag("config", "YAML benchmark plan.").Short('c').ExistingFile()
	cmd.capacities = c.Flag("capacity", "Comma-separated minimum capacities, e.g. 1000,10000.").String()
	cmd.strategies = c.Flag("strategy", "Probe strategy to run; repeatable.").
		Enums("linear", "quadratic", "double", "double_hashing", "quadratic_constants")
	cmd.fills = c.Flag("fill", "Fraction of capacity to insert; repeatable.").Float64List()
	cmd.seed = c.Flag("seed", "Key shuffle seed.").IsSetByUser(&cmd.seedSet).Int64()
	cmd.pattern = c.Flag("pattern", "Key layout.").
		Enum(string(keygen.PatternRandom), string(keygen.PatternSequential), string(keygen.PatternStrided))
	cmd.stride = c.Flag("stride", "Spacing of strided keys.").Int()
	cmd.jsonOut = c.Flag("json", "Write a JSON summary to this file, - for stdout.").String()
	cmd.historyDB = c.Flag("history", "SQLite database to append the run to.").String()
	cmd.textfile = c.Flag("metrics.textfile", "Write Prometheus metrics to this file.").String()
	cmd.quiet = c.Flag("quiet", "Do not print the results table.").Short('q').Bool()
}

// plan merges the plan file, if any, with command-line overrides.
func (cmd *runCommand) plan() (config.Plan, error) {
	plan := config.Default()
	if *cmd.configFile != "" {
		var err error
		if plan, err = config.Load(*cmd.configFile); err != nil {
			return plan, err
		}
	}

	if *cmd.capacities != "" {
		caps, err := config.ParseCapacities(*cmd.capacities)
		if err != nil {
			return plan, err
		}
		plan.Capacities = caps
	}
	if len(*cmd.strategies) > 0 {
		plan.Strategies = *cmd.strategies
	}
	if len(*cmd.fills) > 0 {
		plan.Fills = *cmd.fills
	}
	if cmd.seedSet {
		plan.Seed = *cmd.seed
	}
	if *cmd.pattern != "" {
		plan.Pattern = keygen.Pattern(*cmd.pattern)
	}
	if *cmd.stride != 0 {
		plan.Stride = *cmd.stride
	}
	if *cmd.jsonOut != "" {
		plan.Output.JSON = *cmd.jsonOut
	}
	if *cmd.historyDB != "" {
		plan.Output.History = *cmd.historyDB
	}
	if *cmd.textfile != "" {
		plan.Output.MetricsTextfile = *cmd.textfile
	}
	return plan, plan.Validate()
}

func (cmd *runCommand) run(_ *kingpin.ParseContext) error {
	logger := cmd.logger()

	plan, err := cmd.plan()
	if err != nil {
		return errors.Wrap(err, "invalid plan")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var observers []bench.Observer
	var m *metrics.Metrics
	if plan.Output.MetricsTextfile != "" {
		m = metrics.New()
		observers = append(observers, m)
	}

	started := time.Now()
	results, err := bench.NewRunner(plan, logger, observers...).Run(ctx)
	if err != nil {
		return err
	}

	if !*cmd.quiet {
		if err := report.Console(os.Stdout, results); err != nil {
			return err
		}
		if ranked := report.Ranked(results); len(ranked) > 0 {
			color.New(color.FgGreen).Printf("\nFewest collisions per entry: %s (%.3f)\n",
				ranked[0].Strategy, ranked[0].CollisionsPerEntry())
		}
	}

	if path := plan.Output.JSON; path != "" {
		summary := report.NewSummary(plan.Seed, string(plan.Pattern), results)
		if err := writeJSON(path, summary); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "wrote summary", "path", path)
	}

	if path := plan.Output.History; path != "" {
		id, err := saveHistory(ctx, path, history.Run{
			StartedAt: started,
			GoVersion: runtime.Version(),
			Seed:      plan.Seed,
			Pattern:   string(plan.Pattern),
			Results:   results,
		})
		if err != nil {
			return err
		}
		level.Info(logger).Log("msg", "saved run", "path", path, "run", id)
	}

	if m != nil {
		if err := m.WriteTextfile(plan.Output.MetricsTextfile); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "wrote metrics", "path", plan.Output.MetricsTextfile)
	}
	return nil
}

func writeJSON(path string, s report.Summary) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create summary file")
		}
		defer f.Close()
		w = f
	}
	return report.JSON(w, s)
}

func saveHistory(ctx context.Context, path string, run history.Run) (int64, error) {
	store, err := history.Open(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	id, err := store.Save(ctx, run)
	if err != nil {
		return 0, errors.Wrapf(err, "save run to %s", path)
	}
	return id, nil
}
