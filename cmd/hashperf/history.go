package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/theflywheel/oahash/internal/history"
)

// historyCommand lists stored runs and compares two of them.
type historyCommand struct {
	db      *string
	limit   *int
	base    *int64
	current *int64
}

func (cmd *historyCommand) register(app *kingpin.Application) {
	c := app.Command("history", "Inspect runs saved with run --history.")
	cmd.db = c.Flag("db", "SQLite history database.").Required().String()

	list := c.Command("list", "List recent runs.").Default().Action(cmd.list)
	cmd.limit = list.Flag("limit", "Number of runs to show.").Default("10").Int()

	compare := c.Command("compare", "Compare two runs.").Action(cmd.compare)
	cmd.base = compare.Arg("base", "Baseline run ID.").Required().Int64()
	cmd.current = compare.Arg("current", "Run ID to compare.").Required().Int64()
}

func (cmd *historyCommand) open() (*history.Store, error) {
	if _, err := os.Stat(*cmd.db); err != nil {
		return nil, errors.Wrap(err, "history database")
	}
	return history.Open(*cmd.db)
}

func (cmd *historyCommand) list(_ *kingpin.ParseContext) error {
	store, err := cmd.open()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(context.Background(), *cmd.limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tstarted\tgo\tseed\tpattern\ttables")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%d\n",
			r.ID, humanize.Time(r.StartedAt), r.GoVersion, r.Seed, r.Pattern, r.Tables)
	}
	return tw.Flush()
}

func (cmd *historyCommand) compare(_ *kingpin.ParseContext) error {
	store, err := cmd.open()
	if err != nil {
		return err
	}
	defer store.Close()

	cmps, err := store.Compare(context.Background(), *cmd.base, *cmd.current)
	if err != nil {
		return err
	}

	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "strategy\tcapacity\tfill\tcollisions\tchange\ttime\tchange\t")
	regressions := 0
	for _, c := range cmps {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s -> %s\t%s\t%s -> %s\t%s\t\n",
			c.Strategy,
			humanize.Comma(int64(c.Capacity)),
			c.Fill,
			humanize.Comma(int64(c.BaseCollisions)),
			humanize.Comma(int64(c.CurrentCollisions)),
			change(red, green, c.CollisionChange, c.MoreCollisions()),
			c.BaseDuration.Round(time.Microsecond),
			c.CurrentDuration.Round(time.Microsecond),
			change(red, green, c.DurationChange, c.Slower()),
		)
		if c.MoreCollisions() {
			regressions++
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d configurations compared, %d with significantly more collisions\n", len(cmps), regressions)
	return nil
}

func change(worse, better *color.Color, pct float64, regressed bool) string {
	s := fmt.Sprintf("%+.1f%%", pct)
	if math.IsInf(pct, 1) {
		s = "new"
	}
	switch {
	case regressed:
		return worse.Sprint(s)
	case pct < -history.SignificanceThreshold:
		return better.Sprint(s)
	}
	return s
}
