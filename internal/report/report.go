// Package report renders benchmark results for people (console tables) and
// for tools (JSON summaries).
package report

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sugawarayuuta/sonnet"

	"github.com/theflywheel/oahash/internal/bench"
)

// Summary is the JSON document written for a run.
type Summary struct {
	Timestamp string         `json:"timestamp"`
	GoVersion string         `json:"go_version"`
	Seed      int64          `json:"seed"`
	Pattern   string         `json:"pattern"`
	Results   []bench.Result `json:"results"`
}

// NewSummary stamps results with the current time and Go version.
func NewSummary(seed int64, pattern string, results []bench.Result) Summary {
	return Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		GoVersion: runtime.Version(),
		Seed:      seed,
		Pattern:   pattern,
		Results:   results,
	}
}

// JSON writes s as a single JSON document followed by a newline.
func JSON(w io.Writer, s Summary) error {
	data, err := sonnet.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshal summary")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "write summary")
	}
	return nil
}

// ReadJSON decodes a summary written by JSON.
func ReadJSON(r io.Reader) (Summary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Summary{}, errors.Wrap(err, "read summary")
	}
	var s Summary
	if err := sonnet.Unmarshal(data, &s); err != nil {
		return Summary{}, errors.Wrap(err, "unmarshal summary")
	}
	return s, nil
}

// Console prints one row per result followed by a per-strategy summary.
func Console(w io.Writer, results []bench.Result) error {
	bold := color.New(color.Bold)
	full := color.New(color.FgRed, color.Bold)

	bold.Fprintln(w, "Results:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "strategy\tcapacity\tfill\tkeys\tentries\tcollisions\tper entry\tload\ttime\trate\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.3f\t%.1f%%\t%s\t%s\t%s\n",
			r.Strategy,
			humanize.Comma(int64(r.Capacity)),
			strconv.FormatFloat(r.Fill, 'f', -1, 64),
			humanize.Comma(int64(r.Keys)),
			humanize.Comma(int64(r.Entries)),
			humanize.Comma(int64(r.Collisions)),
			r.CollisionsPerEntry(),
			r.LoadFactor,
			r.Duration.Round(time.Microsecond),
			humanize.SIWithDigits(r.InsertsPerSecond(), 2, "ins/s"),
			fullMark(full, r.TableFull),
		)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "flush results")
	}

	bold.Fprintln(w, "\nBy strategy:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "strategy\ttables\tentries\tcollisions\tper entry\tfull\t")
	for _, s := range Summarize(results) {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%.3f\t%d\t\n",
			s.Strategy,
			s.Tables,
			humanize.Comma(int64(s.Entries)),
			humanize.Comma(int64(s.Collisions)),
			s.CollisionsPerEntry(),
			s.Full,
		)
	}
	return errors.Wrap(tw.Flush(), "flush summary")
}

func fullMark(c *color.Color, full bool) string {
	if !full {
		return ""
	}
	return c.Sprint("FULL")
}

// StrategySummary aggregates the results of one strategy.
type StrategySummary struct {
	Strategy   string
	Tables     int
	Entries    int
	Collisions int
	Full       int
}

// CollisionsPerEntry divides the strategy's total collisions by its total entries.
func (s StrategySummary) CollisionsPerEntry() float64 {
	if s.Entries == 0 {
		return 0
	}
	return float64(s.Collisions) / float64(s.Entries)
}

// Summarize groups results by strategy, ordered by first appearance.
func Summarize(results []bench.Result) []StrategySummary {
	index := map[string]int{}
	var out []StrategySummary
	for _, r := range results {
		i, ok := index[r.Strategy]
		if !ok {
			i = len(out)
			index[r.Strategy] = i
			out = append(out, StrategySummary{Strategy: r.Strategy})
		}
		out[i].Tables++
		out[i].Entries += r.Entries
		out[i].Collisions += r.Collisions
		if r.TableFull {
			out[i].Full++
		}
	}
	return out
}

// Ranked returns the summaries ordered from fewest to most collisions per
// entry.
func Ranked(results []bench.Result) []StrategySummary {
	out := Summarize(results)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CollisionsPerEntry() < out[j].CollisionsPerEntry()
	})
	return out
}
