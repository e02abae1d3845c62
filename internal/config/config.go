// Package config describes a benchmark plan: which capacities, probe
// strategies and fill levels to measure, and where to send the results.
package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/theflywheel/oahash"
	"github.com/theflywheel/oahash/internal/keygen"
)

// Plan is the benchmark matrix. Every capacity is run with every strategy
// at every fill level.
type Plan struct {
	// Capacities are requested minimum capacities; tables round them up.
	Capacities []int `yaml:"capacities"`
	// Strategies are probe names as accepted by oahash.ParseProbe.
	Strategies []string `yaml:"strategies"`
	// Fills are fractions of the actual capacity to insert. Values above
	// 1 deliberately overfill the table.
	Fills []float64 `yaml:"fills"`

	Seed    int64          `yaml:"seed"`
	Pattern keygen.Pattern `yaml:"pattern"`
	Stride  int            `yaml:"stride"`

	Output Output `yaml:"output"`
}

// Output names the optional sinks of a run. Empty paths are skipped.
type Output struct {
	JSON            string `yaml:"json"`
	History         string `yaml:"history"`
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// Default returns the plan used when no file is given.
func Default() Plan {
	strategies := make([]string, 0, len(oahash.Probes))
	for _, np := range oahash.Probes {
		strategies = append(strategies, np.Name)
	}
	return Plan{
		Capacities: []int{1_000, 10_000, 100_000},
		Strategies: strategies,
		Fills:      []float64{0.5, 0.75, 0.9, 1.0},
		Seed:       1,
		Pattern:    keygen.PatternRandom,
	}
}

// Load reads a YAML plan from path. Fields missing from the file keep their
// default values.
func Load(path string) (Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plan{}, errors.Wrap(err, "open plan")
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a YAML plan from r on top of Default.
func Parse(r io.Reader) (Plan, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Plan{}, errors.Wrap(err, "read plan")
	}

	p := Default()
	if len(bytes.TrimSpace(content)) == 0 {
		return p, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return Plan{}, errors.Wrap(err, "decode plan")
	}
	return p, p.Validate()
}

// Validate checks that every dimension of the plan is usable.
func (p Plan) Validate() error {
	if len(p.Capacities) == 0 {
		return errors.New("no capacities")
	}
	for _, c := range p.Capacities {
		if _, err := oahash.PlanCapacity(c); err != nil {
			return errors.Wrapf(err, "capacity %d", c)
		}
	}
	if _, err := p.Probes(); err != nil {
		return err
	}
	if len(p.Fills) == 0 {
		return errors.New("no fill levels")
	}
	for _, f := range p.Fills {
		if f <= 0 || f > 2 {
			return errors.Errorf("fill %v out of range (0, 2]", f)
		}
	}
	switch p.Pattern {
	case keygen.PatternRandom, keygen.PatternSequential, keygen.PatternStrided:
	default:
		return errors.Errorf("unknown key pattern %q", p.Pattern)
	}
	return nil
}

// Probes resolves the plan's strategy names.
func (p Plan) Probes() ([]oahash.NamedProbe, error) {
	if len(p.Strategies) == 0 {
		return nil, errors.New("no strategies")
	}
	probes := make([]oahash.NamedProbe, 0, len(p.Strategies))
	for _, name := range p.Strategies {
		probe, err := oahash.ParseProbe(name)
		if err != nil {
			return nil, err
		}
		probes = append(probes, oahash.NamedProbe{Name: probe.String(), Probe: probe})
	}
	return probes, nil
}

// ParseCapacities parses a comma-separated list of positive integers.
// Underscores may be used as digit separators.
func ParseCapacities(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(strings.ReplaceAll(field, "_", ""))
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "capacity %q", field)
		}
		if n <= 0 {
			return nil, errors.Wrapf(oahash.ErrInvalidCapacity, "capacity %d", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("no capacities in %q", s)
	}
	return out, nil
}
