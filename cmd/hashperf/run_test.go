package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theflywheel/oahash/internal/config"
	"github.com/theflywheel/oahash/internal/keygen"
	"github.com/theflywheel/oahash/internal/report"
)

func strPtr(s string) *string { return &s }

func emptyRunCommand() *runCommand {
	var (
		strategies []string
		fills      []float64
		seed       int64
		stride     int
		quiet      bool
	)
	return &runCommand{
		configFile: strPtr(""),
		capacities: strPtr(""),
		strategies: &strategies,
		fills:      &fills,
		seed:       &seed,
		pattern:    strPtr(""),
		stride:     &stride,
		jsonOut:    strPtr(""),
		historyDB:  strPtr(""),
		textfile:   strPtr(""),
		quiet:      &quiet,
	}
}

func TestPlanDefaults(t *testing.T) {
	plan, err := emptyRunCommand().plan()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), plan)
}

func TestPlanOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacities: [64]\nseed: 4\nfills: [1]\n"), 0644))

	cmd := emptyRunCommand()
	*cmd.configFile = path
	*cmd.capacities = "100,200"
	*cmd.strategies = []string{"double"}
	*cmd.pattern = "strided"
	*cmd.stride = 16
	*cmd.jsonOut = "-"

	plan, err := cmd.plan()
	require.NoError(t, err)
	assert.Equal(t, []int{100, 200}, plan.Capacities)
	assert.Equal(t, []string{"double"}, plan.Strategies)
	assert.Equal(t, []float64{1}, plan.Fills)
	assert.Equal(t, int64(4), plan.Seed)
	assert.Equal(t, keygen.PatternStrided, plan.Pattern)
	assert.Equal(t, 16, plan.Stride)
	assert.Equal(t, "-", plan.Output.JSON)
}

func TestPlanSeedZeroOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 4\n"), 0644))

	cmd := emptyRunCommand()
	*cmd.configFile = path

	plan, err := cmd.plan()
	require.NoError(t, err)
	assert.Equal(t, int64(4), plan.Seed)

	cmd.seedSet = true
	plan, err = cmd.plan()
	require.NoError(t, err)
	assert.Equal(t, int64(0), plan.Seed)
}

func TestPlanInvalidCapacity(t *testing.T) {
	cmd := emptyRunCommand()
	*cmd.capacities = "0"

	_, err := cmd.plan()
	assert.Error(t, err)
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, writeJSON(path, report.NewSummary(1, "random", nil)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	s, err := report.ReadJSON(f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.Seed)
}
