package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theflywheel/oahash/internal/bench"
)

func init() {
	color.NoColor = true
}

func sampleResults() []bench.Result {
	return []bench.Result{
		{Strategy: "linear", Requested: 1000, Capacity: 1024, Fill: 0.5, Keys: 512, Entries: 512, Collisions: 300, LoadFactor: 50, Duration: 20 * time.Microsecond},
		{Strategy: "linear", Requested: 1000, Capacity: 1024, Fill: 1.25, Keys: 1280, Entries: 1024, Collisions: 90000, LoadFactor: 100, Duration: time.Millisecond, TableFull: true},
		{Strategy: "double_hashing", Requested: 1000, Capacity: 1024, Fill: 0.5, Keys: 512, Entries: 512, Collisions: 200, LoadFactor: 50, Duration: 25 * time.Microsecond},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := NewSummary(7, "random", sampleResults())
	assert.NotEmpty(t, s.Timestamp)
	assert.NotEmpty(t, s.GoVersion)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, s))
	assert.Contains(t, buf.String(), `"requested_capacity":1000`)
	assert.Contains(t, buf.String(), `"duration_ns":20000`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Console(&buf, sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "By strategy:")
	assert.Contains(t, out, "1,024")
	assert.Contains(t, out, "90,000")
	assert.Contains(t, out, "FULL")
	assert.Contains(t, out, "double_hashing")
}

func TestSummarize(t *testing.T) {
	sums := Summarize(sampleResults())
	require.Len(t, sums, 2)

	assert.Equal(t, StrategySummary{Strategy: "linear", Tables: 2, Entries: 1536, Collisions: 90300, Full: 1}, sums[0])
	assert.Equal(t, StrategySummary{Strategy: "double_hashing", Tables: 1, Entries: 512, Collisions: 200}, sums[1])
	assert.InDelta(t, 200.0/512, sums[1].CollisionsPerEntry(), 1e-9)
	assert.Zero(t, StrategySummary{}.CollisionsPerEntry())
}

func TestRanked(t *testing.T) {
	ranked := Ranked(sampleResults())
	require.Len(t, ranked, 2)
	assert.Equal(t, "double_hashing", ranked[0].Strategy)
	assert.Equal(t, "linear", ranked[1].Strategy)
}
