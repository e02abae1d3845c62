package names

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterSum(t *testing.T) {
	assert.Equal(t, uint64(1), LetterSum.Hash("A"))
	assert.Equal(t, uint64(1+2+3), LetterSum.Hash("ABC"))
	assert.Equal(t, LetterSum.Hash("ABC"), LetterSum.Hash("CBA"))
	assert.Equal(t, xxhash.Sum64String("Ola"), XXHash.Hash("Ola"))
}

func TestParseHasher(t *testing.T) {
	h, err := ParseHasher("XXHash")
	require.NoError(t, err)
	assert.Equal(t, XXHash.Hash("Kari"), h.Hash("Kari"))

	h, err = ParseHasher("lettersum")
	require.NoError(t, err)
	assert.Equal(t, uint64(6), h.Hash("ABC"))

	_, err = ParseHasher("md5")
	assert.Error(t, err)
}

func TestPutContains(t *testing.T) {
	for _, h := range []Hasher{LetterSum, XXHash} {
		tbl, err := New(7, h)
		require.NoError(t, err)

		assert.True(t, tbl.Put("Ola"))
		assert.True(t, tbl.Put("Kari"))
		assert.False(t, tbl.Put("Ola"))
		assert.Equal(t, 2, tbl.Len())

		assert.True(t, tbl.Contains("Kari"))
		assert.False(t, tbl.Contains("Per"))
	}
}

func TestAnagramsShareABucket(t *testing.T) {
	tbl, err := New(101, LetterSum)
	require.NoError(t, err)

	for _, n := range []string{"Amy", "May", "Yam"} {
		tbl.Put(n)
	}
	s := tbl.Stats()
	assert.Equal(t, 3, s.Names)
	assert.Equal(t, 1, s.UsedBuckets)
	assert.Equal(t, 3, s.LongestChain)
	assert.Equal(t, 2, s.Collisions)
}

func TestLoad(t *testing.T) {
	tbl, err := New(64, XXHash)
	require.NoError(t, err)

	added, err := tbl.Load(strings.NewReader("Ola\n\n  Kari \nOla\nPer\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.True(t, tbl.Contains("Kari"))

	s := tbl.Stats()
	assert.Equal(t, 64, s.Buckets)
	assert.InDelta(t, 3.0/64, s.LoadFactor(), 1e-9)
}

func TestXXHashSpreadsBetter(t *testing.T) {
	var lines []string
	for i := 0; i < 2000; i++ {
		lines = append(lines, fmt.Sprintf("Name%04d", i))
	}
	input := strings.Join(lines, "\n")

	sum, err := New(1024, LetterSum)
	require.NoError(t, err)
	_, err = sum.Load(strings.NewReader(input))
	require.NoError(t, err)

	xx, err := New(1024, XXHash)
	require.NoError(t, err)
	_, err = xx.Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Less(t, xx.Stats().LongestChain, sum.Stats().LongestChain)
	assert.Greater(t, xx.Stats().UsedBuckets, sum.Stats().UsedBuckets)
}

func TestNewInvalid(t *testing.T) {
	_, err := New(0, XXHash)
	assert.Error(t, err)
}
