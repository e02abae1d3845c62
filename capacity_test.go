package oahash

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCapacity(t *testing.T) {
	testCases := []struct {
		name     string
		n        int
		size     uint64
		exponent uint
	}{
		{"One", 1, 2, 1},
		{"Three", 3, 4, 2},
		{"Seven", 7, 8, 3},
		{"Hundred", 100, 128, 7},
		{"ExactPowerOfTwo", 128, 256, 8},
		{"Thousand", 1000, 1024, 10},
		{"Largest", 1<<32 - 1, 1 << 32, 32},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := PlanCapacity(tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.size, c.Size)
			assert.Equal(t, tc.exponent, c.Exponent)
			assert.Equal(t, tc.size-1, c.Mask())
		})
	}
}

func TestPlanCapacityInvalid(t *testing.T) {
	for _, n := range []int{0, -1, -1024, 1 << 32, 1 << 40} {
		_, err := PlanCapacity(n)
		require.ErrorIs(t, err, ErrInvalidCapacity, "n=%d", n)
	}
}

func TestPlanCapacityIsSmallestPowerAboveHighestBit(t *testing.T) {
	for n := 1; n <= 5000; n++ {
		c, err := PlanCapacity(n)
		require.NoError(t, err)

		require.Equal(t, 1, bits.OnesCount64(c.Size), "n=%d", n)
		require.Equal(t, uint64(1)<<c.Exponent, c.Size, "n=%d", n)
		require.Greater(t, c.Size, uint64(n), "n=%d", n)
		require.LessOrEqual(t, c.Size/2, uint64(n), "n=%d", n)
	}
}
