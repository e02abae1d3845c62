// Package keygen produces the integer keys fed to benchmark tables.
package keygen

import "math/rand"

// Unique returns the integers 0..n-1 in an order shuffled by seed. The
// same seed always yields the same order.
func Unique(n int, seed int64) []int {
	if n <= 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed)).Perm(n)
}

// Sequential returns 0..n-1 in order.
func Sequential(n int) []int {
	return Strided(n, 1)
}

// Strided returns n keys spaced stride apart, starting at 0. Strides that
// share factors with the capacity expose clustering in weak hashes.
func Strided(n, stride int) []int {
	if n <= 0 {
		return nil
	}
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i * stride
	}
	return keys
}

// Pattern names a key layout.
type Pattern string

const (
	PatternRandom     Pattern = "random"
	PatternSequential Pattern = "sequential"
	PatternStrided    Pattern = "strided"
)

// Generate returns n keys laid out according to p. Unknown patterns fall
// back to random.
func Generate(p Pattern, n int, seed int64, stride int) []int {
	switch p {
	case PatternSequential:
		return Sequential(n)
	case PatternStrided:
		if stride <= 0 {
			stride = 1
		}
		return Strided(n, stride)
	default:
		return Unique(n, seed)
	}
}
