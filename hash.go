package oahash

import "math"

// HashContext holds the constants a table derives from its capacity once,
// at creation. It is never modified afterwards.
type HashContext struct {
	Capacity   uint64
	Exponent   uint
	Multiplier uint64
}

// NewHashContext derives the multiplicative constant for c:
// floor(0.5 * capacity * (sqrt(5) - 1)), the golden-ratio conjugate as an
// Exponent-bit fixed-point fraction.
//
// The multiplier is even for most capacities (4 for 8 slots, 632 for 1024),
// so if 2^k divides it Primary reaches only Capacity/2^k home slots.
// Probing spreads the resulting clusters.
func NewHashContext(c Capacity) HashContext {
	return HashContext{
		Capacity:   c.Size,
		Exponent:   c.Exponent,
		Multiplier: uint64(0.5 * float64(c.Size) * (math.Sqrt(5) - 1)),
	}
}

// Primary is Knuth's multiplicative hash. The multiplier is aligned to the
// top of a 64-bit word, multiplied by the key, and the top Exponent bits of
// the product select the bucket.
func (hc HashContext) Primary(key int) uint64 {
	shift := 64 - hc.Exponent
	return (uint64(key) * (hc.Multiplier << shift)) >> shift
}

// Secondary folds the key into Exponent-bit groups and sums them. The
// result is forced odd so it is coprime with the power-of-two capacity,
// which makes a double-hashing sequence visit every slot.
func (hc HashContext) Secondary(key int) uint64 {
	k := uint64(key)
	var sum uint64
	for mask, shift := hc.Capacity-1, uint(0); mask != 0; mask, shift = mask<<hc.Exponent, shift+hc.Exponent {
		sum += (k & mask) >> shift
	}
	return (sum & (hc.Capacity - 1)) | 1
}
