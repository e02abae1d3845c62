package oahash

import (
	"fmt"
	"math/bits"
)

// MaxExponent bounds the size of a slot array to 2^32 slots.
const MaxExponent = 32

// Capacity is a power-of-two slot count paired with its base-2 exponent.
type Capacity struct {
	Size     uint64
	Exponent uint
}

// PlanCapacity rounds n up past its most significant set bit: if the
// highest set bit of n is at position p, the capacity is 2^(p+1). This is
// the doubling convention, so 100 becomes 128 and 128 becomes 256.
func PlanCapacity(n int) (Capacity, error) {
	if n <= 0 {
		return Capacity{}, fmt.Errorf("%w: %d is not positive", ErrInvalidCapacity, n)
	}

	exp := uint(bits.Len64(uint64(n)))
	if exp > MaxExponent {
		return Capacity{}, fmt.Errorf("%w: %d needs 2^%d slots, limit is 2^%d",
			ErrInvalidCapacity, n, exp, MaxExponent)
	}

	return Capacity{Size: 1 << exp, Exponent: exp}, nil
}

// Mask returns Size-1, which reduces any value modulo the capacity.
func (c Capacity) Mask() uint64 {
	return c.Size - 1
}
