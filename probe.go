package oahash

import (
	"fmt"
	"math/bits"
	"strings"
)

// Probe selects the sequence of slots an insertion examines.
type Probe uint8

const (
	// Linear probes h, h+1, h+2, ...
	Linear Probe = iota
	// Quadratic probes h + i(i+1)/2, which covers every slot of a
	// power-of-two table.
	Quadratic
	// DoubleHashing probes h + i*h2 with an odd h2.
	DoubleHashing
	// QuadraticConstants probes h + c1*i + c2*i*i with two large primes.
	// It does not visit every slot of a power-of-two table and can report
	// a full table while free slots remain.
	QuadraticConstants
)

// Constants of the QuadraticConstants probe.
const (
	quadC1 = 1147419379
	quadC2 = 547419503
)

// NamedProbe pairs a probe with the name the benchmark harness reports it
// under.
type NamedProbe struct {
	Name  string
	Probe Probe
}

// Probes is the ordered set of full-cycle strategies benchmarked by default.
var Probes = []NamedProbe{
	{Name: "linear", Probe: Linear},
	{Name: "quadratic", Probe: Quadratic},
	{Name: "double_hashing", Probe: DoubleHashing},
}

// AllProbes extends Probes with strategies that are not full cycle.
var AllProbes = append(append([]NamedProbe(nil), Probes...),
	NamedProbe{Name: "quadratic_constants", Probe: QuadraticConstants})

func (p Probe) String() string {
	for _, np := range AllProbes {
		if np.Probe == p {
			return np.Name
		}
	}
	return fmt.Sprintf("probe(%d)", uint8(p))
}

// ParseProbe returns the probe registered under name. "double" is accepted
// as a short form of "double_hashing".
func ParseProbe(name string) (Probe, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "double" {
		return DoubleHashing, nil
	}
	for _, np := range AllProbes {
		if np.Name == name {
			return np.Probe, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProbe, name)
}

// Valid reports whether p is one of the defined strategies.
func (p Probe) Valid() bool {
	return p <= QuadraticConstants
}

// FullCycle reports whether the probe visits every slot exactly once over
// capacity attempts.
func (p Probe) FullCycle() bool {
	return p != QuadraticConstants
}

// Slot returns the slot to examine on the given attempt, counting from 0.
func (p Probe) Slot(s *ProbeState, attempt uint64) uint64 {
	mask := s.Capacity - 1
	switch p {
	case Linear:
		return (s.Primary + attempt) & mask
	case Quadratic:
		return (s.Primary + triangular(attempt)) & mask
	case DoubleHashing:
		return (s.Primary + attempt*s.Secondary()) & mask
	case QuadraticConstants:
		return (s.Primary + quadC1*attempt + quadC2*attempt*attempt) & mask
	default:
		panic(fmt.Sprintf("oahash: unknown probe %d", uint8(p)))
	}
}

// triangular returns i(i+1)/2 modulo 2^64. The even factor is halved
// before multiplying so the wrapped product stays exact modulo any power
// of two.
func triangular(i uint64) uint64 {
	if i%2 == 0 {
		return (i / 2) * (i + 1)
	}
	return i * ((i + 1) / 2)
}

// ProbeState carries the hashes of one key through a single probe
// sequence. The secondary hash is computed on first use.
//
// States are normally obtained from HashContext.NewProbeState. A literal
// with Key, Capacity and Primary set is also usable as long as Capacity is
// a power of two; the secondary hash is then derived from Capacity.
type ProbeState struct {
	Key      int
	Capacity uint64
	Primary  uint64

	ctx       *HashContext
	secondary uint64
}

// NewProbeState starts a probe sequence for key.
func (hc *HashContext) NewProbeState(key int) ProbeState {
	return ProbeState{
		Key:      key,
		Capacity: hc.Capacity,
		Primary:  hc.Primary(key),
		ctx:      hc,
	}
}

// Secondary returns the cached secondary hash, computing it if needed.
// A computed secondary hash is odd, so zero means not yet computed.
func (s *ProbeState) Secondary() uint64 {
	if s.secondary == 0 {
		if s.ctx == nil {
			if s.Capacity == 0 || s.Capacity&(s.Capacity-1) != 0 {
				panic(fmt.Sprintf("oahash: probe state capacity %d is not a power of two", s.Capacity))
			}
			hc := NewHashContext(Capacity{Size: s.Capacity, Exponent: uint(bits.TrailingZeros64(s.Capacity))})
			s.ctx = &hc
		}
		s.secondary = s.ctx.Secondary(s.Key)
	}
	return s.secondary
}
