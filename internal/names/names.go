// Package names is a separate-chaining string set used to look up names
// read from a file, one per line.
package names

import (
	"bufio"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// Hasher maps a name to an unsigned integer.
type Hasher interface {
	Hash(name string) uint64
}

// HasherFunc adapts a function to Hasher.
type HasherFunc func(string) uint64

func (f HasherFunc) Hash(name string) uint64 { return f(name) }

// LetterSum adds up letter positions, 'A' counting as 1. Anagrams and
// many short names collide, which is what makes it a useful baseline.
var LetterSum = HasherFunc(func(name string) uint64 {
	var sum int64
	for i := 0; i < len(name); i++ {
		sum += int64(name[i]) - 'A' + 1
	}
	return uint64(sum)
})

// XXHash is xxHash64 over the name's bytes.
var XXHash = HasherFunc(xxhash.Sum64String)

// ParseHasher returns the hasher called name.
func ParseHasher(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "lettersum", "letter-sum":
		return LetterSum, nil
	case "xxhash":
		return XXHash, nil
	}
	return nil, errors.Errorf("unknown name hash %q", name)
}

// Table is a set of names with one chain per bucket. It is not safe for
// concurrent use.
type Table struct {
	buckets [][]string
	hash    Hasher
	len     int
}

// Stats describes how names spread over buckets.
type Stats struct {
	Buckets      int
	Names        int
	UsedBuckets  int
	LongestChain int
	// Collisions counts names that landed in an already used bucket.
	Collisions int
}

// LoadFactor is names per bucket.
func (s Stats) LoadFactor() float64 {
	return float64(s.Names) / float64(s.Buckets)
}

// New creates a table with n buckets.
func New(n int, h Hasher) (*Table, error) {
	if n <= 0 {
		return nil, errors.Errorf("bucket count %d is not positive", n)
	}
	return &Table{buckets: make([][]string, n), hash: h}, nil
}

func (t *Table) bucket(name string) int {
	return int(t.hash.Hash(name) % uint64(len(t.buckets)))
}

// Put adds name and reports whether it was not already present.
func (t *Table) Put(name string) bool {
	b := t.bucket(name)
	for _, n := range t.buckets[b] {
		if n == name {
			return false
		}
	}
	t.buckets[b] = append(t.buckets[b], name)
	t.len++
	return true
}

// Contains reports whether name is in the table.
func (t *Table) Contains(name string) bool {
	for _, n := range t.buckets[t.bucket(name)] {
		if n == name {
			return true
		}
	}
	return false
}

// Len is the number of distinct names stored.
func (t *Table) Len() int { return t.len }

// Stats walks the buckets and reports how names are spread.
func (t *Table) Stats() Stats {
	s := Stats{Buckets: len(t.buckets), Names: t.len}
	for _, chain := range t.buckets {
		if len(chain) == 0 {
			continue
		}
		s.UsedBuckets++
		s.Collisions += len(chain) - 1
		if len(chain) > s.LongestChain {
			s.LongestChain = len(chain)
		}
	}
	return s
}

// Load adds every non-empty line of r, trimmed of surrounding whitespace,
// and returns how many new names were added.
func (t *Table) Load(r io.Reader) (int, error) {
	added := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if t.Put(name) {
			added++
		}
	}
	return added, errors.Wrap(scanner.Err(), "read names")
}
