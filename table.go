package oahash

import "fmt"

// Slot is one cell of the table. Once occupied it stays occupied.
type Slot struct {
	Occupied bool
	Value    int
}

// Table is a fixed-capacity open-addressing table of integer values.
// It keeps duplicates and never resizes. A Table is not safe for
// concurrent use.
type Table struct {
	slots      []Slot
	hc         HashContext
	probe      Probe
	entries    int
	collisions int
}

// Stats is a snapshot of a table's counters.
type Stats struct {
	Probe      Probe
	Capacity   int
	Entries    int
	Collisions int
	LoadFactor float64
}

// New creates a table with at least minCapacity slots using probe p.
func New(minCapacity int, p Probe) (*Table, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProbe, uint8(p))
	}

	c, err := PlanCapacity(minCapacity)
	if err != nil {
		return nil, err
	}

	return &Table{
		slots: make([]Slot, c.Size),
		hc:    NewHashContext(c),
		probe: p,
	}, nil
}

// Insert stores value and returns the number of occupied slots probed
// before a free one was found. If every slot in the probe sequence is
// occupied it returns a *FullError and the table is left unchanged apart
// from the collision counter.
func (t *Table) Insert(value int) (int, error) {
	st := t.hc.NewProbeState(value)

	collisions := 0
	for i := uint64(0); i < t.hc.Capacity; i++ {
		slot := &t.slots[t.probe.Slot(&st, i)]
		if !slot.Occupied {
			slot.Occupied = true
			slot.Value = value
			t.entries++
			t.collisions += collisions
			return collisions, nil
		}
		collisions++
	}

	t.collisions += collisions
	return collisions, &FullError{Value: value, Attempts: collisions}
}

// InsertAll inserts values in order and returns the total number of
// collisions. It stops at the first value that does not fit.
func (t *Table) InsertAll(values []int) (int, error) {
	total := 0
	for i, v := range values {
		n, err := t.Insert(v)
		total += n
		if err != nil {
			return total, fmt.Errorf("insert %d of %d: %w", i+1, len(values), err)
		}
	}
	return total, nil
}

// Find returns the slot holding value, following the same probe sequence
// as Insert. It stops at the first empty slot.
func (t *Table) Find(value int) (int, bool) {
	st := t.hc.NewProbeState(value)

	for i := uint64(0); i < t.hc.Capacity; i++ {
		idx := t.probe.Slot(&st, i)
		slot := t.slots[idx]
		if !slot.Occupied {
			return -1, false
		}
		if slot.Value == value {
			return int(idx), true
		}
	}
	return -1, false
}

// Probe returns the table's probe strategy.
func (t *Table) Probe() Probe { return t.probe }

// HashContext returns the constants the table hashes with.
func (t *Table) HashContext() HashContext { return t.hc }

// Entries returns the number of stored values.
func (t *Table) Entries() int { return t.entries }

// Collisions returns the cumulative number of occupied slots probed.
func (t *Table) Collisions() int { return t.collisions }

// Capacity returns the number of slots.
func (t *Table) Capacity() int { return len(t.slots) }

// LoadFactor returns the occupied share of slots as a percentage.
func (t *Table) LoadFactor() float64 {
	return float64(t.entries) / float64(len(t.slots)) * 100
}

// Slot returns a copy of slot i.
func (t *Table) Slot(i int) Slot { return t.slots[i] }

// Stats returns a snapshot of the counters.
func (t *Table) Stats() Stats {
	return Stats{
		Probe:      t.probe,
		Capacity:   t.Capacity(),
		Entries:    t.entries,
		Collisions: t.collisions,
		LoadFactor: t.LoadFactor(),
	}
}
