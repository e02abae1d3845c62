/*
Package oahash provides a fixed-capacity open-addressing hash table for
measuring how probe strategies behave under load.

A Table stores bare integer values in a power-of-two array of slots. It
never resizes, never deletes and never deduplicates: it is a multiset whose
only job is to count how many occupied slots each insertion runs into.

Basic usage:

	import "github.com/theflywheel/oahash"

	t, err := oahash.New(1000, oahash.DoubleHashing) // 1024 slots
	if err != nil {
		log.Fatal(err)
	}

	collisions, err := t.InsertAll(keys)
	if errors.Is(err, oahash.ErrTableFull) {
		// every probe attempt for some value hit an occupied slot
	}

	fmt.Printf("%d entries, %d collisions, %.1f%% full\n",
		t.Entries(), collisions, t.LoadFactor())

Capacity:

The requested capacity is rounded past its most significant set bit, so
New(100, ...) and New(127, ...) get 128 slots and New(128, ...) gets 256.

Hashing:

  - The primary hash is multiplicative: the key is multiplied by the
    golden-ratio conjugate scaled to the capacity, and the top bits of the
    product select the home slot.
  - The secondary hash folds the key into capacity-sized bit groups and
    forces the sum odd. It is only computed for double hashing.

Probe strategies:

  - Linear: h, h+1, h+2, ...
  - Quadratic: h + i(i+1)/2, the triangular numbers
  - DoubleHashing: h + i*h2
  - QuadraticConstants: h + c1*i + c2*i*i with two large primes

The first three visit every slot exactly once in capacity attempts, so an
insertion only fails with ErrTableFull when the table really is full.
QuadraticConstants does not, and is kept out of the default Probes set.
*/
package oahash
