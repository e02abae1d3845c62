package oahash

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when a requested capacity cannot be
	// rounded to a usable power of two.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrUnknownProbe is returned for a probe strategy that is not defined.
	ErrUnknownProbe = errors.New("unknown probe strategy")

	// ErrTableFull is returned when an insertion exhausts every probe
	// attempt without finding a free slot.
	ErrTableFull = errors.New("hash table full")
)

// FullError reports the value that could not be placed and how many probe
// attempts were spent on it. It matches ErrTableFull with errors.Is.
type FullError struct {
	Value    int
	Attempts int
}

func (e *FullError) Error() string {
	return fmt.Sprintf("hash table full: value %d not placed after %d attempts", e.Value, e.Attempts)
}

func (e *FullError) Is(target error) bool {
	return target == ErrTableFull
}
