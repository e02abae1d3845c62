package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/theflywheel/oahash"
)

func main() {
	// Keys 133 apart from 5 by a multiple of the capacity land in the same
	// home slot of an 8-slot table.
	keys := []int{5, 133, 261, 17, 42, 99, 1000, 7}

	for _, np := range oahash.AllProbes {
		t, err := oahash.New(5, np.Probe) // 8 slots
		if err != nil {
			log.Fatalf("Failed to create table: %v", err)
		}

		fmt.Printf("%s:\n", np.Name)
		for _, k := range keys {
			n, err := t.Insert(k)
			if errors.Is(err, oahash.ErrTableFull) {
				fmt.Printf("  %4d: %v\n", k, err)
				continue
			}
			if err != nil {
				log.Fatalf("Failed to insert %d: %v", k, err)
			}
			slot, _ := t.Find(k)
			fmt.Printf("  %4d -> slot %d after %d collisions\n", k, slot, n)
		}
		fmt.Printf("  entries=%d collisions=%d load=%.1f%%\n\n",
			t.Entries(), t.Collisions(), t.LoadFactor())
	}

	fmt.Println("Example completed successfully")
}
