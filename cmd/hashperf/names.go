package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/theflywheel/oahash/internal/names"
)

// namesCommand loads a file of names into a chaining table and prints how
// evenly they spread.
type namesCommand struct {
	file    *string
	buckets *int
	hash    *string
	lookup  *[]string
}

func (cmd *namesCommand) register(app *kingpin.Application) {
	c := app.Command("names", "Load names, one per line, into a chaining table.").Action(cmd.run)
	cmd.file = c.Arg("file", "File of names.").Required().ExistingFile()
	cmd.buckets = c.Flag("buckets", "Number of buckets.").Default("42069").Int()
	cmd.hash = c.Flag("hash", "Name hash.").Default("lettersum").Enum("lettersum", "xxhash")
	cmd.lookup = c.Flag("lookup", "Name to look up after loading; repeatable.").Strings()
}

func (cmd *namesCommand) run(_ *kingpin.ParseContext) error {
	h, err := names.ParseHasher(*cmd.hash)
	if err != nil {
		return err
	}
	tbl, err := names.New(*cmd.buckets, h)
	if err != nil {
		return err
	}

	f, err := os.Open(*cmd.file)
	if err != nil {
		return errors.Wrap(err, "open names file")
	}
	defer f.Close()

	if _, err := tbl.Load(f); err != nil {
		return err
	}

	s := tbl.Stats()
	bold := color.New(color.Bold)
	bold.Printf("Names (%s):\n", *cmd.hash)
	fmt.Printf("\tnames: %s, buckets: %s, used: %s, load: %.4f\n",
		humanize.Comma(int64(s.Names)),
		humanize.Comma(int64(s.Buckets)),
		humanize.Comma(int64(s.UsedBuckets)),
		s.LoadFactor())
	fmt.Printf("\tcollisions: %s, longest chain: %d\n",
		humanize.Comma(int64(s.Collisions)), s.LongestChain)

	for _, name := range *cmd.lookup {
		if tbl.Contains(name) {
			fmt.Printf("\t%s: found\n", name)
		} else {
			color.New(color.FgRed).Printf("\t%s: not found\n", name)
		}
	}
	return nil
}
