package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"

	"github.com/rawbytedev/rawvec"
	"github.com/rawbytedev/rawvec/pkg/scenario"
)

// slotBytes is the size of one int64 slot.
const slotBytes = 8

// runCommand replays scenario files and prints their traces.
type runCommand struct {
	files *[]string
}

func (cmd *runCommand) run(_ *kingpin.ParseContext) error {
	logger := newLogger()
	for _, f := range *cmd.files {
		s, err := scenario.Load(f)
		if err != nil {
			exitWithErr(err)
		}
		_, trace, err := scenario.Run(s, rawvec.Options{Logger: logger})
		printTrace(s.Name, trace)
		if err != nil {
			exitWithErr(err)
		}
	}
	return nil
}

func printTrace(name string, trace scenario.Trace) {
	fmt.Printf("%s (%d reallocations)\n", name, trace.Reallocations())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tOP\tSIZE\tCAPACITY\tBYTES")
	for i, r := range trace {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", i, r.Op, r.Size, r.Capacity,
			humanize.Bytes(uint64(r.Capacity)*slotBytes))
	}
	_ = w.Flush()
}

func addRunCommand(app *kingpin.Application) {
	cmd := &runCommand{}
	run := app.Command("run", "Replay scenario files and print their traces.").Action(cmd.run)
	cmd.files = run.Arg("file", "Scenario files to replay.").Required().ExistingFiles()
}
