package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"

	"github.com/rawbytedev/rawvec"
)

// profileCommand writes a heap profile of a push-back workload.
type profileCommand struct {
	count  int
	rounds int
	out    string
}

func (cmd *profileCommand) run(_ *kingpin.ParseContext) error {
	logger := newLogger()
	f, err := os.Create(cmd.out)
	if err != nil {
		exitWithErr(err)
	}
	defer func() { _ = f.Close() }()

	runtime.MemProfileRate = 1
	var last *rawvec.Vector[int64]
	for r := 0; r < cmd.rounds; r++ {
		v := rawvec.New[int64](rawvec.Options{Logger: logger})
		for i := 0; i < cmd.count; i++ {
			if err := v.PushBack(int64(i)); err != nil {
				exitWithErr(fmt.Errorf("push_back %d: %w", i, err))
			}
		}
		last = v
	}
	if err := pprof.WriteHeapProfile(f); err != nil {
		exitWithErr(fmt.Errorf("failed to write heap profile: %w", err))
	}
	if last != nil {
		_ = level.Info(logger).Log("msg", "wrote heap profile", "file", cmd.out, "rounds", cmd.rounds,
			"size", last.Size(), "capacity", last.Capacity(),
			"bytes", humanize.Bytes(uint64(last.Capacity())*slotBytes))
	}
	return nil
}

func addProfileCommand(app *kingpin.Application) {
	cmd := &profileCommand{}
	prof := app.Command("profile", "Heap-profile repeated push_back into a fresh vector.").Action(cmd.run)
	prof.Flag("count", "Elements pushed per round.").Default("100000").IntVar(&cmd.count)
	prof.Flag("rounds", "Number of vectors built.").Default("100").IntVar(&cmd.rounds)
	prof.Flag("out", "Heap profile output path.").Default("mem.prof").StringVar(&cmd.out)
}
