package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"

	"github.com/rawbytedev/rawvec"
	"github.com/rawbytedev/rawvec/pkg/scenario"
	"github.com/rawbytedev/rawvec/pkg/seqcodec"
)

// encodeCommand replays one scenario and writes a snapshot of the result.
type encodeCommand struct {
	file string
	out  string
	zstd bool
}

func (cmd *encodeCommand) run(_ *kingpin.ParseContext) error {
	logger := newLogger()
	s, err := scenario.Load(cmd.file)
	if err != nil {
		exitWithErr(err)
	}
	v, _, err := scenario.Run(s, rawvec.Options{Logger: logger})
	if err != nil {
		exitWithErr(err)
	}
	var flags byte
	if cmd.zstd {
		flags |= seqcodec.FlagZstd
	}
	data, err := seqcodec.Encode(v, flags)
	if err != nil {
		exitWithErr(fmt.Errorf("failed to encode %s: %w", s.Name, err))
	}
	// Decoding before writing catches a snapshot that would not load back.
	if _, err := seqcodec.Decode[int64](data, rawvec.Options{}); err != nil {
		exitWithErr(fmt.Errorf("snapshot does not round trip: %w", err))
	}
	if err := os.WriteFile(cmd.out, data, 0o644); err != nil {
		exitWithErr(err)
	}
	_ = level.Info(logger).Log("msg", "wrote snapshot", "file", cmd.out, "elements", v.Size(),
		"bytes", humanize.Bytes(uint64(len(data))), "zstd", cmd.zstd)
	return nil
}

func addEncodeCommand(app *kingpin.Application) {
	cmd := &encodeCommand{}
	enc := app.Command("encode", "Replay a scenario and write a seqcodec snapshot of the result.").Action(cmd.run)
	enc.Arg("file", "Scenario file to replay.").Required().ExistingFileVar(&cmd.file)
	enc.Flag("out", "Snapshot output path.").Default("vector.rv").StringVar(&cmd.out)
	enc.Flag("zstd", "Compress the payload with zstd.").BoolVar(&cmd.zstd)
}
