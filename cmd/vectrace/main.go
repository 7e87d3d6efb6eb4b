// Command vectrace replays rawvec scenario scripts, writes seqcodec
// snapshots of their results and heap-profiles a push-back workload.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var debug bool

func main() {
	app := kingpin.New("vectrace", "Trace rawvec growth and relocation.")
	app.Flag("debug", "Log every reallocation.").BoolVar(&debug)
	addRunCommand(app)
	addEncodeCommand(app)
	addProfileCommand(app)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func newLogger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	if debug {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
