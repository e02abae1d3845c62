// Command hashperf measures how open-addressing probe strategies behave as a
// table fills, and inspects name files with a chaining table.
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	app := kingpin.New("hashperf", "Open-addressing hash table benchmarks.")
	app.HelpFlag.Short('h')
	logLevel := app.Flag("log.level", "Only log messages with the given severity or above.").
		Default("info").Enum("debug", "info", "warn", "error")

	logger := func() log.Logger { return newLogger(*logLevel) }

	run := &runCommand{logger: logger}
	run.register(app)

	names := &namesCommand{}
	names.register(app)

	hist := &historyCommand{}
	hist.register(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func newLogger(lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}
