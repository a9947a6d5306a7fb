package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/codegangsta/cli"
	"github.com/mattn/go-runewidth"

	"github.com/CursedRock17/message-filters/config"
	"github.com/CursedRock17/message-filters/core"
)

func runCommand() cli.Command {
	return cli.Command{
		Name:        "run",
		Usage:       "replay an event log through a configured synchronizer",
		Description: "run reads a YAML synchronizer config and a CSV event log (stream,timestamp_ns,payload) and prints every emitted tuple",
		Action:      runAction,
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "config, c",
				Usage: "path to the synchronizer YAML config",
			},
		},
	}
}

func runAction(c *cli.Context) error {
	if len(c.Args()) != 1 {
		cli.ShowCommandHelp(c, "run")
		os.Exit(1)
	}
	cfgPath := c.String("config")
	if cfgPath == "" {
		return cli.NewExitError("run: --config is required", 1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	w := newTupleWriter(os.Stdout, cfg.Streams)

	frame, err := cfg.BuildFrame(w.Write, nil)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	binds := make([]func(core.Event) error, cfg.Streams)
	for i := 0; i < cfg.Streams; i++ {
		binds[i] = frame.Bind(i)
	}

	f, err := os.Open(c.Args()[0])
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.SplitN(text, ",", 3)
		if len(fields) < 2 {
			return cli.NewExitError(fmt.Sprintf("run: line %d: expected stream,timestamp_ns[,payload]", line), 1)
		}
		stream, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("run: line %d: bad stream index: %v", line, err), 1)
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("run: line %d: bad timestamp: %v", line, err), 1)
		}
		var payload string
		if len(fields) == 3 {
			payload = fields[2]
		}
		if stream < 0 || stream >= len(binds) {
			return cli.NewExitError(fmt.Sprintf("run: line %d: stream %d out of range", line, stream), 1)
		}
		if err := binds[stream](core.Event{Timestamp: core.Timestamp(ts), Message: payload}); err != nil {
			return cli.NewExitError(fmt.Sprintf("run: line %d: %v", line, err), 1)
		}
	}
	return scanner.Err()
}

// tupleWriter prints emitted tuples as an aligned table, using go-runewidth
// for column alignment the same way the teacher's BQL parser uses it to
// line a caret up under a multi-width-rune parse error.
type tupleWriter struct {
	out     *bufio.Writer
	streams int
}

func newTupleWriter(f *os.File, streams int) *tupleWriter {
	return &tupleWriter{out: bufio.NewWriter(f), streams: streams}
}

func (w *tupleWriter) Write(t core.Tuple) {
	cols := make([]string, len(t))
	for i, e := range t {
		if e.Unset() {
			cols[i] = "-"
			continue
		}
		cols[i] = fmt.Sprintf("%d:%v", e.Timestamp, e.Message)
	}
	for _, col := range cols {
		pad := 24 - runewidth.StringWidth(col)
		if pad < 1 {
			pad = 1
		}
		fmt.Fprint(w.out, col, strings.Repeat(" ", pad))
	}
	fmt.Fprintln(w.out)
	w.out.Flush()
}
