// Command syncctl is a small operator tool around the message-filters
// synchronizers, structured the way the teacher's `dot` subcommand
// (cmd/lib/dot/cmd.go in disktnk-sensorbee) structures itself around
// github.com/codegangsta/cli: one cli.Command per verb, flags declared
// declaratively, Action doing the work.
package main

import (
	"fmt"
	"os"

	"github.com/codegangsta/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "syncctl"
	app.Usage = "replay and generate multi-stream event logs against the synchronization core"
	app.Commands = []cli.Command{
		runCommand(),
		generateCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
