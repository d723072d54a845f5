package main

import (
	"os"

	"github.com/tasksphere/tasksphere/internal/cli"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
