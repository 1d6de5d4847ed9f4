package main

import (
	"fmt"
	"os"

	"github.com/runnerr0/focusguard/internal/cli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	version := fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	if err := cli.Run(version); err != nil {
		// go-flags has already printed the error.
		os.Exit(1)
	}
}
