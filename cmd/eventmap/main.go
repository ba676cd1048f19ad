package main

import (
	"fmt"
	"os"

	"github.com/anteater/eventmap/src/client"
)

var (
	// Version info (set via ldflags during build)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	client.Version = Version
	client.GitCommit = GitCommit
	client.BuildDate = BuildDate

	if err := client.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if exitErr, ok := err.(*client.ExitError); ok {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
