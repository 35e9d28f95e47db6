package main

import (
	"fmt"
	"os"

	"github.com/Conceptual-Machines/chordgen-api/cmd/chordgen/commands"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	if err := commands.NewRootCommand(releaseVersion).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
