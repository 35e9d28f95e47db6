// Package commands implements the chordgen command line.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/chordgen-api/internal/config"
	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/server"
)

// NewRootCommand builds the chordgen command tree
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "chordgen",
		Short: "Seeded chord progression generator",
		Long: `Generate reproducible diatonic chord progressions, render them to MIDI
and keep named presets. The same seed and options always give the same result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// .env is optional for the CLI
			_ = godotenv.Load()
		},
	}

	root.AddCommand(newGenerateCmd(version))
	root.AddCommand(newPresetCmd(version))
	root.AddCommand(newSelftestCmd(version))
	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newServeCmd(version))
	return root
}

func newEngine(version string) *engine.Engine {
	return server.NewEngine(config.Load(), version)
}
