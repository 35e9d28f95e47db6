package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/chordgen-api/internal/selftest"
)

func newSelftestCmd(version string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check that generation and MIDI export are reproducible",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := selftest.Run(newEngine(version), selftest.DefaultRequest(), selftest.DefaultMIDIOptions())
			if err != nil {
				return err
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, check := range report.Checks {
					status := "PASS"
					if !check.Passed {
						status = "FAIL"
					}
					fmt.Fprintf(out, "%s  %s", status, check.Name)
					if check.Detail != "" {
						fmt.Fprintf(out, " (%s)", check.Detail)
					}
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "sha256: %s\n", report.Checksum)
			}

			if !report.Passed {
				return errors.New("self-test failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
