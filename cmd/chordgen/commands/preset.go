package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Conceptual-Machines/chordgen-api/internal/config"
	"github.com/Conceptual-Machines/chordgen-api/internal/midi"
	"github.com/Conceptual-Machines/chordgen-api/internal/server"
	"github.com/Conceptual-Machines/chordgen-api/internal/services"
)

func newPresetCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved presets",
		Long: `Presets are kept in PRESET_DIR (default ./presets) or in postgres when
DATABASE_URL is set.`,
	}

	cmd.AddCommand(newPresetSaveCmd(version))
	cmd.AddCommand(newPresetListCmd(version))
	cmd.AddCommand(newPresetShowCmd(version))
	cmd.AddCommand(newPresetExportCmd(version))
	cmd.AddCommand(newPresetDeleteCmd(version))
	return cmd
}

func openPresets(version string) (*services.PresetService, error) {
	cfg := config.Load()
	store, _, err := server.OpenPresetStore(cfg)
	if err != nil {
		return nil, err
	}
	return services.NewPresetService(store, server.NewEngine(cfg, version)), nil
}

func newPresetSaveCmd(version string) *cobra.Command {
	var flags progressionFlags

	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Generate a progression and save it under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := openPresets(version)
			if err != nil {
				return err
			}

			result, err := newEngine(version).Generate(flags.request(cmd.Flags()))
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), result.Warnings)

			preset, err := presets.Save(cmd.Context(), args[0], result.Response)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", preset.Slug, preset.Progression.Summary())
			return nil
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func newPresetListCmd(version string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := openPresets(version)
			if err != nil {
				return err
			}
			list, err := presets.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presets saved.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tKEY\tSCALE\tBARS\tCHORDS")
			for _, p := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.Slug, p.Key, p.Scale, p.Bars, p.Chords)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newPresetShowCmd(version string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := openPresets(version)
			if err != nil {
				return err
			}
			loaded, err := presets.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, w := range loaded.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			p := loaded.Preset
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s), saved %s with chordgen v%s\n",
				p.Name, p.Slug, p.SavedUTC.Format("2006-01-02 15:04:05Z"), p.AppVersion)
			fmt.Fprintf(out, "Key: %s | Scale: %s | Bars: %d | Seed: %d\n",
				p.Progression.Key, p.Config.Scale, p.Config.Bars, p.Config.Seed)
			fmt.Fprintf(out, "Cadence: %s | Sevenths: %t | Voicing: %s | Inversion: %s\n",
				p.Config.Cadence, p.Config.Sevenths, p.Config.Voicing, p.Config.Inversion)
			fmt.Fprintln(out, p.Progression.Summary())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored record as JSON")
	return cmd
}

func newPresetExportCmd(version string) *cobra.Command {
	var (
		mflags  midiFlags
		out     string
		dumpOut string
	)

	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Regenerate a preset and write it as a MIDI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := openPresets(version)
			if err != nil {
				return err
			}
			result, loaded, err := presets.Regenerate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, w := range loaded.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			printWarnings(cmd.ErrOrStderr(), result.Warnings)

			if out == "" {
				out = loaded.Preset.Slug + ".mid"
			}
			rendering, err := midi.Render(result.Response.Progression, mflags.options())
			if err != nil {
				return err
			}
			return writeRendering(cmd.OutOrStdout(), rendering, out, dumpOut)
		},
	}
	mflags.bind(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default NAME.mid)")
	cmd.Flags().StringVar(&dumpOut, "dump-events", "", "Also write the MIDI event dump as JSON to this path")
	return cmd
}

func newPresetDeleteCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := openPresets(version)
			if err != nil {
				return err
			}
			if err := presets.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
