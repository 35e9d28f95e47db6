package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Conceptual-Machines/chordgen-api/internal/engine"
	"github.com/Conceptual-Machines/chordgen-api/internal/midi"
	"github.com/Conceptual-Machines/chordgen-api/internal/models"
)

// progressionFlags are the engine options shared by generate and preset save
type progressionFlags struct {
	key       string
	scale     string
	bars      int
	seed      int64
	cadence   string
	sevenths  bool
	voicing   string
	inversion string
}

func (f *progressionFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.key, "key", "k", "C", "Tonic, e.g. C, F#, Eb")
	fs.StringVarP(&f.scale, "scale", "s", string(engine.ScaleMinor), "major or minor")
	fs.IntVarP(&f.bars, "bars", "b", 8, fmt.Sprintf("Number of bars (%d..%d)", engine.MinBars, engine.MaxBars))
	fs.Int64Var(&f.seed, "seed", 0, "Seed; omitted picks one and prints it")
	fs.StringVar(&f.cadence, "cadence", string(engine.CadenceSoft), "none, soft, strong, plagal or half")
	fs.BoolVar(&f.sevenths, "sevenths", false, "Extend triads to seventh chords")
	fs.StringVar(&f.voicing, "voicing", string(engine.VoicingClose), "close or open")
	fs.StringVar(&f.inversion, "inversion", string(engine.InversionRoot), "root, random or smooth")
}

func (f *progressionFlags) request(fs *pflag.FlagSet) models.ProgressionRequest {
	req := models.ProgressionRequest{
		Key:       f.key,
		Scale:     f.scale,
		Bars:      f.bars,
		Cadence:   f.cadence,
		Sevenths:  f.sevenths,
		Voicing:   f.voicing,
		Inversion: f.inversion,
	}
	if fs.Changed("seed") {
		seed := f.seed
		req.Seed = &seed
	}
	return req
}

// midiFlags mirror midi.Options
type midiFlags struct {
	opts     midi.Options
	spread   float64
	humanize float64
}

func (f *midiFlags) bind(fs *pflag.FlagSet) {
	d := midi.DefaultOptions()
	fs.IntVar(&f.opts.PPQ, "ppq", d.PPQ, "Ticks per quarter note")
	fs.Float64Var(&f.opts.TempoBPM, "tempo", d.TempoBPM, "Tempo in BPM")
	fs.IntVar(&f.opts.Channel, "channel", d.Channel, "MIDI channel (1..16)")
	fs.Float64Var(&f.opts.NoteLengthBeats, "note-length", d.NoteLengthBeats, "Chord length in beats")
	fs.StringVar((*string)(&f.opts.Playback), "playback", string(d.Playback), "simultaneous or arpeggio")
	fs.Float64Var(&f.spread, "arp-spread", *d.ArpeggioSpreadBeats, "Beats between arpeggiated notes")
	fs.StringVar((*string)(&f.opts.Velocity), "velocity", string(d.Velocity), "fixed, range or humanize")
	fs.IntVar(&f.opts.VelocityFixed, "velocity-fixed", d.VelocityFixed, "Velocity in fixed mode")
	fs.IntVar(&f.opts.VelocityMin, "velocity-min", d.VelocityMin, "Lowest velocity in range mode")
	fs.IntVar(&f.opts.VelocityMax, "velocity-max", d.VelocityMax, "Highest velocity in range mode")
	fs.Float64Var(&f.humanize, "humanize", *d.Humanize, "Humanize amount (0..1)")
	fs.StringVar(&f.opts.Rhythm, "rhythm", "", "Rhythm template, e.g. quarters, 8ths, swing")
}

func (f *midiFlags) options() midi.Options {
	opts := f.opts
	opts.ArpeggioSpreadBeats = midi.Float(f.spread)
	opts.Humanize = midi.Float(f.humanize)
	return opts
}

func newGenerateCmd(version string) *cobra.Command {
	var (
		flags   progressionFlags
		mflags  midiFlags
		asJSON  bool
		midiOut string
		dumpOut string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a chord progression",
		Example: `  chordgen generate --key A --scale minor --bars 8 --seed 42 --cadence plagal
  chordgen generate -k Eb -s major --sevenths --voicing open --midi out.mid`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := newEngine(version).Generate(flags.request(cmd.Flags()))
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), result.Warnings)

			if midiOut != "" || dumpOut != "" {
				rendering, err := midi.Render(result.Response.Progression, mflags.options())
				if err != nil {
					return err
				}
				if err := writeRendering(cmd.ErrOrStderr(), rendering, midiOut, dumpOut); err != nil {
					return err
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result.Response)
			}
			printProgression(cmd.OutOrStdout(), result.Response)
			return nil
		},
	}

	flags.bind(cmd.Flags())
	mflags.bind(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full response as JSON")
	cmd.Flags().StringVarP(&midiOut, "midi", "o", "", "Also write a Standard MIDI File to this path")
	cmd.Flags().StringVar(&dumpOut, "dump-events", "", "Write the MIDI event dump as JSON to this path")
	return cmd
}

func printProgression(w io.Writer, resp models.ProgressionResponse) {
	cfg := resp.Config
	fmt.Fprintln(w, resp.Meta.Banner)
	fmt.Fprintf(w, "Key: %s | Scale: %s | Bars: %d | Seed: %d\n",
		resp.Progression.Key, cfg.Scale, cfg.Bars, cfg.Seed)
	fmt.Fprintf(w, "Cadence: %s | Sevenths: %t | Voicing: %s | Inversion: %s\n",
		cfg.Cadence, cfg.Sevenths, cfg.Voicing, cfg.Inversion)
	fmt.Fprintln(w, resp.Progression.Summary())
}

func printWarnings(w io.Writer, warnings []engine.Warning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRendering writes the SMF and/or the event dump; empty paths are skipped
func writeRendering(status io.Writer, r *midi.Rendering, midiPath, dumpPath string) error {
	if midiPath != "" {
		if err := os.WriteFile(midiPath, r.SMF, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", midiPath, err)
		}
		fmt.Fprintf(status, "Wrote %s\n", midiPath)
	}
	if dumpPath != "" {
		data, err := json.MarshalIndent(r.Dump, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode event dump: %w", err)
		}
		if err := os.WriteFile(dumpPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dumpPath, err)
		}
		fmt.Fprintf(status, "Wrote %s (%d events)\n", dumpPath, len(r.Dump))
	}
	return nil
}
