package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/notegen/chord"
	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/melody"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/pitch"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	progression string
	scale       string
}

func init() {
	rootCmd.AddCommand(reportCmd)
	f := reportCmd.Flags()
	f.StringVarP(&reportFlags.progression, "progression", "p", "", "progression to score against, detected from chords in the file when empty")
	f.StringVar(&reportFlags.scale, "scale", "", "mode to score against")
}

var reportCmd = &cobra.Command{
	Use:   "report <file.mid|notation file>",
	Short: "Scores a melody against a progression",
	Long: `Scores the top line of a MIDI file or notation document with the rubric
the melody generator uses and prints every term.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := readEvents(args[0])
		if err != nil {
			return err
		}
		prog, failures := melody.ParseProgression(reportFlags.progression)
		logFailures(failures)
		if len(prog) == 0 {
			ticksPerBar := constants.DefaultBeatsPerBar * constants.TicksPerBeat
			prog = chord.Progression(chord.Detect(events, 3), ticksPerBar, endTick(events))
		}
		if len(prog) == 0 {
			return fmt.Errorf("no progression given and no chords found in %v", args[0])
		}
		report(cmd.OutOrStdout(), events, prog)
		return nil
	},
}

func report(w io.Writer, events []model.NoteEvent, prog []model.ProgressionEntry) {
	p := melody.DefaultParams()
	p.Scale = reportFlags.scale
	m := melody.Annotate(events, prog, p)
	logFailures(m.Failures)
	b := melody.Score(m, melody.DefaultWeights())

	fmt.Fprintf(w, "progression: %v\n", formatProgression(prog))
	fmt.Fprintf(w, "key: %v %v\n", pitch.Name(m.Key.Tonic), m.Key.Scale.Name)
	fmt.Fprintf(w, "notes: %v\n", len(m.Notes))
	if b.Degenerate {
		fmt.Fprintf(w, "degenerate: fewer than %v notes\n", melody.MinNotes)
	}
	fmt.Fprintf(w, "chord tones:      %6.2f\n", b.ChordTones)
	fmt.Fprintf(w, "scale violations: %6.2f\n", b.ScaleViolations)
	fmt.Fprintf(w, "leaps:            %6.2f\n", b.Leaps)
	fmt.Fprintf(w, "reversals:        %6.2f\n", b.Reversals)
	fmt.Fprintf(w, "motifs:           %6.2f\n", b.Motifs)
	fmt.Fprintf(w, "cadences:         %6.2f\n", b.Cadences)
	fmt.Fprintf(w, "rhythm:           %6.2f\n", b.Rhythm)
	fmt.Fprintf(w, "total:            %6.2f\n", b.Total)
}

func readText(path string) (string, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read %v: %w", path, err)
	}
	return string(dat), nil
}
