package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/notegen/chord"
	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/midi"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/notation"
	"github.com/jsphweid/notegen/pitch"
	"github.com/spf13/cobra"
)

var inspectFlags struct {
	from     int
	maxNotes int
	out      string
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	f := inspectCmd.Flags()
	f.IntVar(&inspectFlags.from, "from", 0, "first tick of the excerpt")
	f.IntVar(&inspectFlags.maxNotes, "max-notes", 0, "cut an excerpt of this many notes")
	f.StringVarP(&inspectFlags.out, "out", "o", "", "write the excerpt to a MIDI file")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid|notation file>",
	Short: "Lists the notes and chords of a MIDI file or notation document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := readEvents(args[0])
		if err != nil {
			return err
		}
		if inspectFlags.maxNotes > 0 {
			events = midi.Excerpt(events, inspectFlags.from, inspectFlags.maxNotes)
			if inspectFlags.out != "" {
				return midi.WriteFile(inspectFlags.out, events, midi.DefaultTempo)
			}
		}
		inspect(cmd.OutOrStdout(), events)
		return nil
	},
}

// readEvents reads .mid files with the MIDI reader and anything else as a
// notation document.
func readEvents(path string) ([]model.NoteEvent, error) {
	if strings.HasSuffix(strings.ToLower(path), ".mid") || strings.HasSuffix(strings.ToLower(path), ".midi") {
		return midi.ReadEvents(path)
	}
	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	opts := notation.DefaultOptions()
	opts.MaxTokens = getConfig().MaxExpandedTokens
	doc := notation.Compile(text, opts)
	logFailures(doc.Failures)
	return doc.Events, nil
}

func endTick(events []model.NoteEvent) int {
	end := 0
	for _, e := range events {
		if e.End() > end {
			end = e.End()
		}
	}
	return end
}

func inspect(w io.Writer, events []model.NoteEvent) {
	fmt.Fprintf(w, "notes: %v\n", len(events))
	fmt.Fprintf(w, "ticks: %v\n", endTick(events))
	for _, e := range events {
		fmt.Fprintf(w, "  %5d %-4s len %-3d vel %d\n", e.Start,
			pitch.Name(pitch.ClassOf(e.Pitch))+fmt.Sprint(pitch.OctaveOf(e.Pitch)), e.Length, e.Velocity)
	}

	snapshots := chord.Detect(events, 3)
	fmt.Fprintf(w, "chords: %v\n", len(snapshots))
	for _, s := range snapshots {
		name, ok := chord.Identify(s.Pitches)
		if !ok {
			name = "?"
		}
		fmt.Fprintf(w, "  %5d %-8s %v\n", s.Start, name, chord.CreateChordKey(s.Pitches))
	}

	ticksPerBar := constants.DefaultBeatsPerBar * constants.TicksPerBeat
	prog := chord.Progression(snapshots, ticksPerBar, endTick(events))
	fmt.Fprintf(w, "progression: %v\n", formatProgression(prog))
}

func formatProgression(prog []model.ProgressionEntry) string {
	parts := make([]string, len(prog))
	for i, p := range prog {
		parts[i] = p.Chord
		if p.Bars != 1 {
			parts[i] += fmt.Sprintf(":%d", p.Bars)
		}
	}
	return strings.Join(parts, " ")
}
