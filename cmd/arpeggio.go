package cmd

import (
	"fmt"

	"github.com/jsphweid/notegen/arpeggio"
	"github.com/jsphweid/notegen/clip"
	"github.com/jsphweid/notegen/melody"
	"github.com/jsphweid/notegen/model"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var arpeggioFlags struct {
	octave int
	step   int
	looped bool
	seed   int64
	out    string
	clipID string
}

func init() {
	rootCmd.AddCommand(arpeggioCmd)
	f := arpeggioCmd.Flags()
	f.IntVar(&arpeggioFlags.octave, "octave", 0, "octave of the chords")
	f.IntVar(&arpeggioFlags.step, "step", 0, "ticks between arpeggio notes")
	f.BoolVar(&arpeggioFlags.looped, "looped", false, "use up-and-back patterns")
	f.Int64Var(&arpeggioFlags.seed, "seed", 0, "seed for the pattern choice")
	f.StringVarP(&arpeggioFlags.out, "out", "o", "", "write a MIDI file")
	f.StringVar(&arpeggioFlags.clipID, "clip", "", "use the clip's progression and append the arpeggio to it")
}

var arpeggioCmd = &cobra.Command{
	Use:   "arpeggio [progression]",
	Short: "Arpeggiates a chord progression",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := loadClip(ctx, arpeggioFlags.clipID)
		if err != nil {
			return err
		}
		req := model.ArpeggioRequestBody{
			Octave: arpeggioFlags.octave,
			Step:   arpeggioFlags.step,
			Looped: arpeggioFlags.looped,
		}
		if len(args) == 1 {
			req.Progression = args[0]
		}
		if cmd.Flags().Changed("seed") {
			req.Seed = &arpeggioFlags.seed
		}

		events, failures, err := arpeggiate(req, c)
		if err != nil {
			return err
		}
		logFailures(failures)
		return emit(ctx, cmd.OutOrStdout(), c, arpeggioFlags.out, events)
	},
}

// arpeggiate renders a request. As with generate, the progression text wins
// over the clip's progression.
func arpeggiate(req model.ArpeggioRequestBody, c clipCtx) ([]model.NoteEvent, []model.Failure, error) {
	prog, failures := melody.ParseProgression(req.Progression)
	if c.ok && len(prog) == 0 {
		prog = clip.Progression(c.clip, nil)
	}
	if len(prog) == 0 {
		return nil, failures, fmt.Errorf("empty progression")
	}

	opts := arpeggio.DefaultOptions()
	if req.Octave > 0 {
		opts.Octave = req.Octave
	}
	if req.Step > 0 {
		opts.Step = req.Step
	}
	opts.Looped = req.Looped
	if req.Seed != nil {
		opts.Rand = rand.New(rand.NewSource(uint64(*req.Seed)))
	}
	if c.ok {
		opts.BeatsPerBar = clip.BeatsPerBar(c.clip)
	}

	events, more := arpeggio.FromProgression(prog, opts)
	return events, append(failures, more...), nil
}
