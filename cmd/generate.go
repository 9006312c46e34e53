package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/notegen/clip"
	"github.com/jsphweid/notegen/logger"
	"github.com/jsphweid/notegen/melody"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/scale"
	"github.com/spf13/cobra"
)

var generateFlags struct {
	scale      string
	genre      string
	seed       int64
	candidates int
	topK       int
	density    float64
	breakdown  bool
	out        string
	clipID     string
}

func init() {
	rootCmd.AddCommand(generateCmd)
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.scale, "scale", "", "mode to use, inferred from the first chord when empty ("+strings.Join(scale.Names(), ", ")+")")
	f.StringVar(&generateFlags.genre, "genre", "pop", "rhythm style ("+strings.Join(melody.Genres(), ", ")+")")
	f.Int64Var(&generateFlags.seed, "seed", 0, "base seed for reproducible output")
	f.IntVar(&generateFlags.candidates, "candidates", 0, "candidates to generate and score")
	f.IntVar(&generateFlags.topK, "top-k", 0, "pick the result among this many best candidates")
	f.Float64Var(&generateFlags.density, "density", -1, "chance a weak beat sounds, 0 to 1")
	f.BoolVar(&generateFlags.breakdown, "breakdown", false, "print the score breakdown of every candidate")
	f.StringVarP(&generateFlags.out, "out", "o", "", "write a MIDI file")
	f.StringVar(&generateFlags.clipID, "clip", "", "use the clip's progression and meter and append the melody to it")
}

var generateCmd = &cobra.Command{
	Use:   "generate [progression]",
	Short: "Generates a melody over a chord progression",
	Long: `Generates candidate melodies over a progression such as "C:2 Am F G7:2",
scores them and keeps one of the best.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := loadClip(ctx, generateFlags.clipID)
		if err != nil {
			return err
		}
		req := model.GenerateRequestBody{
			Scale:      generateFlags.scale,
			Genre:      generateFlags.genre,
			Candidates: generateFlags.candidates,
			TopK:       generateFlags.topK,
		}
		if len(args) == 1 {
			req.Progression = args[0]
		}
		if cmd.Flags().Changed("seed") {
			req.Seed = &generateFlags.seed
		}
		if generateFlags.density >= 0 {
			req.Density = &generateFlags.density
		}

		res, failures, err := generate(req, c)
		if err != nil {
			return err
		}
		logFailures(failures)
		logger.Info("melody generated", logger.Fields{
			"seed":  res.Seed,
			"score": res.Best.Score.Total,
			"notes": len(res.Best.Melody.Notes),
		})
		if generateFlags.breakdown {
			for _, cand := range res.Ranked {
				fmt.Fprintf(cmd.ErrOrStderr(), "candidate %d seed %d: %+v\n",
					cand.Index, melody.CandidateSeed(res.Seed, cand.Index), cand.Score)
			}
		}
		return emit(ctx, cmd.OutOrStdout(), c, generateFlags.out, res.Best.Melody.Events())
	},
}

// generate runs the candidate search for a request. The progression text
// wins over the clip's progression.
func generate(req model.GenerateRequestBody, c clipCtx) (melody.SearchResult, []model.Failure, error) {
	prog, failures := melody.ParseProgression(req.Progression)
	if c.ok && len(prog) == 0 {
		prog = clip.Progression(c.clip, nil)
	}
	if len(prog) == 0 {
		return melody.SearchResult{}, failures, fmt.Errorf("empty progression")
	}

	conf := getConfig()
	p := melody.DefaultParams()
	p.Scale = req.Scale
	if req.Genre != "" {
		p.Genre = req.Genre
	}
	if req.Density != nil {
		p.Density = *req.Density
	}
	if req.Seed != nil {
		p = p.WithSeed(*req.Seed)
	}
	if c.ok {
		p.BeatsPerBar = clip.BeatsPerBar(c.clip)
	}

	opts := melody.DefaultSearchOptions()
	opts.Candidates = firstPositive(req.Candidates, conf.MelodyCandidates)
	opts.TopK = firstPositive(req.TopK, conf.MelodyTopK)
	if conf.MelodyWorkers > 0 {
		opts.Workers = conf.MelodyWorkers
	}

	res := melody.Search(prog, p, opts)
	failures = append(failures, res.Best.Melody.Failures...)
	return res, failures, nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
