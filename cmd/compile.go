package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/notegen/clip"
	"github.com/jsphweid/notegen/notation"
	"github.com/spf13/cobra"
)

var compileFlags struct {
	notation string
	octave   int
	length   int
	out      string
	clipID   string
}

func init() {
	rootCmd.AddCommand(compileCmd)
	f := compileCmd.Flags()
	f.StringVarP(&compileFlags.notation, "notation", "n", "", "notation text instead of a file")
	f.IntVar(&compileFlags.octave, "octave", 0, "default octave for lines without one")
	f.IntVar(&compileFlags.length, "length", 0, "default length in ticks for lines without one")
	f.StringVarP(&compileFlags.out, "out", "o", "", "write a MIDI file")
	f.StringVar(&compileFlags.clipID, "clip", "", "append the events to this clip")
}

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compiles note and chord lines to note events",
	Long: `Compiles a notation document. Lines starting with # are note lines, lines
starting with & are chord lines and lines starting with ; are comments.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := compileFlags.notation
		if len(args) == 1 {
			dat, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("could not read notation: %w", err)
			}
			text = string(dat)
		}
		if text == "" {
			return fmt.Errorf("nothing to compile")
		}

		ctx := cmd.Context()
		c, err := loadClip(ctx, compileFlags.clipID)
		if err != nil {
			return err
		}
		opts := compileOptions(c)
		doc := notation.Compile(text, opts)
		logFailures(doc.Failures)
		for _, err := range doc.Errors {
			logWarnErr("line skipped", err)
		}
		return emit(ctx, cmd.OutOrStdout(), c, compileFlags.out, doc.Events)
	},
}

func compileOptions(c clipCtx) notation.Options {
	opts := notation.DefaultOptions()
	opts.MaxTokens = getConfig().MaxExpandedTokens
	if c.ok {
		opts = clip.NotationOptions(c.clip, opts)
	}
	if compileFlags.octave > 0 {
		opts.Octave = compileFlags.octave
	}
	if compileFlags.length > 0 {
		opts.Length = compileFlags.length
	}
	return opts
}
