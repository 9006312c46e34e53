package cmd

import (
	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/melody"
	"github.com/jsphweid/notegen/model"
	"github.com/spf13/cobra"
)

var clipFlags struct {
	name        string
	lengthBars  int
	tempo       float64
	beatsPerBar int
	octave      int
	noteLength  int
	progression string
}

func init() {
	rootCmd.AddCommand(clipCmd)
	clipCmd.AddCommand(clipCreateCmd, clipListCmd, clipShowCmd)

	f := clipCreateCmd.Flags()
	f.StringVar(&clipFlags.name, "name", "", "clip name")
	f.IntVar(&clipFlags.lengthBars, "bars", 0, "clip length in bars, 0 for unbounded")
	f.Float64Var(&clipFlags.tempo, "tempo", 120, "tempo in beats per minute")
	f.IntVar(&clipFlags.beatsPerBar, "beats", 4, "beats per bar")
	f.IntVar(&clipFlags.octave, "octave", 0, "default octave for notation")
	f.IntVar(&clipFlags.noteLength, "note-length", 0, "default note length in ticks for notation")
	f.StringVar(&clipFlags.progression, "progression", "", `chord progression such as "C:2 Am F G7:2"`)
}

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "Manages clips in the configured clip store",
}

var clipCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a clip and prints it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(getConfig())
		if err != nil {
			return err
		}
		prog, failures := melody.ParseProgression(clipFlags.progression)
		logFailures(failures)
		c, err := store.Put(cmd.Context(), model.Clip{
			Name:          clipFlags.name,
			LengthTicks:   clipFlags.lengthBars * clipFlags.beatsPerBar * constants.TicksPerBeat,
			Tempo:         clipFlags.tempo,
			BeatsPerBar:   clipFlags.beatsPerBar,
			DefaultOctave: clipFlags.octave,
			DefaultLength: clipFlags.noteLength,
			Progression:   prog,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var clipListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists all clips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(getConfig())
		if err != nil {
			return err
		}
		all, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), all)
	},
}

var clipShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Prints one clip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadClip(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c.clip)
	},
}
