package clip

import (
	"github.com/jsphweid/notegen/melody"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/notation"
)

// NotationOptions takes the default octave and length of c over base.
func NotationOptions(c model.Clip, base notation.Options) notation.Options {
	if c.DefaultOctave > 0 {
		base.Octave = c.DefaultOctave
	}
	if c.DefaultLength > 0 {
		base.Length = c.DefaultLength
	}
	return base
}

// Progression returns the clip's progression, or fallback when it has none.
func Progression(c model.Clip, fallback []model.ProgressionEntry) []model.ProgressionEntry {
	if len(c.Progression) > 0 {
		return c.Progression
	}
	return fallback
}

// BeatsPerBar is the clip meter, or the default 4/4.
func BeatsPerBar(c model.Clip) int {
	if c.BeatsPerBar > 0 {
		return c.BeatsPerBar
	}
	return melody.DefaultParams().BeatsPerBar
}
