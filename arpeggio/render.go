package arpeggio

import (
	"github.com/jsphweid/notegen/chord"
	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/model"
	"golang.org/x/exp/rand"
)

// Render plays pattern over pitches every step ticks from start until
// length ticks are filled. The last note is trimmed to fit and pitches
// outside the MIDI range are left silent.
func Render(pitches []int, pattern []int, start, step, length, velocity int) []model.NoteEvent {
	var res []model.NoteEvent
	if len(pitches) == 0 || len(pattern) == 0 || step <= 0 {
		return res
	}
	end := start + length
	for tick, i := start, 0; tick < end; tick, i = tick+step, i+1 {
		idx := pattern[i%len(pattern)]
		if idx >= len(pitches) || pitches[idx] < 0 || pitches[idx] > constants.MaxPitch {
			continue
		}
		dur := step
		if tick+dur > end {
			dur = end - tick
		}
		res = append(res, model.NoteEvent{
			Pitch:    pitches[idx],
			Start:    tick,
			Length:   dur,
			Velocity: velocity,
		})
	}
	return res
}

type Options struct {
	Octave      int
	Step        int
	Looped      bool
	Velocity    int
	BeatsPerBar int
	// Pattern picks a fixed pattern index; negative picks one per chord.
	Pattern int
	Rand    *rand.Rand
}

func DefaultOptions() Options {
	return Options{
		Octave:      constants.DefaultOctave - 1,
		Step:        2,
		Velocity:    constants.DefaultVelocity,
		BeatsPerBar: constants.DefaultBeatsPerBar,
		Pattern:     -1,
	}
}

// FromProgression arpeggiates each chord of the progression for its bars.
// Chords that do not parse are reported and leave their bars silent.
func FromProgression(progression []model.ProgressionEntry, opts Options) ([]model.NoteEvent, []model.Failure) {
	var events []model.NoteEvent
	var failures []model.Failure
	if opts.Step <= 0 {
		opts.Step = 2
	}
	if opts.BeatsPerBar <= 0 {
		opts.BeatsPerBar = constants.DefaultBeatsPerBar
	}
	ticksPerBar := opts.BeatsPerBar * constants.TicksPerBeat

	tick := 0
	for _, entry := range progression {
		bars := entry.Bars
		if bars <= 0 {
			bars = 1
		}
		length := bars * ticksPerBar
		tok := chord.ParseToken(entry.Chord, opts.Octave)
		if !tok.OK {
			failures = append(failures, model.Failure{Token: entry.Chord, Reason: tok.Reason})
			tick += length
			continue
		}
		if tok.Rest {
			tick += length
			continue
		}

		pitches := playable(tok.Pitches)
		if len(pitches) < len(tok.Pitches) {
			failures = append(failures, model.Failure{Token: entry.Chord, Reason: "pitch out of range"})
		}
		if len(pitches) == 0 {
			tick += length
			continue
		}

		patterns := Generate(len(pitches))
		family := patterns.Straight
		if opts.Looped {
			family = patterns.Looped
		}
		idx := opts.Pattern
		if idx < 0 {
			if opts.Rand != nil {
				idx = opts.Rand.Intn(len(family))
			} else {
				idx = 0
			}
		}
		pattern := family[idx%len(family)]
		events = append(events, Render(pitches, pattern, tick, opts.Step, length, opts.Velocity)...)
		tick += length
	}
	return events, failures
}

// playable keeps the pitches inside the MIDI range.
func playable(pitches []int) []int {
	res := make([]int, 0, len(pitches))
	for _, p := range pitches {
		if p >= 0 && p <= constants.MaxPitch {
			res = append(res, p)
		}
	}
	return res
}
