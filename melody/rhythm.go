package melody

import (
	"sort"
	"strings"

	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/util"
	"golang.org/x/exp/rand"
)

// Slot is a place in a bar where a note may sound. Steps and durations
// are ticks, written for a 4/4 bar of 16 ticks.
type Slot struct {
	Step     int
	Duration int
	Accent   float64
}

type rhythm []Slot

const patternBarTicks = 16

// Each genre lists patterns from sparse to busy.
var genres = map[string][]rhythm{
	"pop": {
		{{0, 4, 1.0}, {4, 4, 0.8}, {8, 4, 0.9}, {12, 4, 0.8}},
		{{0, 6, 1.0}, {6, 2, 0.75}, {8, 4, 0.9}, {12, 4, 0.8}},
		{{0, 2, 1.0}, {2, 2, 0.7}, {4, 4, 0.85}, {8, 2, 0.95}, {10, 2, 0.7}, {12, 4, 0.8}},
	},
	"ballad": {
		{{0, 12, 1.0}, {12, 4, 0.75}},
		{{0, 8, 1.0}, {8, 8, 0.9}},
		{{0, 4, 1.0}, {4, 4, 0.8}, {8, 8, 0.9}},
	},
	"jazz": {
		{{0, 3, 1.0}, {3, 1, 0.7}, {4, 4, 0.85}, {8, 3, 0.95}, {11, 1, 0.7}, {12, 4, 0.85}},
		{{0, 3, 1.0}, {3, 1, 0.7}, {4, 3, 0.9}, {7, 1, 0.7}, {8, 3, 0.95}, {11, 1, 0.7}, {12, 4, 0.85}},
		{{0, 2, 1.0}, {2, 4, 0.8}, {6, 2, 0.85}, {8, 2, 0.95}, {10, 2, 0.7}, {12, 2, 0.9}, {14, 2, 0.7}},
	},
	"funk": {
		{{0, 2, 1.0}, {3, 1, 0.8}, {6, 2, 0.75}, {8, 2, 0.95}, {11, 1, 0.8}, {14, 2, 0.85}},
		{{0, 2, 1.0}, {3, 1, 0.8}, {4, 2, 0.85}, {6, 1, 0.7}, {8, 2, 0.95}, {10, 2, 0.8}, {11, 1, 0.7}, {14, 2, 0.85}},
	},
}

const defaultGenre = "pop"

func Genres() []string {
	names := make([]string, 0, len(genres))
	for name := range genres {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func genrePatterns(name string) []rhythm {
	if patterns, ok := genres[strings.ToLower(name)]; ok {
		return patterns
	}
	return genres[defaultGenre]
}

// pickRhythm leans toward the busier patterns as density grows.
func pickRhythm(rng *rand.Rand, patterns []rhythm, density float64) rhythm {
	weights := make([]float64, len(patterns))
	for i := range patterns {
		weights[i] = 1 + density*float64(i)*2
	}
	return patterns[weightedIndex(rng, weights)]
}

// fitBar lays a 16-tick pattern over a bar of ticksPerBar ticks, tiling
// it for longer bars and cutting it for shorter ones.
func fitBar(r rhythm, ticksPerBar int) []Slot {
	var res []Slot
	for offset := 0; offset < ticksPerBar; offset += patternBarTicks {
		for _, s := range r {
			step := offset + s.Step
			if step >= ticksPerBar {
				break
			}
			s.Step = step
			s.Duration = util.Min(s.Duration, ticksPerBar-step)
			res = append(res, s)
		}
	}
	return res
}

// isStrong is true on the downbeat and, in even meters, the half bar.
func isStrong(step, beatsPerBar int) bool {
	if step == 0 {
		return true
	}
	return beatsPerBar%2 == 0 && step == beatsPerBar*constants.TicksPerBeat/2
}

func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	x := rng.Float64() * total
	for i, w := range weights {
		if x < w {
			return i
		}
		x -= w
	}
	return len(weights) - 1
}
