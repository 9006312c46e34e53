package melody

import (
	"strconv"
	"strings"

	"github.com/jsphweid/notegen/chord"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/scale"
)

// ParseProgression reads "C:2 Am F G7:2". Bars default to 1.
func ParseProgression(s string) ([]model.ProgressionEntry, []model.Failure) {
	var res []model.ProgressionEntry
	var failures []model.Failure
	for _, field := range strings.Fields(s) {
		name, barsText, hasBars := strings.Cut(field, ":")
		bars := 1
		if hasBars {
			n, err := strconv.Atoi(barsText)
			if err != nil || n <= 0 {
				failures = append(failures, model.Failure{Token: field, Reason: "malformed bar count"})
				continue
			}
			bars = n
		}
		res = append(res, model.ProgressionEntry{Chord: name, Bars: bars})
	}
	return res, failures
}

// Bar is one bar of an expanded progression.
type Bar struct {
	Name   string
	Symbol chord.Symbol
}

// Key is the tonal frame of a melody.
type Key struct {
	Tonic    int
	Scale    scale.Definition
	Inferred bool
}

func (k Key) Contains(p int) bool {
	return k.Scale.Contains(k.Tonic, p)
}

// ExpandProgression repeats every chord over its bars. A chord that does
// not parse is reported and its bars keep the previous chord; leading
// failures take the first chord that parses.
func ExpandProgression(progression []model.ProgressionEntry) ([]Bar, []model.Failure) {
	var bars []Bar
	var failures []model.Failure
	var current *Bar
	pendingBars := 0
	for _, entry := range progression {
		n := entry.Bars
		if n <= 0 {
			n = 1
		}
		tok := chord.ParseToken(entry.Chord, 0)
		if !tok.OK || tok.Rest {
			if !tok.OK {
				failures = append(failures, model.Failure{Token: entry.Chord, Reason: tok.Reason})
			} else {
				failures = append(failures, model.Failure{Token: entry.Chord, Reason: "rest in progression"})
			}
			if current == nil {
				pendingBars += n
				continue
			}
			for i := 0; i < n; i++ {
				bars = append(bars, *current)
			}
			continue
		}
		b := Bar{Name: entry.Chord, Symbol: tok.Symbol()}
		current = &b
		for i := 0; i < pendingBars+n; i++ {
			bars = append(bars, b)
		}
		pendingBars = 0
	}
	return bars, failures
}

// InferKey takes the tonic from the first bar. A preferred scale wins;
// otherwise minor chords give aeolian, dominant sevenths mixolydian and
// anything else ionian.
func InferKey(bars []Bar, preferred string) Key {
	if len(bars) == 0 {
		return Key{Scale: scale.MustLookup("ionian"), Inferred: true}
	}
	first := bars[0].Symbol
	k := Key{Tonic: first.Root}
	if preferred != "" && preferred != scale.None {
		if d, ok := scale.Lookup(preferred); ok {
			k.Scale = d
			return k
		}
	}
	k.Inferred = true
	switch {
	case first.Quality == chord.Minor:
		k.Scale = scale.MustLookup("aeolian")
	case first.Quality == chord.Major && first.Seventh == chord.Dominant7:
		k.Scale = scale.MustLookup("mixolydian")
	default:
		k.Scale = scale.MustLookup("ionian")
	}
	return k
}
