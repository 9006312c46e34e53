package melody

import (
	"sort"

	"github.com/jsphweid/notegen/chord"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/pitch"
	"github.com/jsphweid/notegen/util"
)

// Weights of the scoring rubric. Penalties are negative.
type Weights struct {
	ChordTone       float64
	ScaleViolation  float64
	Leap            float64
	Reversal        float64
	Motif           float64
	QuestionCadence float64
	AnswerCadence   float64
	Rhythm          float64
	// Degenerate replaces the total for melodies under MinNotes notes.
	Degenerate float64
}

func DefaultWeights() Weights {
	return Weights{
		ChordTone:       2,
		ScaleViolation:  -3,
		Leap:            -2,
		Reversal:        -0.5,
		Motif:           1,
		QuestionCadence: 2,
		AnswerCadence:   4,
		Rhythm:          0.5,
		Degenerate:      -1000,
	}
}

const MinNotes = 4

// reversals only count when both intervals are wider than a step
const reversalInterval = 2

// Breakdown is the weighted contribution of every rubric term.
type Breakdown struct {
	ChordTones      float64 `json:"chordTones"`
	ScaleViolations float64 `json:"scaleViolations"`
	Leaps           float64 `json:"leaps"`
	Reversals       float64 `json:"reversals"`
	Motifs          float64 `json:"motifs"`
	Cadences        float64 `json:"cadences"`
	Rhythm          float64 `json:"rhythm"`
	Degenerate      bool    `json:"degenerate"`
	Total           float64 `json:"total"`
}

// Score rates a melody. It never fails: melodies with fewer than MinNotes
// notes get w.Degenerate as their total.
func Score(m Melody, w Weights) Breakdown {
	notes := m.Notes
	if len(notes) < MinNotes {
		return Breakdown{Degenerate: true, Total: w.Degenerate}
	}
	var b Breakdown

	maxLeap := m.MaxLeap
	if maxLeap <= 0 {
		maxLeap = DefaultParams().MaxLeap
	}
	for i, n := range notes {
		if n.Strong {
			if sym, ok := m.chordAt(n.Start); ok && sym.HasTone(pitch.ClassOf(n.Pitch)) {
				b.ChordTones += w.ChordTone
			}
		}
		if !m.Key.Contains(n.Pitch) {
			b.ScaleViolations += w.ScaleViolation
		}
		if n.Cadence {
			b.Cadences += m.cadenceScore(n, w)
		}
		if i > 0 && util.Abs(n.Pitch-notes[i-1].Pitch) > maxLeap {
			b.Leaps += w.Leap
		}
	}

	intervals := make([]int, len(notes)-1)
	gaps := make([]int, len(notes)-1)
	for i := 1; i < len(notes); i++ {
		intervals[i-1] = notes[i].Pitch - notes[i-1].Pitch
		gaps[i-1] = notes[i].Start - notes[i-1].Start
	}

	for i := 1; i < len(intervals); i++ {
		a, c := intervals[i-1], intervals[i]
		if a*c < 0 && util.Abs(a) > reversalInterval && util.Abs(c) > reversalInterval {
			b.Reversals += w.Reversal
		}
	}

	// every repeat of an interval pair after its first occurrence
	seen := make(map[[2]int]bool)
	for i := 1; i < len(intervals); i++ {
		pair := [2]int{intervals[i-1], intervals[i]}
		if pair == [2]int{0, 0} {
			continue
		}
		if seen[pair] {
			b.Motifs += w.Motif
		}
		seen[pair] = true
	}

	for i := 1; i < len(gaps); i++ {
		if gaps[i] == gaps[i-1] {
			b.Rhythm += w.Rhythm
		}
	}

	b.Total = b.ChordTones + b.ScaleViolations + b.Leaps + b.Reversals + b.Motifs + b.Cadences + b.Rhythm
	return b
}

func (m Melody) chordAt(tick int) (chord.Symbol, bool) {
	if len(m.Bars) == 0 || m.TicksPerBar <= 0 || tick < 0 {
		return chord.Symbol{}, false
	}
	bar := util.Min(tick/m.TicksPerBar, len(m.Bars)-1)
	return m.Bars[bar].Symbol, true
}

func (m Melody) cadenceScore(n Note, w Weights) float64 {
	pc := pitch.ClassOf(n.Pitch)
	if n.Role == Answer {
		if pc == m.Key.Tonic {
			return w.AnswerCadence
		}
		return 0
	}
	if sym, ok := m.chordAt(n.Start); ok && pc == sym.Root {
		return w.QuestionCadence
	}
	return 0
}

// Annotate wraps events that were not produced by Generate, such as a
// MIDI file or a compiled note line, so they can be scored against a
// progression. Strong beats, phrase roles and cadences are derived from
// the note positions.
func Annotate(events []model.NoteEvent, progression []model.ProgressionEntry, p Params) Melody {
	p = p.normalized()
	bars, failures := ExpandProgression(progression)
	m := Melody{
		Key:           InferKey(bars, p.Scale),
		Bars:          bars,
		TicksPerBar:   p.ticksPerBar(),
		BarsPerPhrase: p.BarsPerPhrase,
		MaxLeap:       p.MaxLeap,
		Failures:      failures,
	}

	sorted := append([]model.NoteEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	notes := make([]Note, 0, len(sorted))
	for _, e := range sorted {
		if k := len(notes); k > 0 && notes[k-1].Start == e.Start {
			// keep the top voice of a chord
			if e.Pitch > notes[k-1].Pitch {
				notes[k-1].NoteEvent = e
			}
			continue
		}
		bar := e.Start / m.TicksPerBar
		role, phrase := m.roleOfBar(bar)
		notes = append(notes, Note{
			NoteEvent: e,
			Strong:    isStrong(e.Start%m.TicksPerBar, p.BeatsPerBar),
			Role:      role,
			Phrase:    phrase,
		})
	}
	for i := range notes {
		if i == len(notes)-1 || notes[i+1].Phrase != notes[i].Phrase {
			notes[i].Cadence = true
		}
	}
	m.Notes = notes
	return m
}
