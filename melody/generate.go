// Package melody builds question/answer melodies over a chord progression
// and searches a batch of them for the best scoring one.
package melody

import (
	"sort"

	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/pitch"
	"github.com/jsphweid/notegen/util"
	"golang.org/x/exp/rand"
)

type Role int

const (
	Question Role = iota
	Answer
)

func (r Role) String() string {
	if r == Answer {
		return "answer"
	}
	return "question"
}

// Note is an emitted event plus how it was generated.
type Note struct {
	model.NoteEvent
	Strong   bool
	Role     Role
	Phrase   int
	Cadence  bool
	Ornament bool
}

type Melody struct {
	Notes         []Note
	Key           Key
	Bars          []Bar
	TicksPerBar   int
	BarsPerPhrase int
	MaxLeap       int
	Seed          int64
	Failures      []model.Failure
}

func (m Melody) Events() []model.NoteEvent {
	res := make([]model.NoteEvent, len(m.Notes))
	for i, n := range m.Notes {
		res[i] = n.NoteEvent
	}
	return res
}

func (m Melody) LengthTicks() int {
	return len(m.Bars) * m.TicksPerBar
}

func (m Melody) roleOfBar(bar int) (Role, int) {
	phrase := bar / m.BarsPerPhrase
	if phrase%2 == 1 {
		return Answer, phrase
	}
	return Question, phrase
}

const (
	motifLength  = 5
	motifNudge   = 0.3
	approachGain = 0.8
)

type generator struct {
	p      Params
	rng    *rand.Rand
	key    Key
	bars   []Bar
	prev   int
	motif  []int
	notes  []Note
	center int
}

type phraseSlot struct {
	Slot
	bar    int
	tick   int
	strong bool
}

// Generate builds one melody. With p.UseSeed the result depends only on
// the progression and p.
func Generate(progression []model.ProgressionEntry, p Params) Melody {
	p = p.normalized()
	bars, failures := ExpandProgression(progression)
	key := InferKey(bars, p.Scale)
	m := Melody{
		Key:           key,
		Bars:          bars,
		TicksPerBar:   p.ticksPerBar(),
		BarsPerPhrase: p.BarsPerPhrase,
		MaxLeap:       p.MaxLeap,
		Seed:          p.Seed,
		Failures:      failures,
	}
	if len(bars) == 0 {
		return m
	}

	g := &generator{
		p:      p,
		rng:    newRand(p),
		key:    key,
		bars:   bars,
		prev:   -1,
		center: pitch.Absolute(key.Tonic, p.CenterOctave),
	}
	phrases := (len(bars) + p.BarsPerPhrase - 1) / p.BarsPerPhrase
	for ph := 0; ph < phrases; ph++ {
		g.phrase(ph, m)
	}
	m.Notes = g.finish(m.LengthTicks())
	return m
}

func (g *generator) phrase(ph int, m Melody) {
	first := ph * g.p.BarsPerPhrase
	last := util.Min(first+g.p.BarsPerPhrase, len(g.bars))
	role, _ := m.roleOfBar(first)
	if role == Question {
		g.motif = g.motif[:0]
	}

	slots := g.slots(first, last)
	motifAt := 0
	phraseStart := len(g.notes)
	for i, s := range slots {
		cadence := i == len(slots)-1
		if !cadence {
			if g.rng.Float64() < g.p.RestChance {
				continue
			}
			if !s.strong && g.rng.Float64() > g.p.Density {
				continue
			}
		}

		pc, fromMotif := g.pitchClass(s, role, cadence, &motifAt)
		if role == Question && !fromMotif && len(g.motif) < motifLength {
			g.motif = append(g.motif, pc)
		}
		p := g.voice(pc)

		n := Note{
			NoteEvent: model.NoteEvent{
				Pitch:    p,
				Start:    s.tick,
				Length:   s.Duration,
				Velocity: g.velocity(s.Accent),
			},
			Strong:  s.strong,
			Role:    role,
			Phrase:  ph,
			Cadence: cadence,
		}

		if len(g.notes) > phraseStart && n.Start > 0 && g.rng.Float64() < g.p.ApproachChance {
			g.notes = append(g.notes, g.approach(n))
		}
		if !cadence && n.Length >= 3 && g.rng.Float64() < g.p.FillChance {
			g.notes = append(g.notes, g.fill(n)...)
		} else {
			g.notes = append(g.notes, n)
		}
		g.prev = g.notes[len(g.notes)-1].Pitch
	}
}

func (g *generator) slots(first, last int) []phraseSlot {
	ticksPerBar := g.p.ticksPerBar()
	patterns := genrePatterns(g.p.Genre)
	var res []phraseSlot
	for b := first; b < last; b++ {
		bar := fitBar(pickRhythm(g.rng, patterns, g.p.Density), ticksPerBar)
		taken := make(map[int]bool, len(bar))
		for _, s := range bar {
			taken[s.Step] = true
		}
		for _, s := range bar {
			strong := isStrong(s.Step, g.p.BeatsPerBar)
			// anticipate weak beats by one tick
			if !strong && s.Step%constants.TicksPerBeat == 0 && !taken[s.Step-1] &&
				g.rng.Float64() < g.p.Syncopation {
				taken[s.Step] = false
				s.Step--
				s.Duration++
				taken[s.Step] = true
			}
			res = append(res, phraseSlot{
				Slot:   s,
				bar:    b,
				tick:   b*ticksPerBar + s.Step,
				strong: strong,
			})
		}
	}
	return res
}

// pitchClass picks the target pitch class of a slot. The second result is
// true when it was taken from the motif.
func (g *generator) pitchClass(s phraseSlot, role Role, cadence bool, motifAt *int) (int, bool) {
	sym := g.bars[s.bar].Symbol
	if cadence {
		bias := g.p.QuestionCadence
		if role == Answer {
			bias = g.p.AnswerCadence
		}
		if g.rng.Float64() < bias {
			if role == Answer {
				return g.key.Tonic, false
			}
			return sym.Root, false
		}
	}

	if role == Answer && len(g.motif) > 0 && g.rng.Float64() < g.p.MotifReuse {
		pc := g.motif[*motifAt%len(g.motif)]
		*motifAt++
		if g.rng.Float64() < motifNudge {
			dir := 1
			if g.rng.Intn(2) == 0 {
				dir = -1
			}
			pc = pitch.ClassOf(g.key.Scale.Step(g.key.Tonic, 60+pc, dir))
		}
		return pc, true
	}

	candidates := g.key.Scale.PitchClasses(g.key.Tonic)
	if s.strong {
		var tones []int
		for _, pc := range candidates {
			if sym.HasTone(pc) {
				tones = append(tones, pc)
			}
		}
		if len(tones) > 0 {
			candidates = tones
		}
	}

	weights := make([]float64, len(candidates))
	for i, pc := range candidates {
		w := 1.0
		if sym.HasTone(pc) {
			w += 2
		}
		if g.prev >= 0 {
			d := util.Abs(pc - pitch.ClassOf(g.prev))
			d = util.Min(d, 12-d)
			switch {
			case d == 0:
				w *= 0.6
			case d <= 2:
				w *= 1 + 3*g.p.StepBias
			case d >= 5:
				w *= 1 - 0.6*g.p.StepBias
			}
		}
		weights[i] = w
	}
	return candidates[weightedIndex(g.rng, weights)], false
}

// voice places a pitch class in the octave nearest the previous note,
// keeps it within MaxLeap and Range and snaps it onto the scale.
func (g *generator) voice(pc int) int {
	ref := g.prev
	if ref < 0 {
		ref = g.center
	}
	diff := util.Mod(pc-ref, 12)
	if diff > 6 {
		diff -= 12
	}
	p := g.key.Scale.Snap(g.key.Tonic, ref+diff)
	if util.Abs(p-ref) > g.p.MaxLeap || !g.fits(p) {
		p = g.towards(ref, p)
	}
	return g.inRange(p)
}

// towards walks the scale from ref in the direction of target while every
// step stays within MaxLeap of ref and inside Range.
func (g *generator) towards(ref, target int) int {
	dir := 1
	if target < ref {
		dir = -1
	}
	q := g.key.Scale.Snap(g.key.Tonic, ref)
	for {
		next := g.key.Scale.Step(g.key.Tonic, q, dir)
		if (next-target)*dir > 0 || util.Abs(next-ref) > g.p.MaxLeap || !g.fits(next) {
			return q
		}
		q = next
	}
}

func (g *generator) fits(p int) bool {
	return p >= g.center-g.p.Range && p <= g.center+g.p.Range && p >= 0 && p <= constants.MaxPitch
}

func (g *generator) inRange(p int) int {
	lo, hi := g.center-g.p.Range, g.center+g.p.Range
	for p > hi {
		p -= 12
	}
	for p < lo {
		p += 12
	}
	for p > constants.MaxPitch {
		p -= 12
	}
	for p < 0 {
		p += 12
	}
	return p
}

func (g *generator) velocity(accent float64) int {
	v := int(float64(g.p.BaseVelocity) * accent)
	if h := g.p.VelocityHumanize; h > 0 {
		v += g.rng.Intn(2*h+1) - h
	}
	return util.Clamp(v, 1, constants.MaxPitch)
}

// approach is a one-tick scale step leading into n from the side of the
// previous note.
func (g *generator) approach(n Note) Note {
	dir := -1
	if g.prev > n.Pitch {
		dir = 1
	}
	a := n
	a.Pitch = g.inRange(g.key.Scale.Step(g.key.Tonic, n.Pitch, dir))
	a.Start = n.Start - 1
	a.Length = 1
	a.Velocity = util.Clamp(int(float64(n.Velocity)*approachGain), 1, constants.MaxPitch)
	a.Strong = false
	a.Cadence = false
	a.Ornament = true
	return a
}

// fill splits n into three stepwise notes heading back toward the center.
func (g *generator) fill(n Note) []Note {
	dir := 1
	if n.Pitch > g.center {
		dir = -1
	}
	third := n.Length / 3
	lengths := []int{third, third, n.Length - 2*third}
	res := make([]Note, 0, 3)
	start := n.Start
	for i, l := range lengths {
		f := n
		f.Start = start
		f.Length = l
		f.Pitch = g.inRange(g.key.Scale.Step(g.key.Tonic, n.Pitch, i*dir))
		if i > 0 {
			f.Strong = false
			f.Ornament = true
		}
		res = append(res, f)
		start += l
	}
	return res
}

// finish sorts the notes, keeps the louder of two notes on one tick,
// makes the line monophonic and applies legato.
func (g *generator) finish(total int) []Note {
	notes := g.notes
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Velocity > notes[j].Velocity
	})

	res := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.Start < 0 || n.Start >= total {
			continue
		}
		if k := len(res); k > 0 && res[k-1].Start == n.Start {
			continue
		}
		res = append(res, n)
	}

	for i := range res {
		end := total
		if i+1 < len(res) {
			end = res[i+1].Start
		}
		if res[i].End() > end {
			res[i].Length = end - res[i].Start
		}
		if !res[i].Ornament && g.rng.Float64() < g.p.LegatoChance {
			res[i].Length = end - res[i].Start
		}
	}
	return res
}
