package melody

import (
	"testing"

	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/pitch"
	"github.com/jsphweid/notegen/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func progression(t *testing.T, s string) []model.ProgressionEntry {
	t.Helper()
	prog, failures := ParseProgression(s)
	require.Empty(t, failures)
	return prog
}

func TestParseProgression(t *testing.T) {
	prog, failures := ParseProgression("C:2 Am F G7:x Dm:0 G7:2")

	assert := assert.New(t)
	assert.Equal([]model.ProgressionEntry{
		{Chord: "C", Bars: 2},
		{Chord: "Am", Bars: 1},
		{Chord: "F", Bars: 1},
		{Chord: "G7", Bars: 2},
	}, prog)
	assert.Len(failures, 2)
}

func TestExpandProgressionCarriesPreviousChord(t *testing.T) {
	bars, failures := ExpandProgression([]model.ProgressionEntry{
		{Chord: "Xq", Bars: 1},
		{Chord: "C", Bars: 2},
		{Chord: "Hmaj", Bars: 1},
		{Chord: "G7", Bars: 1},
	})

	assert := assert.New(t)
	require.Len(t, bars, 5)
	assert.Len(failures, 2)
	names := make([]string, len(bars))
	for i, b := range bars {
		names[i] = b.Name
	}
	assert.Equal([]string{"C", "C", "C", "C", "G7"}, names)
}

func TestInferKey(t *testing.T) {
	cases := []struct {
		chord     string
		preferred string
		tonic     int
		scale     string
		inferred  bool
	}{
		{"Am", "", 9, "aeolian", true},
		{"G7", "", 7, "mixolydian", true},
		{"Cmaj7", "", 0, "ionian", true},
		{"D", "dorian", 2, "dorian", false},
		{"D", scale.None, 2, "ionian", true},
		{"D", "nonsense", 2, "ionian", true},
	}
	for _, c := range cases {
		t.Run(c.chord+"/"+c.preferred, func(t *testing.T) {
			bars, _ := ExpandProgression([]model.ProgressionEntry{{Chord: c.chord, Bars: 1}})
			k := InferKey(bars, c.preferred)
			assert.Equal(t, c.tonic, k.Tonic)
			assert.Equal(t, c.scale, k.Scale.Name)
			assert.Equal(t, c.inferred, k.Inferred)
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	prog := progression(t, "C:2 Am F G7:2 C:2")
	p := DefaultParams().WithSeed(42)

	a := Generate(prog, p)
	b := Generate(prog, p)

	require.NotEmpty(t, a.Notes)
	assert.Equal(t, a.Events(), b.Events())
}

func TestDifferentSeedsDiffer(t *testing.T) {
	prog := progression(t, "C:2 Am F G7:2 C:2")
	first := Generate(prog, DefaultParams().WithSeed(1)).Events()

	differs := false
	for seed := int64(2); seed < 12 && !differs; seed++ {
		other := Generate(prog, DefaultParams().WithSeed(seed)).Events()
		differs = !assert.ObjectsAreEqual(first, other)
	}
	assert.True(t, differs)
}

func TestStrongBeatsStayInScale(t *testing.T) {
	prog := progression(t, "Dm7:2 G7:2 Cmaj7:2 Am:2")
	for _, name := range []string{"dorian", "lydian", "harmonic_minor"} {
		def := scale.MustLookup(name)
		for seed := int64(0); seed < 20; seed++ {
			p := DefaultParams().WithSeed(seed)
			p.Scale = name
			m := Generate(prog, p)
			for _, n := range m.Notes {
				if n.Strong {
					assert.True(t, def.Contains(m.Key.Tonic, n.Pitch),
						"%s seed %d: %s at %d", name, seed, pitch.Name(pitch.ClassOf(n.Pitch)), n.Start)
				}
			}
		}
	}
}

func TestGeneratedLineIsMonophonicAndBounded(t *testing.T) {
	prog := progression(t, "C:2 F:2 G7:2 C:2")
	for _, genre := range Genres() {
		p := DefaultParams().WithSeed(7)
		p.Genre = genre
		p.FillChance = 0.5
		p.ApproachChance = 0.5
		m := Generate(prog, p)

		total := m.LengthTicks()
		assert.Equal(t, 8*16, total)
		for i, n := range m.Notes {
			assert.GreaterOrEqual(t, n.Length, 1)
			assert.GreaterOrEqual(t, n.Start, 0)
			assert.LessOrEqual(t, n.End(), total)
			assert.True(t, n.Velocity >= 1 && n.Velocity <= 127)
			if i > 0 {
				assert.Less(t, m.Notes[i-1].Start, n.Start, genre)
				assert.LessOrEqual(t, m.Notes[i-1].End(), n.Start, genre)
			}
		}
	}
}

func TestVoiceKeepsLeapsSmall(t *testing.T) {
	g := &generator{
		p:      Params{MaxLeap: 3, Range: 24},
		key:    Key{Tonic: 0, Scale: scale.MustLookup("ionian")},
		prev:   60,
		center: 60,
	}
	assert := assert.New(t)
	// G is nearest below at 55, a fifth away
	assert.Equal(57, g.voice(7))
	assert.Equal(62, g.voice(2))
	assert.Equal(60, g.voice(0))

	g.prev = 84
	assert.Equal(84, g.voice(5), "steps above the range are refused")
}

func TestGeneratedLeapsStayWithinMaxLeap(t *testing.T) {
	prog := progression(t, "C:2 Am:2 F:2 G7:2")
	for _, maxLeap := range []int{2, 3, 5} {
		for seed := int64(0); seed < 10; seed++ {
			p := DefaultParams().WithSeed(seed)
			p.MaxLeap = maxLeap
			p.FillChance = 0
			p.ApproachChance = 0
			m := Generate(prog, p)
			for i := 1; i < len(m.Notes); i++ {
				leap := m.Notes[i].Pitch - m.Notes[i-1].Pitch
				if leap < 0 {
					leap = -leap
				}
				assert.LessOrEqual(t, leap, maxLeap, "seed %d note %d", seed, i)
			}
		}
	}
}

func TestPhrasesAlternateRoles(t *testing.T) {
	prog := progression(t, "C:4 G:4")
	p := DefaultParams().WithSeed(3)
	p.RestChance = 0
	m := Generate(prog, p)

	cadences := 0
	for _, n := range m.Notes {
		bar := n.Start / m.TicksPerBar
		want := Question
		if (bar/p.BarsPerPhrase)%2 == 1 {
			want = Answer
		}
		assert.Equal(t, want, n.Role)
		if n.Cadence {
			cadences++
		}
	}
	assert.LessOrEqual(t, cadences, 4)
	assert.Greater(t, cadences, 0)
}

func TestGenerateEmptyProgression(t *testing.T) {
	m := Generate(nil, DefaultParams().WithSeed(1))
	assert.Empty(t, m.Notes)
	assert.True(t, Score(m, DefaultWeights()).Degenerate)
}

func TestScoreRubric(t *testing.T) {
	bars, _ := ExpandProgression([]model.ProgressionEntry{{Chord: "C", Bars: 1}})
	note := func(p, start int, strong bool) Note {
		return Note{NoteEvent: model.NoteEvent{Pitch: p, Start: start, Length: 4, Velocity: 100}, Strong: strong}
	}
	m := Melody{
		Key:         InferKey(bars, ""),
		Bars:        bars,
		TicksPerBar: 16,
		MaxLeap:     9,
		Notes: []Note{
			note(60, 0, true),
			note(62, 4, false),
			note(64, 8, true),
			note(66, 12, false),
		},
	}
	b := Score(m, DefaultWeights())

	assert := assert.New(t)
	assert.False(b.Degenerate)
	assert.Equal(4.0, b.ChordTones)
	assert.Equal(-3.0, b.ScaleViolations)
	assert.Equal(0.0, b.Leaps)
	assert.Equal(0.0, b.Reversals)
	assert.Equal(1.0, b.Motifs)
	assert.Equal(1.0, b.Rhythm)
	assert.Equal(3.0, b.Total)
}

func TestScoreLeapsAndReversals(t *testing.T) {
	bars, _ := ExpandProgression([]model.ProgressionEntry{{Chord: "C", Bars: 1}})
	m := Melody{Key: InferKey(bars, ""), Bars: bars, TicksPerBar: 16, MaxLeap: 9}
	for i, p := range []int{60, 72, 60, 72} {
		m.Notes = append(m.Notes, Note{NoteEvent: model.NoteEvent{Pitch: p, Start: i * 3, Length: 1}})
	}
	b := Score(m, DefaultWeights())

	assert := assert.New(t)
	assert.Equal(-6.0, b.Leaps)
	assert.Equal(-1.0, b.Reversals)
}

func TestDegenerateScore(t *testing.T) {
	m := Melody{Notes: make([]Note, MinNotes-1)}
	b := Score(m, DefaultWeights())
	assert.True(t, b.Degenerate)
	assert.Equal(t, -1000.0, b.Total)
}

func TestAnnotate(t *testing.T) {
	events := []model.NoteEvent{
		{Pitch: 60, Start: 0, Length: 4},
		{Pitch: 64, Start: 0, Length: 4},
		{Pitch: 67, Start: 16, Length: 4},
		{Pitch: 62, Start: 36, Length: 4},
		{Pitch: 60, Start: 60, Length: 4},
	}
	m := Annotate(events, []model.ProgressionEntry{{Chord: "C", Bars: 2}, {Chord: "G", Bars: 2}}, DefaultParams())

	assert := assert.New(t)
	require.Len(t, m.Notes, 4)
	assert.Equal(64, m.Notes[0].Pitch)
	assert.Equal([]bool{true, true, false, false}, []bool{m.Notes[0].Strong, m.Notes[1].Strong, m.Notes[2].Strong, m.Notes[3].Strong})
	assert.Equal([]bool{false, true, false, true}, []bool{m.Notes[0].Cadence, m.Notes[1].Cadence, m.Notes[2].Cadence, m.Notes[3].Cadence})
	assert.Equal(Question, m.Notes[1].Role)
	assert.Equal(Answer, m.Notes[3].Role)

	// question ends off the chord root, answer ends on the tonic
	b := Score(m, DefaultWeights())
	assert.Equal(4.0, b.Cadences)
}

func TestSearchIsDeterministicWithSeed(t *testing.T) {
	prog := progression(t, "C:2 Am F G7:2 C:2")
	p := DefaultParams().WithSeed(99)
	opts := DefaultSearchOptions()
	opts.Candidates = 6
	opts.Workers = 3

	a := Search(prog, p, opts)
	b := Search(prog, p, opts)

	assert := assert.New(t)
	require.Len(t, a.Ranked, 6)
	assert.Equal(int64(99), a.Seed)
	assert.Equal(a.Best.Index, b.Best.Index)
	assert.Equal(a.Best.Melody.Events(), b.Best.Melody.Events())
	for i := 1; i < len(a.Ranked); i++ {
		assert.GreaterOrEqual(a.Ranked[i-1].Score.Total, a.Ranked[i].Score.Total)
	}
	assert.GreaterOrEqual(a.Best.Score.Total, a.Ranked[opts.TopK-1].Score.Total)

	// candidate i is reproducible on its own
	c := a.Ranked[0]
	single := Generate(prog, p.WithSeed(CandidateSeed(99, c.Index)))
	assert.Equal(c.Melody.Events(), single.Events())
}

func TestSearchWithoutSeedReportsOne(t *testing.T) {
	prog := progression(t, "C F G C")
	opts := DefaultSearchOptions()
	opts.Candidates = 3
	res := Search(prog, DefaultParams(), opts)

	replay := Search(prog, DefaultParams().WithSeed(res.Seed), opts)
	assert.Equal(t, res.Best.Melody.Events(), replay.Best.Melody.Events())
}

func TestSearchDegenerateLoses(t *testing.T) {
	res := Search(nil, DefaultParams().WithSeed(1), SearchOptions{Candidates: 2, TopK: 1})
	assert.True(t, res.Best.Score.Degenerate)
	assert.Equal(t, DefaultWeights().Degenerate, res.Best.Score.Total)
}
