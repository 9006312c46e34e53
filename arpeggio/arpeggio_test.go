package arpeggio

import (
	"sort"
	"testing"

	"github.com/jsphweid/notegen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestThreeNotePatterns(t *testing.T) {
	p := Generate(3)

	assert := assert.New(t)
	assert.Len(p.Straight, 6)
	assert.Len(p.Looped, 6)

	seen := make(map[[3]int]bool)
	for i, s := range p.Straight {
		sorted := append([]int(nil), s...)
		sort.Ints(sorted)
		assert.Equal([]int{0, 1, 2}, sorted)
		seen[[3]int{s[0], s[1], s[2]}] = true
		assert.Len(p.Looped[i], 4)
	}
	assert.Len(seen, 6)
}

func TestLoopedAppendsReversedInterior(t *testing.T) {
	p := Generate(4)

	assert := assert.New(t)
	assert.Len(p.Straight, 24)
	assert.Equal([]int{0, 1, 2, 3}, p.Straight[0])
	assert.Equal([]int{0, 1, 2, 3, 2, 1}, p.Looped[0])
	for _, l := range p.Looped {
		assert.Len(l, 2*4-2)
	}
}

func TestGenerateIsDeterministicAndCopied(t *testing.T) {
	a := Generate(4)
	a.Straight[0][0] = 99
	b := Generate(4)

	assert := assert.New(t)
	assert.Equal(0, b.Straight[0][0])
	assert.Equal(Generate(5).Straight, Generate(5).Straight)
}

func TestSmallSizes(t *testing.T) {
	assert := assert.New(t)
	assert.Empty(Generate(0).Straight)
	assert.Equal([][]int{{0}}, Generate(1).Looped)
	assert.Equal([][]int{{0, 1}, {1, 0}}, Generate(2).Looped)
	assert.Len(Generate(20).Straight, 40320)
}

func TestRender(t *testing.T) {
	events := Render([]int{60, 64, 67}, []int{0, 1, 2, 1}, 0, 2, 7, 90)

	assert := assert.New(t)
	assert.Equal([]model.NoteEvent{
		{Pitch: 60, Start: 0, Length: 2, Velocity: 90},
		{Pitch: 64, Start: 2, Length: 2, Velocity: 90},
		{Pitch: 67, Start: 4, Length: 2, Velocity: 90},
		{Pitch: 64, Start: 6, Length: 1, Velocity: 90},
	}, events)
}

func TestFromProgression(t *testing.T) {
	opts := DefaultOptions()
	opts.Step = 4
	opts.Pattern = 0
	events, failures := FromProgression([]model.ProgressionEntry{
		{Chord: "C", Bars: 1},
		{Chord: "Xm", Bars: 1},
		{Chord: "G7", Bars: 1},
	}, opts)

	assert := assert.New(t)
	assert.Len(failures, 1)
	assert.Equal("Xm", failures[0].Token)
	assert.Len(events, 8)
	assert.Equal(60, events[0].Pitch)
	assert.Equal(32, events[4].Start)
	assert.Equal(67, events[4].Pitch)
}

func TestFromProgressionSeeded(t *testing.T) {
	prog := []model.ProgressionEntry{{Chord: "Cmaj7", Bars: 2}, {Chord: "Am7", Bars: 2}}
	run := func() []model.NoteEvent {
		opts := DefaultOptions()
		opts.Looped = true
		opts.Rand = rand.New(rand.NewSource(7))
		events, _ := FromProgression(prog, opts)
		return events
	}
	assert.Equal(t, run(), run())
}

func TestFromProgressionDropsPitchesAboveRange(t *testing.T) {
	opts := DefaultOptions()
	opts.Octave = 9
	opts.Pattern = 0
	events, failures := FromProgression([]model.ProgressionEntry{{Chord: "C13", Bars: 1}}, opts)

	assert := assert.New(t)
	require.Len(t, failures, 1)
	assert.Equal("C13", failures[0].Token)
	assert.Equal("pitch out of range", failures[0].Reason)
	assert.NotEmpty(events)
	for _, e := range events {
		assert.LessOrEqual(e.Pitch, 127)
	}

	assert.Empty(Render([]int{130, 140}, []int{0, 1}, 0, 2, 8, 90))
}
