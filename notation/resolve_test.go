package notation

import (
	"testing"

	"github.com/jsphweid/notegen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileLine(t *testing.T, line string) Result {
	t.Helper()
	res, err := CompileLine(line, DefaultOptions())
	require.NoError(t, err)
	return res
}

func TestEnharmonicNotesMatch(t *testing.T) {
	sharp := compileLine(t, "#54 C#")
	flat := compileLine(t, "#54 Db")

	assert := assert.New(t)
	require.Len(t, sharp.Events, 1)
	require.Len(t, flat.Events, 1)
	assert.Equal(sharp.Events[0].Pitch, flat.Events[0].Pitch)
	assert.Equal(73, sharp.Events[0].Pitch)
}

func TestDurationOperators(t *testing.T) {
	cases := map[string]int{
		"C*2": 8,
		"C/2": 2,
		"C+1": 5,
		"C-1": 3,
		"C/1": 4,
		"C-9": 1,
		"C":   4,
	}
	for tok, want := range cases {
		t.Run(tok, func(t *testing.T) {
			res := ResolveNoteLine([]string{tok}, 5, 4)
			require.Len(t, res.Events, 1)
			assert.Equal(t, want, res.Events[0].Length)
			assert.Equal(t, want, res.EndTick)
		})
	}
}

func TestGroupedNotesShareAStart(t *testing.T) {
	res := ResolveNoteLine([]string{"CEG", "D"}, 5, 4)

	assert := assert.New(t)
	require.Len(t, res.Events, 4)
	for _, e := range res.Events[:3] {
		assert.Equal(0, e.Start)
	}
	assert.Equal(4, res.Events[3].Start)
	assert.Equal(8, res.EndTick)
}

func TestGroupedNotesAdvanceByLongest(t *testing.T) {
	res := ResolveNoteLine([]string{"C*2E/2G", "D"}, 5, 4)

	assert := assert.New(t)
	require.Len(t, res.Events, 4)
	assert.Equal(8, res.Events[0].Length)
	assert.Equal(2, res.Events[1].Length)
	assert.Equal(4, res.Events[2].Length)
	assert.Equal(8, res.Events[3].Start)
}

func TestModifierBindsToPrecedingNote(t *testing.T) {
	res := ResolveNoteLine([]string{"C4E*3"}, 5, 4)

	assert := assert.New(t)
	require.Len(t, res.Events, 2)
	assert.Equal(60, res.Events[0].Pitch)
	assert.Equal(4, res.Events[0].Length)
	assert.Equal(76, res.Events[1].Pitch)
	assert.Equal(12, res.Events[1].Length)
}

func TestRestAdvancesWithoutEvents(t *testing.T) {
	res := ResolveNoteLine([]string{"Z*4"}, 5, 4)

	assert := assert.New(t)
	assert.Empty(res.Events)
	assert.Equal(16, res.EndTick)

	res = compileLine(t, "#54 Z*4 C")
	require.Len(t, res.Events, 1)
	assert.Equal(16, res.Events[0].Start)
}

func TestBadCharactersAreReported(t *testing.T) {
	res := ResolveNoteLine([]string{"Cx", "*2", "D"}, 5, 4)

	assert := assert.New(t)
	assert.Len(res.Events, 2)
	assert.Len(res.Failures, 2)
	assert.Equal(4, res.Events[1].Start)
}

func TestEmptyLines(t *testing.T) {
	assert := assert.New(t)
	assert.Empty(ResolveNoteLine(nil, 5, 4).Events)
	assert.Empty(ResolveChordLine(Tokenize("   "), 5, 4).Events)
	assert.Empty(compileLine(t, "#54   ").Events)
	assert.Empty(compileLine(t, "&").Events)
}

func TestChordLine(t *testing.T) {
	res := ResolveChordLine([]string{"Cmaj7", "G7*2", "Z", "Am"}, 4, 4)

	assert := assert.New(t)
	assert.Empty(res.Failures)
	assert.Len(res.Events, 11)
	for _, e := range res.Events[:4] {
		assert.Equal(0, e.Start)
		assert.Equal(4, e.Length)
	}
	assert.Equal(4, res.Events[4].Start)
	assert.Equal(8, res.Events[4].Length)
	assert.Equal(16, res.Events[8].Start)
	assert.Equal(20, res.EndTick)
}

func TestUnknownChordIsSkipped(t *testing.T) {
	res := ResolveChordLine([]string{"Xmaj"}, 4, 4)

	assert := assert.New(t)
	assert.Empty(res.Events)
	assert.Equal([]model.Failure{{Token: "Xmaj", Reason: "unknown root"}}, res.Failures)
	assert.Equal(0, res.EndTick)
}

func TestApplyLength(t *testing.T) {
	assert := assert.New(t)
	length := func(base int, op byte, operand int) int {
		res, ok := ApplyLength(base, op, operand)
		require.True(t, ok)
		return res
	}
	assert.Equal(4, length(4, 0, 0))
	assert.Equal(4, length(4, '/', 0))
	assert.Equal(1, length(4, '/', 8))
	assert.Equal(16, length(4, '*', 4))

	_, ok := ApplyLength(4, '*', 3000000000000000000)
	assert.False(ok)
	_, ok = ApplyLength(4, '+', 9223372036854775807)
	assert.False(ok)
}

func TestHugeLengthsAreReported(t *testing.T) {
	assert := assert.New(t)
	notes := compileLine(t, "#54 C*3000000000000000000 D")
	require.Len(t, notes.Events, 1)
	assert.Equal(0, notes.Events[0].Start)
	assert.Equal(62+12, notes.Events[0].Pitch)
	assert.Equal([]model.Failure{{Token: "C*3000000000000000000", Reason: "length too large"}}, notes.Failures)
	assert.Equal(4, notes.EndTick)

	chords := compileLine(t, "&44 C*3000000000000000000 G")
	assert.Len(chords.Failures, 1)
	assert.Equal(4, chords.EndTick)
	for _, e := range chords.Events {
		assert.Equal(0, e.Start)
	}
}
