package notation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeRespectsParens(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]string{"C", "2(D E)", "F"}, Tokenize("C  2(D E)\tF"))
	assert.Equal([]string{"2(C 3(D E))"}, Tokenize("2(C 3(D E))"))
	assert.Empty(Tokenize("   "))
	assert.Empty(Tokenize(""))
}

func TestTokenizeIgnoresUnmatchedClose(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]string{"C)", "D"}, Tokenize("C) D"))
}

func TestExpand(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"2(C D)", []string{"C", "D", "C", "D"}},
		{"2(C 3(D))", []string{"C", "D", "D", "D", "C", "D", "D", "D"}},
		{"C 0(D) E", []string{"C", "E"}},
		{"1(C)", []string{"C"}},
		{"2(C", []string{"2(C"}},
		{"Cmaj7 2(Dm7 G7)", []string{"Cmaj7", "Dm7", "G7", "Dm7", "G7"}},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, failures, err := Expand(Tokenize(c.in))
			require.NoError(t, err)
			assert.Empty(t, failures)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestExpandedCopiesAreIndependent(t *testing.T) {
	got, _, err := Expand(Tokenize("3(C D)"))
	require.NoError(t, err)
	got[0] = "X"

	assert := assert.New(t)
	assert.Equal("C", got[2])
	assert.Equal("C", got[4])
}

func TestExpandTooLarge(t *testing.T) {
	e := Expander{MaxTokens: 100}
	_, _, err := e.Expand(Tokenize("9999999(C D)"))

	assert := assert.New(t)
	assert.True(errors.Is(err, ErrNotationTooLarge))
	var tooLarge *TooLargeError
	assert.True(errors.As(err, &tooLarge))
	assert.Equal(100, tooLarge.Limit)

	_, _, err = e.Expand(Tokenize("9999999(9999999(C))"))
	assert.True(errors.Is(err, ErrNotationTooLarge))

	got, _, err := e.Expand(Tokenize("50(C D)"))
	assert.NoError(err)
	assert.Len(got, 100)
}

func TestExpandMalformedCount(t *testing.T) {
	got, failures, err := Expand(Tokenize("C 99999999999999999999999(D) E"))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{"C", "E"}, got)
	assert.Len(failures, 1)
	assert.Equal("malformed repeat count", failures[0].Reason)
}
