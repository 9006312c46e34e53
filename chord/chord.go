// Package chord resolves chord symbols like "Cmaj7", "F#m7b5" or "Bb47*2"
// into root, formula and absolute pitches.
package chord

import (
	"strconv"
	"strings"

	"github.com/jsphweid/notegen/pitch"
)

type Quality int

const (
	Major Quality = iota
	Minor
	Diminished
	Augmented
)

func (q Quality) String() string {
	switch q {
	case Minor:
		return "minor"
	case Diminished:
		return "diminished"
	case Augmented:
		return "augmented"
	}
	return "major"
}

type Seventh int

const (
	NoSeventh Seventh = iota
	Dominant7
	Major7
	Diminished7
)

// Formula is a chord quality spelled as semitone offsets from the root.
type Formula struct {
	Suffix    string
	Intervals []int
	Quality   Quality
	Seventh   Seventh
}

// Checked in order, the first suffix the quality text starts with wins, so
// longer keys come first.
var formulas = []Formula{
	{"sus2", []int{0, 2, 7}, Major, NoSeventh},
	{"sus4", []int{0, 5, 7}, Major, NoSeventh},
	{"maj7", []int{0, 4, 7, 11}, Major, Major7},
	{"min7", []int{0, 3, 7, 10}, Minor, Dominant7},
	{"dim7", []int{0, 3, 6, 9}, Diminished, Diminished7},
	{"m7b5", []int{0, 3, 6, 10}, Diminished, Dominant7},
	{"maj9", []int{0, 4, 7, 11, 14}, Major, Major7},
	{"min9", []int{0, 3, 7, 10, 14}, Minor, Dominant7},
	{"maj", []int{0, 4, 7}, Major, NoSeventh},
	{"min", []int{0, 3, 7}, Minor, NoSeventh},
	{"dim", []int{0, 3, 6}, Diminished, NoSeventh},
	{"aug", []int{0, 4, 8}, Augmented, NoSeventh},
	{"m7", []int{0, 3, 7, 10}, Minor, Dominant7},
	{"11", []int{0, 4, 7, 10, 14, 17}, Major, Dominant7},
	{"13", []int{0, 4, 7, 10, 14, 21}, Major, Dominant7},
	{"7", []int{0, 4, 7, 10}, Major, Dominant7},
	{"9", []int{0, 4, 7, 10, 14}, Major, Dominant7},
	{"m", []int{0, 3, 7}, Minor, NoSeventh},
}

const defaultSuffix = "maj"

// Formulas returns a copy of the formula table in match order.
func Formulas() []Formula {
	res := make([]Formula, len(formulas))
	for i, f := range formulas {
		f.Intervals = append([]int(nil), f.Intervals...)
		res[i] = f
	}
	return res
}

// LookupFormula finds the formula whose suffix the quality text starts
// with. An empty quality is a major triad.
func LookupFormula(quality string) (Formula, bool) {
	if quality == "" {
		quality = defaultSuffix
	}
	for _, f := range formulas {
		if strings.HasPrefix(quality, f.Suffix) {
			return f, true
		}
	}
	return Formula{}, false
}

// Symbol is the theory part of a resolved token.
type Symbol struct {
	Root    int
	Quality Quality
	Seventh Seventh
	// Intervals from the root, not reduced to one octave.
	Intervals []int
}

// Tones returns the pitch classes of the chord, root first.
func (s Symbol) Tones() []int {
	res := make([]int, 0, len(s.Intervals))
	for _, iv := range s.Intervals {
		pc := (s.Root + iv) % 12
		if !containsInt(res, pc) {
			res = append(res, pc)
		}
	}
	return res
}

func (s Symbol) HasTone(pc int) bool {
	return containsInt(s.Tones(), ((pc%12)+12)%12)
}

// Token is the result of parsing one chord token. OK is false when the
// root or the quality is unknown; Reason then says why.
type Token struct {
	OK            bool
	Text          string
	Rest          bool
	Root          int
	Octave        int
	Quality       string
	Formula       Formula
	LengthOp      byte
	LengthOperand int
	Pitches       []int
	Reason        string
}

func (t Token) Symbol() Symbol {
	return Symbol{
		Root:      t.Root,
		Quality:   t.Formula.Quality,
		Seventh:   t.Formula.Seventh,
		Intervals: append([]int(nil), t.Formula.Intervals...),
	}
}

func failed(text, reason string) Token {
	return Token{Text: text, Reason: reason}
}

// ParseToken resolves a chord token. The grammar is
// root [#b]? octave? quality ([*/+-] digits)?, with Z as the rest root.
func ParseToken(token string, defaultOctave int) Token {
	n, i, ok := pitch.Scan(token, 0, defaultOctave)
	if !ok {
		return failed(token, "unknown root")
	}
	// Scan may have read a digit that belongs to a numeric quality like 7
	// or 13, so re-read it below together with the quality.
	if n.HasOctave {
		i--
		n.Octave = defaultOctave
	}

	body, op, operand, ok := splitLength(token[i:])
	if !ok {
		return failed(token, "malformed length")
	}

	res := Token{
		Text:          token,
		Octave:        n.Octave,
		LengthOp:      op,
		LengthOperand: operand,
	}
	if n.Rest {
		res.OK = true
		res.Rest = true
		return res
	}

	quality, octave, formula, ok := splitQuality(body, defaultOctave)
	if !ok {
		return failed(token, "unknown quality")
	}
	res.OK = true
	res.Root = n.Class
	res.Octave = octave
	res.Quality = quality
	res.Formula = formula

	base := pitch.Absolute(n.Class, octave)
	res.Pitches = make([]int, 0, len(formula.Intervals))
	for _, iv := range formula.Intervals {
		res.Pitches = append(res.Pitches, base+iv)
	}
	return res
}

// A leading digit is an octave unless it starts a numeric formula that
// the rest of the quality cannot stand in for: G7 is a dominant seventh at
// the default octave, G47 is one in octave 4 and G4 is a G major triad in
// octave 4.
func splitQuality(body string, defaultOctave int) (string, int, Formula, bool) {
	if body == "" || body[0] < '0' || body[0] > '9' {
		f, ok := LookupFormula(body)
		return body, defaultOctave, f, ok
	}
	octave := int(body[0] - '0')
	after := body[1:]
	if after != "" {
		if f, ok := LookupFormula(after); ok {
			return after, octave, f, true
		}
	}
	if f, ok := LookupFormula(body); ok {
		return body, defaultOctave, f, true
	}
	f, ok := LookupFormula(after)
	return after, octave, f, ok
}

func splitLength(s string) (string, byte, int, bool) {
	at := strings.IndexAny(s, "*/+-")
	if at < 0 {
		return s, 0, 0, true
	}
	digits := s[at+1:]
	operand, err := strconv.Atoi(digits)
	if err != nil || operand < 0 || digits[0] == '+' || digits[0] == '-' {
		return "", 0, 0, false
	}
	return s[:at], s[at], operand, true
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
