package notation

import (
	"strconv"

	"github.com/jsphweid/notegen/chord"
	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/pitch"
)

// Result is what one resolved line produced. EndTick is the cursor after
// the last token.
type Result struct {
	Events   []model.NoteEvent
	Failures []model.Failure
	EndTick  int
}

// Resolver places tokens on a running cursor. The zero value is not
// usable, use NewResolver.
type Resolver struct {
	Octave   int
	Length   int
	Velocity int
	Tick     int
}

func NewResolver(octave, length int) *Resolver {
	if length <= 0 {
		length = constants.DefaultLength
	}
	return &Resolver{
		Octave:   octave,
		Length:   length,
		Velocity: constants.DefaultVelocity,
	}
}

// ResolveNoteLine resolves expanded note tokens from tick 0.
func ResolveNoteLine(tokens []string, defaultOctave, defaultLength int) Result {
	return NewResolver(defaultOctave, defaultLength).NoteLine(tokens)
}

// ResolveChordLine resolves expanded chord tokens from tick 0.
func ResolveChordLine(tokens []string, defaultOctave, defaultLength int) Result {
	return NewResolver(defaultOctave, defaultLength).ChordLine(tokens)
}

// ApplyLength scales base by one duration operator. Division by 1 or less
// is ignored. The result is never shorter than one tick; false means it
// would be longer than constants.MaxNoteLength.
func ApplyLength(base int, op byte, operand int) (int, bool) {
	res := base
	switch op {
	case '*':
		if operand > 0 && base > constants.MaxNoteLength/operand {
			return 0, false
		}
		res = base * operand
	case '/':
		if operand > 1 {
			res = base / operand
		}
	case '+':
		if operand > constants.MaxNoteLength-base {
			return 0, false
		}
		res = base + operand
	case '-':
		res = base - operand
	}
	if res > constants.MaxNoteLength {
		return 0, false
	}
	if res < 1 {
		res = 1
	}
	return res, true
}

type pendingNote struct {
	note   pitch.Note
	length int
}

// NoteLine resolves note tokens. Several notes written together in one
// token start on the same tick and the cursor moves by the longest of them.
func (r *Resolver) NoteLine(tokens []string) Result {
	var res Result
	for _, tok := range tokens {
		group, failures := r.scanNoteToken(tok)
		res.Failures = append(res.Failures, failures...)
		if len(group) == 0 {
			continue
		}
		advance := 0
		for _, n := range group {
			if n.length > advance {
				advance = n.length
			}
			if n.note.Rest {
				continue
			}
			p := n.note.Absolute()
			if p < 0 || p > constants.MaxPitch {
				res.Failures = append(res.Failures, model.Failure{Token: tok, Reason: "pitch out of range"})
				continue
			}
			res.Events = append(res.Events, model.NoteEvent{
				Pitch:    p,
				Start:    r.Tick,
				Length:   n.length,
				Velocity: r.Velocity,
			})
		}
		r.Tick += advance
	}
	res.EndTick = r.Tick
	return res
}

func (r *Resolver) scanNoteToken(tok string) ([]pendingNote, []model.Failure) {
	var group []pendingNote
	var failures []model.Failure
	i := 0
	for i < len(tok) {
		c := tok[i]
		switch {
		case c == pitch.Rest || pitch.IsLetter(c):
			n, next, _ := pitch.Scan(tok, i, r.Octave)
			group = append(group, pendingNote{note: n, length: r.Length})
			i = next
		case isLengthOp(c):
			j := i + 1
			for j < len(tok) && tok[j] >= '0' && tok[j] <= '9' {
				j++
			}
			operand, err := strconv.Atoi(tok[i+1 : j])
			switch {
			case err != nil:
				failures = append(failures, model.Failure{Token: tok, Reason: "malformed length"})
			case len(group) == 0:
				failures = append(failures, model.Failure{Token: tok, Reason: "length without a note"})
			default:
				last := &group[len(group)-1]
				length, ok := ApplyLength(last.length, c, operand)
				if !ok {
					failures = append(failures, model.Failure{Token: tok, Reason: "length too large"})
					group = group[:len(group)-1]
					break
				}
				last.length = length
			}
			i = j
		default:
			failures = append(failures, model.Failure{Token: tok, Reason: "unexpected character " + strconv.QuoteRune(rune(c))})
			i++
		}
	}
	return group, failures
}

// ChordLine resolves one chord per token. Tokens that do not parse are
// skipped without moving the cursor.
func (r *Resolver) ChordLine(tokens []string) Result {
	var res Result
	for _, tok := range tokens {
		ct := chord.ParseToken(tok, r.Octave)
		if !ct.OK {
			res.Failures = append(res.Failures, model.Failure{Token: tok, Reason: ct.Reason})
			continue
		}
		length, ok := ApplyLength(r.Length, ct.LengthOp, ct.LengthOperand)
		if !ok {
			res.Failures = append(res.Failures, model.Failure{Token: tok, Reason: "length too large"})
			continue
		}
		for _, p := range ct.Pitches {
			if p < 0 || p > constants.MaxPitch {
				continue
			}
			res.Events = append(res.Events, model.NoteEvent{
				Pitch:    p,
				Start:    r.Tick,
				Length:   length,
				Velocity: r.Velocity,
			})
		}
		r.Tick += length
	}
	res.EndTick = r.Tick
	return res
}

func isLengthOp(c byte) bool {
	return c == '*' || c == '/' || c == '+' || c == '-'
}
