package notation

import (
	"errors"
	"sort"
	"strings"

	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/model"
)

type LineKind int

const (
	NoteLine LineKind = iota + 1
	ChordLine
)

const (
	noteLinePrefix  = '#'
	chordLinePrefix = '&'
	commentPrefix   = ';'
)

type Options struct {
	Octave    int
	Length    int
	Velocity  int
	MaxTokens int
}

func DefaultOptions() Options {
	return Options{
		Octave:    constants.DefaultOctave,
		Length:    constants.DefaultLength,
		Velocity:  constants.DefaultVelocity,
		MaxTokens: constants.DefaultMaxExpandedTokens,
	}
}

// Header is the parsed prefix of a line: the kind marker followed by an
// optional octave digit and an optional base length digit.
type Header struct {
	Kind   LineKind
	Octave int
	Length int
}

// ParseHeader splits a line into its header and body. ok is false for
// lines that are neither note nor chord lines.
func ParseHeader(line string, opts Options) (Header, string, bool) {
	h := Header{Octave: opts.Octave, Length: opts.Length}
	if line == "" {
		return h, "", false
	}
	switch line[0] {
	case noteLinePrefix:
		h.Kind = NoteLine
	case chordLinePrefix:
		h.Kind = ChordLine
	default:
		return h, line, false
	}
	i := 1
	if i < len(line) && isDigit(line[i]) {
		h.Octave = int(line[i] - '0')
		i++
		if i < len(line) && isDigit(line[i]) {
			if l := int(line[i] - '0'); l > 0 {
				h.Length = l
			}
			i++
		}
	}
	return h, line[i:], true
}

// CompileLine compiles one note or chord line starting at tick 0. The only
// error is a line whose repeats expand past opts.MaxTokens.
func CompileLine(line string, opts Options) (Result, error) {
	h, body, ok := ParseHeader(strings.TrimSpace(line), opts)
	if !ok {
		return Result{Failures: []model.Failure{{Token: line, Reason: "not a note or chord line"}}}, nil
	}
	tokens, failures, err := Expander{MaxTokens: opts.MaxTokens}.Expand(Tokenize(body))
	if err != nil {
		return Result{Failures: failures}, err
	}

	r := NewResolver(h.Octave, h.Length)
	if opts.Velocity > 0 {
		r.Velocity = opts.Velocity
	}
	var res Result
	if h.Kind == ChordLine {
		res = r.ChordLine(tokens)
	} else {
		res = r.NoteLine(tokens)
	}
	res.Failures = append(failures, res.Failures...)
	return res, nil
}

// Document is a compiled multi-line text. Every line is a layer that
// starts at tick 0.
type Document struct {
	Events   []model.NoteEvent
	Failures []model.Failure
	// Errors holds the lines that were too large to expand.
	Errors  []error
	EndTick int
}

// Compile compiles every note and chord line of text. Blank lines and
// lines starting with ';' are skipped.
func Compile(text string, opts Options) Document {
	var doc Document
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == commentPrefix {
			continue
		}
		res, err := CompileLine(line, opts)
		doc.Failures = append(doc.Failures, res.Failures...)
		if err != nil {
			doc.Errors = append(doc.Errors, err)
			continue
		}
		doc.Events = append(doc.Events, res.Events...)
		if res.EndTick > doc.EndTick {
			doc.EndTick = res.EndTick
		}
	}
	sort.SliceStable(doc.Events, func(i, j int) bool {
		if doc.Events[i].Start != doc.Events[j].Start {
			return doc.Events[i].Start < doc.Events[j].Start
		}
		return doc.Events[i].Pitch < doc.Events[j].Pitch
	})
	return doc
}

// TooLarge reports whether any line of the document hit the token budget.
func (d Document) TooLarge() bool {
	for _, err := range d.Errors {
		if errors.Is(err, ErrNotationTooLarge) {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
