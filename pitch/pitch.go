// Package pitch maps note names to pitch classes and absolute (MIDI style)
// pitches.
package pitch

import (
	"strings"

	"github.com/jsphweid/notegen/util"
)

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterClasses = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Rest is the letter that stands in for a note to mean silence.
const Rest = 'Z'

// Note is a scanned note name.
type Note struct {
	Class     int
	Octave    int
	HasOctave bool
	Rest      bool
}

// Absolute returns the pitch in octave o. It is only meaningful for
// non-rest notes.
func (n Note) Absolute() int {
	return Absolute(n.Class, n.Octave)
}

func Name(class int) string {
	return names[util.Mod(class, 12)]
}

func IsLetter(b byte) bool {
	_, ok := letterClasses[b]
	return ok
}

// Absolute is class + 12*(octave+1), so C4 = 60.
func Absolute(class, octave int) int {
	return util.Mod(class, 12) + 12*(octave+1)
}

func ClassOf(abs int) int {
	return util.Mod(abs, 12)
}

func OctaveOf(abs int) int {
	return (abs-ClassOf(abs))/12 - 1
}

// Parse reads a bare name like "C", "F#" or "Db". Flats and sharps wrap
// around the octave, so "Cb" is the class of "B".
func Parse(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	n, next, ok := Scan(name, 0, 0)
	if !ok || n.Rest || n.HasOctave || next != len(name) {
		return 0, false
	}
	return n.Class, true
}

// Scan reads a letter, an optional accidental and an optional single
// octave digit starting at s[at]. It returns the index of the first
// unconsumed byte.
func Scan(s string, at int, defaultOctave int) (Note, int, bool) {
	if at >= len(s) {
		return Note{}, at, false
	}
	n := Note{Octave: defaultOctave}
	c := s[at]
	switch {
	case c == Rest:
		n.Rest = true
	case IsLetter(c):
		n.Class = letterClasses[c]
	default:
		return Note{}, at, false
	}
	i := at + 1
	if !n.Rest && i < len(s) {
		switch s[i] {
		case '#':
			n.Class++
			i++
		case 'b':
			n.Class--
			i++
		}
		n.Class = util.Mod(n.Class, 12)
	}
	if i < len(s) && isDigit(s[i]) {
		n.Octave = int(s[i] - '0')
		n.HasOctave = true
		i++
	}
	return n, i, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
