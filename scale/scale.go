// Package scale holds the diatonic modes used by the melody generator.
package scale

import (
	"sort"
	"strings"

	"github.com/jsphweid/notegen/chord"
	"github.com/jsphweid/notegen/util"
)

type Definition struct {
	Name      string
	Intervals []int
	// Quality of the triad built on each degree.
	Triads [7]chord.Quality
}

const (
	qMaj = chord.Major
	qMin = chord.Minor
	qDim = chord.Diminished
	qAug = chord.Augmented
)

var definitions = map[string]Definition{
	"ionian":         {"ionian", []int{0, 2, 4, 5, 7, 9, 11}, [7]chord.Quality{qMaj, qMin, qMin, qMaj, qMaj, qMin, qDim}},
	"dorian":         {"dorian", []int{0, 2, 3, 5, 7, 9, 10}, [7]chord.Quality{qMin, qMin, qMaj, qMaj, qMin, qDim, qMaj}},
	"phrygian":       {"phrygian", []int{0, 1, 3, 5, 7, 8, 10}, [7]chord.Quality{qMin, qMaj, qMaj, qMin, qDim, qMaj, qMin}},
	"lydian":         {"lydian", []int{0, 2, 4, 6, 7, 9, 11}, [7]chord.Quality{qMaj, qMaj, qMin, qDim, qMaj, qMin, qMin}},
	"mixolydian":     {"mixolydian", []int{0, 2, 4, 5, 7, 9, 10}, [7]chord.Quality{qMaj, qMin, qDim, qMaj, qMin, qMin, qMaj}},
	"aeolian":        {"aeolian", []int{0, 2, 3, 5, 7, 8, 10}, [7]chord.Quality{qMin, qDim, qMaj, qMin, qMin, qMaj, qMaj}},
	"locrian":        {"locrian", []int{0, 1, 3, 5, 6, 8, 10}, [7]chord.Quality{qDim, qMaj, qMin, qMin, qMaj, qMaj, qMin}},
	"harmonic_minor": {"harmonic_minor", []int{0, 2, 3, 5, 7, 8, 11}, [7]chord.Quality{qMin, qDim, qAug, qMin, qMaj, qMaj, qDim}},
	"melodic_minor":  {"melodic_minor", []int{0, 2, 3, 5, 7, 9, 11}, [7]chord.Quality{qMin, qMin, qAug, qMaj, qMaj, qDim, qDim}},
}

var aliases = map[string]string{
	"major": "ionian",
	"minor": "aeolian",
}

// None means "infer the scale from the progression".
const None = "none"

// Lookup finds a mode by name. Names are case insensitive and may use
// spaces or dashes instead of underscores.
func Lookup(name string) (Definition, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	d, ok := definitions[key]
	return d, ok
}

func MustLookup(name string) Definition {
	d, ok := Lookup(name)
	if !ok {
		panic("unknown scale: " + name)
	}
	return d
}

func Names() []string {
	names := util.GetKeys(definitions)
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// Contains reports whether pitch class (or absolute pitch) pc is in the
// scale built on root.
func (d Definition) Contains(root, pc int) bool {
	return d.Degree(root, pc) >= 0
}

// Degree returns the 0-based scale degree of pc, or -1.
func (d Definition) Degree(root, pc int) int {
	rel := util.Mod(pc-root, 12)
	for i, iv := range d.Intervals {
		if iv == rel {
			return i
		}
	}
	return -1
}

func (d Definition) PitchClasses(root int) []int {
	res := make([]int, len(d.Intervals))
	for i, iv := range d.Intervals {
		res[i] = util.Mod(root+iv, 12)
	}
	return res
}

// Snap moves an absolute pitch to the nearest scale member, preferring the
// lower one on a tie.
func (d Definition) Snap(root, p int) int {
	if d.Contains(root, p) {
		return p
	}
	for dist := 1; dist < 12; dist++ {
		if d.Contains(root, p-dist) {
			return p - dist
		}
		if d.Contains(root, p+dist) {
			return p + dist
		}
	}
	return p
}

// Step moves an absolute in-scale pitch by n scale steps. Pitches outside
// the scale are snapped first.
func (d Definition) Step(root, p, n int) int {
	p = d.Snap(root, p)
	for n > 0 {
		p++
		for !d.Contains(root, p) {
			p++
		}
		n--
	}
	for n < 0 {
		p--
		for !d.Contains(root, p) {
			p--
		}
		n++
	}
	return p
}

// DiatonicTriad returns the root pitch class and triad quality on the
// given 0-based degree.
func (d Definition) DiatonicTriad(root, degree int) (int, chord.Quality) {
	degree = util.Mod(degree, len(d.Intervals))
	return util.Mod(root+d.Intervals[degree], 12), d.Triads[degree]
}
