// Package arpeggio enumerates the orders in which the tones of a chord can
// be played and renders them against a chord progression.
package arpeggio

import (
	"sync"

	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/util"
)

// Patterns holds every ordering of n chord-tone indices. Looped[i] is
// Straight[i] followed by its interior reversed.
type Patterns struct {
	Straight [][]int
	Looped   [][]int
}

var (
	cacheMu sync.Mutex
	cache   = make(map[int]Patterns)
)

// Generate returns the patterns for n tones. n is clamped to
// [0, constants.MaxArpeggioNotes]. Results are computed once per n; the
// caller gets its own copy.
func Generate(n int) Patterns {
	n = util.Clamp(n, 0, constants.MaxArpeggioNotes)

	cacheMu.Lock()
	p, ok := cache[n]
	if !ok {
		p = build(n)
		cache[n] = p
	}
	cacheMu.Unlock()

	return p.clone()
}

func build(n int) Patterns {
	var p Patterns
	if n == 0 {
		return p
	}
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i
	}
	permute(seq, 0, &p.Straight)

	p.Looped = make([][]int, len(p.Straight))
	for i, s := range p.Straight {
		p.Looped[i] = loop(s)
	}
	return p
}

func permute(seq []int, k int, out *[][]int) {
	if k == len(seq) {
		*out = append(*out, append([]int(nil), seq...))
		return
	}
	for i := k; i < len(seq); i++ {
		seq[k], seq[i] = seq[i], seq[k]
		permute(seq, k+1, out)
		seq[k], seq[i] = seq[i], seq[k]
	}
}

func loop(s []int) []int {
	res := append([]int(nil), s...)
	for i := len(s) - 2; i >= 1; i-- {
		res = append(res, s[i])
	}
	return res
}

func (p Patterns) clone() Patterns {
	return Patterns{Straight: cloneAll(p.Straight), Looped: cloneAll(p.Looped)}
}

func cloneAll(in [][]int) [][]int {
	if in == nil {
		return nil
	}
	out := make([][]int, len(in))
	for i, s := range in {
		out[i] = append([]int(nil), s...)
	}
	return out
}
