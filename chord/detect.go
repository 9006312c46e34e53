package chord

import (
	"fmt"
	"sort"

	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/pitch"
)

// Snapshot is the set of pitches sounding from Start on.
type Snapshot struct {
	Start   int
	Pitches []int
}

type reducedEvent struct {
	tick      int
	isNoteOff bool
	pitch     int
}

func CreateChordKey(notes []int) string {
	sorted := append([]int(nil), notes...)
	sort.Ints(sorted)
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}

func getSnapshot(tick int, pressed map[int]int) Snapshot {
	s := Snapshot{Start: tick}
	for note, count := range pressed {
		if count > 0 {
			s.Pitches = append(s.Pitches, note)
		}
	}
	sort.Ints(s.Pitches)
	return s
}

// Detect walks note on/off edges and returns a snapshot every time the set
// of sounding pitches changes and holds at least minNotes pitches.
func Detect(events []model.NoteEvent, minNotes int) []Snapshot {
	var reduced []reducedEvent
	for _, e := range events {
		reduced = append(reduced,
			reducedEvent{tick: e.Start, pitch: e.Pitch},
			reducedEvent{tick: e.End(), isNoteOff: true, pitch: e.Pitch})
	}

	// prioritize smaller ticks then note off
	sort.SliceStable(reduced, func(i, j int) bool {
		if reduced[i].tick != reduced[j].tick {
			return reduced[i].tick < reduced[j].tick
		}
		return reduced[i].isNoteOff && !reduced[j].isNoteOff
	})

	byTick := make(map[int]Snapshot)
	var ticks []int
	pressed := make(map[int]int)
	for _, evt := range reduced {
		if evt.isNoteOff {
			pressed[evt.pitch]--
		} else {
			pressed[evt.pitch]++
		}
		if _, ok := byTick[evt.tick]; !ok {
			ticks = append(ticks, evt.tick)
		}
		byTick[evt.tick] = getSnapshot(evt.tick, pressed)
	}

	var res []Snapshot
	lastKey := ""
	for _, tick := range ticks {
		s := byTick[tick]
		if len(s.Pitches) < minNotes {
			lastKey = ""
			continue
		}
		key := CreateChordKey(s.Pitches)
		if key == lastKey {
			continue
		}
		lastKey = key
		res = append(res, s)
	}
	return res
}

// Identify names a set of pitches with the first formula that spells it
// exactly, trying the lowest pitch as root first. The name parses back with
// ParseToken.
func Identify(pitches []int) (string, bool) {
	if len(pitches) == 0 {
		return "", false
	}
	sorted := append([]int(nil), pitches...)
	sort.Ints(sorted)

	var classes []int
	for _, p := range sorted {
		pc := pitch.ClassOf(p)
		if !containsInt(classes, pc) {
			classes = append(classes, pc)
		}
	}

	for _, root := range classes {
		for _, f := range formulas {
			s := Symbol{Root: root, Intervals: f.Intervals}
			if sameSet(s.Tones(), classes) {
				suffix := f.Suffix
				if suffix == defaultSuffix {
					suffix = ""
				}
				return pitch.Name(root) + suffix, true
			}
		}
	}
	return "", false
}

// Progression reads one chord per bar: the last snapshot that started at
// or before the bar line, or the first one inside the bar. Bars with the
// same chord as the previous bar, and bars with no chord that can be named,
// extend the previous entry so later chords keep their bar positions.
func Progression(snapshots []Snapshot, ticksPerBar int, totalTicks int) []model.ProgressionEntry {
	var res []model.ProgressionEntry
	if ticksPerBar <= 0 || len(snapshots) == 0 {
		return res
	}
	// bars before the first named chord belong to it
	leading := 0
	for bar := 0; bar*ticksPerBar < totalTicks; bar++ {
		start := bar * ticksPerBar
		var current *Snapshot
		for i := range snapshots {
			s := &snapshots[i]
			if s.Start <= start {
				current = s
			} else if current == nil && s.Start < start+ticksPerBar {
				current = s
				break
			} else {
				break
			}
		}
		name, ok := "", false
		if current != nil {
			name, ok = Identify(current.Pitches)
		}
		n := len(res)
		if !ok {
			if n > 0 {
				res[n-1].Bars++
			} else {
				leading++
			}
			continue
		}
		if n > 0 && res[n-1].Chord == name {
			res[n-1].Bars++
			continue
		}
		res = append(res, model.ProgressionEntry{Chord: name, Bars: 1 + leading})
		leading = 0
	}
	return res
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !containsInt(b, v) {
			return false
		}
	}
	return true
}
