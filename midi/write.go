package midi

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/model"
	"github.com/jsphweid/notegen/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Resolution is the number of MIDI ticks per quarter note in written files.
const Resolution = 96

const DefaultTempo = 120.0

type timedMessage struct {
	tick  uint32
	off   bool
	pitch uint8
	msg   midi.Message
}

// NewSMF builds a single track file from events.
func NewSMF(events []model.NoteEvent, tempo float64) *smf.SMF {
	if tempo <= 0 {
		tempo = DefaultTempo
	}
	perTick := uint32(Resolution / constants.TicksPerBeat)

	var msgs []timedMessage
	for _, e := range events {
		if e.Length <= 0 || e.Start < 0 {
			continue
		}
		key := uint8(util.Clamp(e.Pitch, 0, constants.MaxPitch))
		vel := uint8(util.Clamp(e.Velocity, 1, constants.MaxPitch))
		msgs = append(msgs,
			timedMessage{tick: uint32(e.Start) * perTick, pitch: key, msg: midi.NoteOn(0, key, vel)},
			timedMessage{tick: uint32(e.End()) * perTick, off: true, pitch: key, msg: midi.NoteOff(0, key)},
		)
	}
	// note offs first so repeated notes on one key retrigger
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		if msgs[i].off != msgs[j].off {
			return msgs[i].off
		}
		return msgs[i].pitch < msgs[j].pitch
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(tempo))
	var last uint32
	for _, m := range msgs {
		tr.Add(m.tick-last, m.msg)
		last = m.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(Resolution)
	s.Add(tr)
	return s
}

func Write(w io.Writer, events []model.NoteEvent, tempo float64) error {
	if _, err := NewSMF(events, tempo).WriteTo(w); err != nil {
		return fmt.Errorf("could not write midi: %w", err)
	}
	return nil
}

func WriteFile(path string, events []model.NoteEvent, tempo float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %v: %w", path, err)
	}
	defer f.Close()
	return Write(f, events, tempo)
}

// FileSink writes every accepted batch of events to Path.
type FileSink struct {
	Path  string
	Tempo float64
}

func (s FileSink) Accept(_ context.Context, events []model.NoteEvent) error {
	return WriteFile(s.Path, events, s.Tempo)
}

// Excerpt returns at most maxNotes events starting at or after fromTick,
// moved so the first one starts at tick 0. events must be sorted by start.
func Excerpt(events []model.NoteEvent, fromTick int, maxNotes int) []model.NoteEvent {
	var res []model.NoteEvent
	offset := -1
	for _, e := range events {
		if e.Start < fromTick {
			continue
		}
		if len(res) >= maxNotes {
			break
		}
		if offset < 0 {
			offset = e.Start
		}
		e.Start -= offset
		res = append(res, e)
	}
	return res
}
