package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = &blank
			e = fmt.Errorf("midi parser panicked: %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("error reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("error parsing midi file: %w", err)
	}
	return res, nil
}

// ReadEvents reads a standard MIDI file as note events.
func ReadEvents(filepath string) ([]model.NoteEvent, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	return Events(s)
}

type heldNote struct {
	start    int64
	velocity uint8
}

// Events converts the notes of every track to sixteenth note ticks. Notes
// still held at the end of a track are dropped.
func Events(s *smf.SMF) (res []model.NoteEvent, e error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			e = fmt.Errorf("midi events panicked: %v", r)
		}
	}()

	resolution, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || resolution == 0 {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	toTicks := func(abs int64) int {
		perQuarter := int64(resolution)
		return int((abs*constants.TicksPerBeat + perQuarter/2) / perQuarter)
	}

	for _, track := range s.Tracks {
		held := make(map[[2]uint8][]heldNote)
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			isOff := false
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				if velocity == 0 {
					isOff = true
					break
				}
				k := [2]uint8{channel, key}
				held[k] = append(held[k], heldNote{start: absTicks, velocity: velocity})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				isOff = true
			}
			if !isOff {
				continue
			}
			k := [2]uint8{channel, key}
			if len(held[k]) == 0 {
				continue
			}
			on := held[k][0]
			held[k] = held[k][1:]
			start := toTicks(on.start)
			length := toTicks(absTicks) - start
			if length < 1 {
				length = 1
			}
			res = append(res, model.NoteEvent{
				Pitch:    int(key),
				Start:    start,
				Length:   length,
				Velocity: int(on.velocity),
			})
		}
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Start != res[j].Start {
			return res[i].Start < res[j].Start
		}
		return res[i].Pitch < res[j].Pitch
	})
	return res, nil
}
