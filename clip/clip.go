// Package clip is the clip-store collaborator: it hands out clip context
// (length, tempo, default octave and length, progression) and accepts
// emitted events.
package clip

import (
	"context"
	"errors"
	"sort"

	"github.com/jsphweid/notegen/model"
)

var ErrNotFound = errors.New("clip not found")

type Store interface {
	Get(ctx context.Context, id string) (model.Clip, error)
	// Put saves c, assigning an id when it has none, and returns what was
	// stored.
	Put(ctx context.Context, c model.Clip) (model.Clip, error)
	List(ctx context.Context) ([]model.Clip, error)
}

// Sink accepts emitted events.
type Sink interface {
	Accept(ctx context.Context, events []model.NoteEvent) error
}

// Place fits events into a clip: events starting at or past the clip end
// are dropped and overhanging ones are trimmed. A clip without a length
// keeps everything.
func Place(c model.Clip, events []model.NoteEvent) []model.NoteEvent {
	res := make([]model.NoteEvent, 0, len(events))
	for _, e := range events {
		if c.LengthTicks > 0 {
			if e.Start >= c.LengthTicks {
				continue
			}
			if e.End() > c.LengthTicks {
				e.Length = c.LengthTicks - e.Start
			}
		}
		res = append(res, e)
	}
	return res
}

// StoreSink appends accepted events to one clip of a Store.
type StoreSink struct {
	Store  Store
	ClipID string
}

func (s StoreSink) Accept(ctx context.Context, events []model.NoteEvent) error {
	c, err := s.Store.Get(ctx, s.ClipID)
	if err != nil {
		return err
	}
	c.Notes = append(c.Notes, Place(c, events)...)
	sortNotes(c.Notes)
	_, err = s.Store.Put(ctx, c)
	return err
}

func sortNotes(notes []model.NoteEvent) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Pitch < notes[j].Pitch
	})
}
