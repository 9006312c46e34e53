package cmd

import (
	"context"
	"encoding/json"
	"io"

	"github.com/jsphweid/notegen/clip"
	"github.com/jsphweid/notegen/logger"
	"github.com/jsphweid/notegen/midi"
	"github.com/jsphweid/notegen/model"
)

type clipCtx struct {
	store clip.Store
	clip  model.Clip
	ok    bool
}

func (c clipCtx) tempo() float64 {
	if c.ok && c.clip.Tempo > 0 {
		return c.clip.Tempo
	}
	return midi.DefaultTempo
}

// emit hands events to the MIDI file sink when outPath is set and to the
// clip when one was loaded. With neither, events are printed as JSON.
func emit(ctx context.Context, w io.Writer, c clipCtx, outPath string, events []model.NoteEvent) error {
	var sinks []clip.Sink
	if outPath != "" {
		sinks = append(sinks, midi.FileSink{Path: outPath, Tempo: c.tempo()})
	}
	if c.ok {
		sinks = append(sinks, clip.StoreSink{Store: c.store, ClipID: c.clip.ID})
	}
	if len(sinks) == 0 {
		return printJSON(w, events)
	}
	for _, s := range sinks {
		if err := s.Accept(ctx, events); err != nil {
			return err
		}
	}
	logger.Info("events written", logger.Fields{"events": len(events), "out": outPath, "clip": c.clip.ID})
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func logFailures(failures []model.Failure) {
	for _, f := range failures {
		logger.Warn("token skipped", logger.Fields{"token": f.Token, "reason": f.Reason})
	}
}

func logWarnErr(msg string, err error) {
	logger.Warn(msg, logger.Fields{"error": err.Error()})
}
