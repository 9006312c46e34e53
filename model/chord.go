package model

// NoteEvent is the only thing the compiler and the generators hand out.
// Ticks are sixteenth notes.
type NoteEvent struct {
	Pitch    int `json:"pitch"`
	Start    int `json:"start"`
	Length   int `json:"length"`
	Velocity int `json:"velocity"`
}

// End returns the first tick after the note.
func (n NoteEvent) End() int {
	return n.Start + n.Length
}

type ProgressionEntry struct {
	Chord string `json:"chord"`
	Bars  int    `json:"bars"`
}

// Failure is a token that could not be resolved. Processing carries on
// without it.
type Failure struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}
