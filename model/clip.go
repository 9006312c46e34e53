package model

type Clip struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	LengthTicks   int                `json:"length_ticks"`
	Tempo         float64            `json:"tempo"`
	BeatsPerBar   int                `json:"beats_per_bar"`
	DefaultOctave int                `json:"default_octave"`
	DefaultLength int                `json:"default_length"`
	Progression   []ProgressionEntry `json:"progression"`
	Notes         []NoteEvent        `json:"notes"`
}
