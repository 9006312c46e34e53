package model

type CompileRequestBody struct {
	Notation string `json:"notation"`
	Octave   int    `json:"octave"`
	Length   int    `json:"length"`
	ClipID   string `json:"clip_id"`
}

type CompileResponse struct {
	Events   []NoteEvent `json:"events"`
	Failures []Failure   `json:"failures"`
	EndTick  int         `json:"end_tick"`
}

type GenerateRequestBody struct {
	Progression string   `json:"progression"`
	Scale       string   `json:"scale"`
	Genre       string   `json:"genre"`
	Seed        *int64   `json:"seed"`
	Candidates  int      `json:"candidates"`
	TopK        int      `json:"top_k"`
	Density     *float64 `json:"density"`
	ClipID      string   `json:"clip_id"`
}

type GenerateResponse struct {
	Events   []NoteEvent `json:"events"`
	Score    float64     `json:"score"`
	Seed     int64       `json:"seed"`
	Failures []Failure   `json:"failures"`
}

type ArpeggioRequestBody struct {
	Progression string `json:"progression"`
	Octave      int    `json:"octave"`
	Step        int    `json:"step"`
	Looped      bool   `json:"looped"`
	Seed        *int64 `json:"seed"`
	ClipID      string `json:"clip_id"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
