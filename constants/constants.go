package constants

import "os"

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// one tick is a sixteenth note
const TicksPerBeat = 4

const DefaultBeatsPerBar = 4

const DefaultOctave = 5

// quarter note
const DefaultLength = 4

const DefaultVelocity = 100

const DefaultMaxExpandedTokens = 64 * 1024

// 8! permutations is already 40320 patterns
const MaxArpeggioNotes = 8

const MaxPitch = 127

// longest note or chord in ticks, 4096 bars of 4/4
const MaxNoteLength = 1 << 16
