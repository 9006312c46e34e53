package melody

import (
	"time"

	"github.com/jsphweid/notegen/constants"
	"github.com/jsphweid/notegen/util"
	"golang.org/x/exp/rand"
)

// Params are the knobs of one generation call. They are read, never
// written, by the generator.
type Params struct {
	// Scale names a mode from the scale package. Empty or "none" infers the
	// mode from the first chord.
	Scale string
	// Genre selects the rhythm slot patterns.
	Genre         string
	BeatsPerBar   int
	BarsPerPhrase int

	// StepBias near 1 prefers stepwise motion, near 0 allows leaps.
	StepBias float64
	// Density is the chance a weak-beat slot sounds.
	Density     float64
	Syncopation float64
	RestChance  float64

	LegatoChance     float64
	BaseVelocity     int
	VelocityHumanize int

	// Cadence bias per phrase role: the chance the last slot of a phrase
	// lands on the chord root (question) or the tonic (answer).
	QuestionCadence float64
	AnswerCadence   float64
	MotifReuse      float64

	ApproachChance float64
	FillChance     float64

	CenterOctave int
	// MaxLeap and Range are in semitones.
	MaxLeap int
	Range   int

	Seed    int64
	UseSeed bool
}

func DefaultParams() Params {
	return Params{
		Genre:            "pop",
		BeatsPerBar:      constants.DefaultBeatsPerBar,
		BarsPerPhrase:    2,
		StepBias:         0.7,
		Density:          0.7,
		Syncopation:      0.15,
		RestChance:       0.1,
		LegatoChance:     0.3,
		BaseVelocity:     96,
		VelocityHumanize: 8,
		QuestionCadence:  0.6,
		AnswerCadence:    0.85,
		MotifReuse:       0.6,
		ApproachChance:   0.1,
		FillChance:       0.05,
		CenterOctave:     constants.DefaultOctave,
		MaxLeap:          9,
		Range:            12,
	}
}

// WithSeed returns a copy that generates deterministically from seed.
func (p Params) WithSeed(seed int64) Params {
	p.Seed = seed
	p.UseSeed = true
	return p
}

func (p Params) normalized() Params {
	if p.BeatsPerBar <= 0 {
		p.BeatsPerBar = constants.DefaultBeatsPerBar
	}
	if p.BarsPerPhrase <= 0 {
		p.BarsPerPhrase = 2
	}
	if p.BaseVelocity <= 0 {
		p.BaseVelocity = 96
	}
	if p.MaxLeap <= 0 {
		p.MaxLeap = 9
	}
	if p.Range <= 0 {
		p.Range = 12
	}
	if p.VelocityHumanize < 0 {
		p.VelocityHumanize = 0
	}
	for _, f := range []*float64{
		&p.StepBias, &p.Density, &p.Syncopation, &p.RestChance, &p.LegatoChance,
		&p.QuestionCadence, &p.AnswerCadence, &p.MotifReuse, &p.ApproachChance, &p.FillChance,
	} {
		*f = util.Clamp(*f, 0, 1)
	}
	return p
}

func (p Params) ticksPerBar() int {
	return p.BeatsPerBar * constants.TicksPerBeat
}

func newRand(p Params) *rand.Rand {
	if p.UseSeed {
		return rand.New(rand.NewSource(uint64(p.Seed)))
	}
	return rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
}
