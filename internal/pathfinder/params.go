package pathfinder

// CostWeights is the pluggable generalized-cost weighting. Time components
// are weighted minutes; monetary link costs always count at face value.
// Schedule-delay weights penalize each minute the traveler's anchored end of
// the trip drifts from the preferred time.
type CostWeights struct {
	InVehicle          float64 `yaml:"inVehicle" validate:"gte=0"`
	Wait               float64 `yaml:"wait" validate:"gte=0"`
	Walk               float64 `yaml:"walk" validate:"gte=0"`
	TransferPenalty    float64 `yaml:"transferPenalty" validate:"gte=0"`
	ScheduleDelayEarly float64 `yaml:"scheduleDelayEarly" validate:"gte=0"`
	ScheduleDelayLate  float64 `yaml:"scheduleDelayLate" validate:"gte=0"`
}

// Parameters tunes a search. Zero values are not usable; start from
// DefaultParameters.
type Parameters struct {
	// TimeWindow bounds how long a traveler will wait for a departure, in
	// minutes.
	TimeWindow float64 `yaml:"timeWindow" validate:"gt=0"`
	// BumpBuffer tightens every bump-wait threshold: arrivals within the
	// buffer of the threshold are also denied.
	BumpBuffer float64 `yaml:"bumpBuffer" validate:"gte=0"`
	// Dispersion is the logit dispersion of the hyperpath search. Higher
	// values concentrate choice on the cheapest links.
	Dispersion float64 `yaml:"dispersion" validate:"gt=0"`
	// AttractivenessWindow keeps a hyperpath link in a stop's choice set
	// only while its cost is within this bound of the stop's best link.
	AttractivenessWindow float64 `yaml:"attractivenessWindow" validate:"gt=0"`
	// MaxStopProcessCount bounds how often one stop is re-processed during
	// hyperpath relaxation.
	MaxStopProcessCount int `yaml:"maxStopProcessCount" validate:"gt=0"`
	// MaxLabelIterations bounds total queue pops; exceeding it aborts the
	// query with a no-path result (non-convergence guard).
	MaxLabelIterations int `yaml:"maxLabelIterations" validate:"gt=0"`
	// MaxPathLength bounds sampler steps (cycle guard).
	MaxPathLength int `yaml:"maxPathLength" validate:"gt=0"`

	Weights CostWeights `yaml:"weights"`
}

// DefaultParameters returns the stock configuration: generalized cost equal
// to elapsed time plus monetary cost, a thirty minute departure window, and
// unit dispersion.
func DefaultParameters() Parameters {
	return Parameters{
		TimeWindow:           30,
		BumpBuffer:           0,
		Dispersion:           1.0,
		AttractivenessWindow: 15,
		MaxStopProcessCount:  20,
		MaxLabelIterations:   1_000_000,
		MaxPathLength:        512,
		Weights: CostWeights{
			InVehicle: 1,
			Wait:      1,
			Walk:      1,
		},
	}
}
