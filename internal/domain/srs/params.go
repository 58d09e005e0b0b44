package srs

// Params defines all configurable parameters for the SM-2 scheduling
// algorithm.
type Params struct {
	// MinEaseFactor is the floor below which the ease factor never drops.
	MinEaseFactor float64

	// InitialEaseFactor is assigned to items that have never been reviewed.
	InitialEaseFactor float64

	// FailureInterval is the interval in days after a failed review.
	FailureInterval int

	// FirstInterval is the interval in days after the first successful review.
	FirstInterval int

	// SecondInterval is the interval in days after the second consecutive
	// successful review. Later intervals grow by the ease factor.
	SecondInterval int

	// XPPerReview is awarded for every review event regardless of quality.
	XPPerReview int
}

// ParamsConfig allows overriding the default parameters when creating
// a new Params instance.
type ParamsConfig struct {
	MinEaseFactor     float64
	InitialEaseFactor float64
	FailureInterval   int
	FirstInterval     int
	SecondInterval    int
	XPPerReview       int
}

// NewDefaultParams creates a new Params instance with the standard
// SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     1.3,
		InitialEaseFactor: 2.5,
		FailureInterval:   1,
		FirstInterval:     1,
		SecondInterval:    6,
		XPPerReview:       10,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}
	if config.FailureInterval > 0 {
		params.FailureInterval = config.FailureInterval
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.XPPerReview > 0 {
		params.XPPerReview = config.XPPerReview
	}

	return params
}
