package srs

import "time"

const (
	defaultBaseInterval  = 10 * time.Minute
	defaultFirstInterval = 24 * time.Hour
	defaultGrowthFactor  = 2.0
	defaultLevelCeiling  = 7
	defaultHardMult      = 0.6
	defaultEasyMult      = 1.5
)

// Params defines all configurable knobs of the exponential schedule.
type Params struct {
	// BaseInterval is the retry delay after a failed review and the floor
	// for every computed interval.
	BaseInterval time.Duration

	// FirstInterval is the interval granted on reaching level 1.
	FirstInterval time.Duration

	// GrowthFactor multiplies the interval per additional level.
	GrowthFactor float64

	// LevelCeiling caps the level; words at the ceiling stay there.
	LevelCeiling int

	// HardMultiplier and EasyMultiplier scale the interval of the level
	// transition for the corresponding outcomes; Good uses 1.0.
	HardMultiplier float64
	EasyMultiplier float64
}

// ParamsConfig allows overriding individual defaults when building Params.
// Zero values keep the default.
type ParamsConfig struct {
	BaseInterval   time.Duration
	FirstInterval  time.Duration
	GrowthFactor   float64
	LevelCeiling   int
	HardMultiplier float64
	EasyMultiplier float64
}

// NewDefaultParams returns the stock parameters: 10 minute fail retry,
// one day at level 1, doubling per level, ceiling at level 7.
func NewDefaultParams() *Params {
	return &Params{
		BaseInterval:   defaultBaseInterval,
		FirstInterval:  defaultFirstInterval,
		GrowthFactor:   defaultGrowthFactor,
		LevelCeiling:   defaultLevelCeiling,
		HardMultiplier: defaultHardMult,
		EasyMultiplier: defaultEasyMult,
	}
}

// NewParams builds Params from defaults with the provided overrides applied.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.BaseInterval > 0 {
		params.BaseInterval = config.BaseInterval
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.GrowthFactor > 1 {
		params.GrowthFactor = config.GrowthFactor
	}
	if config.LevelCeiling > 0 {
		params.LevelCeiling = config.LevelCeiling
	}
	if config.HardMultiplier > 0 {
		params.HardMultiplier = config.HardMultiplier
	}
	if config.EasyMultiplier > 0 {
		params.EasyMultiplier = config.EasyMultiplier
	}

	return params
}
