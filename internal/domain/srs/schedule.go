// Package srs holds the spaced-repetition scheduling policy. The interval
// math is deliberately isolated behind the Schedule interface so alternative
// algorithms (fixed ladder, SM-2 style) can be swapped in without touching
// the review service.
package srs

import (
	"errors"
	"math"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
)

// Common errors.
var (
	ErrInvalidOutcome = errors.New("invalid review outcome")
	ErrNegativeLevel  = errors.New("level must be non-negative")
)

// Schedule computes the next SRS state for a dictionary entry.
type Schedule interface {
	// Next returns the new level and next review time after grading an
	// entry at the given level with the given outcome at time now.
	// The returned time is strictly after now for every valid outcome.
	Next(level int, outcome domain.ReviewOutcome, now time.Time) (int, time.Time, error)
}

// exponentialSchedule is the default policy: a failed review resets the
// level and retries after a short base interval, while each pass climbs one
// level and roughly doubles the interval, starting around one day.
type exponentialSchedule struct {
	params *Params
}

// NewExponentialSchedule creates the default exponential policy with the
// given parameters. Pass nil to use NewDefaultParams.
func NewExponentialSchedule(params *Params) Schedule {
	if params == nil {
		params = NewDefaultParams()
	}
	return &exponentialSchedule{params: params}
}

var _ Schedule = (*exponentialSchedule)(nil)

func (s *exponentialSchedule) Next(
	level int,
	outcome domain.ReviewOutcome,
	now time.Time,
) (int, time.Time, error) {
	if level < 0 {
		return 0, time.Time{}, ErrNegativeLevel
	}
	if !outcome.IsValid() {
		return 0, time.Time{}, ErrInvalidOutcome
	}

	p := s.params

	if outcome == domain.ReviewOutcomeFail {
		// Short retry; the word stays in the current session's rotation.
		return 0, now.Add(p.BaseInterval), nil
	}

	next := level + 1
	if next > p.LevelCeiling {
		next = p.LevelCeiling
	}

	interval := s.interval(next)
	switch outcome {
	case domain.ReviewOutcomeHard:
		interval = time.Duration(float64(interval) * p.HardMultiplier)
	case domain.ReviewOutcomeEasy:
		interval = time.Duration(float64(interval) * p.EasyMultiplier)
	}
	if interval < p.BaseInterval {
		interval = p.BaseInterval
	}

	return next, now.Add(interval), nil
}

// interval returns the pass interval for a level >= 1:
// FirstInterval * GrowthFactor^(n-1).
func (s *exponentialSchedule) interval(level int) time.Duration {
	growth := math.Pow(s.params.GrowthFactor, float64(level-1))
	return time.Duration(float64(s.params.FirstInterval) * growth)
}

// ladderSchedule reproduces the fixed day ladder of the original scheduler:
// each level indexes into a table of day counts, capped at the last rung.
type ladderSchedule struct {
	baseInterval time.Duration
	days         []int
}

// DefaultLadderDays is the historical review ladder in days, indexed by
// level and capped at the last entry.
var DefaultLadderDays = []int{0, 1, 3, 7, 14, 30, 90}

// NewLadderSchedule creates a fixed-ladder policy. An empty days slice
// falls back to DefaultLadderDays; baseInterval <= 0 falls back to the
// default fail retry interval.
func NewLadderSchedule(baseInterval time.Duration, days []int) Schedule {
	if len(days) == 0 {
		days = DefaultLadderDays
	}
	if baseInterval <= 0 {
		baseInterval = defaultBaseInterval
	}
	return &ladderSchedule{baseInterval: baseInterval, days: days}
}

var _ Schedule = (*ladderSchedule)(nil)

func (s *ladderSchedule) Next(
	level int,
	outcome domain.ReviewOutcome,
	now time.Time,
) (int, time.Time, error) {
	if level < 0 {
		return 0, time.Time{}, ErrNegativeLevel
	}
	if !outcome.IsValid() {
		return 0, time.Time{}, ErrInvalidOutcome
	}

	if outcome == domain.ReviewOutcomeFail {
		return 0, now.Add(s.baseInterval), nil
	}

	next := level + 1
	rung := next
	if rung >= len(s.days) {
		rung = len(s.days) - 1
		next = rung
	}

	days := s.days[rung]
	if days <= 0 {
		// Rung zero would schedule "now"; keep the strictly-future invariant.
		return next, now.Add(s.baseInterval), nil
	}
	return next, now.AddDate(0, 0, days), nil
}
