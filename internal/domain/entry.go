package domain

import (
	"fmt"
	"time"
)

// ReviewOutcome represents the result of grading a word during review.
type ReviewOutcome string

// Possible review outcome values.
const (
	ReviewOutcomeFail ReviewOutcome = "fail"
	ReviewOutcomeHard ReviewOutcome = "hard"
	ReviewOutcomeGood ReviewOutcome = "good"
	ReviewOutcomeEasy ReviewOutcome = "easy"
)

// IsValid reports whether the outcome is one of the known grades.
func (o ReviewOutcome) IsValid() bool {
	switch o {
	case ReviewOutcomeFail, ReviewOutcomeHard, ReviewOutcomeGood, ReviewOutcomeEasy:
		return true
	default:
		return false
	}
}

// IsPass reports whether the outcome advances the SRS level.
func (o ReviewOutcome) IsPass() bool {
	return o.IsValid() && o != ReviewOutcomeFail
}

// Validation errors for DictionaryEntry, wrapping ErrValidation.
var (
	ErrEntryInvalidUser  = fmt.Errorf("%w: dictionary entry user ID must be positive", ErrValidation)
	ErrEntryInvalidWord  = fmt.Errorf("%w: dictionary entry word ID must be positive", ErrValidation)
	ErrEntryInvalidLevel = fmt.Errorf("%w: dictionary entry level must be non-negative", ErrValidation)
)

// DictionaryEntry binds a user to a cached word they study, together with
// the spaced-repetition state for that pair. Exactly one entry exists per
// (user, word); level starts at 0 and the entry is due immediately after
// AddWord so it appears in the next review batch.
type DictionaryEntry struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	WordID       int64     `json:"word_id"`
	AddedAt      time.Time `json:"added_at"`
	Level        int       `json:"srs_level"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// NewDictionaryEntry creates the initial study state for a (user, word)
// pair: level 0, due immediately.
func NewDictionaryEntry(userID, wordID int64, now time.Time) (*DictionaryEntry, error) {
	e := &DictionaryEntry{
		UserID:       userID,
		WordID:       wordID,
		AddedAt:      now,
		Level:        0,
		NextReviewAt: now,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the entry invariants.
func (e *DictionaryEntry) Validate() error {
	if e.UserID <= 0 {
		return ErrEntryInvalidUser
	}
	if e.WordID <= 0 {
		return ErrEntryInvalidWord
	}
	if e.Level < 0 {
		return ErrEntryInvalidLevel
	}
	return nil
}

// IsDue reports whether the entry should be offered for review at now.
func (e *DictionaryEntry) IsDue(now time.Time) bool {
	return !e.NextReviewAt.After(now)
}
