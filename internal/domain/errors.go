package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is the class every entity validation error wraps, so
	// callers can match on it without naming the specific field error.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPartOfSpeech is returned when a part-of-speech tag is not recognized.
	ErrInvalidPartOfSpeech = errors.New("invalid part of speech")

	// ErrInvalidTense is returned when a tense key is not one of the known tenses.
	ErrInvalidTense = errors.New("invalid tense")

	// ErrInvalidReviewOutcome is returned when a review outcome is not valid.
	ErrInvalidReviewOutcome = errors.New("invalid review outcome")
)
