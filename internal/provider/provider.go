// Package provider fetches word data from the external dictionary when the
// cache misses. It returns plain values and never touches the store;
// persisting the result is the caller's job.
package provider

import (
	"context"
	"errors"

	"github.com/milonlex/milon-api/internal/domain"
)

// Provider errors.
var (
	// ErrWordNotFound means the dictionary has no entry for the surface form.
	ErrWordNotFound = errors.New("provider: word not found")

	// ErrUnavailable means the dictionary could not be reached or returned
	// an unusable response. The cache stays as it is.
	ErrUnavailable = errors.New("provider: dictionary unavailable")
)

// WordInfo is one lookup result before it is cached. Hebrew carries the
// original pointed spelling; normalized forms are derived by the caller.
type WordInfo struct {
	Hebrew        string
	Transcription string
	PartOfSpeech  domain.PartOfSpeech
	Root          string
	Binyan        string
	Gender        string
	SingularForm  string
	PluralForm    string
	MasculineForm string
	FeminineForm  string

	Translations []domain.Translation
	Conjugations []domain.Conjugation
}

// Provider looks up a surface form in the external dictionary. When pos is
// PartOfSpeechAny implementations return the best match for the form;
// a concrete pos narrows the lookup.
type Provider interface {
	Fetch(ctx context.Context, surface string, pos domain.PartOfSpeech) (*WordInfo, error)
}
