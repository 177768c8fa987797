package domain

import (
	"fmt"
	"time"
)

// PartOfSpeech tags a cached word. The same spelling may be cached once per
// part of speech (noun/verb homographs are distinct rows).
type PartOfSpeech string

// Known part-of-speech tags. The set mirrors what the lookup provider
// distinguishes; anything else it reports is stored as PartOfSpeechOther.
const (
	PartOfSpeechVerb      PartOfSpeech = "verb"
	PartOfSpeechNoun      PartOfSpeech = "noun"
	PartOfSpeechAdjective PartOfSpeech = "adjective"
	PartOfSpeechOther     PartOfSpeech = "other"

	// PartOfSpeechAny is the zero query value: "no part of speech requested".
	// It is never stored.
	PartOfSpeechAny PartOfSpeech = ""
)

// ParsePartOfSpeech maps a provider tag onto a known PartOfSpeech.
// Unknown non-empty tags fold to PartOfSpeechOther.
func ParsePartOfSpeech(s string) PartOfSpeech {
	switch PartOfSpeech(s) {
	case PartOfSpeechVerb, PartOfSpeechNoun, PartOfSpeechAdjective:
		return PartOfSpeech(s)
	case PartOfSpeechAny:
		return PartOfSpeechAny
	default:
		return PartOfSpeechOther
	}
}

// Tense identifies a verb conjugation group. The keys match the provider's
// form-id prefixes and are stored verbatim in verb_conjugations.tense.
type Tense string

const (
	TensePast       Tense = "perf" // perfect
	TensePresent    Tense = "ap"   // active participle
	TenseFuture     Tense = "impf" // imperfect
	TenseImperative Tense = "imp"
)

// Tenses lists all known tenses in display order.
func Tenses() []Tense {
	return []Tense{TensePast, TensePresent, TenseFuture, TenseImperative}
}

// ParseTense validates a stored tense key.
func ParseTense(s string) (Tense, error) {
	switch Tense(s) {
	case TensePast, TensePresent, TenseFuture, TenseImperative:
		return Tense(s), nil
	default:
		return "", ErrInvalidTense
	}
}

// Word-specific validation errors. All wrap ErrValidation so callers can
// match the class without naming each field.
var (
	ErrWordHebrewEmpty     = fmt.Errorf("%w: word hebrew form cannot be empty", ErrValidation)
	ErrWordNormalizedEmpty = fmt.Errorf("%w: word normalized form cannot be empty", ErrValidation)
	ErrWordPOSEmpty        = fmt.Errorf("%w: word part of speech cannot be empty", ErrValidation)
	ErrTranslationEmpty    = fmt.Errorf("%w: translation text cannot be empty", ErrValidation)
	ErrConjugationEmpty    = fmt.Errorf("%w: conjugation form cannot be empty", ErrValidation)
)

// Word is the shared cache unit: one dictionary lookup result for a
// (hebrew, part of speech) pair. Words and their translations and
// conjugations are reference data shared across users; per-user state
// lives in DictionaryEntry.
type Word struct {
	ID               int64        `json:"word_id"`
	Hebrew           string       `json:"hebrew"`
	NormalizedHebrew string       `json:"normalized_hebrew"`
	Transcription    string       `json:"transcription,omitempty"`
	PartOfSpeech     PartOfSpeech `json:"part_of_speech"`
	Root             string       `json:"root,omitempty"`
	Binyan           string       `json:"binyan,omitempty"`
	Gender           string       `json:"gender,omitempty"`
	SingularForm     string       `json:"singular_form,omitempty"`
	PluralForm       string       `json:"plural_form,omitempty"`
	MasculineForm    string       `json:"masculine_form,omitempty"`
	FeminineForm     string       `json:"feminine_form,omitempty"`
	FetchedAt        time.Time    `json:"fetched_at"`

	Translations []Translation `json:"translations,omitempty"`
	Conjugations []Conjugation `json:"conjugations,omitempty"`
}

// Validate checks that the word carries the fields every cached row needs.
func (w *Word) Validate() error {
	if w.Hebrew == "" {
		return ErrWordHebrewEmpty
	}
	if w.NormalizedHebrew == "" {
		return ErrWordNormalizedEmpty
	}
	switch w.PartOfSpeech {
	case PartOfSpeechVerb, PartOfSpeechNoun, PartOfSpeechAdjective, PartOfSpeechOther:
	case PartOfSpeechAny:
		return ErrWordPOSEmpty
	default:
		return ErrInvalidPartOfSpeech
	}
	return nil
}

// IsVerb reports whether the word carries conjugations.
func (w *Word) IsVerb() bool {
	return w.PartOfSpeech == PartOfSpeechVerb
}

// PrimaryTranslation picks the translation to display first. Multiple rows
// may carry IsPrimary (the schema does not enforce a single primary), so the
// choice is made deterministic: the primary-flagged row with the lowest id
// wins, falling back to the lowest-id row overall. Returns nil when the word
// has no translations.
func (w *Word) PrimaryTranslation() *Translation {
	var best *Translation
	for i := range w.Translations {
		t := &w.Translations[i]
		switch {
		case best == nil:
			best = t
		case t.IsPrimary && !best.IsPrimary:
			best = t
		case t.IsPrimary == best.IsPrimary && t.ID < best.ID:
			best = t
		}
	}
	return best
}

// Translation is one meaning of a cached word, optionally qualified by a
// context comment ("(military)", "(colloquial)", ...).
type Translation struct {
	ID             int64  `json:"translation_id"`
	WordID         int64  `json:"word_id"`
	Text           string `json:"translation_text"`
	ContextComment string `json:"context_comment,omitempty"`
	IsPrimary      bool   `json:"is_primary"`
}

// Validate checks the translation payload.
func (t *Translation) Validate() error {
	if t.Text == "" {
		return ErrTranslationEmpty
	}
	return nil
}

// Conjugation is one inflected verb form belonging to a verb-tagged word.
type Conjugation struct {
	ID             int64  `json:"id"`
	WordID         int64  `json:"word_id"`
	Tense          Tense  `json:"tense"`
	Person         string `json:"person"`
	HebrewForm     string `json:"hebrew_form"`
	NormalizedForm string `json:"normalized_hebrew_form"`
	Transcription  string `json:"transcription,omitempty"`
}

// Validate checks the conjugation payload.
func (c *Conjugation) Validate() error {
	if c.HebrewForm == "" || c.NormalizedForm == "" {
		return ErrConjugationEmpty
	}
	if _, err := ParseTense(string(c.Tense)); err != nil {
		return err
	}
	return nil
}
