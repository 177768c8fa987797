package store

import (
	"context"
	"database/sql"

	"github.com/milonlex/milon-api/internal/domain"
)

// WordStore defines the interface for cached word persistence.
type WordStore interface {
	// Create saves a word together with its translations and conjugations.
	// The insert is keyed on UNIQUE(hebrew, part_of_speech); a concurrent
	// identical insert surfaces as ErrDuplicate, which callers resolve by
	// re-reading the winner. Must run inside a transaction when the word
	// carries translations or conjugations, so no partial set is visible.
	// The word's ID is populated on success.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word with its translations and conjugations.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Word, error)

	// FindByNormalized looks a word up by its normalized form, checking
	// lemma forms first and conjugated verb forms second. When pos is
	// PartOfSpeechAny and the form matches words of several parts of
	// speech, it returns ErrAmbiguous; with a concrete pos it returns the
	// matching row only. Returns ErrWordNotFound on no match.
	FindByNormalized(ctx context.Context, normalized string, pos domain.PartOfSpeech) (*domain.Word, error)

	// ListPartsOfSpeech returns the distinct parts of speech cached for a
	// normalized form, for disambiguation prompts.
	ListPartsOfSpeech(ctx context.Context, normalized string) ([]domain.PartOfSpeech, error)

	// ReplaceTranslations atomically replaces the full translation set of a
	// word. Must run inside a transaction.
	ReplaceTranslations(ctx context.Context, wordID int64, translations []domain.Translation) error

	// ReplaceConjugations atomically replaces the full conjugation set of a
	// word. Must run inside a transaction.
	ReplaceConjugations(ctx context.Context, wordID int64, conjugations []domain.Conjugation) error

	// Touch updates the fetch timestamp after a refresh.
	Touch(ctx context.Context, wordID int64) error

	// Delete removes a word. Dependent translations, conjugations and
	// dictionary entries are removed in the same transaction; backends
	// without enforced cascades perform the cleanup explicitly.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a WordStore bound to the given transaction.
	WithTx(tx *sql.Tx) WordStore
}

// UserStore defines the interface for user identity persistence.
type UserStore interface {
	// Upsert creates the user on first interaction or refreshes the
	// display fields on subsequent ones.
	Upsert(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user. Returns ErrUserNotFound if missing.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
