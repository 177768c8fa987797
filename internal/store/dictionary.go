package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
)

// ListFilter narrows ListByUser results.
type ListFilter struct {
	// Page is zero-based; PageSize rows are returned plus one extra row
	// when a further page exists, so callers can render "next" affordances
	// without a count query.
	Page     int
	PageSize int
}

// DictionaryStore defines the interface for per-user dictionary state.
type DictionaryStore interface {
	// Create inserts a new entry. UNIQUE(user_id, word_id) arbitrates
	// concurrent adds: a duplicate insert returns ErrDuplicate and the
	// caller re-reads the existing row.
	Create(ctx context.Context, entry *domain.DictionaryEntry) error

	// Get retrieves the entry for a (user, word) pair.
	// Returns ErrEntryNotFound if the user does not study the word.
	Get(ctx context.Context, userID, wordID int64) (*domain.DictionaryEntry, error)

	// GetForUpdate retrieves the entry with a row lock where the backend
	// supports SELECT ... FOR UPDATE. Must run inside a transaction.
	GetForUpdate(ctx context.Context, userID, wordID int64) (*domain.DictionaryEntry, error)

	// UpdateReview persists a new SRS level and next review time.
	// Returns ErrEntryNotFound if the entry no longer exists.
	UpdateReview(ctx context.Context, userID, wordID int64, level int, nextReviewAt time.Time) error

	// Delete removes the entry; the shared word is untouched.
	// Returns ErrEntryNotFound if the entry does not exist.
	Delete(ctx context.Context, userID, wordID int64) error

	// ListByUser returns the user's entries ordered by added time,
	// newest first, honoring the filter's pagination.
	ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]domain.DictionaryEntry, error)

	// ListDue returns entries with next_review_at <= now, ordered by
	// next_review_at ascending and word_id ascending for determinism.
	// limit <= 0 means no limit.
	ListDue(ctx context.Context, userID int64, now time.Time, limit int) ([]domain.DictionaryEntry, error)

	// WithTx returns a DictionaryStore bound to the given transaction.
	WithTx(tx *sql.Tx) DictionaryStore
}

// SettingsStore defines the interface for per-user preference state.
type SettingsStore interface {
	// GetTenseSettings returns the user's tense toggles keyed by tense.
	// Tenses with no stored row are absent from the map and treated as
	// active by callers.
	GetTenseSettings(ctx context.Context, userID int64) (map[domain.Tense]bool, error)

	// SetTense stores one tense toggle, inserting or updating as needed.
	SetTense(ctx context.Context, userID int64, tense domain.Tense, active bool) error

	// InitTenseSettings inserts default-active rows for every known tense,
	// skipping tenses the user already configured.
	InitTenseSettings(ctx context.Context, userID int64) error

	// GetSettings returns the user's display flags, defaulting ShowForms
	// to false when no row exists.
	GetSettings(ctx context.Context, userID int64) (*domain.Settings, error)

	// SetShowForms stores the grammatical-forms display flag.
	SetShowForms(ctx context.Context, userID int64, show bool) error

	// WithTx returns a SettingsStore bound to the given transaction.
	WithTx(tx *sql.Tx) SettingsStore
}
