// Package dictionary implements per-user dictionary management on top of
// the shared word cache.
package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/platform/metrics"
	"github.com/milonlex/milon-api/internal/store"
)

// Sentinel errors returned by the dictionary service.
var (
	// ErrWordNotFound means the referenced word is not in the shared cache.
	ErrWordNotFound = errors.New("word not found")

	// ErrEntryNotFound means the user does not study the word.
	ErrEntryNotFound = errors.New("dictionary entry not found")
)

// ServiceError wraps dictionary service failures with the failed operation.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dictionary service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("dictionary service %s failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrWordNotFound), errors.Is(err, ErrEntryNotFound):
		return err
	case errors.Is(err, store.ErrWordNotFound):
		return ErrWordNotFound
	case errors.Is(err, store.ErrEntryNotFound):
		return ErrEntryNotFound
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

// Entry is one dictionary listing row: the study state plus the word it
// refers to, with conjugations already filtered per the user's settings.
type Entry struct {
	domain.DictionaryEntry
	Word *domain.Word
}

// Service manages per-user dictionaries.
type Service struct {
	db       *sql.DB
	users    store.UserStore
	words    store.WordStore
	entries  store.DictionaryStore
	settings store.SettingsStore
	logger   *slog.Logger
}

// NewService creates the dictionary service.
func NewService(
	db *sql.DB,
	users store.UserStore,
	words store.WordStore,
	entries store.DictionaryStore,
	settings store.SettingsStore,
	logger *slog.Logger,
) (*Service, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if users == nil || words == nil || entries == nil || settings == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "stores cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:       db,
		users:    users,
		words:    words,
		entries:  entries,
		settings: settings,
		logger:   logger.With("component", "dictionary_service"),
	}, nil
}

// AddWord puts a cached word into the user's dictionary. The user row is
// upserted first, so first interactions work without registration. Adding
// a word the user already studies is a no-op that returns the existing
// entry with its review state untouched.
func (s *Service) AddWord(
	ctx context.Context,
	user *domain.User,
	wordID int64,
) (*domain.DictionaryEntry, error) {
	if err := user.Validate(); err != nil {
		return nil, newServiceError("add_word", "invalid user", err)
	}

	if _, err := s.words.GetByID(ctx, wordID); err != nil {
		return nil, newServiceError("add_word", "failed to load word", err)
	}

	entry, err := domain.NewDictionaryEntry(user.ID, wordID, time.Now().UTC())
	if err != nil {
		return nil, newServiceError("add_word", "invalid entry", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Upsert(ctx, user); err != nil {
			return err
		}
		return s.entries.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		if store.IsDuplicate(err) {
			// Already studying this word; adding again never resets
			// review progress.
			existing, getErr := s.entries.Get(ctx, user.ID, wordID)
			if getErr != nil {
				return nil, newServiceError("add_word", "failed to load existing entry", getErr)
			}
			s.logger.Debug("word already in dictionary",
				"user_id", user.ID,
				"word_id", wordID)
			return existing, nil
		}
		return nil, newServiceError("add_word", "failed to add word", err)
	}

	metrics.RecordDictionaryChange("add")
	return entry, nil
}

// RemoveWord drops a word from the user's dictionary. The shared cached
// word stays for other users.
func (s *Service) RemoveWord(ctx context.Context, userID, wordID int64) error {
	if err := s.entries.Delete(ctx, userID, wordID); err != nil {
		return newServiceError("remove_word", "failed to remove word", err)
	}
	metrics.RecordDictionaryChange("remove")
	return nil
}

// GetEntry returns the study state for one (user, word) pair.
func (s *Service) GetEntry(ctx context.Context, userID, wordID int64) (*domain.DictionaryEntry, error) {
	entry, err := s.entries.Get(ctx, userID, wordID)
	if err != nil {
		return nil, newServiceError("get_entry", "failed to load entry", err)
	}
	return entry, nil
}

// ListWords returns one page of the user's dictionary, newest first, with
// each word's conjugations filtered to the user's active tenses. hasMore
// reports whether another page follows.
func (s *Service) ListWords(
	ctx context.Context,
	userID int64,
	filter store.ListFilter,
) (items []Entry, hasMore bool, err error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}

	entries, err := s.entries.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, false, newServiceError("list_words", "failed to list entries", err)
	}
	if len(entries) > filter.PageSize {
		hasMore = true
		entries = entries[:filter.PageSize]
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	active, err := s.settings.GetTenseSettings(ctx, userID)
	if err != nil {
		return nil, false, newServiceError("list_words", "failed to load tense settings", err)
	}
	prefs, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, false, newServiceError("list_words", "failed to load settings", err)
	}

	items = make([]Entry, 0, len(entries))
	for _, e := range entries {
		word, err := s.words.GetByID(ctx, e.WordID)
		if err != nil {
			if errors.Is(err, store.ErrWordNotFound) {
				// The word was purged from the shared cache; skip the
				// orphaned entry rather than failing the whole page.
				s.logger.Warn("dictionary entry references missing word",
					"user_id", userID,
					"word_id", e.WordID)
				continue
			}
			return nil, false, newServiceError("list_words", "failed to load word", err)
		}
		filterWordForms(word, active, prefs.ShowForms)
		items = append(items, Entry{DictionaryEntry: e, Word: word})
	}
	return items, hasMore, nil
}

// filterWordForms applies the user's display preferences to a word before
// it leaves the service. A tense with no stored toggle stays visible.
func filterWordForms(word *domain.Word, active map[domain.Tense]bool, showForms bool) {
	if !showForms {
		word.Conjugations = nil
		return
	}

	kept := word.Conjugations[:0]
	for _, c := range word.Conjugations {
		if on, ok := active[c.Tense]; !ok || on {
			kept = append(kept, c)
		}
	}
	word.Conjugations = kept
}
