// Package words implements the shared word cache: lookups against the
// relational store fronted by the advisory Redis cache, with the external
// dictionary as the source of truth on a miss.
package words

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/hebrew"
	"github.com/milonlex/milon-api/internal/platform/metrics"
	"github.com/milonlex/milon-api/internal/platform/rediscache"
	"github.com/milonlex/milon-api/internal/provider"
	"github.com/milonlex/milon-api/internal/store"
)

// Sentinel errors returned by the word service.
var (
	// ErrWordNotFound means neither the cache nor the external dictionary
	// knows the word.
	ErrWordNotFound = errors.New("word not found")

	// ErrAmbiguousWord means the surface form matches several cached parts
	// of speech and the caller did not pick one.
	ErrAmbiguousWord = errors.New("word is ambiguous, part of speech required")

	// ErrProviderUnavailable means the external dictionary could not be
	// consulted; the cache state is unchanged.
	ErrProviderUnavailable = errors.New("dictionary provider unavailable")

	// ErrEmptyWord means the surface form is empty after normalization.
	ErrEmptyWord = errors.New("word is empty")
)

// ServiceError wraps word service failures with the failed operation.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("word service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("word service %s failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError maps store and provider sentinels onto service sentinels
// and wraps everything else.
func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrWordNotFound),
		errors.Is(err, ErrAmbiguousWord),
		errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, ErrEmptyWord):
		return err
	case errors.Is(err, store.ErrWordNotFound), errors.Is(err, provider.ErrWordNotFound):
		return ErrWordNotFound
	case errors.Is(err, store.ErrAmbiguous):
		return ErrAmbiguousWord
	case errors.Is(err, provider.ErrUnavailable):
		return ErrProviderUnavailable
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

// Service is the word cache facade.
type Service struct {
	db       *sql.DB
	words    store.WordStore
	provider provider.Provider
	cache    *rediscache.Cache
	logger   *slog.Logger
}

// NewService creates the word service. cache may be nil or disabled.
func NewService(
	db *sql.DB,
	words store.WordStore,
	prov provider.Provider,
	cache *rediscache.Cache,
	logger *slog.Logger,
) (*Service, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if words == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "word store cannot be nil"}
	}
	if prov == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "provider cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:       db,
		words:    words,
		provider: prov,
		cache:    cache,
		logger:   logger.With("component", "word_service"),
	}, nil
}

// Lookup resolves a surface form against the cache only. The surface form
// is normalized before matching, so pointed and unpointed spellings hit the
// same rows. Returns ErrWordNotFound on a miss and ErrAmbiguousWord when
// the form matches several parts of speech and pos is PartOfSpeechAny.
func (s *Service) Lookup(
	ctx context.Context,
	surface string,
	pos domain.PartOfSpeech,
) (*domain.Word, error) {
	norm := hebrew.Normalize(surface)
	if norm == "" {
		return nil, ErrEmptyWord
	}

	if pos != domain.PartOfSpeechAny {
		if word, err := s.cache.GetWord(ctx, rediscache.Key(norm, pos)); err == nil {
			metrics.RecordLookup(metrics.SourceRedis)
			return word, nil
		}
	}

	word, err := s.words.FindByNormalized(ctx, norm, pos)
	if err != nil {
		if errors.Is(err, store.ErrAmbiguous) {
			s.logger.Debug("ambiguous lookup", "normalized", norm)
		}
		return nil, newServiceError("lookup", "failed to find word", err)
	}

	metrics.RecordLookup(metrics.SourceCache)
	s.cache.SetWord(ctx, rediscache.Key(norm, word.PartOfSpeech), word)
	return word, nil
}

// PartsOfSpeech lists the cached parts of speech for a surface form, for
// disambiguation prompts after ErrAmbiguousWord.
func (s *Service) PartsOfSpeech(ctx context.Context, surface string) ([]domain.PartOfSpeech, error) {
	norm := hebrew.Normalize(surface)
	if norm == "" {
		return nil, ErrEmptyWord
	}
	poses, err := s.words.ListPartsOfSpeech(ctx, norm)
	if err != nil {
		return nil, newServiceError("parts_of_speech", "failed to list parts of speech", err)
	}
	return poses, nil
}

// GetOrFetch resolves a surface form, consulting the external dictionary on
// a cache miss and persisting the result. The provider is called at most
// once per invocation and never inside a transaction. When a concurrent
// call cached the same word first, the fetched copy is dropped and the
// winner is returned.
func (s *Service) GetOrFetch(
	ctx context.Context,
	surface string,
	pos domain.PartOfSpeech,
) (*domain.Word, error) {
	word, err := s.Lookup(ctx, surface, pos)
	if err == nil {
		return word, nil
	}
	if !errors.Is(err, ErrWordNotFound) {
		return nil, err
	}

	norm := hebrew.Normalize(surface)
	info, err := s.fetch(ctx, surface, pos)
	if err != nil {
		return nil, err
	}

	word = wordFromInfo(info)
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.words.WithTx(tx).Create(ctx, word)
	})
	if err != nil {
		if store.IsDuplicate(err) {
			// Another call cached the word between our miss and our insert.
			s.logger.Info("conflict resolved",
				"normalized", word.NormalizedHebrew,
				"part_of_speech", string(word.PartOfSpeech))
			winner, readErr := s.words.FindByNormalized(ctx, word.NormalizedHebrew, word.PartOfSpeech)
			if readErr != nil {
				return nil, newServiceError("get_or_fetch", "failed to re-read winner", readErr)
			}
			return winner, nil
		}
		return nil, newServiceError("get_or_fetch", "failed to cache word", err)
	}

	s.invalidate(ctx, norm, word)
	s.logger.Info("word fetched and cached",
		"word_id", word.ID,
		"normalized", word.NormalizedHebrew,
		"part_of_speech", string(word.PartOfSpeech))
	return word, nil
}

// Refresh re-fetches a cached word and replaces its translations and
// conjugations in one transaction. The word identity, its id and its
// dictionary entries are untouched.
func (s *Service) Refresh(ctx context.Context, wordID int64) (*domain.Word, error) {
	word, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, newServiceError("refresh", "failed to load word", err)
	}

	info, err := s.fetch(ctx, word.Hebrew, word.PartOfSpeech)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txWords := s.words.WithTx(tx)
		if err := txWords.ReplaceTranslations(ctx, wordID, info.Translations); err != nil {
			return err
		}
		if err := txWords.ReplaceConjugations(ctx, wordID, info.Conjugations); err != nil {
			return err
		}
		return txWords.Touch(ctx, wordID)
	})
	if err != nil {
		return nil, newServiceError("refresh", "failed to replace word data", err)
	}

	s.invalidate(ctx, word.NormalizedHebrew, word)
	s.logger.Info("word refreshed", "word_id", wordID)

	word, err = s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, newServiceError("refresh", "failed to reload word", err)
	}
	return word, nil
}

// fetch calls the provider with metrics around it.
func (s *Service) fetch(
	ctx context.Context,
	surface string,
	pos domain.PartOfSpeech,
) (*provider.WordInfo, error) {
	start := time.Now()
	info, err := s.provider.Fetch(ctx, surface, pos)
	metrics.ObserveProviderFetch(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, provider.ErrWordNotFound) {
			metrics.RecordProviderError(metrics.ReasonNotFound)
		} else {
			metrics.RecordProviderError(metrics.ReasonUnavailable)
		}
		return nil, newServiceError("fetch", "provider lookup failed", err)
	}
	metrics.RecordLookup(metrics.SourceProvider)
	return info, nil
}

// invalidate drops advisory cache entries that may now be stale.
func (s *Service) invalidate(ctx context.Context, norm string, word *domain.Word) {
	s.cache.Invalidate(ctx,
		rediscache.Key(norm, word.PartOfSpeech),
		rediscache.Key(word.NormalizedHebrew, word.PartOfSpeech),
	)
}

// wordFromInfo converts a provider result into a storable word, deriving
// the normalized forms.
func wordFromInfo(info *provider.WordInfo) *domain.Word {
	word := &domain.Word{
		Hebrew:           info.Hebrew,
		NormalizedHebrew: hebrew.Normalize(info.Hebrew),
		Transcription:    info.Transcription,
		PartOfSpeech:     info.PartOfSpeech,
		Root:             info.Root,
		Binyan:           info.Binyan,
		Gender:           info.Gender,
		SingularForm:     info.SingularForm,
		PluralForm:       info.PluralForm,
		MasculineForm:    info.MasculineForm,
		FeminineForm:     info.FeminineForm,
		Translations:     info.Translations,
		Conjugations:     info.Conjugations,
	}
	for i := range word.Conjugations {
		c := &word.Conjugations[i]
		if c.NormalizedForm == "" {
			c.NormalizedForm = hebrew.Normalize(c.HebrewForm)
		}
	}
	return word
}
