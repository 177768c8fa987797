// Package review implements the spaced-repetition review flow: collecting
// due words and grading them under a scheduling policy.
package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/domain/srs"
	"github.com/milonlex/milon-api/internal/platform/metrics"
	"github.com/milonlex/milon-api/internal/store"
)

// Sentinel errors returned by the review service.
var (
	// ErrEntryNotFound means the user does not study the word.
	ErrEntryNotFound = errors.New("dictionary entry not found")

	// ErrInvalidOutcome means the grade is not one of the known outcomes.
	ErrInvalidOutcome = errors.New("invalid review outcome")
)

// ServiceError wraps review service failures with the failed operation.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("review service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("review service %s failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrEntryNotFound), errors.Is(err, ErrInvalidOutcome):
		return err
	case errors.Is(err, store.ErrEntryNotFound):
		return ErrEntryNotFound
	case errors.Is(err, srs.ErrInvalidOutcome), errors.Is(err, domain.ErrInvalidReviewOutcome):
		return ErrInvalidOutcome
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

// Service schedules and grades reviews.
type Service struct {
	db       *sql.DB
	entries  store.DictionaryStore
	schedule srs.Schedule
	logger   *slog.Logger
}

// NewService creates the review service.
func NewService(
	db *sql.DB,
	entries store.DictionaryStore,
	schedule srs.Schedule,
	logger *slog.Logger,
) (*Service, error) {
	if db == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if entries == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "entry store cannot be nil"}
	}
	if schedule == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "schedule cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:       db,
		entries:  entries,
		schedule: schedule,
		logger:   logger.With("component", "review_service"),
	}, nil
}

// GetDue returns the user's due entries ordered most-overdue first.
// limit <= 0 means all due entries.
func (s *Service) GetDue(
	ctx context.Context,
	userID int64,
	now time.Time,
	limit int,
) ([]domain.DictionaryEntry, error) {
	due, err := s.entries.ListDue(ctx, userID, now, limit)
	if err != nil {
		return nil, newServiceError("get_due", "failed to list due entries", err)
	}
	return due, nil
}

// Grade applies a review outcome to one entry. The read, the policy step
// and the write run in a single transaction with the row locked, so
// concurrent grades of the same entry serialize instead of clobbering each
// other. Returns the updated entry.
func (s *Service) Grade(
	ctx context.Context,
	userID, wordID int64,
	outcome domain.ReviewOutcome,
	now time.Time,
) (*domain.DictionaryEntry, error) {
	if !outcome.IsValid() {
		return nil, ErrInvalidOutcome
	}

	var updated *domain.DictionaryEntry
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txEntries := s.entries.WithTx(tx)

		entry, err := txEntries.GetForUpdate(ctx, userID, wordID)
		if err != nil {
			return err
		}

		level, nextReviewAt, err := s.schedule.Next(entry.Level, outcome, now)
		if err != nil {
			return err
		}

		if err := txEntries.UpdateReview(ctx, userID, wordID, level, nextReviewAt); err != nil {
			return err
		}

		entry.Level = level
		entry.NextReviewAt = nextReviewAt
		updated = entry
		return nil
	})
	if err != nil {
		return nil, newServiceError("grade", "failed to grade review", err)
	}

	metrics.RecordReview(string(outcome))
	s.logger.Info("review graded",
		"user_id", userID,
		"word_id", wordID,
		"outcome", string(outcome),
		"level", updated.Level,
		"next_review_at", updated.NextReviewAt)
	return updated, nil
}
