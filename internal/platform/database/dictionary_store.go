package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/platform/logger"
	"github.com/milonlex/milon-api/internal/store"
)

// DictionaryStore implements store.DictionaryStore over a relational backend.
type DictionaryStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewDictionaryStore creates a DictionaryStore over the given connection or
// transaction.
func NewDictionaryStore(db store.DBTX, dialect Dialect, log *slog.Logger) *DictionaryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &DictionaryStore{
		db:      db,
		dialect: dialect,
		logger:  log.With(slog.String("component", "dictionary_store")),
	}
}

var _ store.DictionaryStore = (*DictionaryStore)(nil)

// WithTx implements store.DictionaryStore.WithTx.
func (s *DictionaryStore) WithTx(tx *sql.Tx) store.DictionaryStore {
	return &DictionaryStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Create implements store.DictionaryStore.Create.
func (s *DictionaryStore) Create(ctx context.Context, entry *domain.DictionaryEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("dictionary entry validation failed",
			slog.String("error", err.Error()),
			slog.Int64("user_id", entry.UserID),
			slog.Int64("word_id", entry.WordID))
		return err
	}

	query := s.dialect.Rebind(`
		INSERT INTO user_dictionary (user_id, word_id, added_at, srs_level, next_review_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := s.db.QueryRowContext(ctx, query,
		entry.UserID, entry.WordID, entry.AddedAt, entry.Level, entry.NextReviewAt,
	).Scan(&entry.ID)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicate(mapped) {
			log.Debug("dictionary entry already exists",
				slog.Int64("user_id", entry.UserID),
				slog.Int64("word_id", entry.WordID))
		} else {
			log.Error("failed to create dictionary entry",
				slog.String("error", err.Error()),
				slog.Int64("user_id", entry.UserID),
				slog.Int64("word_id", entry.WordID))
		}
		return mapped
	}

	log.Info("word added to dictionary",
		slog.Int64("user_id", entry.UserID),
		slog.Int64("word_id", entry.WordID))
	return nil
}

const entryColumns = `id, user_id, word_id, added_at, srs_level, next_review_at`

// Get implements store.DictionaryStore.Get.
func (s *DictionaryStore) Get(ctx context.Context, userID, wordID int64) (*domain.DictionaryEntry, error) {
	query := s.dialect.Rebind(`
		SELECT ` + entryColumns + `
		FROM user_dictionary
		WHERE user_id = ? AND word_id = ?
	`)
	return s.scanEntry(s.db.QueryRowContext(ctx, query, userID, wordID))
}

// GetForUpdate implements store.DictionaryStore.GetForUpdate. On backends
// without FOR UPDATE the read is plain; SQLite serializes writers anyway.
func (s *DictionaryStore) GetForUpdate(ctx context.Context, userID, wordID int64) (*domain.DictionaryEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM user_dictionary
		WHERE user_id = ? AND word_id = ?
	`
	if s.dialect.SupportsForUpdate() {
		query += ` FOR UPDATE`
	}
	return s.scanEntry(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), userID, wordID))
}

// UpdateReview implements store.DictionaryStore.UpdateReview.
func (s *DictionaryStore) UpdateReview(
	ctx context.Context,
	userID, wordID int64,
	level int,
	nextReviewAt time.Time,
) error {
	query := s.dialect.Rebind(`
		UPDATE user_dictionary
		SET srs_level = ?, next_review_at = ?
		WHERE user_id = ? AND word_id = ?
	`)
	result, err := s.db.ExecContext(ctx, query, level, nextReviewAt, userID, wordID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrEntryNotFound)
}

// Delete implements store.DictionaryStore.Delete.
func (s *DictionaryStore) Delete(ctx context.Context, userID, wordID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		DELETE FROM user_dictionary WHERE user_id = ? AND word_id = ?
	`)
	result, err := s.db.ExecContext(ctx, query, userID, wordID)
	if err != nil {
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrEntryNotFound); err != nil {
		return err
	}

	log.Info("word removed from dictionary",
		slog.Int64("user_id", userID),
		slog.Int64("word_id", wordID))
	return nil
}

// ListByUser implements store.DictionaryStore.ListByUser. One extra row
// beyond the page size is returned when more pages exist.
func (s *DictionaryStore) ListByUser(
	ctx context.Context,
	userID int64,
	filter store.ListFilter,
) ([]domain.DictionaryEntry, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}

	query := s.dialect.Rebind(`
		SELECT ` + entryColumns + `
		FROM user_dictionary
		WHERE user_id = ?
		ORDER BY added_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := s.db.QueryContext(ctx, query, userID, pageSize+1, page*pageSize)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return s.collectEntries(rows)
}

// ListDue implements store.DictionaryStore.ListDue.
func (s *DictionaryStore) ListDue(
	ctx context.Context,
	userID int64,
	now time.Time,
	limit int,
) ([]domain.DictionaryEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM user_dictionary
		WHERE user_id = ? AND next_review_at <= ?
		ORDER BY next_review_at ASC, word_id ASC
	`
	args := []any{userID, now}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return s.collectEntries(rows)
}

func (s *DictionaryStore) scanEntry(row *sql.Row) (*domain.DictionaryEntry, error) {
	var e domain.DictionaryEntry
	var next sql.NullTime
	err := row.Scan(&e.ID, &e.UserID, &e.WordID, &e.AddedAt, &e.Level, &next)
	if err != nil {
		if store.IsNotFound(MapError(err)) {
			return nil, store.ErrEntryNotFound
		}
		return nil, MapError(err)
	}
	if next.Valid {
		e.NextReviewAt = next.Time
	}
	return &e, nil
}

func (s *DictionaryStore) collectEntries(rows *sql.Rows) ([]domain.DictionaryEntry, error) {
	var out []domain.DictionaryEntry
	for rows.Next() {
		var e domain.DictionaryEntry
		var next sql.NullTime
		if err := rows.Scan(&e.ID, &e.UserID, &e.WordID, &e.AddedAt, &e.Level, &next); err != nil {
			return nil, MapError(err)
		}
		if next.Valid {
			e.NextReviewAt = next.Time
		}
		out = append(out, e)
	}
	return out, MapError(rows.Err())
}
