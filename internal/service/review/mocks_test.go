package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/store"
)

type mockDictionaryStore struct {
	entries map[[2]int64]*domain.DictionaryEntry

	updated []struct {
		UserID, WordID int64
		Level          int
		NextReviewAt   time.Time
	}
	listDueFn func(ctx context.Context, userID int64, now time.Time, limit int) ([]domain.DictionaryEntry, error)
}

var _ store.DictionaryStore = (*mockDictionaryStore)(nil)

func newMockDictionaryStore() *mockDictionaryStore {
	return &mockDictionaryStore{entries: make(map[[2]int64]*domain.DictionaryEntry)}
}

func (m *mockDictionaryStore) put(entry *domain.DictionaryEntry) {
	m.entries[[2]int64{entry.UserID, entry.WordID}] = entry
}

func (m *mockDictionaryStore) Create(ctx context.Context, entry *domain.DictionaryEntry) error {
	m.put(entry)
	return nil
}

func (m *mockDictionaryStore) Get(
	ctx context.Context,
	userID, wordID int64,
) (*domain.DictionaryEntry, error) {
	if e, ok := m.entries[[2]int64{userID, wordID}]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, store.ErrEntryNotFound
}

func (m *mockDictionaryStore) GetForUpdate(
	ctx context.Context,
	userID, wordID int64,
) (*domain.DictionaryEntry, error) {
	return m.Get(ctx, userID, wordID)
}

func (m *mockDictionaryStore) UpdateReview(
	ctx context.Context,
	userID, wordID int64,
	level int,
	nextReviewAt time.Time,
) error {
	e, ok := m.entries[[2]int64{userID, wordID}]
	if !ok {
		return store.ErrEntryNotFound
	}
	e.Level = level
	e.NextReviewAt = nextReviewAt
	m.updated = append(m.updated, struct {
		UserID, WordID int64
		Level          int
		NextReviewAt   time.Time
	}{userID, wordID, level, nextReviewAt})
	return nil
}

func (m *mockDictionaryStore) Delete(ctx context.Context, userID, wordID int64) error {
	delete(m.entries, [2]int64{userID, wordID})
	return nil
}

func (m *mockDictionaryStore) ListByUser(
	ctx context.Context,
	userID int64,
	filter store.ListFilter,
) ([]domain.DictionaryEntry, error) {
	return nil, nil
}

func (m *mockDictionaryStore) ListDue(
	ctx context.Context,
	userID int64,
	now time.Time,
	limit int,
) ([]domain.DictionaryEntry, error) {
	if m.listDueFn != nil {
		return m.listDueFn(ctx, userID, now, limit)
	}
	var out []domain.DictionaryEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.IsDue(now) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockDictionaryStore) WithTx(tx *sql.Tx) store.DictionaryStore {
	return m
}
