package dictionary

import (
	"context"
	"database/sql"
	"time"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/store"
)

type mockUserStore struct {
	upserted []domain.User
	upsertFn func(ctx context.Context, user *domain.User) error
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Upsert(ctx context.Context, user *domain.User) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	m.upserted = append(m.upserted, *user)
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

type mockWordStore struct {
	words map[int64]*domain.Word
}

var _ store.WordStore = (*mockWordStore)(nil)

func (m *mockWordStore) Create(ctx context.Context, word *domain.Word) error {
	return nil
}

func (m *mockWordStore) GetByID(ctx context.Context, id int64) (*domain.Word, error) {
	if w, ok := m.words[id]; ok {
		copied := *w
		copied.Conjugations = append([]domain.Conjugation(nil), w.Conjugations...)
		return &copied, nil
	}
	return nil, store.ErrWordNotFound
}

func (m *mockWordStore) FindByNormalized(
	ctx context.Context,
	norm string,
	pos domain.PartOfSpeech,
) (*domain.Word, error) {
	return nil, store.ErrWordNotFound
}

func (m *mockWordStore) ListPartsOfSpeech(
	ctx context.Context,
	norm string,
) ([]domain.PartOfSpeech, error) {
	return nil, nil
}

func (m *mockWordStore) ReplaceTranslations(
	ctx context.Context,
	wordID int64,
	translations []domain.Translation,
) error {
	return nil
}

func (m *mockWordStore) ReplaceConjugations(
	ctx context.Context,
	wordID int64,
	conjugations []domain.Conjugation,
) error {
	return nil
}

func (m *mockWordStore) Touch(ctx context.Context, wordID int64) error {
	return nil
}

func (m *mockWordStore) Delete(ctx context.Context, id int64) error {
	return nil
}

func (m *mockWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return m
}

type mockDictionaryStore struct {
	createFn     func(ctx context.Context, entry *domain.DictionaryEntry) error
	getFn        func(ctx context.Context, userID, wordID int64) (*domain.DictionaryEntry, error)
	deleteFn     func(ctx context.Context, userID, wordID int64) error
	listByUserFn func(ctx context.Context, userID int64, filter store.ListFilter) ([]domain.DictionaryEntry, error)
}

var _ store.DictionaryStore = (*mockDictionaryStore)(nil)

func (m *mockDictionaryStore) Create(ctx context.Context, entry *domain.DictionaryEntry) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	entry.ID = 1
	return nil
}

func (m *mockDictionaryStore) Get(
	ctx context.Context,
	userID, wordID int64,
) (*domain.DictionaryEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, wordID)
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
	return nil
}

func (m *mockDictionaryStore) Delete(ctx context.Context, userID, wordID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, wordID)
	}
	return nil
}

func (m *mockDictionaryStore) ListByUser(
	ctx context.Context,
	userID int64,
	filter store.ListFilter,
) ([]domain.DictionaryEntry, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, filter)
	}
	return nil, nil
}

func (m *mockDictionaryStore) ListDue(
	ctx context.Context,
	userID int64,
	now time.Time,
	limit int,
) ([]domain.DictionaryEntry, error) {
	return nil, nil
}

func (m *mockDictionaryStore) WithTx(tx *sql.Tx) store.DictionaryStore {
	return m
}

type mockSettingsStore struct {
	tenses    map[domain.Tense]bool
	showForms bool
}

var _ store.SettingsStore = (*mockSettingsStore)(nil)

func (m *mockSettingsStore) GetTenseSettings(
	ctx context.Context,
	userID int64,
) (map[domain.Tense]bool, error) {
	return m.tenses, nil
}

func (m *mockSettingsStore) SetTense(
	ctx context.Context,
	userID int64,
	tense domain.Tense,
	active bool,
) error {
	return nil
}

func (m *mockSettingsStore) InitTenseSettings(ctx context.Context, userID int64) error {
	return nil
}

func (m *mockSettingsStore) GetSettings(
	ctx context.Context,
	userID int64,
) (*domain.Settings, error) {
	return &domain.Settings{UserID: userID, ShowForms: m.showForms}, nil
}

func (m *mockSettingsStore) SetShowForms(
	ctx context.Context,
	userID int64,
	show bool,
) error {
	return nil
}

func (m *mockSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return m
}
