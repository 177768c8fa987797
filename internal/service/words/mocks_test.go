package words

import (
	"context"
	"database/sql"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/provider"
	"github.com/milonlex/milon-api/internal/store"
)

// mockWordStore is a hand-rolled store.WordStore with per-method hooks.
type mockWordStore struct {
	createFn            func(ctx context.Context, word *domain.Word) error
	getByIDFn           func(ctx context.Context, id int64) (*domain.Word, error)
	findByNormalizedFn  func(ctx context.Context, norm string, pos domain.PartOfSpeech) (*domain.Word, error)
	listPartsOfSpeechFn func(ctx context.Context, norm string) ([]domain.PartOfSpeech, error)

	createCalls     int
	findCalls       int
	replacedTrans   [][]domain.Translation
	replacedConj    [][]domain.Conjugation
	touched         []int64
	replaceTransErr error
	replaceConjErr  error
	touchErr        error
}

var _ store.WordStore = (*mockWordStore)(nil)

func (m *mockWordStore) Create(ctx context.Context, word *domain.Word) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, word)
	}
	word.ID = 1
	return nil
}

func (m *mockWordStore) GetByID(ctx context.Context, id int64) (*domain.Word, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrWordNotFound
}

func (m *mockWordStore) FindByNormalized(
	ctx context.Context,
	norm string,
	pos domain.PartOfSpeech,
) (*domain.Word, error) {
	m.findCalls++
	if m.findByNormalizedFn != nil {
		return m.findByNormalizedFn(ctx, norm, pos)
	}
	return nil, store.ErrWordNotFound
}

func (m *mockWordStore) ListPartsOfSpeech(
	ctx context.Context,
	norm string,
) ([]domain.PartOfSpeech, error) {
	if m.listPartsOfSpeechFn != nil {
		return m.listPartsOfSpeechFn(ctx, norm)
	}
	return nil, nil
}

func (m *mockWordStore) ReplaceTranslations(
	ctx context.Context,
	wordID int64,
	translations []domain.Translation,
) error {
	if m.replaceTransErr != nil {
		return m.replaceTransErr
	}
	m.replacedTrans = append(m.replacedTrans, translations)
	return nil
}

func (m *mockWordStore) ReplaceConjugations(
	ctx context.Context,
	wordID int64,
	conjugations []domain.Conjugation,
) error {
	if m.replaceConjErr != nil {
		return m.replaceConjErr
	}
	m.replacedConj = append(m.replacedConj, conjugations)
	return nil
}

func (m *mockWordStore) Touch(ctx context.Context, wordID int64) error {
	if m.touchErr != nil {
		return m.touchErr
	}
	m.touched = append(m.touched, wordID)
	return nil
}

func (m *mockWordStore) Delete(ctx context.Context, id int64) error {
	return nil
}

func (m *mockWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return m
}

// mockProvider is a hand-rolled provider.Provider.
type mockProvider struct {
	fetchFn    func(ctx context.Context, surface string, pos domain.PartOfSpeech) (*provider.WordInfo, error)
	fetchCalls int
}

var _ provider.Provider = (*mockProvider)(nil)

func (m *mockProvider) Fetch(
	ctx context.Context,
	surface string,
	pos domain.PartOfSpeech,
) (*provider.WordInfo, error) {
	m.fetchCalls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, surface, pos)
	}
	return nil, provider.ErrWordNotFound
}
