package words

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/provider"
	"github.com/milonlex/milon-api/internal/store"
)

func newTestService(
	t *testing.T,
	ws *mockWordStore,
	p *mockProvider,
) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := NewService(db, ws, p, nil, nil)
	require.NoError(t, err)
	return svc, mock
}

func cachedShalom() *domain.Word {
	return &domain.Word{
		ID:               1,
		Hebrew:           "שָׁלוֹם",
		NormalizedHebrew: "שלום",
		PartOfSpeech:     domain.PartOfSpeechNoun,
		Translations:     []domain.Translation{{ID: 1, Text: "мир", IsPrimary: true}},
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewService(nil, &mockWordStore{}, &mockProvider{}, nil, nil)
	assert.Error(t, err)
	_, err = NewService(db, nil, &mockProvider{}, nil, nil)
	assert.Error(t, err)
	_, err = NewService(db, &mockWordStore{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestLookupHit(t *testing.T) {
	t.Parallel()

	ws := &mockWordStore{
		findByNormalizedFn: func(ctx context.Context, norm string, pos domain.PartOfSpeech) (*domain.Word, error) {
			assert.Equal(t, "שלום", norm)
			assert.Equal(t, domain.PartOfSpeechAny, pos)
			return cachedShalom(), nil
		},
	}
	p := &mockProvider{}
	svc, _ := newTestService(t, ws, p)

	// Pointed input normalizes to the cached row.
	word, err := svc.Lookup(context.Background(), " שָׁלוֹם ", domain.PartOfSpeechAny)
	require.NoError(t, err)
	assert.Equal(t, int64(1), word.ID)
	assert.Zero(t, p.fetchCalls)
}

func TestLookupMiss(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &mockWordStore{}, &mockProvider{})

	_, err := svc.Lookup(context.Background(), "חתול", domain.PartOfSpeechAny)
	assert.ErrorIs(t, err, ErrWordNotFound)
}

func TestLookupAmbiguous(t *testing.T) {
	t.Parallel()

	ws := &mockWordStore{
		findByNormalizedFn: func(ctx context.Context, norm string, pos domain.PartOfSpeech) (*domain.Word, error) {
			if pos == domain.PartOfSpeechAny {
				return nil, store.ErrAmbiguous
			}
			return cachedShalom(), nil
		},
	}
	svc, _ := newTestService(t, ws, &mockProvider{})

	_, err := svc.Lookup(context.Background(), "ספר", domain.PartOfSpeechAny)
	assert.ErrorIs(t, err, ErrAmbiguousWord)

	// Naming the part of speech resolves it.
	word, err := svc.Lookup(context.Background(), "ספר", domain.PartOfSpeechNoun)
	require.NoError(t, err)
	assert.NotNil(t, word)
}

func TestLookupEmptyAfterNormalization(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &mockWordStore{}, &mockProvider{})

	// Pure niqqud input normalizes to nothing.
	_, err := svc.Lookup(context.Background(), "ְֱ", domain.PartOfSpeechAny)
	assert.ErrorIs(t, err, ErrEmptyWord)
}

func TestGetOrFetchCachesOnMiss(t *testing.T) {
	t.Parallel()

	var created *domain.Word
	ws := &mockWordStore{
		createFn: func(ctx context.Context, word *domain.Word) error {
			word.ID = 7
			created = word
			return nil
		},
	}
	p := &mockProvider{
		fetchFn: func(ctx context.Context, surface string, pos domain.PartOfSpeech) (*provider.WordInfo, error) {
			return &provider.WordInfo{
				Hebrew:       "שָׁלוֹם",
				PartOfSpeech: domain.PartOfSpeechNoun,
				Translations: []domain.Translation{{Text: "мир", IsPrimary: true}},
			}, nil
		},
	}
	svc, mock := newTestService(t, ws, p)
	mock.ExpectBegin()
	mock.ExpectCommit()

	word, err := svc.GetOrFetch(context.Background(), "שלום", domain.PartOfSpeechAny)
	require.NoError(t, err)
	assert.Equal(t, int64(7), word.ID)
	assert.Equal(t, 1, p.fetchCalls)

	require.NotNil(t, created)
	assert.Equal(t, "שלום", created.NormalizedHebrew)
	assert.Equal(t, domain.PartOfSpeechNoun, created.PartOfSpeech)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrFetchSkipsProviderOnHit(t *testing.T) {
	t.Parallel()

	ws := &mockWordStore{
		findByNormalizedFn: func(ctx context.Context, norm string, pos domain.PartOfSpeech) (*domain.Word, error) {
			return cachedShalom(), nil
		},
	}
	p := &mockProvider{}
	svc, _ := newTestService(t, ws, p)

	word, err := svc.GetOrFetch(context.Background(), "שלום", domain.PartOfSpeechAny)
	require.NoError(t, err)
	assert.Equal(t, int64(1), word.ID)
	assert.Zero(t, p.fetchCalls)
	assert.Zero(t, ws.createCalls)
}

func TestGetOrFetchResolvesInsertRace(t *testing.T) {
	t.Parallel()

	winner := cachedShalom()
	winner.ID = 42

	findCalls := 0
	ws := &mockWordStore{
		createFn: func(ctx context.Context, word *domain.Word) error {
			return store.ErrDuplicate
		},
		findByNormalizedFn: func(ctx context.Context, norm string, pos domain.PartOfSpeech) (*domain.Word, error) {
			findCalls++
			if findCalls == 1 {
				// Initial lookup misses; the concurrent writer lands after.
				return nil, store.ErrWordNotFound
			}
			return winner, nil
		},
	}
	p := &mockProvider{
		fetchFn: func(ctx context.Context, surface string, pos domain.PartOfSpeech) (*provider.WordInfo, error) {
			return &provider.WordInfo{
				Hebrew:       "שָׁלוֹם",
				PartOfSpeech: domain.PartOfSpeechNoun,
				Translations: []domain.Translation{{Text: "мир", IsPrimary: true}},
			}, nil
		},
	}
	svc, mock := newTestService(t, ws, p)
	mock.ExpectBegin()
	mock.ExpectRollback()

	word, err := svc.GetOrFetch(context.Background(), "שלום", domain.PartOfSpeechAny)
	require.NoError(t, err)
	assert.Equal(t, int64(42), word.ID)
	assert.Equal(t, 1, p.fetchCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrFetchProviderFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fetch   error
		wantErr error
	}{
		{"unknown word", provider.ErrWordNotFound, ErrWordNotFound},
		{"provider down", provider.ErrUnavailable, ErrProviderUnavailable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ws := &mockWordStore{}
			p := &mockProvider{
				fetchFn: func(ctx context.Context, surface string, pos domain.PartOfSpeech) (*provider.WordInfo, error) {
					return nil, tc.fetch
				},
			}
			svc, _ := newTestService(t, ws, p)

			_, err := svc.GetOrFetch(context.Background(), "שלום", domain.PartOfSpeechAny)
			assert.ErrorIs(t, err, tc.wantErr)
			// Nothing was written.
			assert.Zero(t, ws.createCalls)
		})
	}
}

func TestRefreshReplacesData(t *testing.T) {
	t.Parallel()

	stored := cachedShalom()
	ws := &mockWordStore{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Word, error) {
			return stored, nil
		},
	}
	p := &mockProvider{
		fetchFn: func(ctx context.Context, surface string, pos domain.PartOfSpeech) (*provider.WordInfo, error) {
			assert.Equal(t, stored.Hebrew, surface)
			assert.Equal(t, stored.PartOfSpeech, pos)
			return &provider.WordInfo{
				Hebrew:       stored.Hebrew,
				PartOfSpeech: stored.PartOfSpeech,
				Translations: []domain.Translation{
					{Text: "мир", IsPrimary: true},
					{Text: "благополучие"},
				},
			}, nil
		},
	}
	svc, mock := newTestService(t, ws, p)
	mock.ExpectBegin()
	mock.ExpectCommit()

	word, err := svc.Refresh(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, word)

	require.Len(t, ws.replacedTrans, 1)
	assert.Len(t, ws.replacedTrans[0], 2)
	require.Len(t, ws.replacedConj, 1)
	assert.Equal(t, []int64{1}, ws.touched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshUnknownWord(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &mockWordStore{}, &mockProvider{})

	_, err := svc.Refresh(context.Background(), 404)
	assert.ErrorIs(t, err, ErrWordNotFound)
}

func TestServiceErrorWrapping(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk failure")
	err := newServiceError("lookup", "failed to find word", boom)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "lookup", svcErr.Operation)
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, newServiceError("lookup", "no problem", nil))
	assert.ErrorIs(t, newServiceError("lookup", "", store.ErrWordNotFound), ErrWordNotFound)
}
