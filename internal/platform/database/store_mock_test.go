package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/store"
)

// newMockDB builds a sqlmock-backed connection with regexp query matching,
// for driving failure paths the real backend will not produce on demand.
func newMockDB(t *testing.T) (*WordStore, *DictionaryStore, *UserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ws := NewWordStore(db, DialectSQLite, nil)
	ds := NewDictionaryStore(db, DialectSQLite, nil)
	us := NewUserStore(db, DialectSQLite, nil)
	return ws, ds, us, mock
}

func TestWordStoreGetByIDQueryError(t *testing.T) {
	t.Parallel()

	ws, _, _, mock := newMockDB(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT .* FROM cached_words").WillReturnError(boom)

	_, err := ws.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordStoreCreateQueryError(t *testing.T) {
	t.Parallel()

	ws, _, _, mock := newMockDB(t)
	boom := errors.New("disk full")
	mock.ExpectQuery("INSERT INTO cached_words").WillReturnError(boom)

	word := &domain.Word{
		Hebrew:           "שלום",
		NormalizedHebrew: "שלום",
		PartOfSpeech:     domain.PartOfSpeechNoun,
	}
	err := ws.Create(context.Background(), word)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWordStoreCreateInvalidWordSkipsQuery(t *testing.T) {
	t.Parallel()

	ws, _, _, mock := newMockDB(t)

	err := ws.Create(context.Background(), &domain.Word{Hebrew: "שלום"})
	assert.ErrorIs(t, err, domain.ErrWordNormalizedEmpty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDictionaryStoreUpdateReviewExecError(t *testing.T) {
	t.Parallel()

	_, ds, _, mock := newMockDB(t)
	boom := errors.New("database is locked")
	mock.ExpectExec("UPDATE user_dictionary").WillReturnError(boom)

	err := ds.UpdateReview(context.Background(), 1, 2, 1, time.Now())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDictionaryStoreListDueRowsError(t *testing.T) {
	t.Parallel()

	_, ds, _, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "word_id", "added_at", "srs_level", "next_review_at",
	}).
		AddRow(1, 2, 3, time.Now(), 0, time.Now()).
		RowError(0, errors.New("torn page"))
	mock.ExpectQuery("SELECT .* FROM user_dictionary").WillReturnRows(rows)

	_, err := ds.ListDue(context.Background(), 2, time.Now(), 0)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreUpsertExecError(t *testing.T) {
	t.Parallel()

	_, _, us, mock := newMockDB(t)
	boom := errors.New("read-only database")
	mock.ExpectExec("INSERT INTO users").WillReturnError(boom)

	err := us.Upsert(context.Background(), &domain.User{ID: 1, FirstName: "Noa"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDictionaryStoreGetNotFound(t *testing.T) {
	t.Parallel()

	_, ds, _, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .* FROM user_dictionary").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "word_id", "added_at", "srs_level", "next_review_at",
		}))

	_, err := ds.Get(context.Background(), 1, 2)
	assert.ErrorIs(t, err, store.ErrEntryNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
