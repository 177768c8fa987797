package database

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/store"
)

// UserStore implements store.UserStore over a relational backend.
type UserStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewUserStore creates a UserStore over the given connection or transaction.
func NewUserStore(db store.DBTX, dialect Dialect, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{
		db:      db,
		dialect: dialect,
		logger:  log.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// Upsert implements store.UserStore.Upsert. The user id comes from the
// messaging platform, so creation and refresh share one statement.
func (s *UserStore) Upsert(ctx context.Context, user *domain.User) error {
	query := s.dialect.Rebind(`
		INSERT INTO users (user_id, first_name, username)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = excluded.first_name,
			username = excluded.username
	`)
	_, err := s.db.ExecContext(ctx, query, user.ID, nullStr(user.FirstName), nullStr(user.Username))
	if err != nil {
		return MapError(err)
	}
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := s.dialect.Rebind(`
		SELECT user_id, first_name, username FROM users WHERE user_id = ?
	`)
	var u domain.User
	var firstName, username sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &firstName, &username)
	if err != nil {
		if store.IsNotFound(MapError(err)) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	u.FirstName = strOrEmpty(firstName)
	u.Username = strOrEmpty(username)
	return &u, nil
}
