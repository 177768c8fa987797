package database

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/store"
)

// SettingsStore implements store.SettingsStore over a relational backend.
type SettingsStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewSettingsStore creates a SettingsStore over the given connection or
// transaction.
func NewSettingsStore(db store.DBTX, dialect Dialect, log *slog.Logger) *SettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SettingsStore{
		db:      db,
		dialect: dialect,
		logger:  log.With(slog.String("component", "settings_store")),
	}
}

var _ store.SettingsStore = (*SettingsStore)(nil)

// WithTx implements store.SettingsStore.WithTx.
func (s *SettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &SettingsStore{db: tx, dialect: s.dialect, logger: s.logger}
}

// GetTenseSettings implements store.SettingsStore.GetTenseSettings.
func (s *SettingsStore) GetTenseSettings(ctx context.Context, userID int64) (map[domain.Tense]bool, error) {
	query := s.dialect.Rebind(`
		SELECT tense, active FROM user_tense_settings WHERE user_id = ?
	`)
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	settings := make(map[domain.Tense]bool)
	for rows.Next() {
		var tense string
		var active bool
		if err := rows.Scan(&tense, &active); err != nil {
			return nil, MapError(err)
		}
		settings[domain.Tense(tense)] = active
	}
	return settings, MapError(rows.Err())
}

// SetTense implements store.SettingsStore.SetTense.
func (s *SettingsStore) SetTense(ctx context.Context, userID int64, tense domain.Tense, active bool) error {
	if _, err := domain.ParseTense(string(tense)); err != nil {
		return err
	}
	query := s.dialect.Rebind(`
		INSERT INTO user_tense_settings (user_id, tense, active)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, tense) DO UPDATE SET active = excluded.active
	`)
	_, err := s.db.ExecContext(ctx, query, userID, string(tense), active)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// InitTenseSettings implements store.SettingsStore.InitTenseSettings.
// Existing toggles are left alone so re-initialization is harmless.
func (s *SettingsStore) InitTenseSettings(ctx context.Context, userID int64) error {
	query := s.dialect.Rebind(`
		INSERT INTO user_tense_settings (user_id, tense, active)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, tense) DO NOTHING
	`)
	for _, tense := range domain.Tenses() {
		if _, err := s.db.ExecContext(ctx, query, userID, string(tense), true); err != nil {
			return MapError(err)
		}
	}
	return nil
}

// GetSettings implements store.SettingsStore.GetSettings.
func (s *SettingsStore) GetSettings(ctx context.Context, userID int64) (*domain.Settings, error) {
	query := s.dialect.Rebind(`
		SELECT show_forms FROM user_settings WHERE user_id = ?
	`)
	settings := &domain.Settings{UserID: userID}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&settings.ShowForms)
	if err != nil {
		if store.IsNotFound(MapError(err)) {
			return settings, nil
		}
		return nil, MapError(err)
	}
	return settings, nil
}

// SetShowForms implements store.SettingsStore.SetShowForms.
func (s *SettingsStore) SetShowForms(ctx context.Context, userID int64, show bool) error {
	log := s.logger

	query := s.dialect.Rebind(`
		INSERT INTO user_settings (user_id, show_forms)
		VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET show_forms = excluded.show_forms
	`)
	_, err := s.db.ExecContext(ctx, query, userID, show)
	if err != nil {
		return MapError(err)
	}

	log.Debug("show_forms updated",
		slog.Int64("user_id", userID),
		slog.Bool("show_forms", show))
	return nil
}
