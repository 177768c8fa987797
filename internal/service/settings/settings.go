// Package settings implements per-user display preferences: which verb
// tenses show up in conjugation output and whether grammatical forms are
// rendered at all.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/milonlex/milon-api/internal/domain"
	"github.com/milonlex/milon-api/internal/store"
)

// ErrInvalidTense means the tense key is not one of the known tenses.
var ErrInvalidTense = errors.New("invalid tense")

// ServiceError wraps settings service failures with the failed operation.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("settings service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("settings service %s failed: %s", e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidTense):
		return err
	case errors.Is(err, domain.ErrInvalidTense):
		return ErrInvalidTense
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

// Preferences is the full preference view for one user.
type Preferences struct {
	Settings domain.Settings
	Tenses   map[domain.Tense]bool
}

// Service manages user preferences.
type Service struct {
	settings store.SettingsStore
	logger   *slog.Logger
}

// NewService creates the settings service.
func NewService(settings store.SettingsStore, logger *slog.Logger) (*Service, error) {
	if settings == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "settings store cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		settings: settings,
		logger:   logger.With("component", "settings_service"),
	}, nil
}

// Get returns the user's preferences, materializing default tense rows on
// first access so later toggles have something to flip.
func (s *Service) Get(ctx context.Context, userID int64) (*Preferences, error) {
	if err := s.settings.InitTenseSettings(ctx, userID); err != nil {
		return nil, newServiceError("get", "failed to initialize tense settings", err)
	}

	tenses, err := s.settings.GetTenseSettings(ctx, userID)
	if err != nil {
		return nil, newServiceError("get", "failed to load tense settings", err)
	}
	prefs, err := s.settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, newServiceError("get", "failed to load settings", err)
	}

	return &Preferences{Settings: *prefs, Tenses: tenses}, nil
}

// ToggleTense flips one tense's visibility and returns the stored setting.
// A tense never toggled before counts as active, so the first toggle
// hides it.
func (s *Service) ToggleTense(
	ctx context.Context,
	userID int64,
	tense domain.Tense,
) (*domain.TenseSetting, error) {
	if _, err := domain.ParseTense(string(tense)); err != nil {
		return nil, ErrInvalidTense
	}

	current, err := s.settings.GetTenseSettings(ctx, userID)
	if err != nil {
		return nil, newServiceError("toggle_tense", "failed to load tense settings", err)
	}

	next := !IsVisible(current, tense)
	if err := s.settings.SetTense(ctx, userID, tense, next); err != nil {
		return nil, newServiceError("toggle_tense", "failed to store tense setting", err)
	}

	s.logger.Info("tense toggled",
		"user_id", userID,
		"tense", string(tense),
		"active", next)
	return &domain.TenseSetting{UserID: userID, Tense: tense, Active: next}, nil
}

// SetShowForms stores the grammatical-forms display flag.
func (s *Service) SetShowForms(ctx context.Context, userID int64, show bool) error {
	if err := s.settings.SetShowForms(ctx, userID, show); err != nil {
		return newServiceError("set_show_forms", "failed to store flag", err)
	}
	return nil
}

// IsVisible reports whether a tense is visible under the given toggles.
// A tense with no stored toggle defaults to visible.
func IsVisible(active map[domain.Tense]bool, tense domain.Tense) bool {
	on, ok := active[tense]
	return !ok || on
}

// VisibleConjugations filters a conjugation set down to the visible tenses.
func VisibleConjugations(
	conjugations []domain.Conjugation,
	active map[domain.Tense]bool,
) []domain.Conjugation {
	var out []domain.Conjugation
	for _, c := range conjugations {
		if IsVisible(active, c.Tense) {
			out = append(out, c)
		}
	}
	return out
}
