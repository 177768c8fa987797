// Command server is the milon-api process: it loads configuration, applies
// database migrations, wires the lexical cache and review services, and
// serves the Prometheus metrics endpoint until interrupted.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milonlex/milon-api/internal/config"
	"github.com/milonlex/milon-api/internal/domain/srs"
	"github.com/milonlex/milon-api/internal/platform/database"
	"github.com/milonlex/milon-api/internal/platform/logger"
	"github.com/milonlex/milon-api/internal/platform/metrics"
	"github.com/milonlex/milon-api/internal/platform/rediscache"
	"github.com/milonlex/milon-api/internal/provider"
	"github.com/milonlex/milon-api/internal/service/dictionary"
	"github.com/milonlex/milon-api/internal/service/review"
	"github.com/milonlex/milon-api/internal/service/settings"
	"github.com/milonlex/milon-api/internal/service/words"
)

// application bundles the wired service layer. Transports (bot front-ends,
// HTTP APIs) embed this process as a library and consume these services.
type application struct {
	Words      *words.Service
	Dictionary *dictionary.Service
	Review     *review.Service
	Settings   *settings.Service
}

func (a *application) logSummary(log *slog.Logger, cfg *config.Config, cache *rediscache.Cache) {
	log.Info("Services ready",
		"srs_policy", srsPolicyName(cfg.SRS),
		"cache_enabled", cache.Enabled(),
		"provider", cfg.Provider.BaseURL)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", "error", err)
		}
	}()

	log.Info("Connected to database",
		"url", database.MaskURL(cfg.Database.URL),
		"dialect", dialect.String())

	if err := runMigrations(db, dialect, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	cache, err := rediscache.New(ctx, cfg.Redis.URL,
		time.Duration(cfg.Redis.TTLMinutes)*time.Minute, log)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Warn("Failed to close redis client", "error", err)
		}
	}()

	app, err := buildApplication(cfg, db, dialect, cache, log)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}

	app.logSummary(log, cfg, cache)

	return serveMetrics(ctx, cfg.Server.MetricsPort, log)
}

// buildApplication wires stores and services over a single connection pool.
func buildApplication(
	cfg *config.Config,
	db *sql.DB,
	dialect database.Dialect,
	cache *rediscache.Cache,
	log *slog.Logger,
) (*application, error) {
	wordStore := database.NewWordStore(db, dialect, log)
	userStore := database.NewUserStore(db, dialect, log)
	entryStore := database.NewDictionaryStore(db, dialect, log)
	settingsStore := database.NewSettingsStore(db, dialect, log)

	prov := provider.NewHTTPProvider(cfg.Provider.BaseURL,
		time.Duration(cfg.Provider.TimeoutSeconds)*time.Second, log)

	wordService, err := words.NewService(db, wordStore, prov, cache, log)
	if err != nil {
		return nil, err
	}
	dictionaryService, err := dictionary.NewService(db, userStore, wordStore, entryStore, settingsStore, log)
	if err != nil {
		return nil, err
	}
	reviewService, err := review.NewService(db, entryStore, buildSchedule(cfg.SRS), log)
	if err != nil {
		return nil, err
	}
	settingsService, err := settings.NewService(settingsStore, log)
	if err != nil {
		return nil, err
	}

	return &application{
		Words:      wordService,
		Dictionary: dictionaryService,
		Review:     reviewService,
		Settings:   settingsService,
	}, nil
}

// buildSchedule maps the SRS config group onto a concrete scheduling policy.
func buildSchedule(cfg config.SRSConfig) srs.Schedule {
	base := time.Duration(cfg.BaseIntervalMinutes) * time.Minute

	if cfg.Policy == "ladder" {
		return srs.NewLadderSchedule(base, nil)
	}

	return srs.NewExponentialSchedule(srs.NewParams(srs.ParamsConfig{
		BaseInterval:   base,
		FirstInterval:  time.Duration(cfg.FirstIntervalHours) * time.Hour,
		GrowthFactor:   cfg.GrowthFactor,
		LevelCeiling:   cfg.LevelCeiling,
		HardMultiplier: cfg.HardMultiplier,
		EasyMultiplier: cfg.EasyMultiplier,
	}))
}

func srsPolicyName(cfg config.SRSConfig) string {
	if cfg.Policy == "" {
		return "exponential"
	}
	return cfg.Policy
}

// serveMetrics exposes the Prometheus scrape endpoint and blocks until the
// context is cancelled, then shuts the listener down gracefully.
func serveMetrics(ctx context.Context, port int, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Metrics listener started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received, stopping metrics listener")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down metrics listener: %w", err)
	}
	return <-errCh
}
