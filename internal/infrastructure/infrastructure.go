// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, metrics, database, model, scorer) that
// domain systems require.
package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/autou/internal/config"
	"github.com/JaimeStill/autou/internal/metrics"
	"github.com/JaimeStill/autou/internal/scoring"
	"github.com/JaimeStill/autou/pkg/database"
	"github.com/JaimeStill/autou/pkg/lifecycle"
	"github.com/JaimeStill/autou/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil when no database is configured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Database  database.System
	Model     *scoring.Model
	Scorer    *scoring.Remote
}

// New creates an Infrastructure from the application configuration.
// It loads the model metadata, failing when it is missing or invalid, and
// initializes all systems without starting them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	model, err := loadModel(lc.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("model init failed: %w", err)
	}

	var db database.System
	if cfg.Database.Configured() {
		db, err = database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
	} else {
		logger.Warn("database not configured: telemetry and feedback disabled")
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Metrics:   metrics.New(),
		Database:  db,
		Model:     model,
		Scorer:    scoring.NewRemote(&cfg.Scorer, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
	}
	i.Scorer.Start(i.Lifecycle)
	return nil
}

// DB returns the connection pool, or nil when no database is configured.
func (i *Infrastructure) DB() *sql.DB {
	if i.Database == nil {
		return nil
	}
	return i.Database.Connection()
}

func loadModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*scoring.Model, error) {
	var src scoring.Source = scoring.FileSource{}
	if cfg.Model.Storage.Configured() {
		store, err := storage.New(&cfg.Model.Storage, logger)
		if err != nil {
			return nil, err
		}
		src = store
	}

	model, err := scoring.LoadModel(ctx, src, cfg.Model.MetadataPath(), cfg.Classifier.Threshold)
	if err != nil {
		return nil, err
	}

	logger.Info("model loaded",
		"model_version", model.Version,
		"embedding_model", model.EmbeddingModel,
		"threshold", model.Threshold,
	)
	return model, nil
}
