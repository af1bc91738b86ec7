// Package store opens the contact store selected by configuration.
package store

import (
	"context"
	"log/slog"

	"github.com/folio/folio/internal/config"
	"github.com/folio/folio/internal/database"
	"github.com/folio/folio/internal/docstore"
	"github.com/folio/folio/internal/repository"
	"github.com/folio/folio/internal/service"
)

// Opened is a connected contact store and how to release it.
type Opened struct {
	Store service.ContactStore
	// Name labels the backend: "postgres", "mongo" or "memory".
	Name     string
	InMemory bool
	Close    func(ctx context.Context) error
}

// Open connects the backend chosen by the DATABASE_URL scheme.
// PostgreSQL migrations run first when cfg.RunMigrations is set.
// Connection failures are returned so callers can fail fast.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Opened, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kind, err := cfg.StoreKind()
	if err != nil {
		return nil, err
	}

	switch kind {
	case config.StorePostgres:
		if cfg.RunMigrations {
			if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
				return nil, err
			}
			logger.Info("migrations applied")
		}

		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database", "store", "postgres")
		return &Opened{
			Store: repo,
			Name:  string(config.StorePostgres),
			Close: func(context.Context) error { repo.Close(); return nil },
		}, nil

	case config.StoreMongo:
		docs, err := docstore.Connect(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database", "store", "mongo", "database", cfg.MongoDatabase)
		return &Opened{
			Store: docs,
			Name:  string(config.StoreMongo),
			Close: docs.Disconnect,
		}, nil

	default:
		if cfg.IsProduction() {
			logger.Warn("DATABASE_URL not set in production, messages will be lost on restart")
		} else {
			logger.Info("DATABASE_URL not set, using in-memory store")
		}
		return &Opened{
			Store:    repository.NewMemoryStore(),
			Name:     string(config.StoreMemory),
			InMemory: true,
			Close:    func(context.Context) error { return nil },
		}, nil
	}
}
