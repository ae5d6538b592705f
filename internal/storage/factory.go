package storage

import (
	"context"
	"errors"

	"github.com/fortaxe/food-track-backend/internal"
	"github.com/fortaxe/food-track-backend/internal/config"
)

// Repositories bundles the three store contracts a single backend satisfies.
type Repositories struct {
	FoodLogs FoodLogRepository
	Users    UserRepository
	Chat     ChatMessageRepository
}

// New builds the backend selected by cfg.DBType. Postgres gets its embedded
// migrations applied before the pool is handed out.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger) (*Repositories, error) {
	switch cfg.DBType {
	case "postgres":
		if err := RunMigrations(ctx, cfg.DBDSN); err != nil {
			logger.Errorf("failed to run migrations: %v", err)
			return nil, err
		}
		s, err := NewPostgresStorage(cfg.DBDSN, logger)
		if err != nil {
			return nil, err
		}
		return &Repositories{FoodLogs: s, Users: s, Chat: s}, nil
	case "sqlite":
		s, err := NewSQLiteStorage(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &Repositories{FoodLogs: s, Users: s, Chat: s}, nil
	case "memory":
		s := NewMemoryStorage()
		return &Repositories{FoodLogs: s, Users: s, Chat: s}, nil
	default:
		return nil, errors.New("unknown storage backend: " + cfg.DBType)
	}
}
