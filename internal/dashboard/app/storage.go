package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/retailhub/internal/storage"
	redisstore "github.com/aussiebroadwan/retailhub/internal/storage/drivers/redis"
	"github.com/aussiebroadwan/retailhub/internal/storage/drivers/sqlite"
	"github.com/aussiebroadwan/retailhub/pkg/cryptox"
)

// openStorage opens the configured driver and layers sealing and metrics
// on top of it.
func (app *Application) openStorage(ctx context.Context) (storage.KV, error) {
	var kv storage.KV

	switch app.cfg.StorageDriver {
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.StorageFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply session database migrations: %w", err)
		}
		app.logger.Info("session database migrations applied", "file", app.cfg.StorageFile)
		kv = db

	case "redis":
		rs, err := redisstore.Open(ctx, app.cfg.RedisURL, redisstore.DefaultPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		kv = rs

	case "memory":
		app.logger.Warn("session storage is in-memory; sessions will not survive a restart")
		kv = storage.NewMemory()

	default:
		return nil, fmt.Errorf("unknown storage driver %q", app.cfg.StorageDriver)
	}

	if app.cfg.SealKey != "" {
		sealer, err := cryptox.NewSealer([]byte(app.cfg.SealKey))
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("failed to initialize session sealing: %w", err)
		}
		kv = storage.NewSealed(kv, sealer)
	} else if app.cfg.Env == "prod" {
		app.logger.Warn("SESSION_SEAL_KEY is not set; session tokens are stored in plaintext")
	}

	return storage.NewInstrumented(kv, app.cfg.StorageDriver), nil
}
