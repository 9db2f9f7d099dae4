// ABOUTME: Driver selection for the key-value persistence port.
// ABOUTME: Maps storage config onto badger, sqlite, redis, or memory.

package kv

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/harper/promptlib/internal/config"
)

// Open creates a Store implementation based on the storage driver.
func Open(cfg config.StorageConfig, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "badger", "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger storage requires storage.path to be set")
		}
		return OpenBadger(filepath.Join(cfg.Path, "badger"), BadgerOptions{
			Attempts: cfg.OpenAttempts,
			Delay:    cfg.OpenDelay,
			Logger:   log,
		})
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite storage requires storage.path to be set")
		}
		return OpenSQLite(filepath.Join(cfg.Path, SQLiteFileName))
	case "redis":
		return OpenRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
