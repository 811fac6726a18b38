package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/service"
)

// Supported store drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a key/value store.
type Options struct {
	Driver     string
	SQLitePath string
	Redis      RedisConfig
}

// Open builds the store named by opts.Driver. SQLite stores are migrated
// before being returned.
func Open(ctx context.Context, opts Options) (service.KeyValueStore, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		store, err := NewSQLiteStorage(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return store, nil
	case DriverRedis:
		return NewRedisStorage(ctx, opts.Redis)
	case DriverMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", common.ErrInvalidConfig, opts.Driver)
	}
}
