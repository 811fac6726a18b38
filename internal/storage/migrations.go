package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// SchemaVersion is the user_version a fully migrated cache database reports.
const SchemaVersion = 2

type migration struct {
	name       string
	statements []string
	version    int
}

var migrations = []migration{
	{
		version: 1,
		name:    "key/value entries",
		statements: []string{`
			CREATE TABLE IF NOT EXISTS kv_entries (
				key TEXT PRIMARY KEY,
				value BLOB NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version:    2,
		name:       "entries by update time",
		statements: []string{`CREATE INDEX IF NOT EXISTS idx_kv_entries_updated_at ON kv_entries(updated_at)`},
	},
}

// Migrate brings the cache schema up to SchemaVersion. A database written by
// a newer build is rejected rather than downgraded.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > SchemaVersion {
		return fmt.Errorf("%w: %s is at version %d, this build knows %d",
			ErrSchemaVersion, s.dbPath, current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return err
		}
		slog.Debug("Applied cache migration", "version", m.version, "name", m.name)
	}

	if current, err = s.schemaVersion(ctx); err != nil {
		return err
	}
	if current != SchemaVersion {
		return fmt.Errorf("%w: expected %d, got %d", ErrSchemaVersion, SchemaVersion, current)
	}
	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// apply runs one migration and bumps user_version in the same transaction.
func (s *SQLiteStorage) apply(ctx context.Context, m migration) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmts := append(m.statements[:len(m.statements):len(m.statements)],
		fmt.Sprintf("PRAGMA user_version = %d", m.version))
	for _, stmt := range stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
	}
	return nil
}
