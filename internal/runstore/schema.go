package runstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in the database header as PRAGMA user_version.
const schemaVersion = 1

// ErrSchemaMismatch is returned by Open when the history database was
// written by a different schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// migrate installs the schema into a fresh database and refuses any other
// version. There is no upgrade path.
func (s *Store) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read run store version: %w", err)
	}
	switch current {
	case schemaVersion:
		return nil
	case 0:
		return s.install(ctx)
	default:
		return fmt.Errorf("%w: %s is version %d, want %d (delete it to start a new history)",
			ErrSchemaMismatch, s.path, current, schemaVersion)
	}
}

// install creates every table and stamps the version in one transaction.
func (s *Store) install(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin install: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("install run store schema: %w", err)
	}
	// PRAGMA values cannot be bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp run store version: %w", err)
	}
	return tx.Commit()
}
