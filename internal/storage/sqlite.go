package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/roomcraft/roomcraft/internal/models"
)

const currentSchemaVersion = 1

// SQLiteStore persists the current layout so it survives restarts
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection serializes writers and keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		version = 0
	}

	if version < currentSchemaVersion {
		schema := `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS layout_entries (
				position INTEGER PRIMARY KEY,
				item_id TEXT NOT NULL,
				x INTEGER NOT NULL,
				y INTEGER NOT NULL,
				updated_at TEXT NOT NULL
			);

			INSERT OR REPLACE INTO schema_version (version) VALUES (1);
		`
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("failed to migrate layout schema: %w", err)
		}
	}

	return nil
}

// Replace swaps the stored layout in one transaction so readers never
// observe a partial write
func (s *SQLiteStore) Replace(ctx context.Context, layout models.Layout) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM layout_entries"); err != nil {
		return fmt.Errorf("failed to clear layout: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO layout_entries (position, item_id, x, y, updated_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, e := range layout {
		if _, err := stmt.ExecContext(ctx, i, e.ID, e.X, e.Y, now); err != nil {
			return fmt.Errorf("failed to store entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Current(ctx context.Context) (models.Layout, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT item_id, x, y FROM layout_entries ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	layout := models.Layout{}
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.X, &e.Y); err != nil {
			return nil, err
		}
		layout = append(layout, e)
	}
	return layout, rows.Err()
}

// Open returns the store selected by driver ("memory" or "sqlite")
func Open(driver, path string) (LayoutStore, func() error, error) {
	switch driver {
	case "", "memory":
		return New(), func() error { return nil }, nil
	case "sqlite":
		if path == "" {
			return nil, nil, fmt.Errorf("sqlite store requires a path")
		}
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		slog.Info("Layout store opened", "driver", driver, "path", s.Path())
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
