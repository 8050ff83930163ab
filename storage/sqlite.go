// SQLite outcome storage.
//
// Information Hiding:
// - SQLite connection management hidden behind interface
// - Schema and migration details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteStorage implements OutcomeStorage using SQLite.
// Stores outcome records in a SQLite database file.
type SqliteStorage struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqliteStorage, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqliteStorage, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	storage := &SqliteStorage{db: db}
	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

// Close closes the database connection.
func (s *SqliteStorage) Close() error {
	return s.db.Close()
}

func (s *SqliteStorage) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS outcomes (
			id TEXT PRIMARY KEY,
			query_excerpt TEXT NOT NULL,
			category TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_outcomes_created
		ON outcomes(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveOutcome stores one outcome record.
func (s *SqliteStorage) SaveOutcome(ctx context.Context, outcome Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (id, query_excerpt, category, kind, detail, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		outcome.ID,
		outcome.QueryExcerpt,
		outcome.Category,
		string(outcome.Kind),
		outcome.Detail,
		outcome.DurationMs,
		outcome.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save outcome: %w", err)
	}
	return nil
}

// ListOutcomes returns the most recent outcomes, newest first.
func (s *SqliteStorage) ListOutcomes(ctx context.Context, limit int) ([]Outcome, error) {
	query := `SELECT id, query_excerpt, category, kind, detail, duration_ms, created_at
		FROM outcomes ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		var kind string
		if err := rows.Scan(&o.ID, &o.QueryExcerpt, &o.Category, &kind, &o.Detail, &o.DurationMs, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Kind = OutcomeKind(kind)
		outcomes = append(outcomes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// Verify SqliteStorage implements OutcomeStorage
var _ OutcomeStorage = (*SqliteStorage)(nil)
