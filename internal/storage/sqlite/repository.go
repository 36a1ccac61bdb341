// Package sqlite keeps ledger records in a SQLite database, one row per
// record keyed by its position in the ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"wallet/internal/core"
	"wallet/internal/storage"

	_ "modernc.org/sqlite"
)

const (
	selectRecords = `SELECT date, category, amount, description FROM records ORDER BY position`
	deleteRecords = `DELETE FROM records`
	insertRecord  = `INSERT INTO records (position, date, category, amount, description) VALUES (?, ?, ?, ?, ?)`
)

type Store struct {
	db     *sql.DB
	dbPath string
}

var _ storage.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Location() string {
	return "sqlite:" + s.dbPath
}

// Load implements storage.Store
func (s *Store) Load(ctx context.Context, fn func(core.Record) error) error {
	rows, err := s.db.QueryContext(ctx, selectRecords)
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			r        core.Record
			category string
		)
		if err := rows.Scan(&r.Date, &category, &r.Amount, &r.Description); err != nil {
			return fmt.Errorf("%w: row %d: %v", storage.ErrMalformed, count+1, err)
		}
		r.Category = core.Category(category)
		if err := fn(r); err != nil {
			return err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate records: %w", err)
	}

	slog.DebugContext(ctx, "Records read from SQLite", "path", s.dbPath, "count", count)
	return nil
}

// Save implements storage.Store. All rows are replaced in one transaction.
func (s *Store) Save(ctx context.Context, records []core.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteRecords); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Date, string(r.Category), r.Amount, r.Description); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit records: %w", err)
	}

	slog.InfoContext(ctx, "Records saved to SQLite", "path", s.dbPath, "count", len(records))
	return nil
}
