// Package storage persists accounts and bot bookkeeping in a single SQLite file.
//
// Every write is a synchronous autocommit statement; nothing is cached, so a
// read issued after a write returns has always observed it.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/keshon/account-market/internal/account"
	"github.com/keshon/account-market/internal/telemetry"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Storage struct {
	db      *sql.DB
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string, metrics *telemetry.Metrics) (*Storage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// one writer keeps statements strictly ordered
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := NewWithDB(db, metrics)
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// NewWithDB wraps an already opened database without touching the schema.
func NewWithDB(db *sql.DB, metrics *telemetry.Metrics) *Storage {
	return &Storage{
		db:      db,
		metrics: metrics,
		logger:  slog.Default().With("component", "store"),
	}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nick TEXT NOT NULL COLLATE NOCASE,
			status TEXT NOT NULL,
			price INTEGER,
			sold_to TEXT,
			reason_inactive TEXT,
			discord_channel_id TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_nick
			ON accounts(nick COLLATE NOCASE);

		CREATE INDEX IF NOT EXISTS idx_accounts_status
			ON accounts(status);

		CREATE TABLE IF NOT EXISTS command_hashes (
			guild_id TEXT NOT NULL,
			name TEXT NOT NULL,
			hash TEXT NOT NULL,
			PRIMARY KEY (guild_id, name)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// observe records a store call. Pass a pointer to the named error result.
func (s *Storage) observe(method string, start time.Time, errp *error) {
	status := "ok"
	if errp != nil && *errp != nil {
		switch {
		case errors.Is(*errp, account.ErrNotFound):
			status = "not_found"
		case errors.Is(*errp, account.ErrConflict):
			status = "conflict"
		case errors.Is(*errp, account.ErrStatusChanged):
			status = "stale"
		case errors.Is(*errp, account.ErrInvalidInput):
			status = "invalid"
		default:
			status = "error"
		}
	}
	s.metrics.ObserveDB(method, status, time.Since(start))
}

// storageErr logs a driver failure and wraps it so callers can tell it from
// a missing row.
func (s *Storage) storageErr(op string, err error) error {
	s.logger.Error("Database error", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %v", account.ErrStorage, op, err)
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
