// Package store provides SQLite-backed persistence for case briefs: the
// relational repository and the dump engine.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

//go:embed schema.sql
var schemaSQL string

// Options tunes repository behavior.
type Options struct {
	// OpinionDedupByAuthor keys opinion dedup on (author, text). The
	// historical key is text alone; see findOrCreateOpinion.
	OpinionDedupByAuthor bool
}

// Store provides SQLite-backed persistence for case briefs.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	opts   Options
}

// Open creates a SQLite store at the given path, configures pragmas, and
// runs the schema script. The script is idempotent, so an existing store is
// never overwritten. The returned bool reports whether the backing file was
// created by this call.
func Open(path string, logger *slog.Logger, opts Options) (*Store, bool, error) {
	created := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		created = true
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, false, errors.StoreUnavailable("create data directory").WithCause(err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, false, errors.StoreUnavailable("open sqlite").WithCause(err)
	}

	// Single shared connection: single-process, single-writer semantics,
	// and pragmas apply to every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, false, errors.StoreUnavailable(fmt.Sprintf("exec pragma %q", pragma)).WithCause(err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, false, errors.StoreUnavailable("exec schema").WithCause(err)
	}

	if created {
		logger.Warn("database not found, created", "path", path)
	} else {
		logger.Debug("database found", "path", path)
	}

	return &Store{db: db, logger: logger, opts: opts}, created, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// dbtx is the subset of *sql.DB and *sql.Tx the query helpers need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// isConstraintViolation reports whether err is a SQLite uniqueness or
// foreign-key constraint failure.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
