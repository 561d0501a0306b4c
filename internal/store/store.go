// Package store persists learner state in SQLite: per-category skill
// profiles, per-item review cards, and an append-only result event log.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS skill_levels (
	learner_id            TEXT NOT NULL,
	category              TEXT NOT NULL,
	level                 INTEGER NOT NULL,
	recent_accuracy       REAL NOT NULL,
	consecutive_correct   INTEGER NOT NULL DEFAULT 0,
	consecutive_incorrect INTEGER NOT NULL DEFAULT 0,
	avg_latency_ms        REAL NOT NULL DEFAULT 0,
	updated_at            TEXT NOT NULL,
	PRIMARY KEY (learner_id, category)
);

CREATE TABLE IF NOT EXISTS card_states (
	learner_id       TEXT NOT NULL,
	item_id          TEXT NOT NULL,
	ease_factor      REAL NOT NULL,
	interval_days    INTEGER NOT NULL DEFAULT 0,
	repetitions      INTEGER NOT NULL DEFAULT 0,
	due_at           TEXT NOT NULL,
	last_reviewed_at TEXT,
	archived         INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (learner_id, item_id)
);

CREATE INDEX IF NOT EXISTS idx_card_states_due
	ON card_states (learner_id, due_at) WHERE archived = 0;

CREATE TABLE IF NOT EXISTS result_events (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	learner_id      TEXT NOT NULL,
	attempt_id      TEXT NOT NULL,
	exercise_id     TEXT NOT NULL,
	category        TEXT NOT NULL,
	presented_level INTEGER NOT NULL,
	correct         INTEGER NOT NULL,
	latency_ms      INTEGER NOT NULL,
	hints_used      INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL,
	UNIQUE (learner_id, attempt_id)
);

CREATE INDEX IF NOT EXISTS idx_result_events_learner
	ON result_events (learner_id, category, created_at);
`

// Store wraps the SQLite connection.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn, applies recommended
// pragmas, and creates the schema if missing.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single writer avoids SQLITE_BUSY under the pure Go driver.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying connection for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LEXIO_DB environment variable
// 2. $XDG_DATA_HOME/lexio/lexio.db
// 3. ~/.local/share/lexio/lexio.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LEXIO_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "lexio", "lexio.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
