// Package sqlite provides the SQLite-backed usage ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS request_logs (
	id                TEXT PRIMARY KEY,
	request_id        TEXT NOT NULL,
	mode              TEXT NOT NULL,
	model             TEXT NOT NULL,
	provider          TEXT NOT NULL,
	target_lang       TEXT,
	prompt_tokens     INTEGER DEFAULT 0,
	completion_tokens INTEGER DEFAULT 0,
	total_tokens      INTEGER DEFAULT 0,
	tokens_estimated  INTEGER DEFAULT 0,
	status_code       INTEGER,
	error_message     TEXT,
	duration_ms       INTEGER,
	created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS usage_daily (
	date              TEXT NOT NULL,
	mode              TEXT NOT NULL,
	model             TEXT NOT NULL,
	request_count     INTEGER DEFAULT 0,
	prompt_tokens     INTEGER DEFAULT 0,
	completion_tokens INTEGER DEFAULT 0,
	total_tokens      INTEGER DEFAULT 0,
	error_count       INTEGER DEFAULT 0,
	PRIMARY KEY (date, mode, model)
);

CREATE INDEX IF NOT EXISTS idx_logs_created ON request_logs(created_at);
CREATE INDEX IF NOT EXISTS idx_logs_model ON request_logs(model);
CREATE INDEX IF NOT EXISTS idx_logs_mode ON request_logs(mode);
CREATE INDEX IF NOT EXISTS idx_usage_date ON usage_daily(date);
`

// Storage implements the storage.Storage interface using SQLite
type Storage struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// New opens (or creates) the ledger database at dbPath
func New(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already opened database and creates the schema.
func NewWithDB(db *sql.DB) (*Storage, error) {
	s := &Storage{db: db}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *Storage) createSchema() error {
	_, err := s.db.Exec(schema)
	return err
}

// Ping checks that the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStorageClosed
	}
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// generateID creates a new unique ID with a prefix
func generateID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
