/*
Package sqlite provides a SQLite-backed audit log.

PURPOSE:
  Persists punch.AuditEntry records so the history of corrections,
  duplications and manual adds survives restarts. The attendance file
  stays the only source of punches; this database never feeds a ledger.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on audit_entries
  - No DELETE statements on audit_entries

KEY TABLES:
  audit_entries: One row per write operation. Lists are JSON columns.

INDEXES:
  - idx_audit_badge: Per-badge history (hot path for the API)
  - idx_audit_timestamp: Newest-first listing

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The HTTP server may call in from
  several goroutines even though punch writes are serialized upstream.

USAGE:
  audit, err := sqlite.New("./data/audit.db")
  if err != nil {
      log.Fatal(err)
  }
  defer audit.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - punch/audit.go: Interface definition
  - store/memory/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/timeclock/punch"
)

// timestampLayout is fixed-width so timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements punch.AuditLog using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite audit store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_entries (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		action TEXT NOT NULL,
		badge TEXT NOT NULL,
		dates_json TEXT NOT NULL,
		lines_json TEXT NOT NULL,
		removed_json TEXT NOT NULL,
		lines_written INTEGER NOT NULL,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_badge
		ON audit_entries(badge, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_audit_timestamp
		ON audit_entries(timestamp DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// AUDIT LOG (punch.AuditLog interface)
// =============================================================================

// Append adds an audit entry.
func (s *Store) Append(ctx context.Context, entry punch.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	datesJSON, err := json.Marshal(nonNil(entry.Dates))
	if err != nil {
		return fmt.Errorf("failed to encode dates: %w", err)
	}
	linesJSON, err := json.Marshal(nonNil(entry.Lines))
	if err != nil {
		return fmt.Errorf("failed to encode lines: %w", err)
	}
	removedJSON, err := json.Marshal(nonNil(entry.Removed))
	if err != nil {
		return fmt.Errorf("failed to encode removals: %w", err)
	}

	query := `
		INSERT INTO audit_entries
		(id, timestamp, action, badge, dates_json, lines_json, removed_json, lines_written, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.Timestamp.UTC().Format(timestampLayout),
		string(entry.Action),
		entry.Badge,
		string(datesJSON),
		string(linesJSON),
		string(removedJSON),
		len(entry.Lines),
		nullString(entry.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Query returns matching entries, newest first.
func (s *Store) Query(ctx context.Context, filter punch.AuditFilter) ([]punch.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.Badge != "" {
		where = append(where, "badge = ?")
		args = append(args, filter.Badge)
	}
	if len(filter.Actions) > 0 {
		placeholders := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			placeholders[i] = "?"
			args = append(args, string(a))
		}
		where = append(where, "action IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := `
		SELECT id, timestamp, action, badge, dates_json, lines_json, removed_json, error
		FROM audit_entries
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []punch.AuditEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (punch.AuditEntry, error) {
	var (
		e                                 punch.AuditEntry
		timestamp, action                 string
		datesJSON, linesJSON, removedJSON string
		errText                           sql.NullString
	)
	if err := rows.Scan(&e.ID, &timestamp, &action, &e.Badge, &datesJSON, &linesJSON, &removedJSON, &errText); err != nil {
		return e, fmt.Errorf("failed to scan audit entry: %w", err)
	}

	e.Timestamp, _ = time.Parse(timestampLayout, timestamp)
	e.Action = punch.AuditAction(action)
	e.Error = errText.String
	if err := json.Unmarshal([]byte(datesJSON), &e.Dates); err != nil {
		return e, fmt.Errorf("failed to decode dates: %w", err)
	}
	if err := json.Unmarshal([]byte(linesJSON), &e.Lines); err != nil {
		return e, fmt.Errorf("failed to decode lines: %w", err)
	}
	if err := json.Unmarshal([]byte(removedJSON), &e.Removed); err != nil {
		return e, fmt.Errorf("failed to decode removals: %w", err)
	}
	return e, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
