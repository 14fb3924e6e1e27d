// Package journal records annotation edits in a SQLite database.
//
// A Session observes an annotation store and appends one row per created,
// deleted or saved event. Write failures are logged and never reach the store.
//
// Usage:
//
//	db, err := journal.Open("edits.db")
//	sess, err := journal.NewSession(db, "dots.npy", logger)
//	store.Observe(sess)
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/soocke/dotcount/domain/annotation"
)

const schema = `
CREATE TABLE IF NOT EXISTS annotation_events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT    NOT NULL,
	mask_path  TEXT    NOT NULL,
	kind       TEXT    NOT NULL,
	x          INTEGER NOT NULL DEFAULT 0,
	y          INTEGER NOT NULL DEFAULT 0,
	dots       INTEGER NOT NULL DEFAULT 0,
	at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_annotation_events_session ON annotation_events(session_id, id);
`

// Event kinds.
const (
	KindCreated = "created"
	KindDeleted = "deleted"
	KindSaved   = "saved"
)

// Open opens (creating if needed) the journal database at path, applies the
// WAL pragmas and the schema.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("journal: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: schema: %w", err)
	}
	return db, nil
}

// Event is one recorded row.
type Event struct {
	Kind  string
	Point annotation.Point
	Dots  int
	At    time.Time
}

// Session appends events for one annotation session.
type Session struct {
	db       *sql.DB
	id       string
	maskPath string
	logger   *slog.Logger
	now      func() time.Time
}

// NewSession starts a session with a fresh UUID.
func NewSession(db *sql.DB, maskPath string, logger *slog.Logger) (*Session, error) {
	if db == nil {
		return nil, fmt.Errorf("journal: nil db")
	}
	return &Session{db: db, id: uuid.NewString(), maskPath: maskPath, logger: logger, now: time.Now}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Created implements annotation.Observer.
func (s *Session) Created(p annotation.Point) { s.record(KindCreated, p, 0) }

// Deleted implements annotation.Observer.
func (s *Session) Deleted(p annotation.Point) { s.record(KindDeleted, p, 0) }

// Saved records a successful save of dots annotations.
func (s *Session) Saved(dots int) { s.record(KindSaved, annotation.Point{}, dots) }

func (s *Session) record(kind string, p annotation.Point, dots int) {
	if s == nil {
		return
	}
	_, err := s.db.Exec(
		`INSERT INTO annotation_events (session_id, mask_path, kind, x, y, dots, at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.id, s.maskPath, kind, p.X, p.Y, dots, s.now().UnixMilli(),
	)
	if err != nil && s.logger != nil {
		s.logger.Error("journal write failed", "kind", kind, "error", err)
	}
}

// Events returns the session's events in insertion order.
func (s *Session) Events(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, x, y, dots, at FROM annotation_events WHERE session_id = ? ORDER BY id`, s.id)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		var at int64
		if err := rows.Scan(&e.Kind, &e.Point.X, &e.Point.Y, &e.Dots, &at); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.At = time.UnixMilli(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ annotation.Observer = (*Session)(nil)
