// Package activity persists scheduler lifecycle events to a local sqlite
// database so operators can audit loads, evictions, and context switches
// after the fact. The table is capped: old rows are trimmed as new ones
// arrive.
package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"schedd/internal/scheduler"
)

const defaultMaxRows = 1000

// Entry is one persisted scheduler event, newest first in listings.
type Entry struct {
	At        time.Time `json:"at"`
	Name      string    `json:"name"`
	BackendID string    `json:"backend_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Store is a sqlite-backed audit log implementing scheduler.EventPublisher.
type Store struct {
	db      *sql.DB
	maxRows int
	log     zerolog.Logger
}

// Open creates or opens the activity database at path. maxRows caps the
// retained history; <=0 uses the default.
func Open(path string, maxRows int, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}
	s := &Store{db: db, maxRows: maxRows, log: log}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  at DATETIME NOT NULL,
  name TEXT NOT NULL,
  backend_id TEXT NOT NULL DEFAULT '',
  detail TEXT NOT NULL DEFAULT ''
);
`)
	return err
}

// Publish records a scheduler event. It swallows storage errors (logging
// them) because publishers must never disturb the scheduling path.
func (s *Store) Publish(e scheduler.Event) {
	detail := ""
	if len(e.Fields) > 0 {
		if b, err := json.Marshal(e.Fields); err == nil {
			detail = string(b)
		}
	}
	_, err := s.db.Exec(
		"INSERT INTO events (at, name, backend_id, detail) VALUES (?, ?, ?, ?);",
		time.Now().UTC(), e.Name, e.BackendID, detail,
	)
	if err != nil {
		s.log.Warn().Err(err).Str("event", e.Name).Msg("activity insert failed")
		return
	}
	_, err = s.db.Exec(
		"DELETE FROM events WHERE id NOT IN (SELECT id FROM events ORDER BY id DESC LIMIT ?);",
		s.maxRows,
	)
	if err != nil {
		s.log.Warn().Err(err).Msg("activity trim failed")
	}
}

// List returns up to limit entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.maxRows {
		limit = s.maxRows
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT at, name, backend_id, detail FROM events ORDER BY id DESC LIMIT ?;", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.At, &e.Name, &e.BackendID, &e.Detail); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
