// Package journal persists run telemetry to SQLite so finished runs can be
// reviewed after the process exits. The journal is an outward sink only; the
// engine never reads run state back from it.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hugo-lorenzo-mato/foreman/internal/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id TEXT NOT NULL,
	type       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_project ON events(project_id, id);
`

// Entry is one journaled event row.
type Entry struct {
	ID        int64           `json:"id"`
	ProjectID string          `json:"project_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// SQLiteJournal stores telemetry events in a single SQLite file.
type SQLiteJournal struct {
	db *sql.DB
	wg sync.WaitGroup
}

// Open creates or opens a journal database at path.
func Open(path string) (*SQLiteJournal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// Record writes one event. Failures are returned but callers are expected to
// treat journaling as best effort.
func (j *SQLiteJournal) Record(ev events.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	_, err = j.db.Exec(
		`INSERT INTO events (project_id, type, payload, created_at) VALUES (?, ?, ?, ?)`,
		ev.ProjectID(), ev.EventType(), string(payload), ev.Timestamp().UTC())
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Attach subscribes to the bus and journals every event until the bus closes.
// Write errors are dropped; the journal must never stall a run.
func (j *SQLiteJournal) Attach(bus *events.Bus) {
	ch := bus.Subscribe()
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for ev := range ch {
			_ = j.Record(ev)
		}
	}()
}

// Events returns all journaled entries for a project in insertion order.
func (j *SQLiteJournal) Events(projectID string) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, project_id, type, payload, created_at FROM events WHERE project_id = ? ORDER BY id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var payload string
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Type, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close waits for attached consumers to drain and closes the database.
// Close the bus first so subscriber channels end.
func (j *SQLiteJournal) Close() error {
	j.wg.Wait()
	return j.db.Close()
}
