package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"tomatobar/internal/core/phase"
	"tomatobar/internal/log"
)

// JournalFileName is the transition journal inside the data directory.
const JournalFileName = "journal.db"

const journalSchema = `
CREATE TABLE IF NOT EXISTS transitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	from_phase TEXT NOT NULL,
	to_phase TEXT NOT NULL,
	event TEXT NOT NULL,
	at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS transitions_run_id ON transitions(run_id);
`

// JournalEntry is one recorded transition. Transitions between leaving Idle
// and returning to it share a RunID.
type JournalEntry struct {
	ID     int64
	RunID  string
	Record phase.Transition
}

// Journal appends phase transitions to a SQLite database.
type Journal struct {
	mu    sync.Mutex
	db    *sql.DB
	path  string
	runID string
}

// OpenJournal opens or creates the journal at path.
func OpenJournal(path string) (*Journal, error) {
	log.Debug(log.CatStorage, "opening journal", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db, path: path}, nil
}

// Close closes the database.
func (journal *Journal) Close() error {
	return journal.db.Close()
}

// Record appends transition. Leaving Idle starts a new run.
func (journal *Journal) Record(transition phase.Transition) error {
	journal.mu.Lock()
	defer journal.mu.Unlock()

	if journal.runID == "" || transition.From == phase.Idle {
		journal.runID = uuid.NewString()
	}

	_, err := journal.db.Exec(
		`INSERT INTO transitions (run_id, from_phase, to_phase, event, at) VALUES (?, ?, ?, ?, ?)`,
		journal.runID,
		transition.From.String(),
		transition.To.String(),
		transition.Event.String(),
		transition.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// Recent returns up to limit of the latest entries, oldest first.
func (journal *Journal) Recent(ctx context.Context, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		return []JournalEntry{}, nil
	}

	rows, err := journal.db.QueryContext(ctx, `
		SELECT id, run_id, from_phase, to_phase, event, at
		FROM transitions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}

	for left, right := 0, len(entries)-1; left < right; left, right = left+1, right-1 {
		entries[left], entries[right] = entries[right], entries[left]
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (JournalEntry, error) {
	var (
		entry                 JournalEntry
		from, to, event, when string
	)
	if err := rows.Scan(&entry.ID, &entry.RunID, &from, &to, &event, &when); err != nil {
		return entry, fmt.Errorf("scan transition: %w", err)
	}

	var err error
	if entry.Record.From, err = phase.ParsePhase(from); err != nil {
		return entry, fmt.Errorf("transition %d: %w", entry.ID, err)
	}
	if entry.Record.To, err = phase.ParsePhase(to); err != nil {
		return entry, fmt.Errorf("transition %d: %w", entry.ID, err)
	}
	if entry.Record.Event, err = phase.ParseEvent(event); err != nil {
		return entry, fmt.Errorf("transition %d: %w", entry.ID, err)
	}
	if entry.Record.At, err = time.Parse(time.RFC3339Nano, when); err != nil {
		return entry, fmt.Errorf("transition %d: parse time: %w", entry.ID, err)
	}
	return entry, nil
}
