// Package record stores per-access simulation events in a SQLite
// database for offline analysis.
package record

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cachesim/sim"
)

// Addresses are stored as unprefixed hex text, as in the trace file:
// SQLite integers are signed 64-bit, which would flip the sign of
// addresses in the top half of the address space.
const createTableStmt = `
CREATE TABLE access_events (
	seq      INTEGER PRIMARY KEY,
	kind     TEXT,
	address  TEXT,
	size     INTEGER,
	outcome  TEXT
)`

// A Recorder buffers access events and writes them to a SQLite database
// in batches. Flush is registered with atexit so an aborted run still
// lands its buffered events.
type Recorder struct {
	db        *sql.DB
	path      string
	buffer    []sim.Event
	batchSize int
	seq       int64
}

// New creates a Recorder writing to the database file at path. An empty
// path selects a fresh uniquely named file in the working directory.
func New(path string) (*Recorder, error) {
	if path == "" {
		path = "cachesim_events_" + xid.New().String() + ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("recording file %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording database: %w", err)
	}

	if _, err := db.Exec(createTableStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create event table: %w", err)
	}

	r := &Recorder{
		db:        db,
		path:      path,
		batchSize: 100000,
	}

	atexit.Register(func() { r.Flush() })

	return r, nil
}

// Path returns the database file the recorder writes to.
func (r *Recorder) Path() string {
	return r.path
}

// Record buffers one event, flushing when the batch is full.
func (r *Recorder) Record(ev sim.Event) error {
	r.buffer = append(r.buffer, ev)
	if len(r.buffer) >= r.batchSize {
		return r.Flush()
	}
	return nil
}

// Flush writes all buffered events in one transaction.
func (r *Recorder) Flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin recording transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO access_events (seq, kind, address, size, outcome) " +
			"VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range r.buffer {
		r.seq++
		_, err := stmt.Exec(
			r.seq, ev.Kind.String(), fmt.Sprintf("%x", ev.Address), ev.Size,
			outcomeText(ev))
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recording transaction: %w", err)
	}

	r.buffer = r.buffer[:0]

	return nil
}

// Close flushes buffered events and closes the database.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		r.db.Close()
		return err
	}
	return r.db.Close()
}

func outcomeText(ev sim.Event) string {
	words := make([]string, 0, len(ev.Outcomes))
	for _, o := range ev.Outcomes {
		words = append(words, o.String())
	}
	return strings.Join(words, " ")
}
