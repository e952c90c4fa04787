// Package store implements the aggregation store: an upsert-only SQLite
// schema with a compound uniqueness key, WAL-mode durability, and
// transactional batch writes (spec.md §4.6). It is the one place in the
// daemon that talks to the embedded relational database the frontend
// later reads.
package store

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/typetrace/backend/internal/buffer"
	"github.com/typetrace/backend/internal/paths"
)

const schema = `
CREATE TABLE IF NOT EXISTS keystrokes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	scan_code  INTEGER NOT NULL,
	key_name   TEXT    NOT NULL,
	date       TEXT    NOT NULL,
	count      INTEGER NOT NULL DEFAULT 0,
	UNIQUE(scan_code, date)
)`

const upsertSQL = `
INSERT INTO keystrokes (scan_code, key_name, date, count)
VALUES (?, ?, ?, 1)
ON CONFLICT(scan_code, date)
DO UPDATE SET count = count + 1,
              key_name = excluded.key_name`

const pragmas = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = 10000;
PRAGMA temp_store = MEMORY;`

// Store owns the single *sql.DB handle the daemon writes through. A
// single process, single thread writes to it; there is no internal
// reader/writer coordination (spec.md §4.6 Concurrency).
type Store struct {
	db *sql.DB
}

// Open resolves the store path's parent directories, opens (creating if
// absent) the SQLite file at path, applies the WAL/performance pragmas,
// and creates the schema if it does not already exist.
func Open(path string) (*Store, error) {
	if err := paths.EnsureParents(path); err != nil {
		return nil, fmt.Errorf("store: ensure parent dirs: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	// A single writer talks to this handle; cap it at one connection so
	// SQLite's own file locking never has to arbitrate between two
	// goroutines in this process.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}

	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply pragmas: %w", err)
	}

	if err := s.CreateTables(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// CreateTables executes the schema DDL. It is idempotent: running it
// twice on a fresh store yields the same schema (IF NOT EXISTS).
func (s *Store) CreateTables() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// WriteBatch upserts every event in events inside a single transaction,
// preparing the upsert statement once and stepping it once per event
// (spec.md §4.6 step 3). A malformed individual event is logged and
// skipped; the transaction still commits the successful rows.
func (s *Store) WriteBatch(events []buffer.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(upsertSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("store: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.ScanCode, ev.KeyName, ev.LocalDate); err != nil {
			log.Printf("store: skipping malformed event scan_code=%d date=%s: %v",
				ev.ScanCode, ev.LocalDate, err)
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Row is a persisted KeystrokeRow, used by tests and the rollup reader.
type Row struct {
	ID       int64
	ScanCode uint16
	KeyName  string
	Date     string
	Count    int64
}

// ReadRow returns the row for (scanCode, date), or sql.ErrNoRows if absent.
func (s *Store) ReadRow(scanCode uint16, date string) (Row, error) {
	var r Row
	err := s.db.QueryRow(
		`SELECT id, scan_code, key_name, date, count FROM keystrokes WHERE scan_code = ? AND date = ?`,
		scanCode, date,
	).Scan(&r.ID, &r.ScanCode, &r.KeyName, &r.Date, &r.Count)
	return r, err
}

// RowsForDate returns every row recorded for date, used by the rollup
// reader for its busiest-key summary.
func (s *Store) RowsForDate(date string) ([]Row, error) {
	rows, err := s.db.Query(
		`SELECT id, scan_code, key_name, date, count FROM keystrokes WHERE date = ?`, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.ScanCode, &r.KeyName, &r.Date, &r.Count); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
