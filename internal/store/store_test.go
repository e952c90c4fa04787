package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/typetrace/backend/internal/buffer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "TypeTrace.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateTablesIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.CreateTables(); err != nil {
		t.Fatalf("second CreateTables: %v", err)
	}
}

func TestWriteBatchEmptyIsNoop(t *testing.T) {
	s := openTestStore(t)
	if err := s.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch(nil): %v", err)
	}
}

func TestWriteBatchInsertsAndCounts(t *testing.T) {
	s := openTestStore(t)
	events := []buffer.Event{
		{ScanCode: 30, KeyName: "KEY_A", LocalDate: "2024-01-01"},
		{ScanCode: 30, KeyName: "KEY_A", LocalDate: "2024-01-01"},
		{ScanCode: 30, KeyName: "KEY_A", LocalDate: "2024-01-01"},
	}
	if err := s.WriteBatch(events); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	row, err := s.ReadRow(30, "2024-01-01")
	if err != nil {
		t.Fatalf("ReadRow: %v", err)
	}
	if row.Count != 3 {
		t.Errorf("got count %d, want 3", row.Count)
	}
	if row.KeyName != "KEY_A" {
		t.Errorf("got key_name %q, want KEY_A", row.KeyName)
	}
}

func TestWriteBatchTwiceDoublesCount(t *testing.T) {
	s := openTestStore(t)
	events := []buffer.Event{
		{ScanCode: 30, KeyName: "KEY_A", LocalDate: "2024-01-01"},
		{ScanCode: 31, KeyName: "KEY_S", LocalDate: "2024-01-01"},
	}
	if err := s.WriteBatch(events); err != nil {
		t.Fatalf("first WriteBatch: %v", err)
	}
	if err := s.WriteBatch(events); err != nil {
		t.Fatalf("second WriteBatch: %v", err)
	}

	row, err := s.ReadRow(30, "2024-01-01")
	if err != nil {
		t.Fatalf("ReadRow: %v", err)
	}
	if row.Count != 2 {
		t.Errorf("got count %d, want 2", row.Count)
	}
}

func TestWriteBatchNameEvolution(t *testing.T) {
	s := openTestStore(t)
	first := []buffer.Event{{ScanCode: 30, KeyName: "KEY_A", LocalDate: "2024-01-01"}}
	second := []buffer.Event{{ScanCode: 30, KeyName: "OTHER_NAME", LocalDate: "2024-01-01"}}

	if err := s.WriteBatch(first); err != nil {
		t.Fatalf("first WriteBatch: %v", err)
	}
	if err := s.WriteBatch(second); err != nil {
		t.Fatalf("second WriteBatch: %v", err)
	}

	row, err := s.ReadRow(30, "2024-01-01")
	if err != nil {
		t.Fatalf("ReadRow: %v", err)
	}
	if row.Count != 2 {
		t.Errorf("got count %d, want 2", row.Count)
	}
	if row.KeyName != "OTHER_NAME" {
		t.Errorf("got key_name %q, want OTHER_NAME (last-writer-wins)", row.KeyName)
	}
}

func TestReadRowMissingReturnsErrNoRows(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadRow(999, "2024-01-01")
	if err != sql.ErrNoRows {
		t.Errorf("got %v, want sql.ErrNoRows", err)
	}
}

func TestWriteBatchPartialFailureStillCommitsGoodRows(t *testing.T) {
	s := openTestStore(t)
	// Make every upsert for scan_code 999 fail on its own statement.
	if _, err := s.db.Exec(`CREATE TRIGGER reject_999 BEFORE INSERT ON keystrokes
		WHEN NEW.scan_code = 999 BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	events := []buffer.Event{
		{ScanCode: 30, KeyName: "KEY_A", LocalDate: "2024-01-01"},
		{ScanCode: 999, KeyName: "UNKNOWN", LocalDate: "2024-01-01"},
		{ScanCode: 31, KeyName: "KEY_S", LocalDate: "2024-01-01"},
	}
	if err := s.WriteBatch(events); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	if _, err := s.ReadRow(30, "2024-01-01"); err != nil {
		t.Errorf("expected row for scan_code 30: %v", err)
	}
	if _, err := s.ReadRow(31, "2024-01-01"); err != nil {
		t.Errorf("expected row for scan_code 31: %v", err)
	}
	if _, err := s.ReadRow(999, "2024-01-01"); err != sql.ErrNoRows {
		t.Errorf("got %v for rejected scan_code 999, want sql.ErrNoRows", err)
	}
}
