package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/openhazard/logictree/internal/logictree"
)

// ErrNotFound is returned when a slot has no stored tree.
var ErrNotFound = errors.New("slot not found")

// Store persists encoded logic trees in a SQLite file. Each tree occupies
// one named slot holding two pieces: the ordered branch record sequence and
// the branch set attrs blob.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS lt_branches (
		slot TEXT NOT NULL,
		seq INTEGER NOT NULL,
		bsid TEXT NOT NULL,
		brid TEXT NOT NULL,
		uncertainty TEXT NOT NULL,
		weight REAL NOT NULL,
		PRIMARY KEY (slot, seq)
	);
	CREATE TABLE IF NOT EXISTS lt_attrs (
		slot TEXT PRIMARY KEY,
		blob TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveTree encodes the tree and writes both slots transactionally,
// replacing any previous content under the same name.
func (s *Store) SaveTree(slot string, lt *logictree.LogicTree) error {
	records, blob, err := lt.Encode()
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op if committed

	if _, err := tx.Exec("DELETE FROM lt_branches WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("clear slot %q: %w", slot, err)
	}
	stmt, err := tx.Prepare(
		"INSERT INTO lt_branches (slot, seq, bsid, brid, uncertainty, weight) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare branch insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for seq, rec := range records {
		if _, err := stmt.Exec(slot, seq, rec.BsID, rec.BrID, rec.Uncertainty, rec.Weight); err != nil {
			return fmt.Errorf("insert branch %s/%s: %w", rec.BsID, rec.BrID, err)
		}
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO lt_attrs (slot, blob) VALUES (?, ?)", slot, blob); err != nil {
		return fmt.Errorf("insert attrs for slot %q: %w", slot, err)
	}
	return tx.Commit()
}

// LoadTree reads back a slot and decodes it, re-running the linking pass.
func (s *Store) LoadTree(slot string) (*logictree.LogicTree, error) {
	var blob string
	err := s.db.QueryRow("SELECT blob FROM lt_attrs WHERE slot = ?", slot).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, slot)
	}
	if err != nil {
		return nil, fmt.Errorf("read attrs for slot %q: %w", slot, err)
	}
	rows, err := s.db.Query(
		"SELECT bsid, brid, uncertainty, weight FROM lt_branches WHERE slot = ? ORDER BY seq", slot)
	if err != nil {
		return nil, fmt.Errorf("read branches for slot %q: %w", slot, err)
	}
	defer func() { _ = rows.Close() }()

	var records []logictree.BranchRecord
	for rows.Next() {
		var rec logictree.BranchRecord
		if err := rows.Scan(&rec.BsID, &rec.BrID, &rec.Uncertainty, &rec.Weight); err != nil {
			return nil, fmt.Errorf("scan branch row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logictree.Decode(records, blob)
}

// Slots lists the stored tree names.
func (s *Store) Slots() ([]string, error) {
	rows, err := s.db.Query("SELECT slot FROM lt_attrs ORDER BY slot")
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
