package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/CodexForgeBR/commitcat/internal/progression"

	_ "modernc.org/sqlite"
)

// DBSchemaVersion is the latest SQLite schema version supported by Migrate.
const DBSchemaVersion = 1

const appStateKeySnapshot = "snapshot"

// SQLiteStore keeps the snapshot in a SQLite database: settings and totals as
// one JSON row in app_state, the daily history as rows in daily_history.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	st, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// NewSQLite returns a store bound to an existing handle, migrating it first.
func NewSQLite(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Migrate ensures the schema exists and is upgraded to DBSchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= DBSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create app_state table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS daily_history (
			date TEXT PRIMARY KEY,
			coding_minutes INTEGER NOT NULL DEFAULT 0,
			commits INTEGER NOT NULL DEFAULT 0,
			focused_sessions INTEGER NOT NULL DEFAULT 0,
			exp_gained INTEGER NOT NULL DEFAULT 0,
			streak_awarded INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create daily_history table: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, DBSchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit transaction: %w", err)
	}
	return nil
}

// Load reads the snapshot row and its history.
func (s *SQLiteStore) Load() (Snapshot, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, appStateKeySnapshot).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	rows, err := s.db.Query(`SELECT date, coding_minutes, commits, focused_sessions, exp_gained, streak_awarded
		FROM daily_history ORDER BY date ASC`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	snap.History = []progression.Daily{}
	for rows.Next() {
		var d progression.Daily
		if err := rows.Scan(&d.Date, &d.CodingMinutes, &d.Commits, &d.FocusSessions, &d.ExpGained, &d.StreakAwarded); err != nil {
			return Snapshot{}, fmt.Errorf("load history: scan: %w", err)
		}
		snap.History = append(snap.History, d)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("load history: %w", err)
	}
	return snap, nil
}

// Save replaces the snapshot row and the history in one transaction.
func (s *SQLiteStore) Save(snap Snapshot) error {
	history := snap.History
	snap.History = nil
	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = tx.Exec(`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		appStateKeySnapshot, string(value), now)
	if err != nil {
		return fmt.Errorf("save: upsert snapshot: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM daily_history`); err != nil {
		return fmt.Errorf("save: clear history: %w", err)
	}
	for _, d := range history {
		_, err := tx.Exec(`INSERT OR REPLACE INTO daily_history
			(date, coding_minutes, commits, focused_sessions, exp_gained, streak_awarded)
			VALUES (?, ?, ?, ?, ?, ?)`,
			d.Date, d.CodingMinutes, d.Commits, d.FocusSessions, d.ExpGained, d.StreakAwarded)
		if err != nil {
			return fmt.Errorf("save: insert history %s: %w", d.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save: commit transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
