package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/CodexForgeBR/commitcat/internal/config"
	"github.com/CodexForgeBR/commitcat/internal/logging"
)

// Sentinel errors returned by Load.
var (
	ErrNotFound = errors.New("no saved snapshot")
	ErrCorrupt  = errors.New("saved snapshot is unreadable")
)

// Store loads and saves snapshots.
type Store interface {
	Load() (Snapshot, error)
	Save(s Snapshot) error
	Close() error
}

// File names inside the data directory.
const (
	JSONFileName   = "commit-cat-data.json"
	SQLiteFileName = "commitcat.db"
)

// Open returns the backend selected by cfg.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.DataDir, SQLiteFileName))
	case config.BackendJSON, "":
		return NewFileStore(filepath.Join(cfg.DataDir, JSONFileName)), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// LoadOrDefault loads the snapshot, falling back to a fresh one when none is
// saved or the saved one cannot be read. It never fails.
func LoadOrDefault(st Store, now time.Time) Snapshot {
	snap, err := st.Load()
	switch {
	case err == nil:
		return snap.Normalize(now)
	case errors.Is(err, ErrNotFound):
		logging.Debug("no saved snapshot, starting fresh")
	case errors.Is(err, ErrCorrupt):
		logging.Warn(fmt.Sprintf("%v; starting from defaults", err))
	default:
		logging.Warn(fmt.Sprintf("load snapshot: %v; starting from defaults", err))
	}
	return NewSnapshot(now)
}
