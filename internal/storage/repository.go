// Package storage persists store snapshots to a local SQLite database.
//
// The whole application state lives in a single key-value slot: one row in
// app_state keyed by StorageKey, holding a versioned JSON envelope of the
// three entity collections.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"carlog/internal/core"
)

// StorageKey is the fixed namespace identifier for the persisted snapshot.
const StorageKey = "car-maintenance-storage"

// envelopeVersion guards forward compatibility. Snapshots with an unknown
// version are treated as unreadable and the store falls back to seed state.
const envelopeVersion = 1

type envelope struct {
	Version        int                  `json:"version"`
	Vehicles       []core.Vehicle       `json:"vehicles"`
	ServiceRecords []core.ServiceRecord `json:"serviceRecords"`
	Reminders      []core.Reminder      `json:"reminders"`
}

type SQLiteRepository struct {
	db *sqlx.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and runs any
// pending schema migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements store.SnapshotStore. A missing row means no snapshot has
// been written yet; a malformed or unknown-version envelope is logged and
// reported as ok=false so the caller falls back to seed state.
func (r *SQLiteRepository) Load(ctx context.Context) (core.State, bool, error) {
	var raw []byte
	err := r.db.GetContext(ctx, &raw, "SELECT value FROM app_state WHERE key = ?", StorageKey)
	if errors.Is(err, sql.ErrNoRows) {
		return core.State{}, false, nil
	}
	if err != nil {
		return core.State{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.WarnContext(ctx, "Discarding malformed persisted state",
			"storage_key", StorageKey, "error", err)
		return core.State{}, false, nil
	}
	if env.Version != envelopeVersion {
		slog.WarnContext(ctx, "Discarding persisted state with unknown version",
			"storage_key", StorageKey, "version", env.Version)
		return core.State{}, false, nil
	}

	return core.State{
		Vehicles:       env.Vehicles,
		ServiceRecords: env.ServiceRecords,
		Reminders:      env.Reminders,
	}, true, nil
}

// Save implements store.SnapshotStore by upserting the full snapshot into
// the fixed slot.
func (r *SQLiteRepository) Save(ctx context.Context, state core.State) error {
	raw, err := json.Marshal(envelope{
		Version:        envelopeVersion,
		Vehicles:       state.Vehicles,
		ServiceRecords: state.ServiceRecords,
		Reminders:      state.Reminders,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	const query = `
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, StorageKey, raw); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved to SQLite",
		"storage_key", StorageKey,
		"vehicles", len(state.Vehicles),
		"service_records", len(state.ServiceRecords),
		"reminders", len(state.Reminders))
	return nil
}
