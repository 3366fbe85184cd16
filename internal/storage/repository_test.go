package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"carlog/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "carlog.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLoadBeforeFirstSave(t *testing.T) {
	repo := newTestRepo(t)

	_, ok, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("fresh database should report no snapshot")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	want := core.SeedState()

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveReplacesPriorSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, core.SeedState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	next := core.State{Vehicles: []core.Vehicle{{ID: "vX", Make: "Honda", Model: "Civic", Year: 2024}}}
	if err := repo.Save(ctx, next); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, ok, err := repo.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(got.Vehicles) != 1 || got.Vehicles[0].ID != "vX" {
		t.Errorf("slot not replaced: %+v", got)
	}
	if len(got.ServiceRecords) != 0 {
		t.Errorf("stale records survived: %d", len(got.ServiceRecords))
	}
}

func TestLoadMalformedValueFallsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO app_state (key, value) VALUES (?, ?)", StorageKey, "{not json")
	if err != nil {
		t.Fatalf("seed malformed row: %v", err)
	}

	_, ok, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("malformed state must be recoverable, got %v", err)
	}
	if ok {
		t.Error("malformed state should report no snapshot")
	}
}

func TestLoadUnknownVersionFallsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.db.ExecContext(ctx,
		"INSERT INTO app_state (key, value) VALUES (?, ?)",
		StorageKey, `{"version": 99, "vehicles": [], "serviceRecords": [], "reminders": []}`)
	if err != nil {
		t.Fatalf("seed row: %v", err)
	}

	_, ok, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("unknown version must be recoverable, got %v", err)
	}
	if ok {
		t.Error("unknown version should report no snapshot")
	}
}
