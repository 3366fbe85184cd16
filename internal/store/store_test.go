package store

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"carlog/internal/core"
	"carlog/internal/log"
	"carlog/internal/store/memory"
)

func newTestStore(t *testing.T, snapshots SnapshotStore) *Store {
	t.Helper()
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	s := New(snapshots, logger)
	s.Open(context.Background())
	return s
}

func TestOpenFallsBackToSeed(t *testing.T) {
	s := newTestStore(t, memory.New())
	defer s.Close()

	if !reflect.DeepEqual(s.State(), core.SeedState()) {
		t.Error("fresh store should hold the seed dataset")
	}
}

func TestAddVehicleAssignsUniqueIDs(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	seen := map[string]bool{}
	for _, v := range s.Vehicles() {
		seen[v.ID] = true
	}
	for i := 0; i < 100; i++ {
		id := s.AddVehicle(core.Vehicle{Make: "Honda", Model: "Civic"})
		if id == "" {
			t.Fatal("empty id assigned")
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if got := len(s.Vehicles()); got != 102 {
		t.Fatalf("expected 102 vehicles, got %d", got)
	}
}

func TestAddVehicleOverwritesCallerID(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	id := s.AddVehicle(core.Vehicle{ID: "v1", Make: "Honda"})
	if id == "v1" {
		t.Error("caller-supplied id must be replaced")
	}
}

func TestUpdateVehiclePartialMerge(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	id := s.AddVehicle(core.Vehicle{Make: "Honda", Model: "Civic", Mileage: 100, Color: "Red"})
	mileage := 5
	s.UpdateVehicle(id, core.VehiclePatch{Mileage: &mileage})

	var got core.Vehicle
	for _, v := range s.Vehicles() {
		if v.ID == id {
			got = v
		}
	}
	if got.Mileage != 5 {
		t.Errorf("mileage = %d, want 5", got.Mileage)
	}
	if got.Color != "Red" || got.Make != "Honda" {
		t.Errorf("unpatched fields changed: %+v", got)
	}
}

func TestUpdateUnknownVehicleIsNoOp(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	before := s.State()
	rev := s.Revision()
	mileage := 1
	s.UpdateVehicle("nope", core.VehiclePatch{Mileage: &mileage})

	if s.Revision() != rev {
		t.Error("no-op must not bump the revision")
	}
	if !reflect.DeepEqual(s.State(), before) {
		t.Error("no-op must not change state")
	}
}

func TestDeleteVehicleCascades(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	// Seed has v1 with records s1, s2, s5 and reminders r1, r3.
	s.DeleteVehicle("v1")

	for _, v := range s.Vehicles() {
		if v.ID == "v1" {
			t.Fatal("vehicle still present")
		}
	}
	records := s.ServiceRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 surviving records, got %d", len(records))
	}
	for _, r := range records {
		if r.VehicleID == "v1" {
			t.Errorf("record %s not cascade-deleted", r.ID)
		}
	}
	reminders := s.Reminders()
	if len(reminders) != 2 {
		t.Fatalf("expected 2 surviving reminders, got %d", len(reminders))
	}
	for _, r := range reminders {
		if r.VehicleID == "v1" {
			t.Errorf("reminder %s not cascade-deleted", r.ID)
		}
	}
}

func TestAddServiceRecordPrepends(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	id := s.AddServiceRecord(core.ServiceRecord{VehicleID: "v1", Type: core.OilChange})
	records := s.ServiceRecords()
	if records[0].ID != id {
		t.Errorf("new record should be first, got %s", records[0].ID)
	}
	if records[1].ID != "s1" {
		t.Errorf("prior records should shift down, got %s", records[1].ID)
	}
}

func TestDeleteServiceRecordIdempotent(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	s.DeleteServiceRecord("s1")
	after := s.State()
	rev := s.Revision()

	s.DeleteServiceRecord("s1")
	if !reflect.DeepEqual(s.State(), after) {
		t.Error("second delete changed state")
	}
	if s.Revision() != rev {
		t.Error("second delete bumped revision")
	}
}

func TestRemindersAddAndDelete(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	id := s.AddReminder(core.Reminder{VehicleID: "v2", Type: core.Battery, Status: core.StatusSoon})
	reminders := s.Reminders()
	if reminders[len(reminders)-1].ID != id {
		t.Error("reminder should be appended")
	}

	s.DeleteReminder(id)
	for _, r := range s.Reminders() {
		if r.ID == id {
			t.Fatal("reminder still present after delete")
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	snapshots := memory.New()

	s := newTestStore(t, snapshots)
	vid := s.AddVehicle(core.Vehicle{Make: "Honda", Model: "Civic", Year: 2024})
	s.AddServiceRecord(core.ServiceRecord{
		VehicleID: vid,
		Type:      core.OilChange,
		Date:      core.NewDate(2026, 2, 1),
		Cost:      core.Money{Cents: 7500},
	})
	s.DeleteVehicle("v2")
	want := s.State()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Simulated restart: a new store over the same snapshot slot.
	s2 := newTestStore(t, snapshots)
	defer s2.Close()
	if !reflect.DeepEqual(s2.State(), want) {
		t.Error("reloaded state differs from persisted state")
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	var calls int
	var last core.State
	unsubscribe := s.Subscribe(func(state core.State) {
		calls++
		last = state
	})

	id := s.AddVehicle(core.Vehicle{Make: "Honda"})
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
	found := false
	for _, v := range last.Vehicles {
		if v.ID == id {
			found = true
		}
	}
	if !found {
		t.Error("listener did not receive committed snapshot")
	}

	unsubscribe()
	s.DeleteVehicle(id)
	if calls != 1 {
		t.Errorf("unsubscribed listener still called, calls = %d", calls)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	snap := s.State()
	s.DeleteVehicle("v1")

	if len(snap.Vehicles) != 2 {
		t.Error("earlier snapshot changed after mutation")
	}
	snap.Vehicles[0].Mileage = 123456
	for _, v := range s.Vehicles() {
		if v.Mileage == 123456 {
			t.Error("mutating a returned snapshot leaked into the store")
		}
	}
}

func TestRevisionAdvancesPerMutation(t *testing.T) {
	s := newTestStore(t, nil)
	defer s.Close()

	r0 := s.Revision()
	s.AddVehicle(core.Vehicle{Make: "Honda"})
	s.AddReminder(core.Reminder{VehicleID: "v1", Type: core.OilChange, Status: core.StatusOK})
	if got := s.Revision(); got != r0+2 {
		t.Errorf("revision = %d, want %d", got, r0+2)
	}
}
