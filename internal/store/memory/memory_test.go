package memory

import (
	"context"
	"reflect"
	"testing"

	"carlog/internal/core"
)

func TestLoadBeforeSave(t *testing.T) {
	s := New()
	_, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("fresh store should report no snapshot")
	}
}

func TestSaveThenLoad(t *testing.T) {
	s := New()
	ctx := context.Background()
	want := core.SeedState()

	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("loaded snapshot differs from saved")
	}
}

func TestSaveTakesACopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	state := core.SeedState()

	if err := s.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	state.Vehicles[0].Mileage = 999999

	got, _, _ := s.Load(ctx)
	if got.Vehicles[0].Mileage == 999999 {
		t.Error("saved snapshot aliases the caller's slices")
	}
}
