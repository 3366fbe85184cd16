package core

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2025-12-15", NewDate(2025, 12, 15), true},
		{"", Date{}, true},
		{"12/15/2025", Date{}, false},
		{"2025-13-40", Date{}, false},
	}
	for i, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if tc.ok && !got.Equal(tc.want.Time) {
			t.Fatalf("case %d got %v want %v", i, got, tc.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, 1, 30)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"2026-01-30"` {
		t.Fatalf("got %s", raw)
	}
	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{6500, "$65.00"},
		{35, "$0.35"},
		{0, "$0.00"},
		{-150, "-$1.50"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	raw, err := json.Marshal(Money{Cents: 18000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "18000" {
		t.Fatalf("got %s", raw)
	}
	var m Money
	if err := json.Unmarshal([]byte("6500"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 6500 {
		t.Fatalf("got %d", m.Cents)
	}
}

func TestVehiclePatchApply(t *testing.T) {
	v := Vehicle{
		ID:      "v1",
		Make:    "Toyota",
		Model:   "Camry",
		Year:    2022,
		Mileage: 100,
		Color:   "Red",
	}
	mileage := 5
	got := VehiclePatch{Mileage: &mileage}.Apply(v)

	if got.Mileage != 5 {
		t.Errorf("mileage not patched: %d", got.Mileage)
	}
	if got.Color != "Red" || got.Make != "Toyota" || got.Year != 2022 {
		t.Errorf("unpatched fields changed: %+v", got)
	}
	if got.ID != "v1" {
		t.Errorf("id must never change, got %q", got.ID)
	}
}

func TestServiceRecordPatchApply(t *testing.T) {
	r := ServiceRecord{ID: "s1", Type: OilChange, Cost: Money{Cents: 6500}, Shop: "QuickLube"}
	cost := Money{Cents: 7000}
	notes := "coupon applied"
	got := ServiceRecordPatch{Cost: &cost, Notes: &notes}.Apply(r)

	if got.Cost.Cents != 7000 || got.Notes != "coupon applied" {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.Type != OilChange || got.Shop != "QuickLube" {
		t.Errorf("unpatched fields changed: %+v", got)
	}
}

func TestStateCloneIsIndependent(t *testing.T) {
	orig := SeedState()
	clone := orig.Clone()

	clone.Vehicles[0].Mileage = 99999
	clone.ServiceRecords = clone.ServiceRecords[:1]

	if orig.Vehicles[0].Mileage == 99999 {
		t.Error("mutating clone changed original vehicle")
	}
	if len(orig.ServiceRecords) != 5 {
		t.Errorf("original record count changed: %d", len(orig.ServiceRecords))
	}
	if !reflect.DeepEqual(orig, SeedState()) {
		t.Error("original no longer equals seed state")
	}
}

func TestServiceTypeValid(t *testing.T) {
	for _, st := range ServiceTypes {
		if !st.Valid() {
			t.Errorf("%q should be valid", st)
		}
	}
	if ServiceType("Detailing").Valid() {
		t.Error("unknown type should be invalid")
	}
}

func TestReminderStatusPriority(t *testing.T) {
	if !(StatusOverdue.Priority() < StatusSoon.Priority() && StatusSoon.Priority() < StatusOK.Priority()) {
		t.Error("status priority ordering broken")
	}
	if ReminderStatus("later").Valid() {
		t.Error("unknown status should be invalid")
	}
}
