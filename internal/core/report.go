package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// UnknownVehicle is returned when a vehicle reference cannot be resolved,
// e.g. a record whose vehicle was deleted before cascade deletes existed.
const UnknownVehicle = "Unknown"

type (
	// CategorySpend is the total cost of all service records of one type.
	CategorySpend struct {
		Type  ServiceType
		Total Money
	}

	// MonthSpend is the total cost of all service records in one calendar
	// month. Label is the display form, e.g. "Dec 2025".
	MonthSpend struct {
		Year  int
		Month time.Month
		Label string
		Total Money
	}
)

// DisplayName resolves a vehicle id to "{year} {make} {model}", or
// UnknownVehicle if no vehicle matches.
func DisplayName(vehicles []Vehicle, vehicleID string) string {
	for _, v := range vehicles {
		if v.ID == vehicleID {
			return displayName(v)
		}
	}
	return UnknownVehicle
}

func displayName(v Vehicle) string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

// RecentServices returns the n most recent records by service date, most
// recent first. Records sharing a date keep their relative input order.
func RecentServices(records []ServiceRecord, n int) []ServiceRecord {
	sorted := sortByDateDesc(records)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SortReminders orders reminders by status priority (overdue, soon, ok).
// Reminders with equal status keep their relative input order.
func SortReminders(reminders []Reminder) []Reminder {
	out := append([]Reminder(nil), reminders...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status.Priority() < out[j].Status.Priority()
	})
	return out
}

// SpendByCategory sums record costs per service type. Types with no records
// are omitted; categories appear in order of first occurrence.
func SpendByCategory(records []ServiceRecord) []CategorySpend {
	index := make(map[ServiceType]int)
	var out []CategorySpend
	for _, r := range records {
		if i, ok := index[r.Type]; ok {
			out[i].Total = out[i].Total.Add(r.Cost)
			continue
		}
		index[r.Type] = len(out)
		out = append(out, CategorySpend{Type: r.Type, Total: r.Cost})
	}
	return out
}

// SpendByMonth sums record costs per calendar month, sorted chronologically
// (so "Jan 2026" follows "Dec 2025" rather than sorting by label).
func SpendByMonth(records []ServiceRecord) []MonthSpend {
	index := make(map[int]int)
	var out []MonthSpend
	for _, r := range records {
		if r.Date.IsZero() {
			continue
		}
		year, month := r.Date.Year(), r.Date.Time.Month()
		key := year*12 + int(month)
		if i, ok := index[key]; ok {
			out[i].Total = out[i].Total.Add(r.Cost)
			continue
		}
		index[key] = len(out)
		out = append(out, MonthSpend{
			Year:  year,
			Month: month,
			Label: r.Date.Format("Jan 2006"),
			Total: r.Cost,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// FilterServices retains records matching the vehicle filter and the
// free-text query, sorted by date descending.
//
// An empty or "all" vehicleID matches every record. A blank query matches
// every record; otherwise the lowercased query must be a substring of the
// record's type, shop, notes, or resolved vehicle display name.
func FilterServices(records []ServiceRecord, vehicles []Vehicle, query, vehicleID string) []ServiceRecord {
	var out []ServiceRecord
	q := strings.ToLower(strings.TrimSpace(query))
	for _, r := range records {
		if vehicleID != "" && vehicleID != "all" && r.VehicleID != vehicleID {
			continue
		}
		if q != "" && !matchesQuery(r, vehicles, q) {
			continue
		}
		out = append(out, r)
	}
	return sortByDateDesc(out)
}

func matchesQuery(r ServiceRecord, vehicles []Vehicle, q string) bool {
	return strings.Contains(strings.ToLower(string(r.Type)), q) ||
		strings.Contains(strings.ToLower(r.Shop), q) ||
		strings.Contains(strings.ToLower(r.Notes), q) ||
		strings.Contains(strings.ToLower(DisplayName(vehicles, r.VehicleID)), q)
}

// TotalSpent sums the cost of all records.
func TotalSpent(records []ServiceRecord) Money {
	var total Money
	for _, r := range records {
		total = total.Add(r.Cost)
	}
	return total
}

// OverdueCount counts reminders with overdue status.
func OverdueCount(reminders []Reminder) int {
	n := 0
	for _, r := range reminders {
		if r.Status == StatusOverdue {
			n++
		}
	}
	return n
}

func sortByDateDesc(records []ServiceRecord) []ServiceRecord {
	out := append([]ServiceRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date)
	})
	return out
}
