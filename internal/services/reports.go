package services

import (
	"fmt"
	"time"

	"carlog/internal/cache"
	"carlog/internal/core"
	"carlog/internal/log"
	"carlog/internal/store"
)

const (
	dashboardCacheSize = 8
	dashboardCacheTTL  = 5 * time.Minute
)

type (
	// ServiceRow is a service record joined with its vehicle display name.
	ServiceRow struct {
		core.ServiceRecord
		VehicleName string
	}

	// ReminderRow is a reminder joined with its vehicle display name.
	ReminderRow struct {
		core.Reminder
		VehicleName string
	}

	// Dashboard is everything the dashboard view renders.
	Dashboard struct {
		VehicleCount int
		RecordCount  int
		TotalSpent   core.Money
		OverdueCount int
		Recent       []ServiceRow
		Reminders    []ReminderRow
		ByCategory   []core.CategorySpend
		ByMonth      []core.MonthSpend
	}
)

// Reports assembles view-ready data from store snapshots. Dashboards are
// memoized per store revision since every mutation bumps the revision.
type Reports struct {
	store       *store.Store
	cache       *cache.LRUCache[Dashboard]
	recentLimit int
	logger      *log.Logger
}

func NewReports(st *store.Store, recentLimit int, logger *log.Logger) *Reports {
	if recentLimit < 1 {
		recentLimit = 5
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Reports{
		store:       st,
		cache:       cache.NewLRUCache[Dashboard](dashboardCacheSize, dashboardCacheTTL),
		recentLimit: recentLimit,
		logger:      logger.WithComponent(log.ComponentReports),
	}
}

// Dashboard builds the dashboard view from the current snapshot.
func (r *Reports) Dashboard() Dashboard {
	key := fmt.Sprintf("dashboard:%d", r.store.Revision())
	if d, ok := r.cache.Get(key); ok {
		return d
	}

	state := r.store.State()
	d := Dashboard{
		VehicleCount: len(state.Vehicles),
		RecordCount:  len(state.ServiceRecords),
		TotalSpent:   core.TotalSpent(state.ServiceRecords),
		OverdueCount: core.OverdueCount(state.Reminders),
		Recent:       joinRecords(core.RecentServices(state.ServiceRecords, r.recentLimit), state.Vehicles),
		ByCategory:   core.SpendByCategory(state.ServiceRecords),
		ByMonth:      core.SpendByMonth(state.ServiceRecords),
	}
	for _, rem := range core.SortReminders(state.Reminders) {
		d.Reminders = append(d.Reminders, ReminderRow{
			Reminder:    rem,
			VehicleName: core.DisplayName(state.Vehicles, rem.VehicleID),
		})
	}

	r.cache.Set(key, d)
	r.logger.Debug("dashboard rebuilt", log.FieldRevision, r.store.Revision())
	return d
}

// ServiceHistory returns the filtered, date-descending service history with
// resolved vehicle names. vehicleID "" or "all" matches every vehicle.
func (r *Reports) ServiceHistory(query, vehicleID string) []ServiceRow {
	state := r.store.State()
	return joinRecords(
		core.FilterServices(state.ServiceRecords, state.Vehicles, query, vehicleID),
		state.Vehicles,
	)
}

func joinRecords(records []core.ServiceRecord, vehicles []core.Vehicle) []ServiceRow {
	var out []ServiceRow
	for _, rec := range records {
		out = append(out, ServiceRow{
			ServiceRecord: rec,
			VehicleName:   core.DisplayName(vehicles, rec.VehicleID),
		})
	}
	return out
}
