// Package services sits between the view layer and the domain store. It
// coerces raw user input into domain values and assembles the read views
// the UI renders.
package services

import (
	"strconv"
	"strings"

	"carlog/internal/core"
	"carlog/internal/log"
	"carlog/internal/store"
)

// GarageService turns raw form input into store mutations. The store itself
// performs no validation; coercion happens here, and numeric fields that
// fail to parse resolve to zero so aggregates stay well-defined.
type GarageService struct {
	store  *store.Store
	logger *log.Logger
}

type (
	// VehicleInput carries raw field values collected by a form.
	VehicleInput struct {
		Make         string
		Model        string
		Year         string
		Mileage      string
		Color        string
		LicensePlate string
		ImageURL     string
	}

	ServiceRecordInput struct {
		VehicleID string
		Type      string
		Date      string
		Mileage   string
		Cost      string
		Shop      string
		Notes     string
	}

	ReminderInput struct {
		VehicleID  string
		Type       string
		DueDate    string
		DueMileage string
		Status     string
	}
)

func NewGarageService(st *store.Store, logger *log.Logger) *GarageService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &GarageService{
		store:  st,
		logger: logger.WithComponent(log.ComponentGarage),
	}
}

// AddVehicle coerces the input and adds the vehicle, returning its id.
func (g *GarageService) AddVehicle(in VehicleInput) string {
	return g.store.AddVehicle(core.Vehicle{
		Make:         strings.TrimSpace(in.Make),
		Model:        strings.TrimSpace(in.Model),
		Year:         CoerceInt(in.Year),
		Mileage:      CoerceInt(in.Mileage),
		Color:        strings.TrimSpace(in.Color),
		LicensePlate: strings.TrimSpace(in.LicensePlate),
		ImageURL:     strings.TrimSpace(in.ImageURL),
	})
}

// UpdateVehicle applies a partial update to the vehicle with the given id.
func (g *GarageService) UpdateVehicle(id string, patch core.VehiclePatch) {
	g.store.UpdateVehicle(id, patch)
}

// DeleteVehicle removes the vehicle and everything that references it. The
// view layer is responsible for confirming with the user first.
func (g *GarageService) DeleteVehicle(id string) {
	g.store.DeleteVehicle(id)
}

// AddServiceRecord coerces the input and logs the service event, returning
// its id.
func (g *GarageService) AddServiceRecord(in ServiceRecordInput) string {
	return g.store.AddServiceRecord(core.ServiceRecord{
		VehicleID: strings.TrimSpace(in.VehicleID),
		Type:      g.coerceType(in.Type),
		Date:      g.coerceDate(in.Date),
		Mileage:   CoerceInt(in.Mileage),
		Cost:      CoerceCost(in.Cost),
		Shop:      strings.TrimSpace(in.Shop),
		Notes:     strings.TrimSpace(in.Notes),
	})
}

// UpdateServiceRecord applies a partial update to the record with the given
// id.
func (g *GarageService) UpdateServiceRecord(id string, patch core.ServiceRecordPatch) {
	g.store.UpdateServiceRecord(id, patch)
}

// DeleteServiceRecord removes a single record; records own nothing, so
// nothing cascades.
func (g *GarageService) DeleteServiceRecord(id string) {
	g.store.DeleteServiceRecord(id)
}

// AddReminder coerces the input and adds the reminder, returning its id.
// Status is stored as given; it is never derived from the due date.
func (g *GarageService) AddReminder(in ReminderInput) string {
	return g.store.AddReminder(core.Reminder{
		VehicleID:  strings.TrimSpace(in.VehicleID),
		Type:       g.coerceType(in.Type),
		DueDate:    g.coerceDate(in.DueDate),
		DueMileage: CoerceInt(in.DueMileage),
		Status:     g.coerceStatus(in.Status),
	})
}

// DeleteReminder removes a single reminder.
func (g *GarageService) DeleteReminder(id string) {
	g.store.DeleteReminder(id)
}

// CoerceInt parses a decimal integer, resolving failures to zero.
func CoerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// CoerceCost parses a decimal money amount, resolving failures to zero
// rather than storing a sentinel value.
func CoerceCost(s string) core.Money {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}
	}
	return core.Money{Cents: cents}
}

func (g *GarageService) coerceDate(s string) core.Date {
	d, err := core.ParseDate(strings.TrimSpace(s))
	if err != nil {
		g.logger.Warn("unparseable date resolved to empty", log.FieldError, err)
		return core.Date{}
	}
	return d
}

func (g *GarageService) coerceType(s string) core.ServiceType {
	t := core.ServiceType(strings.TrimSpace(s))
	if !t.Valid() {
		g.logger.Warn("unknown service type resolved to Other Repairs", log.FieldServiceType, s)
		return core.OtherRepairs
	}
	return t
}

func (g *GarageService) coerceStatus(s string) core.ReminderStatus {
	st := core.ReminderStatus(strings.TrimSpace(s))
	if !st.Valid() {
		g.logger.Warn("unknown reminder status resolved to ok", "status", s)
		return core.StatusOK
	}
	return st
}
