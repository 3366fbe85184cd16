package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	OilChange    ServiceType = "Oil Change"
	TireRotation ServiceType = "Tire Rotation"
	BrakeService ServiceType = "Brake Service"
	Inspection   ServiceType = "Inspection"
	Battery      ServiceType = "Battery"
	OtherRepairs ServiceType = "Other Repairs"
)

const (
	StatusOverdue ReminderStatus = "overdue"
	StatusSoon    ReminderStatus = "soon"
	StatusOK      ReminderStatus = "ok"
)

// ServiceTypes lists the closed set of service categories in display order.
var ServiceTypes = []ServiceType{
	OilChange,
	TireRotation,
	BrakeService,
	Inspection,
	Battery,
	OtherRepairs,
}

type (
	ServiceType    string
	ReminderStatus string

	// Date is a day-resolution calendar date, serialized as "2006-01-02".
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Vehicle struct {
		ID           string `json:"id"`
		Make         string `json:"make"`
		Model        string `json:"model"`
		Year         int    `json:"year"`
		Mileage      int    `json:"mileage"`
		Color        string `json:"color"`
		LicensePlate string `json:"licensePlate"`
		ImageURL     string `json:"imageUrl"`
	}

	ServiceRecord struct {
		ID        string      `json:"id"`
		VehicleID string      `json:"vehicleId"`
		Type      ServiceType `json:"type"`
		Date      Date        `json:"date"`
		Mileage   int         `json:"mileage"`
		Cost      Money       `json:"cost"`
		Shop      string      `json:"shop"`
		Notes     string      `json:"notes"`
	}

	Reminder struct {
		ID         string         `json:"id"`
		VehicleID  string         `json:"vehicleId"`
		Type       ServiceType    `json:"type"`
		DueDate    Date           `json:"dueDate"`
		DueMileage int            `json:"dueMileage,omitempty"`
		Status     ReminderStatus `json:"status"`
	}

	// State is one snapshot of the three entity collections.
	State struct {
		Vehicles       []Vehicle       `json:"vehicles"`
		ServiceRecords []ServiceRecord `json:"serviceRecords"`
		Reminders      []Reminder      `json:"reminders"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

func (t ServiceType) Valid() bool {
	switch t {
	case OilChange, TireRotation, BrakeService, Inspection, Battery, OtherRepairs:
		return true
	}
	return false
}

func (s ReminderStatus) Valid() bool {
	switch s {
	case StatusOverdue, StatusSoon, StatusOK:
		return true
	}
	return false
}

// Priority orders reminder statuses for display: overdue first, ok last.
func (s ReminderStatus) Priority() int {
	switch s {
	case StatusOverdue:
		return 0
	case StatusSoon:
		return 1
	default:
		return 2
	}
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO "2006-01-02" date string. An empty string
// parses to the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// Before compares at day resolution.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Dollars returns the dollar value as float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) String() string {
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Money serializes as a bare integer number of cents.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Cents, 10)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	m.Cents = cents
	return nil
}

// Clone returns a deep copy of the snapshot. Entities hold only value
// fields, so copying the slices is sufficient.
func (s State) Clone() State {
	out := State{}
	if s.Vehicles != nil {
		out.Vehicles = append([]Vehicle(nil), s.Vehicles...)
	}
	if s.ServiceRecords != nil {
		out.ServiceRecords = append([]ServiceRecord(nil), s.ServiceRecords...)
	}
	if s.Reminders != nil {
		out.Reminders = append([]Reminder(nil), s.Reminders...)
	}
	return out
}
