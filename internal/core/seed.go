package core

// SeedState returns the fixed sample dataset used on first run, before any
// persisted state exists. The ids use a short readable form so seed data is
// easy to tell apart from generated entities.
func SeedState() State {
	return State{
		Vehicles: []Vehicle{
			{
				ID:           "v1",
				Make:         "Toyota",
				Model:        "Camry",
				Year:         2022,
				Mileage:      28500,
				Color:        "Silver",
				LicensePlate: "ABC-1234",
			},
			{
				ID:           "v2",
				Make:         "Ford",
				Model:        "F-150",
				Year:         2021,
				Mileage:      42300,
				Color:        "Blue",
				LicensePlate: "XYZ-5678",
			},
		},
		ServiceRecords: []ServiceRecord{
			{
				ID:        "s1",
				VehicleID: "v1",
				Type:      OilChange,
				Date:      NewDate(2025, 12, 15),
				Mileage:   27000,
				Cost:      Money{Cents: 6500},
				Shop:      "QuickLube Express",
				Notes:     "Synthetic oil, filter replaced",
			},
			{
				ID:        "s2",
				VehicleID: "v1",
				Type:      TireRotation,
				Date:      NewDate(2025, 11, 2),
				Mileage:   25500,
				Cost:      Money{Cents: 4000},
				Shop:      "Discount Tire",
				Notes:     "All tires rotated, pressure checked",
			},
			{
				ID:        "s3",
				VehicleID: "v2",
				Type:      BrakeService,
				Date:      NewDate(2025, 10, 20),
				Mileage:   40000,
				Cost:      Money{Cents: 35000},
				Shop:      "Ford Dealership",
				Notes:     "Front brake pads and rotors replaced",
			},
			{
				ID:        "s4",
				VehicleID: "v2",
				Type:      Inspection,
				Date:      NewDate(2025, 9, 5),
				Mileage:   38500,
				Cost:      Money{Cents: 3500},
				Shop:      "State Auto Center",
				Notes:     "Annual state inspection - passed",
			},
			{
				ID:        "s5",
				VehicleID: "v1",
				Type:      Battery,
				Date:      NewDate(2025, 8, 10),
				Mileage:   23000,
				Cost:      Money{Cents: 18000},
				Shop:      "AutoZone",
				Notes:     "New battery installed, 3-year warranty",
			},
		},
		Reminders: []Reminder{
			{
				ID:         "r1",
				VehicleID:  "v1",
				Type:       OilChange,
				DueDate:    NewDate(2026, 3, 15),
				DueMileage: 30000,
				Status:     StatusOK,
			},
			{
				ID:         "r2",
				VehicleID:  "v2",
				Type:       OilChange,
				DueDate:    NewDate(2026, 2, 10),
				DueMileage: 45000,
				Status:     StatusSoon,
			},
			{
				ID:        "r3",
				VehicleID: "v1",
				Type:      Inspection,
				DueDate:   NewDate(2026, 1, 30),
				Status:    StatusOverdue,
			},
			{
				ID:         "r4",
				VehicleID:  "v2",
				Type:       TireRotation,
				DueDate:    NewDate(2026, 4, 1),
				DueMileage: 47000,
				Status:     StatusOK,
			},
		},
	}
}
