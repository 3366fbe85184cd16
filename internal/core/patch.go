package core

type (
	// VehiclePatch is a partial update for a Vehicle. Nil fields keep the
	// existing value.
	VehiclePatch struct {
		Make         *string
		Model        *string
		Year         *int
		Mileage      *int
		Color        *string
		LicensePlate *string
		ImageURL     *string
	}

	// ServiceRecordPatch is a partial update for a ServiceRecord.
	ServiceRecordPatch struct {
		VehicleID *string
		Type      *ServiceType
		Date      *Date
		Mileage   *int
		Cost      *Money
		Shop      *string
		Notes     *string
	}
)

// Apply merges the patch over v and returns the result. The ID is never
// patched.
func (p VehiclePatch) Apply(v Vehicle) Vehicle {
	if p.Make != nil {
		v.Make = *p.Make
	}
	if p.Model != nil {
		v.Model = *p.Model
	}
	if p.Year != nil {
		v.Year = *p.Year
	}
	if p.Mileage != nil {
		v.Mileage = *p.Mileage
	}
	if p.Color != nil {
		v.Color = *p.Color
	}
	if p.LicensePlate != nil {
		v.LicensePlate = *p.LicensePlate
	}
	if p.ImageURL != nil {
		v.ImageURL = *p.ImageURL
	}
	return v
}

// Apply merges the patch over r and returns the result.
func (p ServiceRecordPatch) Apply(r ServiceRecord) ServiceRecord {
	if p.VehicleID != nil {
		r.VehicleID = *p.VehicleID
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Mileage != nil {
		r.Mileage = *p.Mileage
	}
	if p.Cost != nil {
		r.Cost = *p.Cost
	}
	if p.Shop != nil {
		r.Shop = *p.Shop
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	return r
}
