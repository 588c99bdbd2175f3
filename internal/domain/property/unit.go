package property

import (
	"strings"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnitFeatures holds the fixtures of a unit
type UnitFeatures struct {
	WaterMeter       string `json:"water_meter,omitempty"`
	ElectricityMeter string `json:"electricity_meter,omitempty"`
	HasAC            bool   `json:"has_ac"`
	HasParking       bool   `json:"has_parking"`
	Furnished        bool   `json:"furnished"`
}

// Unit is a rentable space inside a building.
// A unit only becomes occupied through onboarding, after its contract exists.
type Unit struct {
	shared.OfficeAggregateRoot
	BuildingID   uuid.UUID
	UnitNumber   string
	FloorNumber  int
	UnitType     UnitType
	SizeSqm      decimal.Decimal
	Bedrooms     int
	Bathrooms    int
	YearlyRent   decimal.Decimal
	PaymentTerms PaymentTerms
	Status       UnitStatus
	Features     UnitFeatures
	Listing      UnitListing
}

// UnitDetails carries the mutable unit attributes
type UnitDetails struct {
	BuildingID   uuid.UUID
	UnitNumber   string
	FloorNumber  int
	UnitType     UnitType
	SizeSqm      decimal.Decimal
	Bedrooms     int
	Bathrooms    int
	YearlyRent   decimal.Decimal
	PaymentTerms PaymentTerms
	Features     UnitFeatures
}

// NewUnit creates a vacant unit
func NewUnit(officeID uuid.UUID, details UnitDetails) (*Unit, error) {
	u := &Unit{
		OfficeAggregateRoot: shared.NewOfficeAggregateRoot(officeID),
		Status:              UnitStatusVacant,
	}
	if err := u.apply(details); err != nil {
		return nil, err
	}
	u.AddDomainEvent(NewUnitCreatedEvent(u))
	return u, nil
}

// Update replaces the unit's details. Status is managed separately.
func (u *Unit) Update(details UnitDetails) error {
	if err := u.apply(details); err != nil {
		return err
	}
	u.Touch()
	u.IncrementVersion()
	return nil
}

func (u *Unit) apply(d UnitDetails) error {
	var missing []string
	number := strings.TrimSpace(d.UnitNumber)
	if number == "" {
		missing = append(missing, "unit_number")
	}
	if d.BuildingID == uuid.Nil {
		missing = append(missing, "building_id")
	}
	if len(missing) > 0 {
		return shared.NewRequiredFieldsError(missing...)
	}

	unitType := d.UnitType
	if unitType == "" {
		unitType = UnitTypeApartment
	}
	if !unitType.IsValid() {
		return shared.NewValidationError("unknown unit type: "+string(unitType), "unit_type")
	}
	terms := d.PaymentTerms
	if terms == "" {
		terms = PaymentTermsAnnual
	}
	if !terms.IsKnown() {
		return shared.NewValidationError("unknown payment terms: "+string(terms), "payment_terms")
	}
	if d.YearlyRent.IsNegative() {
		return shared.NewValidationError("yearly rent cannot be negative", "yearly_rent")
	}
	if d.SizeSqm.IsNegative() {
		return shared.NewValidationError("size cannot be negative", "size_sqm")
	}
	if d.Bedrooms < 0 || d.Bathrooms < 0 {
		return shared.NewValidationError("room counts cannot be negative", "bedrooms", "bathrooms")
	}

	u.BuildingID = d.BuildingID
	u.UnitNumber = number
	u.FloorNumber = d.FloorNumber
	u.UnitType = unitType
	u.SizeSqm = d.SizeSqm
	u.Bedrooms = d.Bedrooms
	u.Bathrooms = d.Bathrooms
	u.YearlyRent = d.YearlyRent
	u.PaymentTerms = terms
	u.Features = d.Features
	return nil
}

// IsVacant reports whether the unit can be leased
func (u *Unit) IsVacant() bool {
	return u.Status == UnitStatusVacant
}

// Occupy marks the unit as leased
func (u *Unit) Occupy() error {
	switch u.Status {
	case UnitStatusOccupied:
		return shared.NewDomainError(shared.CodeUnitOccupied, "unit "+u.UnitNumber+" is already occupied")
	case UnitStatusMaintenance:
		return shared.NewInvalidStateError("unit " + u.UnitNumber + " is under maintenance")
	}
	u.changeStatus(UnitStatusOccupied)
	return nil
}

// Release returns an occupied unit to the vacant pool
func (u *Unit) Release() {
	if u.Status == UnitStatusOccupied {
		u.changeStatus(UnitStatusVacant)
	}
}

// SetStatus changes the status from the management screens.
// Occupancy can only be set by onboarding.
func (u *Unit) SetStatus(status UnitStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("unknown unit status: "+string(status), "status")
	}
	if status == UnitStatusOccupied {
		return shared.NewInvalidStateError("units become occupied only through tenant onboarding")
	}
	if u.Status == UnitStatusOccupied {
		return shared.NewInvalidStateError("terminate the active contract before changing an occupied unit")
	}
	if u.Status == status {
		return nil
	}
	u.changeStatus(status)
	return nil
}

// RestoreStatus puts back a previous status. It is used to compensate a
// failed onboarding and bypasses the management transition rules.
func (u *Unit) RestoreStatus(status UnitStatus) {
	if u.Status != status {
		u.changeStatus(status)
	}
}

func (u *Unit) changeStatus(status UnitStatus) {
	old := u.Status
	u.Status = status
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewUnitStatusChangedEvent(u, old))
}
