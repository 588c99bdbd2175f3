package property

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// Building groups units and belongs to one owner
type Building struct {
	shared.OfficeAggregateRoot
	OwnerID      uuid.UUID
	Name         string
	Address      string
	City         string
	BuildingType BuildingType
	YearBuilt    int
	TotalUnits   int
}

// BuildingDetails carries the mutable building attributes
type BuildingDetails struct {
	OwnerID      uuid.UUID
	Name         string
	Address      string
	City         string
	BuildingType BuildingType
	YearBuilt    int
	TotalUnits   int
}

// NewBuilding creates a building owned by ownerID
func NewBuilding(officeID uuid.UUID, details BuildingDetails) (*Building, error) {
	b := &Building{OfficeAggregateRoot: shared.NewOfficeAggregateRoot(officeID)}
	if err := b.apply(details); err != nil {
		return nil, err
	}
	b.AddDomainEvent(NewBuildingCreatedEvent(b))
	return b, nil
}

// Update replaces the building's details
func (b *Building) Update(details BuildingDetails) error {
	if err := b.apply(details); err != nil {
		return err
	}
	b.Touch()
	b.IncrementVersion()
	return nil
}

func (b *Building) apply(d BuildingDetails) error {
	var missing []string
	name := strings.TrimSpace(d.Name)
	if name == "" {
		missing = append(missing, "name")
	}
	if d.OwnerID == uuid.Nil {
		missing = append(missing, "owner_id")
	}
	if len(missing) > 0 {
		return shared.NewRequiredFieldsError(missing...)
	}

	buildingType := d.BuildingType
	if buildingType == "" {
		buildingType = BuildingTypeResidential
	}
	if !buildingType.IsValid() {
		return shared.NewValidationError("unknown building type: "+string(buildingType), "building_type")
	}
	if d.YearBuilt != 0 && (d.YearBuilt < 1800 || d.YearBuilt > time.Now().Year()+5) {
		return shared.NewValidationError("year built is out of range", "year_built")
	}
	if d.TotalUnits < 0 {
		return shared.NewValidationError("total units cannot be negative", "total_units")
	}

	b.OwnerID = d.OwnerID
	b.Name = name
	b.Address = strings.TrimSpace(d.Address)
	b.City = strings.TrimSpace(d.City)
	b.BuildingType = buildingType
	b.YearBuilt = d.YearBuilt
	b.TotalUnits = d.TotalUnits
	return nil
}
