package property

import (
	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOwner    = "Owner"
	AggregateTypeBuilding = "Building"
	AggregateTypeUnit     = "Unit"
)

// Event type constants
const (
	EventTypeOwnerCreated      = "OwnerCreated"
	EventTypeBuildingCreated   = "BuildingCreated"
	EventTypeUnitCreated       = "UnitCreated"
	EventTypeUnitStatusChanged = "UnitStatusChanged"
)

// OwnerCreatedEvent is published when an owner is registered
type OwnerCreatedEvent struct {
	shared.BaseDomainEvent
	OwnerID  uuid.UUID `json:"owner_id"`
	FullName string    `json:"full_name"`
}

// NewOwnerCreatedEvent creates a new OwnerCreatedEvent
func NewOwnerCreatedEvent(o *Owner) *OwnerCreatedEvent {
	return &OwnerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOwnerCreated, AggregateTypeOwner, o.ID, o.OfficeID),
		OwnerID:         o.ID,
		FullName:        o.FullName,
	}
}

// BuildingCreatedEvent is published when a building is registered
type BuildingCreatedEvent struct {
	shared.BaseDomainEvent
	BuildingID uuid.UUID `json:"building_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
}

// NewBuildingCreatedEvent creates a new BuildingCreatedEvent
func NewBuildingCreatedEvent(b *Building) *BuildingCreatedEvent {
	return &BuildingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuildingCreated, AggregateTypeBuilding, b.ID, b.OfficeID),
		BuildingID:      b.ID,
		OwnerID:         b.OwnerID,
		Name:            b.Name,
	}
}

// UnitCreatedEvent is published when a unit is added to a building
type UnitCreatedEvent struct {
	shared.BaseDomainEvent
	UnitID     uuid.UUID `json:"unit_id"`
	BuildingID uuid.UUID `json:"building_id"`
	UnitNumber string    `json:"unit_number"`
}

// NewUnitCreatedEvent creates a new UnitCreatedEvent
func NewUnitCreatedEvent(u *Unit) *UnitCreatedEvent {
	return &UnitCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitCreated, AggregateTypeUnit, u.ID, u.OfficeID),
		UnitID:          u.ID,
		BuildingID:      u.BuildingID,
		UnitNumber:      u.UnitNumber,
	}
}

// UnitStatusChangedEvent is published whenever the occupancy status changes
type UnitStatusChangedEvent struct {
	shared.BaseDomainEvent
	UnitID    uuid.UUID  `json:"unit_id"`
	OldStatus UnitStatus `json:"old_status"`
	NewStatus UnitStatus `json:"new_status"`
}

// NewUnitStatusChangedEvent creates a new UnitStatusChangedEvent
func NewUnitStatusChangedEvent(u *Unit, old UnitStatus) *UnitStatusChangedEvent {
	return &UnitStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitStatusChanged, AggregateTypeUnit, u.ID, u.OfficeID),
		UnitID:          u.ID,
		OldStatus:       old,
		NewStatus:       u.Status,
	}
}
