package property

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
)

// UnitService handles unit-related business operations
type UnitService struct {
	unitRepo       property.UnitRepository
	buildingRepo   property.BuildingRepository
	eventPublisher shared.EventPublisher
}

// NewUnitService creates a new UnitService
func NewUnitService(unitRepo property.UnitRepository, buildingRepo property.BuildingRepository) *UnitService {
	return &UnitService{unitRepo: unitRepo, buildingRepo: buildingRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UnitService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *UnitService) ensureBuilding(ctx context.Context, officeID, buildingID uuid.UUID) error {
	_, err := s.buildingRepo.FindByIDForOffice(ctx, officeID, buildingID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("building not found", "building_id")
	}
	return err
}

func (s *UnitService) ensureUniqueNumber(ctx context.Context, officeID, buildingID uuid.UUID, number string) error {
	exists, err := s.unitRepo.ExistsByUnitNumber(ctx, officeID, buildingID, number)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDuplicateError("unit " + number + " already exists in this building")
	}
	return nil
}

// Create adds a vacant unit to a building
func (s *UnitService) Create(ctx context.Context, officeID uuid.UUID, createdBy *uuid.UUID, req UnitRequest) (*UnitResponse, error) {
	unit, err := property.NewUnit(officeID, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.ensureBuilding(ctx, officeID, unit.BuildingID); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, officeID, unit.BuildingID, unit.UnitNumber); err != nil {
		return nil, err
	}
	if createdBy != nil {
		unit.SetCreatedBy(*createdBy)
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, unit)

	resp := ToUnitResponse(unit)
	return &resp, nil
}

// GetByID returns a unit of the office
func (s *UnitService) GetByID(ctx context.Context, officeID, id uuid.UUID) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUnitResponse(unit)
	return &resp, nil
}

// List returns a page of units. Supported filters: building_id, status, unit_type.
func (s *UnitService) List(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (*shared.Paginated[UnitResponse], error) {
	filter = filter.Normalize()
	units, err := s.unitRepo.FindAllForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.unitRepo.CountForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(mapSlice(units, ToUnitResponse), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update replaces a unit's details. The status is not changed.
func (s *UnitService) Update(ctx context.Context, officeID, id uuid.UUID, req UnitRequest) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	details := req.details()
	if details.BuildingID != unit.BuildingID {
		if err := s.ensureBuilding(ctx, officeID, details.BuildingID); err != nil {
			return nil, err
		}
	}
	oldNumber, oldBuilding := unit.UnitNumber, unit.BuildingID
	if err := unit.Update(details); err != nil {
		return nil, err
	}
	if unit.UnitNumber != oldNumber || unit.BuildingID != oldBuilding {
		if err := s.ensureUniqueNumber(ctx, officeID, unit.BuildingID, unit.UnitNumber); err != nil {
			return nil, err
		}
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	resp := ToUnitResponse(unit)
	return &resp, nil
}

// SetStatus moves a unit between vacant and maintenance.
// Occupancy is only granted by onboarding.
func (s *UnitService) SetStatus(ctx context.Context, officeID, id uuid.UUID, req UpdateUnitStatusRequest) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	if err := unit.SetStatus(property.UnitStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, unit)

	resp := ToUnitResponse(unit)
	return &resp, nil
}

// UpdateListing edits the marketplace listing of a unit. An occupied unit may
// stay listed and reappears on the marketplace once it is vacant again.
func (s *UnitService) UpdateListing(ctx context.Context, officeID, id uuid.UUID, req UpdateListingRequest) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	if err := unit.UpdateListing(req.details(), time.Now()); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	resp := ToUnitResponse(unit)
	return &resp, nil
}
