package property

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
)

// BuildingService handles building-related business operations
type BuildingService struct {
	buildingRepo   property.BuildingRepository
	ownerRepo      property.OwnerRepository
	unitRepo       property.UnitRepository
	eventPublisher shared.EventPublisher
}

// NewBuildingService creates a new BuildingService
func NewBuildingService(
	buildingRepo property.BuildingRepository,
	ownerRepo property.OwnerRepository,
	unitRepo property.UnitRepository,
) *BuildingService {
	return &BuildingService{buildingRepo: buildingRepo, ownerRepo: ownerRepo, unitRepo: unitRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BuildingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BuildingService) ensureOwner(ctx context.Context, officeID, ownerID uuid.UUID) error {
	_, err := s.ownerRepo.FindByIDForOffice(ctx, officeID, ownerID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("owner not found", "owner_id")
	}
	return err
}

// Create registers a building for an existing owner
func (s *BuildingService) Create(ctx context.Context, officeID uuid.UUID, createdBy *uuid.UUID, req BuildingRequest) (*BuildingResponse, error) {
	building, err := property.NewBuilding(officeID, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.ensureOwner(ctx, officeID, req.OwnerID); err != nil {
		return nil, err
	}
	if createdBy != nil {
		building.SetCreatedBy(*createdBy)
	}
	if err := s.buildingRepo.Save(ctx, building); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, building)

	resp := ToBuildingResponse(building)
	return &resp, nil
}

// GetByID returns a building of the office
func (s *BuildingService) GetByID(ctx context.Context, officeID, id uuid.UUID) (*BuildingResponse, error) {
	building, err := s.buildingRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBuildingResponse(building)
	return &resp, nil
}

// List returns a page of buildings. Supported filters: owner_id, building_type, city.
func (s *BuildingService) List(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (*shared.Paginated[BuildingResponse], error) {
	filter = filter.Normalize()
	buildings, err := s.buildingRepo.FindAllForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.buildingRepo.CountForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(mapSlice(buildings, ToBuildingResponse), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update replaces a building's details
func (s *BuildingService) Update(ctx context.Context, officeID, id uuid.UUID, req BuildingRequest) (*BuildingResponse, error) {
	building, err := s.buildingRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != building.OwnerID {
		if err := s.ensureOwner(ctx, officeID, req.OwnerID); err != nil {
			return nil, err
		}
	}
	if err := building.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.buildingRepo.Save(ctx, building); err != nil {
		return nil, err
	}
	resp := ToBuildingResponse(building)
	return &resp, nil
}

// Delete removes a building that has no units
func (s *BuildingService) Delete(ctx context.Context, officeID, id uuid.UUID) error {
	if _, err := s.buildingRepo.FindByIDForOffice(ctx, officeID, id); err != nil {
		return err
	}
	count, err := s.unitRepo.CountByBuilding(ctx, officeID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewInvalidStateError("building still has units, delete them first")
	}
	return s.buildingRepo.DeleteForOffice(ctx, officeID, id)
}
