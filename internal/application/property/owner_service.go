// Package property implements the owner, building and unit use cases.
package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
)

// OwnerService handles owner-related business operations
type OwnerService struct {
	ownerRepo      property.OwnerRepository
	buildingRepo   property.BuildingRepository
	eventPublisher shared.EventPublisher
}

// NewOwnerService creates a new OwnerService
func NewOwnerService(ownerRepo property.OwnerRepository, buildingRepo property.BuildingRepository) *OwnerService {
	return &OwnerService{ownerRepo: ownerRepo, buildingRepo: buildingRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OwnerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new owner
func (s *OwnerService) Create(ctx context.Context, officeID uuid.UUID, createdBy *uuid.UUID, req OwnerRequest) (*OwnerResponse, error) {
	owner, err := property.NewOwner(officeID, req.details())
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		owner.SetCreatedBy(*createdBy)
	}
	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, owner)

	resp := ToOwnerResponse(owner)
	return &resp, nil
}

// GetByID returns an owner of the office
func (s *OwnerService) GetByID(ctx context.Context, officeID, id uuid.UUID) (*OwnerResponse, error) {
	owner, err := s.ownerRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOwnerResponse(owner)
	return &resp, nil
}

// List returns a page of owners matching the filter
func (s *OwnerService) List(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (*shared.Paginated[OwnerResponse], error) {
	filter = filter.Normalize()
	owners, err := s.ownerRepo.FindAllForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ownerRepo.CountForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(mapSlice(owners, ToOwnerResponse), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update replaces an owner's details
func (s *OwnerService) Update(ctx context.Context, officeID, id uuid.UUID, req OwnerRequest) (*OwnerResponse, error) {
	owner, err := s.ownerRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	if err := owner.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.ownerRepo.Save(ctx, owner); err != nil {
		return nil, err
	}
	resp := ToOwnerResponse(owner)
	return &resp, nil
}

// Delete removes an owner that no longer has buildings
func (s *OwnerService) Delete(ctx context.Context, officeID, id uuid.UUID) error {
	if _, err := s.ownerRepo.FindByIDForOffice(ctx, officeID, id); err != nil {
		return err
	}
	count, err := s.buildingRepo.CountByOwner(ctx, officeID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewInvalidStateError("owner still has buildings, reassign or delete them first")
	}
	return s.ownerRepo.DeleteForOffice(ctx, officeID, id)
}

// publishDomainEvents publishes and clears the pending events of an aggregate.
// Publish failures are logged by the bus and not propagated.
func publishDomainEvents(ctx context.Context, publisher shared.EventPublisher, agg shared.AggregateRoot) {
	if publisher == nil {
		return
	}
	events := agg.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = publisher.Publish(ctx, events...)
	agg.ClearDomainEvents()
}
