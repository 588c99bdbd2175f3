package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
)

// TenantService handles tenant-related business operations.
// Tenants are created by onboarding only.
type TenantService struct {
	tenantRepo     leasing.TenantRepository
	eventPublisher shared.EventPublisher
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo leasing.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TenantService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID returns a tenant of the office
func (s *TenantService) GetByID(ctx context.Context, officeID, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// List returns a page of tenants. Supported filters: status.
func (s *TenantService) List(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (*shared.Paginated[TenantResponse], error) {
	filter = filter.Normalize()
	tenants, err := s.tenantRepo.FindAllForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tenantRepo.CountForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(mapSlice(tenants, ToTenantResponse), total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateContact changes a tenant's name and contact details
func (s *TenantService) UpdateContact(ctx context.Context, officeID, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.UpdateContact(req.FullName, req.Phone, req.Email, req.EmergencyContact); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// ChangeStatus moves a tenant to another standing
func (s *TenantService) ChangeStatus(ctx context.Context, officeID, id uuid.UUID, req ChangeTenantStatusRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.ChangeStatus(leasing.TenantStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, tenant)

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// publishDomainEvents publishes and clears the pending events of the aggregates.
// Publish failures are logged by the bus and not propagated.
func publishDomainEvents(ctx context.Context, publisher shared.EventPublisher, aggs ...shared.AggregateRoot) {
	if publisher == nil {
		return
	}
	var events []shared.DomainEvent
	for _, agg := range aggs {
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	if len(events) > 0 {
		_ = publisher.Publish(ctx, events...)
	}
}
