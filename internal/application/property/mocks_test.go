package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*property.Owner, error) {
	args := m.Called(ctx, officeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]property.Owner, error) {
	args := m.Called(ctx, officeID, filter)
	return args.Get(0).([]property.Owner), args.Error(1)
}

func (m *MockOwnerRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, officeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOwnerRepository) Save(ctx context.Context, owner *property.Owner) error {
	return m.Called(ctx, owner).Error(0)
}

func (m *MockOwnerRepository) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	return m.Called(ctx, officeID, id).Error(0)
}

type MockBuildingRepository struct {
	mock.Mock
}

func (m *MockBuildingRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*property.Building, error) {
	args := m.Called(ctx, officeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Building), args.Error(1)
}

func (m *MockBuildingRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]property.Building, error) {
	args := m.Called(ctx, officeID, filter)
	return args.Get(0).([]property.Building), args.Error(1)
}

func (m *MockBuildingRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, officeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBuildingRepository) CountByOwner(ctx context.Context, officeID, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, officeID, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBuildingRepository) Save(ctx context.Context, building *property.Building) error {
	return m.Called(ctx, building).Error(0)
}

func (m *MockBuildingRepository) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	return m.Called(ctx, officeID, id).Error(0)
}

type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*property.Unit, error) {
	args := m.Called(ctx, officeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]property.Unit, error) {
	args := m.Called(ctx, officeID, filter)
	return args.Get(0).([]property.Unit), args.Error(1)
}

func (m *MockUnitRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, officeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) CountByBuilding(ctx context.Context, officeID, buildingID uuid.UUID) (int64, error) {
	args := m.Called(ctx, officeID, buildingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) CountByStatus(ctx context.Context, officeID uuid.UUID, status property.UnitStatus) (int64, error) {
	args := m.Called(ctx, officeID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) ExistsByUnitNumber(ctx context.Context, officeID, buildingID uuid.UUID, unitNumber string) (bool, error) {
	args := m.Called(ctx, officeID, buildingID, unitNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *property.Unit) error {
	return m.Called(ctx, unit).Error(0)
}

func (m *MockUnitRepository) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	return m.Called(ctx, officeID, id).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindListings(ctx context.Context, officeID uuid.UUID, filter property.ListingFilter, page shared.Filter) ([]property.Listing, error) {
	args := m.Called(ctx, officeID, filter, page)
	return args.Get(0).([]property.Listing), args.Error(1)
}

func (m *MockListingRepository) CountListings(ctx context.Context, officeID uuid.UUID, filter property.ListingFilter) (int64, error) {
	args := m.Called(ctx, officeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) FindListing(ctx context.Context, officeID, unitID uuid.UUID) (*property.Listing, error) {
	args := m.Called(ctx, officeID, unitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Listing), args.Error(1)
}

func (m *MockListingRepository) Cities(ctx context.Context, officeID uuid.UUID) ([]property.CityCount, error) {
	args := m.Called(ctx, officeID)
	return args.Get(0).([]property.CityCount), args.Error(1)
}

func (m *MockListingRepository) PriceRange(ctx context.Context, officeID uuid.UUID) (property.PriceRange, error) {
	args := m.Called(ctx, officeID)
	return args.Get(0).(property.PriceRange), args.Error(1)
}
