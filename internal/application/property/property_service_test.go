package property

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOwnerService_Create(t *testing.T) {
	ctx := context.Background()
	officeID, userID := uuid.New(), uuid.New()
	ownerRepo := new(MockOwnerRepository)
	publisher := new(MockEventPublisher)
	svc := NewOwnerService(ownerRepo, new(MockBuildingRepository))
	svc.SetEventPublisher(publisher)

	ownerRepo.On("Save", ctx, mock.AnythingOfType("*property.Owner")).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, err := svc.Create(ctx, officeID, &userID, OwnerRequest{FullName: "Khalid", Phone: "0551234567"})
	require.NoError(t, err)
	assert.Equal(t, "+966551234567", resp.Phone)
	ownerRepo.AssertExpectations(t)
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestOwnerService_DeleteRefusedWithBuildings(t *testing.T) {
	ctx := context.Background()
	officeID := uuid.New()
	owner, err := property.NewOwner(officeID, property.OwnerDetails{FullName: "A"})
	require.NoError(t, err)

	ownerRepo := new(MockOwnerRepository)
	buildingRepo := new(MockBuildingRepository)
	ownerRepo.On("FindByIDForOffice", ctx, officeID, owner.ID).Return(owner, nil)
	buildingRepo.On("CountByOwner", ctx, officeID, owner.ID).Return(int64(2), nil)

	err = NewOwnerService(ownerRepo, buildingRepo).Delete(ctx, officeID, owner.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	ownerRepo.AssertNotCalled(t, "DeleteForOffice", mock.Anything, mock.Anything, mock.Anything)
}

func TestOwnerService_List(t *testing.T) {
	ctx := context.Background()
	officeID := uuid.New()
	owner, err := property.NewOwner(officeID, property.OwnerDetails{FullName: "A"})
	require.NoError(t, err)

	ownerRepo := new(MockOwnerRepository)
	ownerRepo.On("FindAllForOffice", ctx, officeID, mock.Anything).Return([]property.Owner{*owner}, nil)
	ownerRepo.On("CountForOffice", ctx, officeID, mock.Anything).Return(int64(41), nil)

	page, err := NewOwnerService(ownerRepo, nil).List(ctx, officeID, shared.Filter{PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Page)
}

func TestBuildingService_CreateUnknownOwner(t *testing.T) {
	ctx := context.Background()
	officeID, ownerID := uuid.New(), uuid.New()
	ownerRepo := new(MockOwnerRepository)
	buildingRepo := new(MockBuildingRepository)
	ownerRepo.On("FindByIDForOffice", ctx, officeID, ownerID).Return(nil, shared.NewNotFoundError("owner"))

	svc := NewBuildingService(buildingRepo, ownerRepo, new(MockUnitRepository))
	_, err := svc.Create(ctx, officeID, nil, BuildingRequest{OwnerID: ownerID, Name: "Tower"})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shared.CodeValidation, de.Code)
	assert.Equal(t, []string{"owner_id"}, de.Fields)
	buildingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBuildingService_DeleteRefusedWithUnits(t *testing.T) {
	ctx := context.Background()
	officeID := uuid.New()
	b, err := property.NewBuilding(officeID, property.BuildingDetails{OwnerID: uuid.New(), Name: "T"})
	require.NoError(t, err)

	buildingRepo := new(MockBuildingRepository)
	unitRepo := new(MockUnitRepository)
	buildingRepo.On("FindByIDForOffice", ctx, officeID, b.ID).Return(b, nil)
	unitRepo.On("CountByBuilding", ctx, officeID, b.ID).Return(int64(1), nil)

	err = NewBuildingService(buildingRepo, new(MockOwnerRepository), unitRepo).Delete(ctx, officeID, b.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestUnitService_CreateDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	officeID := uuid.New()
	b, err := property.NewBuilding(officeID, property.BuildingDetails{OwnerID: uuid.New(), Name: "T"})
	require.NoError(t, err)

	unitRepo := new(MockUnitRepository)
	buildingRepo := new(MockBuildingRepository)
	buildingRepo.On("FindByIDForOffice", ctx, officeID, b.ID).Return(b, nil)
	unitRepo.On("ExistsByUnitNumber", ctx, officeID, b.ID, "101").Return(true, nil)

	_, err = NewUnitService(unitRepo, buildingRepo).Create(ctx, officeID, nil, UnitRequest{
		BuildingID: b.ID,
		UnitNumber: " 101 ",
		YearlyRent: decimal.NewFromInt(50000),
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	unitRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUnitService_SetStatus(t *testing.T) {
	ctx := context.Background()
	officeID := uuid.New()
	unit, err := property.NewUnit(officeID, property.UnitDetails{BuildingID: uuid.New(), UnitNumber: "1"})
	require.NoError(t, err)

	unitRepo := new(MockUnitRepository)
	unitRepo.On("FindByIDForOffice", ctx, officeID, unit.ID).Return(unit, nil)
	unitRepo.On("Save", ctx, unit).Return(nil)
	svc := NewUnitService(unitRepo, new(MockBuildingRepository))

	resp, err := svc.SetStatus(ctx, officeID, unit.ID, UpdateUnitStatusRequest{Status: "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", resp.Status)
	assert.Equal(t, "Under Maintenance", resp.StatusLabel)

	_, err = svc.SetStatus(ctx, officeID, unit.ID, UpdateUnitStatusRequest{Status: "occupied"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestToUnitResponse_Labels(t *testing.T) {
	unit, err := property.NewUnit(uuid.New(), property.UnitDetails{
		BuildingID:   uuid.New(),
		UnitNumber:   "7",
		UnitType:     property.UnitTypeShop,
		PaymentTerms: property.PaymentTermsSemiAnnual,
	})
	require.NoError(t, err)

	resp := ToUnitResponse(unit)
	assert.Equal(t, "Shop", resp.UnitTypeLabel)
	assert.Equal(t, "Semi-Annual", resp.PaymentTermsLabel)
	assert.Equal(t, "Vacant", resp.StatusLabel)
}
