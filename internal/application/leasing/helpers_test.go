package leasing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	appleasing "github.com/propdesk/backend/internal/application/leasing"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
	"github.com/propdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var errInjected = errors.New("injected failure")

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fixture struct {
	db       *gorm.DB
	officeID uuid.UUID
	unit     *property.Unit
}

func newFixture(t *testing.T, terms property.PaymentTerms) *fixture {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()
	officeID := uuid.New()

	owner, err := property.NewOwner(officeID, property.OwnerDetails{FullName: "Khalid Al-Harbi", Phone: "0501234567"})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormOwnerRepository(db).Save(ctx, owner))

	building, err := property.NewBuilding(officeID, property.BuildingDetails{OwnerID: owner.ID, Name: "Palm Tower", City: "Riyadh"})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormBuildingRepository(db).Save(ctx, building))

	unit, err := property.NewUnit(officeID, property.UnitDetails{
		BuildingID:   building.ID,
		UnitNumber:   "A-101",
		YearlyRent:   decimal.NewFromInt(60000),
		PaymentTerms: terms,
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUnitRepository(db).Save(ctx, unit))

	return &fixture{db: db, officeID: officeID, unit: unit}
}

func (f *fixture) request() appleasing.OnboardTenantRequest {
	return appleasing.OnboardTenantRequest{
		UnitID:     f.unit.ID,
		FirstName:  "Sara",
		LastName:   "Al-Qahtani",
		NationalID: "1012345678",
		Phone:      "0551234567",
		Email:      "sara@example.com",
	}
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) unitStatus(t *testing.T) property.UnitStatus {
	t.Helper()
	unit, err := persistence.NewGormUnitRepository(f.db).FindByIDForOffice(context.Background(), f.officeID, f.unit.ID)
	require.NoError(t, err)
	return unit.Status
}

// faults selects which repository writes fail
type faults struct {
	contractSave  error
	unitSave      error
	tenantDelete  error
	tenantDeletes int
}

type faultyRepos struct {
	inner appleasing.TransactionalRepositories
	f     *faults
}

func (r *faultyRepos) TenantRepo() leasing.TenantRepository {
	return &faultyTenantRepo{TenantRepository: r.inner.TenantRepo(), f: r.f}
}

func (r *faultyRepos) ContractRepo() leasing.ContractRepository {
	return &faultyContractRepo{ContractRepository: r.inner.ContractRepo(), f: r.f}
}

func (r *faultyRepos) PayableRepo() leasing.PayableRepository { return r.inner.PayableRepo() }

func (r *faultyRepos) UnitRepo() property.UnitRepository {
	return &faultyUnitRepo{UnitRepository: r.inner.UnitRepo(), f: r.f}
}

type faultyTenantRepo struct {
	leasing.TenantRepository
	f *faults
}

func (r *faultyTenantRepo) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	if r.f.tenantDelete != nil {
		r.f.tenantDeletes++
		return r.f.tenantDelete
	}
	return r.TenantRepository.DeleteForOffice(ctx, officeID, id)
}

type faultyContractRepo struct {
	leasing.ContractRepository
	f *faults
}

func (r *faultyContractRepo) Save(ctx context.Context, c *leasing.Contract) error {
	if r.f.contractSave != nil {
		return r.f.contractSave
	}
	return r.ContractRepository.Save(ctx, c)
}

type faultyUnitRepo struct {
	property.UnitRepository
	f *faults
}

func (r *faultyUnitRepo) Save(ctx context.Context, u *property.Unit) error {
	if r.f.unitSave != nil && u.Status == property.UnitStatusOccupied {
		return r.f.unitSave
	}
	return r.UnitRepository.Save(ctx, u)
}

type faultyScope struct {
	inner appleasing.TransactionScope
	f     *faults
}

func (s *faultyScope) Execute(ctx context.Context, fn func(appleasing.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos appleasing.TransactionalRepositories) error {
		return fn(&faultyRepos{inner: repos, f: s.f})
	})
}
