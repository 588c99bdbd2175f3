package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appleasing "github.com/propdesk/backend/internal/application/leasing"
	appproperty "github.com/propdesk/backend/internal/application/property"
	appsearch "github.com/propdesk/backend/internal/application/search"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/cache"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/event"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
	"github.com/propdesk/backend/tests/testutil"
)

// env wires the services the way the server does, for one fresh office
type env struct {
	pg       *testutil.PostgresDB
	officeID uuid.UUID

	owners     *appproperty.OwnerService
	buildings  *appproperty.BuildingService
	units      *appproperty.UnitService
	onboarding *appleasing.OnboardingService
	contracts  *appleasing.ContractService
	payables   *persistence.GormPayableRepository
	sweep      *appleasing.SweepService
	aggregator *appsearch.Aggregator

	bus      *event.InMemoryEventBus
	recorder *testutil.EventRecorder
}

func newEnv(t *testing.T, mode string) *env {
	t.Helper()
	pg := testutil.NewPostgres(t)
	db := pg.DB

	ownerRepo := persistence.NewGormOwnerRepository(db)
	buildingRepo := persistence.NewGormBuildingRepository(db)
	unitRepo := persistence.NewGormUnitRepository(db)
	contractRepo := persistence.NewGormContractRepository(db)
	payableRepo := persistence.NewGormPayableRepository(db)
	scope := persistence.NewGormTransactionScope(db)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	rent := appleasing.NewRentScheduleHandler(payableRepo)
	bus.Subscribe(event.NewIdempotentHandler(rent, store, zap.NewNop()), rent.EventTypes()...)
	recorder := testutil.NewEventRecorder(
		leasing.EventTypeTenantCreated,
		leasing.EventTypeContractCreated,
		leasing.EventTypeTenantOnboarded,
		leasing.EventTypeContractExpired,
	)
	bus.Subscribe(recorder, recorder.EventTypes()...)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	onboarding := appleasing.NewOnboardingService(scope, persistence.NewGormRepositories(db),
		config.OnboardingConfig{Mode: mode, CompensationRetries: 3}, zap.NewNop())
	onboarding.SetEventPublisher(bus)

	contracts := appleasing.NewContractService(contractRepo, scope)
	contracts.SetEventPublisher(bus)
	sweep := appleasing.NewSweepService(scope, contractRepo, payableRepo, 50)
	sweep.SetEventPublisher(bus)

	return &env{
		pg:         pg,
		officeID:   uuid.New(),
		owners:     appproperty.NewOwnerService(ownerRepo, buildingRepo),
		buildings:  appproperty.NewBuildingService(buildingRepo, ownerRepo, unitRepo),
		units:      appproperty.NewUnitService(unitRepo, buildingRepo),
		onboarding: onboarding,
		contracts:  contracts,
		payables:   payableRepo,
		sweep:      sweep,
		aggregator: appsearch.NewAggregator(persistence.SearchSources(db),
			config.SearchConfig{PerKindLimit: 5, Timeout: 5 * time.Second}),
		bus:      bus,
		recorder: recorder,
	}
}

// seedBuilding creates an owner and a building holding n vacant units
// numbered prefix-1 to prefix-n
func (e *env) seedBuilding(t *testing.T, name, prefix string, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	owner, err := e.owners.Create(ctx, e.officeID, nil, appproperty.OwnerRequest{
		FullName: name + " Owner",
		Phone:    "0501234567",
	})
	require.NoError(t, err)
	building, err := e.buildings.Create(ctx, e.officeID, nil, appproperty.BuildingRequest{
		OwnerID:      owner.ID,
		Name:         name + " Tower",
		City:         "Riyadh",
		BuildingType: "residential",
		TotalUnits:   n,
	})
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, n)
	for i := 1; i <= n; i++ {
		unit, err := e.units.Create(ctx, e.officeID, nil, appproperty.UnitRequest{
			BuildingID:   building.ID,
			UnitNumber:   fmt.Sprintf("%s-%d", prefix, i),
			UnitType:     "apartment",
			YearlyRent:   decimal.NewFromInt(60000),
			PaymentTerms: "quarterly",
		})
		require.NoError(t, err)
		ids = append(ids, unit.ID)
	}
	return ids
}

func onboardRequest(unitID uuid.UUID, firstName, nationalID string) appleasing.OnboardTenantRequest {
	return appleasing.OnboardTenantRequest{
		UnitID:     unitID,
		FirstName:  firstName,
		LastName:   "Al-Qahtani",
		NationalID: nationalID,
		Phone:      "0551234567",
		Email:      "tenant@example.com",
	}
}

func (e *env) contractPayables(t *testing.T, contractID uuid.UUID) []leasing.Payable {
	t.Helper()
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	filter.OrderBy = "due_date"
	filter.OrderDir = "asc"
	filter.Filters["contract_id"] = contractID
	rows, err := e.payables.FindAllForOffice(context.Background(), e.officeID, filter)
	require.NoError(t, err)
	return rows
}
