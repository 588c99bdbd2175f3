package leasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appleasing "github.com/propdesk/backend/internal/application/leasing"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/cache"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/event"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
	"github.com/propdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var leaseStart = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func onboardTenant(t *testing.T, f *fixture, publisher shared.EventPublisher) *appleasing.OnboardingResult {
	t.Helper()
	svc := newService(f, config.OnboardingModeTransaction, nil)
	svc.SetClock(func() time.Time { return leaseStart })
	if publisher != nil {
		svc.SetEventPublisher(publisher)
	}
	result, err := svc.Onboard(context.Background(), f.officeID, nil, f.request())
	require.NoError(t, err)
	return result
}

func TestContractService_TerminateReleasesUnit(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	onboarded := onboardTenant(t, f, nil)

	svc := appleasing.NewContractService(persistence.NewGormContractRepository(f.db), persistence.NewGormTransactionScope(f.db))
	svc.SetContractClock(func() time.Time { return leaseStart.AddDate(0, 3, 0) })
	pub := &capturePublisher{}
	svc.SetEventPublisher(pub)

	resp, err := svc.Terminate(context.Background(), f.officeID, onboarded.Contract.ID, appleasing.TerminateContractRequest{Reason: "tenant relocated"})
	require.NoError(t, err)
	assert.Equal(t, "terminated", resp.Status)
	require.NotNil(t, resp.TerminatedAt)
	assert.Equal(t, property.UnitStatusVacant, f.unitStatus(t))
	assert.Contains(t, pub.types(), leasing.EventTypeContractTerminated)

	_, err = svc.Terminate(context.Background(), f.officeID, onboarded.Contract.ID, appleasing.TerminateContractRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestContractService_TerminateOtherOffice(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	onboarded := onboardTenant(t, f, nil)

	svc := appleasing.NewContractService(persistence.NewGormContractRepository(f.db), persistence.NewGormTransactionScope(f.db))
	_, err := svc.Terminate(context.Background(), uuid.New(), onboarded.Contract.ID, appleasing.TerminateContractRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, property.UnitStatusOccupied, f.unitStatus(t))
}

func TestSweepService_ExpiresContractsAndFlagsPayables(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	onboarded := onboardTenant(t, f, nil)
	ctx := context.Background()

	payables := persistence.NewGormPayableRepository(f.db)
	late, err := leasing.NewPayable(f.officeID, leasing.PayableDetails{
		Type: leasing.PayableTypeOutgoing, Category: leasing.CategoryMaintenanceFee,
		Amount: decimal.NewFromInt(750), DueDate: leaseStart.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	future, err := leasing.NewPayable(f.officeID, leasing.PayableDetails{
		Type: leasing.PayableTypeOutgoing, Category: leasing.CategoryMaintenanceFee,
		Amount: decimal.NewFromInt(300), DueDate: leaseStart.AddDate(3, 0, 0),
	})
	require.NoError(t, err)
	require.NoError(t, payables.SaveBatch(ctx, []*leasing.Payable{late, future}))

	svc := appleasing.NewSweepService(
		persistence.NewGormTransactionScope(f.db),
		persistence.NewGormContractRepository(f.db),
		payables,
		1,
	)
	pub := &capturePublisher{}
	svc.SetEventPublisher(pub)

	report, err := svc.Sweep(ctx, leaseStart.AddDate(1, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, report.ExpiredContracts)
	assert.Equal(t, 1, report.OverduePayables)

	contract, err := persistence.NewGormContractRepository(f.db).FindByIDForOffice(ctx, f.officeID, onboarded.Contract.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.ContractStatusExpired, contract.Status)
	assert.Equal(t, property.UnitStatusVacant, f.unitStatus(t))
	assert.Contains(t, pub.types(), leasing.EventTypeContractExpired)

	stored, err := payables.FindByIDForOffice(ctx, f.officeID, late.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.PayableStatusOverdue, stored.Status)

	again, err := svc.Sweep(ctx, leaseStart.AddDate(1, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, &appleasing.SweepReport{}, again)
}

func TestSweepService_LeavesRunningLeases(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	onboardTenant(t, f, nil)

	svc := appleasing.NewSweepService(
		persistence.NewGormTransactionScope(f.db),
		persistence.NewGormContractRepository(f.db),
		persistence.NewGormPayableRepository(f.db),
		0,
	)
	report, err := svc.Sweep(context.Background(), leaseStart.AddDate(0, 6, 0))
	require.NoError(t, err)
	assert.Zero(t, report.ExpiredContracts)
	assert.Equal(t, property.UnitStatusOccupied, f.unitStatus(t))
}

func TestRentScheduleHandler_CreatesInstallmentsOnce(t *testing.T) {
	f := newFixture(t, property.PaymentTermsQuarterly)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	handler := event.NewIdempotentHandler(
		appleasing.NewRentScheduleHandler(persistence.NewGormPayableRepository(f.db)),
		store,
		zap.NewNop(),
	)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(handler)
	require.NoError(t, bus.Start(context.Background()))

	pub := &capturePublisher{}
	onboarded := onboardTenant(t, f, pub)
	require.NoError(t, bus.Publish(context.Background(), pub.events...))
	// redelivery
	require.NoError(t, bus.Publish(context.Background(), pub.events...))

	assert.Equal(t, int64(4), f.count(t, &models.PayableModel{}))
	assert.Equal(t, int64(1), handler.Stats().EventsDuplicate)

	repo := persistence.NewGormPayableRepository(f.db)
	page, err := repo.FindAllForOffice(context.Background(), f.officeID,
		shared.Filter{PageSize: 10}.WithFilter("contract_id", onboarded.Contract.ID.String()))
	require.NoError(t, err)
	require.Len(t, page, 4)
	total := decimal.Zero
	for _, p := range page {
		assert.Equal(t, leasing.CategoryRent, p.Category)
		total = total.Add(p.Amount)
	}
	assert.True(t, decimal.NewFromInt(60000).Equal(total))
}

func TestRentScheduleHandler_RentFreeContract(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	handler := appleasing.NewRentScheduleHandler(persistence.NewGormPayableRepository(f.db))

	contract, err := leasing.NewActiveContract(f.officeID, leasing.LeaseTerms{
		UnitID: f.unit.ID, TenantID: uuid.New(), StartDate: leaseStart, RentAmount: decimal.Zero,
	})
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), contract.GetDomainEvents()[0]))
	assert.Equal(t, int64(0), f.count(t, &models.PayableModel{}))
}

func TestPayableService_Lifecycle(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	ctx := context.Background()
	svc := appleasing.NewPayableService(persistence.NewGormPayableRepository(f.db), persistence.NewGormContractRepository(f.db))

	unknown := uuid.New()
	_, err := svc.Create(ctx, f.officeID, nil, appleasing.CreatePayableRequest{
		ContractID: &unknown, Type: "incoming", Category: "rent",
		Amount: decimal.NewFromInt(100), DueDate: leaseStart,
	})
	require.Error(t, err)
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))

	created, err := svc.Create(ctx, f.officeID, nil, appleasing.CreatePayableRequest{
		Type: "outgoing", Category: "maintenance_fee",
		Amount: decimal.NewFromInt(450), DueDate: leaseStart,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)

	paid, err := svc.MarkPaid(ctx, f.officeID, created.ID, appleasing.PayPayableRequest{PaymentMethod: "cash", TransactionRef: "R-1"})
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaymentDate)

	_, err = svc.Cancel(ctx, f.officeID, created.ID, appleasing.CancelPayableRequest{Reason: "late"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	list, err := svc.List(ctx, f.officeID, shared.Filter{}.WithFilter("status", "paid"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func contractUpdate(c appleasing.ContractResponse, status string) appleasing.UpdateContractRequest {
	return appleasing.UpdateContractRequest{
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		RentAmount:       c.RentAmount,
		PaymentFrequency: c.PaymentFrequency,
		Status:           status,
	}
}

func TestContractService_UpdateTerms(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	onboarded := onboardTenant(t, f, nil)
	ctx := context.Background()
	svc := appleasing.NewContractService(persistence.NewGormContractRepository(f.db), persistence.NewGormTransactionScope(f.db))

	fee := decimal.NewFromInt(1500)
	req := contractUpdate(onboarded.Contract, "active")
	req.EndDate = leaseStart.AddDate(2, 0, 0)
	req.RentAmount = decimal.NewFromInt(66000)
	req.PaymentFrequency = "semi-annual"
	req.ManagementFee = &fee
	req.Notes = "extended"

	resp, err := svc.Update(ctx, f.officeID, onboarded.Contract.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "semi-annual", resp.PaymentFrequency)
	assert.Equal(t, property.UnitStatusOccupied, f.unitStatus(t))

	stored, err := persistence.NewGormContractRepository(f.db).FindByIDForOffice(ctx, f.officeID, onboarded.Contract.ID)
	require.NoError(t, err)
	assert.Equal(t, leaseStart.AddDate(2, 0, 0), stored.EndDate)
	assert.True(t, decimal.NewFromInt(66000).Equal(stored.RentAmount))
	require.NotNil(t, stored.ManagementFee)
	assert.True(t, fee.Equal(*stored.ManagementFee))
	assert.Nil(t, stored.SecurityDeposit)
	assert.Equal(t, "extended", stored.Notes)

	bad := contractUpdate(onboarded.Contract, "active")
	bad.EndDate = bad.StartDate
	_, err = svc.Update(ctx, f.officeID, onboarded.Contract.ID, bad)
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))

	_, err = svc.Update(ctx, uuid.New(), onboarded.Contract.ID, req)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestContractService_UpdateStatusFollowsOccupancy(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	first := onboardTenant(t, f, nil)
	ctx := context.Background()
	contracts := persistence.NewGormContractRepository(f.db)
	svc := appleasing.NewContractService(contracts, persistence.NewGormTransactionScope(f.db))
	svc.SetContractClock(func() time.Time { return leaseStart.AddDate(0, 2, 0) })
	pub := &capturePublisher{}
	svc.SetEventPublisher(pub)

	// leaving the active state releases the unit
	_, err := svc.Update(ctx, f.officeID, first.Contract.ID, contractUpdate(first.Contract, "draft"))
	require.NoError(t, err)
	assert.Equal(t, property.UnitStatusVacant, f.unitStatus(t))

	onboarding := newService(f, config.OnboardingModeTransaction, nil)
	req := f.request()
	req.NationalID = "1087654321"
	second, err := onboarding.Onboard(ctx, f.officeID, nil, req)
	require.NoError(t, err)

	// a second active contract on the unit is refused
	_, err = svc.Update(ctx, f.officeID, first.Contract.ID, contractUpdate(first.Contract, "active"))
	require.Error(t, err)
	assert.Equal(t, shared.CodeUnitOccupied, shared.CodeOf(err))
	stored, err := contracts.FindByIDForOffice(ctx, f.officeID, first.Contract.ID)
	require.NoError(t, err)
	assert.Equal(t, leasing.ContractStatusDraft, stored.Status)

	// once the unit is free the draft can be activated
	_, err = svc.Update(ctx, f.officeID, second.Contract.ID, contractUpdate(second.Contract, "terminated"))
	require.NoError(t, err)
	assert.Contains(t, pub.types(), leasing.EventTypeContractTerminated)
	assert.Equal(t, property.UnitStatusVacant, f.unitStatus(t))

	resp, err := svc.Update(ctx, f.officeID, first.Contract.ID, contractUpdate(first.Contract, "active"))
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, property.UnitStatusOccupied, f.unitStatus(t))

	_, err = svc.Update(ctx, f.officeID, second.Contract.ID, contractUpdate(second.Contract, "active"))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestPayableService_Update(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	ctx := context.Background()
	svc := appleasing.NewPayableService(persistence.NewGormPayableRepository(f.db), persistence.NewGormContractRepository(f.db))
	svc.SetPayableClock(func() time.Time { return leaseStart })

	created, err := svc.Create(ctx, f.officeID, nil, appleasing.CreatePayableRequest{
		Type: "outgoing", Category: "maintenance_fee",
		Amount: decimal.NewFromInt(450), DueDate: leaseStart,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, f.officeID, created.ID, appleasing.UpdatePayableRequest{
		Category: "management_fee", PaymentMethod: "check",
		Amount: decimal.NewFromInt(500), DueDate: leaseStart.AddDate(0, 1, 0), Notes: "agreed fee",
	})
	require.NoError(t, err)
	assert.Equal(t, "management_fee", updated.Category)
	assert.Equal(t, "check", updated.PaymentMethod)
	assert.True(t, decimal.NewFromInt(500).Equal(updated.Amount))

	stored, err := svc.GetByID(ctx, f.officeID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "agreed fee", stored.Notes)
	assert.Equal(t, leaseStart.AddDate(0, 1, 0), stored.DueDate.UTC())

	_, err = svc.Cancel(ctx, f.officeID, created.ID, appleasing.CancelPayableRequest{})
	require.NoError(t, err)
	_, err = svc.Update(ctx, f.officeID, created.ID, appleasing.UpdatePayableRequest{
		Category: "other", Amount: decimal.NewFromInt(1), DueDate: leaseStart,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
