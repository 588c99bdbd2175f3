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
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
	"github.com/propdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturePublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func newService(f *fixture, mode string, fs *faults) *appleasing.OnboardingService {
	if fs == nil {
		fs = &faults{}
	}
	scope := &faultyScope{inner: persistence.NewGormTransactionScope(f.db), f: fs}
	direct := &faultyRepos{inner: persistence.NewGormRepositories(f.db), f: fs}
	svc := appleasing.NewOnboardingService(scope, direct, config.OnboardingConfig{Mode: mode, CompensationRetries: 3}, zap.NewNop())
	svc.UseFastRetries()
	return svc
}

func TestOnboard_Success(t *testing.T) {
	for _, mode := range []string{config.OnboardingModeTransaction, config.OnboardingModeSaga} {
		t.Run(mode, func(t *testing.T) {
			f := newFixture(t, property.PaymentTermsQuarterly)
			svc := newService(f, mode, nil)
			svc.SetClock(func() time.Time { return time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC) })
			pub := &capturePublisher{}
			svc.SetEventPublisher(pub)

			userID := uuid.New()
			result, err := svc.Onboard(context.Background(), f.officeID, &userID, f.request())
			require.NoError(t, err)

			assert.Equal(t, "Sara Al-Qahtani", result.Tenant.FullName)
			assert.Equal(t, "active", result.Contract.Status)
			assert.Equal(t, "quarterly", result.Contract.PaymentFrequency)
			assert.True(t, decimal.NewFromInt(60000).Equal(result.Contract.RentAmount))
			assert.Equal(t, "2025-01-15", result.Contract.EndDate.Format("2006-01-02"))
			assert.Equal(t, "occupied", result.Unit.Status)

			assert.Equal(t, int64(1), f.count(t, &models.TenantModel{}))
			assert.Equal(t, int64(1), f.count(t, &models.ContractModel{}))
			assert.Equal(t, property.UnitStatusOccupied, f.unitStatus(t))

			assert.Contains(t, pub.types(), leasing.EventTypeTenantCreated)
			assert.Contains(t, pub.types(), leasing.EventTypeContractCreated)
			assert.Contains(t, pub.types(), leasing.EventTypeTenantOnboarded)
		})
	}
}

func TestOnboard_ValidationWritesNothing(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	svc := newService(f, config.OnboardingModeTransaction, nil)

	req := f.request()
	req.FirstName = "   "
	req.NationalID = ""

	_, err := svc.Onboard(context.Background(), f.officeID, nil, req)
	require.Error(t, err)
	assert.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	assert.Equal(t, int64(0), f.count(t, &models.TenantModel{}))
}

func TestOnboard_UnknownUnit(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	svc := newService(f, config.OnboardingModeTransaction, nil)

	req := f.request()
	req.UnitID = uuid.New()

	_, err := svc.Onboard(context.Background(), f.officeID, nil, req)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOnboard_UnitOfAnotherOfficeIsNotFound(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	svc := newService(f, config.OnboardingModeTransaction, nil)

	_, err := svc.Onboard(context.Background(), uuid.New(), nil, f.request())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, property.UnitStatusVacant, f.unitStatus(t))
}

func TestOnboard_DuplicateNationalID(t *testing.T) {
	for _, mode := range []string{config.OnboardingModeTransaction, config.OnboardingModeSaga} {
		t.Run(mode, func(t *testing.T) {
			f := newFixture(t, property.PaymentTermsAnnual)
			ctx := context.Background()

			existing, err := leasing.NewTenant(f.officeID, leasing.PersonDetails{
				FirstName: "Sara", LastName: "Other", NationalID: "1012345678", Phone: "0550000000",
			})
			require.NoError(t, err)
			require.NoError(t, persistence.NewGormTenantRepository(f.db).Save(ctx, existing))

			svc := newService(f, mode, nil)
			_, err = svc.Onboard(ctx, f.officeID, nil, f.request())
			require.Error(t, err)
			assert.Equal(t, shared.CodeAlreadyExists, shared.CodeOf(err))
			assert.Contains(t, err.Error(), "tenant already exists")

			assert.Equal(t, int64(1), f.count(t, &models.TenantModel{}))
			assert.Equal(t, int64(0), f.count(t, &models.ContractModel{}))
			assert.Equal(t, property.UnitStatusVacant, f.unitStatus(t))
		})
	}
}

func TestOnboard_OccupiedUnit(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	svc := newService(f, config.OnboardingModeTransaction, nil)
	ctx := context.Background()

	_, err := svc.Onboard(ctx, f.officeID, nil, f.request())
	require.NoError(t, err)

	second := f.request()
	second.NationalID = "1099999999"
	_, err = svc.Onboard(ctx, f.officeID, nil, second)
	require.Error(t, err)
	assert.Equal(t, shared.CodeUnitOccupied, shared.CodeOf(err))
	assert.Equal(t, int64(1), f.count(t, &models.TenantModel{}))
}

func TestOnboard_UnknownPaymentTermsDefaultToAnnual(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	ctx := context.Background()
	require.NoError(t, f.db.Model(&models.UnitModel{}).Where("id = ?", f.unit.ID).
		Update("payment_terms", "biennial").Error)

	svc := newService(f, config.OnboardingModeTransaction, nil)
	result, err := svc.Onboard(ctx, f.officeID, nil, f.request())
	require.NoError(t, err)
	assert.Equal(t, "annual", result.Contract.PaymentFrequency)
}

func TestOnboard_TransactionRollsBackOnUnitFailure(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	svc := newService(f, config.OnboardingModeTransaction, &faults{unitSave: errInjected})
	pub := &capturePublisher{}
	svc.SetEventPublisher(pub)

	_, err := svc.Onboard(context.Background(), f.officeID, nil, f.request())
	require.Error(t, err)
	assert.Equal(t, shared.CodePartialFailure, shared.CodeOf(err))
	assert.ErrorIs(t, err, errInjected)
	assert.Contains(t, err.Error(), "marking the unit as occupied")

	assert.Equal(t, int64(0), f.count(t, &models.TenantModel{}))
	assert.Equal(t, int64(0), f.count(t, &models.ContractModel{}))
	assert.Equal(t, property.UnitStatusVacant, f.unitStatus(t))
	assert.Empty(t, pub.events)
}

func TestOnboard_TransactionRollsBackOnContractFailure(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	svc := newService(f, config.OnboardingModeTransaction, &faults{contractSave: errInjected})

	_, err := svc.Onboard(context.Background(), f.officeID, nil, f.request())
	require.Error(t, err)
	assert.Equal(t, shared.CodePartialFailure, shared.CodeOf(err))
	assert.Contains(t, err.Error(), "creating the contract")
	assert.Equal(t, int64(0), f.count(t, &models.TenantModel{}))
}

func TestOnboard_SagaCompensatesCompletedSteps(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	svc := newService(f, config.OnboardingModeSaga, &faults{unitSave: errInjected})

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	_, err := svc.Onboard(ctx, f.officeID, nil, f.request())
	require.Error(t, err)
	assert.Equal(t, shared.CodePartialFailure, shared.CodeOf(err))
	assert.Contains(t, err.Error(), "completed steps were rolled back")

	assert.Equal(t, int64(0), f.count(t, &models.TenantModel{}))
	assert.Equal(t, int64(0), f.count(t, &models.ContractModel{}))
	assert.Equal(t, property.UnitStatusVacant, f.unitStatus(t))

	steps := logs.FilterMessage("onboarding compensation step").All()
	require.Len(t, steps, 2)
	assert.Equal(t, appleasing.StepCreateContract, steps[0].ContextMap()["step"])
	assert.Equal(t, appleasing.StepCreateTenant, steps[1].ContextMap()["step"])
	assert.Equal(t, true, steps[1].ContextMap()["applied"])
}

func TestOnboard_SagaReportsFailedCompensation(t *testing.T) {
	f := newFixture(t, property.PaymentTermsAnnual)
	fs := &faults{unitSave: errInjected, tenantDelete: errInjected}
	svc := newService(f, config.OnboardingModeSaga, fs)

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	_, err := svc.Onboard(ctx, f.officeID, nil, f.request())
	require.Error(t, err)
	assert.Equal(t, shared.CodePartialFailure, shared.CodeOf(err))
	assert.Contains(t, err.Error(), "could not be fully rolled back")

	assert.Equal(t, 3, fs.tenantDeletes)
	assert.Equal(t, int64(1), f.count(t, &models.TenantModel{}))
	assert.Equal(t, int64(0), f.count(t, &models.ContractModel{}))

	failed := logs.FilterMessage("onboarding compensation step").FilterField(zap.Bool("applied", false)).All()
	require.Len(t, failed, 1)
	assert.Equal(t, appleasing.StepCreateTenant, failed[0].ContextMap()["step"])
}
