// Package leasing implements tenant onboarding and the tenant, contract and
// payable use cases.
package leasing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	appproperty "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Onboarding write steps, in execution order
const (
	StepCreateTenant   = "create_tenant"
	StepCreateContract = "create_contract"
	StepOccupyUnit     = "occupy_unit"
)

var stepDescriptions = map[string]string{
	StepCreateTenant:   "creating the tenant",
	StepCreateContract: "creating the contract",
	StepOccupyUnit:     "marking the unit as occupied",
}

// stepError marks a failure that happened after at least one write
type stepError struct {
	step  string
	cause error
}

func (e *stepError) Error() string { return e.step + ": " + e.cause.Error() }
func (e *stepError) Unwrap() error { return e.cause }

type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// OnboardingService registers a tenant, signs a lease for a vacant unit and
// marks the unit occupied, as one unit of work.
//
// In transaction mode every write runs inside a single database transaction.
// In saga mode each completed step registers a compensation that is replayed
// in reverse order when a later step fails.
type OnboardingService struct {
	scope          TransactionScope
	direct         TransactionalRepositories
	cfg            config.OnboardingConfig
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
	metrics        *telemetry.LeasingMetrics
	now            func() time.Time
	newBackOff     func() backoff.BackOff
}

// NewOnboardingService creates a new OnboardingService. direct is only used in
// saga mode and may be nil otherwise.
func NewOnboardingService(
	scope TransactionScope,
	direct TransactionalRepositories,
	cfg config.OnboardingConfig,
	logger *zap.Logger,
) *OnboardingService {
	if cfg.Mode == "" {
		cfg.Mode = config.OnboardingModeTransaction
	}
	if cfg.LeaseTermMonths <= 0 {
		cfg.LeaseTermMonths = leasing.DefaultLeaseTermMonths
	}
	if cfg.CompensationRetries <= 0 {
		cfg.CompensationRetries = 3
	}
	return &OnboardingService{
		scope:  scope,
		direct: direct,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OnboardingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the metrics recorder
func (s *OnboardingService) SetMetrics(m *telemetry.LeasingMetrics) {
	s.metrics = m
}

// Onboard runs the onboarding workflow for one unit.
//
// Validation, a missing unit, an occupied unit and a duplicate national ID are
// rejected before anything is written. A failure after a write is returned as
// PARTIAL_FAILURE wrapping the cause.
func (s *OnboardingService) Onboard(ctx context.Context, officeID uuid.UUID, userID *uuid.UUID, req OnboardTenantRequest) (result *OnboardingResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "onboarding", "onboard",
		telemetry.OfficeAttr(officeID),
		attribute.String("unit.id", req.UnitID.String()),
		attribute.String("onboarding.mode", s.cfg.Mode),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.L(ctx).With(zap.String("unit_id", req.UnitID.String()), zap.String("mode", s.cfg.Mode))

	details := req.details()
	if err := details.Validate(); err != nil {
		s.metrics.RecordOnboarding(ctx, telemetry.OnboardingResultRejected)
		return nil, err
	}
	if req.UnitID == uuid.Nil {
		s.metrics.RecordOnboarding(ctx, telemetry.OnboardingResultRejected)
		return nil, shared.NewRequiredFieldsError("unit_id")
	}

	var out *onboardingOutcome
	if s.cfg.Mode == config.OnboardingModeSaga {
		out, err = s.runSaga(ctx, log, officeID, userID, req.UnitID, details)
	} else {
		out, err = s.runTransaction(ctx, officeID, userID, req.UnitID, details)
	}
	if err != nil {
		var se *stepError
		if errors.As(err, &se) {
			return nil, se.cause
		}
		s.metrics.RecordOnboarding(ctx, telemetry.OnboardingResultRejected)
		log.Info("Onboarding rejected", zap.String("code", shared.CodeOf(err)), zap.Error(err))
		return nil, err
	}

	s.metrics.RecordOnboarding(ctx, telemetry.OnboardingResultSuccess)
	s.publish(ctx, out)
	log.Info("Tenant onboarded",
		zap.String("tenant_id", out.tenant.ID.String()),
		zap.String("contract_id", out.contract.ID.String()),
	)

	return &OnboardingResult{
		Tenant:   ToTenantResponse(out.tenant),
		Contract: ToContractResponse(out.contract),
		Unit:     appproperty.ToUnitResponse(out.unit),
	}, nil
}

type onboardingOutcome struct {
	tenant   *leasing.Tenant
	contract *leasing.Contract
	unit     *property.Unit
}

func (s *OnboardingService) runTransaction(ctx context.Context, officeID uuid.UUID, userID *uuid.UUID, unitID uuid.UUID, details leasing.PersonDetails) (*onboardingOutcome, error) {
	var out *onboardingOutcome
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		out, err = s.execute(ctx, repos, officeID, userID, unitID, details, nil)
		return err
	})
	if err == nil {
		return out, nil
	}

	var se *stepError
	if !errors.As(err, &se) {
		return nil, err
	}
	if se.step == StepCreateContract && errors.Is(se.cause, shared.ErrAlreadyExists) {
		// a concurrent onboarding won the unit; the transaction left nothing behind
		return nil, unitOccupiedError(unitID.String())
	}
	s.metrics.RecordOnboarding(ctx, telemetry.OnboardingResultFailed)
	logger.L(ctx).Error("Onboarding failed, transaction rolled back",
		zap.String("step", se.step),
		zap.Error(se.cause),
	)
	return nil, &stepError{step: se.step, cause: shared.NewPartialFailureError(
		"onboarding failed while "+stepDescriptions[se.step]+"; no changes were saved", se.cause)}
}

func (s *OnboardingService) runSaga(ctx context.Context, log *zap.Logger, officeID uuid.UUID, userID *uuid.UUID, unitID uuid.UUID, details leasing.PersonDetails) (*onboardingOutcome, error) {
	var done []compensation
	out, err := s.execute(ctx, s.direct, officeID, userID, unitID, details, func(c compensation) {
		done = append(done, c)
	})
	if err == nil {
		return out, nil
	}

	var se *stepError
	if !errors.As(err, &se) {
		return nil, err
	}
	log.Error("Onboarding step failed",
		zap.String("step", se.step),
		zap.Int("completed_steps", len(done)),
		zap.Error(se.cause),
	)

	consistent := s.compensate(ctx, done)
	msg := "onboarding failed while " + stepDescriptions[se.step] + "; completed steps were rolled back"
	result := telemetry.OnboardingResultCompensated
	if !consistent {
		msg = "onboarding failed while " + stepDescriptions[se.step] + " and could not be fully rolled back; data may be inconsistent"
		result = telemetry.OnboardingResultFailed
	}
	s.metrics.RecordOnboarding(ctx, result)
	return nil, &stepError{step: se.step, cause: shared.NewPartialFailureError(msg, se.cause)}
}

// compensate undoes completed steps in reverse order, retrying each with
// backoff. Every outcome is logged on its own. It reports whether all
// compensations were applied.
func (s *OnboardingService) compensate(ctx context.Context, done []compensation) bool {
	ctx = context.WithoutCancel(ctx)
	log := logger.L(ctx)
	consistent := true

	for i := len(done) - 1; i >= 0; i-- {
		c := done[i]
		attempts := 0
		_, err := backoff.Retry(ctx, func() (struct{}, error) {
			attempts++
			err := c.undo(ctx)
			if errors.Is(err, shared.ErrNotFound) {
				return struct{}{}, nil
			}
			return struct{}{}, err
		},
			backoff.WithBackOff(s.newBackOff()),
			backoff.WithMaxTries(uint(s.cfg.CompensationRetries)),
		)

		s.metrics.RecordCompensation(ctx, c.step, err == nil)
		if err != nil {
			consistent = false
			log.Error("onboarding compensation step",
				zap.String("step", c.step),
				zap.Bool("applied", false),
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
			continue
		}
		log.Warn("onboarding compensation step",
			zap.String("step", c.step),
			zap.Bool("applied", true),
			zap.Int("attempts", attempts),
		)
	}
	return consistent
}

// execute performs the onboarding steps against repos. When record is not nil
// each completed write registers its compensation.
func (s *OnboardingService) execute(
	ctx context.Context,
	repos TransactionalRepositories,
	officeID uuid.UUID,
	userID *uuid.UUID,
	unitID uuid.UUID,
	details leasing.PersonDetails,
	record func(compensation),
) (*onboardingOutcome, error) {
	if record == nil {
		record = func(compensation) {}
	}
	tenantRepo := repos.TenantRepo()
	contractRepo := repos.ContractRepo()
	unitRepo := repos.UnitRepo()

	unit, err := unitRepo.FindByIDForOffice(ctx, officeID, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureLeasable(ctx, contractRepo, unit); err != nil {
		return nil, err
	}
	frequency := leasing.MapPaymentTerms(unit.PaymentTerms)

	nationalID := strings.TrimSpace(details.NationalID)
	exists, err := tenantRepo.ExistsByNationalID(ctx, officeID, nationalID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("tenant already exists")
	}

	tenant, err := leasing.NewTenant(officeID, details)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		tenant.SetCreatedBy(*userID)
	}
	if err := tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	record(compensation{step: StepCreateTenant, undo: func(ctx context.Context) error {
		return tenantRepo.DeleteForOffice(ctx, officeID, tenant.ID)
	}})

	contract, err := leasing.NewActiveContract(officeID, leasing.LeaseTerms{
		UnitID:     unit.ID,
		TenantID:   tenant.ID,
		StartDate:  s.now().UTC(),
		TermMonths: s.cfg.LeaseTermMonths,
		RentAmount: unit.YearlyRent,
		Frequency:  frequency,
	})
	if err != nil {
		return nil, &stepError{step: StepCreateContract, cause: err}
	}
	if userID != nil {
		contract.SetCreatedBy(*userID)
	}
	if err := contractRepo.Save(ctx, contract); err != nil {
		return nil, &stepError{step: StepCreateContract, cause: err}
	}
	record(compensation{step: StepCreateContract, undo: func(ctx context.Context) error {
		return contractRepo.DeleteForOffice(ctx, officeID, contract.ID)
	}})

	previous := unit.Status
	if err := unit.Occupy(); err != nil {
		return nil, &stepError{step: StepOccupyUnit, cause: err}
	}
	if err := unitRepo.Save(ctx, unit); err != nil {
		return nil, &stepError{step: StepOccupyUnit, cause: err}
	}
	record(compensation{step: StepOccupyUnit, undo: func(ctx context.Context) error {
		current, err := unitRepo.FindByIDForOffice(ctx, officeID, unit.ID)
		if err != nil {
			return err
		}
		current.RestoreStatus(previous)
		return unitRepo.Save(ctx, current)
	}})

	return &onboardingOutcome{tenant: tenant, contract: contract, unit: unit}, nil
}

// ensureLeasable rejects units that are occupied, under maintenance or already
// bound by an active contract
func (s *OnboardingService) ensureLeasable(ctx context.Context, contracts leasing.ContractRepository, unit *property.Unit) error {
	switch unit.Status {
	case property.UnitStatusOccupied:
		return unitOccupiedError(unit.UnitNumber)
	case property.UnitStatusMaintenance:
		return shared.NewInvalidStateError("unit " + unit.UnitNumber + " is under maintenance")
	}
	active, err := contracts.ExistsActiveForUnit(ctx, unit.OfficeID, unit.ID)
	if err != nil {
		return err
	}
	if active {
		return unitOccupiedError(unit.UnitNumber)
	}
	return nil
}

func unitOccupiedError(unit string) error {
	return shared.NewDomainError(shared.CodeUnitOccupied, "unit "+unit+" already has an active contract")
}

// publish sends the events of every written aggregate once the writes are durable
func (s *OnboardingService) publish(ctx context.Context, out *onboardingOutcome) {
	if s.eventPublisher == nil {
		return
	}
	events := make([]shared.DomainEvent, 0, 4)
	events = append(events, out.tenant.GetDomainEvents()...)
	events = append(events, out.contract.GetDomainEvents()...)
	events = append(events, out.unit.GetDomainEvents()...)
	events = append(events, leasing.NewTenantOnboardedEvent(out.tenant, out.contract))

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("Failed to publish onboarding events", zap.Error(err))
	}
	out.tenant.ClearDomainEvents()
	out.contract.ClearDomainEvents()
	out.unit.ClearDomainEvents()
}
