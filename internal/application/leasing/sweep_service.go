package leasing

import (
	"context"
	"time"

	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Sweep job names, used as the job attribute of the sweep metric
const (
	SweepJobExpireContracts = "expire_contracts"
	SweepJobOverduePayables = "overdue_payables"
)

const defaultSweepBatchSize = 200

// SweepReport summarizes one run of the lease sweep
type SweepReport struct {
	ExpiredContracts int `json:"expired_contracts"`
	OverduePayables  int `json:"overdue_payables"`
}

// SweepService expires leases past their end date and flags late payables.
// It works across every office.
type SweepService struct {
	scope          TransactionScope
	contractRepo   leasing.ContractRepository
	payableRepo    leasing.PayableRepository
	batchSize      int
	eventPublisher shared.EventPublisher
	metrics        *telemetry.LeasingMetrics
}

// NewSweepService creates a new SweepService
func NewSweepService(scope TransactionScope, contractRepo leasing.ContractRepository, payableRepo leasing.PayableRepository, batchSize int) *SweepService {
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &SweepService{
		scope:        scope,
		contractRepo: contractRepo,
		payableRepo:  payableRepo,
		batchSize:    batchSize,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SweepService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the leasing metrics recorder
func (s *SweepService) SetMetrics(m *telemetry.LeasingMetrics) {
	s.metrics = m
}

// Sweep applies the date-driven transitions that are due at now.
// Each contract is expired in its own transaction together with its unit.
func (s *SweepService) Sweep(ctx context.Context, now time.Time) (*SweepReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "SweepService", "Sweep")
	report := &SweepReport{}
	var err error
	defer func() { telemetry.EndSpan(span, err) }()

	report.ExpiredContracts, err = s.expireContracts(ctx, now)
	s.metrics.RecordSweep(ctx, SweepJobExpireContracts, report.ExpiredContracts)
	if err != nil {
		return report, err
	}

	report.OverduePayables, err = s.flagOverduePayables(ctx, now)
	s.metrics.RecordSweep(ctx, SweepJobOverduePayables, report.OverduePayables)
	if err != nil {
		return report, err
	}

	logger.L(ctx).Info("Lease sweep completed",
		zap.Int("expired_contracts", report.ExpiredContracts),
		zap.Int("overdue_payables", report.OverduePayables),
	)
	return report, nil
}

func (s *SweepService) expireContracts(ctx context.Context, now time.Time) (int, error) {
	expired := 0
	for {
		contracts, err := s.contractRepo.FindActiveEndedBefore(ctx, now, s.batchSize)
		if err != nil {
			return expired, err
		}
		if len(contracts) == 0 {
			return expired, nil
		}

		changed := 0
		for i := range contracts {
			contract := &contracts[i]
			if !contract.ExpireIfDue(now) {
				continue
			}
			var ended *endedLease
			err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
				var err error
				ended, err = endLease(ctx, repos, contract)
				return err
			})
			if err != nil {
				return expired, err
			}
			ended.publish(ctx, s.eventPublisher)
			changed++
		}
		expired += changed
		if changed == 0 || len(contracts) < s.batchSize {
			return expired, nil
		}
	}
}

func (s *SweepService) flagOverduePayables(ctx context.Context, now time.Time) (int, error) {
	flagged := 0
	for {
		payables, err := s.payableRepo.FindPendingDueBefore(ctx, now, s.batchSize)
		if err != nil {
			return flagged, err
		}
		if len(payables) == 0 {
			return flagged, nil
		}

		batch := make([]*leasing.Payable, 0, len(payables))
		for i := range payables {
			if payables[i].MarkOverdueIfDue(now) {
				batch = append(batch, &payables[i])
			}
		}
		if len(batch) == 0 {
			return flagged, nil
		}
		if err := s.payableRepo.SaveBatch(ctx, batch); err != nil {
			return flagged, err
		}
		flagged += len(batch)
		if len(payables) < s.batchSize {
			return flagged, nil
		}
	}
}
