package leasing

import (
	"context"
	"fmt"

	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// RentScheduleHandler creates the pending rent receivables of a new lease.
// It must be wrapped in an idempotent handler since events may be redelivered.
type RentScheduleHandler struct {
	payableRepo leasing.PayableRepository
}

// NewRentScheduleHandler creates a new RentScheduleHandler
func NewRentScheduleHandler(payableRepo leasing.PayableRepository) *RentScheduleHandler {
	return &RentScheduleHandler{payableRepo: payableRepo}
}

// EventTypes returns the event types this handler is interested in
func (h *RentScheduleHandler) EventTypes() []string {
	return []string{leasing.EventTypeContractCreated}
}

// Handle builds and stores the installments of the created contract
func (h *RentScheduleHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*leasing.ContractCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	contract := &leasing.Contract{
		OfficeAggregateRoot: shared.NewOfficeAggregateRoot(created.OfficeID()),
		UnitID:              created.UnitID,
		TenantID:            created.TenantID,
		StartDate:           created.StartDate,
		EndDate:             created.EndDate,
		RentAmount:          created.RentAmount,
		PaymentFrequency:    created.PaymentFrequency,
		Status:              leasing.ContractStatusActive,
	}
	contract.ID = created.ContractID

	payables, err := leasing.RentSchedule(contract)
	if err != nil {
		return err
	}
	if len(payables) == 0 {
		return nil
	}
	if err := h.payableRepo.SaveBatch(ctx, payables); err != nil {
		return err
	}

	logger.L(ctx).Info("Rent schedule created",
		zap.String("contract_id", created.ContractID.String()),
		zap.Int("installments", len(payables)),
	)
	return nil
}
