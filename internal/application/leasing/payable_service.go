package leasing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
)

// PayableService handles receipts and bills
type PayableService struct {
	payableRepo    leasing.PayableRepository
	contractRepo   leasing.ContractRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewPayableService creates a new PayableService
func NewPayableService(payableRepo leasing.PayableRepository, contractRepo leasing.ContractRepository) *PayableService {
	return &PayableService{payableRepo: payableRepo, contractRepo: contractRepo, now: time.Now}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PayableService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a pending payable, optionally tied to a contract of the office
func (s *PayableService) Create(ctx context.Context, officeID uuid.UUID, createdBy *uuid.UUID, req CreatePayableRequest) (*PayableResponse, error) {
	if req.ContractID != nil {
		if _, err := s.contractRepo.FindByIDForOffice(ctx, officeID, *req.ContractID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("contract not found", "contract_id")
			}
			return nil, err
		}
	}

	payable, err := leasing.NewPayable(officeID, leasing.PayableDetails{
		ContractID: req.ContractID,
		Type:       leasing.PayableType(req.Type),
		Category:   leasing.PayableCategory(req.Category),
		Method:     leasing.PaymentMethod(req.PaymentMethod),
		Amount:     req.Amount,
		DueDate:    req.DueDate.UTC(),
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		payable.SetCreatedBy(*createdBy)
	}
	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}
	resp := ToPayableResponse(payable)
	return &resp, nil
}

// GetByID returns a payable of the office
func (s *PayableService) GetByID(ctx context.Context, officeID, id uuid.UUID) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPayableResponse(payable)
	return &resp, nil
}

// List returns a page of payables. Supported filters: status, type, contract_id.
func (s *PayableService) List(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (*shared.Paginated[PayableResponse], error) {
	filter = filter.Normalize()
	payables, err := s.payableRepo.FindAllForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.payableRepo.CountForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(mapSlice(payables, ToPayableResponse), total, filter.Page, filter.PageSize)
	return &page, nil
}

// MarkPaid settles an open payable. PaidAt defaults to now.
func (s *PayableService) MarkPaid(ctx context.Context, officeID, id uuid.UUID, req PayPayableRequest) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	paidAt := s.now().UTC()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}
	if err := payable.MarkPaid(leasing.PaymentMethod(req.PaymentMethod), req.TransactionRef, paidAt); err != nil {
		return nil, err
	}
	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}
	publishDomainEvents(ctx, s.eventPublisher, payable)

	resp := ToPayableResponse(payable)
	return &resp, nil
}

// Update edits an open payable
func (s *PayableService) Update(ctx context.Context, officeID, id uuid.UUID, req UpdatePayableRequest) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	err = payable.Update(leasing.PayableEdit{
		Category: leasing.PayableCategory(req.Category),
		Method:   leasing.PaymentMethod(req.PaymentMethod),
		Amount:   req.Amount,
		DueDate:  req.DueDate.UTC(),
		Notes:    req.Notes,
	}, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}
	resp := ToPayableResponse(payable)
	return &resp, nil
}

// Cancel voids an open payable
func (s *PayableService) Cancel(ctx context.Context, officeID, id uuid.UUID, req CancelPayableRequest) (*PayableResponse, error) {
	payable, err := s.payableRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	if err := payable.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.payableRepo.Save(ctx, payable); err != nil {
		return nil, err
	}
	resp := ToPayableResponse(payable)
	return &resp, nil
}
