package leasing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ContractService handles contract-related business operations
type ContractService struct {
	contractRepo   leasing.ContractRepository
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo leasing.ContractRepository, scope TransactionScope) *ContractService {
	return &ContractService{contractRepo: contractRepo, scope: scope, now: time.Now}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ContractService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID returns a contract of the office
func (s *ContractService) GetByID(ctx context.Context, officeID, id uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByIDForOffice(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToContractResponse(contract)
	return &resp, nil
}

// List returns a page of contracts. Supported filters: status, unit_id, tenant_id.
func (s *ContractService) List(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (*shared.Paginated[ContractResponse], error) {
	filter = filter.Normalize()
	contracts, err := s.contractRepo.FindAllForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.contractRepo.CountForOffice(ctx, officeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(mapSlice(contracts, ToContractResponse), total, filter.Page, filter.PageSize)
	return &page, nil
}

// Terminate ends an active contract and returns its unit to the vacant pool,
// in one transaction
func (s *ContractService) Terminate(ctx context.Context, officeID, id uuid.UUID, req TerminateContractRequest) (*ContractResponse, error) {
	var ended *endedLease
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		contract, err := repos.ContractRepo().FindByIDForOffice(ctx, officeID, id)
		if err != nil {
			return err
		}
		if err := contract.Terminate(s.now().UTC(), req.Reason); err != nil {
			return err
		}
		ended, err = endLease(ctx, repos, contract)
		return err
	})
	if err != nil {
		return nil, err
	}
	ended.publish(ctx, s.eventPublisher)

	resp := ToContractResponse(ended.contract)
	return &resp, nil
}

// Update edits a contract. Moving a contract into the active state occupies
// its unit and is refused with UNIT_OCCUPIED while another active contract
// holds the unit. Moving it out of the active state releases the unit.
func (s *ContractService) Update(ctx context.Context, officeID, id uuid.UUID, req UpdateContractRequest) (*ContractResponse, error) {
	var (
		contract *leasing.Contract
		unit     shared.AggregateRoot
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		contract, err = repos.ContractRepo().FindByIDForOffice(ctx, officeID, id)
		if err != nil {
			return err
		}
		wasActive := contract.IsActive()
		if err := contract.Update(req.edit(), s.now().UTC()); err != nil {
			return err
		}

		switch {
		case !wasActive && contract.IsActive():
			unit, err = activateLease(ctx, repos, contract)
			return err
		case wasActive && !contract.IsActive():
			ended, err := endLease(ctx, repos, contract)
			if err != nil {
				return err
			}
			unit = ended.unit
			return nil
		default:
			return repos.ContractRepo().Save(ctx, contract)
		}
	})
	if err != nil {
		return nil, err
	}
	if unit != nil {
		publishDomainEvents(ctx, s.eventPublisher, contract, unit)
	} else {
		publishDomainEvents(ctx, s.eventPublisher, contract)
	}

	resp := ToContractResponse(contract)
	return &resp, nil
}

// activateLease occupies the unit of a contract that just became active.
// The check runs before the contract is saved so the partial unique index on
// active contracts only fires on a concurrent activation.
func activateLease(ctx context.Context, repos TransactionalRepositories, contract *leasing.Contract) (shared.AggregateRoot, error) {
	unit, err := repos.UnitRepo().FindByIDForOffice(ctx, contract.OfficeID, contract.UnitID)
	if err != nil {
		return nil, err
	}
	active, err := repos.ContractRepo().ExistsActiveForUnit(ctx, contract.OfficeID, contract.UnitID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, unitOccupiedError(unit.UnitNumber)
	}
	if err := unit.Occupy(); err != nil {
		return nil, err
	}
	if err := repos.ContractRepo().Save(ctx, contract); err != nil {
		return nil, err
	}
	if err := repos.UnitRepo().Save(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

type endedLease struct {
	contract *leasing.Contract
	unit     shared.AggregateRoot
}

func (e *endedLease) publish(ctx context.Context, publisher shared.EventPublisher) {
	if e.unit != nil {
		publishDomainEvents(ctx, publisher, e.contract, e.unit)
		return
	}
	publishDomainEvents(ctx, publisher, e.contract)
}

// endLease saves a contract that just left the active state and releases its unit.
// A unit that no longer exists is skipped.
func endLease(ctx context.Context, repos TransactionalRepositories, contract *leasing.Contract) (*endedLease, error) {
	if err := repos.ContractRepo().Save(ctx, contract); err != nil {
		return nil, err
	}
	ended := &endedLease{contract: contract}

	unit, err := repos.UnitRepo().FindByIDForOffice(ctx, contract.OfficeID, contract.UnitID)
	if errors.Is(err, shared.ErrNotFound) {
		logger.L(ctx).Warn("Unit of ended contract not found",
			zap.String("contract_id", contract.ID.String()),
			zap.String("unit_id", contract.UnitID.String()),
		)
		return ended, nil
	}
	if err != nil {
		return nil, err
	}
	unit.Release()
	if err := repos.UnitRepo().Save(ctx, unit); err != nil {
		return nil, err
	}
	ended.unit = unit
	return ended, nil
}
