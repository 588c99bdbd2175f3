package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TenantRepository defines persistence operations for tenants
type TenantRepository interface {
	FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*Tenant, error)
	FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]Tenant, error)
	CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNationalID(ctx context.Context, officeID uuid.UUID, nationalID string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
	DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error
}

// ContractRepository defines persistence operations for contracts
type ContractRepository interface {
	FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*Contract, error)
	FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]Contract, error)
	CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, officeID uuid.UUID, status ContractStatus) (int64, error)
	ExistsActiveForUnit(ctx context.Context, officeID, unitID uuid.UUID) (bool, error)
	// FindActiveEndedBefore returns active contracts of every office whose end date is before t
	FindActiveEndedBefore(ctx context.Context, t time.Time, limit int) ([]Contract, error)
	Save(ctx context.Context, contract *Contract) error
	DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error
}

// PayableRepository defines persistence operations for payables
type PayableRepository interface {
	FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*Payable, error)
	FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]Payable, error)
	CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error)
	// FindPendingDueBefore returns pending payables of every office due before t
	FindPendingDueBefore(ctx context.Context, t time.Time, limit int) ([]Payable, error)
	SumOpenAmount(ctx context.Context, officeID uuid.UUID, payableType PayableType, status PayableStatus) (decimal.Decimal, error)
	Save(ctx context.Context, payable *Payable) error
	SaveBatch(ctx context.Context, payables []*Payable) error
}
