package leasing

import (
	"context"

	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
)

// TransactionalRepositories exposes the repositories that take part in a
// leasing write. Inside TransactionScope.Execute they share one transaction.
type TransactionalRepositories interface {
	TenantRepo() leasing.TenantRepository
	ContractRepo() leasing.ContractRepository
	PayableRepo() leasing.PayableRepository
	UnitRepo() property.UnitRepository
}

// TransactionScope runs fn atomically. If fn returns an error every write made
// through repos is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
