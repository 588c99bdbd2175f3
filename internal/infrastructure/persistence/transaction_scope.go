package persistence

import (
	"context"

	appleasing "github.com/propdesk/backend/internal/application/leasing"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/property"
	"gorm.io/gorm"
)

// GormTransactionScope implements appleasing.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn in one database transaction. A returned error rolls back
// every write made through the provided repositories.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appleasing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// NewGormRepositories returns the leasing repositories bound to db without a
// surrounding transaction. Saga mode onboarding writes through these.
func NewGormRepositories(db *gorm.DB) appleasing.TransactionalRepositories {
	return &gormTransactionalRepositories{tx: db}
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) TenantRepo() leasing.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r *gormTransactionalRepositories) ContractRepo() leasing.ContractRepository {
	return NewGormContractRepository(r.tx)
}

func (r *gormTransactionalRepositories) PayableRepo() leasing.PayableRepository {
	return NewGormPayableRepository(r.tx)
}

func (r *gormTransactionalRepositories) UnitRepo() property.UnitRepository {
	return NewGormUnitRepository(r.tx)
}

var (
	_ appleasing.TransactionScope          = (*GormTransactionScope)(nil)
	_ appleasing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
