package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTenantRepository implements leasing.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByIDForOffice finds a tenant by ID within an office
func (r *GormTenantRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*leasing.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).Scopes(OfficeScope(officeID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err, "tenant")
	}
	return model.ToDomain(), nil
}

// FindAllForOffice lists tenants of an office
func (r *GormTenantRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]leasing.Tenant, error) {
	var rows []models.TenantModel
	if err := applyPaging(r.filtered(ctx, officeID, filter), filter, TenantSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	tenants := make([]leasing.Tenant, len(rows))
	for i := range rows {
		tenants[i] = *rows[i].ToDomain()
	}
	return tenants, nil
}

// CountForOffice counts tenants of an office matching the filter
func (r *GormTenantRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, officeID, filter).Count(&count).Error
	return count, err
}

func (r *GormTenantRepository) filtered(ctx context.Context, officeID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.TenantModel{}).Scopes(OfficeScope(officeID))
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(full_name) LIKE ?"+likeEscape+" OR LOWER(email) LIKE ?"+likeEscape+" OR national_id LIKE ?"+likeEscape+" OR phone LIKE ?"+likeEscape+")", p, p, p, p)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// ExistsByNationalID reports whether the office already has a tenant with this national ID
func (r *GormTenantRepository) ExistsByNationalID(ctx context.Context, officeID uuid.UUID, nationalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TenantModel{}).Scopes(OfficeScope(officeID)).
		Where("national_id = ?", nationalID).Count(&count).Error
	return count > 0, err
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *leasing.Tenant) error {
	return mapDBError(r.db.WithContext(ctx).Save(models.TenantModelFromDomain(tenant)).Error, "tenant")
}

// DeleteForOffice deletes a tenant within an office
func (r *GormTenantRepository) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	return deleteForOffice(ctx, r.db, &models.TenantModel{}, officeID, id, "tenant")
}

// GormContractRepository implements leasing.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByIDForOffice finds a contract by ID within an office
func (r *GormContractRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*leasing.Contract, error) {
	var model models.ContractModel
	if err := r.db.WithContext(ctx).Scopes(OfficeScope(officeID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err, "contract")
	}
	return model.ToDomain(), nil
}

// FindAllForOffice lists contracts of an office
func (r *GormContractRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]leasing.Contract, error) {
	var rows []models.ContractModel
	if err := applyPaging(r.filtered(ctx, officeID, filter), filter, ContractSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	return contractsToDomain(rows), nil
}

// CountForOffice counts contracts of an office matching the filter
func (r *GormContractRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, officeID, filter).Count(&count).Error
	return count, err
}

func (r *GormContractRepository) filtered(ctx context.Context, officeID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ContractModel{}).Scopes(OfficeScope(officeID))
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "unit_id":
			query = query.Where("unit_id = ?", value)
		case "tenant_id":
			query = query.Where("tenant_id = ?", value)
		}
	}
	return query
}

// CountByStatus counts the contracts of an office in a status
func (r *GormContractRepository) CountByStatus(ctx context.Context, officeID uuid.UUID, status leasing.ContractStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContractModel{}).Scopes(OfficeScope(officeID)).
		Where("status = ?", status).Count(&count).Error
	return count, err
}

// ExistsActiveForUnit reports whether the unit is under an active contract
func (r *GormContractRepository) ExistsActiveForUnit(ctx context.Context, officeID, unitID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ContractModel{}).Scopes(OfficeScope(officeID)).
		Where("unit_id = ? AND status = ?", unitID, leasing.ContractStatusActive).Count(&count).Error
	return count > 0, err
}

// FindActiveEndedBefore returns active contracts of every office whose end date is before t
func (r *GormContractRepository) FindActiveEndedBefore(ctx context.Context, t time.Time, limit int) ([]leasing.Contract, error) {
	var rows []models.ContractModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", leasing.ContractStatusActive, t).
		Order("end_date ASC").Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return contractsToDomain(rows), nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *leasing.Contract) error {
	return mapDBError(r.db.WithContext(ctx).Save(models.ContractModelFromDomain(contract)).Error, "contract")
}

// DeleteForOffice deletes a contract within an office
func (r *GormContractRepository) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	return deleteForOffice(ctx, r.db, &models.ContractModel{}, officeID, id, "contract")
}

func contractsToDomain(rows []models.ContractModel) []leasing.Contract {
	contracts := make([]leasing.Contract, len(rows))
	for i := range rows {
		contracts[i] = *rows[i].ToDomain()
	}
	return contracts
}

// GormPayableRepository implements leasing.PayableRepository using GORM
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

// FindByIDForOffice finds a payable by ID within an office
func (r *GormPayableRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*leasing.Payable, error) {
	var model models.PayableModel
	if err := r.db.WithContext(ctx).Scopes(OfficeScope(officeID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err, "payable")
	}
	return model.ToDomain(), nil
}

// FindAllForOffice lists payables of an office
func (r *GormPayableRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]leasing.Payable, error) {
	var rows []models.PayableModel
	if err := applyPaging(r.filtered(ctx, officeID, filter), filter, PayableSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	return payablesToDomain(rows), nil
}

// CountForOffice counts payables of an office matching the filter
func (r *GormPayableRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, officeID, filter).Count(&count).Error
	return count, err
}

func (r *GormPayableRepository) filtered(ctx context.Context, officeID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.PayableModel{}).Scopes(OfficeScope(officeID))
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(transaction_ref) LIKE ?"+likeEscape+" OR LOWER(notes) LIKE ?"+likeEscape+")", p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "contract_id":
			query = query.Where("contract_id = ?", value)
		}
	}
	return query
}

// FindPendingDueBefore returns pending payables of every office due before t
func (r *GormPayableRepository) FindPendingDueBefore(ctx context.Context, t time.Time, limit int) ([]leasing.Payable, error) {
	var rows []models.PayableModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", leasing.PayableStatusPending, t).
		Order("due_date ASC").Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return payablesToDomain(rows), nil
}

// SumOpenAmount sums the amounts of an office's payables of one type and status
func (r *GormPayableRepository) SumOpenAmount(ctx context.Context, officeID uuid.UUID, payableType leasing.PayableType, status leasing.PayableStatus) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.PayableModel{}).Scopes(OfficeScope(officeID)).
		Where("type = ? AND status = ?", payableType, status).
		Select("SUM(amount)").Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save creates or updates a payable
func (r *GormPayableRepository) Save(ctx context.Context, payable *leasing.Payable) error {
	return mapDBError(r.db.WithContext(ctx).Save(models.PayableModelFromDomain(payable)).Error, "payable")
}

// SaveBatch inserts new payables in one statement
func (r *GormPayableRepository) SaveBatch(ctx context.Context, payables []*leasing.Payable) error {
	if len(payables) == 0 {
		return nil
	}
	rows := make([]*models.PayableModel, len(payables))
	for i, p := range payables {
		rows[i] = models.PayableModelFromDomain(p)
	}
	return mapDBError(r.db.WithContext(ctx).Create(rows).Error, "payable")
}

func payablesToDomain(rows []models.PayableModel) []leasing.Payable {
	payables := make([]leasing.Payable, len(rows))
	for i := range rows {
		payables[i] = *rows[i].ToDomain()
	}
	return payables
}

var (
	_ leasing.TenantRepository   = (*GormTenantRepository)(nil)
	_ leasing.ContractRepository = (*GormContractRepository)(nil)
	_ leasing.PayableRepository  = (*GormPayableRepository)(nil)
)
