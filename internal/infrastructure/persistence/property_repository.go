package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOwnerRepository implements property.OwnerRepository using GORM
type GormOwnerRepository struct {
	db *gorm.DB
}

// NewGormOwnerRepository creates a new GormOwnerRepository
func NewGormOwnerRepository(db *gorm.DB) *GormOwnerRepository {
	return &GormOwnerRepository{db: db}
}

// FindByIDForOffice finds an owner by ID within an office
func (r *GormOwnerRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*property.Owner, error) {
	var model models.OwnerModel
	if err := r.db.WithContext(ctx).Scopes(OfficeScope(officeID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err, "owner")
	}
	return model.ToDomain(), nil
}

// FindAllForOffice lists owners of an office
func (r *GormOwnerRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]property.Owner, error) {
	var rows []models.OwnerModel
	query := r.filtered(ctx, officeID, filter)
	if err := applyPaging(query, filter, OwnerSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	owners := make([]property.Owner, len(rows))
	for i := range rows {
		owners[i] = *rows[i].ToDomain()
	}
	return owners, nil
}

// CountForOffice counts owners of an office matching the filter
func (r *GormOwnerRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, officeID, filter).Count(&count).Error
	return count, err
}

func (r *GormOwnerRepository) filtered(ctx context.Context, officeID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.OwnerModel{}).Scopes(OfficeScope(officeID))
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(full_name) LIKE ?"+likeEscape+" OR LOWER(email) LIKE ?"+likeEscape+" OR national_id LIKE ?"+likeEscape+")", p, p, p)
	}
	return query
}

// Save creates or updates an owner
func (r *GormOwnerRepository) Save(ctx context.Context, owner *property.Owner) error {
	return mapDBError(r.db.WithContext(ctx).Save(models.OwnerModelFromDomain(owner)).Error, "owner")
}

// DeleteForOffice deletes an owner within an office
func (r *GormOwnerRepository) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	return deleteForOffice(ctx, r.db, &models.OwnerModel{}, officeID, id, "owner")
}

// GormBuildingRepository implements property.BuildingRepository using GORM
type GormBuildingRepository struct {
	db *gorm.DB
}

// NewGormBuildingRepository creates a new GormBuildingRepository
func NewGormBuildingRepository(db *gorm.DB) *GormBuildingRepository {
	return &GormBuildingRepository{db: db}
}

// FindByIDForOffice finds a building by ID within an office
func (r *GormBuildingRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*property.Building, error) {
	var model models.BuildingModel
	if err := r.db.WithContext(ctx).Scopes(OfficeScope(officeID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err, "building")
	}
	return model.ToDomain(), nil
}

// FindAllForOffice lists buildings of an office
func (r *GormBuildingRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]property.Building, error) {
	var rows []models.BuildingModel
	query := r.filtered(ctx, officeID, filter)
	if err := applyPaging(query, filter, BuildingSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	buildings := make([]property.Building, len(rows))
	for i := range rows {
		buildings[i] = *rows[i].ToDomain()
	}
	return buildings, nil
}

// CountForOffice counts buildings of an office matching the filter
func (r *GormBuildingRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, officeID, filter).Count(&count).Error
	return count, err
}

// CountByOwner counts the buildings referencing an owner
func (r *GormBuildingRepository) CountByOwner(ctx context.Context, officeID, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BuildingModel{}).Scopes(OfficeScope(officeID)).
		Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *GormBuildingRepository) filtered(ctx context.Context, officeID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.BuildingModel{}).Scopes(OfficeScope(officeID))
	if filter.Search != "" {
		p := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ?"+likeEscape+" OR LOWER(address) LIKE ?"+likeEscape+" OR LOWER(city) LIKE ?"+likeEscape+")", p, p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case "owner_id":
			query = query.Where("owner_id = ?", value)
		case "building_type":
			query = query.Where("building_type = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		}
	}
	return query
}

// Save creates or updates a building
func (r *GormBuildingRepository) Save(ctx context.Context, building *property.Building) error {
	return mapDBError(r.db.WithContext(ctx).Save(models.BuildingModelFromDomain(building)).Error, "building")
}

// DeleteForOffice deletes a building within an office
func (r *GormBuildingRepository) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	return deleteForOffice(ctx, r.db, &models.BuildingModel{}, officeID, id, "building")
}

// GormUnitRepository implements property.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByIDForOffice finds a unit by ID within an office
func (r *GormUnitRepository) FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*property.Unit, error) {
	var model models.UnitModel
	if err := r.db.WithContext(ctx).Scopes(OfficeScope(officeID)).
		Where("id = ?", id).First(&model).Error; err != nil {
		return nil, mapDBError(err, "unit")
	}
	return model.ToDomain(), nil
}

// FindAllForOffice lists units of an office
func (r *GormUnitRepository) FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]property.Unit, error) {
	var rows []models.UnitModel
	query := r.filtered(ctx, officeID, filter)
	if err := applyPaging(query, filter, UnitSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	units := make([]property.Unit, len(rows))
	for i := range rows {
		units[i] = *rows[i].ToDomain()
	}
	return units, nil
}

// CountForOffice counts units of an office matching the filter
func (r *GormUnitRepository) CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, officeID, filter).Count(&count).Error
	return count, err
}

// CountByBuilding counts the units of a building
func (r *GormUnitRepository) CountByBuilding(ctx context.Context, officeID, buildingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UnitModel{}).Scopes(OfficeScope(officeID)).
		Where("building_id = ?", buildingID).Count(&count).Error
	return count, err
}

// CountByStatus counts the units of an office in a status
func (r *GormUnitRepository) CountByStatus(ctx context.Context, officeID uuid.UUID, status property.UnitStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UnitModel{}).Scopes(OfficeScope(officeID)).
		Where("status = ?", status).Count(&count).Error
	return count, err
}

// ExistsByUnitNumber reports whether the building already has a unit with this number
func (r *GormUnitRepository) ExistsByUnitNumber(ctx context.Context, officeID, buildingID uuid.UUID, unitNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UnitModel{}).Scopes(OfficeScope(officeID)).
		Where("building_id = ? AND unit_number = ?", buildingID, unitNumber).Count(&count).Error
	return count > 0, err
}

func (r *GormUnitRepository) filtered(ctx context.Context, officeID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.UnitModel{}).Scopes(OfficeScope(officeID))
	if filter.Search != "" {
		query = query.Where("LOWER(unit_number) LIKE ?"+likeEscape, likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "building_id":
			query = query.Where("building_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "unit_type":
			query = query.Where("unit_type = ?", value)
		}
	}
	return query
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *property.Unit) error {
	return mapDBError(r.db.WithContext(ctx).Save(models.UnitModelFromDomain(unit)).Error, "unit")
}

// DeleteForOffice deletes a unit within an office
func (r *GormUnitRepository) DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error {
	return deleteForOffice(ctx, r.db, &models.UnitModel{}, officeID, id, "unit")
}

func deleteForOffice(ctx context.Context, db *gorm.DB, model any, officeID, id uuid.UUID, resource string) error {
	result := db.WithContext(ctx).Scopes(OfficeScope(officeID)).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return mapDBError(result.Error, resource)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(resource)
	}
	return nil
}

var (
	_ property.OwnerRepository    = (*GormOwnerRepository)(nil)
	_ property.BuildingRepository = (*GormBuildingRepository)(nil)
	_ property.UnitRepository     = (*GormUnitRepository)(nil)
)
