package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketplaceSortFields are the unit columns a marketplace page can be ordered by
var MarketplaceSortFields = map[string]bool{
	"created_at":  true,
	"listed_at":   true,
	"yearly_rent": true,
	"size_sqm":    true,
	"bedrooms":    true,
}

// listingRow is a unit row joined with its building
type listingRow struct {
	models.UnitModel
	BuildingName    string
	BuildingAddress string
	BuildingCity    string
}

func (r listingRow) toDomain() property.Listing {
	return property.Listing{
		Unit:            *r.UnitModel.ToDomain(),
		BuildingName:    r.BuildingName,
		BuildingAddress: r.BuildingAddress,
		BuildingCity:    r.BuildingCity,
	}
}

// GormListingRepository implements property.ListingRepository using GORM.
// Only listed vacant units are visible.
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindListings returns one page of the marketplace, cheapest first unless asked otherwise
func (r *GormListingRepository) FindListings(ctx context.Context, officeID uuid.UUID, filter property.ListingFilter, page shared.Filter) ([]property.Listing, error) {
	page = page.Normalize()
	field := ValidateSortField(page.OrderBy, MarketplaceSortFields, "yearly_rent")
	dir := "ASC"
	if page.OrderDir != "" {
		dir = ValidateSortOrder(page.OrderDir)
	}

	var rows []listingRow
	err := r.filtered(ctx, officeID, filter).
		Select("units.*, buildings.name AS building_name, COALESCE(buildings.address, '') AS building_address, COALESCE(buildings.city, '') AS building_city").
		Order("units." + field + " " + dir).
		Order("units.id ASC").
		Offset((page.Page - 1) * page.PageSize).Limit(page.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	listings := make([]property.Listing, len(rows))
	for i := range rows {
		listings[i] = rows[i].toDomain()
	}
	return listings, nil
}

// CountListings counts the marketplace rows matching the filter
func (r *GormListingRepository) CountListings(ctx context.Context, officeID uuid.UUID, filter property.ListingFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, officeID, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return count, nil
}

// FindListing returns one listing. Unlisted or occupied units are not found.
func (r *GormListingRepository) FindListing(ctx context.Context, officeID, unitID uuid.UUID) (*property.Listing, error) {
	var rows []listingRow
	err := r.visible(ctx, officeID).
		Select("units.*, buildings.name AS building_name, COALESCE(buildings.address, '') AS building_address, COALESCE(buildings.city, '') AS building_city").
		Where("units.id = ?", unitID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, mapDBError(err, "listing")
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("listing")
	}
	listing := rows[0].toDomain()
	return &listing, nil
}

// Cities counts the listings per building city, alphabetically
func (r *GormListingRepository) Cities(ctx context.Context, officeID uuid.UUID) ([]property.CityCount, error) {
	var rows []property.CityCount
	err := r.visible(ctx, officeID).
		Select("buildings.city AS city, COUNT(*) AS count").
		Where("buildings.city IS NOT NULL AND buildings.city <> ''").
		Group("buildings.city").
		Order("buildings.city ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing cities: %w", err)
	}
	return rows, nil
}

// PriceRange summarizes the yearly rent of every listing
func (r *GormListingRepository) PriceRange(ctx context.Context, officeID uuid.UUID) (property.PriceRange, error) {
	var row struct {
		Min     decimal.Decimal
		Max     decimal.Decimal
		Average decimal.Decimal
		Count   int64
	}
	err := r.visible(ctx, officeID).
		Select("COALESCE(MIN(units.yearly_rent), 0) AS min, COALESCE(MAX(units.yearly_rent), 0) AS max, " +
			"COALESCE(AVG(units.yearly_rent), 0) AS average, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return property.PriceRange{}, fmt.Errorf("listing price range: %w", err)
	}
	return property.PriceRange{
		Min:     row.Min,
		Max:     row.Max,
		Average: row.Average.Round(2),
		Count:   row.Count,
	}, nil
}

// visible selects the listed vacant units of an office joined with their building
func (r *GormListingRepository) visible(ctx context.Context, officeID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Table("units").
		Joins("JOIN buildings ON buildings.id = units.building_id").
		Where("units.office_id = ?", officeID).
		Where("units.is_listed = ?", true).
		Where("units.status = ?", property.UnitStatusVacant)
}

func (r *GormListingRepository) filtered(ctx context.Context, officeID uuid.UUID, filter property.ListingFilter) *gorm.DB {
	query := r.visible(ctx, officeID)
	if city := strings.TrimSpace(filter.City); city != "" {
		query = query.Where("LOWER(buildings.city) LIKE ?"+likeEscape, likePattern(city))
	}
	if filter.UnitType != "" {
		query = query.Where("units.unit_type = ?", filter.UnitType)
	}
	if filter.MinPrice != nil {
		query = query.Where("units.yearly_rent >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("units.yearly_rent <= ?", *filter.MaxPrice)
	}
	if filter.MinSize != nil {
		query = query.Where("units.size_sqm >= ?", *filter.MinSize)
	}
	if filter.MaxSize != nil {
		query = query.Where("units.size_sqm <= ?", *filter.MaxSize)
	}
	if filter.Bedrooms != nil {
		query = query.Where("units.bedrooms = ?", *filter.Bedrooms)
	}
	if filter.Bathrooms != nil {
		query = query.Where("units.bathrooms = ?", *filter.Bathrooms)
	}
	if len(filter.Amenities) > 0 {
		query = r.withAmenities(query, filter.Amenities)
	}
	return query
}

// withAmenities keeps the units carrying every amenity. Postgres uses jsonb
// containment so the GIN index applies; SQLite walks the array with json_each.
func (r *GormListingRepository) withAmenities(query *gorm.DB, amenities []property.Amenity) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		names := make([]string, len(amenities))
		for i, a := range amenities {
			names[i] = string(a)
		}
		encoded, _ := json.Marshal(names)
		return query.Where("units.amenities @> ?::jsonb", string(encoded))
	}
	for _, a := range amenities {
		query = query.Where("EXISTS (SELECT 1 FROM json_each(units.amenities) WHERE json_each.value = ?)", string(a))
	}
	return query
}

var _ property.ListingRepository = (*GormListingRepository)(nil)
