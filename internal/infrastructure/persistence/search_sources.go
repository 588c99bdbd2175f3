package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/search"
	"gorm.io/gorm"
)

// SearchSources returns one Searchable per entity kind, in merge order
func SearchSources(db *gorm.DB) []search.Searchable {
	return []search.Searchable{
		&OwnerSearch{db: db},
		&BuildingSearch{db: db},
		&UnitSearch{db: db},
		&TenantSearch{db: db},
		&ContractSearch{db: db},
	}
}

type searchRow struct {
	ID       uuid.UUID
	Title    string
	Subtitle string
	Extra    string
}

func toResults(kind search.Kind, rows []searchRow, route func(searchRow) string, title func(searchRow) string, subtitle func(searchRow) string) []search.Result {
	results := make([]search.Result, len(rows))
	for i, row := range rows {
		results[i] = search.Result{
			ID:       row.ID,
			Kind:     kind,
			Title:    title(row),
			Subtitle: subtitle(row),
			Route:    route(row),
			Position: i,
		}
	}
	return results
}

func plainTitle(row searchRow) string    { return row.Title }
func plainSubtitle(row searchRow) string { return row.Subtitle }

// OwnerSearch matches owners by full name or email
type OwnerSearch struct {
	db *gorm.DB
}

// Kind implements search.Searchable
func (s *OwnerSearch) Kind() search.Kind { return search.KindOwner }

// Match implements search.Searchable
func (s *OwnerSearch) Match(ctx context.Context, officeID uuid.UUID, query string, limit int) ([]search.Result, error) {
	var rows []searchRow
	p := likePattern(query)
	err := s.db.WithContext(ctx).Table("owners").
		Select("id, full_name AS title, COALESCE(email, '') AS subtitle").
		Scopes(OfficeScope(officeID)).
		Where("(LOWER(full_name) LIKE ?"+likeEscape+" OR LOWER(email) LIKE ?"+likeEscape+")", p, p).
		Order("full_name ASC").Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search owners: %w", err)
	}
	return toResults(search.KindOwner, rows, func(r searchRow) string {
		return "/owners?id=" + r.ID.String()
	}, plainTitle, plainSubtitle), nil
}

// BuildingSearch matches buildings by name or address
type BuildingSearch struct {
	db *gorm.DB
}

// Kind implements search.Searchable
func (s *BuildingSearch) Kind() search.Kind { return search.KindBuilding }

// Match implements search.Searchable
func (s *BuildingSearch) Match(ctx context.Context, officeID uuid.UUID, query string, limit int) ([]search.Result, error) {
	var rows []searchRow
	p := likePattern(query)
	err := s.db.WithContext(ctx).Table("buildings").
		Select("id, name AS title, COALESCE(address, '') AS subtitle").
		Scopes(OfficeScope(officeID)).
		Where("(LOWER(name) LIKE ?"+likeEscape+" OR LOWER(address) LIKE ?"+likeEscape+")", p, p).
		Order("name ASC").Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search buildings: %w", err)
	}
	return toResults(search.KindBuilding, rows, func(r searchRow) string {
		return "/buildings?id=" + r.ID.String()
	}, plainTitle, plainSubtitle), nil
}

// UnitSearch matches units by unit number
type UnitSearch struct {
	db *gorm.DB
}

// Kind implements search.Searchable
func (s *UnitSearch) Kind() search.Kind { return search.KindUnit }

// Match implements search.Searchable
func (s *UnitSearch) Match(ctx context.Context, officeID uuid.UUID, query string, limit int) ([]search.Result, error) {
	var rows []searchRow
	err := s.db.WithContext(ctx).Table("units").
		Select("units.id AS id, units.unit_number AS title, COALESCE(buildings.name, '') AS subtitle").
		Joins("LEFT JOIN buildings ON buildings.id = units.building_id").
		Where("units.office_id = ?", officeID).
		Where("LOWER(units.unit_number) LIKE ?"+likeEscape, likePattern(query)).
		Order("units.unit_number ASC").Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search units: %w", err)
	}
	return toResults(search.KindUnit, rows, func(r searchRow) string {
		return "/units/" + r.ID.String()
	}, func(r searchRow) string {
		return "Unit " + r.Title
	}, plainSubtitle), nil
}

// TenantSearch matches tenants by full name or email
type TenantSearch struct {
	db *gorm.DB
}

// Kind implements search.Searchable
func (s *TenantSearch) Kind() search.Kind { return search.KindTenant }

// Match implements search.Searchable
func (s *TenantSearch) Match(ctx context.Context, officeID uuid.UUID, query string, limit int) ([]search.Result, error) {
	var rows []searchRow
	p := likePattern(query)
	err := s.db.WithContext(ctx).Table("tenants").
		Select("id, full_name AS title, COALESCE(email, '') AS subtitle").
		Scopes(OfficeScope(officeID)).
		Where("(LOWER(full_name) LIKE ?"+likeEscape+" OR LOWER(email) LIKE ?"+likeEscape+")", p, p).
		Order("full_name ASC").Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search tenants: %w", err)
	}
	return toResults(search.KindTenant, rows, func(r searchRow) string {
		return "/tenants/" + r.ID.String()
	}, plainTitle, plainSubtitle), nil
}

// ContractSearch lists the most recent contracts. Contracts have no
// searchable text of their own, so the query does not filter them.
type ContractSearch struct {
	db *gorm.DB
}

// Kind implements search.Searchable
func (s *ContractSearch) Kind() search.Kind { return search.KindContract }

// Match implements search.Searchable
func (s *ContractSearch) Match(ctx context.Context, officeID uuid.UUID, _ string, limit int) ([]search.Result, error) {
	var rows []searchRow
	err := s.db.WithContext(ctx).Table("contracts").
		Select("contracts.id AS id, COALESCE(tenants.full_name, '') AS title, " +
			"COALESCE(units.unit_number, '') AS subtitle, COALESCE(buildings.name, '') AS extra").
		Joins("LEFT JOIN tenants ON tenants.id = contracts.tenant_id").
		Joins("LEFT JOIN units ON units.id = contracts.unit_id").
		Joins("LEFT JOIN buildings ON buildings.id = units.building_id").
		Where("contracts.office_id = ?", officeID).
		Order("contracts.created_at DESC").Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search contracts: %w", err)
	}
	return toResults(search.KindContract, rows, func(r searchRow) string {
		return "/contracts/" + r.ID.String()
	}, func(r searchRow) string {
		return "Contract - " + r.Title
	}, func(r searchRow) string {
		if r.Extra == "" {
			return "Unit " + r.Subtitle
		}
		return "Unit " + r.Subtitle + ", " + r.Extra
	}), nil
}

var (
	_ search.Searchable = (*OwnerSearch)(nil)
	_ search.Searchable = (*BuildingSearch)(nil)
	_ search.Searchable = (*UnitSearch)(nil)
	_ search.Searchable = (*TenantSearch)(nil)
	_ search.Searchable = (*ContractSearch)(nil)
)
