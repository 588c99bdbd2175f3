package persistence

import (
	"strings"

	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, defaultField otherwise
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

var (
	OwnerSortFields = map[string]bool{
		"created_at": true,
		"updated_at": true,
		"full_name":  true,
	}
	BuildingSortFields = map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"city":       true,
		"year_built": true,
	}
	UnitSortFields = map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"unit_number":  true,
		"floor_number": true,
		"yearly_rent":  true,
		"status":       true,
	}
	TenantSortFields = map[string]bool{
		"created_at": true,
		"updated_at": true,
		"full_name":  true,
		"status":     true,
	}
	ContractSortFields = map[string]bool{
		"created_at":  true,
		"start_date":  true,
		"end_date":    true,
		"rent_amount": true,
		"status":      true,
	}
	PayableSortFields = map[string]bool{
		"created_at": true,
		"due_date":   true,
		"amount":     true,
		"status":     true,
	}
)

// applyPaging adds ordering, offset and limit from the filter.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	filter = filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	return query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
}

// likePattern builds a case-insensitive substring pattern, escaping LIKE wildcards.
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

// likeEscape makes the backslash the LIKE escape character on every dialect.
const likeEscape = ` ESCAPE '\'`
