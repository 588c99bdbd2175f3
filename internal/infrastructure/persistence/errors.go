package persistence

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/propdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// constraintFields names the request field behind each unique index,
// so a violation can be reported against the right input.
var constraintFields = map[string]string{
	"idx_tenants_office_national_id": "national_id",
	"idx_units_building_unit_number": "unit_number",
	"idx_contracts_active_unit":      "unit_id",
}

// mapDBError translates driver errors into domain errors.
// Unknown errors are returned unchanged.
func mapDBError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			dup := shared.NewDuplicateError(resource + " already exists")
			if field, ok := constraintFields[pgErr.ConstraintName]; ok {
				dup.Fields = []string{field}
			}
			dup.Err = err
			return dup
		case pgerrcode.ForeignKeyViolation:
			return shared.WrapDomainError(shared.CodeValidation,
				fmt.Sprintf("%s references a missing record", resource), err)
		case pgerrcode.CheckViolation:
			return shared.WrapDomainError(shared.CodeValidation,
				fmt.Sprintf("%s violates constraint %s", resource, pgErr.ConstraintName), err)
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return shared.WrapDomainError(shared.CodeConflict,
				"concurrent modification, retry the request", err)
		}
		return err
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		dup := shared.NewDuplicateError(resource + " already exists")
		dup.Err = err
		return dup
	}
	return err
}
