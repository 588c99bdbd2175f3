package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// OwnerRepository defines persistence operations for owners
type OwnerRepository interface {
	FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*Owner, error)
	FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]Owner, error)
	CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, owner *Owner) error
	DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error
}

// BuildingRepository defines persistence operations for buildings
type BuildingRepository interface {
	FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*Building, error)
	FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]Building, error)
	CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error)
	CountByOwner(ctx context.Context, officeID, ownerID uuid.UUID) (int64, error)
	Save(ctx context.Context, building *Building) error
	DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error
}

// UnitRepository defines persistence operations for units
type UnitRepository interface {
	FindByIDForOffice(ctx context.Context, officeID, id uuid.UUID) (*Unit, error)
	FindAllForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) ([]Unit, error)
	CountForOffice(ctx context.Context, officeID uuid.UUID, filter shared.Filter) (int64, error)
	CountByBuilding(ctx context.Context, officeID, buildingID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, officeID uuid.UUID, status UnitStatus) (int64, error)
	ExistsByUnitNumber(ctx context.Context, officeID, buildingID uuid.UUID, unitNumber string) (bool, error)
	Save(ctx context.Context, unit *Unit) error
	DeleteForOffice(ctx context.Context, officeID, id uuid.UUID) error
}
