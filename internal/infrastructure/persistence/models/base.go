package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
)

// BaseModel provides the id and timestamp columns of every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel adds the optimistic locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// OfficeAggregateModel adds the owning office and the creator
type OfficeAggregateModel struct {
	AggregateModel
	OfficeID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainOfficeAggregateRoot copies the shared columns from the aggregate
func (m *OfficeAggregateModel) FromDomainOfficeAggregateRoot(a shared.OfficeAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
	m.OfficeID = a.OfficeID
	m.CreatedBy = a.CreatedBy
}

// ToDomainOfficeAggregateRoot rebuilds the shared part of an aggregate
func (m *OfficeAggregateModel) ToDomainOfficeAggregateRoot() shared.OfficeAggregateRoot {
	return shared.OfficeAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OfficeID:  m.OfficeID,
		CreatedBy: m.CreatedBy,
	}
}
