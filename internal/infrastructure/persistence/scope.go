package persistence

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OfficeScope restricts a query to rows of one office. Every office-owned
// read and write goes through it.
func OfficeScope(officeID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("office_id = ?", officeID)
	}
}
