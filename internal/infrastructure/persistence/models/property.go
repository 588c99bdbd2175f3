package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// OwnerModel is the persistence model for property.Owner
type OwnerModel struct {
	OfficeAggregateModel
	FullName   string     `gorm:"type:varchar(200);not null"`
	NationalID string     `gorm:"type:varchar(20)"`
	Phone      string     `gorm:"type:varchar(20)"`
	Email      string     `gorm:"type:varchar(200)"`
	Birthdate  *time.Time `gorm:"type:date"`
	BankName   string     `gorm:"type:varchar(100)"`
	IBAN       string     `gorm:"column:iban;type:varchar(34)"`
}

// TableName returns the table name for GORM
func (OwnerModel) TableName() string {
	return "owners"
}

// ToDomain converts the model to a domain owner
func (m *OwnerModel) ToDomain() *property.Owner {
	return &property.Owner{
		OfficeAggregateRoot: m.ToDomainOfficeAggregateRoot(),
		FullName:            m.FullName,
		NationalID:          m.NationalID,
		Phone:               m.Phone,
		Email:               m.Email,
		Birthdate:           m.Birthdate,
		BankName:            m.BankName,
		IBAN:                m.IBAN,
	}
}

// OwnerModelFromDomain builds a model from a domain owner
func OwnerModelFromDomain(o *property.Owner) *OwnerModel {
	m := &OwnerModel{
		FullName:   o.FullName,
		NationalID: o.NationalID,
		Phone:      o.Phone,
		Email:      o.Email,
		Birthdate:  o.Birthdate,
		BankName:   o.BankName,
		IBAN:       o.IBAN,
	}
	m.FromDomainOfficeAggregateRoot(o.OfficeAggregateRoot)
	return m
}

// BuildingModel is the persistence model for property.Building
type BuildingModel struct {
	OfficeAggregateModel
	OwnerID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Name         string                `gorm:"type:varchar(200);not null"`
	Address      string                `gorm:"type:text"`
	City         string                `gorm:"type:varchar(100)"`
	BuildingType property.BuildingType `gorm:"type:varchar(20);not null;default:'residential'"`
	YearBuilt    int
	TotalUnits   int `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BuildingModel) TableName() string {
	return "buildings"
}

// ToDomain converts the model to a domain building
func (m *BuildingModel) ToDomain() *property.Building {
	return &property.Building{
		OfficeAggregateRoot: m.ToDomainOfficeAggregateRoot(),
		OwnerID:             m.OwnerID,
		Name:                m.Name,
		Address:             m.Address,
		City:                m.City,
		BuildingType:        m.BuildingType,
		YearBuilt:           m.YearBuilt,
		TotalUnits:          m.TotalUnits,
	}
}

// BuildingModelFromDomain builds a model from a domain building
func BuildingModelFromDomain(b *property.Building) *BuildingModel {
	m := &BuildingModel{
		OwnerID:      b.OwnerID,
		Name:         b.Name,
		Address:      b.Address,
		City:         b.City,
		BuildingType: b.BuildingType,
		YearBuilt:    b.YearBuilt,
		TotalUnits:   b.TotalUnits,
	}
	m.FromDomainOfficeAggregateRoot(b.OfficeAggregateRoot)
	return m
}

// UnitModel is the persistence model for property.Unit
type UnitModel struct {
	OfficeAggregateModel
	BuildingID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	UnitNumber   string                `gorm:"type:varchar(20);not null"`
	FloorNumber  int                   `gorm:"not null;default:0"`
	UnitType     property.UnitType     `gorm:"type:varchar(20);not null;default:'apartment'"`
	SizeSqm      decimal.Decimal       `gorm:"type:decimal(10,2);not null;default:0"`
	Bedrooms     int                   `gorm:"not null;default:0"`
	Bathrooms    int                   `gorm:"not null;default:0"`
	YearlyRent   decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentTerms property.PaymentTerms `gorm:"type:varchar(20);not null;default:'annual'"`
	Status       property.UnitStatus   `gorm:"type:varchar(20);not null;default:'vacant';index"`
	Features     property.UnitFeatures `gorm:"type:jsonb;serializer:json"`

	IsListed           bool     `gorm:"not null;default:false"`
	ListingDescription string   `gorm:"type:text"`
	Amenities          []string `gorm:"type:jsonb;serializer:json"`
	VirtualTourURL     string   `gorm:"type:varchar(500)"`
	ListedAt           *time.Time
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the model to a domain unit
func (m *UnitModel) ToDomain() *property.Unit {
	return &property.Unit{
		OfficeAggregateRoot: m.ToDomainOfficeAggregateRoot(),
		BuildingID:          m.BuildingID,
		UnitNumber:          m.UnitNumber,
		FloorNumber:         m.FloorNumber,
		UnitType:            m.UnitType,
		SizeSqm:             m.SizeSqm,
		Bedrooms:            m.Bedrooms,
		Bathrooms:           m.Bathrooms,
		YearlyRent:          m.YearlyRent,
		PaymentTerms:        m.PaymentTerms,
		Status:              m.Status,
		Features:            m.Features,
		Listing: property.UnitListing{
			Listed:         m.IsListed,
			Description:    m.ListingDescription,
			Amenities:      toAmenities(m.Amenities),
			VirtualTourURL: m.VirtualTourURL,
			ListedAt:       m.ListedAt,
		},
	}
}

// UnitModelFromDomain builds a model from a domain unit
func UnitModelFromDomain(u *property.Unit) *UnitModel {
	m := &UnitModel{
		BuildingID:   u.BuildingID,
		UnitNumber:   u.UnitNumber,
		FloorNumber:  u.FloorNumber,
		UnitType:     u.UnitType,
		SizeSqm:      u.SizeSqm,
		Bedrooms:     u.Bedrooms,
		Bathrooms:    u.Bathrooms,
		YearlyRent:   u.YearlyRent,
		PaymentTerms: u.PaymentTerms,
		Status:       u.Status,
		Features:     u.Features,

		IsListed:           u.Listing.Listed,
		ListingDescription: u.Listing.Description,
		Amenities:          fromAmenities(u.Listing.Amenities),
		VirtualTourURL:     u.Listing.VirtualTourURL,
		ListedAt:           u.Listing.ListedAt,
	}
	m.FromDomainOfficeAggregateRoot(u.OfficeAggregateRoot)
	return m
}

func toAmenities(names []string) []property.Amenity {
	out := make([]property.Amenity, len(names))
	for i, n := range names {
		out[i] = property.Amenity(n)
	}
	return out
}

// fromAmenities never returns nil so the column holds [] rather than null
func fromAmenities(amenities []property.Amenity) []string {
	out := make([]string, len(amenities))
	for i, a := range amenities {
		out[i] = string(a)
	}
	return out
}
