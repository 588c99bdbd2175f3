package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// TenantModel is the persistence model for leasing.Tenant
type TenantModel struct {
	OfficeAggregateModel
	FullName         string               `gorm:"type:varchar(300);not null"`
	NationalID       string               `gorm:"type:varchar(20);not null"`
	Phone            string               `gorm:"type:varchar(20);not null"`
	Email            string               `gorm:"type:varchar(200)"`
	EmergencyContact string               `gorm:"type:varchar(200)"`
	Status           leasing.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the model to a domain tenant
func (m *TenantModel) ToDomain() *leasing.Tenant {
	return &leasing.Tenant{
		OfficeAggregateRoot: m.ToDomainOfficeAggregateRoot(),
		FullName:            m.FullName,
		NationalID:          m.NationalID,
		Phone:               m.Phone,
		Email:               m.Email,
		EmergencyContact:    m.EmergencyContact,
		Status:              m.Status,
	}
}

// TenantModelFromDomain builds a model from a domain tenant
func TenantModelFromDomain(t *leasing.Tenant) *TenantModel {
	m := &TenantModel{
		FullName:         t.FullName,
		NationalID:       t.NationalID,
		Phone:            t.Phone,
		Email:            t.Email,
		EmergencyContact: t.EmergencyContact,
		Status:           t.Status,
	}
	m.FromDomainOfficeAggregateRoot(t.OfficeAggregateRoot)
	return m
}

// ContractModel is the persistence model for leasing.Contract
type ContractModel struct {
	OfficeAggregateModel
	UnitID           uuid.UUID                `gorm:"type:uuid;not null;index"`
	TenantID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	StartDate        time.Time                `gorm:"type:date;not null"`
	EndDate          time.Time                `gorm:"type:date;not null;index"`
	RentAmount       decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	PaymentFrequency leasing.PaymentFrequency `gorm:"type:varchar(20);not null"`
	SecurityDeposit  *decimal.Decimal         `gorm:"type:decimal(12,2)"`
	InsuranceFee     *decimal.Decimal         `gorm:"type:decimal(12,2)"`
	ManagementFee    *decimal.Decimal         `gorm:"type:decimal(12,2)"`
	Status           leasing.ContractStatus   `gorm:"type:varchar(20);not null;index"`
	TerminatedAt     *time.Time
	Notes            string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the model to a domain contract
func (m *ContractModel) ToDomain() *leasing.Contract {
	return &leasing.Contract{
		OfficeAggregateRoot: m.ToDomainOfficeAggregateRoot(),
		UnitID:              m.UnitID,
		TenantID:            m.TenantID,
		StartDate:           m.StartDate.UTC(),
		EndDate:             m.EndDate.UTC(),
		RentAmount:          m.RentAmount,
		PaymentFrequency:    m.PaymentFrequency,
		SecurityDeposit:     m.SecurityDeposit,
		InsuranceFee:        m.InsuranceFee,
		ManagementFee:       m.ManagementFee,
		Status:              m.Status,
		TerminatedAt:        m.TerminatedAt,
		Notes:               m.Notes,
	}
}

// ContractModelFromDomain builds a model from a domain contract
func ContractModelFromDomain(c *leasing.Contract) *ContractModel {
	m := &ContractModel{
		UnitID:           c.UnitID,
		TenantID:         c.TenantID,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		RentAmount:       c.RentAmount,
		PaymentFrequency: c.PaymentFrequency,
		SecurityDeposit:  c.SecurityDeposit,
		InsuranceFee:     c.InsuranceFee,
		ManagementFee:    c.ManagementFee,
		Status:           c.Status,
		TerminatedAt:     c.TerminatedAt,
		Notes:            c.Notes,
	}
	m.FromDomainOfficeAggregateRoot(c.OfficeAggregateRoot)
	return m
}

// PayableModel is the persistence model for leasing.Payable
type PayableModel struct {
	OfficeAggregateModel
	ContractID     *uuid.UUID              `gorm:"type:uuid;index"`
	Type           leasing.PayableType     `gorm:"type:varchar(20);not null"`
	Category       leasing.PayableCategory `gorm:"type:varchar(30);not null"`
	Method         leasing.PaymentMethod   `gorm:"type:varchar(20)"`
	Status         leasing.PayableStatus   `gorm:"type:varchar(20);not null;index"`
	Amount         decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	DueDate        time.Time               `gorm:"type:date;not null;index"`
	PaymentDate    *time.Time              `gorm:"type:date"`
	TransactionRef string                  `gorm:"type:varchar(100)"`
	Notes          string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PayableModel) TableName() string {
	return "payables"
}

// ToDomain converts the model to a domain payable
func (m *PayableModel) ToDomain() *leasing.Payable {
	return &leasing.Payable{
		OfficeAggregateRoot: m.ToDomainOfficeAggregateRoot(),
		ContractID:          m.ContractID,
		Type:                m.Type,
		Category:            m.Category,
		Method:              m.Method,
		Status:              m.Status,
		Amount:              m.Amount,
		DueDate:             m.DueDate.UTC(),
		PaymentDate:         m.PaymentDate,
		TransactionRef:      m.TransactionRef,
		Notes:               m.Notes,
	}
}

// PayableModelFromDomain builds a model from a domain payable
func PayableModelFromDomain(p *leasing.Payable) *PayableModel {
	m := &PayableModel{
		ContractID:     p.ContractID,
		Type:           p.Type,
		Category:       p.Category,
		Method:         p.Method,
		Status:         p.Status,
		Amount:         p.Amount,
		DueDate:        p.DueDate,
		PaymentDate:    p.PaymentDate,
		TransactionRef: p.TransactionRef,
		Notes:          p.Notes,
	}
	m.FromDomainOfficeAggregateRoot(p.OfficeAggregateRoot)
	return m
}

// All returns every model, in dependency order, for AutoMigrate in tests and tools
func All() []any {
	return []any{
		&OwnerModel{},
		&BuildingModel{},
		&UnitModel{},
		&TenantModel{},
		&ContractModel{},
		&PayableModel{},
	}
}
