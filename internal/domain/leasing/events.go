package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeTenant   = "Tenant"
	AggregateTypeContract = "Contract"
	AggregateTypePayable  = "Payable"
)

// Event type constants
const (
	EventTypeTenantCreated       = "TenantCreated"
	EventTypeTenantStatusChanged = "TenantStatusChanged"
	EventTypeContractCreated     = "ContractCreated"
	EventTypeContractTerminated  = "ContractTerminated"
	EventTypeContractExpired     = "ContractExpired"
	EventTypePayablePaid         = "PayablePaid"
	EventTypeTenantOnboarded     = "TenantOnboarded"
)

// TenantCreatedEvent is published when a tenant is registered
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	FullName   string    `json:"full_name"`
	NationalID string    `json:"national_id"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.OfficeID),
		TenantID:        t.ID,
		FullName:        t.FullName,
		NationalID:      t.NationalID,
	}
}

// TenantStatusChangedEvent is published when a tenant's standing changes
type TenantStatusChangedEvent struct {
	shared.BaseDomainEvent
	TenantID  uuid.UUID    `json:"tenant_id"`
	OldStatus TenantStatus `json:"old_status"`
	NewStatus TenantStatus `json:"new_status"`
}

// NewTenantStatusChangedEvent creates a new TenantStatusChangedEvent
func NewTenantStatusChangedEvent(t *Tenant, old TenantStatus) *TenantStatusChangedEvent {
	return &TenantStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantStatusChanged, AggregateTypeTenant, t.ID, t.OfficeID),
		TenantID:        t.ID,
		OldStatus:       old,
		NewStatus:       t.Status,
	}
}

// ContractCreatedEvent is published when a lease becomes active
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	ContractID       uuid.UUID        `json:"contract_id"`
	UnitID           uuid.UUID        `json:"unit_id"`
	TenantID         uuid.UUID        `json:"tenant_id"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	RentAmount       decimal.Decimal  `json:"rent_amount"`
	PaymentFrequency PaymentFrequency `json:"payment_frequency"`
}

// NewContractCreatedEvent creates a new ContractCreatedEvent
func NewContractCreatedEvent(c *Contract) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeContractCreated, AggregateTypeContract, c.ID, c.OfficeID),
		ContractID:       c.ID,
		UnitID:           c.UnitID,
		TenantID:         c.TenantID,
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		RentAmount:       c.RentAmount,
		PaymentFrequency: c.PaymentFrequency,
	}
}

// ContractEndedEvent is published when a lease is terminated or expires
type ContractEndedEvent struct {
	shared.BaseDomainEvent
	ContractID uuid.UUID      `json:"contract_id"`
	UnitID     uuid.UUID      `json:"unit_id"`
	Status     ContractStatus `json:"status"`
}

// NewContractEndedEvent creates a ContractEndedEvent of the given type
func NewContractEndedEvent(c *Contract, eventType string) *ContractEndedEvent {
	return &ContractEndedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeContract, c.ID, c.OfficeID),
		ContractID:      c.ID,
		UnitID:          c.UnitID,
		Status:          c.Status,
	}
}

// PayablePaidEvent is published when a payable is settled
type PayablePaidEvent struct {
	shared.BaseDomainEvent
	PayableID uuid.UUID       `json:"payable_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
}

// NewPayablePaidEvent creates a new PayablePaidEvent
func NewPayablePaidEvent(p *Payable) *PayablePaidEvent {
	return &PayablePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayablePaid, AggregateTypePayable, p.ID, p.OfficeID),
		PayableID:       p.ID,
		Amount:          p.Amount,
		Method:          p.Method,
	}
}

// TenantOnboardedEvent is published once a tenant, its contract and the unit
// occupancy have all been written
type TenantOnboardedEvent struct {
	shared.BaseDomainEvent
	TenantID   uuid.UUID `json:"tenant_id"`
	ContractID uuid.UUID `json:"contract_id"`
	UnitID     uuid.UUID `json:"unit_id"`
}

// NewTenantOnboardedEvent creates a new TenantOnboardedEvent
func NewTenantOnboardedEvent(t *Tenant, c *Contract) *TenantOnboardedEvent {
	return &TenantOnboardedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantOnboarded, AggregateTypeTenant, t.ID, t.OfficeID),
		TenantID:        t.ID,
		ContractID:      c.ID,
		UnitID:          c.UnitID,
	}
}
