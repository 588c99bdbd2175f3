package leasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultLeaseTermMonths is the fixed term of a contract generated by onboarding
const DefaultLeaseTermMonths = 12

// ContractStatus represents the lifecycle state of a lease
type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "draft"
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
)

type contractStatusInfo struct {
	label string
	color string
}

var contractStatuses = map[ContractStatus]contractStatusInfo{
	ContractStatusDraft:      {"Draft", "gray"},
	ContractStatusActive:     {"Active", "green"},
	ContractStatusExpired:    {"Expired", "red"},
	ContractStatusTerminated: {"Terminated", "red"},
}

func (s ContractStatus) String() string { return string(s) }

// Label returns the display label
func (s ContractStatus) Label() string {
	if info, ok := contractStatuses[s]; ok {
		return info.label
	}
	return string(s)
}

// Color returns the badge color used to render the status
func (s ContractStatus) Color() string {
	if info, ok := contractStatuses[s]; ok {
		return info.color
	}
	return "gray"
}

// IsValid reports whether s is a known status
func (s ContractStatus) IsValid() bool {
	_, ok := contractStatuses[s]
	return ok
}

// AllContractStatuses returns every contract status
func AllContractStatuses() []ContractStatus {
	return []ContractStatus{ContractStatusDraft, ContractStatusActive, ContractStatusExpired, ContractStatusTerminated}
}

// Contract is a lease binding one tenant to one unit for a date range
type Contract struct {
	shared.OfficeAggregateRoot
	UnitID           uuid.UUID
	TenantID         uuid.UUID
	StartDate        time.Time
	EndDate          time.Time
	RentAmount       decimal.Decimal
	PaymentFrequency PaymentFrequency
	SecurityDeposit  *decimal.Decimal
	InsuranceFee     *decimal.Decimal
	ManagementFee    *decimal.Decimal
	Status           ContractStatus
	TerminatedAt     *time.Time
	Notes            string
}

// LeaseEndDate returns the end of a lease starting at start and lasting months.
// The calendar day is preserved: 2024-01-15 plus 12 months is 2025-01-15.
func LeaseEndDate(start time.Time, months int) time.Time {
	return start.AddDate(0, months, 0)
}

// LeaseTerms are the derived values of a new lease
type LeaseTerms struct {
	UnitID     uuid.UUID
	TenantID   uuid.UUID
	StartDate  time.Time
	TermMonths int
	RentAmount decimal.Decimal
	Frequency  PaymentFrequency
}

// NewActiveContract creates an active lease from the given terms
func NewActiveContract(officeID uuid.UUID, terms LeaseTerms) (*Contract, error) {
	if terms.UnitID == uuid.Nil || terms.TenantID == uuid.Nil {
		return nil, shared.NewRequiredFieldsError("unit_id", "tenant_id")
	}
	if terms.RentAmount.IsNegative() {
		return nil, shared.NewValidationError("rent amount cannot be negative", "rent_amount")
	}
	months := terms.TermMonths
	if months <= 0 {
		months = DefaultLeaseTermMonths
	}
	frequency := terms.Frequency
	if !frequency.IsValid() {
		frequency = FrequencyAnnual
	}

	contract := &Contract{
		OfficeAggregateRoot: shared.NewOfficeAggregateRoot(officeID),
		UnitID:              terms.UnitID,
		TenantID:            terms.TenantID,
		StartDate:           terms.StartDate,
		EndDate:             LeaseEndDate(terms.StartDate, months),
		RentAmount:          terms.RentAmount,
		PaymentFrequency:    frequency,
		Status:              ContractStatusActive,
	}

	contract.AddDomainEvent(NewContractCreatedEvent(contract))
	return contract, nil
}

// MonthlyEquivalent is the yearly rent spread over twelve months, rounded to 2 decimals
func (c *Contract) MonthlyEquivalent() decimal.Decimal {
	return c.RentAmount.Div(decimal.NewFromInt(12)).Round(2)
}

// IsActive reports whether the lease is in force
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// Terminate ends an active lease early
func (c *Contract) Terminate(at time.Time, reason string) error {
	if c.Status != ContractStatusActive {
		return shared.NewInvalidStateError("only active contracts can be terminated, current status: " + string(c.Status))
	}
	c.Status = ContractStatusTerminated
	c.TerminatedAt = &at
	if reason != "" {
		c.Notes = reason
	}
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewContractEndedEvent(c, EventTypeContractTerminated))
	return nil
}

// ExpireIfDue moves an active lease past its end date to expired.
// It returns true when the status changed.
func (c *Contract) ExpireIfDue(now time.Time) bool {
	if c.Status != ContractStatusActive || !now.After(c.EndDate) {
		return false
	}
	c.Status = ContractStatusExpired
	c.Touch()
	c.IncrementVersion()
	c.AddDomainEvent(NewContractEndedEvent(c, EventTypeContractExpired))
	return true
}

// ContractEdit carries every editable field of a contract. Nil fees are cleared.
type ContractEdit struct {
	StartDate        time.Time
	EndDate          time.Time
	RentAmount       decimal.Decimal
	PaymentFrequency PaymentFrequency
	SecurityDeposit  *decimal.Decimal
	InsuranceFee     *decimal.Decimal
	ManagementFee    *decimal.Decimal
	Status           ContractStatus
	Notes            string
}

// Update applies an edit from the contract screen. A terminated contract is
// final; leaving the terminated state is refused. Occupancy of the unit is the
// caller's concern.
func (c *Contract) Update(e ContractEdit, now time.Time) error {
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return shared.NewRequiredFieldsError("start_date", "end_date")
	}
	if !e.EndDate.After(e.StartDate) {
		return shared.NewValidationError("end date must be after start date", "end_date")
	}
	if e.RentAmount.IsNegative() {
		return shared.NewValidationError("rent amount cannot be negative", "rent_amount")
	}
	if !e.PaymentFrequency.IsValid() {
		return shared.NewValidationError("unknown payment frequency: "+string(e.PaymentFrequency), "payment_frequency")
	}
	for field, fee := range map[string]*decimal.Decimal{
		"security_deposit": e.SecurityDeposit,
		"insurance_fee":    e.InsuranceFee,
		"management_fee":   e.ManagementFee,
	} {
		if fee != nil && fee.IsNegative() {
			return shared.NewValidationError(field+" cannot be negative", field)
		}
	}
	if !e.Status.IsValid() {
		return shared.NewValidationError("unknown contract status: "+string(e.Status), "status")
	}
	if c.Status == ContractStatusTerminated && e.Status != ContractStatusTerminated {
		return shared.NewInvalidStateError("a terminated contract cannot be reopened")
	}

	previous := c.Status
	c.StartDate = e.StartDate
	c.EndDate = e.EndDate
	c.RentAmount = e.RentAmount
	c.PaymentFrequency = e.PaymentFrequency
	c.SecurityDeposit = e.SecurityDeposit
	c.InsuranceFee = e.InsuranceFee
	c.ManagementFee = e.ManagementFee
	c.Notes = strings.TrimSpace(e.Notes)
	c.Status = e.Status
	c.Touch()
	c.IncrementVersion()

	if previous == c.Status {
		return nil
	}
	switch c.Status {
	case ContractStatusTerminated:
		c.TerminatedAt = &now
		c.AddDomainEvent(NewContractEndedEvent(c, EventTypeContractTerminated))
	case ContractStatusExpired:
		c.AddDomainEvent(NewContractEndedEvent(c, EventTypeContractExpired))
	}
	return nil
}
