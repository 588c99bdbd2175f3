package leasing

import (
	"time"

	"github.com/google/uuid"
	appproperty "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// OnboardTenantRequest captures a new renter for a vacant unit.
// The office is taken from the request scope.
type OnboardTenantRequest struct {
	UnitID           uuid.UUID `json:"unit_id" binding:"required"`
	FirstName        string    `json:"first_name" binding:"required,max=100"`
	MiddleName       string    `json:"middle_name" binding:"max=100"`
	LastName         string    `json:"last_name" binding:"required,max=100"`
	NationalID       string    `json:"national_id" binding:"required,max=20"`
	Phone            string    `json:"phone" binding:"required,notblank,max=50"`
	Email            string    `json:"email" binding:"omitempty,email,max=200"`
	EmergencyContact string    `json:"emergency_contact" binding:"max=200"`
}

func (r OnboardTenantRequest) details() leasing.PersonDetails {
	return leasing.PersonDetails{
		FirstName:        r.FirstName,
		MiddleName:       r.MiddleName,
		LastName:         r.LastName,
		NationalID:       r.NationalID,
		Phone:            r.Phone,
		Email:            r.Email,
		EmergencyContact: r.EmergencyContact,
	}
}

// OnboardingResult is returned only after every onboarding write succeeded
type OnboardingResult struct {
	Tenant   TenantResponse           `json:"tenant"`
	Contract ContractResponse         `json:"contract"`
	Unit     appproperty.UnitResponse `json:"unit"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	NationalID       string    `json:"national_id"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	EmergencyContact string    `json:"emergency_contact"`
	Status           string    `json:"status"`
	StatusLabel      string    `json:"status_label"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToTenantResponse converts a domain tenant to a response
func ToTenantResponse(t *leasing.Tenant) TenantResponse {
	return TenantResponse{
		ID:               t.ID,
		FullName:         t.FullName,
		NationalID:       t.NationalID,
		Phone:            t.Phone,
		Email:            t.Email,
		EmergencyContact: t.EmergencyContact,
		Status:           t.Status.String(),
		StatusLabel:      t.Status.Label(),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// UpdateTenantRequest changes a tenant's contact details
type UpdateTenantRequest struct {
	FullName         string `json:"full_name" binding:"required,max=300"`
	Phone            string `json:"phone" binding:"required,notblank,max=50"`
	Email            string `json:"email" binding:"omitempty,email,max=200"`
	EmergencyContact string `json:"emergency_contact" binding:"max=200"`
}

// ChangeTenantStatusRequest changes a tenant's standing
type ChangeTenantStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive blacklisted"`
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID                    uuid.UUID        `json:"id"`
	UnitID                uuid.UUID        `json:"unit_id"`
	TenantID              uuid.UUID        `json:"tenant_id"`
	StartDate             time.Time        `json:"start_date"`
	EndDate               time.Time        `json:"end_date"`
	RentAmount            decimal.Decimal  `json:"rent_amount"`
	MonthlyEquivalent     decimal.Decimal  `json:"monthly_equivalent"`
	PaymentFrequency      string           `json:"payment_frequency"`
	PaymentFrequencyLabel string           `json:"payment_frequency_label"`
	SecurityDeposit       *decimal.Decimal `json:"security_deposit"`
	InsuranceFee          *decimal.Decimal `json:"insurance_fee"`
	ManagementFee         *decimal.Decimal `json:"management_fee"`
	Status                string           `json:"status"`
	StatusLabel           string           `json:"status_label"`
	StatusColor           string           `json:"status_color"`
	TerminatedAt          *time.Time       `json:"terminated_at,omitempty"`
	Notes                 string           `json:"notes,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
}

// ToContractResponse converts a domain contract to a response
func ToContractResponse(c *leasing.Contract) ContractResponse {
	return ContractResponse{
		ID:                    c.ID,
		UnitID:                c.UnitID,
		TenantID:              c.TenantID,
		StartDate:             c.StartDate,
		EndDate:               c.EndDate,
		RentAmount:            c.RentAmount,
		MonthlyEquivalent:     c.MonthlyEquivalent(),
		PaymentFrequency:      c.PaymentFrequency.String(),
		PaymentFrequencyLabel: c.PaymentFrequency.Label(),
		SecurityDeposit:       c.SecurityDeposit,
		InsuranceFee:          c.InsuranceFee,
		ManagementFee:         c.ManagementFee,
		Status:                c.Status.String(),
		StatusLabel:           c.Status.Label(),
		StatusColor:           c.Status.Color(),
		TerminatedAt:          c.TerminatedAt,
		Notes:                 c.Notes,
		CreatedAt:             c.CreatedAt,
	}
}

// TerminateContractRequest ends an active contract early
type TerminateContractRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UpdateContractRequest replaces the editable fields of a contract.
// Omitted fees are cleared.
type UpdateContractRequest struct {
	StartDate        time.Time        `json:"start_date" binding:"required"`
	EndDate          time.Time        `json:"end_date" binding:"required,gtfield=StartDate"`
	RentAmount       decimal.Decimal  `json:"rent_amount" binding:"required"`
	PaymentFrequency string           `json:"payment_frequency" binding:"required,oneof=annual semi-annual quarterly monthly"`
	SecurityDeposit  *decimal.Decimal `json:"security_deposit"`
	InsuranceFee     *decimal.Decimal `json:"insurance_fee"`
	ManagementFee    *decimal.Decimal `json:"management_fee"`
	Status           string           `json:"status" binding:"required,oneof=draft active expired terminated"`
	Notes            string           `json:"notes" binding:"max=1000"`
}

func (r UpdateContractRequest) edit() leasing.ContractEdit {
	return leasing.ContractEdit{
		StartDate:        r.StartDate.UTC(),
		EndDate:          r.EndDate.UTC(),
		RentAmount:       r.RentAmount,
		PaymentFrequency: leasing.PaymentFrequency(r.PaymentFrequency),
		SecurityDeposit:  r.SecurityDeposit,
		InsuranceFee:     r.InsuranceFee,
		ManagementFee:    r.ManagementFee,
		Status:           leasing.ContractStatus(r.Status),
		Notes:            r.Notes,
	}
}

// CreatePayableRequest records a receipt or a bill
type CreatePayableRequest struct {
	ContractID    *uuid.UUID      `json:"contract_id"`
	Type          string          `json:"type" binding:"required,oneof=incoming outgoing"`
	Category      string          `json:"category" binding:"required,oneof=rent insurance_fee deposit_fee maintenance_fee management_fee other"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=bank_transfer cash check"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DueDate       time.Time       `json:"due_date" binding:"required"`
	Notes         string          `json:"notes" binding:"max=1000"`
}

// UpdatePayableRequest edits an open payable
type UpdatePayableRequest struct {
	Category      string          `json:"category" binding:"required,oneof=rent insurance_fee deposit_fee maintenance_fee management_fee other"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=bank_transfer cash check"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DueDate       time.Time       `json:"due_date" binding:"required"`
	Notes         string          `json:"notes" binding:"max=1000"`
}

// PayPayableRequest settles an open payable
type PayPayableRequest struct {
	PaymentMethod  string     `json:"payment_method" binding:"required,oneof=bank_transfer cash check"`
	TransactionRef string     `json:"transaction_ref" binding:"max=100"`
	PaidAt         *time.Time `json:"paid_at"`
}

// CancelPayableRequest voids an open payable
type CancelPayableRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PayableResponse represents a payable in API responses
type PayableResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ContractID         *uuid.UUID      `json:"contract_id,omitempty"`
	Type               string          `json:"type"`
	TypeLabel          string          `json:"type_label"`
	Category           string          `json:"category"`
	CategoryLabel      string          `json:"category_label"`
	PaymentMethod      string          `json:"payment_method,omitempty"`
	PaymentMethodLabel string          `json:"payment_method_label,omitempty"`
	Status             string          `json:"status"`
	StatusLabel        string          `json:"status_label"`
	Amount             decimal.Decimal `json:"amount"`
	DueDate            time.Time       `json:"due_date"`
	PaymentDate        *time.Time      `json:"payment_date,omitempty"`
	TransactionRef     string          `json:"transaction_ref,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ToPayableResponse converts a domain payable to a response
func ToPayableResponse(p *leasing.Payable) PayableResponse {
	return PayableResponse{
		ID:                 p.ID,
		ContractID:         p.ContractID,
		Type:               p.Type.String(),
		TypeLabel:          p.Type.Label(),
		Category:           p.Category.String(),
		CategoryLabel:      p.Category.Label(),
		PaymentMethod:      p.Method.String(),
		PaymentMethodLabel: p.Method.Label(),
		Status:             p.Status.String(),
		StatusLabel:        p.Status.Label(),
		Amount:             p.Amount,
		DueDate:            p.DueDate,
		PaymentDate:        p.PaymentDate,
		TransactionRef:     p.TransactionRef,
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt,
	}
}

func mapSlice[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(&items[i])
	}
	return out
}
