package leasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PayableType tells whether money comes in or goes out
type PayableType string

const (
	PayableTypeIncoming PayableType = "incoming"
	PayableTypeOutgoing PayableType = "outgoing"
)

var payableTypeLabels = map[PayableType]string{
	PayableTypeIncoming: "Incoming",
	PayableTypeOutgoing: "Outgoing",
}

func (t PayableType) String() string { return string(t) }

// Label returns the display label
func (t PayableType) Label() string { return payableTypeLabels[t] }

// IsValid reports whether t is known
func (t PayableType) IsValid() bool {
	_, ok := payableTypeLabels[t]
	return ok
}

// PayableCategory classifies what a payable is for
type PayableCategory string

const (
	CategoryRent           PayableCategory = "rent"
	CategoryInsuranceFee   PayableCategory = "insurance_fee"
	CategoryDepositFee     PayableCategory = "deposit_fee"
	CategoryMaintenanceFee PayableCategory = "maintenance_fee"
	CategoryManagementFee  PayableCategory = "management_fee"
	CategoryOther          PayableCategory = "other"
)

var payableCategoryLabels = map[PayableCategory]string{
	CategoryRent:           "Rent",
	CategoryInsuranceFee:   "Insurance Fee",
	CategoryDepositFee:     "Deposit Fee",
	CategoryMaintenanceFee: "Maintenance Fee",
	CategoryManagementFee:  "Management Fee",
	CategoryOther:          "Other",
}

func (c PayableCategory) String() string { return string(c) }

// Label returns the display label
func (c PayableCategory) Label() string { return payableCategoryLabels[c] }

// IsValid reports whether c is known
func (c PayableCategory) IsValid() bool {
	_, ok := payableCategoryLabels[c]
	return ok
}

// AllPayableCategories returns every category
func AllPayableCategories() []PayableCategory {
	return []PayableCategory{CategoryRent, CategoryInsuranceFee, CategoryDepositFee, CategoryMaintenanceFee, CategoryManagementFee, CategoryOther}
}

// PaymentMethod is how a payable was settled
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
	MethodCheck        PaymentMethod = "check"
)

var paymentMethodLabels = map[PaymentMethod]string{
	MethodBankTransfer: "Bank Transfer",
	MethodCash:         "Cash",
	MethodCheck:        "Check",
}

func (m PaymentMethod) String() string { return string(m) }

// Label returns the display label
func (m PaymentMethod) Label() string { return paymentMethodLabels[m] }

// IsValid reports whether m is known
func (m PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[m]
	return ok
}

// PayableStatus tracks settlement
type PayableStatus string

const (
	PayableStatusPending   PayableStatus = "pending"
	PayableStatusPaid      PayableStatus = "paid"
	PayableStatusOverdue   PayableStatus = "overdue"
	PayableStatusCancelled PayableStatus = "cancelled"
)

var payableStatusLabels = map[PayableStatus]string{
	PayableStatusPending:   "Pending",
	PayableStatusPaid:      "Paid",
	PayableStatusOverdue:   "Overdue",
	PayableStatusCancelled: "Cancelled",
}

func (s PayableStatus) String() string { return string(s) }

// Label returns the display label
func (s PayableStatus) Label() string { return payableStatusLabels[s] }

// IsValid reports whether s is known
func (s PayableStatus) IsValid() bool {
	_, ok := payableStatusLabels[s]
	return ok
}

// IsOpen reports whether the payable still awaits settlement
func (s PayableStatus) IsOpen() bool {
	return s == PayableStatusPending || s == PayableStatusOverdue
}

// Payable is a receipt or a bill, optionally tied to a contract
type Payable struct {
	shared.OfficeAggregateRoot
	ContractID     *uuid.UUID
	Type           PayableType
	Category       PayableCategory
	Method         PaymentMethod
	Status         PayableStatus
	Amount         decimal.Decimal
	DueDate        time.Time
	PaymentDate    *time.Time
	TransactionRef string
	Notes          string
}

// PayableDetails carries the fields of a new payable
type PayableDetails struct {
	ContractID *uuid.UUID
	Type       PayableType
	Category   PayableCategory
	Method     PaymentMethod
	Amount     decimal.Decimal
	DueDate    time.Time
	Notes      string
}

// NewPayable creates a pending payable
func NewPayable(officeID uuid.UUID, d PayableDetails) (*Payable, error) {
	if !d.Type.IsValid() {
		return nil, shared.NewValidationError("unknown payable type: "+string(d.Type), "type")
	}
	if !d.Category.IsValid() {
		return nil, shared.NewValidationError("unknown payable category: "+string(d.Category), "category")
	}
	if d.Method != "" && !d.Method.IsValid() {
		return nil, shared.NewValidationError("unknown payment method: "+string(d.Method), "payment_method")
	}
	if !d.Amount.IsPositive() {
		return nil, shared.NewValidationError("amount must be positive", "amount")
	}
	if d.DueDate.IsZero() {
		return nil, shared.NewRequiredFieldsError("due_date")
	}

	return &Payable{
		OfficeAggregateRoot: shared.NewOfficeAggregateRoot(officeID),
		ContractID:          d.ContractID,
		Type:                d.Type,
		Category:            d.Category,
		Method:              d.Method,
		Status:              PayableStatusPending,
		Amount:              d.Amount,
		DueDate:             d.DueDate,
		Notes:               strings.TrimSpace(d.Notes),
	}, nil
}

// RentSchedule splits a contract's rent into pending incoming receivables,
// one per installment, due at the start of each period. A rent-free contract has no schedule.
func RentSchedule(c *Contract) ([]*Payable, error) {
	if !c.RentAmount.IsPositive() {
		return nil, nil
	}
	count := c.PaymentFrequency.InstallmentsPerYear()
	months := 12 / count
	parts, err := valueobject.SARAmount(c.RentAmount).Split(count)
	if err != nil {
		return nil, err
	}

	contractID := c.ID
	schedule := make([]*Payable, 0, count)
	for i, part := range parts {
		p, err := NewPayable(c.OfficeID, PayableDetails{
			ContractID: &contractID,
			Type:       PayableTypeIncoming,
			Category:   CategoryRent,
			Amount:     part.Amount(),
			DueDate:    c.StartDate.AddDate(0, i*months, 0),
			Notes:      fmt.Sprintf("Rent installment %d of %d", i+1, count),
		})
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, p)
	}
	return schedule, nil
}

// MarkPaid settles an open payable
func (p *Payable) MarkPaid(method PaymentMethod, transactionRef string, paidAt time.Time) error {
	if !p.Status.IsOpen() {
		return shared.NewInvalidStateError("payable is already " + string(p.Status))
	}
	if !method.IsValid() {
		return shared.NewValidationError("unknown payment method: "+string(method), "payment_method")
	}
	p.Status = PayableStatusPaid
	p.Method = method
	p.TransactionRef = strings.TrimSpace(transactionRef)
	p.PaymentDate = &paidAt
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewPayablePaidEvent(p))
	return nil
}

// PayableEdit carries the editable fields of an open payable
type PayableEdit struct {
	Category PayableCategory
	Method   PaymentMethod
	Amount   decimal.Decimal
	DueDate  time.Time
	Notes    string
}

// Update edits an open payable. Settled and cancelled payables are read only;
// the status moves through MarkPaid and Cancel. Moving the due date of an
// overdue payable into the future puts it back to pending.
func (p *Payable) Update(e PayableEdit, now time.Time) error {
	if !p.Status.IsOpen() {
		return shared.NewInvalidStateError("payable is already " + string(p.Status))
	}
	if !e.Category.IsValid() {
		return shared.NewValidationError("unknown payable category: "+string(e.Category), "category")
	}
	if e.Method != "" && !e.Method.IsValid() {
		return shared.NewValidationError("unknown payment method: "+string(e.Method), "payment_method")
	}
	if !e.Amount.IsPositive() {
		return shared.NewValidationError("amount must be positive", "amount")
	}
	if e.DueDate.IsZero() {
		return shared.NewRequiredFieldsError("due_date")
	}

	p.Category = e.Category
	p.Method = e.Method
	p.Amount = e.Amount
	p.DueDate = e.DueDate
	p.Notes = strings.TrimSpace(e.Notes)
	if p.Status == PayableStatusOverdue && !now.After(e.DueDate) {
		p.Status = PayableStatusPending
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Cancel voids an open payable
func (p *Payable) Cancel(reason string) error {
	if !p.Status.IsOpen() {
		return shared.NewInvalidStateError("payable is already " + string(p.Status))
	}
	p.Status = PayableStatusCancelled
	if reason != "" {
		p.Notes = strings.TrimSpace(reason)
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// MarkOverdueIfDue flags a pending payable whose due date has passed.
// It returns true when the status changed.
func (p *Payable) MarkOverdueIfDue(now time.Time) bool {
	if p.Status != PayableStatusPending || !now.After(p.DueDate) {
		return false
	}
	p.Status = PayableStatusOverdue
	p.Touch()
	p.IncrementVersion()
	return true
}
