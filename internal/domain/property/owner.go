package property

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/domain/shared/valueobject"
)

// Owner is a property owner. Buildings reference their owner.
type Owner struct {
	shared.OfficeAggregateRoot
	FullName   string
	NationalID string
	Phone      string
	Email      string
	Birthdate  *time.Time
	BankName   string
	IBAN       string
}

// OwnerDetails carries the mutable owner attributes
type OwnerDetails struct {
	FullName   string
	NationalID string
	Phone      string
	Email      string
	Birthdate  *time.Time
	BankName   string
	IBAN       string
}

// NewOwner creates a new owner in the given office
func NewOwner(officeID uuid.UUID, details OwnerDetails) (*Owner, error) {
	owner := &Owner{OfficeAggregateRoot: shared.NewOfficeAggregateRoot(officeID)}
	if err := owner.apply(details); err != nil {
		return nil, err
	}
	owner.AddDomainEvent(NewOwnerCreatedEvent(owner))
	return owner, nil
}

// Update replaces the owner's details
func (o *Owner) Update(details OwnerDetails) error {
	if err := o.apply(details); err != nil {
		return err
	}
	o.Touch()
	o.IncrementVersion()
	return nil
}

func (o *Owner) apply(d OwnerDetails) error {
	name := strings.TrimSpace(d.FullName)
	if name == "" {
		return shared.NewRequiredFieldsError("full_name")
	}
	if len(name) > 200 {
		return shared.NewValidationError("full name cannot exceed 200 characters", "full_name")
	}
	email := strings.TrimSpace(d.Email)
	if err := shared.ValidateEmail(email, "email"); err != nil {
		return err
	}
	iban := strings.ToUpper(strings.ReplaceAll(d.IBAN, " ", ""))
	if iban != "" && (len(iban) < 15 || len(iban) > 34) {
		return shared.NewValidationError("IBAN must be between 15 and 34 characters", "iban")
	}

	o.FullName = name
	o.NationalID = strings.TrimSpace(d.NationalID)
	o.Phone = valueobject.NormalizePhone(d.Phone)
	o.Email = email
	o.Birthdate = d.Birthdate
	o.BankName = strings.TrimSpace(d.BankName)
	o.IBAN = iban
	return nil
}
