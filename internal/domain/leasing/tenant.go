package leasing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/domain/shared/valueobject"
)

// TenantStatus represents the standing of a renter
type TenantStatus string

const (
	TenantStatusActive      TenantStatus = "active"
	TenantStatusInactive    TenantStatus = "inactive"
	TenantStatusBlacklisted TenantStatus = "blacklisted"
)

var tenantStatusLabels = map[TenantStatus]string{
	TenantStatusActive:      "Active",
	TenantStatusInactive:    "Inactive",
	TenantStatusBlacklisted: "Blacklisted",
}

func (s TenantStatus) String() string { return string(s) }

// Label returns the display label
func (s TenantStatus) Label() string { return tenantStatusLabels[s] }

// IsValid reports whether s is a known status
func (s TenantStatus) IsValid() bool {
	_, ok := tenantStatusLabels[s]
	return ok
}

// AllTenantStatuses returns every tenant status
func AllTenantStatuses() []TenantStatus {
	return []TenantStatus{TenantStatusActive, TenantStatusInactive, TenantStatusBlacklisted}
}

// Tenant is a person renting a unit.
// The national ID is unique within an office.
type Tenant struct {
	shared.OfficeAggregateRoot
	FullName         string
	NationalID       string
	Phone            string
	Email            string
	EmergencyContact string
	Status           TenantStatus
}

// PersonDetails are the identifying fields captured when a tenant is registered
type PersonDetails struct {
	FirstName        string
	MiddleName       string
	LastName         string
	NationalID       string
	Phone            string
	Email            string
	EmergencyContact string
}

// Validate checks the required fields and returns a validation error naming all missing ones
func (p PersonDetails) Validate() error {
	missing := shared.MissingFields(
		"first_name", p.FirstName,
		"last_name", p.LastName,
		"national_id", p.NationalID,
		"phone", p.Phone,
	)
	if len(missing) > 0 {
		return shared.NewRequiredFieldsError(missing...)
	}
	return shared.ValidateEmail(strings.TrimSpace(p.Email), "email")
}

// FullName joins the name parts with single spaces, skipping an empty middle name
func (p PersonDetails) FullName() string {
	return BuildFullName(p.FirstName, p.MiddleName, p.LastName)
}

// BuildFullName joins name parts into a display name
func BuildFullName(parts ...string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// NewTenant registers an active tenant
func NewTenant(officeID uuid.UUID, details PersonDetails) (*Tenant, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		OfficeAggregateRoot: shared.NewOfficeAggregateRoot(officeID),
		FullName:            details.FullName(),
		NationalID:          strings.TrimSpace(details.NationalID),
		Phone:               valueobject.NormalizePhone(details.Phone),
		Email:               strings.TrimSpace(details.Email),
		EmergencyContact:    strings.TrimSpace(details.EmergencyContact),
		Status:              TenantStatusActive,
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))
	return tenant, nil
}

// UpdateContact changes the tenant's name and contact details
func (t *Tenant) UpdateContact(fullName, phone, email, emergencyContact string) error {
	name := BuildFullName(fullName)
	missing := shared.MissingFields("full_name", name, "phone", phone)
	if len(missing) > 0 {
		return shared.NewRequiredFieldsError(missing...)
	}
	email = strings.TrimSpace(email)
	if err := shared.ValidateEmail(email, "email"); err != nil {
		return err
	}

	t.FullName = name
	t.Phone = valueobject.NormalizePhone(phone)
	t.Email = email
	t.EmergencyContact = strings.TrimSpace(emergencyContact)
	t.Touch()
	t.IncrementVersion()
	return nil
}

// ChangeStatus moves the tenant to another standing
func (t *Tenant) ChangeStatus(status TenantStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("unknown tenant status: "+string(status), "status")
	}
	if t.Status == status {
		return nil
	}
	old := t.Status
	t.Status = status
	t.Touch()
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantStatusChangedEvent(t, old))
	return nil
}

// CanLease reports whether new contracts may be signed with this tenant
func (t *Tenant) CanLease() bool {
	return t.Status == TenantStatusActive
}
