package leasing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPerson() PersonDetails {
	return PersonDetails{
		FirstName:  " Sara ",
		LastName:   "Al-Qahtani",
		NationalID: " 1234567890 ",
		Phone:      "0501234567",
		Email:      "sara@example.sa",
	}
}

func TestBuildFullName(t *testing.T) {
	assert.Equal(t, "Sara Al-Qahtani", BuildFullName("Sara", "", "Al-Qahtani"))
	assert.Equal(t, "Sara Noura Al-Qahtani", BuildFullName(" Sara ", "Noura", " Al-Qahtani"))
	assert.Equal(t, "", BuildFullName("", "", ""))
}

func TestNewTenant(t *testing.T) {
	officeID := uuid.New()

	tenant, err := NewTenant(officeID, validPerson())
	require.NoError(t, err)

	assert.Equal(t, officeID, tenant.OfficeID)
	assert.Equal(t, "Sara Al-Qahtani", tenant.FullName)
	assert.Equal(t, "1234567890", tenant.NationalID)
	assert.Equal(t, "+966501234567", tenant.Phone)
	assert.Equal(t, TenantStatusActive, tenant.Status)
	assert.True(t, tenant.CanLease())
	require.Len(t, tenant.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeTenantCreated, tenant.GetDomainEvents()[0].EventType())
}

func TestNewTenant_RequiredFields(t *testing.T) {
	_, err := NewTenant(uuid.New(), PersonDetails{FirstName: "Sara", MiddleName: "N", Email: "x@y.sa"})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, shared.CodeValidation, de.Code)
	assert.Equal(t, []string{"last_name", "national_id", "phone"}, de.Fields)
}

func TestNewTenant_WhitespaceOnlyIsMissing(t *testing.T) {
	p := validPerson()
	p.Phone = "   "

	_, err := NewTenant(uuid.New(), p)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{"phone"}, de.Fields)
}

func TestNewTenant_AnyNonBlankPhone(t *testing.T) {
	p := validPerson()
	p.Phone = "0112345678"

	tenant, err := NewTenant(uuid.New(), p)
	require.NoError(t, err)
	assert.Equal(t, "+966112345678", tenant.Phone)
}

func TestNewTenant_InvalidEmail(t *testing.T) {
	p := validPerson()
	p.Email = "sara-at-example"

	_, err := NewTenant(uuid.New(), p)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestTenant_ChangeStatus(t *testing.T) {
	tenant, err := NewTenant(uuid.New(), validPerson())
	require.NoError(t, err)
	tenant.ClearDomainEvents()

	require.NoError(t, tenant.ChangeStatus(TenantStatusBlacklisted))
	assert.False(t, tenant.CanLease())
	assert.Len(t, tenant.GetDomainEvents(), 1)

	assert.ErrorIs(t, tenant.ChangeStatus("banned"), shared.ErrInvalidInput)
}

func TestTenant_UpdateContact(t *testing.T) {
	tenant, err := NewTenant(uuid.New(), validPerson())
	require.NoError(t, err)

	require.NoError(t, tenant.UpdateContact("Sara  Noura Al-Qahtani", "551112222", "", "Father 0500000000"))
	assert.Equal(t, "Sara Noura Al-Qahtani", tenant.FullName)
	assert.Equal(t, "+966551112222", tenant.Phone)
	assert.Equal(t, "Father 0500000000", tenant.EmergencyContact)

	assert.ErrorIs(t, tenant.UpdateContact("", "055", "", ""), shared.ErrInvalidInput)
}
