package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("", "email"))
	assert.NoError(t, ValidateEmail("sara@example.sa", "email"))

	err := ValidateEmail("not-an-email", "email")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMissingFields(t *testing.T) {
	missing := MissingFields("first_name", "Sara", "last_name", "  ", "phone", "")
	assert.Equal(t, []string{"last_name", "phone"}, missing)
	assert.Empty(t, MissingFields("a", "x"))
}
