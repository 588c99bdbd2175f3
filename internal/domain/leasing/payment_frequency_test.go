package leasing

import (
	"testing"

	"github.com/propdesk/backend/internal/domain/property"
	"github.com/stretchr/testify/assert"
)

func TestMapPaymentTerms_KnownTermsAreIdentity(t *testing.T) {
	for _, terms := range property.AllPaymentTerms() {
		assert.Equal(t, string(terms), string(MapPaymentTerms(terms)), "terms %q", terms)
	}
}

func TestMapPaymentTerms_UnknownDefaultsToAnnual(t *testing.T) {
	for _, raw := range []string{"", "weekly", "ANNUAL", "semi_annual", "bi-monthly", " monthly"} {
		assert.Equal(t, FrequencyAnnual, MapPaymentTerms(property.PaymentTerms(raw)), "terms %q", raw)
	}
}

func TestPaymentFrequency_Labels(t *testing.T) {
	tests := []struct {
		freq         PaymentFrequency
		label        string
		installments int
	}{
		{FrequencyAnnual, "Annually (Once a year)", 1},
		{FrequencySemiAnnual, "Semi-Annually (Twice a year)", 2},
		{FrequencyQuarterly, "Quarterly (Four times a year)", 4},
		{FrequencyMonthly, "Monthly", 12},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			assert.Equal(t, tt.label, tt.freq.Label())
			assert.Equal(t, tt.installments, tt.freq.InstallmentsPerYear())
		})
	}

	assert.Equal(t, "fortnightly", PaymentFrequency("fortnightly").Label())
	assert.Equal(t, 1, PaymentFrequency("fortnightly").InstallmentsPerYear())
}
