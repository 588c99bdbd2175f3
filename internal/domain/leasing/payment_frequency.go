package leasing

import (
	"github.com/propdesk/backend/internal/domain/property"
)

// PaymentFrequency is the rent cadence recorded on a contract
type PaymentFrequency string

const (
	FrequencyAnnual     PaymentFrequency = "annual"
	FrequencySemiAnnual PaymentFrequency = "semi-annual"
	FrequencyQuarterly  PaymentFrequency = "quarterly"
	FrequencyMonthly    PaymentFrequency = "monthly"
)

type frequencyInfo struct {
	label        string
	installments int
}

var frequencies = map[PaymentFrequency]frequencyInfo{
	FrequencyAnnual:     {"Annually (Once a year)", 1},
	FrequencySemiAnnual: {"Semi-Annually (Twice a year)", 2},
	FrequencyQuarterly:  {"Quarterly (Four times a year)", 4},
	FrequencyMonthly:    {"Monthly", 12},
}

// AllPaymentFrequencies returns every frequency in display order
func AllPaymentFrequencies() []PaymentFrequency {
	return []PaymentFrequency{FrequencyAnnual, FrequencySemiAnnual, FrequencyQuarterly, FrequencyMonthly}
}

func (f PaymentFrequency) String() string { return string(f) }

// Label returns the display label, e.g. "Quarterly (Four times a year)"
func (f PaymentFrequency) Label() string {
	if info, ok := frequencies[f]; ok {
		return info.label
	}
	return string(f)
}

// InstallmentsPerYear returns how many rent installments fall in one year
func (f PaymentFrequency) InstallmentsPerYear() int {
	if info, ok := frequencies[f]; ok {
		return info.installments
	}
	return 1
}

// IsValid reports whether f is a known frequency
func (f PaymentFrequency) IsValid() bool {
	_, ok := frequencies[f]
	return ok
}

// MapPaymentTerms converts a unit's payment terms into the contract frequency.
// The four known terms map to themselves; anything else becomes annual.
func MapPaymentTerms(terms property.PaymentTerms) PaymentFrequency {
	switch terms {
	case property.PaymentTermsMonthly:
		return FrequencyMonthly
	case property.PaymentTermsQuarterly:
		return FrequencyQuarterly
	case property.PaymentTermsSemiAnnual:
		return FrequencySemiAnnual
	case property.PaymentTermsAnnual:
		return FrequencyAnnual
	default:
		return FrequencyAnnual
	}
}
