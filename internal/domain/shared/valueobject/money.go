package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	SAR Currency = "SAR" // Saudi Riyal (default)
	USD Currency = "USD"
	AED Currency = "AED"
)

// DefaultCurrency is the currency every rent and receivable is expressed in
const DefaultCurrency = SAR

var errCurrencyMismatch = errors.New("currency mismatch")

// Money is an immutable monetary amount
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, cur Currency) (Money, error) {
	if cur == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	if _, err := currency.ParseISO(string(cur)); err != nil {
		return Money{}, fmt.Errorf("invalid currency %q: %w", cur, err)
	}
	return Money{amount: amount, currency: cur}, nil
}

// SARAmount creates Money in the default currency
func SARAmount(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: SAR}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum of both amounts
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", errCurrencyMismatch, m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Split divides the amount into n installments rounded to 2 decimals.
// The last installment absorbs the rounding remainder so the parts always sum to the total.
func (m Money) Split(n int) ([]Money, error) {
	if n <= 0 {
		return nil, errors.New("installment count must be positive")
	}
	part := m.amount.Div(decimal.NewFromInt(int64(n))).Round(2)
	parts := make([]Money, n)
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		parts[i] = Money{amount: part, currency: m.currency}
		allocated = allocated.Add(part)
	}
	parts[n-1] = Money{amount: m.amount.Sub(allocated), currency: m.currency}
	return parts, nil
}

// Format renders the amount the way the back-office displays it, e.g. "SAR 12,000.00"
func (m Money) Format() string {
	return FormatAmount(m.amount, m.currency)
}

// String implements fmt.Stringer
func (m Money) String() string {
	return m.Format()
}

// FormatAmount renders an amount with grouping separators and two decimals
func FormatAmount(amount decimal.Decimal, cur Currency) string {
	p := message.NewPrinter(language.English)
	f, _ := amount.Round(2).Float64()
	return p.Sprintf("%s %.2f", string(cur), f)
}
