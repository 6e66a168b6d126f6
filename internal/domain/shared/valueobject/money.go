package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the currency every storefront amount is kept in
var DefaultCurrency = currency.BRL

// centPlaces is the number of minor-unit digits kept after rounding
const centPlaces = 2

var hundred = decimal.NewFromInt(100)

// Money is a value object representing monetary amounts.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency currency.Unit
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, unit currency.Unit) Money {
	return Money{amount: amount, currency: unit}
}

// BRL creates Money in Brazilian reais
func BRL(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: DefaultCurrency}
}

// BRLFromString parses an amount string into Money in reais
func BRLFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return BRL(d), nil
}

// Zero returns a zero-value Money in the specified currency
func Zero(unit currency.Unit) Money {
	return Money{amount: decimal.Zero, currency: unit}
}

// ZeroBRL returns a zero-value Money in reais
func ZeroBRL() Money {
	return Zero(DefaultCurrency)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency unit
func (m Money) Currency() currency.Unit {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) sameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("currency mismatch: %s and %s", m.currency, other.currency)
	}
	return nil
}

// Add returns a new Money with the sum of both amounts
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns a new Money with other deducted
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MultiplyByInt multiplies the amount by an integer factor, e.g. a quantity
func (m Money) MultiplyByInt(factor int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(factor)), currency: m.currency}
}

// Percentage returns percent% of the amount, rounded to cents
func (m Money) Percentage(percent decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(percent).Div(hundred).Round(centPlaces),
		currency: m.currency,
	}
}

// Min returns the smaller of m and other
func (m Money) Min(other Money) Money {
	if other.amount.LessThan(m.amount) {
		return other
	}
	return m
}

// ClampZero returns zero when the amount is negative
func (m Money) ClampZero() Money {
	if m.amount.IsNegative() {
		return Money{amount: decimal.Zero, currency: m.currency}
	}
	return m
}

// Round rounds the amount to the given decimal places
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// Equals returns true if both amount and currency match
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan compares amounts of the same currency
func (m Money) LessThan(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThanOrEqual compares amounts of the same currency
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if err := m.sameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// Cents returns the amount in minor units
func (m Money) Cents() int64 {
	return m.amount.Mul(hundred).Round(0).IntPart()
}

// String returns the plain decimal amount with two places
func (m Money) String() string {
	return m.amount.StringFixed(centPlaces)
}

// Format renders the amount for display, e.g. "R$ 1.234,50"
func (m Money) Format() string {
	f, _ := m.amount.Round(centPlaces).Float64()
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprint(currency.Symbol(m.currency.Amount(f)))
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(centPlaces),
		Currency: m.currency.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	unit := DefaultCurrency
	if v.Currency != "" {
		unit, err = currency.ParseISO(v.Currency)
		if err != nil {
			return fmt.Errorf("invalid currency: %w", err)
		}
	}
	m.amount = amount
	m.currency = unit
	return nil
}

// Value implements driver.Valuer; only the amount is stored
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner; currency defaults to DefaultCurrency
func (m *Money) Scan(value any) error {
	var d decimal.NullDecimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Money: %w", value, err)
	}
	m.amount = d.Decimal
	if m.currency == (currency.Unit{}) {
		m.currency = DefaultCurrency
	}
	return nil
}
