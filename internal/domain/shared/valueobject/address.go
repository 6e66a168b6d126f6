package valueobject

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/livesale/backend/internal/domain/shared"
)

// ErrInvalidPostalCode is returned for CEPs without exactly 8 digits
var ErrInvalidPostalCode = shared.NewValidationError("INVALID_POSTAL_CODE", "Postal code must have 8 digits")

// PostalCode is a Brazilian CEP kept as 8 digits
type PostalCode string

// NewPostalCode normalizes "30130-010" or "30130010" into a PostalCode
func NewPostalCode(raw string) (PostalCode, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 8 {
		return "", ErrInvalidPostalCode.WithMessage(fmt.Sprintf("Postal code must have 8 digits, got %d", len(digits)))
	}
	return PostalCode(digits), nil
}

// String returns the 8 digits
func (c PostalCode) String() string {
	return string(c)
}

// Formatted returns the CEP with its hyphen, e.g. "30130-010"
func (c PostalCode) Formatted() string {
	if len(c) != 8 {
		return string(c)
	}
	return string(c[:5]) + "-" + string(c[5:])
}

// Address is a value object representing a delivery address.
// It is immutable - all operations return new Address instances.
type Address struct {
	street     string
	number     string
	complement string
	district   string
	city       string
	state      string
	postalCode PostalCode
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithComplement sets the unit/apartment complement
func WithComplement(complement string) AddressOption {
	return func(a *Address) {
		a.complement = strings.TrimSpace(complement)
	}
}

// WithDistrict sets the neighbourhood (bairro)
func WithDistrict(district string) AddressOption {
	return func(a *Address) {
		a.district = strings.TrimSpace(district)
	}
}

// NewAddress creates a new Address. Street, city, state and postal code are required.
func NewAddress(street, number, city, state, postalCode string, opts ...AddressOption) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.ToUpper(strings.TrimSpace(state))

	if street == "" {
		return Address{}, fmt.Errorf("street cannot be empty")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(state) != 2 {
		return Address{}, fmt.Errorf("state must be a two-letter code")
	}
	cep, err := NewPostalCode(postalCode)
	if err != nil {
		return Address{}, err
	}

	addr := Address{
		street:     street,
		number:     strings.TrimSpace(number),
		city:       city,
		state:      state,
		postalCode: cep,
	}
	for _, opt := range opts {
		opt(&addr)
	}
	return addr, nil
}

// Street returns the street name
func (a Address) Street() string { return a.street }

// Number returns the street number
func (a Address) Number() string { return a.number }

// Complement returns the unit complement
func (a Address) Complement() string { return a.complement }

// District returns the neighbourhood
func (a Address) District() string { return a.district }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the two-letter state code
func (a Address) State() string { return a.state }

// PostalCode returns the CEP
func (a Address) PostalCode() PostalCode { return a.postalCode }

// IsEmpty returns true if the address is the zero value
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.postalCode == ""
}

// FullAddress returns a single-line address
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}
	line := a.street
	if a.number != "" {
		line += ", " + a.number
	}
	if a.complement != "" {
		line += " - " + a.complement
	}
	parts := []string{line}
	if a.district != "" {
		parts = append(parts, a.district)
	}
	parts = append(parts, a.city+"/"+a.state, a.postalCode.Formatted())
	return strings.Join(parts, ", ")
}
