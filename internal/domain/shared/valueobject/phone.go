package valueobject

import (
	"strings"
	"unicode"

	"github.com/livesale/backend/internal/domain/shared"
)

const brazilCountryCode = "55"

// ErrInvalidPhone is returned when a phone number cannot be reduced to 10 or 11 local digits
var ErrInvalidPhone = shared.NewValidationError("INVALID_PHONE", "Phone must have 10 or 11 digits including area code")

// Phone is a Brazilian phone number in canonical storage form:
// digits only, area code followed by the subscriber number (10 or 11 digits).
type Phone struct {
	digits string
}

// NewPhone normalizes raw input such as "+55 (31) 99999-0000" or "031999990000"
// into canonical form.
func NewPhone(raw string) (Phone, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			// Digits from other scripts would break the byte-length checks below.
			return Phone{}, ErrInvalidPhone.WithMessage("Phone must use ASCII digits 0-9")
		}
	}
	digits := b.String()

	// Country code and trunk prefix are not part of the stored form.
	if (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, brazilCountryCode) {
		digits = digits[len(brazilCountryCode):]
	}
	if (len(digits) == 11 || len(digits) == 12) && digits[0] == '0' {
		digits = digits[1:]
	}

	if len(digits) != 10 && len(digits) != 11 {
		return Phone{}, ErrInvalidPhone
	}
	if digits[0] == '0' {
		return Phone{}, ErrInvalidPhone.WithMessage("Area code cannot start with 0")
	}
	return Phone{digits: digits}, nil
}

// MustNewPhone creates a Phone, panics on error
func MustNewPhone(raw string) Phone {
	p, err := NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the canonical digits
func (p Phone) String() string {
	return p.digits
}

// AreaCode returns the two-digit DDD
func (p Phone) AreaCode() string {
	if len(p.digits) < 2 {
		return ""
	}
	return p.digits[:2]
}

// IsMobile reports whether the number carries the ninth mobile digit
func (p Phone) IsMobile() bool {
	return len(p.digits) == 11
}

// IsZero returns true for the zero value
func (p Phone) IsZero() bool {
	return p.digits == ""
}

// E164 returns the number with the Brazilian country code, for outbound integrations
func (p Phone) E164() string {
	if p.IsZero() {
		return ""
	}
	return "+" + brazilCountryCode + p.digits
}
