package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	RWF Currency = "RWF" // Rwandan Franc (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	KES Currency = "KES" // Kenyan Shilling
	UGX Currency = "UGX" // Ugandan Shilling
	TZS Currency = "TZS" // Tanzanian Shilling
	JPY Currency = "JPY"
	KRW Currency = "KRW"
	BHD Currency = "BHD"
	KWD Currency = "KWD"
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = RWF

// minorUnits lists currencies whose minor unit differs from 2 decimals
var minorUnits = map[Currency]int32{
	RWF: 0,
	UGX: 0,
	JPY: 0,
	KRW: 0,
	BHD: 3,
	KWD: 3,
}

// ParseCurrency normalizes and validates a three-letter currency code
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return Currency(code), nil
}

// IsValid reports whether the code is a syntactically valid ISO 4217 code
func (c Currency) IsValid() bool {
	_, err := ParseCurrency(string(c))
	return err == nil
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// MinorUnits returns the number of decimal places used by the currency
func (c Currency) MinorUnits() int32 {
	if places, ok := minorUnits[c]; ok {
		return places
	}
	return 2
}

// Round rounds an amount to the currency's minor unit (half away from zero)
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(c.MinorUnits())
}

// OrDefault returns the currency, or the system default when empty
func (c Currency) OrDefault() Currency {
	if c == "" {
		return DefaultCurrency
	}
	return c
}
