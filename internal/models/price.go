package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a non-negative amount with two fractional digits, stored in cents.
type Price int64

const (
	priceMaxDigits = 5
	priceDecimals  = 2
)

// priceLimit is the smallest amount that needs more than priceMaxDigits.
var priceLimit = decimal.New(1, priceMaxDigits-priceDecimals)

var (
	ErrPriceFormat    = errors.New("must be a decimal number")
	ErrPriceNegative  = errors.New("must be greater than or equal to 0")
	ErrPriceDecimals  = errors.New("must have no more than 2 decimal places")
	ErrPriceMaxDigits = errors.New("must have no more than 5 digits in total")
)

// ParsePrice parses a decimal string such as "5", "5.2" or "5.25". The
// fractional digits are counted as written, so "5.250" is rejected.
func ParsePrice(raw string) (Price, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrPriceFormat
	}
	return priceFromDecimal(d)
}

func priceFromDecimal(d decimal.Decimal) (Price, error) {
	switch {
	case d.IsNegative():
		return 0, ErrPriceNegative
	case d.Exponent() < -priceDecimals:
		return 0, ErrPriceDecimals
	case d.GreaterThanOrEqual(priceLimit):
		return 0, ErrPriceMaxDigits
	}
	return Price(d.Shift(priceDecimals).IntPart()), nil
}

// Decimal returns the price as a decimal amount.
func (p Price) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -priceDecimals)
}

// String renders the price with exactly two fractional digits.
func (p Price) String() string {
	return p.Decimal().StringFixed(priceDecimals)
}

// MarshalJSON encodes the price as a decimal string, e.g. "5.25".
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string. null is
// a no-op.
func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return ErrPriceFormat
	}
	parsed, err := priceFromDecimal(d)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
