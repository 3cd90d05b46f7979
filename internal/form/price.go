package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// maxPriceLength bounds the raw input so parsing and rounding stay cheap.
	maxPriceLength = 32
	// Exponents above this overflow MaxPrice for any non-zero coefficient.
	maxPriceExponent = 12
	// Below this a coefficient of at most maxPriceLength digits rounds to zero.
	minPriceExponent = -(maxPriceLength + 2)
)

// MaxPrice is the largest price the decimal(12,2) column holds.
var MaxPrice = decimal.RequireFromString("9999999999.99")

var (
	ErrPriceNotNumber = errors.New("price is not a number")
	ErrPriceTooLong   = errors.New("price has too many characters")
	ErrPriceNegative  = errors.New("price is negative")
	ErrPriceTooLarge  = errors.New("price exceeds the maximum")
)

// PriceInput is the raw price field. It decodes from either a JSON number or
// a JSON string; null and missing decode to the empty string.
type PriceInput string

// PriceOf returns the input for a numeric price.
func PriceOf(f float64) PriceInput {
	return PriceInput(strconv.FormatFloat(f, 'f', -1, 64))
}

// UnmarshalJSON accepts 12.5, "12.5", "" and null.
func (p *PriceInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*p = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price must be a number or a string: %w", err)
	}
	*p = PriceInput(n.String())
	return nil
}

// Decimal parses the input and rounds it to two decimal places. The result
// lies in [0, MaxPrice]; anything else is one of the ErrPrice errors.
func (p PriceInput) Decimal() (decimal.Decimal, error) {
	s := strings.TrimSpace(string(p))
	if len(s) > maxPriceLength {
		return decimal.Zero, fmt.Errorf("%w: %d characters", ErrPriceTooLong, len(s))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrPriceNotNumber, s)
	}

	switch exp := d.Exponent(); {
	case d.IsZero():
		return decimal.Zero, nil
	case exp > maxPriceExponent && d.Sign() < 0:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrPriceNegative, s)
	case exp > maxPriceExponent:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrPriceTooLarge, s)
	case exp < minPriceExponent:
		return decimal.Zero, nil
	}

	d = d.Round(2)
	switch {
	case d.Sign() < 0:
		return decimal.Zero, fmt.Errorf("%w: %s", ErrPriceNegative, s)
	case d.GreaterThan(MaxPrice):
		return decimal.Zero, fmt.Errorf("%w: %s", ErrPriceTooLarge, s)
	}
	return d, nil
}

// Amount is the rounded price as a float.
func (p PriceInput) Amount() (float64, error) {
	d, err := p.Decimal()
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
