// Package money holds storefront amounts as integer minor units.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/daghlis/gallery-backend/pkg/enums"
)

// Scale is the number of decimal places every supported currency uses.
const Scale = 2

var minorPerMajor = decimal.New(1, Scale)

// Amount is a non-fractional count of minor currency units (cents).
type Amount int64

// FromMajor converts a major-unit decimal such as 12.50 into minor units,
// rounding half away from zero.
func FromMajor(major decimal.Decimal) Amount {
	return Amount(major.Mul(minorPerMajor).Round(0).IntPart())
}

// FromMinor is the identity conversion, spelled out at call sites for clarity.
func FromMinor(minor int64) Amount {
	return Amount(minor)
}

// ParseMajor parses a major-unit string like "1250.00".
func ParseMajor(value string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return FromMajor(d), nil
}

func (a Amount) Int64() int64 {
	return int64(a)
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

func (a Amount) Add(b Amount) Amount {
	return a + b
}

func (a Amount) Mul(n int) Amount {
	return a * Amount(n)
}

// MulRate multiplies by a fractional rate and rounds half away from zero to
// the nearest minor unit.
func (a Amount) MulRate(rate decimal.Decimal) Amount {
	return Amount(decimal.NewFromInt(int64(a)).Mul(rate).Round(0).IntPart())
}

func (a Amount) IsPositive() bool {
	return a > 0
}

// String renders the amount in major units with two decimals, e.g. "1250.00".
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// ParseCurrency resolves an ISO 4217 code and rejects currencies whose
// standard precision is not two decimals.
func ParseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("parse currency %q: %w", code, err)
	}
	if scale, _ := currency.Standard.Rounding(unit); scale != Scale {
		return currency.Unit{}, fmt.Errorf("currency %s uses %d decimals, only %d supported", unit, scale, Scale)
	}
	return unit, nil
}

// Format renders a display string such as "€1,250.00" or "1 250,00 €"
// using the number conventions of lang.
func Format(a Amount, unit currency.Unit, lang enums.Language) string {
	tag := language.Make(lang.String())
	p := message.NewPrinter(tag)

	symbol := p.Sprint(currency.Symbol(unit))
	value := p.Sprint(number.Decimal(a.Decimal().InexactFloat64(), number.Scale(Scale)))

	if lang == enums.LanguageEnglish {
		return symbol + value
	}
	return value + " " + symbol
}
