// Package money converts between YNAB milliunit amounts and the strings shown
// to, and typed by, the user.
//
// YNAB stores every amount as an integer number of milliunits (1/1000 of the
// currency unit). Display strings are rounded to the budget's currency digits;
// editable strings keep as many digits as needed to convert back exactly.
package money

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/shopspring/decimal"
)

const milliunitExp = -3

var ErrInvalidAmount = errors.New("invalid amount")

// DefaultFormat is used when no budget currency is known.
var DefaultFormat = ynab.CurrencyFormat{
	ISOCode:          "USD",
	ExampleFormat:    "123,456.78",
	DecimalDigits:    2,
	DecimalSeparator: ".",
	SymbolFirst:      true,
	GroupSeparator:   ",",
	CurrencySymbol:   "$",
	DisplaySymbol:    true,
}

var (
	numberPattern = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)$`)
	maxMilliunits = decimal.NewFromInt(math.MaxInt64)
)

// IsNumber reports whether s is an optionally signed decimal number such as
// "12.34", "-5" or ".5".
func IsNumber(s string) bool {
	return numberPattern.MatchString(s)
}

func FromMilliunits(amount int64) decimal.Decimal {
	return decimal.New(amount, milliunitExp)
}

// ToMilliunits parses a readable amount into milliunits, rounding half away
// from zero past the third decimal place.
func ToMilliunits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if !IsNumber(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	if neg {
		s = "-" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	m := d.Shift(-milliunitExp).Round(0)
	if m.Abs().GreaterThan(maxMilliunits) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	return m.IntPart(), nil
}

// Editable renders amount for an input field: no symbol or grouping, at least
// digits decimals, and more when the amount carries sub-digit milliunits.
func Editable(amount int64, digits int) string {
	if digits < 0 {
		digits = DefaultFormat.DecimalDigits
	}
	d := FromMilliunits(amount)
	places := int32(digits)
	for places < -milliunitExp && !d.Equal(d.Round(places)) {
		places++
	}
	return d.StringFixed(places)
}

// Format renders amount for display using the budget's currency format. A nil
// format falls back to DefaultFormat.
func Format(amount int64, cf *ynab.CurrencyFormat) string {
	f := DefaultFormat
	if cf != nil {
		f = *cf
	}
	if f.DecimalSeparator == "" {
		f.DecimalSeparator = "."
	}

	d := FromMilliunits(amount).Round(int32(f.DecimalDigits))
	neg := d.IsNegative()
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(int32(f.DecimalDigits)), ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if f.DisplaySymbol && f.SymbolFirst {
		b.WriteString(f.CurrencySymbol)
	}
	b.WriteString(group(whole, f.GroupSeparator))
	if frac != "" {
		b.WriteString(f.DecimalSeparator)
		b.WriteString(frac)
	}
	if f.DisplaySymbol && !f.SymbolFirst {
		b.WriteString(f.CurrencySymbol)
	}
	return b.String()
}

func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
