// Package core holds the pure domain model and the financial summary
// aggregation used by both the chart endpoints and the assistant prompt.
//
// This file contains money handling: amounts are kept in integer cents
// so that aggregation sums are exact; rounding happens once, at the
// boundary where a source supplies decimal values.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// MoneyFromFloat converts a decimal amount (as found in the statement
// JSON) to cents with half-up rounding.
func MoneyFromFloat(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100))}
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal place. Returns an error
// for invalid formats or negative values.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m - o; the result may be negative (net change).
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Amount returns the decimal value for JSON payloads and chart data.
// Use cents for calculations to avoid floating-point drift.
func (m Money) Amount() float64 {
	return float64(m.Cents) / 100.0
}

// Decimal renders the amount with exactly two decimals and no symbol,
// e.g. "1234.56" or "-20.00".
func (m Money) Decimal() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}

// Format renders the amount with the symbol for the given ISO currency
// code, two decimals, sign ahead of the symbol: "-£20.00". Codes with
// no known symbol fall back to a code prefix: "CHF 20.00".
func (m Money) Format(isoCode string) string {
	sym, ok := currencySymbols[strings.ToUpper(isoCode)]
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	body := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	var out string
	if ok {
		out = sym + body
	} else {
		out = strings.ToUpper(isoCode) + " " + body
	}
	if neg {
		return "-" + out
	}
	return out
}

var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "$",
	"JPY": "¥",
}
