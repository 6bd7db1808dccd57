// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering totals as US dollar strings.
package core

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into an exact amount.
//
// Surrounding whitespace is ignored. Sign and range are not checked, so refunds
// expressed as negative amounts are kept as they are. Currency symbols and
// thousands separators are rejected.
//
// Examples:
//
//	ParseAmount("100.00") -> 100
//	ParseAmount(" -12.5 ") -> -12.5
//	ParseAmount("$5")      -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatUSD formats an amount as en-US dollars, e.g. "$1,234.56" or "-$12.00".
// The amount is rounded half away from zero to cents first.
func FormatUSD(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	cents := fixed[strings.IndexByte(fixed, '.'):]
	return sign + "$" + humanize.BigComma(d.BigInt()) + cents
}
