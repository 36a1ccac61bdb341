// Package core provides amount parsing and formatting utilities.
//
// Amounts are plain float64 values. Aggregation goes through decimal
// arithmetic (see summary.go) so sums do not depend on record order.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts user input to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional sign. Empty, malformed and non-finite values return ErrInvalidAmount.
//
// Examples:
//   ParseAmount("12.34")  -> 12.34, nil
//   ParseAmount("12,34")  -> 12.34, nil
//   ParseAmount("-5")     -> -5, nil
//   ParseAmount("NaN")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount renders the shortest text that parses back to f.
// Integral values keep a trailing ".0" to match files written by the
// first version of the program.
func FormatAmount(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
