package models

import (
	"math"
	"strconv"
	"strings"
)

// Num applies the uniform numeric coercion policy: any value that is not a
// finite number counts as 0. Every stored monetary or count field passes
// through this before feeding a sum, so rollups stay consistent under
// partially populated records.
func Num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseNum parses a decimal string under the same coercion policy: anything
// that does not parse to a finite number is 0.
func ParseNum(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Num(v)
}

// FormatCurrency renders an amount as Indian rupees with en-IN digit
// grouping and at most two fraction digits. Non-finite amounts render as the
// zero string; negative amounts keep their sign.
func FormatCurrency(amount float64) string {
	v := Num(amount)
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := "₹" + groupIndian(intPart)
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// groupIndian inserts en-IN thousand separators: the last three digits form
// one group, everything before that is grouped in pairs (12,34,567).
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)

	return strings.Join(groups, ",")
}
