package view

import (
	"strings"

	"github.com/shopspring/decimal"
)

// INR formats an amount the en-IN way: ₹12,34,567 with digits fraction digits.
func INR(d decimal.Decimal, digits int32) string {
	return "₹" + GroupIndian(d, digits)
}

// Money formats d in currency; INR and empty currency use Indian grouping.
func Money(d decimal.Decimal, currency string) string {
	switch strings.ToUpper(currency) {
	case "", "INR":
		return INR(d, 2)
	case "USD":
		return "$" + GroupIndian(d, 2)
	case "EUR":
		return "€" + GroupIndian(d, 2)
	default:
		return GroupIndian(d, 2) + " " + currency
	}
}

// GroupIndian groups the integer part 3-2-2 (12,34,567). Trailing zero
// fractions are dropped, so 1500.00 prints as 1,500.
func GroupIndian(d decimal.Decimal, digits int32) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(digits)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], strings.TrimRight(s[i+1:], "0")
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if len(intPart) <= 3 {
		b.WriteString(intPart)
	} else {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		b.WriteString(strings.Join(groups, ","))
		b.WriteByte(',')
		b.WriteString(tail)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
