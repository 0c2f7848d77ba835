package render

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatINR formats a money value in Indian Rupee notation. After the
// rightmost 3 digits, digits group in pairs (₹1,23,45,678.90), always
// with 2 decimal places.
func FormatINR(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	raw := amount.Abs().StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	out := "₹" + indianGrouping(parts[0]) + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// indianGrouping inserts commas using the Indian numbering system: the
// rightmost 3 digits form the first group, then pairs.
func indianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}

// FormatQty prints a quantity bare when whole, otherwise with the
// decimals present in the source, capped at 4.
func FormatQty(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return q.StringFixed(0)
	}
	return q.Round(4).String()
}

// FormatPercent prints a fractional rate as a percentage: 0.05 becomes
// "5%", 0.0475 becomes "4.75%".
func FormatPercent(rate decimal.Decimal) string {
	p := rate.Mul(hundred)
	if p.Equal(p.Truncate(0)) {
		return p.StringFixed(0) + "%"
	}
	return p.Round(2).String() + "%"
}

// FormatDate prints dates the way bills carry them: dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
