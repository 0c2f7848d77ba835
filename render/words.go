package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountToWords converts a money value to Indian English words, rounded
// half-up to the nearest rupee.
// Example: 913183 becomes "Nine Lakhs Thirteen Thousand One Hundred and
// Eighty Three Rupees Only/-".
func AmountToWords(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "Negative " + AmountToWords(amount.Neg())
	}

	rupees := amount.Round(0).IntPart()
	if rupees == 0 {
		return "Zero Rupees Only/-"
	}
	return indianWords(rupees) + " Rupees Only/-"
}

func indianWords(n int64) string {
	var parts []string

	// The crore count can itself exceed two digits, so it spells out
	// through the same scale recursively.
	if n >= 10000000 {
		parts = append(parts, indianWords(n/10000000)+" Crores")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, underHundred(n/100000)+" Lakhs")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, underHundred(n/1000)+" Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+underHundred(n))
		} else {
			parts = append(parts, underHundred(n))
		}
	}

	return strings.Join(parts, " ")
}

func underHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
