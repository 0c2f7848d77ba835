package ingest

import (
	"strings"

	"github.com/shopspring/decimal"
)

// zeroTokens are cell values clerks write to mean "nothing here".
var zeroTokens = map[string]bool{
	"n/a":  true,
	"na":   true,
	"nil":  true,
	"none": true,
	"-":    true,
	"--":   true,
}

var oneHundred = decimal.NewFromInt(100)

// ParseNumber coerces a spreadsheet cell into a decimal. Blank cells and
// zero tokens coerce to zero; currency markers, commas and inner spaces
// are stripped; a trailing % divides by 100. ok is false when the cell
// is genuinely non-numeric.
func ParseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || zeroTokens[strings.ToLower(s)] {
		return decimal.Zero, true
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")

	s = strings.NewReplacer("₹", "", "$", "", ",", "", " ", "").Replace(s)
	if low := strings.ToLower(s); strings.HasPrefix(low, "rs.") {
		s = s[3:]
	} else if strings.HasPrefix(low, "rs") {
		s = s[2:]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if percent {
		d = d.Div(oneHundred)
	}
	return d, true
}

// ParseRate reads a rate cell that clerks write three ways: "5%", "5"
// and "0.05" all mean five percent. Values above 1 are percent points.
func ParseRate(raw string) (decimal.Decimal, bool) {
	d, ok := ParseNumber(raw)
	if !ok {
		return decimal.Zero, false
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(oneHundred)
	}
	return d, true
}

// unquoteCell drops the quote prefix spreadsheet writers put before
// cells starting with a formula character. The quote marks the cell as
// text; it is not content, so "'-do-" reads back as "-do-".
func unquoteCell(s string) string {
	if len(s) >= 2 && s[0] == '\'' {
		switch s[1] {
		case '=', '+', '-', '@', '\t', '\r', '|':
			return s[1:]
		}
	}
	return s
}
