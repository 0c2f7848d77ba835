package render

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"zero", "0", "₹0.00"},
		{"under_thousand", "999", "₹999.00"},
		{"thousand", "1000", "₹1,000.00"},
		{"plain_thousands", "1234.5", "₹1,234.50"},
		{"lakh", "123456.78", "₹1,23,456.78"},
		{"crore", "12345678.9", "₹1,23,45,678.90"},
		{"hundred_crore", "1234567890", "₹1,23,45,67,890.00"},
		{"negative", "-500", "-₹500.00"},
		{"negative_lakh", "-150000", "-₹1,50,000.00"},
		{"paise_only", "0.05", "₹0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatINR(decimal.RequireFromString(tt.amount))
			if got != tt.want {
				t.Errorf("FormatINR(%s) = %q, want %q", tt.amount, got, tt.want)
			}
		})
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		name string
		qty  string
		want string
	}{
		{"whole", "100", "100"},
		{"whole_with_zero_fraction", "25.00", "25"},
		{"two_places", "95.50", "95.5"},
		{"four_places", "3.1416", "3.1416"},
		{"rounds_beyond_four", "2.123456", "2.1235"},
		{"zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatQty(decimal.RequireFromString(tt.qty))
			if got != tt.want {
				t.Errorf("FormatQty(%s) = %q, want %q", tt.qty, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name string
		rate string
		want string
	}{
		{"five", "0.05", "5%"},
		{"eighteen", "0.18", "18%"},
		{"fractional", "0.0475", "4.75%"},
		{"zero", "0", "0%"},
		{"full", "1", "100%"},
		{"above_full", "1.5", "150%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPercent(decimal.RequireFromString(tt.rate))
			if got != tt.want {
				t.Errorf("FormatPercent(%s) = %q, want %q", tt.rate, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2026, time.March, 31, 10, 30, 0, 0, time.UTC))
	if got != "31/03/2026" {
		t.Errorf("FormatDate = %q, want %q", got, "31/03/2026")
	}
}
