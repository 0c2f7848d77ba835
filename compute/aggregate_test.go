package compute

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"billgen/model"
)

var testRates = Rates{
	Premium:         0.05,
	GST:             0.18,
	SecurityDeposit: 0.10,
	IncomeTax:       0.02,
	GSTTDS:          0.02,
	LabourCess:      0.01,
}

func item(serial, desc string, qty, rate float64) model.LineItem {
	q := decimal.NewFromFloat(qty)
	r := decimal.NewFromFloat(rate)
	return model.LineItem{
		Serial:      serial,
		Description: desc,
		Unit:        "Cum",
		Quantity:    q,
		Rate:        r,
		Amount:      q.Mul(r).Round(2),
	}
}

func newModel(wo, bq, extra []model.LineItem) *model.BillModel {
	return &model.BillModel{
		WorkOrder:  model.Section{Name: model.SectionWorkOrder, Items: wo},
		BillQty:    model.Section{Name: model.SectionBillQty, Items: bq},
		ExtraItems: model.Section{Name: model.SectionExtraItems, Items: extra},
	}
}

func assertFixed(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if got.StringFixed(2) != want {
		t.Errorf("%s = %s, want %s", name, got.StringFixed(2), want)
	}
}

func TestAggregateChain(t *testing.T) {
	m := newModel(
		[]model.LineItem{item("1", "Earthwork in excavation", 100, 150)},
		[]model.LineItem{item("1", "Earthwork in excavation", 95, 150)},
		nil,
	)

	tot, err := Aggregate(m, testRates)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	assertFixed(t, "WorkOrderTotal", tot.WorkOrderTotal, "15000.00")
	assertFixed(t, "BillQtyTotal", tot.BillQtyTotal, "14250.00")
	assertFixed(t, "GrandTotal", tot.GrandTotal, "14250.00")
	assertFixed(t, "PremiumAmount", tot.PremiumAmount, "712.50")
	assertFixed(t, "GSTAmount", tot.GSTAmount, "2693.25")
	assertFixed(t, "Payable", tot.Payable, "17655.75")
	assertFixed(t, "TotalDeductions", tot.TotalDeductions, "2648.38")
	assertFixed(t, "NetPayable", tot.NetPayable, "15007.37")

	if len(tot.Deductions) != 5 {
		t.Fatalf("deductions = %d, want 5", len(tot.Deductions))
	}
	assertFixed(t, "SecurityDeposit", tot.Deductions[0].Amount, "1765.58")
	assertFixed(t, "IncomeTax", tot.Deductions[1].Amount, "353.12")
	assertFixed(t, "GST TDS", tot.Deductions[2].Amount, "353.12")
	assertFixed(t, "LabourCess", tot.Deductions[3].Amount, "176.56")
	assertFixed(t, "LiquidatedDamages", tot.Deductions[4].Amount, "0.00")

	// The unexecuted 5 Cum shows up as a saving.
	assertFixed(t, "SavingTotal", tot.Deviation.SavingTotal, "750.00")
	assertFixed(t, "SavingGrand", tot.Deviation.SavingGrand, "787.50")
	assertFixed(t, "NetDifference", tot.Deviation.NetDifference, "-787.50")
	assertFixed(t, "NetPercent", tot.Deviation.NetPercent, "-5.00")
}

func TestAggregateExtraItemsChain(t *testing.T) {
	m := newModel(
		[]model.LineItem{item("1", "Earthwork", 100, 150)},
		[]model.LineItem{item("1", "Earthwork", 95, 150)},
		[]model.LineItem{item("1", "Apron", 10, 450)},
	)

	tot, err := Aggregate(m, testRates)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	assertFixed(t, "ExtraTotal", tot.ExtraTotal, "4500.00")
	assertFixed(t, "GrandTotal", tot.GrandTotal, "18750.00")
	// The extra-items premium is computed on the extra total alone.
	assertFixed(t, "ExtraPremiumAmount", tot.ExtraPremiumAmount, "225.00")
	assertFixed(t, "ExtraItemsExecuted", tot.ExtraItemsExecuted, "4725.00")
}

func TestAggregateHeaderPremiumWins(t *testing.T) {
	m := newModel(
		[]model.LineItem{item("1", "Earthwork", 10, 100)},
		[]model.LineItem{item("1", "Earthwork", 10, 100)},
		nil,
	)
	m.Header.Set(model.KeyPremiumRate, "10")

	tot, err := Aggregate(m, testRates)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	assertFixed(t, "PremiumRate", tot.PremiumRate, "0.10")
	assertFixed(t, "PremiumAmount", tot.PremiumAmount, "100.00")
}

func TestAggregateHeaderRateUnparsable(t *testing.T) {
	m := newModel(
		[]model.LineItem{item("1", "Earthwork", 10, 100)},
		[]model.LineItem{item("1", "Earthwork", 10, 100)},
		nil,
	)
	m.Header.Set(model.KeyPremiumRate, "ten percent")

	tot, err := Aggregate(m, testRates)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	// The configured rate stands and the bad declaration is warned about.
	assertFixed(t, "PremiumRate", tot.PremiumRate, "0.05")
	if len(tot.Warnings) != 1 || !strings.Contains(tot.Warnings[0], "premium_rate") {
		t.Errorf("warnings = %v, want one naming premium_rate", tot.Warnings)
	}
}

func TestAggregateLiquidatedDamages(t *testing.T) {
	tests := []struct {
		name        string
		declared    string
		wantAmount  string
		wantWarning bool
	}{
		{"flat_amount", "2,500", "2500.00", false},
		{"zero_token", "n/a", "0.00", false},
		{"unparsable", "waived", "0.00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(
				[]model.LineItem{item("1", "Earthwork", 10, 100)},
				[]model.LineItem{item("1", "Earthwork", 10, 100)},
				nil,
			)
			m.Header.Set(model.KeyLiquidatedDamages, tt.declared)

			tot, err := Aggregate(m, testRates)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			ld := tot.Deductions[len(tot.Deductions)-1]
			if ld.Label != "Liquidated Damages" {
				t.Fatalf("last deduction = %q", ld.Label)
			}
			assertFixed(t, "LD amount", ld.Amount, tt.wantAmount)
			if !ld.Rate.IsZero() {
				t.Errorf("LD rate = %s, want zero (flat deduction)", ld.Rate)
			}
			warned := len(tot.Warnings) > 0
			if warned != tt.wantWarning {
				t.Errorf("warnings = %v, wantWarning %v", tot.Warnings, tt.wantWarning)
			}
		})
	}
}

func TestAggregateReconcileWarning(t *testing.T) {
	supplied := item("1", "Earthwork", 10, 95)
	supplied.Amount = decimal.NewFromInt(1000)
	supplied.AmountGiven = true

	m := newModel(
		[]model.LineItem{item("1", "Earthwork", 10, 95)},
		[]model.LineItem{supplied},
		nil,
	)

	tot, err := Aggregate(m, testRates)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	// The supplied amount stays authoritative.
	assertFixed(t, "BillQtyTotal", tot.BillQtyTotal, "1000.00")
	if len(tot.Warnings) != 1 || !strings.Contains(tot.Warnings[0], "differs from quantity times rate") {
		t.Errorf("warnings = %v, want one reconciliation warning", tot.Warnings)
	}
}

func TestAggregateNegativeQuantity(t *testing.T) {
	bad := item("2", "Impossible", -1, 100)
	m := newModel(
		[]model.LineItem{item("1", "Earthwork", 10, 100)},
		[]model.LineItem{item("1", "Earthwork", 10, 100), bad},
		nil,
	)

	_, err := Aggregate(m, testRates)
	var preErr *model.ArithmeticPreconditionError
	if !errors.As(err, &preErr) {
		t.Fatalf("Aggregate() error = %v, want ArithmeticPreconditionError", err)
	}
	if preErr.Section != model.SectionBillQty || preErr.Serial != "2" || preErr.Reason != "negative quantity" {
		t.Errorf("precondition error = %+v", preErr)
	}
}

func TestAggregateNetPayableIdentity(t *testing.T) {
	cases := []struct {
		name  string
		rates Rates
	}{
		{"standard", testRates},
		{"zero_premium", Rates{GST: 0.18, SecurityDeposit: 0.10, IncomeTax: 0.02, GSTTDS: 0.02, LabourCess: 0.01}},
		{"zero_everything", Rates{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newModel(
				[]model.LineItem{item("1", "Earthwork", 33, 123.45)},
				[]model.LineItem{item("1", "Earthwork", 31, 123.45)},
				[]model.LineItem{item("1", "Apron", 7, 89.99)},
			)
			m.Header.Set(model.KeyLiquidatedDamages, "150")

			tot, err := Aggregate(m, tc.rates)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}

			sum := decimal.Zero
			for _, d := range tot.Deductions {
				sum = sum.Add(d.Amount)
			}
			if !sum.Equal(tot.TotalDeductions) {
				t.Errorf("deduction rows sum to %s, TotalDeductions = %s", sum, tot.TotalDeductions)
			}
			if !tot.Payable.Sub(tot.TotalDeductions).Equal(tot.NetPayable) {
				t.Errorf("Payable %s - TotalDeductions %s != NetPayable %s",
					tot.Payable, tot.TotalDeductions, tot.NetPayable)
			}
		})
	}
}
