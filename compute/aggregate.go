package compute

import (
	"fmt"

	"github.com/shopspring/decimal"

	"billgen/ingest"
	"billgen/model"
)

// reconcileTolerance is the largest supplied-vs-computed amount gap that
// passes without a warning.
var reconcileTolerance = decimal.NewFromFloat(0.01)

// Rates are the default aggregation rates, usually from configuration.
// Rates declared on the Title sheet win over Premium and GST.
type Rates struct {
	Premium         float64
	GST             float64
	SecurityDeposit float64
	IncomeTax       float64
	GSTTDS          float64
	LabourCess      float64
}

// Deduction is one statutory recovery line. Rate is zero for flat
// amounts such as liquidated damages.
type Deduction struct {
	Label  string
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// Totals carries every figure the document catalogue binds. All money
// values are rounded half-up to 2 decimal places at the step they are
// produced.
type Totals struct {
	WorkOrderTotal decimal.Decimal
	BillQtyTotal   decimal.Decimal
	ExtraTotal     decimal.Decimal
	GrandTotal     decimal.Decimal // BillQtyTotal + ExtraTotal

	PremiumRate   decimal.Decimal
	PremiumAmount decimal.Decimal // GrandTotal * PremiumRate

	ExtraPremiumAmount decimal.Decimal // ExtraTotal * PremiumRate, computed independently
	ExtraItemsExecuted decimal.Decimal // ExtraTotal + ExtraPremiumAmount

	GSTRate   decimal.Decimal
	GSTAmount decimal.Decimal // (GrandTotal + PremiumAmount) * GSTRate
	Payable   decimal.Decimal // GrandTotal + PremiumAmount + GSTAmount

	Deductions      []Deduction
	TotalDeductions decimal.Decimal
	NetPayable      decimal.Decimal // Payable - TotalDeductions

	Deviations []DeviationRecord
	Deviation  DeviationSummary

	Warnings []string
}

// Aggregate computes section totals, the deviation statement, and the
// premium, GST and deduction chain. It fails only on arithmetic
// preconditions; divergent supplied amounts produce warnings and the
// supplied figure stays authoritative.
func Aggregate(m *model.BillModel, rates Rates) (*Totals, error) {
	if err := checkPreconditions(m); err != nil {
		return nil, err
	}

	t := &Totals{}
	t.Warnings = append(t.Warnings, m.Warnings...)

	t.WorkOrderTotal = m.WorkOrder.Total()
	t.BillQtyTotal = m.BillQty.Total()
	t.ExtraTotal = m.ExtraItems.Total()
	t.GrandTotal = t.BillQtyTotal.Add(t.ExtraTotal)

	reconcile(m, t)

	t.PremiumRate = headerRate(m, model.KeyPremiumRate, rates.Premium, t)
	t.PremiumAmount = t.GrandTotal.Mul(t.PremiumRate).Round(2)
	t.ExtraPremiumAmount = t.ExtraTotal.Mul(t.PremiumRate).Round(2)
	t.ExtraItemsExecuted = t.ExtraTotal.Add(t.ExtraPremiumAmount)

	t.GSTRate = headerRate(m, model.KeyGSTRate, rates.GST, t)
	t.GSTAmount = t.GrandTotal.Add(t.PremiumAmount).Mul(t.GSTRate).Round(2)
	t.Payable = t.GrandTotal.Add(t.PremiumAmount).Add(t.GSTAmount)

	t.Deductions = buildDeductions(m, rates, t)
	for _, d := range t.Deductions {
		t.TotalDeductions = t.TotalDeductions.Add(d.Amount)
	}
	t.NetPayable = t.Payable.Sub(t.TotalDeductions)

	t.Deviations, t.Deviation = deviations(m.WorkOrder, m.BillQty, t.PremiumRate)

	return t, nil
}

// checkPreconditions rejects inputs no statutory bill may carry.
func checkPreconditions(m *model.BillModel) error {
	for _, sec := range []model.Section{m.WorkOrder, m.BillQty, m.ExtraItems} {
		for _, it := range sec.Items {
			switch {
			case it.Quantity.IsNegative():
				return &model.ArithmeticPreconditionError{Section: sec.Name, Serial: it.Serial, Reason: "negative quantity"}
			case it.Rate.IsNegative():
				return &model.ArithmeticPreconditionError{Section: sec.Name, Serial: it.Serial, Reason: "negative rate"}
			case it.Amount.IsNegative():
				return &model.ArithmeticPreconditionError{Section: sec.Name, Serial: it.Serial, Reason: "negative amount"}
			}
		}
	}
	return nil
}

// reconcile warns about supplied amounts that diverge from quantity
// times rate beyond the tolerance.
func reconcile(m *model.BillModel, t *Totals) {
	for _, sec := range []model.Section{m.WorkOrder, m.BillQty, m.ExtraItems} {
		for _, it := range sec.Items {
			if !it.AmountGiven {
				continue
			}
			computed := it.Quantity.Mul(it.Rate).Round(2)
			if it.Amount.Sub(computed).Abs().GreaterThan(reconcileTolerance) {
				t.Warnings = append(t.Warnings, fmt.Sprintf(
					"%s item %s: supplied amount %s differs from quantity times rate (%s)",
					sec.Name, it.Serial, it.Amount.StringFixed(2), computed.StringFixed(2)))
			}
		}
	}
}

// headerRate resolves a rate from the Title sheet, falling back to the
// configured default. An unparsable declaration is a warning, not an
// error: the configured rate stands.
func headerRate(m *model.BillModel, key string, fallback float64, t *Totals) decimal.Decimal {
	raw, ok := m.Header.Field(key)
	if !ok {
		return decimal.NewFromFloat(fallback)
	}
	rate, ok := ingest.ParseRate(raw)
	if !ok {
		t.Warnings = append(t.Warnings, fmt.Sprintf("title: %s value %q is not numeric, using the configured rate", key, raw))
		return decimal.NewFromFloat(fallback)
	}
	return rate
}

// buildDeductions assembles the recovery lines on the with-tax payable:
// the four statutory rates plus liquidated damages when declared.
func buildDeductions(m *model.BillModel, rates Rates, t *Totals) []Deduction {
	base := t.Payable
	pct := func(label string, rate float64) Deduction {
		r := decimal.NewFromFloat(rate)
		return Deduction{Label: label, Rate: r, Amount: base.Mul(r).Round(2)}
	}

	ded := []Deduction{
		pct("Security Deposit", rates.SecurityDeposit),
		pct("Income Tax", rates.IncomeTax),
		pct("GST (TDS)", rates.GSTTDS),
		pct("Labour Cess", rates.LabourCess),
	}

	ld := decimal.Zero
	if raw, ok := m.Header.Field(model.KeyLiquidatedDamages); ok {
		v, parsed := ingest.ParseNumber(raw)
		if !parsed {
			t.Warnings = append(t.Warnings, fmt.Sprintf("title: liquidated damages value %q is not numeric, treated as zero", raw))
		} else {
			ld = v.Round(2)
		}
	}
	ded = append(ded, Deduction{Label: "Liquidated Damages", Amount: ld})

	return ded
}
