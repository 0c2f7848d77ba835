package compute

import (
	"fmt"

	"github.com/shopspring/decimal"

	"billgen/model"
)

// DeviationRecord compares one work-order line against its executed
// counterpart. Exactly one of the excess and saving pairs is non-zero
// for any record with a quantity difference.
type DeviationRecord struct {
	Serial         string
	Description    string
	Unit           string
	OrderedQty     decimal.Decimal
	OrderedRate    decimal.Decimal
	OrderedAmount  decimal.Decimal
	ExecutedQty    decimal.Decimal
	ExecutedRate   decimal.Decimal
	ExecutedAmount decimal.Decimal
	ExcessQty      decimal.Decimal
	ExcessAmount   decimal.Decimal
	SavingQty      decimal.Decimal
	SavingAmount   decimal.Decimal
	Remark         string
}

// DeviationSummary is the statement's closing block: column totals, the
// tender premium on each, the with-premium grand lines, and the net
// difference between excess and saving.
type DeviationSummary struct {
	OrderedTotal    decimal.Decimal
	ExecutedTotal   decimal.Decimal
	ExcessTotal     decimal.Decimal
	SavingTotal     decimal.Decimal
	OrderedPremium  decimal.Decimal
	ExecutedPremium decimal.Decimal
	ExcessPremium   decimal.Decimal
	SavingPremium   decimal.Decimal
	OrderedGrand    decimal.Decimal
	ExecutedGrand   decimal.Decimal
	ExcessGrand     decimal.Decimal
	SavingGrand     decimal.Decimal
	// NetDifference is ExcessGrand - SavingGrand, sign kept.
	NetDifference decimal.Decimal
	// NetPercent is NetDifference as a percentage of OrderedGrand.
	NetPercent decimal.Decimal
}

// deviations matches work-order and bill-quantity items by serial
// number. Unexecuted order lines become full savings; bill lines with
// no order counterpart become full excess. When the two rates differ
// the executed rate governs the difference amounts.
func deviations(wo, bq model.Section, premium decimal.Decimal) ([]DeviationRecord, DeviationSummary) {
	pending := make(map[string][]int, len(bq.Items))
	for i, it := range bq.Items {
		pending[it.Serial] = append(pending[it.Serial], i)
	}
	ordered := make(map[string]bool, len(wo.Items))
	consumed := make([]bool, len(bq.Items))

	recs := make([]DeviationRecord, 0, len(wo.Items))
	for _, ord := range wo.Items {
		ordered[ord.Serial] = true
		rec := DeviationRecord{
			Serial:        ord.Serial,
			Description:   ord.Description,
			Unit:          ord.Unit,
			OrderedQty:    ord.Quantity,
			OrderedRate:   ord.Rate,
			OrderedAmount: ord.Amount,
		}

		idxs := pending[ord.Serial]
		if len(idxs) == 0 {
			if ord.Quantity.IsPositive() {
				rec.SavingQty = ord.Quantity
				rec.SavingAmount = ord.Amount
				rec.Remark = "not executed"
			}
			recs = append(recs, rec)
			continue
		}

		exec := bq.Items[idxs[0]]
		consumed[idxs[0]] = true
		pending[ord.Serial] = idxs[1:]

		rec.ExecutedQty = exec.Quantity
		rec.ExecutedRate = exec.Rate
		rec.ExecutedAmount = exec.Amount
		rec.Remark = exec.Remark
		if !ord.Rate.Equal(exec.Rate) {
			note := fmt.Sprintf("rate revised from %s to %s", ord.Rate.StringFixed(2), exec.Rate.StringFixed(2))
			if rec.Remark != "" {
				note = rec.Remark + "; " + note
			}
			rec.Remark = note
		}

		diff := exec.Quantity.Sub(ord.Quantity)
		switch {
		case diff.IsPositive():
			rec.ExcessQty = diff
			rec.ExcessAmount = diff.Mul(exec.Rate).Round(2)
		case diff.IsNegative():
			rec.SavingQty = diff.Neg()
			rec.SavingAmount = diff.Neg().Mul(exec.Rate).Round(2)
		}
		recs = append(recs, rec)
	}

	for i, exec := range bq.Items {
		if consumed[i] {
			continue
		}
		remark := "not in work order"
		if ordered[exec.Serial] {
			remark = "duplicate serial in bill"
		}
		rec := DeviationRecord{
			Serial:         exec.Serial,
			Description:    exec.Description,
			Unit:           exec.Unit,
			ExecutedQty:    exec.Quantity,
			ExecutedRate:   exec.Rate,
			ExecutedAmount: exec.Amount,
			Remark:         remark,
		}
		if exec.Quantity.IsPositive() || !exec.Amount.IsZero() {
			rec.ExcessQty = exec.Quantity
			rec.ExcessAmount = exec.Amount
		}
		recs = append(recs, rec)
	}

	return recs, summarize(recs, premium)
}

// summarize folds the records into the closing block.
func summarize(recs []DeviationRecord, premium decimal.Decimal) DeviationSummary {
	var s DeviationSummary
	for _, r := range recs {
		s.OrderedTotal = s.OrderedTotal.Add(r.OrderedAmount)
		s.ExecutedTotal = s.ExecutedTotal.Add(r.ExecutedAmount)
		s.ExcessTotal = s.ExcessTotal.Add(r.ExcessAmount)
		s.SavingTotal = s.SavingTotal.Add(r.SavingAmount)
	}
	s.OrderedTotal = s.OrderedTotal.Round(2)
	s.ExecutedTotal = s.ExecutedTotal.Round(2)
	s.ExcessTotal = s.ExcessTotal.Round(2)
	s.SavingTotal = s.SavingTotal.Round(2)

	s.OrderedPremium = s.OrderedTotal.Mul(premium).Round(2)
	s.ExecutedPremium = s.ExecutedTotal.Mul(premium).Round(2)
	s.ExcessPremium = s.ExcessTotal.Mul(premium).Round(2)
	s.SavingPremium = s.SavingTotal.Mul(premium).Round(2)

	s.OrderedGrand = s.OrderedTotal.Add(s.OrderedPremium)
	s.ExecutedGrand = s.ExecutedTotal.Add(s.ExecutedPremium)
	s.ExcessGrand = s.ExcessTotal.Add(s.ExcessPremium)
	s.SavingGrand = s.SavingTotal.Add(s.SavingPremium)

	s.NetDifference = s.ExcessGrand.Sub(s.SavingGrand)
	if !s.OrderedGrand.IsZero() {
		s.NetPercent = s.NetDifference.Div(s.OrderedGrand).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return s
}
