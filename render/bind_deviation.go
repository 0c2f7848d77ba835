package render

import (
	"billgen/model"
)

// deviationTable lays out the ordered-vs-executed comparison shared by
// both deviation documents.
func deviationTable(c *bindContext) model.Table {
	table := model.Table{
		Columns: []model.Column{
			{Title: "S.No", Kind: model.CellText, Span: 1},
			{Title: "Description of Item", Kind: model.CellText, Span: 2},
			{Title: "Unit", Kind: model.CellText, Span: 1},
			{Title: "Qty as per Work Order", Kind: model.CellNumber, Span: 1},
			{Title: "Rate (₹)", Kind: model.CellCurrency, Span: 1},
			{Title: "Amount as per Work Order (₹)", Kind: model.CellCurrency, Span: 1},
			{Title: "Qty Executed", Kind: model.CellNumber, Span: 1},
			{Title: "Amount Executed (₹)", Kind: model.CellCurrency, Span: 1},
			{Title: "Excess Amount (₹)", Kind: model.CellCurrency, Span: 1},
			{Title: "Saving Amount (₹)", Kind: model.CellCurrency, Span: 1},
			{Title: "Remark", Kind: model.CellText, Span: 1},
		},
		Placeholder: "No deviation between work order and execution",
	}

	for _, d := range c.t.Deviations {
		table.Rows = append(table.Rows, model.Row{Cells: []model.Cell{
			text(d.Serial),
			text(d.Description),
			text(d.Unit),
			num(d.OrderedQty),
			amt(d.OrderedRate),
			amt(d.OrderedAmount),
			num(d.ExecutedQty),
			amt(d.ExecutedAmount),
			amt(d.ExcessAmount),
			amt(d.SavingAmount),
			text(d.Remark),
		}})
	}
	return table
}

// bindDeviation builds the landscape deviation statement.
func bindDeviation(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindDeviation)
	if err != nil {
		return nil, err
	}
	header = append(header, model.Field{
		Label: "Work Order Date",
		Value: c.m.Header.FieldOr(model.KeyWorkOrderDate, "N/A"),
	})

	s := c.t.Deviation
	return &model.Document{
		Title:     "Deviation Statement",
		Landscape: true,
		Header:    header,
		Tables:    []model.Table{deviationTable(c)},
		Summary: []model.SummaryRow{
			{Label: "Total as per Work Order", Value: FormatINR(s.OrderedTotal)},
			{Label: "Total as per Executed", Value: FormatINR(s.ExecutedTotal)},
			{Label: "Total Excess", Value: FormatINR(s.ExcessTotal)},
			{Label: "Total Saving", Value: FormatINR(s.SavingTotal)},
			{Label: "Net Difference", Value: FormatINR(s.NetDifference), Emphasis: true},
		},
		Signatures: []string{"Contractor", "Assistant Engineer", "Executive Engineer"},
	}, nil
}

// bindDeviationDetailed adds the closing summary table: column totals,
// the tender premium on each, the with-premium grand line, and the net
// difference with its percentage.
func bindDeviationDetailed(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindDeviationDetailed)
	if err != nil {
		return nil, err
	}
	header = append(header, model.Field{
		Label: "Work Order Date",
		Value: c.m.Header.FieldOr(model.KeyWorkOrderDate, "N/A"),
	})

	s := c.t.Deviation
	summary := model.Table{
		Caption: "Summary of Deviation",
		Columns: []model.Column{
			{Title: "Particulars", Kind: model.CellText, Span: 4},
			{Title: "As per Work Order (₹)", Kind: model.CellCurrency, Span: 2},
			{Title: "As per Executed (₹)", Kind: model.CellCurrency, Span: 2},
			{Title: "Excess (₹)", Kind: model.CellCurrency, Span: 2},
			{Title: "Saving (₹)", Kind: model.CellCurrency, Span: 2},
		},
		Rows: []model.Row{
			{Cells: []model.Cell{
				text("Total"),
				amt(s.OrderedTotal), amt(s.ExecutedTotal), amt(s.ExcessTotal), amt(s.SavingTotal),
			}},
			{Cells: []model.Cell{
				text("Add Tender Premium @ " + FormatPercent(c.t.PremiumRate)),
				amt(s.OrderedPremium), amt(s.ExecutedPremium), amt(s.ExcessPremium), amt(s.SavingPremium),
			}},
			{Cells: []model.Cell{
				text("Grand Total"),
				amt(s.OrderedGrand), amt(s.ExecutedGrand), amt(s.ExcessGrand), amt(s.SavingGrand),
			}, Emphasis: true},
		},
	}

	return &model.Document{
		Title:     "Deviation Statement",
		Subtitle:  "With Summary of Excess and Saving",
		Landscape: true,
		Header:    header,
		Tables:    []model.Table{deviationTable(c), summary},
		Summary: []model.SummaryRow{
			{Label: "Net Difference (Excess less Saving)", Value: FormatINR(s.NetDifference), Emphasis: true},
			{Label: "Deviation Percentage", Value: FormatPercent(s.NetPercent.Div(hundred))},
		},
		Notes: []string{
			"Excess and saving amounts are valued at the rate governing execution.",
		},
		Signatures: []string{"Contractor", "Assistant Engineer", "Executive Engineer"},
	}, nil
}
