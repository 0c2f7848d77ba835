package render

import (
	"fmt"

	"billgen/model"
)

// bindNoteSheet builds the office note summarizing the bill for the
// sanctioning chain.
func bindNoteSheet(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindNoteSheet)
	if err != nil {
		return nil, err
	}
	header = append(header,
		model.Field{Label: "Division", Value: c.m.Header.FieldOr(model.KeyDivision, "N/A")},
		model.Field{Label: "Sub Division", Value: c.m.Header.FieldOr(model.KeySubDivision, "N/A")},
	)

	t := c.t
	project := c.m.Header.FieldOr(model.KeyProjectName, "N/A")
	agreement := c.m.Header.FieldOr(model.KeyAgreementNo, "N/A")

	notes := []string{
		fmt.Sprintf("1. The bill for %q under Agreement No. %s has been prepared for an executed value of %s.", project, agreement, FormatINR(t.GrandTotal)),
		fmt.Sprintf("2. Tender premium @ %s amounts to %s and GST @ %s amounts to %s.",
			FormatPercent(t.PremiumRate), FormatINR(t.PremiumAmount), FormatPercent(t.GSTRate), FormatINR(t.GSTAmount)),
		fmt.Sprintf("3. Statutory recoveries of %s have been effected as detailed in the scrutiny sheet.", FormatINR(t.TotalDeductions)),
	}
	if !t.ExtraTotal.IsZero() {
		notes = append(notes, fmt.Sprintf("4. Extra items valued at %s (with premium %s) are included vide the sanction references on record.",
			FormatINR(t.ExtraTotal), FormatINR(t.ExtraPremiumAmount)))
	} else {
		notes = append(notes, "4. No extra items are claimed in this bill.")
	}
	s := t.Deviation
	switch {
	case s.NetDifference.IsPositive():
		notes = append(notes, fmt.Sprintf("5. The executed value exceeds the work order by %s (%s).",
			FormatINR(s.NetDifference), FormatPercent(s.NetPercent.Div(hundred))))
	case s.NetDifference.IsNegative():
		notes = append(notes, fmt.Sprintf("5. The executed value falls short of the work order by %s (%s).",
			FormatINR(s.NetDifference.Neg()), FormatPercent(s.NetPercent.Neg().Div(hundred))))
	default:
		notes = append(notes, "5. The executed value matches the work order with no net deviation.")
	}
	notes = append(notes, fmt.Sprintf("6. Net amount of %s (%s) is recommended for payment.",
		FormatINR(t.NetPayable), AmountToWords(t.NetPayable)))

	return &model.Document{
		Title:      "Note Sheet",
		Subtitle:   "Office Note for Bill Processing",
		Header:     header,
		Summary:    c.financialSummary(),
		Notes:      notes,
		Signatures: []string{"Divisional Accountant", "Executive Engineer"},
	}, nil
}

// bindScrutinySheet builds the final bill scrutiny sheet: project
// particulars on one table, recoveries on the other.
func bindScrutinySheet(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindScrutinySheet)
	if err != nil {
		return nil, err
	}

	t := c.t
	hv := func(key string) string { return c.m.Header.FieldOr(key, "N/A") }

	extraFlag := "No"
	if !c.m.ExtraItems.IsEmpty() {
		extraFlag = "Yes"
	}

	particulars := model.Table{
		Caption: "Project Particulars",
		Columns: []model.Column{
			{Title: "Particulars", Kind: model.CellText, Span: 6},
			{Title: "Details", Kind: model.CellText, Span: 6},
		},
		Rows: []model.Row{
			{Cells: []model.Cell{text("Name of Work"), text(hv(model.KeyProjectName))}},
			{Cells: []model.Cell{text("Agreement No."), text(hv(model.KeyAgreementNo))}},
			{Cells: []model.Cell{text("Name of Firm"), text(hv(model.KeyContractorName))}},
			{Cells: []model.Cell{text("Work Order Date"), text(hv(model.KeyWorkOrderDate))}},
			{Cells: []model.Cell{text("Date of Commencement"), text(hv(model.KeyCommencementDate))}},
			{Cells: []model.Cell{text("Due Date of Completion"), text(hv(model.KeyCompletionDate))}},
			{Cells: []model.Cell{text("Actual Date of Completion"), text(hv(model.KeyActualCompletion))}},
			{Cells: []model.Cell{text("M.B. No."), text(hv(model.KeyMeasurementBook))}},
			{Cells: []model.Cell{text("Type of Bill"), text(c.m.Header.FieldOr(model.KeyBillType, "First & Final"))}},
			{Cells: []model.Cell{text("Whether Extra Items Included"), text(extraFlag)}},
			{Cells: []model.Cell{text("Value of Work Done"), {Kind: model.CellCurrency, Value: FormatINR(t.GrandTotal)}}},
			{Cells: []model.Cell{text("Tender Premium @ " + FormatPercent(t.PremiumRate)), {Kind: model.CellCurrency, Value: FormatINR(t.PremiumAmount)}}},
			{Cells: []model.Cell{text("GST @ " + FormatPercent(t.GSTRate)), {Kind: model.CellCurrency, Value: FormatINR(t.GSTAmount)}}},
			{Cells: []model.Cell{text("Total Amount Payable"), {Kind: model.CellCurrency, Value: FormatINR(t.Payable)}}, Emphasis: true},
		},
	}

	recoveries := model.Table{
		Caption: "Deductions and Recoveries",
		Columns: []model.Column{
			{Title: "Deduction", Kind: model.CellText, Span: 6},
			{Title: "Rate", Kind: model.CellPercent, Span: 3},
			{Title: "Amount (₹)", Kind: model.CellCurrency, Span: 3},
		},
	}
	for _, d := range t.Deductions {
		rateCell := text("-")
		if !d.Rate.IsZero() {
			rateCell = model.Cell{Kind: model.CellPercent, Value: FormatPercent(d.Rate)}
		}
		recoveries.Rows = append(recoveries.Rows, model.Row{Cells: []model.Cell{
			text(d.Label), rateCell, amt(d.Amount),
		}})
	}
	recoveries.Rows = append(recoveries.Rows,
		model.Row{Cells: []model.Cell{text("Total Deductions"), blank(), amt(t.TotalDeductions)}, Emphasis: true},
		model.Row{Cells: []model.Cell{text("Amount Payable by Cheque"), blank(), amt(t.NetPayable)}, Emphasis: true},
	)

	return &model.Document{
		Title:  "Final Bill Scrutiny Sheet",
		Header: header,
		Tables: []model.Table{particulars, recoveries},
		Notes: []string{
			"Certified that the arithmetical accuracy of the bill has been checked and the recoveries listed above have been verified.",
			"Amount payable by cheque (in words): " + AmountToWords(t.NetPayable),
		},
		Signatures: []string{"Bill Clerk", "Divisional Accountant", "Executive Engineer"},
	}, nil
}
