package render

import (
	"fmt"

	"billgen/model"
)

// bindCertificateII builds the work completion certificate: the
// numbered certifications an officer signs before payment is processed.
func bindCertificateII(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindCertificateII)
	if err != nil {
		return nil, err
	}

	mbNo := c.m.Header.FieldOr(model.KeyMeasurementBook, "N/A")
	completed := c.m.Header.FieldOr(model.KeyActualCompletion,
		c.m.Header.FieldOr(model.KeyCompletionDate, "N/A"))

	notes := []string{
		fmt.Sprintf("1. Certified that the work has been executed as per the terms and conditions of the agreement and the measurements are recorded in Measurement Book No. %s.", mbNo),
		"2. Certified that the quality of the work executed conforms to the specifications laid down in the agreement and has been test checked.",
		fmt.Sprintf("3. Certified that the work was completed on %s and has been taken over by the department.", completed),
		"4. Certified that no departmental materials remain unaccounted against the contractor for this work.",
		fmt.Sprintf("5. Certified that an amount of %s (%s) is due to the contractor against this bill and no part of it has been paid before.",
			FormatINR(c.t.NetPayable), AmountToWords(c.t.NetPayable)),
	}

	return &model.Document{
		Title:      "Certificate II",
		Subtitle:   "Certificate of Completion of Work",
		Header:     header,
		Summary:    c.financialSummary(),
		Notes:      notes,
		Signatures: []string{"Junior Engineer", "Assistant Engineer", "Executive Engineer"},
	}, nil
}

// bindCertificateIII builds the memorandum of payment: the figures a
// drawing officer authorizes, deduction by deduction.
func bindCertificateIII(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindCertificateIII)
	if err != nil {
		return nil, err
	}

	t := c.t
	table := model.Table{
		Caption: "Memorandum of Payment",
		Columns: []model.Column{
			{Title: "Particulars", Kind: model.CellText, Span: 9},
			{Title: "Amount (₹)", Kind: model.CellCurrency, Span: 3},
		},
	}
	addRow := func(label string, cell model.Cell, emphasis bool) {
		table.Rows = append(table.Rows, model.Row{
			Cells:    []model.Cell{text(label), cell},
			Emphasis: emphasis,
		})
	}

	addRow("Total value of work executed (including tender premium)", amt(t.GrandTotal.Add(t.PremiumAmount)), false)
	addRow("Add GST @ "+FormatPercent(t.GSTRate), amt(t.GSTAmount), false)
	addRow("Total amount payable", amt(t.Payable), true)
	for _, d := range t.Deductions {
		label := "Less: " + d.Label
		if !d.Rate.IsZero() {
			label += " @ " + FormatPercent(d.Rate)
		}
		addRow(label, amt(d.Amount), false)
	}
	addRow("Total recoveries", amt(t.TotalDeductions), true)
	addRow("Net amount payable to the contractor", amt(t.NetPayable), true)

	return &model.Document{
		Title:    "Certificate III",
		Subtitle: "Memorandum of Payment",
		Header:   header,
		Tables:   []model.Table{table},
		Notes: []string{
			fmt.Sprintf("Pay %s (%s) by cheque.", FormatINR(t.NetPayable), AmountToWords(t.NetPayable)),
			"Received the net amount stated above in full settlement of this bill.",
		},
		Signatures: []string{"Contractor", "Divisional Accountant", "Executive Engineer"},
	}, nil
}
