package render

import "billgen/model"

// extraSummary is the independent premium chain the extra-items
// statement closes with.
func extraSummary(c *bindContext) []model.SummaryRow {
	t := c.t
	return []model.SummaryRow{
		{Label: "Total of Extra Items", Value: FormatINR(t.ExtraTotal)},
		{Label: "Add Tender Premium @ " + FormatPercent(t.PremiumRate), Value: FormatINR(t.ExtraPremiumAmount)},
		{Label: "Total Amount of Extra Item Executed", Value: FormatINR(t.ExtraItemsExecuted), Emphasis: true},
	}
}

// bindExtraItems builds the extra-items statement. An empty section
// still produces the document, carrying its placeholder row.
func bindExtraItems(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindExtraItems)
	if err != nil {
		return nil, err
	}

	table := model.Table{
		Columns: []model.Column{
			{Title: "S.No", Kind: model.CellText, Span: 1},
			{Title: "Description of Extra Item", Kind: model.CellText, Span: 5},
			{Title: "Unit", Kind: model.CellText, Span: 1},
			{Title: "Quantity", Kind: model.CellNumber, Span: 1},
			{Title: "Rate (₹)", Kind: model.CellCurrency, Span: 2},
			{Title: "Amount (₹)", Kind: model.CellCurrency, Span: 2},
		},
		Placeholder: "No extra items in this bill",
	}
	for _, it := range c.m.ExtraItems.Items {
		if isHeading(it) {
			table.Rows = append(table.Rows, model.Row{
				Cells:    []model.Cell{text(it.Serial), text(it.Description), blank(), blank(), blank(), blank()},
				Emphasis: true,
			})
			continue
		}
		table.Rows = append(table.Rows, model.Row{Cells: []model.Cell{
			text(it.Serial),
			text(it.Description),
			text(it.Unit),
			num(it.Quantity),
			amt(it.Rate),
			amt(it.Amount),
		}})
	}

	return &model.Document{
		Title:      "Extra Items Statement",
		Header:     header,
		Tables:     []model.Table{table},
		Summary:    extraSummary(c),
		Signatures: []string{"Contractor", "Assistant Engineer", "Executive Engineer"},
	}, nil
}

// bindExtraItemsDetailed adds the sanction reference and remark columns.
func bindExtraItemsDetailed(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindExtraItemsDetailed)
	if err != nil {
		return nil, err
	}

	table := model.Table{
		Columns: []model.Column{
			{Title: "S.No", Kind: model.CellText, Span: 1},
			{Title: "Description of Extra Item", Kind: model.CellText, Span: 3},
			{Title: "Approval Reference", Kind: model.CellText, Span: 2},
			{Title: "Unit", Kind: model.CellText, Span: 1},
			{Title: "Quantity", Kind: model.CellNumber, Span: 1},
			{Title: "Rate (₹)", Kind: model.CellCurrency, Span: 1},
			{Title: "Amount (₹)", Kind: model.CellCurrency, Span: 2},
			{Title: "Remark", Kind: model.CellText, Span: 1},
		},
		Placeholder: "No extra items in this bill",
	}
	for _, it := range c.m.ExtraItems.Items {
		if isHeading(it) {
			table.Rows = append(table.Rows, model.Row{
				Cells: []model.Cell{
					text(it.Serial), text(it.Description), blank(), blank(), blank(), blank(), blank(), blank(),
				},
				Emphasis: true,
			})
			continue
		}
		table.Rows = append(table.Rows, model.Row{Cells: []model.Cell{
			text(it.Serial),
			text(it.Description),
			text(it.ApprovalRef),
			text(it.Unit),
			num(it.Quantity),
			amt(it.Rate),
			amt(it.Amount),
			text(it.Remark),
		}})
	}

	notes := []string{
		"Extra items are payable only against competent sanction.",
	}
	if !c.t.ExtraItemsExecuted.IsZero() {
		notes = append(notes, "Total amount of extra items (in words): "+AmountToWords(c.t.ExtraItemsExecuted))
	}

	return &model.Document{
		Title:      "Extra Items Statement",
		Subtitle:   "With Sanction References",
		Header:     header,
		Tables:     []model.Table{table},
		Summary:    extraSummary(c),
		Notes:      notes,
		Signatures: []string{"Contractor", "Assistant Engineer", "Executive Engineer"},
	}, nil
}
