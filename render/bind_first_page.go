package render

import "billgen/model"

// bindFirstPage builds the bill's first page: the abstract of work
// executed with the full financial chain.
func bindFirstPage(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindFirstPage)
	if err != nil {
		return nil, err
	}

	table := model.Table{
		Columns: []model.Column{
			{Title: "S.No", Kind: model.CellText, Span: 1},
			{Title: "Description of Item", Kind: model.CellText, Span: 4},
			{Title: "Unit", Kind: model.CellText, Span: 1},
			{Title: "Quantity", Kind: model.CellNumber, Span: 2},
			{Title: "Rate (₹)", Kind: model.CellCurrency, Span: 2},
			{Title: "Amount (₹)", Kind: model.CellCurrency, Span: 2},
		},
		Placeholder: "No items measured in this bill",
	}
	for _, it := range c.m.BillQty.Items {
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
		Title:    "First Page of Bill",
		Subtitle: "Abstract of Work Executed",
		Header:   header,
		Tables:   []model.Table{table},
		Summary:  c.financialSummary(),
		Notes: []string{
			"Net amount payable (in words): " + AmountToWords(c.t.NetPayable),
		},
		Signatures: []string{"Contractor", "Junior Engineer", "Assistant Engineer", "Executive Engineer"},
	}, nil
}

// bindFirstPageDetailed adds the running-bill quantity progression and
// per-item remarks to the first page.
func bindFirstPageDetailed(c *bindContext) (*model.Document, error) {
	header, err := c.standardHeader(model.KindFirstPageDetailed)
	if err != nil {
		return nil, err
	}
	header = append(header, model.Field{
		Label: "M.B. No.",
		Value: c.m.Header.FieldOr(model.KeyMeasurementBook, "N/A"),
	})

	table := model.Table{
		Columns: []model.Column{
			{Title: "S.No", Kind: model.CellText, Span: 1},
			{Title: "Description of Item", Kind: model.CellText, Span: 3},
			{Title: "Unit", Kind: model.CellText, Span: 1},
			{Title: "Qty Upto Previous", Kind: model.CellNumber, Span: 1},
			{Title: "Qty Since Previous", Kind: model.CellNumber, Span: 1},
			{Title: "Qty Upto Date", Kind: model.CellNumber, Span: 1},
			{Title: "Rate (₹)", Kind: model.CellCurrency, Span: 1},
			{Title: "Amount (₹)", Kind: model.CellCurrency, Span: 2},
			{Title: "Remark", Kind: model.CellText, Span: 1},
		},
		Placeholder: "No items measured in this bill",
	}
	for _, it := range c.m.BillQty.Items {
		if isHeading(it) {
			table.Rows = append(table.Rows, model.Row{
				Cells: []model.Cell{
					text(it.Serial), text(it.Description), blank(), blank(), blank(), blank(), blank(), blank(), blank(),
				},
				Emphasis: true,
			})
			continue
		}
		table.Rows = append(table.Rows, model.Row{Cells: []model.Cell{
			text(it.Serial),
			text(it.Description),
			text(it.Unit),
			num(it.PrevQuantity),
			num(it.Quantity.Sub(it.PrevQuantity)),
			num(it.Quantity),
			amt(it.Rate),
			amt(it.Amount),
			text(it.Remark),
		}})
	}

	return &model.Document{
		Title:    "First Page of Bill",
		Subtitle: "Detailed Measurements",
		Header:   header,
		Tables:   []model.Table{table},
		Summary:  c.financialSummary(),
		Notes: []string{
			"Quantities are cumulative upto the date of measurement.",
			"Net amount payable (in words): " + AmountToWords(c.t.NetPayable),
		},
		Signatures: []string{"Contractor", "Junior Engineer", "Assistant Engineer", "Executive Engineer"},
	}, nil
}
