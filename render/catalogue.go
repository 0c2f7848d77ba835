package render

import (
	"time"

	"github.com/shopspring/decimal"

	"billgen/compute"
	"billgen/model"
)

// catalogue lists every document binder in generation order. The order
// is also the archive and combined-PDF order; adding a document kind
// means adding an entry here.
var catalogue = []struct {
	kind model.DocumentKind
	bind func(*bindContext) (*model.Document, error)
}{
	{model.KindFirstPage, bindFirstPage},
	{model.KindFirstPageDetailed, bindFirstPageDetailed},
	{model.KindDeviation, bindDeviation},
	{model.KindDeviationDetailed, bindDeviationDetailed},
	{model.KindExtraItems, bindExtraItems},
	{model.KindExtraItemsDetailed, bindExtraItemsDetailed},
	{model.KindCertificateII, bindCertificateII},
	{model.KindCertificateIII, bindCertificateIII},
	{model.KindNoteSheet, bindNoteSheet},
	{model.KindScrutinySheet, bindScrutinySheet},
}

// Kinds returns the document kinds in catalogue order.
func Kinds() []model.DocumentKind {
	out := make([]model.DocumentKind, len(catalogue))
	for i, c := range catalogue {
		out[i] = c.kind
	}
	return out
}

// Result pairs a catalogue kind with its bound document or its binder
// error; exactly one of Doc and Err is set.
type Result struct {
	Kind model.DocumentKind
	Doc  *model.Document
	Err  error
}

// Build binds every catalogue entry against the model and totals.
// Binder failures are document-local: the failed kind carries its error
// and the remaining documents still build.
func Build(m *model.BillModel, t *compute.Totals, at time.Time) []Result {
	ctx := &bindContext{m: m, t: t, at: at}
	out := make([]Result, 0, len(catalogue))
	for _, c := range catalogue {
		doc, err := c.bind(ctx)
		if err != nil {
			out = append(out, Result{Kind: c.kind, Err: err})
			continue
		}
		doc.Kind = c.kind
		out = append(out, Result{Kind: c.kind, Doc: doc})
	}
	return out
}

// bindContext is the shared input of every binder.
type bindContext struct {
	m  *model.BillModel
	t  *compute.Totals
	at time.Time
}

// require returns a header field or the UnboundFieldError that skips
// the document.
func (c *bindContext) require(kind model.DocumentKind, key string) (string, error) {
	v, ok := c.m.Header.Field(key)
	if !ok {
		return "", &model.UnboundFieldError{Kind: kind, Field: key}
	}
	return v, nil
}

// standardHeader assembles the header block every document opens with.
func (c *bindContext) standardHeader(kind model.DocumentKind) ([]model.Field, error) {
	project, err := c.require(kind, model.KeyProjectName)
	if err != nil {
		return nil, err
	}
	firm, err := c.require(kind, model.KeyContractorName)
	if err != nil {
		return nil, err
	}
	agreement, err := c.require(kind, model.KeyAgreementNo)
	if err != nil {
		return nil, err
	}

	return []model.Field{
		{Label: "Name of Work", Value: project},
		{Label: "Agreement No.", Value: agreement},
		{Label: "Name of Firm", Value: firm},
		{Label: "Bill No.", Value: c.m.Header.FieldOr(model.KeyBillSerial, "First & Final")},
		{Label: "Date", Value: FormatDate(c.at)},
	}, nil
}

// financialSummary is the fixed-order closing block: grand total,
// premium, tax, deductions, net payable.
func (c *bindContext) financialSummary() []model.SummaryRow {
	t := c.t
	return []model.SummaryRow{
		{Label: "Total Value of Work Done", Value: FormatINR(t.BillQtyTotal)},
		{Label: "Total of Extra Items", Value: FormatINR(t.ExtraTotal)},
		{Label: "Grand Total", Value: FormatINR(t.GrandTotal), Emphasis: true},
		{Label: "Add Tender Premium @ " + FormatPercent(t.PremiumRate), Value: FormatINR(t.PremiumAmount)},
		{Label: "Add GST @ " + FormatPercent(t.GSTRate), Value: FormatINR(t.GSTAmount)},
		{Label: "Total Amount Payable", Value: FormatINR(t.Payable), Emphasis: true},
		{Label: "Less Total Deductions", Value: FormatINR(t.TotalDeductions)},
		{Label: "Net Payable", Value: FormatINR(t.NetPayable), Emphasis: true},
	}
}

// Cell constructors shared by the binders.

func text(v string) model.Cell {
	return model.Cell{Kind: model.CellText, Value: v}
}

func num(d decimal.Decimal) model.Cell {
	return model.Cell{Kind: model.CellNumber, Value: FormatQty(d)}
}

// amt is a bare 2-decimal money cell; the column title carries the
// currency marker.
func amt(d decimal.Decimal) model.Cell {
	return model.Cell{Kind: model.CellCurrency, Value: d.StringFixed(2)}
}

func blank() model.Cell {
	return model.Cell{Kind: model.CellText, Value: ""}
}

// isHeading reports a group-heading line: description only, no figures.
func isHeading(it model.LineItem) bool {
	return it.Description != "" && it.Quantity.IsZero() && it.Rate.IsZero() && it.Amount.IsZero()
}
