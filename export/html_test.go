package export

import (
	"bytes"
	"strings"
	"testing"

	"billgen/model"
	"billgen/testhelpers"
)

func sampleDocument() *model.Document {
	return &model.Document{
		Kind:     model.KindFirstPage,
		Title:    "First Page of Bill",
		Subtitle: "Abstract of Work Executed",
		Header: []model.Field{
			{Label: "Name of Work", Value: "Construction of Boundary Wall"},
			{Label: "Agreement No.", Value: "12/2025-26"},
		},
		Tables: []model.Table{{
			Columns: []model.Column{
				{Title: "S.No", Kind: model.CellText, Span: 2},
				{Title: "Description", Kind: model.CellText, Span: 6},
				{Title: "Amount (₹)", Kind: model.CellCurrency, Span: 4},
			},
			Rows: []model.Row{
				{Cells: []model.Cell{
					{Kind: model.CellText, Value: "1"},
					{Kind: model.CellText, Value: "Earthwork in excavation"},
					{Kind: model.CellCurrency, Value: "15000.00"},
				}},
				{Cells: []model.Cell{
					{Kind: model.CellText, Value: ""},
					{Kind: model.CellText, Value: "Total"},
					{Kind: model.CellCurrency, Value: "15000.00"},
				}, Emphasis: true},
			},
		}},
		Summary: []model.SummaryRow{
			{Label: "Grand Total", Value: "₹15,000.00", Emphasis: true},
		},
		Notes:      []string{"Measured as per MB-102."},
		Signatures: []string{"Contractor", "Executive Engineer"},
	}
}

func TestWriteHTMLNilDocument(t *testing.T) {
	if _, err := WriteHTML(nil); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestWriteHTMLDeterministic(t *testing.T) {
	doc := sampleDocument()
	first, err := WriteHTML(doc)
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	second, err := WriteHTML(doc)
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("output differs between identical runs")
	}
}

func TestWriteHTMLStructure(t *testing.T) {
	out, err := WriteHTML(sampleDocument())
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	body := string(out)

	testhelpers.AssertContains(t, body,
		"<!DOCTYPE html>",
		`<meta name="generator" content="billgen-print/1">`,
		"<title>First Page of Bill</title>",
		"<h1>First Page of Bill</h1>",
		`<p class="subtitle">Abstract of Work Executed</p>`,
		"<tr><th>Name of Work</th><td>Construction of Boundary Wall</td></tr>",
		"<th>Amount (₹)</th>",
		`<td class="num">15000.00</td>`,
		`<tr class="emph">`,
		`<tr class="emph"><td>Grand Total</td><td class="num">₹15,000.00</td></tr>`,
		"<p>Measured as per MB-102.</p>",
		`<div class="sig">Executive Engineer</div>`,
	)
}

func TestWriteHTMLEscapesValues(t *testing.T) {
	doc := &model.Document{
		Title: `Bill <script> & "quotes"`,
		Notes: []string{"a < b && c > d"},
	}
	out, err := WriteHTML(doc)
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	body := string(out)

	if strings.Contains(body, "<script>") {
		t.Error("unescaped markup in output")
	}
	testhelpers.AssertContains(t, body,
		"Bill &lt;script&gt; &amp; &#34;quotes&#34;",
		"a &lt; b &amp;&amp; c &gt; d",
	)
}

func TestWriteHTMLPlaceholderRow(t *testing.T) {
	doc := &model.Document{
		Title: "Extra Items Statement",
		Tables: []model.Table{{
			Columns: []model.Column{
				{Title: "S.No", Span: 2},
				{Title: "Description", Span: 6},
				{Title: "Amount (₹)", Span: 4},
			},
			Placeholder: "No extra items in this bill",
		}},
	}
	out, err := WriteHTML(doc)
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	testhelpers.AssertContains(t, string(out),
		`<td class="placeholder" colspan="3">No extra items in this bill</td>`,
	)
}

func TestWriteHTMLPageOrientation(t *testing.T) {
	portrait, err := WriteHTML(&model.Document{Title: "First Page of Bill"})
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if !strings.Contains(string(portrait), "@page { size: A4; margin: 10mm; }") {
		t.Error("portrait page rule missing")
	}

	landscape, err := WriteHTML(&model.Document{Title: "Deviation Statement", Landscape: true})
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if !strings.Contains(string(landscape), "@page { size: A4 landscape; margin: 10mm; }") {
		t.Error("landscape page rule missing")
	}
}

func TestWriteHTMLColumnWidths(t *testing.T) {
	out, err := WriteHTML(sampleDocument())
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	testhelpers.AssertContains(t, string(out),
		`<col style="width:16.67%">`,
		`<col style="width:50.00%">`,
		`<col style="width:33.33%">`,
	)
}
