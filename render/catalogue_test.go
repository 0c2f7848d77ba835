package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"billgen/compute"
	"billgen/model"
)

var buildAt = time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)

func catalogueRates() compute.Rates {
	return compute.Rates{
		Premium:         0.05,
		GST:             0.18,
		SecurityDeposit: 0.10,
		IncomeTax:       0.02,
		GSTTDS:          0.02,
		LabourCess:      0.01,
	}
}

func lineItem(serial, desc, unit string, qty, rate int64) model.LineItem {
	q := decimal.NewFromInt(qty)
	r := decimal.NewFromInt(rate)
	return model.LineItem{
		Serial:      serial,
		Description: desc,
		Unit:        unit,
		Quantity:    q,
		Rate:        r,
		Amount:      q.Mul(r).Round(2),
	}
}

func setStandardHeader(m *model.BillModel) {
	m.Header.Set(model.KeyProjectName, "Construction of Boundary Wall at District Office")
	m.Header.Set(model.KeyAgreementNo, "12/2025-26")
	m.Header.Set(model.KeyContractorName, "M/s Sharma Constructions")
	m.Header.Set(model.KeyPremiumRate, "5%")
	m.Header.Set(model.KeyMeasurementBook, "MB-102")
	m.Header.Set(model.KeyCompletionDate, "31/03/2026")
	m.Header.Set(model.KeyDivision, "PWD Division II")
}

// billModel is a one-item-per-section bill with a known chain:
// grand 18750.00, premium 937.50, GST 3543.75, payable 23231.25,
// deductions 3484.70, net 19746.55.
func billModel(t *testing.T) (*model.BillModel, *compute.Totals) {
	t.Helper()

	extra := lineItem("E1", "Providing weep holes", "No.", 10, 450)
	extra.ApprovalRef = "EE/EXT/07"

	m := &model.BillModel{
		WorkOrder: model.Section{
			Name:  model.SectionWorkOrder,
			Items: []model.LineItem{lineItem("1", "Earthwork in excavation", "Cum", 100, 150)},
		},
		BillQty: model.Section{
			Name:  model.SectionBillQty,
			Items: []model.LineItem{lineItem("1", "Earthwork in excavation", "Cum", 95, 150)},
		},
		ExtraItems: model.Section{
			Name:  model.SectionExtraItems,
			Items: []model.LineItem{extra},
		},
	}
	setStandardHeader(m)

	totals, err := compute.Aggregate(m, catalogueRates())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	return m, totals
}

func docByKind(t *testing.T, results []Result, kind model.DocumentKind) *model.Document {
	t.Helper()
	for _, r := range results {
		if r.Kind != kind {
			continue
		}
		if r.Err != nil {
			t.Fatalf("%s: unexpected binder error: %v", kind, r.Err)
		}
		return r.Doc
	}
	t.Fatalf("kind %s not in results", kind)
	return nil
}

func TestBuildCatalogueOrder(t *testing.T) {
	m, totals := billModel(t)
	results := Build(m, totals, buildAt)

	kinds := Kinds()
	if len(results) != len(kinds) {
		t.Fatalf("got %d results, want %d", len(results), len(kinds))
	}
	for i, r := range results {
		if r.Kind != kinds[i] {
			t.Errorf("result %d: kind = %s, want %s", i, r.Kind, kinds[i])
		}
		if r.Err != nil {
			t.Errorf("%s: unexpected error: %v", r.Kind, r.Err)
			continue
		}
		if r.Doc == nil {
			t.Errorf("%s: nil document", r.Kind)
			continue
		}
		if r.Doc.Kind != r.Kind {
			t.Errorf("%s: document kind = %s", r.Kind, r.Doc.Kind)
		}
	}
}

func TestBuildTitles(t *testing.T) {
	m, totals := billModel(t)
	results := Build(m, totals, buildAt)

	want := map[model.DocumentKind][2]string{
		model.KindFirstPage:          {"First Page of Bill", "Abstract of Work Executed"},
		model.KindFirstPageDetailed:  {"First Page of Bill", "Detailed Measurements"},
		model.KindDeviation:          {"Deviation Statement", ""},
		model.KindDeviationDetailed:  {"Deviation Statement", "With Summary of Excess and Saving"},
		model.KindExtraItems:         {"Extra Items Statement", ""},
		model.KindExtraItemsDetailed: {"Extra Items Statement", "With Sanction References"},
		model.KindCertificateII:      {"Certificate II", "Certificate of Completion of Work"},
		model.KindCertificateIII:     {"Certificate III", "Memorandum of Payment"},
		model.KindNoteSheet:          {"Note Sheet", "Office Note for Bill Processing"},
		model.KindScrutinySheet:      {"Final Bill Scrutiny Sheet", ""},
	}

	for _, r := range results {
		w, ok := want[r.Kind]
		if !ok {
			t.Errorf("unexpected kind %s", r.Kind)
			continue
		}
		if r.Doc.Title != w[0] {
			t.Errorf("%s: title = %q, want %q", r.Kind, r.Doc.Title, w[0])
		}
		if r.Doc.Subtitle != w[1] {
			t.Errorf("%s: subtitle = %q, want %q", r.Kind, r.Doc.Subtitle, w[1])
		}
	}
}

func TestBuildLandscapeFlags(t *testing.T) {
	m, totals := billModel(t)
	for _, r := range Build(m, totals, buildAt) {
		want := r.Kind == model.KindDeviation || r.Kind == model.KindDeviationDetailed
		if r.Doc.Landscape != want {
			t.Errorf("%s: landscape = %v, want %v", r.Kind, r.Doc.Landscape, want)
		}
	}
}

func TestColumnSpansTotalTwelve(t *testing.T) {
	m, totals := billModel(t)
	for _, r := range Build(m, totals, buildAt) {
		for ti, table := range r.Doc.Tables {
			sum := 0
			for _, col := range table.Columns {
				sum += col.Span
			}
			if sum != 12 {
				t.Errorf("%s table %d: spans sum to %d, want 12", r.Kind, ti, sum)
			}
		}
	}
}

func TestStandardHeaderBlock(t *testing.T) {
	m, totals := billModel(t)
	doc := docByKind(t, Build(m, totals, buildAt), model.KindFirstPage)

	want := []model.Field{
		{Label: "Name of Work", Value: "Construction of Boundary Wall at District Office"},
		{Label: "Agreement No.", Value: "12/2025-26"},
		{Label: "Name of Firm", Value: "M/s Sharma Constructions"},
		{Label: "Bill No.", Value: "First & Final"},
		{Label: "Date", Value: "10/04/2026"},
	}
	if len(doc.Header) != len(want) {
		t.Fatalf("header has %d fields, want %d", len(doc.Header), len(want))
	}
	for i, f := range want {
		if doc.Header[i] != f {
			t.Errorf("header[%d] = %+v, want %+v", i, doc.Header[i], f)
		}
	}
}

func TestFinancialSummary(t *testing.T) {
	m, totals := billModel(t)
	doc := docByKind(t, Build(m, totals, buildAt), model.KindFirstPage)

	want := []model.SummaryRow{
		{Label: "Total Value of Work Done", Value: "₹14,250.00"},
		{Label: "Total of Extra Items", Value: "₹4,500.00"},
		{Label: "Grand Total", Value: "₹18,750.00", Emphasis: true},
		{Label: "Add Tender Premium @ 5%", Value: "₹937.50"},
		{Label: "Add GST @ 18%", Value: "₹3,543.75"},
		{Label: "Total Amount Payable", Value: "₹23,231.25", Emphasis: true},
		{Label: "Less Total Deductions", Value: "₹3,484.70"},
		{Label: "Net Payable", Value: "₹19,746.55", Emphasis: true},
	}
	if len(doc.Summary) != len(want) {
		t.Fatalf("summary has %d rows, want %d", len(doc.Summary), len(want))
	}
	for i, row := range want {
		if doc.Summary[i] != row {
			t.Errorf("summary[%d] = %+v, want %+v", i, doc.Summary[i], row)
		}
	}
}

func TestDeviationDocuments(t *testing.T) {
	m, totals := billModel(t)
	results := Build(m, totals, buildAt)

	base := docByKind(t, results, model.KindDeviation)
	if len(base.Tables) != 1 {
		t.Fatalf("deviation statement has %d tables, want 1", len(base.Tables))
	}
	if len(base.Tables[0].Rows) != 1 {
		t.Fatalf("deviation table has %d rows, want 1", len(base.Tables[0].Rows))
	}
	row := base.Tables[0].Rows[0]
	wantCells := []string{"1", "Earthwork in excavation", "Cum", "100", "150.00", "15000.00", "95", "14250.00", "0.00", "750.00", ""}
	if len(row.Cells) != len(wantCells) {
		t.Fatalf("deviation row has %d cells, want %d", len(row.Cells), len(wantCells))
	}
	for i, w := range wantCells {
		if row.Cells[i].Value != w {
			t.Errorf("cell %d = %q, want %q", i, row.Cells[i].Value, w)
		}
	}
	wantSummary := []model.SummaryRow{
		{Label: "Total as per Work Order", Value: "₹15,000.00"},
		{Label: "Total as per Executed", Value: "₹14,250.00"},
		{Label: "Total Excess", Value: "₹0.00"},
		{Label: "Total Saving", Value: "₹750.00"},
		{Label: "Net Difference", Value: "-₹787.50", Emphasis: true},
	}
	if len(base.Summary) != len(wantSummary) {
		t.Fatalf("deviation summary has %d rows, want %d", len(base.Summary), len(wantSummary))
	}
	for i, w := range wantSummary {
		if base.Summary[i] != w {
			t.Errorf("summary[%d] = %+v, want %+v", i, base.Summary[i], w)
		}
	}

	detailed := docByKind(t, results, model.KindDeviationDetailed)
	if len(detailed.Tables) != 2 {
		t.Fatalf("detailed deviation has %d tables, want 2", len(detailed.Tables))
	}
	summary := detailed.Tables[1]
	if summary.Caption != "Summary of Deviation" {
		t.Errorf("summary caption = %q", summary.Caption)
	}
	if len(summary.Rows) != 3 {
		t.Fatalf("summary table has %d rows, want 3", len(summary.Rows))
	}
	grand := summary.Rows[2]
	if !grand.Emphasis {
		t.Error("grand total row not emphasised")
	}
	wantGrand := []string{"Grand Total", "15750.00", "14962.50", "0.00", "787.50"}
	for i, w := range wantGrand {
		if grand.Cells[i].Value != w {
			t.Errorf("grand cell %d = %q, want %q", i, grand.Cells[i].Value, w)
		}
	}
	if got := detailed.Summary[1].Value; got != "-5%" {
		t.Errorf("deviation percentage = %q, want %q", got, "-5%")
	}
}

func TestCertificateThree(t *testing.T) {
	m, totals := billModel(t)
	doc := docByKind(t, Build(m, totals, buildAt), model.KindCertificateIII)

	if len(doc.Tables) != 1 {
		t.Fatalf("certificate III has %d tables, want 1", len(doc.Tables))
	}
	memo := doc.Tables[0]
	if memo.Caption != "Memorandum of Payment" {
		t.Errorf("caption = %q", memo.Caption)
	}
	if len(memo.Rows) != 10 {
		t.Fatalf("memorandum has %d rows, want 10", len(memo.Rows))
	}

	label := func(i int) string { return memo.Rows[i].Cells[0].Value }
	value := func(i int) string { return memo.Rows[i].Cells[1].Value }

	if label(0) != "Total value of work executed (including tender premium)" || value(0) != "19687.50" {
		t.Errorf("row 0 = %q / %q", label(0), value(0))
	}
	if label(1) != "Add GST @ 18%" || value(1) != "3543.75" {
		t.Errorf("row 1 = %q / %q", label(1), value(1))
	}
	if label(2) != "Total amount payable" || value(2) != "23231.25" || !memo.Rows[2].Emphasis {
		t.Errorf("row 2 = %q / %q emphasis=%v", label(2), value(2), memo.Rows[2].Emphasis)
	}
	if label(3) != "Less: Security Deposit @ 10%" || value(3) != "2323.13" {
		t.Errorf("row 3 = %q / %q", label(3), value(3))
	}
	if label(7) != "Less: Liquidated Damages" || value(7) != "0.00" {
		t.Errorf("row 7 = %q / %q", label(7), value(7))
	}
	if label(8) != "Total recoveries" || value(8) != "3484.70" || !memo.Rows[8].Emphasis {
		t.Errorf("row 8 = %q / %q", label(8), value(8))
	}
	if label(9) != "Net amount payable to the contractor" || value(9) != "19746.55" || !memo.Rows[9].Emphasis {
		t.Errorf("row 9 = %q / %q", label(9), value(9))
	}

	wantPay := "Pay ₹19,746.55 (Nineteen Thousand Seven Hundred and Forty Seven Rupees Only/-) by cheque."
	if len(doc.Notes) == 0 || doc.Notes[0] != wantPay {
		t.Errorf("pay order note = %q, want %q", doc.Notes, wantPay)
	}
}

func TestCertificateTwo(t *testing.T) {
	m, totals := billModel(t)
	doc := docByKind(t, Build(m, totals, buildAt), model.KindCertificateII)

	if len(doc.Notes) != 5 {
		t.Fatalf("certificate II has %d notes, want 5", len(doc.Notes))
	}
	if !strings.Contains(doc.Notes[0], "Measurement Book No. MB-102") {
		t.Errorf("note 1 missing MB number: %q", doc.Notes[0])
	}
	if !strings.Contains(doc.Notes[2], "completed on 31/03/2026") {
		t.Errorf("note 3 missing completion date: %q", doc.Notes[2])
	}
	if !strings.Contains(doc.Notes[4], "₹19,746.55") {
		t.Errorf("note 5 missing net amount: %q", doc.Notes[4])
	}
	wantSig := []string{"Junior Engineer", "Assistant Engineer", "Executive Engineer"}
	if len(doc.Signatures) != len(wantSig) {
		t.Fatalf("signatures = %v", doc.Signatures)
	}
	for i, s := range wantSig {
		if doc.Signatures[i] != s {
			t.Errorf("signature %d = %q, want %q", i, doc.Signatures[i], s)
		}
	}
}

func TestNoteSheet(t *testing.T) {
	m, totals := billModel(t)
	doc := docByKind(t, Build(m, totals, buildAt), model.KindNoteSheet)

	if len(doc.Notes) != 6 {
		t.Fatalf("note sheet has %d notes, want 6", len(doc.Notes))
	}
	if want := `1. The bill for "Construction of Boundary Wall at District Office" under Agreement No. 12/2025-26 has been prepared for an executed value of ₹18,750.00.`; doc.Notes[0] != want {
		t.Errorf("note 1 = %q, want %q", doc.Notes[0], want)
	}
	if want := "2. Tender premium @ 5% amounts to ₹937.50 and GST @ 18% amounts to ₹3,543.75."; doc.Notes[1] != want {
		t.Errorf("note 2 = %q, want %q", doc.Notes[1], want)
	}
	if !strings.Contains(doc.Notes[3], "4. Extra items valued at ₹4,500.00") {
		t.Errorf("note 4 = %q", doc.Notes[3])
	}
	if !strings.Contains(doc.Notes[4], "falls short of the work order by ₹787.50") {
		t.Errorf("note 5 = %q", doc.Notes[4])
	}
	if !strings.Contains(doc.Notes[5], "₹19,746.55") {
		t.Errorf("note 6 = %q", doc.Notes[5])
	}

	last := doc.Header[len(doc.Header)-2:]
	if last[0].Label != "Division" || last[0].Value != "PWD Division II" {
		t.Errorf("division field = %+v", last[0])
	}
	if last[1].Label != "Sub Division" || last[1].Value != "N/A" {
		t.Errorf("sub division field = %+v", last[1])
	}
}

func TestScrutinySheet(t *testing.T) {
	m, totals := billModel(t)
	doc := docByKind(t, Build(m, totals, buildAt), model.KindScrutinySheet)

	if len(doc.Tables) != 2 {
		t.Fatalf("scrutiny sheet has %d tables, want 2", len(doc.Tables))
	}

	particulars := doc.Tables[0]
	if particulars.Caption != "Project Particulars" {
		t.Errorf("table 1 caption = %q", particulars.Caption)
	}
	if len(particulars.Rows) != 14 {
		t.Fatalf("particulars has %d rows, want 14", len(particulars.Rows))
	}
	found := false
	for _, row := range particulars.Rows {
		if row.Cells[0].Value == "Whether Extra Items Included" {
			found = true
			if row.Cells[1].Value != "Yes" {
				t.Errorf("extra items flag = %q, want %q", row.Cells[1].Value, "Yes")
			}
		}
	}
	if !found {
		t.Error("extra items flag row missing")
	}

	recoveries := doc.Tables[1]
	if recoveries.Caption != "Deductions and Recoveries" {
		t.Errorf("table 2 caption = %q", recoveries.Caption)
	}
	if len(recoveries.Rows) != 7 {
		t.Fatalf("recoveries has %d rows, want 7", len(recoveries.Rows))
	}
	lastRow := recoveries.Rows[6]
	if lastRow.Cells[0].Value != "Amount Payable by Cheque" || lastRow.Cells[2].Value != "19746.55" || !lastRow.Emphasis {
		t.Errorf("cheque row = %+v", lastRow)
	}

	wantWords := "Amount payable by cheque (in words): Nineteen Thousand Seven Hundred and Forty Seven Rupees Only/-"
	if len(doc.Notes) != 2 || doc.Notes[1] != wantWords {
		t.Errorf("notes = %q, want second %q", doc.Notes, wantWords)
	}
}

func TestEmptySectionsUsePlaceholders(t *testing.T) {
	m := &model.BillModel{
		WorkOrder:  model.Section{Name: model.SectionWorkOrder},
		BillQty:    model.Section{Name: model.SectionBillQty},
		ExtraItems: model.Section{Name: model.SectionExtraItems},
	}
	setStandardHeader(m)
	totals, err := compute.Aggregate(m, catalogueRates())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	results := Build(m, totals, buildAt)
	placeholders := map[model.DocumentKind]string{
		model.KindFirstPage:  "No items measured in this bill",
		model.KindDeviation:  "No deviation between work order and execution",
		model.KindExtraItems: "No extra items in this bill",
	}
	for kind, want := range placeholders {
		doc := docByKind(t, results, kind)
		table := doc.Tables[0]
		if len(table.Rows) != 0 {
			t.Errorf("%s: table has %d rows, want 0", kind, len(table.Rows))
		}
		if table.Placeholder != want {
			t.Errorf("%s: placeholder = %q, want %q", kind, table.Placeholder, want)
		}
	}

	note := docByKind(t, results, model.KindNoteSheet)
	if want := "4. No extra items are claimed in this bill."; note.Notes[3] != want {
		t.Errorf("note 4 = %q, want %q", note.Notes[3], want)
	}
	if want := "5. The executed value matches the work order with no net deviation."; note.Notes[4] != want {
		t.Errorf("note 5 = %q, want %q", note.Notes[4], want)
	}
}

func TestMissingHeaderFieldSkipsAllDocuments(t *testing.T) {
	m := &model.BillModel{
		WorkOrder: model.Section{
			Name:  model.SectionWorkOrder,
			Items: []model.LineItem{lineItem("1", "Earthwork", "Cum", 10, 100)},
		},
		BillQty: model.Section{
			Name:  model.SectionBillQty,
			Items: []model.LineItem{lineItem("1", "Earthwork", "Cum", 10, 100)},
		},
	}
	m.Header.Set(model.KeyProjectName, "Test Work")
	m.Header.Set(model.KeyAgreementNo, "7/2026")

	totals, err := compute.Aggregate(m, catalogueRates())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	results := Build(m, totals, buildAt)
	if len(results) != len(Kinds()) {
		t.Fatalf("got %d results, want %d", len(results), len(Kinds()))
	}
	for _, r := range results {
		if r.Err == nil {
			t.Errorf("%s: expected binder error", r.Kind)
			continue
		}
		var ube *model.UnboundFieldError
		if !errors.As(r.Err, &ube) {
			t.Errorf("%s: error %T, want *model.UnboundFieldError", r.Kind, r.Err)
			continue
		}
		if ube.Field != model.KeyContractorName {
			t.Errorf("%s: unbound field = %q, want %q", r.Kind, ube.Field, model.KeyContractorName)
		}
		if ube.Kind != r.Kind {
			t.Errorf("%s: error kind = %s", r.Kind, ube.Kind)
		}
	}
}
