package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"billgen/compute"
	"billgen/model"
	"billgen/render"
)

// headerLabels maps canonical header keys back to the spreadsheet
// labels the normalizer recognizes, so an exported workbook re-ingests
// into the same model. Keys not listed re-export under their stored key,
// which the normalizer also accepts verbatim.
var headerLabels = map[string]string{
	model.KeyProjectName:       "Name of Work",
	model.KeyContractNo:        "Contract No.",
	model.KeyWorkOrderRef:      "Work Order No.",
	model.KeyContractorName:    "Name of Firm",
	model.KeyContractorAddress: "Address",
	model.KeyContractorGSTIN:   "GSTIN",
	model.KeyContractorPAN:     "PAN",
	model.KeyAgreementNo:       "Agreement No.",
	model.KeyWorkOrderDate:     "Work Order Date",
	model.KeyCommencementDate:  "Date of Commencement",
	model.KeyCompletionDate:    "Date of Completion",
	model.KeyActualCompletion:  "Actual Date of Completion",
	model.KeyMeasurementBook:   "M.B. No.",
	model.KeyBillSerial:        "Bill No.",
	model.KeyBillType:          "Bill Type",
	model.KeyPremiumRate:       "Tender Premium",
	model.KeyGSTRate:           "GST",
	model.KeyLiquidatedDamages: "Liquidated Damages",
	model.KeyDivision:          "Division",
	model.KeySubDivision:       "Sub Division",
}

// WriteWorkbook builds the verification spreadsheet: the canonical
// model re-exported sheet by sheet, plus a Summary sheet with the
// financial chain. Re-ingesting the output reproduces the section
// totals.
func WriteWorkbook(m *model.BillModel, t *compute.Totals) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), "Title"); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeTitleSheet(f, m, styles); err != nil {
		return nil, err
	}
	if err := writeSectionSheet(f, m.WorkOrder, styles); err != nil {
		return nil, err
	}
	if err := writeSectionSheet(f, m.BillQty, styles); err != nil {
		return nil, err
	}
	if err := writeSectionSheet(f, m.ExtraItems, styles); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, t, styles); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// workbookStyles are the shared style ids.
type workbookStyles struct {
	header  int
	label   int
	cell    int
	money   int
	totals  int
	warning int
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	label, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
	})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}
	cell, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: 4, // #,##0.00
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	totals, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create totals style: %w", err)
	}
	warning, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 9, Color: "#B45309", Italic: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create warning style: %w", err)
	}
	return &workbookStyles{header: header, label: label, cell: cell, money: money, totals: totals, warning: warning}, nil
}

// writeTitleSheet re-exports the header fields in their sheet order.
func writeTitleSheet(f *excelize.File, m *model.BillModel, st *workbookStyles) error {
	const sheet = "Title"
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 50)

	row := 1
	for _, key := range m.Header.Order {
		label, ok := headerLabels[key]
		if !ok {
			label = key
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sanitizeCell(label))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sanitizeCell(m.Header.Fields[key]))
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.label)
		row++
	}
	return nil
}

// writeSectionSheet re-exports one section with its canonical columns.
func writeSectionSheet(f *excelize.File, sec model.Section, st *workbookStyles) error {
	sheet := sec.Name
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}

	type column struct {
		title string
		width float64
	}
	cols := []column{
		{"S.No", 8},
		{"Description", 45},
		{"Unit", 8},
	}
	if sec.Name == model.SectionBillQty {
		cols = append(cols, column{"Previous Quantity", 14})
	}
	cols = append(cols, column{"Quantity", 12}, column{"Rate", 12}, column{"Amount", 14})
	if sec.Name == model.SectionExtraItems {
		cols = append(cols, column{"Approval Ref", 18})
	}
	cols = append(cols, column{"Remark", 22})

	for i, c := range cols {
		ref, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		f.SetColWidth(sheet, ref, ref, c.width)
		cell := fmt.Sprintf("%s1", ref)
		f.SetCellValue(sheet, cell, c.title)
	}
	lastRef, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}
	f.SetCellStyle(sheet, "A1", lastRef+"1", st.header)

	row := 2
	for _, it := range sec.Items {
		values := []any{sanitizeCell(it.Serial), sanitizeCell(it.Description), sanitizeCell(it.Unit)}
		if sec.Name == model.SectionBillQty {
			values = append(values, numberOrBlank(it.PrevQuantity))
		}
		if it.Quantity.IsZero() && it.Rate.IsZero() && it.Amount.IsZero() {
			values = append(values, "", "", "")
		} else {
			values = append(values, it.Quantity.InexactFloat64(), it.Rate.InexactFloat64(), it.Amount.InexactFloat64())
		}
		if sec.Name == model.SectionExtraItems {
			values = append(values, sanitizeCell(it.ApprovalRef))
		}
		values = append(values, sanitizeCell(it.Remark))

		for i, v := range values {
			ref, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return fmt.Errorf("column name: %w", err)
			}
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", ref, row), v)
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastRef, row), st.cell)
		row++
	}
	return nil
}

// numberOrBlank keeps zero quantities out of the sheet.
func numberOrBlank(d decimal.Decimal) any {
	if d.IsZero() {
		return ""
	}
	return d.InexactFloat64()
}

// writeSummarySheet lays the financial chain and warnings on one sheet.
func writeSummarySheet(f *excelize.File, t *compute.Totals, st *workbookStyles) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}
	f.SetColWidth(sheet, "A", "A", 42)
	f.SetColWidth(sheet, "B", "B", 20)

	f.MergeCell(sheet, "A1", "B1")
	f.SetCellValue(sheet, "A1", "Bill Summary")
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("create summary title style: %w", err)
	}
	f.SetCellStyle(sheet, "A1", "B1", title)

	type line struct {
		label    string
		amount   decimal.Decimal
		emphasis bool
	}
	lines := []line{
		{"Work Order Total", t.WorkOrderTotal, false},
		{"Bill Quantity Total", t.BillQtyTotal, false},
		{"Extra Items Total", t.ExtraTotal, false},
		{"Grand Total", t.GrandTotal, true},
		{"Tender Premium @ " + render.FormatPercent(t.PremiumRate), t.PremiumAmount, false},
		{"GST @ " + render.FormatPercent(t.GSTRate), t.GSTAmount, false},
		{"Total Amount Payable", t.Payable, true},
	}
	for _, d := range t.Deductions {
		label := "Less: " + d.Label
		if !d.Rate.IsZero() {
			label += " @ " + render.FormatPercent(d.Rate)
		}
		lines = append(lines, line{label, d.Amount, false})
	}
	lines = append(lines,
		line{"Total Deductions", t.TotalDeductions, true},
		line{"Net Payable", t.NetPayable, true},
	)

	row := 3
	for _, l := range lines {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), l.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), l.amount.InexactFloat64())
		style := st.money
		if l.emphasis {
			style = st.totals
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.label)
		f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), style)
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Net Payable (in words)")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.label)
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), render.AmountToWords(t.NetPayable))
	row += 2

	if len(t.Warnings) > 0 {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Warnings")
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.label)
		row++
		for _, w := range t.Warnings {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sanitizeCell(w))
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.warning)
			row++
		}
	}
	return nil
}

// sanitizeCell prevents formula injection by prefixing dangerous
// leading characters with a quote.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders for all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
