package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"billgen/model"
)

// sheetTitle is the logical name of the header sheet; section sheets use
// the canonical section names.
const sheetTitle = "Title"

// sheetTargets maps each logical sheet to its name keywords, in
// resolution order. Aliases shorter than 4 runes match whole names only,
// never substrings.
var sheetTargets = []struct {
	logical string
	aliases []string
}{
	{sheetTitle, []string{"title", "cover", "front", "project", "header"}},
	{model.SectionWorkOrder, []string{"workorder", "wo", "order"}},
	{model.SectionBillQty, []string{"billquantity", "bq", "bill"}},
	{model.SectionExtraItems, []string{"extraitems", "extra", "additional"}},
}

// titleAliases maps normalized Title-sheet labels to canonical header
// keys. Labels matching nothing are kept under their normalized form.
var titleAliases = map[string]string{
	"name of work":                  model.KeyProjectName,
	"project name":                  model.KeyProjectName,
	"work name":                     model.KeyProjectName,
	"name of project":               model.KeyProjectName,
	"contract no":                   model.KeyContractNo,
	"contract number":               model.KeyContractNo,
	"work order no":                 model.KeyWorkOrderRef,
	"work order number":             model.KeyWorkOrderRef,
	"work order ref":                model.KeyWorkOrderRef,
	"wo no":                         model.KeyWorkOrderRef,
	"name of firm":                  model.KeyContractorName,
	"name of contractor":            model.KeyContractorName,
	"contractor":                    model.KeyContractorName,
	"contractor name":               model.KeyContractorName,
	"firm":                          model.KeyContractorName,
	"agency":                        model.KeyContractorName,
	"address":                       model.KeyContractorAddress,
	"contractor address":            model.KeyContractorAddress,
	"firm address":                  model.KeyContractorAddress,
	"gstin":                         model.KeyContractorGSTIN,
	"gstin no":                      model.KeyContractorGSTIN,
	"gst no":                        model.KeyContractorGSTIN,
	"pan":                           model.KeyContractorPAN,
	"pan no":                        model.KeyContractorPAN,
	"agreement no":                  model.KeyAgreementNo,
	"agreement number":              model.KeyAgreementNo,
	"agreement":                     model.KeyAgreementNo,
	"work order date":               model.KeyWorkOrderDate,
	"date of work order":            model.KeyWorkOrderDate,
	"commencement date":             model.KeyCommencementDate,
	"date of commencement":          model.KeyCommencementDate,
	"date of start":                 model.KeyCommencementDate,
	"start date":                    model.KeyCommencementDate,
	"completion date":               model.KeyCompletionDate,
	"date of completion":            model.KeyCompletionDate,
	"due date of completion":        model.KeyCompletionDate,
	"stipulated date of completion": model.KeyCompletionDate,
	"actual completion date":        model.KeyActualCompletion,
	"actual date of completion":     model.KeyActualCompletion,
	"mb no":                         model.KeyMeasurementBook,
	"m.b no":                        model.KeyMeasurementBook,
	"m.b. no":                       model.KeyMeasurementBook,
	"measurement book no":           model.KeyMeasurementBook,
	"bill no":                       model.KeyBillSerial,
	"bill number":                   model.KeyBillSerial,
	"bill serial":                   model.KeyBillSerial,
	"running bill no":               model.KeyBillSerial,
	"serial no of bill":             model.KeyBillSerial,
	"bill type":                     model.KeyBillType,
	"type of bill":                  model.KeyBillType,
	"nature of bill":                model.KeyBillType,
	"tender premium":                model.KeyPremiumRate,
	"tender premium %":              model.KeyPremiumRate,
	"premium":                       model.KeyPremiumRate,
	"premium %":                     model.KeyPremiumRate,
	"gst":                           model.KeyGSTRate,
	"gst rate":                      model.KeyGSTRate,
	"gst %":                         model.KeyGSTRate,
	"liquidated damages":            model.KeyLiquidatedDamages,
	"ld":                            model.KeyLiquidatedDamages,
	"compensation":                  model.KeyLiquidatedDamages,
	"division":                      model.KeyDivision,
	"sub division":                  model.KeySubDivision,
	"sub-division":                  model.KeySubDivision,
}

// requiredHeaderKeys are defaulted to "N/A" so document binders never
// fail on them.
var requiredHeaderKeys = []string{
	model.KeyProjectName,
	model.KeyContractorName,
	model.KeyAgreementNo,
}

// columnSpec is one recognizable section column.
type columnSpec struct {
	key      string
	required bool
	aliases  []string
}

// sectionColumns lists column aliases in match-precedence order:
// prev_quantity sits before quantity so "Quantity Upto Previous Bill"
// is not claimed as the executed quantity.
var sectionColumns = []columnSpec{
	{key: "serial", aliases: []string{"s.no", "s no", "sno", "serial", "sr.no", "sr no", "no", "item no", "sl.no", "sl no"}},
	{key: "description", required: true, aliases: []string{"description", "particulars", "item of work", "item", "work", "details"}},
	{key: "unit", aliases: []string{"unit", "units", "uom"}},
	{key: "prev_quantity", aliases: []string{"previous quantity", "prev qty", "upto date qty", "quantity upto previous bill"}},
	{key: "quantity", required: true, aliases: []string{"quantity executed", "qty executed", "executed quantity", "quantity", "qty"}},
	{key: "rate", required: true, aliases: []string{"unit rate", "rate", "rates"}},
	{key: "amount", aliases: []string{"amount", "amounts", "value", "total"}},
	{key: "approval_ref", aliases: []string{"approval ref", "approval", "reference", "sanction", "authority"}},
	{key: "remark", aliases: []string{"remark", "remarks", "note", "notes"}},
}

var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
)

// Parse reads one billing workbook into the canonical model. It fails
// with a SchemaError when a required sheet or column cannot be resolved
// and a DataTypeError when a numeric cell cannot be coerced.
func Parse(r io.Reader) (*model.BillModel, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := resolveSheets(f.GetSheetList())
	for _, logical := range []string{sheetTitle, model.SectionWorkOrder, model.SectionBillQty} {
		if sheets[logical] == "" {
			return nil, &model.SchemaError{Sheet: logical}
		}
	}

	m := &model.BillModel{}
	if err := parseTitle(f, sheets[sheetTitle], m); err != nil {
		return nil, err
	}

	if m.WorkOrder, err = parseSection(f, sheets[model.SectionWorkOrder], model.SectionWorkOrder); err != nil {
		return nil, err
	}
	if m.BillQty, err = parseSection(f, sheets[model.SectionBillQty], model.SectionBillQty); err != nil {
		return nil, err
	}

	// Extra Items is optional: absent means an empty section, not an error.
	if name := sheets[model.SectionExtraItems]; name != "" {
		if m.ExtraItems, err = parseSection(f, name, model.SectionExtraItems); err != nil {
			return nil, err
		}
	} else {
		m.ExtraItems = model.Section{Name: model.SectionExtraItems}
	}

	return m, nil
}

// resolveSheets maps logical sheets to actual sheet names. Exact alias
// matches win over substring matches, earlier aliases over later ones,
// and every sheet is claimed at most once.
func resolveSheets(names []string) map[string]string {
	resolved := make(map[string]string, len(sheetTargets))
	claimed := make(map[string]bool, len(names))

	claim := func(logical string, match func(norm, alias string) bool, aliases []string) {
		if resolved[logical] != "" {
			return
		}
		for _, a := range aliases {
			for _, n := range names {
				if claimed[n] {
					continue
				}
				if match(normalizeSheetName(n), a) {
					resolved[logical] = n
					claimed[n] = true
					return
				}
			}
		}
	}

	exact := func(norm, alias string) bool { return norm == alias }
	within := func(norm, alias string) bool { return len(alias) >= 4 && strings.Contains(norm, alias) }

	for _, t := range sheetTargets {
		claim(t.logical, exact, t.aliases)
	}
	for _, t := range sheetTargets {
		claim(t.logical, within, t.aliases)
	}
	return resolved
}

// parseTitle scans the label/value rows of the Title sheet into the
// header, alias-mapping known labels and keeping unknown ones verbatim.
func parseTitle(f *excelize.File, sheetName string, m *model.BillModel) error {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheetName, err)
	}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		label := normalizeLabel(unquoteCell(row[0]))
		if label == "" {
			continue
		}
		key, known := titleAliases[label]
		if !known {
			key = label
		}
		m.Header.Set(key, firstValue(row))
	}

	for _, key := range requiredHeaderKeys {
		if _, ok := m.Header.Field(key); !ok {
			m.Header.Set(key, "N/A")
		}
	}

	checkIdentifiers(m)
	return nil
}

// checkIdentifiers validates statutory identifier formats when present.
// Failures are warnings: the bill still generates.
func checkIdentifiers(m *model.BillModel) {
	if v, ok := m.Header.Field(model.KeyContractorGSTIN); ok {
		if !gstinPattern.MatchString(strings.ToUpper(strings.TrimSpace(v))) {
			m.Warnings = append(m.Warnings, fmt.Sprintf("title: GSTIN %q is not in the statutory 15-character format", v))
		}
	}
	if v, ok := m.Header.Field(model.KeyContractorPAN); ok {
		if !panPattern.MatchString(strings.ToUpper(strings.TrimSpace(v))) {
			m.Warnings = append(m.Warnings, fmt.Sprintf("title: PAN %q is not in the statutory 10-character format", v))
		}
	}
}

// parseSection reads one tabular sheet into a canonical section.
func parseSection(f *excelize.File, sheetName, section string) (model.Section, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return model.Section{}, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}

	headerIdx, cols := locateHeader(rows)
	if headerIdx < 0 {
		return model.Section{}, &model.SchemaError{Sheet: section, Field: "description"}
	}
	for _, spec := range sectionColumns {
		if spec.required {
			if _, ok := cols[spec.key]; !ok {
				return model.Section{}, &model.SchemaError{Sheet: section, Field: spec.key}
			}
		}
	}

	sec := model.Section{Name: section}
	ordinal := 0
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1 // 1-based spreadsheet row
		desc := strings.TrimSpace(cellAt(row, cols, "description"))
		qtyRaw := cellAt(row, cols, "quantity")

		// Separator rows carry no description and no real quantity.
		// Heading rows (description only) are kept.
		if desc == "" {
			q, ok := ParseNumber(qtyRaw)
			if !ok || q.IsZero() {
				continue
			}
		}

		qty, ok := ParseNumber(qtyRaw)
		if !ok {
			return model.Section{}, &model.DataTypeError{Sheet: section, Row: rowNum, Field: "quantity", Value: qtyRaw}
		}
		rate, ok := ParseNumber(cellAt(row, cols, "rate"))
		if !ok {
			return model.Section{}, &model.DataTypeError{Sheet: section, Row: rowNum, Field: "rate", Value: cellAt(row, cols, "rate")}
		}
		amountRaw := cellAt(row, cols, "amount")
		amount, ok := ParseNumber(amountRaw)
		if !ok {
			return model.Section{}, &model.DataTypeError{Sheet: section, Row: rowNum, Field: "amount", Value: amountRaw}
		}
		prevQty, ok := ParseNumber(cellAt(row, cols, "prev_quantity"))
		if !ok {
			return model.Section{}, &model.DataTypeError{Sheet: section, Row: rowNum, Field: "previous quantity", Value: cellAt(row, cols, "prev_quantity")}
		}

		ordinal++
		serial := strings.TrimSpace(cellAt(row, cols, "serial"))
		if serial == "" {
			serial = strconv.Itoa(ordinal)
		}

		item := model.LineItem{
			Serial:       serial,
			Description:  desc,
			Unit:         strings.TrimSpace(cellAt(row, cols, "unit")),
			Quantity:     qty,
			Rate:         rate,
			PrevQuantity: prevQty,
			ApprovalRef:  strings.TrimSpace(cellAt(row, cols, "approval_ref")),
			Remark:       strings.TrimSpace(cellAt(row, cols, "remark")),
		}
		if !amount.IsZero() {
			item.Amount = amount
			item.AmountGiven = true
		} else {
			item.Amount = qty.Mul(rate).Round(2)
		}
		sec.Items = append(sec.Items, item)
	}

	return sec, nil
}

// locateHeader finds the first row that looks like a column header: a
// description alias plus at least one numeric column alias.
func locateHeader(rows [][]string) (int, map[string]int) {
	for i, row := range rows {
		cols := matchColumns(row)
		if _, ok := cols["description"]; !ok {
			continue
		}
		_, q := cols["quantity"]
		_, r := cols["rate"]
		_, a := cols["amount"]
		if q || r || a {
			return i, cols
		}
	}
	return -1, nil
}

// matchColumns maps column keys to cell indexes for one candidate
// header row. All exact matches are claimed before any substring match,
// so "Unit Rate" binds to rate even when no unit column exists. Earlier
// specs win within a pass, and each key claims one column.
func matchColumns(row []string) map[string]int {
	cols := make(map[string]int)
	used := make(map[int]bool)

	pass := func(match func(norm string, aliases []string) bool) {
		for idx, cell := range row {
			if used[idx] {
				continue
			}
			norm := normalizeLabel(cell)
			if norm == "" {
				continue
			}
			for _, spec := range sectionColumns {
				if _, taken := cols[spec.key]; taken {
					continue
				}
				if match(norm, spec.aliases) {
					cols[spec.key] = idx
					used[idx] = true
					break
				}
			}
		}
	}

	pass(aliasExact)
	pass(aliasWithin)
	return cols
}

func aliasExact(norm string, aliases []string) bool {
	for _, a := range aliases {
		if norm == a {
			return true
		}
	}
	return false
}

// aliasWithin matches substrings for aliases long enough to be
// unambiguous.
func aliasWithin(norm string, aliases []string) bool {
	for _, a := range aliases {
		if len(a) >= 4 && strings.Contains(norm, a) {
			return true
		}
	}
	return false
}

// normalizeLabel lowercases, trims decorations and collapses whitespace
// so "  Qty. :" and "qty" compare equal.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for {
		trimmed := strings.TrimRight(s, " \t")
		trimmed = strings.TrimSuffix(trimmed, "*")
		trimmed = strings.TrimSuffix(trimmed, ":")
		trimmed = strings.TrimSuffix(trimmed, ".")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	return strings.Join(strings.Fields(s), " ")
}

// normalizeSheetName strips separators so "Work Order", "work_order" and
// "WorkOrder" compare equal.
func normalizeSheetName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(s)
}

// cellAt returns the raw cell for a resolved column, or "" when the
// column is absent or the row is short.
func cellAt(row []string, cols map[string]int, key string) string {
	idx, ok := cols[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return unquoteCell(row[idx])
}

// firstValue returns the first non-empty cell after the label column.
func firstValue(row []string) string {
	for _, cell := range row[1:] {
		if v := strings.TrimSpace(cell); v != "" {
			return unquoteCell(v)
		}
	}
	return ""
}
