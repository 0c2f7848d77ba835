package model

// DocumentKind identifies one statutory document in the catalogue. The
// kind doubles as the archive file stem, so values stay lowercase with
// underscores.
type DocumentKind string

const (
	KindFirstPage          DocumentKind = "first_page"
	KindFirstPageDetailed  DocumentKind = "first_page_detailed"
	KindDeviation          DocumentKind = "deviation_statement"
	KindDeviationDetailed  DocumentKind = "deviation_statement_detailed"
	KindExtraItems         DocumentKind = "extra_items_statement"
	KindExtraItemsDetailed DocumentKind = "extra_items_detailed"
	KindCertificateII      DocumentKind = "certificate_ii"
	KindCertificateIII     DocumentKind = "certificate_iii"
	KindNoteSheet          DocumentKind = "note_sheet"
	KindScrutinySheet      DocumentKind = "bill_scrutiny_sheet"
)

// CellKind drives formatting and alignment in every exporter.
type CellKind int

const (
	CellText CellKind = iota
	CellNumber
	CellCurrency
	CellPercent
)

// Cell is one table value. Value is display-ready; escaping is left to
// each exporter.
type Cell struct {
	Kind  CellKind
	Value string
}

// Column describes one table column. Span is a width on the 12-column
// grid shared by the HTML and PDF exporters; spans of a table sum to 12.
type Column struct {
	Title string
	Kind  CellKind
	Span  int
}

// Row is one table row. Emphasis marks heading and total rows.
type Row struct {
	Cells    []Cell
	Emphasis bool
}

// Table is one tabular block. Placeholder is rendered as a single
// full-width row when there are no data rows.
type Table struct {
	Caption     string
	Columns     []Column
	Rows        []Row
	Placeholder string
}

// SummaryRow is one line of the financial summary block. Rows appear in
// a fixed order: grand total, premium, tax, deductions, net payable.
type SummaryRow struct {
	Label    string
	Value    string
	Emphasis bool
}

// Field is one labelled header value.
type Field struct {
	Label string
	Value string
}

// Document is the renderer's output: a layout-free semantic tree that
// the HTML and PDF exporters each serialize their own way. Most kinds
// carry exactly one table; the scrutiny sheet carries two.
type Document struct {
	Kind       DocumentKind
	Title      string
	Subtitle   string
	Landscape  bool
	Header     []Field
	Tables     []Table
	Summary    []SummaryRow
	Notes      []string
	Signatures []string
}
