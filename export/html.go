package export

import (
	"fmt"
	"html"
	"strings"

	"billgen/model"
)

// StyleProfile versions the embedded print stylesheet. Downstream
// converters key on it to detect layout changes.
const StyleProfile = "billgen-print/1"

// WriteHTML serializes one document into a self-contained page with an
// embedded A4 print stylesheet. Output is deterministic for identical
// trees; all text is escaped here and nowhere earlier.
func WriteHTML(doc *model.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("write html: nil document")
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<meta name=\"generator\" content=\"%s\">\n", StyleProfile)
	fmt.Fprintf(&b, "<title>%s</title>\n", esc(doc.Title))
	writeStyle(&b, doc.Landscape)
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<h1>%s</h1>\n", esc(doc.Title))
	if doc.Subtitle != "" {
		fmt.Fprintf(&b, "<p class=\"subtitle\">%s</p>\n", esc(doc.Subtitle))
	}

	if len(doc.Header) > 0 {
		b.WriteString("<table class=\"meta\">\n")
		for _, f := range doc.Header {
			fmt.Fprintf(&b, "<tr><th>%s</th><td>%s</td></tr>\n", esc(f.Label), esc(f.Value))
		}
		b.WriteString("</table>\n")
	}

	for _, t := range doc.Tables {
		writeTable(&b, t)
	}

	if len(doc.Summary) > 0 {
		b.WriteString("<table class=\"summary\">\n")
		for _, s := range doc.Summary {
			cls := ""
			if s.Emphasis {
				cls = " class=\"emph\""
			}
			fmt.Fprintf(&b, "<tr%s><td>%s</td><td class=\"num\">%s</td></tr>\n", cls, esc(s.Label), esc(s.Value))
		}
		b.WriteString("</table>\n")
	}

	if len(doc.Notes) > 0 {
		b.WriteString("<div class=\"notes\">\n")
		for _, n := range doc.Notes {
			fmt.Fprintf(&b, "<p>%s</p>\n", esc(n))
		}
		b.WriteString("</div>\n")
	}

	if len(doc.Signatures) > 0 {
		b.WriteString("<div class=\"signatures\">\n")
		for _, s := range doc.Signatures {
			fmt.Fprintf(&b, "<div class=\"sig\">%s</div>\n", esc(s))
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String()), nil
}

// writeTable emits one table with proportional column widths.
func writeTable(b *strings.Builder, t model.Table) {
	if t.Caption != "" {
		fmt.Fprintf(b, "<h2>%s</h2>\n", esc(t.Caption))
	}
	b.WriteString("<table class=\"data\">\n<colgroup>\n")
	for _, c := range t.Columns {
		fmt.Fprintf(b, "<col style=\"width:%.2f%%\">\n", float64(c.Span)*100/12)
	}
	b.WriteString("</colgroup>\n<thead>\n<tr>")
	for _, c := range t.Columns {
		fmt.Fprintf(b, "<th>%s</th>", esc(c.Title))
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	if len(t.Rows) == 0 {
		fmt.Fprintf(b, "<tr><td class=\"placeholder\" colspan=\"%d\">%s</td></tr>\n",
			len(t.Columns), esc(t.Placeholder))
	}
	for _, r := range t.Rows {
		cls := ""
		if r.Emphasis {
			cls = " class=\"emph\""
		}
		fmt.Fprintf(b, "<tr%s>", cls)
		for i, cell := range r.Cells {
			if i >= len(t.Columns) {
				break
			}
			fmt.Fprintf(b, "<td%s>%s</td>", cellClass(cell.Kind), esc(cell.Value))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

// cellClass maps cell kinds to their alignment class.
func cellClass(kind model.CellKind) string {
	switch kind {
	case model.CellNumber, model.CellCurrency:
		return " class=\"num\""
	case model.CellPercent:
		return " class=\"pct\""
	default:
		return ""
	}
}

// writeStyle embeds the print stylesheet. Landscape documents flip the
// page box; everything else is shared.
func writeStyle(b *strings.Builder, landscape bool) {
	size := "A4"
	if landscape {
		size = "A4 landscape"
	}
	fmt.Fprintf(b, "<style>\n@page { size: %s; margin: 10mm; }\n%s</style>\n", size, styleBody)
}

const styleBody = `body { font-family: Arial, Helvetica, sans-serif; font-size: 10pt; color: #111; margin: 0; }
h1 { font-size: 14pt; text-align: center; text-transform: uppercase; margin: 4pt 0; }
h2 { font-size: 11pt; margin: 8pt 0 2pt; }
p.subtitle { text-align: center; color: #505050; margin: 0 0 8pt; }
table { width: 100%; border-collapse: collapse; margin-bottom: 8pt; }
table.meta th { text-align: left; width: 25%; padding: 2pt 4pt; vertical-align: top; }
table.meta td { padding: 2pt 4pt; }
table.data th, table.data td { border: 1px solid #333; padding: 3pt 4pt; vertical-align: top; }
table.data th { background: #212529; color: #fff; font-size: 8pt; }
table.data td { font-size: 8pt; }
table.summary { width: 60%; margin-left: 40%; }
table.summary td { border: 1px solid #333; padding: 3pt 4pt; text-align: right; font-size: 9pt; }
tr.emph td { background: #f0f0f0; font-weight: bold; }
td.num { text-align: right; }
td.pct { text-align: center; }
td.placeholder { text-align: center; font-style: italic; color: #646464; }
div.notes { margin-top: 8pt; font-size: 9pt; }
div.notes p { margin: 3pt 0; }
div.signatures { display: flex; justify-content: space-between; margin-top: 36pt; }
div.signatures .sig { border-top: 1px solid #111; padding: 3pt 8pt 0; font-size: 9pt; font-weight: bold; text-align: center; }
`

func esc(s string) string { return html.EscapeString(s) }
