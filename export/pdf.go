package export

import (
	"context"
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"billgen/model"
)

// Engine converts one semantic document into PDF bytes. The pipeline
// treats engine failures as document-local.
type Engine interface {
	Render(doc *model.Document) ([]byte, error)
}

// Convert runs the engine under a per-document timeout. Both a timeout
// and an engine failure come back as a RenderError for the document.
func Convert(ctx context.Context, eng Engine, doc *model.Document, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		bytes []byte
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := eng.Render(doc)
		ch <- result{b, err}
	}()

	select {
	case <-ctx.Done():
		return nil, &model.RenderError{Kind: doc.Kind, Err: ctx.Err()}
	case r := <-ch:
		if r.err != nil {
			return nil, &model.RenderError{Kind: doc.Kind, Err: r.err}
		}
		return r.bytes, nil
	}
}

// MarotoEngine renders documents with maroto/v2 on A4 pages.
type MarotoEngine struct {
	marginMM float64
}

// NewMarotoEngine returns an engine with the given page margin.
func NewMarotoEngine(marginMM float64) *MarotoEngine {
	if marginMM <= 0 {
		marginMM = 10
	}
	return &MarotoEngine{marginMM: marginMM}
}

// Render walks the semantic tree into maroto rows and generates the PDF.
func (e *MarotoEngine) Render(doc *model.Document) ([]byte, error) {
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(e.marginMM).
		WithTopMargin(e.marginMM).
		WithRightMargin(e.marginMM).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		})
	if doc.Landscape {
		builder = builder.WithOrientation(orientation.Horizontal)
	}

	m := maroto.New(builder.Build())

	addTitle(m, doc)
	addHeaderFields(m, doc.Header)
	for _, t := range doc.Tables {
		addTable(m, t)
	}
	addSummary(m, doc.Summary)
	addNotes(m, doc.Notes)
	addSignatures(m, doc.Signatures)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return out.GetBytes(), nil
}

// addTitle adds the document title and optional subtitle.
func addTitle(m core.Maroto, doc *model.Document) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(doc.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	if doc.Subtitle != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New(doc.Subtitle, props.Text{
						Size:  10,
						Align: align.Center,
						Color: &props.Color{Red: 80, Green: 80, Blue: 80},
					}),
				),
			),
		)
	}
	m.AddRows(row.New(3))
}

// addHeaderFields adds the labelled header block.
func addHeaderFields(m core.Maroto, fields []model.Field) {
	for _, f := range fields {
		m.AddRows(
			row.New(6).Add(
				col.New(3).Add(
					text.New(f.Label, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}),
				),
				col.New(9).Add(
					text.New(f.Value, props.Text{Size: 9, Align: align.Left}),
				),
			),
		)
	}
	if len(fields) > 0 {
		m.AddRows(row.New(3))
	}
}

// addTable renders one table: caption, header band, data rows or the
// placeholder row.
func addTable(m core.Maroto, t model.Table) {
	if t.Caption != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New(t.Caption, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}),
				),
			),
		)
	}

	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerCell := props.Cell{BackgroundColor: headerBg}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	headerCols := make([]core.Col, 0, len(t.Columns))
	for _, c := range t.Columns {
		headerCols = append(headerCols,
			col.New(c.Span).Add(text.New(c.Title, headerText)).WithStyle(&headerCell))
	}
	m.AddRows(row.New(8).Add(headerCols...))

	if len(t.Rows) == 0 {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(t.Placeholder, props.Text{
						Size:  8,
						Style: fontstyle.Italic,
						Align: align.Center,
						Color: &props.Color{Red: 100, Green: 100, Blue: 100},
					}),
				),
			),
		)
		m.AddRows(row.New(3))
		return
	}

	emphasisBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	for _, r := range t.Rows {
		cols := make([]core.Col, 0, len(r.Cells))
		longest := 0
		for i, cell := range r.Cells {
			if i >= len(t.Columns) {
				break
			}
			style := fontstyle.Normal
			if r.Emphasis {
				style = fontstyle.Bold
			}
			c := col.New(t.Columns[i].Span).Add(
				text.New(cell.Value, props.Text{
					Size:  7,
					Style: style,
					Align: cellAlign(cell.Kind),
				}),
			)
			if r.Emphasis {
				c = c.WithStyle(&props.Cell{BackgroundColor: emphasisBg})
			}
			cols = append(cols, c)
			if n := len(cell.Value); n > longest {
				longest = n
			}
		}
		m.AddRows(row.New(rowHeight(longest)).Add(cols...))
	}
	m.AddRows(row.New(3))
}

// rowHeight gives long wrapped cells room instead of clipping them.
func rowHeight(longest int) float64 {
	switch {
	case longest > 140:
		return 18
	case longest > 60:
		return 12
	default:
		return 7
	}
}

// cellAlign maps cell kinds to their column alignment.
func cellAlign(kind model.CellKind) align.Type {
	switch kind {
	case model.CellNumber, model.CellCurrency:
		return align.Right
	case model.CellPercent:
		return align.Center
	default:
		return align.Left
	}
}

// addSummary renders the closing financial block.
func addSummary(m core.Maroto, summary []model.SummaryRow) {
	if len(summary) == 0 {
		return
	}
	m.AddRows(row.New(4))

	emphasisBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	for _, s := range summary {
		labelStyle := props.Text{Size: 9, Align: align.Right}
		valueStyle := props.Text{Size: 9, Align: align.Right}
		if s.Emphasis {
			labelStyle.Style = fontstyle.Bold
			valueStyle.Style = fontstyle.Bold
		}

		labelCol := col.New(8).Add(text.New(s.Label, labelStyle))
		valueCol := col.New(4).Add(text.New(s.Value, valueStyle))
		if s.Emphasis {
			cell := &props.Cell{BackgroundColor: emphasisBg}
			labelCol = labelCol.WithStyle(cell)
			valueCol = valueCol.WithStyle(cell)
		}
		m.AddRows(row.New(8).Add(labelCol, valueCol))
	}
}

// addNotes renders the narrative lines.
func addNotes(m core.Maroto, notes []string) {
	if len(notes) == 0 {
		return
	}
	m.AddRows(row.New(4))
	for _, n := range notes {
		m.AddRows(
			row.New(rowHeight(len(n))).Add(
				col.New(12).Add(
					text.New(n, props.Text{Size: 8, Align: align.Left}),
				),
			),
		)
	}
}

// addSignatures renders the signature blocks across the page foot.
func addSignatures(m core.Maroto, signatures []string) {
	if len(signatures) == 0 {
		return
	}
	m.AddRows(row.New(16))

	span := 12 / len(signatures)
	if span < 1 {
		span = 1
	}

	lineCols := make([]core.Col, 0, len(signatures))
	nameCols := make([]core.Col, 0, len(signatures))
	for _, s := range signatures {
		lineCols = append(lineCols,
			col.New(span).Add(text.New("_________________", props.Text{Size: 8, Align: align.Center})))
		nameCols = append(nameCols,
			col.New(span).Add(text.New(s, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center})))
	}
	m.AddRows(row.New(5).Add(lineCols...))
	m.AddRows(row.New(6).Add(nameCols...))
}
