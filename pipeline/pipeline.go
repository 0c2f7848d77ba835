// Package pipeline drives one billing run end to end: parse the
// uploaded workbook, compute the financial chain, bind the document
// catalogue, export HTML and PDF, and pack the archive.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"billgen/bundle"
	"billgen/compute"
	"billgen/config"
	"billgen/export"
	"billgen/ingest"
	"billgen/model"
	"billgen/render"
)

// Pipeline wires the stages together. Engine, Now and NewRunID are
// injectable so runs can be made deterministic in tests.
type Pipeline struct {
	Config   *config.Config
	Logger   *slog.Logger
	Engine   export.Engine
	Now      func() time.Time
	NewRunID func() string
}

// Result is what a completed run produced.
type Result struct {
	Archive     []byte
	ArchiveName string
	Manifest    *bundle.Manifest
	Totals      *compute.Totals
	Model       *model.BillModel
}

// New builds a pipeline with the production PDF engine.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Config:   cfg,
		Logger:   logger,
		Engine:   export.NewMarotoEngine(cfg.PDF.MarginMM),
		Now:      time.Now,
		NewRunID: uuid.NewString,
	}
}

// Validate parses and aggregates the workbook without rendering
// anything. It surfaces the same schema, data and precondition errors
// a full run would.
func (p *Pipeline) Validate(src io.Reader) (*model.BillModel, *compute.Totals, error) {
	m, err := ingest.Parse(src)
	if err != nil {
		return nil, nil, err
	}
	t, err := compute.Aggregate(m, p.rates())
	if err != nil {
		return nil, nil, err
	}
	return m, t, nil
}

// Run executes one billing run over the uploaded workbook. Schema,
// data and bundling failures abort the run; a single document failing
// to render degrades that document and carries on.
func (p *Pipeline) Run(ctx context.Context, src io.Reader) (*Result, error) {
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	newRunID := p.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}
	start := now()

	// 1. Ingest the workbook into the canonical model.
	m, err := ingest.Parse(src)
	if err != nil {
		return nil, err
	}
	log.Info("workbook parsed",
		"work_order_items", len(m.WorkOrder.Items),
		"bill_quantity_items", len(m.BillQty.Items),
		"extra_items", len(m.ExtraItems.Items))

	// 2. Aggregate the financial chain and the deviation statement.
	totals, err := compute.Aggregate(m, p.rates())
	if err != nil {
		return nil, err
	}
	log.Info("totals computed",
		"grand_total", totals.GrandTotal.StringFixed(2),
		"net_payable", totals.NetPayable.StringFixed(2),
		"deviations", len(totals.Deviations))

	// 3. Bind the document catalogue.
	results := render.Build(m, totals, start)

	// 4. Export HTML and PDF per document with a bounded fan-out. Each
	// goroutine owns its slot in artifacts, so no locking is needed.
	artifacts := make([]bundle.Artifact, len(results))
	timeout := time.Duration(p.Config.PDF.TimeoutSeconds) * time.Second
	eng := p.Engine
	if eng == nil {
		eng = export.NewMarotoEngine(p.Config.PDF.MarginMM)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)
	for i, r := range results {
		i, r := i, r
		artifacts[i].Kind = r.Kind
		if r.Err != nil {
			artifacts[i].Err = r.Err
			continue
		}
		artifacts[i].Title = r.Doc.Title
		g.Go(func() error {
			html, err := export.WriteHTML(r.Doc)
			if err != nil {
				artifacts[i].Err = &model.RenderError{Kind: r.Kind, Err: err}
				return nil
			}
			artifacts[i].HTML = html
			pdf, err := export.Convert(gctx, eng, r.Doc, timeout)
			if err != nil {
				artifacts[i].Err = err
				return nil
			}
			artifacts[i].PDF = pdf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	warnings := append([]string(nil), totals.Warnings...)
	var pdfParts [][]byte
	for i := range artifacts {
		a := &artifacts[i]
		switch {
		case len(a.HTML) == 0:
			log.Warn("document skipped", "kind", string(a.Kind), "error", a.Err)
			warnings = append(warnings, fmt.Sprintf("%s: %v", a.Kind, a.Err))
		case a.Err != nil:
			log.Warn("pdf conversion failed", "kind", string(a.Kind), "error", a.Err)
			warnings = append(warnings, fmt.Sprintf("%s: PDF conversion failed, HTML retained", a.Kind))
		default:
			log.Debug("document rendered",
				"kind", string(a.Kind),
				"pdf_size", humanize.Bytes(uint64(len(a.PDF))))
			pdfParts = append(pdfParts, a.PDF)
		}
	}

	// 5. Merge the per-document PDFs into the combined file.
	var combined []byte
	if len(pdfParts) > 0 {
		combined, err = export.MergePDFs(pdfParts)
		if err != nil {
			log.Warn("combined pdf failed", "error", err)
			warnings = append(warnings, fmt.Sprintf("combined PDF: %v", err))
			combined = nil
		}
	}

	// 6. Re-export the model as the verification workbook.
	workbook, err := export.WriteWorkbook(m, totals)
	if err != nil {
		log.Warn("verification workbook failed", "error", err)
		warnings = append(warnings, fmt.Sprintf("verification workbook: %v", err))
		workbook = nil
	}

	// 7. Pack everything into the deliverable archive.
	archive, manifest, err := bundle.Assemble(bundle.Input{
		Model:     m,
		Totals:    totals,
		Artifacts: artifacts,
		Combined:  combined,
		Workbook:  workbook,
		RunID:     newRunID(),
		Now:       start,
		Warnings:  warnings,
	})
	if err != nil {
		return nil, err
	}

	log.Info("archive assembled",
		"size", humanize.Bytes(uint64(len(archive))),
		"documents", len(manifest.Documents),
		"warnings", len(warnings),
		"elapsed", now().Sub(start).Round(time.Millisecond).String())

	return &Result{
		Archive:     archive,
		ArchiveName: bundle.ArchiveName(m, start),
		Manifest:    manifest,
		Totals:      totals,
		Model:       m,
	}, nil
}

// rates projects the configuration onto the compute rates.
func (p *Pipeline) rates() compute.Rates {
	c := p.Config
	return compute.Rates{
		Premium:         c.PremiumRate,
		GST:             c.GSTRate,
		SecurityDeposit: c.Deductions.SecurityDeposit,
		IncomeTax:       c.Deductions.IncomeTax,
		GSTTDS:          c.Deductions.GSTTDS,
		LabourCess:      c.Deductions.LabourCess,
	}
}
