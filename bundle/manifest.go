// Package bundle assembles the final deliverable: one zip archive
// holding every rendered document, the combined PDF, the verification
// workbook, and a machine-readable manifest.
package bundle

import (
	"encoding/json"
	"fmt"
	"time"

	"billgen/compute"
	"billgen/model"
)

// Document statuses recorded in the manifest.
const (
	StatusOK       = "ok"        // HTML and PDF both present
	StatusHTMLOnly = "html_only" // PDF conversion failed, HTML kept
	StatusSkipped  = "skipped"   // document failed to render at all
)

// ManifestDocument describes one statutory document in the archive.
type ManifestDocument struct {
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	HTML      string `json:"html,omitempty"`
	HTMLBytes int    `json:"html_bytes,omitempty"`
	PDF       string `json:"pdf,omitempty"`
	PDFBytes  int    `json:"pdf_bytes,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ManifestTotals carries the financial chain as fixed 2-decimal
// strings so the manifest is byte-stable across runs.
type ManifestTotals struct {
	WorkOrderTotal  string `json:"work_order_total"`
	BillQtyTotal    string `json:"bill_quantity_total"`
	ExtraTotal      string `json:"extra_items_total"`
	GrandTotal      string `json:"grand_total"`
	PremiumAmount   string `json:"premium_amount"`
	GSTAmount       string `json:"gst_amount"`
	Payable         string `json:"payable"`
	TotalDeductions string `json:"total_deductions"`
	NetPayable      string `json:"net_payable"`
}

// Manifest is the archive's machine-readable index.
type Manifest struct {
	RunID          string             `json:"run_id"`
	GeneratedAt    string             `json:"generated_at"`
	ProjectName    string             `json:"project_name"`
	ContractorName string             `json:"contractor_name"`
	AgreementNo    string             `json:"agreement_no"`
	Documents      []ManifestDocument `json:"documents"`
	CombinedPDF    string             `json:"combined_pdf,omitempty"`
	Workbook       string             `json:"workbook,omitempty"`
	Entries        int                `json:"entries"`
	Totals         ManifestTotals     `json:"totals"`
	Warnings       []string           `json:"warnings,omitempty"`
}

// newManifest builds the manifest skeleton from the model and totals.
func newManifest(m *model.BillModel, t *compute.Totals, runID string, now time.Time, warnings []string) *Manifest {
	return &Manifest{
		RunID:          runID,
		GeneratedAt:    now.UTC().Format(time.RFC3339),
		ProjectName:    m.Header.FieldOr(model.KeyProjectName, "N/A"),
		ContractorName: m.Header.FieldOr(model.KeyContractorName, "N/A"),
		AgreementNo:    m.Header.FieldOr(model.KeyAgreementNo, "N/A"),
		Totals: ManifestTotals{
			WorkOrderTotal:  t.WorkOrderTotal.StringFixed(2),
			BillQtyTotal:    t.BillQtyTotal.StringFixed(2),
			ExtraTotal:      t.ExtraTotal.StringFixed(2),
			GrandTotal:      t.GrandTotal.StringFixed(2),
			PremiumAmount:   t.PremiumAmount.StringFixed(2),
			GSTAmount:       t.GSTAmount.StringFixed(2),
			Payable:         t.Payable.StringFixed(2),
			TotalDeductions: t.TotalDeductions.StringFixed(2),
			NetPayable:      t.NetPayable.StringFixed(2),
		},
		Warnings: warnings,
	}
}

// encode renders the manifest as stable, indented JSON.
func (mf *Manifest) encode() ([]byte, error) {
	data, err := json.MarshalIndent(mf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}
