package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"billgen/compute"
	"billgen/model"
	"billgen/render"
)

// Artifact is one statutory document with whatever forms survived
// rendering. HTML is nil when the document failed outright, PDF is nil
// when only the conversion failed.
type Artifact struct {
	Kind  model.DocumentKind
	Title string
	HTML  []byte
	PDF   []byte
	Err   error
}

// Input carries everything the archive packs.
type Input struct {
	Model     *model.BillModel
	Totals    *compute.Totals
	Artifacts []Artifact
	Combined  []byte
	Workbook  []byte
	RunID     string
	Now       time.Time
	Warnings  []string
}

// Assemble writes the deliverable archive and returns its bytes with
// the manifest that was embedded in it. A run where no document
// rendered has nothing to deliver and fails.
func Assemble(in Input) ([]byte, *Manifest, error) {
	rendered := 0
	for _, a := range in.Artifacts {
		if len(a.HTML) > 0 {
			rendered++
		}
	}
	if rendered == 0 {
		return nil, nil, &model.BundleError{Reason: "no documents rendered"}
	}

	mf := newManifest(in.Model, in.Totals, in.RunID, in.Now, in.Warnings)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	mod := in.Now.UTC()
	entries := 0

	for _, a := range in.Artifacts {
		entry := ManifestDocument{Kind: string(a.Kind), Title: a.Title}
		if entry.Title == "" {
			entry.Title = string(a.Kind)
		}
		switch {
		case len(a.HTML) == 0:
			entry.Status = StatusSkipped
		case len(a.PDF) == 0:
			entry.Status = StatusHTMLOnly
		default:
			entry.Status = StatusOK
		}
		if a.Err != nil {
			entry.Error = a.Err.Error()
		}

		if len(a.HTML) > 0 {
			name := fmt.Sprintf("html/%s.html", a.Kind)
			if err := addEntry(zw, name, a.HTML, mod); err != nil {
				return nil, nil, &model.BundleError{Reason: "write " + name, Err: err}
			}
			entry.HTML = name
			entry.HTMLBytes = len(a.HTML)
			entries++
		}
		if len(a.PDF) > 0 {
			name := fmt.Sprintf("pdf/%s.pdf", a.Kind)
			if err := addEntry(zw, name, a.PDF, mod); err != nil {
				return nil, nil, &model.BundleError{Reason: "write " + name, Err: err}
			}
			entry.PDF = name
			entry.PDFBytes = len(a.PDF)
			entries++
		}
		mf.Documents = append(mf.Documents, entry)
	}

	if len(in.Combined) > 0 {
		const name = "pdf/combined_documents.pdf"
		if err := addEntry(zw, name, in.Combined, mod); err != nil {
			return nil, nil, &model.BundleError{Reason: "write " + name, Err: err}
		}
		mf.CombinedPDF = name
		entries++
	}
	if len(in.Workbook) > 0 {
		const name = "excel/verification_workbook.xlsx"
		if err := addEntry(zw, name, in.Workbook, mod); err != nil {
			return nil, nil, &model.BundleError{Reason: "write " + name, Err: err}
		}
		mf.Workbook = name
		entries++
	}

	// manifest.json and PROJECT_INFO.md count themselves.
	mf.Entries = entries + 2

	manifestJSON, err := mf.encode()
	if err != nil {
		return nil, nil, &model.BundleError{Reason: "encode manifest", Err: err}
	}
	if err := addEntry(zw, "manifest.json", manifestJSON, mod); err != nil {
		return nil, nil, &model.BundleError{Reason: "write manifest.json", Err: err}
	}
	if err := addEntry(zw, "PROJECT_INFO.md", projectInfo(in, mf), mod); err != nil {
		return nil, nil, &model.BundleError{Reason: "write PROJECT_INFO.md", Err: err}
	}

	if err := zw.Close(); err != nil {
		return nil, nil, &model.BundleError{Reason: "close archive", Err: err}
	}
	return buf.Bytes(), mf, nil
}

// addEntry writes one archive member with a fixed modification time so
// identical inputs produce identical archives.
func addEntry(zw *zip.Writer, name string, data []byte, mod time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: mod,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// projectInfo renders the human-readable cover note for the archive.
func projectInfo(in Input, mf *Manifest) []byte {
	var b strings.Builder
	b.WriteString("# " + mf.ProjectName + "\n\n")
	fmt.Fprintf(&b, "- Contractor: %s\n", mf.ContractorName)
	fmt.Fprintf(&b, "- Agreement No.: %s\n", mf.AgreementNo)
	fmt.Fprintf(&b, "- Generated: %s\n", mf.GeneratedAt)
	fmt.Fprintf(&b, "- Run ID: %s\n\n", mf.RunID)

	b.WriteString("## Documents\n\n")
	b.WriteString("| Document | Status | Size |\n")
	b.WriteString("|----------|--------|------|\n")
	for i, a := range in.Artifacts {
		size := "-"
		if n := len(a.PDF); n > 0 {
			size = humanize.Bytes(uint64(n))
		} else if n := len(a.HTML); n > 0 {
			size = humanize.Bytes(uint64(n))
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", mf.Documents[i].Title, mf.Documents[i].Status, size)
	}
	b.WriteString("\n## Financial Summary\n\n")
	fmt.Fprintf(&b, "- Grand Total: %s\n", render.FormatINR(in.Totals.GrandTotal))
	fmt.Fprintf(&b, "- Total Amount Payable: %s\n", render.FormatINR(in.Totals.Payable))
	fmt.Fprintf(&b, "- Net Payable: %s\n", render.FormatINR(in.Totals.NetPayable))
	fmt.Fprintf(&b, "- In Words: %s\n", render.AmountToWords(in.Totals.NetPayable))

	if len(mf.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range mf.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return []byte(b.String())
}

// ArchiveName derives the archive filename from the project name.
func ArchiveName(m *model.BillModel, now time.Time) string {
	project := m.Header.FieldOr(model.KeyProjectName, "")
	if project == "" || project == "N/A" {
		project = "Contract"
	}
	return fmt.Sprintf("Bill_%s_%s.zip", sanitizeFilename(project), now.Format("20060102"))
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
