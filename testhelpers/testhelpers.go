// Package testhelpers builds in-memory billing workbooks for tests.
package testhelpers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Workbook accumulates sheets for an in-memory billing workbook.
type Workbook struct {
	f     *excelize.File
	first bool
}

// NewWorkbook starts an empty workbook.
func NewWorkbook(t *testing.T) *Workbook {
	t.Helper()
	return &Workbook{f: excelize.NewFile(), first: true}
}

// AddSheet writes rows to a named sheet. The first call claims the
// workbook's default sheet.
func (w *Workbook) AddSheet(t *testing.T, name string, rows [][]any) *Workbook {
	t.Helper()

	if w.first {
		if err := w.f.SetSheetName(w.f.GetSheetName(0), name); err != nil {
			t.Fatalf("failed to rename sheet %s: %v", name, err)
		}
		w.first = false
	} else {
		if _, err := w.f.NewSheet(name); err != nil {
			t.Fatalf("failed to create sheet %s: %v", name, err)
		}
	}

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to name cell (%d,%d): %v", j+1, i+1, err)
			}
			if err := w.f.SetCellValue(name, cell, v); err != nil {
				t.Fatalf("failed to set cell %s!%s: %v", name, cell, err)
			}
		}
	}
	return w
}

// Bytes serializes the workbook.
func (w *Workbook) Bytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := w.f.Write(&buf); err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

// Reader serializes the workbook and returns a reader over it.
func (w *Workbook) Reader(t *testing.T) *bytes.Reader {
	t.Helper()
	return bytes.NewReader(w.Bytes(t))
}

// StandardTitle returns the Title sheet rows shared by the fixtures.
func StandardTitle() [][]any {
	return [][]any{
		{"Name of Work", "Construction of Boundary Wall at District Office"},
		{"Agreement No.", "12/2025-26"},
		{"Name of Firm", "M/s Sharma Constructions"},
		{"Work Order No.", "WO/45/2025"},
		{"Tender Premium", "5%"},
		{"Date of Commencement", "01/10/2025"},
		{"Date of Completion", "31/03/2026"},
		{"M.B. No.", "MB-102"},
	}
}

// StandardWorkbook returns a complete three-section workbook whose
// figures the compute and pipeline tests assert against.
func StandardWorkbook(t *testing.T) *bytes.Reader {
	t.Helper()
	return NewWorkbook(t).
		AddSheet(t, "Title", StandardTitle()).
		AddSheet(t, "Work Order", [][]any{
			{"S.No", "Description", "Unit", "Quantity", "Rate", "Amount"},
			{"A", "Civil Works", "", "", "", ""},
			{"1", "Earthwork in excavation in foundation", "Cum", 100, 150, 15000},
			{"2", "Cement concrete 1:2:4 in foundation", "Cum", 20, 4500, 90000},
			{"3", "Brickwork in superstructure", "Cum", 30, 5200, 156000},
		}).
		AddSheet(t, "Bill Quantity", [][]any{
			{"S.No", "Description", "Unit", "Quantity", "Rate", "Amount"},
			{"A", "Civil Works", "", "", "", ""},
			{"1", "Earthwork in excavation in foundation", "Cum", 95, 150, 14250},
			{"2", "Cement concrete 1:2:4 in foundation", "Cum", 22, 4500, 99000},
			{"3", "Brickwork in superstructure", "Cum", 30, 5200, 156000},
		}).
		AddSheet(t, "Extra Items", [][]any{
			{"S.No", "Description", "Unit", "Quantity", "Rate", "Amount", "Approval Ref"},
			{"1", "Cement concrete apron around wall", "Sqm", 10, 450, 4500, "EE/EXT/07"},
		}).
		Reader(t)
}

// AssertContains checks that body contains all fragments.
func AssertContains(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected output to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
