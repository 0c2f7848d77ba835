package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var pdfcpuSetup sync.Once

// MergePDFs concatenates the rendered documents into a single PDF,
// preserving the order of parts.
func MergePDFs(parts [][]byte) ([]byte, error) {
	if len(parts) == 0 {
		return nil, errors.New("no documents to merge")
	}
	if len(parts) == 1 {
		return parts[0], nil
	}

	// Keep pdfcpu away from the user config dir so merging stays
	// hermetic.
	pdfcpuSetup.Do(api.DisableConfigDir)

	readers := make([]io.ReadSeeker, len(parts))
	for i, p := range parts {
		readers[i] = bytes.NewReader(p)
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, nil); err != nil {
		return nil, fmt.Errorf("merge pdfs: %w", err)
	}
	return buf.Bytes(), nil
}
