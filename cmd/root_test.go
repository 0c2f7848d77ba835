package cmd

import (
	"errors"
	"testing"

	"billgen/model"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bundle_failure", &model.BundleError{Reason: "no documents rendered"}, 2},
		{"render_failure", &model.RenderError{Kind: model.KindFirstPage, Err: errors.New("boom")}, 2},
		{"schema_failure", &model.SchemaError{Sheet: model.SectionBillQty}, 1},
		{"plain_error", errors.New("bad flag"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
