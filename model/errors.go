package model

import "fmt"

// SchemaError reports a required sheet or column that no alias matched.
// It aborts the run before any document is produced.
type SchemaError struct {
	Sheet string
	Field string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: required sheet %q not found in workbook", e.Sheet)
	}
	return fmt.Sprintf("schema: sheet %q has no column matching %q", e.Sheet, e.Field)
}

// DataTypeError reports a cell whose value could not be coerced to a
// number. Row is the 1-based spreadsheet row so a clerk can find the cell.
type DataTypeError struct {
	Sheet string
	Row   int
	Field string
	Value string
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("data: sheet %q row %d: %s value %q is not numeric", e.Sheet, e.Row, e.Field, e.Value)
}

// ArithmeticPreconditionError reports an input the aggregation engine
// refuses to compute over, such as a negative quantity or rate.
type ArithmeticPreconditionError struct {
	Section string
	Serial  string
	Reason  string
}

func (e *ArithmeticPreconditionError) Error() string {
	return fmt.Sprintf("aggregate: %s item %s: %s", e.Section, e.Serial, e.Reason)
}

// UnboundFieldError reports a header field a document binder required
// but the normalizer could not supply. The affected document is skipped;
// the rest of the run continues.
type UnboundFieldError struct {
	Kind  DocumentKind
	Field string
}

func (e *UnboundFieldError) Error() string {
	return fmt.Sprintf("render: %s: required header field %q is not bound", e.Kind, e.Field)
}

// RenderError wraps a document-local rendering or conversion failure.
type RenderError struct {
	Kind DocumentKind
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// BundleError reports a failure assembling the final archive. It is
// fatal: a run that cannot produce its archive has produced nothing.
type BundleError struct {
	Reason string
	Err    error
}

func (e *BundleError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("bundle: %s", e.Reason)
	}
	return fmt.Sprintf("bundle: %s: %v", e.Reason, e.Err)
}

func (e *BundleError) Unwrap() error { return e.Err }
