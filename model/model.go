package model

import "github.com/shopspring/decimal"

// Section names as they appear in documents and the verification workbook.
const (
	SectionWorkOrder  = "Work Order"
	SectionBillQty    = "Bill Quantity"
	SectionExtraItems = "Extra Items"
)

// Canonical header keys produced by the ingestion alias tables.
// Labels that match no alias are stored under their normalized label.
const (
	KeyProjectName       = "project_name"
	KeyContractNo        = "contract_no"
	KeyWorkOrderRef      = "work_order_ref"
	KeyContractorName    = "contractor_name"
	KeyContractorAddress = "contractor_address"
	KeyContractorGSTIN   = "contractor_gstin"
	KeyContractorPAN     = "contractor_pan"
	KeyAgreementNo       = "agreement_no"
	KeyWorkOrderDate     = "work_order_date"
	KeyCommencementDate  = "commencement_date"
	KeyCompletionDate    = "completion_date"
	KeyActualCompletion  = "actual_completion_date"
	KeyMeasurementBook   = "measurement_book_no"
	KeyBillSerial        = "bill_serial"
	KeyBillType          = "bill_type"
	KeyPremiumRate       = "premium_rate"
	KeyGSTRate           = "gst_rate"
	KeyLiquidatedDamages = "liquidated_damages"
	KeyDivision          = "division"
	KeySubDivision       = "sub_division"
)

// BillModel is the canonical in-memory form of one billing spreadsheet.
type BillModel struct {
	Header     HeaderInfo
	WorkOrder  Section
	BillQty    Section
	ExtraItems Section
	// Warnings are non-fatal normalization findings; the aggregation
	// engine folds them into the totals warnings.
	Warnings []string
}

// Section returns the named section, matched against the canonical
// section names.
func (m *BillModel) Section(name string) *Section {
	switch name {
	case SectionWorkOrder:
		return &m.WorkOrder
	case SectionBillQty:
		return &m.BillQty
	case SectionExtraItems:
		return &m.ExtraItems
	}
	return nil
}

// HeaderInfo holds the Title-sheet fields keyed by canonical key (or
// normalized label for unrecognized fields). Order preserves the sheet's
// row order for re-export.
type HeaderInfo struct {
	Fields map[string]string
	Order  []string
}

// Set stores a header value, recording first-seen insertion order.
func (h *HeaderInfo) Set(key, value string) {
	if h.Fields == nil {
		h.Fields = make(map[string]string)
	}
	if _, seen := h.Fields[key]; !seen {
		h.Order = append(h.Order, key)
	}
	h.Fields[key] = value
}

// Field returns the value for key and whether it is present and non-empty.
func (h HeaderInfo) Field(key string) (string, bool) {
	v, ok := h.Fields[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// FieldOr returns the value for key, or fallback when absent or empty.
func (h HeaderInfo) FieldOr(key, fallback string) string {
	if v, ok := h.Field(key); ok {
		return v
	}
	return fallback
}

// Section is one tabular sheet of the bill.
type Section struct {
	Name  string
	Items []LineItem
}

// IsEmpty reports whether the section has no line items.
func (s Section) IsEmpty() bool { return len(s.Items) == 0 }

// Total sums the item amounts, rounded half-up to 2 decimal places.
func (s Section) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.Amount)
	}
	return sum.Round(2)
}

// LineItem is one measured row of a section.
type LineItem struct {
	Serial      string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
	// AmountGiven is true when the sheet supplied the amount cell; the
	// supplied figure stays authoritative over quantity times rate.
	AmountGiven bool
	// PrevQuantity is the "upto previous bill" column, zero when absent.
	PrevQuantity decimal.Decimal
	// ApprovalRef is the sanction reference, Extra Items only.
	ApprovalRef string
	Remark      string
}
