package domain

import (
	"encoding/json"
	"time"
)

// Extractor fallback values, matching what the vision prompt instructs the
// model to return when a field cannot be read off the invoice.
const (
	UnknownSupplier    = "Neznámý dodavatel"
	UnknownDescription = "Neznámé zboží"
	UnknownDate        = "RRRR-MM-DD"
)

// DateOnly is a date-only JSON value. The zero value stands for a date the
// extractor could not read and round-trips as the UnknownDate sentinel.
type DateOnly struct {
	time.Time
}

// ParseDateOnly parses a YYYY-MM-DD string. Anything unparseable, the
// sentinel included, maps to the zero value.
func ParseDateOnly(s string) DateOnly {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DateOnly{}
	}
	return DateOnly{Time: t}
}

func (d DateOnly) String() string {
	if d.Time.IsZero() {
		return UnknownDate
	}
	return d.Time.Format("2006-01-02")
}

// UnmarshalJSON implements custom unmarshaling for date-only strings
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*d = ParseDateOnly(s)
	return nil
}

// MarshalJSON implements custom marshaling for date-only strings
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// InvoiceRecord is the full extracted field set for one processed invoice,
// persisted as the JSON sidecar. The three filename-embedded fields (issue
// date, supplier, description) are duplicated here so the record survives a
// hand-mangled filename; DetailedDescription exists only in the sidecar.
type InvoiceRecord struct {
	SupplierName        string   `json:"supplier_name"`
	IssueDate           DateOnly `json:"issue_date"` // zero when the extractor returned the sentinel
	Description         string   `json:"description"`
	DetailedDescription string   `json:"detailed_description,omitempty"`

	// EncodedName is the filename stem the record is stored under.
	// Derived, never entered by the user.
	EncodedName string `json:"encoded_name,omitempty"`
}

// NewInvoiceRecord returns a record pre-filled with the extractor fallback
// values so a partially parsed extraction still yields a usable record.
func NewInvoiceRecord() *InvoiceRecord {
	return &InvoiceRecord{
		SupplierName: UnknownSupplier,
		Description:  UnknownDescription,
	}
}
