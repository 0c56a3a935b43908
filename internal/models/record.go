// internal/models/record.go
package models

import (
	"strings"
	"time"
)

const (
	// LedgerTimeFormat is the fixed timestamp layout of every ledger row.
	LedgerTimeFormat = "2006-01-02 15:04:05"

	// Sentinel defaults applied before persistence. A row is never written
	// with a blank name or payout.
	DefaultItemName = "Unknown Item"
	DefaultPayout   = "0"
)

// ExtractedRecord is the structured pair the extractor pulls out of an email
// body. The payout stays a string to preserve the original currency notation.
type ExtractedRecord struct {
	ItemName     string `json:"pokemon_name"`
	PayoutAmount string `json:"payout"`
}

// Normalized returns a copy with sentinel defaults applied to empty or
// placeholder fields.
func (r ExtractedRecord) Normalized() ExtractedRecord {
	name := strings.TrimSpace(r.ItemName)
	payout := strings.TrimSpace(r.PayoutAmount)

	if name == "" || name == "N/A" {
		name = DefaultItemName
	}
	if payout == "" || payout == "N/A" {
		payout = DefaultPayout
	}

	return ExtractedRecord{ItemName: name, PayoutAmount: payout}
}

// Complete reports whether both required fields are present. An incomplete
// record counts as an extraction failure, never a partial success.
func (r ExtractedRecord) Complete() bool {
	return strings.TrimSpace(r.ItemName) != "" && strings.TrimSpace(r.PayoutAmount) != ""
}

// LedgerRow is one append-only row in the external sale ledger.
type LedgerRow struct {
	Timestamp    string `json:"timestamp"`
	ItemName     string `json:"item_name"`
	PayoutAmount string `json:"payout_amount"`
}

// NewLedgerRow builds a row from a normalized record at the given time.
func NewLedgerRow(record ExtractedRecord, at time.Time) LedgerRow {
	return LedgerRow{
		Timestamp:    at.Format(LedgerTimeFormat),
		ItemName:     record.ItemName,
		PayoutAmount: record.PayoutAmount,
	}
}

// Values returns the row in the ledger's column order.
func (r LedgerRow) Values() []string {
	return []string{r.Timestamp, r.ItemName, r.PayoutAmount}
}
