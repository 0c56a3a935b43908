// internal/pipeline/result.go
package pipeline

import (
	"fmt"

	"email-ledger/internal/models"
)

// Kind tags which outcome branch of the pipeline produced a result. The
// values are the wire tags returned in the email_type field.
type Kind string

const (
	KindNoContent         Kind = "no_content"
	KindExtractionFailed  Kind = "llm_error"
	KindLedgerUnavailable Kind = "sheets_error"
	KindAppendFailed      Kind = "append_error"
	KindSuccess           Kind = "pokemon_sale"
)

// confidenceTable is a fixed lookup keyed by result kind, not a computed
// probability. 0.8 means extraction succeeded but persistence did not.
var confidenceTable = map[Kind]float64{
	KindNoContent:         0.0,
	KindExtractionFailed:  0.0,
	KindLedgerUnavailable: 0.8,
	KindAppendFailed:      0.8,
	KindSuccess:           0.95,
}

// Confidence returns the fixed confidence score for the kind.
func (k Kind) Confidence() float64 {
	return confidenceTable[k]
}

type ExtractedData struct {
	ItemName  string `json:"pokemon_name"`
	Payout    string `json:"payout"`
	Timestamp string `json:"timestamp,omitempty"`
}

type FinancialData struct {
	Payout   string `json:"payout"`
	Currency string `json:"currency"`
}

type ProductInfo struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
}

// Result is the uniform outcome record of one pipeline pass. Expected
// external-dependency failures are folded into it; they never surface as
// protocol-level errors.
type Result struct {
	EmailType       Kind           `json:"email_type"`
	Confidence      float64        `json:"confidence"`
	ExtractedData   *ExtractedData `json:"extracted_data,omitempty"`
	KeyInsights     []string       `json:"key_insights,omitempty"`
	FinancialData   *FinancialData `json:"financial_data,omitempty"`
	ProductInfo     *ProductInfo   `json:"product_info,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	RiskAssessment  string         `json:"risk_assessment,omitempty"`
	MarketAnalysis  string         `json:"market_analysis,omitempty"`
	Error           string         `json:"error,omitempty"`
}

func failureResult(kind Kind, errMsg string) *Result {
	return &Result{
		EmailType:  kind,
		Confidence: kind.Confidence(),
		Error:      errMsg,
	}
}

// failureWithRecord keeps the already-extracted record in the result so the
// caller does not lose it when persistence fails.
func failureWithRecord(kind Kind, record models.ExtractedRecord, errMsg string) *Result {
	return &Result{
		EmailType:  kind,
		Confidence: kind.Confidence(),
		ExtractedData: &ExtractedData{
			ItemName: record.ItemName,
			Payout:   record.PayoutAmount,
		},
		Error: errMsg,
	}
}

// successResult shapes the full caller-facing record. The insight and
// recommendation strings are presentation sugar interpolated from the
// extracted fields.
func successResult(record models.ExtractedRecord, timestamp string) *Result {
	return &Result{
		EmailType:  KindSuccess,
		Confidence: KindSuccess.Confidence(),
		ExtractedData: &ExtractedData{
			ItemName:  record.ItemName,
			Payout:    record.PayoutAmount,
			Timestamp: timestamp,
		},
		KeyInsights: []string{
			fmt.Sprintf("Pokemon card sold: %s", record.ItemName),
			fmt.Sprintf("Payout amount: $%s", record.PayoutAmount),
			fmt.Sprintf("Sale recorded at: %s", timestamp),
		},
		FinancialData: &FinancialData{
			Payout:   record.PayoutAmount,
			Currency: "USD",
		},
		ProductInfo: &ProductInfo{
			ProductName: record.ItemName,
			Category:    "pokemon_card",
		},
		Recommendations: []string{
			"Sale recorded successfully in Google Sheets",
			"Track similar sales for market analysis",
		},
		RiskAssessment: "low",
		MarketAnalysis: "Sale completed and recorded",
	}
}
