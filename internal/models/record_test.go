// internal/models/record_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractedRecord_Normalized(t *testing.T) {
	tests := []struct {
		name     string
		record   ExtractedRecord
		expected ExtractedRecord
	}{
		{
			name:     "complete record unchanged",
			record:   ExtractedRecord{ItemName: "Charizard VMAX", PayoutAmount: "135.00"},
			expected: ExtractedRecord{ItemName: "Charizard VMAX", PayoutAmount: "135.00"},
		},
		{
			name:     "empty name and placeholder payout",
			record:   ExtractedRecord{ItemName: "", PayoutAmount: "N/A"},
			expected: ExtractedRecord{ItemName: "Unknown Item", PayoutAmount: "0"},
		},
		{
			name:     "whitespace-only fields",
			record:   ExtractedRecord{ItemName: "   ", PayoutAmount: "  "},
			expected: ExtractedRecord{ItemName: "Unknown Item", PayoutAmount: "0"},
		},
		{
			name:     "placeholder name only",
			record:   ExtractedRecord{ItemName: "N/A", PayoutAmount: "42.50"},
			expected: ExtractedRecord{ItemName: "Unknown Item", PayoutAmount: "42.50"},
		},
		{
			name:     "surrounding whitespace trimmed",
			record:   ExtractedRecord{ItemName: "  Pikachu #25  ", PayoutAmount: " 10 "},
			expected: ExtractedRecord{ItemName: "Pikachu #25", PayoutAmount: "10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.Normalized())
		})
	}
}

func TestExtractedRecord_Complete(t *testing.T) {
	assert.True(t, ExtractedRecord{ItemName: "Mew", PayoutAmount: "5"}.Complete())
	assert.False(t, ExtractedRecord{ItemName: "", PayoutAmount: "5"}.Complete())
	assert.False(t, ExtractedRecord{ItemName: "Mew", PayoutAmount: ""}.Complete())
	assert.False(t, ExtractedRecord{ItemName: "  ", PayoutAmount: "\t"}.Complete())
}

func TestNewLedgerRow(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	record := ExtractedRecord{ItemName: "Charizard VMAX", PayoutAmount: "135.00"}

	row := NewLedgerRow(record, at)

	assert.Equal(t, "2024-01-15 10:30:45", row.Timestamp)
	assert.Equal(t, []string{"2024-01-15 10:30:45", "Charizard VMAX", "135.00"}, row.Values())
}

func TestEmailPayload_Content(t *testing.T) {
	tests := []struct {
		name     string
		body     EmailBody
		expected string
	}{
		{
			name:     "text body preferred",
			body:     EmailBody{TextBody: "plain", HTMLBody: "<b>html</b>"},
			expected: "plain",
		},
		{
			name:     "html fallback",
			body:     EmailBody{TextBody: "", HTMLBody: "<b>html</b>"},
			expected: "<b>html</b>",
		},
		{
			name:     "whitespace text falls back to html",
			body:     EmailBody{TextBody: "   ", HTMLBody: "<b>html</b>"},
			expected: "<b>html</b>",
		},
		{
			name:     "both empty",
			body:     EmailBody{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := EmailPayload{Body: tt.body}
			assert.Equal(t, tt.expected, payload.Content())
		})
	}
}
