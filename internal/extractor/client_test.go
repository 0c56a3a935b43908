// internal/extractor/client_test.go
package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "email-ledger/internal/common/errors"
	"email-ledger/internal/common/logger"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "deepseek-r1-distill-llama-70b",
		Temperature: 0.3,
	}
}

func completionResponse(content string) string {
	response := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	}
	data, _ := json.Marshal(response)
	return string(data)
}

func TestClient_Extract_Success(t *testing.T) {
	tests := []struct {
		name           string
		content        string
		expectedName   string
		expectedPayout string
	}{
		{
			name:           "plain JSON content",
			content:        `{"pokemon_name": "Charizard VMAX", "payout": "135.00"}`,
			expectedName:   "Charizard VMAX",
			expectedPayout: "135.00",
		},
		{
			name:           "fenced JSON content",
			content:        "```json\n{\"pokemon_name\": \"Hydrapple #68 Heat Wave Arena CGC 10 NM-MT+\", \"payout\": \"150\"}\n```",
			expectedName:   "Hydrapple #68 Heat Wave Arena CGC 10 NM-MT+",
			expectedPayout: "150",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, completionsPath, r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

				var req chatRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "deepseek-r1-distill-llama-70b", req.Model)
				assert.Len(t, req.Messages, 2)
				assert.Equal(t, "system", req.Messages[0].Role)

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(completionResponse(tt.content)))
			}))
			defer ts.Close()

			client := NewClient(testConfig(ts.URL), logger.NewNoOpLogger())
			record, err := client.Extract(context.Background(), "Sale Price: $150.00, Total Payout: $135.00")

			require.NoError(t, err)
			assert.Equal(t, tt.expectedName, record.ItemName)
			assert.Equal(t, tt.expectedPayout, record.PayoutAmount)
		})
	}
}

func TestClient_Extract_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing payout", `{"pokemon_name": "Charizard VMAX"}`},
		{"missing name", `{"payout": "135.00"}`},
		{"empty fields", `{"pokemon_name": "", "payout": ""}`},
		{"not JSON at all", `the payout was one hundred dollars`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(completionResponse(tt.content)))
			}))
			defer ts.Close()

			client := NewClient(testConfig(ts.URL), logger.NewNoOpLogger())
			_, err := client.Extract(context.Background(), "some body")

			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeExtractionInvalidPayload, apperrors.CodeOf(err))
			assert.True(t, apperrors.IsRetryable(err))
		})
	}
}

func TestClient_Extract_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL), logger.NewNoOpLogger())
	_, err := client.Extract(context.Background(), "some body")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeExtractionInvalidPayload, apperrors.CodeOf(err))
}

func TestClient_Extract_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL), logger.NewNoOpLogger())
	_, err := client.Extract(context.Background(), "some body")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeExtractionFailed, apperrors.CodeOf(err))
}

func TestClient_Extract_ContextDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(completionResponse(`{"pokemon_name": "Mew", "payout": "1"}`)))
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewClient(testConfig(ts.URL), logger.NewNoOpLogger())
	_, err := client.Extract(ctx, "some body")

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeExtractionTimeout, apperrors.CodeOf(err))
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
