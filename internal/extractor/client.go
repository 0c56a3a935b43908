// internal/extractor/client.go
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "email-ledger/internal/common/errors"
	"email-ledger/internal/common/logger"
	"email-ledger/internal/models"
)

const completionsPath = "/openai/v1/chat/completions"

// systemPrompt instructs the model to return exactly the two named fields,
// preserving the full listing title.
const systemPrompt = "You will extract structured info from an email body. " +
	"Return a JSON object with the product name and the total payout (dollar amount). " +
	"Return the JSON using the exact field names: pokemon_name, payout. " +
	"NOTE: For the product name, return the entire string and title of the listing. " +
	"For example, if the email body mentions 'Hydrapple #68 Heat Wave Arena CGC 10 NM-MT+' and '150', return " +
	"'pokemon_name': 'Hydrapple #68 Heat Wave Arena CGC 10 NM-MT+', 'payout': '150'"

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

// Client calls the hosted LLM completion endpoint and turns unstructured
// email text into an ExtractedRecord.
type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			// No client timeout - rely only on context deadlines
		},
		logger: log.With(map[string]interface{}{
			"component": "extractor",
		}),
	}
}

type chatRequest struct {
	Model           string          `json:"model"`
	Temperature     float64         `json:"temperature"`
	ReasoningFormat string          `json:"reasoning_format,omitempty"`
	ResponseFormat  *responseFormat `json:"response_format,omitempty"`
	Messages        []chatMessage   `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract runs one completion call against the model. A response missing
// either required field is a failure, never a partial success.
func (c *Client) Extract(ctx context.Context, emailBody string) (models.ExtractedRecord, error) {
	reqBody := chatRequest{
		Model:           c.config.Model,
		Temperature:     c.config.Temperature,
		ReasoningFormat: "hidden",
		ResponseFormat:  &responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: emailBody},
		},
	}

	body, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+completionsPath, bytes.NewBuffer(body))
	if err != nil {
		return models.ExtractedRecord{}, apperrors.NewExtractionFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return models.ExtractedRecord{}, apperrors.NewExtractionTimeoutError()
		}
		return models.ExtractedRecord{}, apperrors.NewExtractionFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ExtractedRecord{}, apperrors.NewExtractionFailedError(fmt.Errorf("completion status %d", resp.StatusCode))
	}

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return models.ExtractedRecord{}, apperrors.NewExtractionFailedError(fmt.Errorf("decode error: %v", err))
	}

	if len(apiResponse.Choices) == 0 {
		return models.ExtractedRecord{}, apperrors.NewExtractionInvalidPayloadError("completion returned no choices")
	}

	var record models.ExtractedRecord
	content := stripCodeFences(apiResponse.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &record); err != nil {
		return models.ExtractedRecord{}, apperrors.NewExtractionInvalidPayloadError(fmt.Sprintf("malformed completion content: %v", err))
	}

	if !record.Complete() {
		return models.ExtractedRecord{}, apperrors.NewExtractionInvalidPayloadError("missing pokemon_name or payout")
	}

	c.logger.Info("extraction completed", map[string]interface{}{
		"itemName": record.ItemName,
		"payout":   record.PayoutAmount,
	})

	return record, nil
}

// stripCodeFences removes a ```json ... ``` wrapper some models emit around
// JSON content.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
