// internal/ledger/sheets.go
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2/google"

	apperrors "email-ledger/internal/common/errors"
	"email-ledger/internal/common/logger"
	"email-ledger/internal/common/metrics"
	"email-ledger/internal/models"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// sheetsScopes grants read/write on spreadsheets plus drive metadata, the
// minimum the service account needs to open the target sheet by ID.
var sheetsScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

type Config struct {
	CredentialsFile string
	SpreadsheetID   string
	Worksheet       string
	Timeout         time.Duration
}

// Client opens handles against the Google Sheets sale ledger.
type Client struct {
	config  *Config
	baseURL string
	logger  logger.Logger

	// authClient builds an authenticated HTTP client from raw service-account
	// credentials. Swappable in tests.
	authClient func(ctx context.Context, credentials []byte) (*http.Client, error)
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config:  config,
		baseURL: defaultBaseURL,
		logger: log.With(map[string]interface{}{
			"component": "ledger",
		}),
		authClient: serviceAccountClient,
	}
}

func serviceAccountClient(ctx context.Context, credentials []byte) (*http.Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentials, sheetsScopes...)
	if err != nil {
		return nil, err
	}
	return jwtConfig.Client(ctx), nil
}

// Handle is an established connection scoped to one worksheet. Its only
// operation is an append; the ledger has no update or delete path.
type Handle struct {
	client        *http.Client
	baseURL       string
	spreadsheetID string
	worksheet     string
	logger        logger.Logger
}

// Connect loads the service-account credentials and verifies the target
// worksheet exists. It performs reads only; no test rows are written as a
// side effect of connecting.
func (c *Client) Connect(ctx context.Context) (*Handle, error) {
	credentials, err := os.ReadFile(c.config.CredentialsFile)
	if err != nil {
		return nil, apperrors.NewCredentialsInvalidError(fmt.Sprintf("read credentials: %v", err))
	}

	httpClient, err := c.authClient(ctx, credentials)
	if err != nil {
		return nil, apperrors.NewCredentialsInvalidError(fmt.Sprintf("parse credentials: %v", err))
	}
	if c.config.Timeout > 0 {
		httpClient.Timeout = c.config.Timeout
	}

	if err := c.verifyWorksheet(ctx, httpClient); err != nil {
		return nil, err
	}

	return &Handle{
		client:        httpClient,
		baseURL:       c.baseURL,
		spreadsheetID: c.config.SpreadsheetID,
		worksheet:     c.config.Worksheet,
		logger:        c.logger,
	}, nil
}

// verifyWorksheet reads the spreadsheet's sheet list and checks the
// configured worksheet is present.
func (c *Client) verifyWorksheet(ctx context.Context, httpClient *http.Client) error {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s?fields=sheets.properties.title", c.baseURL, c.config.SpreadsheetID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewLedgerConnectionFailedError(err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return apperrors.NewLedgerConnectionFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apperrors.NewLedgerConnectionFailedError(fmt.Errorf("open spreadsheet (status %d): %s", resp.StatusCode, string(body)))
	}

	var meta struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return apperrors.NewLedgerConnectionFailedError(fmt.Errorf("decode spreadsheet metadata: %v", err))
	}

	for _, sheet := range meta.Sheets {
		if sheet.Properties.Title == c.config.Worksheet {
			return nil
		}
	}

	return apperrors.NewLedgerConnectionFailedError(fmt.Errorf("worksheet %q not found", c.config.Worksheet))
}

// Append writes one row to the end of the worksheet.
func (h *Handle) Append(ctx context.Context, row models.LedgerRow) error {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS",
		h.baseURL, h.spreadsheetID, url.PathEscape(h.worksheet))

	payload := map[string]interface{}{
		"values": [][]string{row.Values()},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return apperrors.NewLedgerAppendFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return apperrors.NewLedgerAppendFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return apperrors.NewLedgerAppendFailedError(fmt.Errorf("append (status %d): %s", resp.StatusCode, string(respBody)))
	}

	metrics.LedgerRowsAppended.Inc()
	h.logger.Info("ledger row appended", map[string]interface{}{
		"itemName": row.ItemName,
		"payout":   row.PayoutAmount,
	})

	return nil
}
