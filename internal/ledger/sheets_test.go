// internal/ledger/sheets_test.go
package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "email-ledger/internal/common/errors"
	"email-ledger/internal/common/logger"
	"email-ledger/internal/models"
)

func writeTestCredentials(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service-account.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600))
	return path
}

func testClient(t *testing.T, baseURL string) *Client {
	client := NewClient(&Config{
		CredentialsFile: writeTestCredentials(t),
		SpreadsheetID:   "sheet-123",
		Worksheet:       "Sale List",
		Timeout:         5 * time.Second,
	}, logger.NewNoOpLogger())
	client.baseURL = baseURL
	client.authClient = func(ctx context.Context, credentials []byte) (*http.Client, error) {
		return &http.Client{}, nil
	}
	return client
}

func metadataResponse(titles ...string) string {
	sheets := make([]map[string]interface{}, 0, len(titles))
	for _, title := range titles {
		sheets = append(sheets, map[string]interface{}{
			"properties": map[string]interface{}{"title": title},
		})
	}
	data, _ := json.Marshal(map[string]interface{}{"sheets": sheets})
	return string(data)
}

func TestClient_Connect_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/spreadsheets/sheet-123", r.URL.Path)
		assert.Equal(t, "sheets.properties.title", r.URL.Query().Get("fields"))
		w.Write([]byte(metadataResponse("Summary", "Sale List")))
	}))
	defer ts.Close()

	handle, err := testClient(t, ts.URL).Connect(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, handle)
}

func TestClient_Connect_AppliesConfiguredTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(metadataResponse("Sale List")))
	}))
	defer ts.Close()

	client := testClient(t, ts.URL)
	client.config.Timeout = 7 * time.Second

	handle, err := client.Connect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, handle.client.Timeout)
}

func TestClient_Connect_WorksheetMissing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(metadataResponse("Summary", "Archive")))
	}))
	defer ts.Close()

	_, err := testClient(t, ts.URL).Connect(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLedgerConnectionFailed, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestClient_Connect_SpreadsheetUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	_, err := testClient(t, ts.URL).Connect(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLedgerConnectionFailed, apperrors.CodeOf(err))
}

func TestClient_Connect_MissingCredentialsFile(t *testing.T) {
	client := testClient(t, "http://unused")
	client.config.CredentialsFile = filepath.Join(t.TempDir(), "does-not-exist.json")

	_, err := client.Connect(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCredentialsInvalid, apperrors.CodeOf(err))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestClient_Connect_MalformedCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service-account.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	client := testClient(t, "http://unused")
	client.config.CredentialsFile = path
	client.authClient = serviceAccountClient

	_, err := client.Connect(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCredentialsInvalid, apperrors.CodeOf(err))
}

func TestHandle_Append(t *testing.T) {
	var gotPath string
	var gotBody map[string][][]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(metadataResponse("Sale List")))
			return
		}
		gotPath = r.URL.EscapedPath()
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"updates":{"updatedRows":1}}`))
	}))
	defer ts.Close()

	handle, err := testClient(t, ts.URL).Connect(context.Background())
	require.NoError(t, err)

	at := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	row := models.NewLedgerRow(models.ExtractedRecord{ItemName: "Charizard VMAX", PayoutAmount: "135.00"}, at)
	require.NoError(t, handle.Append(context.Background(), row))

	assert.Equal(t, "/spreadsheets/sheet-123/values/Sale%20List:append", gotPath)
	assert.Equal(t, [][]string{{"2024-01-15 10:30:45", "Charizard VMAX", "135.00"}}, gotBody["values"])
}

func TestHandle_Append_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(metadataResponse("Sale List")))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	handle, err := testClient(t, ts.URL).Connect(context.Background())
	require.NoError(t, err)

	row := models.NewLedgerRow(models.ExtractedRecord{ItemName: "Mew", PayoutAmount: "5"}, time.Now())
	err = handle.Append(context.Background(), row)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLedgerAppendFailed, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsRetryable(err))
}
