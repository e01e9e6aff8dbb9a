// Package ledger mirrors finalized receipts to the server-side receipt ledger.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/junaidrashid-git/fastfood-pos/models"
	"github.com/junaidrashid-git/fastfood-pos/telemetry"
	"go.uber.org/zap"
)

// Client posts receipts to <baseURL>/api/receipts with the ledger API key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := telemetry.NewHTTPClient(nil)
	httpClient.Timeout = 10 * time.Second
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		logger:  logger,
	}
}

// Mirror sends the receipt in the export format and expects 201 Created.
func (c *Client) Mirror(ctx context.Context, receipt models.Receipt) error {
	body, err := json.Marshal(receipt.Export())
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/receipts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ledger: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("ledger API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	c.logger.Debug("receipt mirrored", zap.String("receipt_id", receipt.ID))
	return nil
}
