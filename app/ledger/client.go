package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/propline/propline/internal/logger"
	"github.com/propline/propline/models"
)

var (
	ErrBaseURLNotConfigured = errors.New("ledger base URL not configured")
	ErrTokenNotConfigured   = errors.New("ledger service token not configured")
)

// Config holds the ledger service connection settings.
type Config struct {
	BaseURL      string        `env:"LEDGER_BASE_URL"`
	ServiceToken string        `env:"LEDGER_SERVICE_TOKEN"`
	Timeout      time.Duration `env:"LEDGER_TIMEOUT" env-default:"10s"`
}

// Validate checks the configuration for usable values
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLNotConfigured
	}
	if c.ServiceToken == "" {
		return ErrTokenNotConfigured
	}
	return nil
}

// Client invokes the ledger service's internal grading endpoint. The ledger
// owns settlement atomicity (balances, undo); this client only reports the
// graded outcome.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger
}

// NewClient creates a new ledger client
func NewClient(cfg Config, httpClient *http.Client, l logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient, logger: l}
}

type settleRequest struct {
	Outcome models.Outcome `json:"outcome"`
}

// Settle reports a market's graded outcome to the ledger. A 409 means some
// other pass settled it first and maps to models.ErrMarketAlreadyResolved.
func (c *Client) Settle(ctx context.Context, marketID uuid.UUID, outcome models.Outcome) error {
	body, err := json.Marshal(settleRequest{Outcome: outcome})
	if err != nil {
		return fmt.Errorf("encode settle request: %w", err)
	}

	url := fmt.Sprintf("%s/internal/markets/%s/resolve", c.cfg.BaseURL, marketID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build settle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("settle market %s: %w", marketID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict:
		return models.ErrMarketAlreadyResolved
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("settle market %s: ledger returned %d: %s", marketID, resp.StatusCode, snippet)
	}
}
