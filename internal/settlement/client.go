package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	loadPath = "/external-load"

	serviceName = "Bank"
	serviceType = "BANK"
)

// LoadRequest is the single standardized request shape sent to the external
// settlement service for both DEBIN and transfer flows.
type LoadRequest struct {
	FromAccountID string          `json:"fromAccountId"`
	WalletID      string          `json:"walletId"`
	Amount        decimal.Decimal `json:"amount"`
	ServiceName   string          `json:"externalServiceName"`
	ServiceType   string          `json:"externalServiceType"`
}

// Client represents a connector to the external settlement service, the
// system of record that actually executes money movement.
type Client interface {
	Load(ctx context.Context, req LoadRequest) (json.RawMessage, error)
}

// Error carries the upstream failure detail so callers can surface it
// verbatim.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("settlement returned status %d: %s", e.StatusCode, e.Detail)
	}
	return e.Detail
}

// HTTPClient calls the settlement service over HTTP with bearer-token auth.
type HTTPClient struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewHTTPClient builds a settlement connector for the given base URL and token.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Load posts the movement request and returns the raw response payload on a
// 2xx answer. Transport errors and non-2xx statuses both come back as *Error
// with the upstream detail.
func (c *HTTPClient) Load(ctx context.Context, req LoadRequest) (json.RawMessage, error) {
	req.ServiceName = serviceName
	req.ServiceType = serviceType

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode settlement request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loadPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build settlement request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, &Error{Detail: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Detail: err.Error()}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(payload))}
	}

	return json.RawMessage(payload), nil
}
