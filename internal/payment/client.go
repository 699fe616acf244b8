// Package payment is the adapter for the external payment gateway. The
// gateway is the second line of defense against double charges: every charge
// carries a caller-supplied idempotency key, so network-level retries of the
// same logical charge never bill twice even if the local guard races.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// IdempotencyKeyHeader is the header the gateway deduplicates charges on.
const IdempotencyKeyHeader = "Idempotency-Key"

// ErrGatewayUnavailable means the gateway could not be reached or answered
// with a server error. The charge outcome is unknown; the order stays unpaid
// and the client may retry (the idempotency key makes the retry safe).
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// GatewayError is a charge the gateway processed and rejected: a decline or
// an invalid request. Code, Message and Param are the provider's own and are
// surfaced to the caller verbatim, since they are user-actionable. Declined
// charges are never retried automatically.
type GatewayError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Param      string `json:"param,omitempty"`
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway rejected charge: %s (%s)", e.Message, e.Code)
}

type ChargeRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Token          string            `json:"token"`
	Description    string            `json:"description,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	IdempotencyKey string            `json:"-"`
}

type ChargeResponse struct {
	ChargeID string `json:"charge_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Paid     bool   `json:"paid"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set(IdempotencyKeyHeader, req.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var charge ChargeResponse
		if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
			return nil, fmt.Errorf("decode charge response: %w", err)
		}
		return &charge, nil

	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: gateway returned status %d", ErrGatewayUnavailable, resp.StatusCode)

	default:
		var body struct {
			Error GatewayError `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("gateway returned status %d with undecodable body: %w", resp.StatusCode, err)
		}
		body.Error.StatusCode = resp.StatusCode
		return nil, &body.Error
	}
}
