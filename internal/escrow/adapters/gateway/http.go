// Package gateway holds PaymentGateway implementations: a REST client for the
// real processor and a sandbox used in development and tests.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"africonnect/internal/escrow/ports"
)

const collaborator = "payment_gateway"

// HTTP charges through the processor's REST API.
type HTTP struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type HTTPOption func(*HTTP)

// WithHTTPClient replaces the default client; used in tests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.httpClient = c
	}
}

func NewHTTP(baseURL, apiKey string, timeout time.Duration, opts ...HTTPOption) *HTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	h := &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type chargeBody struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Method   string `json:"method"`
	Payer    string `json:"payer"`
	Payee    string `json:"payee,omitempty"`
}

type chargeResponse struct {
	SettlementID string `json:"settlement_id"`
	Status       string `json:"status"`
}

type errorResponse struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func (h *HTTP) Charge(ctx context.Context, req ports.ChargeRequest) (ports.ChargeResult, error) {
	body, err := json.Marshal(chargeBody{
		Amount:   req.Amount,
		Currency: req.Currency,
		Method:   req.Method,
		Payer:    req.PayerRef,
		Payee:    req.PayeeRef,
	})
	if err != nil {
		return ports.ChargeResult{}, ports.NewExternalError(ports.ErrorInternal, collaborator, "encode charge", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return ports.ChargeResult{}, ports.NewExternalError(ports.ErrorInternal, collaborator, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	if h.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return ports.ChargeResult{}, ports.NewExternalError(ports.ClassifyTransportError(err), collaborator, "charge request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		reason := strings.TrimSpace(string(raw))
		var errResp errorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Reason != "" {
			reason = errResp.Reason
		}
		return ports.ChargeResult{}, ports.NewExternalError(
			ports.ClassifyHTTPStatus(resp.StatusCode), collaborator,
			fmt.Sprintf("charge rejected with status %d: %s", resp.StatusCode, reason), nil)
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ports.ChargeResult{}, ports.NewExternalError(ports.ErrorBadResponse, collaborator, "decode charge response", err)
	}
	if out.SettlementID == "" {
		return ports.ChargeResult{}, ports.NewExternalError(ports.ErrorBadResponse, collaborator, "charge response has no settlement id", nil)
	}
	return ports.ChargeResult{SettlementID: out.SettlementID}, nil
}
