// Package blockchain notifies the on-chain escrow contract of released
// milestones.
package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"africonnect/internal/escrow/ports"
)

const collaborator = "blockchain"

// HTTP talks to the chain relayer service.
type HTTP struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) NotifyMilestoneComplete(ctx context.Context, contractAddress string, milestoneID string, amount int64) error {
	body, err := json.Marshal(map[string]any{"amount": amount})
	if err != nil {
		return ports.NewExternalError(ports.ErrorInternal, collaborator, "encode notification", err)
	}
	endpoint := fmt.Sprintf("%s/contracts/%s/milestones/%s/complete",
		h.baseURL, url.PathEscape(contractAddress), url.PathEscape(milestoneID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.NewExternalError(ports.ErrorInternal, collaborator, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return ports.NewExternalError(ports.ClassifyTransportError(err), collaborator, "notify request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.NewExternalError(ports.ClassifyHTTPStatus(resp.StatusCode), collaborator,
			fmt.Sprintf("notify rejected with status %d", resp.StatusCode), nil)
	}
	return nil
}

// Noop is used when no relayer is configured.
type Noop struct{}

func (Noop) NotifyMilestoneComplete(context.Context, string, string, int64) error { return nil }
