// Package rates provides exchange-rate sources: the catalogue's fallback
// table, a REST rates API, and a Redis cache in front of either.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"africonnect/internal/escrow/ports"
)

const collaborator = "rate_source"

// Static answers from a fixed base→quote table. A missing direct pair is
// served by inverting the reverse pair when one exists.
type Static struct {
	table map[string]map[string]float64
}

func NewStatic(table map[string]map[string]float64) *Static {
	normalized := make(map[string]map[string]float64, len(table))
	for base, quotes := range table {
		b := strings.ToUpper(base)
		if normalized[b] == nil {
			normalized[b] = make(map[string]float64, len(quotes))
		}
		for quote, rate := range quotes {
			normalized[b][strings.ToUpper(quote)] = rate
		}
	}
	return &Static{table: normalized}
}

func (s *Static) Rate(_ context.Context, base, quote string) (float64, error) {
	if base == quote {
		return 1, nil
	}
	if rate, ok := s.table[base][quote]; ok {
		return rate, nil
	}
	if inverse, ok := s.table[quote][base]; ok && inverse > 0 {
		return 1 / inverse, nil
	}
	return 0, ports.ErrRateNotFound
}

// HTTP queries GET {base}/rates?base=USD&quote=NGN and expects {"rate": n}.
type HTTP struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (h *HTTP) Rate(ctx context.Context, base, quote string) (float64, error) {
	if base == quote {
		return 1, nil
	}
	q := url.Values{"base": {base}, "quote": {quote}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/rates?"+q.Encode(), nil)
	if err != nil {
		return 0, ports.NewExternalError(ports.ErrorInternal, collaborator, "build request", err)
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, ports.NewExternalError(ports.ClassifyTransportError(err), collaborator, "rate request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, ports.ErrRateNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return 0, ports.NewExternalError(ports.ClassifyHTTPStatus(resp.StatusCode), collaborator,
			fmt.Sprintf("rate request rejected with status %d", resp.StatusCode), nil)
	}
	var body struct {
		Rate float64 `json:"rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, ports.NewExternalError(ports.ErrorBadResponse, collaborator, "decode rate response", err)
	}
	if body.Rate <= 0 {
		return 0, ports.ErrRateNotFound
	}
	return body.Rate, nil
}
