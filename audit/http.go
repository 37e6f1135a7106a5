package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type registerCaseRequest struct {
	CaseID      string `json:"caseId"`
	Fingerprint string `json:"fingerprint"`
}

type registerCaseResponse struct {
	TxID string `json:"txId"`
}

// HTTPLedger relays registrations to a ledger gateway over HTTP
type HTTPLedger struct {
	client *resty.Client
}

// NewHTTPLedger returns a ledger posting to baseURL. Retries are left to
// the gateway, so the client makes a single attempt.
func NewHTTPLedger(baseURL string, timeout time.Duration) *HTTPLedger {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HTTPLedger{client: client}
}

// RegisterCase implements Ledger
func (h *HTTPLedger) RegisterCase(ctx context.Context, caseID, fingerprint string) error {
	var result registerCaseResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(registerCaseRequest{CaseID: caseID, Fingerprint: fingerprint}).
		SetResult(&result).
		Post("/cases")
	if err != nil {
		return fmt.Errorf("failed to call ledger gateway: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("ledger gateway returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
