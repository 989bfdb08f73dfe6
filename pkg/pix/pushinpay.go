package pix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const pushinPayBaseURL = "https://api.pushinpay.com.br"

// PushinPayProvider issues PIX charges through the PushinPay cash-in API.
// PushinPay already speaks integer centavos, so amounts cross the boundary
// unchanged. The API has no external-reference or idempotency field, so the
// correlation id never travels upstream; callbacks are matched by the
// provider-assigned transaction id alone.
type PushinPayProvider struct{}

var pushinPayStatuses = map[string]string{
	"created":    StatusPending,
	"pending":    StatusPending,
	"waiting":    StatusPending,
	"paid":       StatusPaid,
	"approved":   StatusPaid,
	"refunded":   StatusRefunded,
	"chargeback": StatusRefunded,
	"canceled":   StatusCancelled,
	"cancelled":  StatusCancelled,
	"expired":    StatusExpired,
}

func pushinPayStatus(s string) string {
	if mapped, ok := pushinPayStatuses[s]; ok {
		return mapped
	}
	return StatusPending
}

func (p *PushinPayProvider) baseURL(creds Credentials) string {
	if u := creds["base_url"]; u != "" {
		return u
	}
	return pushinPayBaseURL
}

func (p *PushinPayProvider) headers(creds Credentials) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + creds["token"],
		"Accept":        "application/json",
	}
}

type pushinPayTxResp struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Value        int64  `json:"value"`
	QRCode       string `json:"qr_code"`
	QRCodeBase64 string `json:"qr_code_base64"`
	EndToEndID   string `json:"end_to_end_id"`
	PaidAt       string `json:"paid_at"`
}

func (p *PushinPayProvider) CreateCharge(ctx context.Context, creds Credentials, req ChargeRequest) (*Charge, error) {
	payload := map[string]any{
		"value": req.AmountCents,
	}
	if webhook := creds["webhook_url"]; webhook != "" {
		payload["webhook_url"] = webhook
	}
	status, body, err := doJSON(ctx, http.MethodPost, p.baseURL(creds)+"/api/pix/cashIn", p.headers(creds), payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &UpstreamError{Provider: "pushinpay", StatusCode: status, Body: string(body)}
	}
	var out pushinPayTxResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("pushinpay: decode create response: %w", err)
	}
	return &Charge{
		ExternalID: out.ID,
		PixCode:    out.QRCode,
		QRImageB64: out.QRCodeBase64,
		Status:     pushinPayStatus(out.Status),
		ExpiresAt:  time.Now().Add(req.Expiration),
	}, nil
}

func (p *PushinPayProvider) GetStatus(ctx context.Context, creds Credentials, externalID string) (*StatusResult, error) {
	status, body, err := doJSON(ctx, http.MethodGet, p.baseURL(creds)+"/api/transactions/"+externalID, p.headers(creds), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Provider: "pushinpay", StatusCode: status, Body: string(body)}
	}
	var out pushinPayTxResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("pushinpay: decode status response: %w", err)
	}
	result := &StatusResult{Status: pushinPayStatus(out.Status)}
	if out.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, out.PaidAt); err == nil {
			result.PaidAt = &t
		}
	}
	return result, nil
}

// ParsePushinPayWebhook normalizes a PushinPay transaction webhook. The
// payload carries the final status, so the event applies directly. Payloads
// without a transaction id return nil.
func ParsePushinPayWebhook(body []byte) *WebhookEvent {
	var payload struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		EndToEndID string `json:"end_to_end_id"`
		PaidAt     string `json:"paid_at"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if payload.ID == "" {
		return nil
	}
	evt := &WebhookEvent{
		Provider:   "pushinpay",
		ExternalID: payload.ID,
		Status:     pushinPayStatus(payload.Status),
	}
	if payload.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, payload.PaidAt); err == nil {
			evt.PaidAt = &t
		}
	}
	return evt
}
