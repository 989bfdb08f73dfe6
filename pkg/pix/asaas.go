package pix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const asaasBaseURL = "https://api.asaas.com/v3"

// AsaasProvider issues PIX charges through the Asaas billing API. Creating a
// charge takes two bounded calls: one to open the payment (major-unit
// decimal value, externalReference = internal transaction id) and one to
// fetch its PIX QR payload.
type AsaasProvider struct{}

var asaasStatuses = map[string]string{
	"PENDING":                StatusPending,
	"AWAITING_RISK_ANALYSIS": StatusPending,
	"RECEIVED":               StatusPaid,
	"CONFIRMED":              StatusPaid,
	"RECEIVED_IN_CASH":       StatusPaid,
	"REFUNDED":               StatusRefunded,
	"REFUND_REQUESTED":       StatusRefunded,
	"OVERDUE":                StatusExpired,
	"DELETED":                StatusCancelled,
	"CANCELLED":              StatusCancelled,
}

func asaasStatus(s string) string {
	if mapped, ok := asaasStatuses[s]; ok {
		return mapped
	}
	return StatusPending
}

func (p *AsaasProvider) baseURL(creds Credentials) string {
	if u := creds["base_url"]; u != "" {
		return u
	}
	return asaasBaseURL
}

func (p *AsaasProvider) headers(creds Credentials) map[string]string {
	return map[string]string{"access_token": creds["api_key"]}
}

type asaasPaymentResp struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	PaymentDate string `json:"paymentDate"`
}

func (p *AsaasProvider) CreateCharge(ctx context.Context, creds Credentials, req ChargeRequest) (*Charge, error) {
	expiresAt := time.Now().Add(req.Expiration)
	payload := map[string]any{
		"billingType":       "PIX",
		"value":             majorUnits(req.AmountCents),
		"description":       req.Description,
		"externalReference": req.CorrelationRef,
		"dueDate":           expiresAt.Format("2006-01-02"),
	}
	if customer := creds["customer_id"]; customer != "" {
		payload["customer"] = customer
	}
	status, body, err := doJSON(ctx, http.MethodPost, p.baseURL(creds)+"/payments", p.headers(creds), payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &UpstreamError{Provider: "asaas", StatusCode: status, Body: string(body)}
	}
	var out asaasPaymentResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("asaas: decode create response: %w", err)
	}

	status, body, err = doJSON(ctx, http.MethodGet, p.baseURL(creds)+"/payments/"+out.ID+"/pixQrCode", p.headers(creds), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Provider: "asaas", StatusCode: status, Body: string(body)}
	}
	var qr struct {
		EncodedImage string `json:"encodedImage"`
		Payload      string `json:"payload"`
	}
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("asaas: decode qr response: %w", err)
	}
	return &Charge{
		ExternalID: out.ID,
		PixCode:    qr.Payload,
		QRImageB64: qr.EncodedImage,
		Status:     asaasStatus(out.Status),
		ExpiresAt:  expiresAt,
	}, nil
}

func (p *AsaasProvider) GetStatus(ctx context.Context, creds Credentials, externalID string) (*StatusResult, error) {
	status, body, err := doJSON(ctx, http.MethodGet, p.baseURL(creds)+"/payments/"+externalID, p.headers(creds), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Provider: "asaas", StatusCode: status, Body: string(body)}
	}
	var out asaasPaymentResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("asaas: decode status response: %w", err)
	}
	result := &StatusResult{Status: asaasStatus(out.Status)}
	if out.PaymentDate != "" {
		if t, err := time.Parse("2006-01-02", out.PaymentDate); err == nil {
			result.PaidAt = &t
		}
	}
	return result, nil
}

// ParseAsaasWebhook normalizes an Asaas payment event. Only PAYMENT_* events
// are payment notifications; anything else (transfers, invoices) returns
// nil, as do payloads without a payment id. The event name wins over the
// embedded status when it is itself conclusive.
func ParseAsaasWebhook(body []byte) *WebhookEvent {
	var payload struct {
		Event   string `json:"event"`
		Payment struct {
			ID          string `json:"id"`
			Status      string `json:"status"`
			PaymentDate string `json:"paymentDate"`
		} `json:"payment"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if len(payload.Event) < 8 || payload.Event[:8] != "PAYMENT_" {
		return nil
	}
	if payload.Payment.ID == "" {
		return nil
	}
	evt := &WebhookEvent{
		Provider:   "asaas",
		ExternalID: payload.Payment.ID,
		Status:     asaasStatus(payload.Payment.Status),
	}
	switch payload.Event {
	case "PAYMENT_RECEIVED", "PAYMENT_CONFIRMED":
		evt.Status = StatusPaid
	case "PAYMENT_REFUNDED":
		evt.Status = StatusRefunded
	case "PAYMENT_OVERDUE":
		evt.Status = StatusExpired
	case "PAYMENT_DELETED":
		evt.Status = StatusCancelled
	}
	if payload.Payment.PaymentDate != "" {
		if t, err := time.Parse("2006-01-02", payload.Payment.PaymentDate); err == nil {
			evt.PaidAt = &t
		}
	}
	return evt
}
