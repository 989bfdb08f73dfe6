package pix

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const mercadoPagoBaseURL = "https://api.mercadopago.com"

// MercadoPagoProvider issues PIX charges through the Mercado Pago payments
// API. Amounts travel as major-unit decimals (transaction_amount) and the
// internal transaction id goes out both as X-Idempotency-Key and as
// external_reference.
//
// Mercado Pago's webhook only announces "payment.updated" with the payment
// id and no final status, so its normalizer flags the event RequiresPoll and
// the reconciler confirms via GetStatus before applying anything.
type MercadoPagoProvider struct{}

// mercadoPagoStatuses maps Mercado Pago's payment status vocabulary to the
// normalized set. Unknown statuses fall back to pending.
var mercadoPagoStatuses = map[string]string{
	"pending":      StatusPending,
	"in_process":   StatusPending,
	"in_mediation": StatusPending,
	"authorized":   StatusPending,
	"approved":     StatusPaid,
	"accredited":   StatusPaid,
	"refunded":     StatusRefunded,
	"charged_back": StatusRefunded,
	"cancelled":    StatusCancelled,
	"rejected":     StatusCancelled,
	"expired":      StatusExpired,
}

func mercadoPagoStatus(s string) string {
	if mapped, ok := mercadoPagoStatuses[s]; ok {
		return mapped
	}
	return StatusPending
}

func (p *MercadoPagoProvider) baseURL(creds Credentials) string {
	if u := creds["base_url"]; u != "" {
		return u
	}
	return mercadoPagoBaseURL
}

func (p *MercadoPagoProvider) headers(creds Credentials) map[string]string {
	return map[string]string{"Authorization": "Bearer " + creds["access_token"]}
}

type mercadoPagoPaymentResp struct {
	ID                 int64  `json:"id"`
	Status             string `json:"status"`
	DateApproved       string `json:"date_approved"`
	DateOfExpiration   string `json:"date_of_expiration"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (p *MercadoPagoProvider) CreateCharge(ctx context.Context, creds Credentials, req ChargeRequest) (*Charge, error) {
	expiresAt := time.Now().Add(req.Expiration)
	payload := map[string]any{
		"transaction_amount": majorUnits(req.AmountCents),
		"description":        req.Description,
		"payment_method_id":  "pix",
		"external_reference": req.CorrelationRef,
		"date_of_expiration": expiresAt.Format("2006-01-02T15:04:05.000-07:00"),
	}
	payer := map[string]any{"email": "pagador@pix.local"}
	if req.Payer != nil {
		if req.Payer.Email != "" {
			payer["email"] = req.Payer.Email
		}
		if req.Payer.Name != "" {
			payer["first_name"] = req.Payer.Name
		}
		if req.Payer.Document != "" {
			payer["identification"] = map[string]string{"type": "CPF", "number": req.Payer.Document}
		}
	}
	payload["payer"] = payer

	headers := p.headers(creds)
	headers["X-Idempotency-Key"] = req.CorrelationRef
	status, body, err := doJSON(ctx, http.MethodPost, p.baseURL(creds)+"/v1/payments", headers, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &UpstreamError{Provider: "mercadopago", StatusCode: status, Body: string(body)}
	}
	var out mercadoPagoPaymentResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("mercadopago: decode create response: %w", err)
	}
	return &Charge{
		ExternalID: strconv.FormatInt(out.ID, 10),
		PixCode:    out.PointOfInteraction.TransactionData.QRCode,
		QRImageB64: out.PointOfInteraction.TransactionData.QRCodeBase64,
		Status:     mercadoPagoStatus(out.Status),
		ExpiresAt:  expiresAt,
	}, nil
}

func (p *MercadoPagoProvider) GetStatus(ctx context.Context, creds Credentials, externalID string) (*StatusResult, error) {
	status, body, err := doJSON(ctx, http.MethodGet, p.baseURL(creds)+"/v1/payments/"+externalID, p.headers(creds), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Provider: "mercadopago", StatusCode: status, Body: string(body)}
	}
	var out mercadoPagoPaymentResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("mercadopago: decode status response: %w", err)
	}
	result := &StatusResult{Status: mercadoPagoStatus(out.Status)}
	if out.DateApproved != "" {
		if t, err := time.Parse(time.RFC3339Nano, out.DateApproved); err == nil {
			result.PaidAt = &t
		}
	}
	return result, nil
}

// ParseMercadoPagoWebhook normalizes a Mercado Pago webhook notification.
// The payload names an updated payment but carries no final status, so the
// event is emitted as pending with RequiresPoll set. Non-payment topics and
// payloads without a payment id return nil.
func ParseMercadoPagoWebhook(body []byte) *WebhookEvent {
	var payload struct {
		Type   string `json:"type"`
		Action string `json:"action"`
		Data   struct {
			ID any `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if payload.Type != "payment" {
		return nil
	}
	var externalID string
	switch id := payload.Data.ID.(type) {
	case string:
		externalID = id
	case float64:
		externalID = strconv.FormatInt(int64(id), 10)
	}
	if externalID == "" {
		return nil
	}
	return &WebhookEvent{
		Provider:     "mercadopago",
		ExternalID:   externalID,
		Status:       StatusPending,
		RequiresPoll: true,
	}
}
