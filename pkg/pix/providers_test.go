package pix

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMercadoPagoCreateCharge(t *testing.T) {
	var gotIdempotency, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payments", r.URL.Path)
		gotIdempotency = r.Header.Get("X-Idempotency-Key")
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": 4242,
			"status": "pending",
			"point_of_interaction": {"transaction_data": {"qr_code": "br.gov.bcb.pix-payload", "qr_code_base64": "aW1n"}}
		}`))
	}))
	defer srv.Close()

	p := &MercadoPagoProvider{}
	creds := Credentials{"access_token": "tok_mp", "base_url": srv.URL}
	charge, err := p.CreateCharge(context.Background(), creds, ChargeRequest{
		AmountCents:    123456,
		Description:    "order 9",
		CorrelationRef: "tx-abc",
		Expiration:     30 * time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, "tx-abc", gotIdempotency)
	assert.Equal(t, "Bearer tok_mp", gotAuth)
	assert.Equal(t, 1234.56, gotBody["transaction_amount"])
	assert.Equal(t, "tx-abc", gotBody["external_reference"])
	assert.Equal(t, "pix", gotBody["payment_method_id"])

	assert.Equal(t, "4242", charge.ExternalID)
	assert.Equal(t, StatusPending, charge.Status)
	assert.Equal(t, "br.gov.bcb.pix-payload", charge.PixCode)
	assert.Equal(t, "aW1n", charge.QRImageB64)
}

func TestMercadoPagoGetStatusPaid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/4242", r.URL.Path)
		w.Write([]byte(`{"id": 4242, "status": "approved", "date_approved": "2026-08-29T10:30:00.000-03:00"}`))
	}))
	defer srv.Close()

	p := &MercadoPagoProvider{}
	result, err := p.GetStatus(context.Background(), Credentials{"base_url": srv.URL}, "4242")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, result.Status)
	require.NotNil(t, result.PaidAt)
}

func TestMercadoPagoUpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid access token"}`))
	}))
	defer srv.Close()

	p := &MercadoPagoProvider{}
	_, err := p.CreateCharge(context.Background(), Credentials{"base_url": srv.URL}, ChargeRequest{AmountCents: 100})
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "mercadopago", upstream.Provider)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
}

func TestPushinPayCreateChargeKeepsCentavos(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/pix/cashIn", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id": "9c7d", "status": "created", "qr_code": "payload", "qr_code_base64": "aW1n"}`))
	}))
	defer srv.Close()

	p := &PushinPayProvider{}
	creds := Credentials{"token": "tok", "base_url": srv.URL, "webhook_url": "https://pay.example.com/api/v1/webhooks/pushinpay"}
	charge, err := p.CreateCharge(context.Background(), creds, ChargeRequest{AmountCents: 123456})
	require.NoError(t, err)

	// PushinPay speaks centavos already; no unit conversion happens.
	assert.Equal(t, float64(123456), gotBody["value"])
	assert.Equal(t, "https://pay.example.com/api/v1/webhooks/pushinpay", gotBody["webhook_url"])
	assert.Equal(t, "9c7d", charge.ExternalID)
	assert.Equal(t, StatusPending, charge.Status)
}

func TestAsaasCreateChargeFetchesQRCode(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		require.Equal(t, "key_asaas", r.Header.Get("access_token"))
		switch r.URL.Path {
		case "/payments":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "PIX", body["billingType"])
			assert.Equal(t, 25.9, body["value"])
			assert.Equal(t, "tx-asaas", body["externalReference"])
			w.Write([]byte(`{"id": "pay_77", "status": "PENDING"}`))
		case "/payments/pay_77/pixQrCode":
			w.Write([]byte(`{"encodedImage": "aW1n", "payload": "br.gov.bcb.pix-payload"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := &AsaasProvider{}
	creds := Credentials{"api_key": "key_asaas", "base_url": srv.URL}
	charge, err := p.CreateCharge(context.Background(), creds, ChargeRequest{
		AmountCents:    2590,
		CorrelationRef: "tx-asaas",
		Expiration:     time.Hour,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"/payments", "/payments/pay_77/pixQrCode"}, paths)
	assert.Equal(t, "pay_77", charge.ExternalID)
	assert.Equal(t, "br.gov.bcb.pix-payload", charge.PixCode)
	assert.Equal(t, "aW1n", charge.QRImageB64)
	assert.Equal(t, StatusPending, charge.Status)
}

func TestAsaasGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/pay_77", r.URL.Path)
		w.Write([]byte(`{"id": "pay_77", "status": "CONFIRMED", "paymentDate": "2026-08-29"}`))
	}))
	defer srv.Close()

	p := &AsaasProvider{}
	result, err := p.GetStatus(context.Background(), Credentials{"base_url": srv.URL}, "pay_77")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, result.Status)
	require.NotNil(t, result.PaidAt)
}
