package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// Normalized charge statuses. Adapters translate each provider's vocabulary
// into this set; unknown provider statuses map to StatusPending because the
// system never assumes success on ambiguity.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusRefunded  = "refunded"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// IsTerminal reports whether no further transition is permitted from status.
func IsTerminal(status string) bool {
	switch status {
	case StatusPaid, StatusRefunded, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// callTimeout bounds every outbound provider call.
const callTimeout = 5 * time.Second

var httpClient = &http.Client{Timeout: callTimeout}

// Credentials is a gateway's opaque credential map. Keys are
// provider-specific ("access_token", "api_key", ...); "base_url" overrides
// the provider endpoint, which the tests use.
type Credentials map[string]string

// Payer identifies who is paying, when the provider wants to know.
type Payer struct {
	Name     string
	Email    string
	Document string // CPF/CNPJ digits
}

// ChargeRequest is the provider-agnostic create-charge input. AmountCents is
// integer minor units; adapters convert to provider-native units at the
// boundary. CorrelationRef is the internal transaction id and is sent as the
// provider's idempotency key or external reference wherever supported, so a
// retried create does not open a duplicate charge upstream.
type ChargeRequest struct {
	AmountCents    int64
	Description    string
	CorrelationRef string
	Expiration     time.Duration
	Payer          *Payer
}

// Charge is the normalized outcome of a successful create-charge call.
type Charge struct {
	ExternalID string
	PixCode    string
	QRImageB64 string
	Status     string
	ExpiresAt  time.Time
}

// StatusResult is the normalized outcome of a status poll.
type StatusResult struct {
	Status string
	PaidAt *time.Time
}

// Provider creates PIX charges and reads their status for one upstream
// payment provider. Implementations never panic past this boundary and never
// return a partially populated Charge on error.
type Provider interface {
	CreateCharge(ctx context.Context, creds Credentials, req ChargeRequest) (*Charge, error)
	GetStatus(ctx context.Context, creds Credentials, externalID string) (*StatusResult, error)
}

// providers is the closed dispatch set. Adding a provider means one adapter
// plus one entry here; call sites stay untouched.
var providers = map[string]Provider{
	"mercadopago": &MercadoPagoProvider{},
	"pushinpay":   &PushinPayProvider{},
	"asaas":       &AsaasProvider{},
	"stripe":      &unsupportedProvider{name: "stripe"},
	"mock":        &MockProvider{},
}

// ForProvider resolves the adapter for a provider identifier.
func ForProvider(name string) (Provider, error) {
	p, ok := providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}

// majorUnits converts integer minor units to the major-unit decimal some
// providers expect. Two decimal places survive the float round-trip exactly.
func majorUnits(cents int64) float64 {
	return float64(cents) / 100
}

// doJSON performs one bounded provider call and hands back status code and
// raw body. Transport timeouts come back as ErrTimeout.
func doJSON(ctx context.Context, method, url string, headers map[string]string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(buf)
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, wrapTransportErr(err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, wrapTransportErr(err)
	}
	return resp.StatusCode, respBody, nil
}

// unsupportedProvider answers for providers that cannot issue PIX charges.
// It never makes a network call.
type unsupportedProvider struct {
	name string
}

func (p *unsupportedProvider) CreateCharge(ctx context.Context, creds Credentials, req ChargeRequest) (*Charge, error) {
	return nil, ErrUnsupported
}

func (p *unsupportedProvider) GetStatus(ctx context.Context, creds Credentials, externalID string) (*StatusResult, error) {
	return nil, ErrUnsupported
}
