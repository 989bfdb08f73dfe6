package pix

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockProvider stands in when a tenant has no real gateway configured. It
// fabricates a deterministic-looking PIX payload without touching the
// network; settlement is simulated by the checkout orchestrator's delayed
// self-confirmation, not by this adapter.
type MockProvider struct{}

func (p *MockProvider) CreateCharge(ctx context.Context, creds Credentials, req ChargeRequest) (*Charge, error) {
	externalID := "mock_" + uuid.New().String()
	return &Charge{
		ExternalID: externalID,
		PixCode:    mockPixCode(externalID, req.AmountCents),
		Status:     StatusPending,
		ExpiresAt:  time.Now().Add(req.Expiration),
	}, nil
}

// GetStatus reports pending; the mock has no upstream state to consult and
// the paid transition arrives through the self-confirmation path.
func (p *MockProvider) GetStatus(ctx context.Context, creds Credentials, externalID string) (*StatusResult, error) {
	return &StatusResult{Status: StatusPending}, nil
}

// mockPixCode imitates the shape of a BR Code copy-and-paste payload closely
// enough for rendering tests. It is not a valid EMV payload.
func mockPixCode(externalID string, amountCents int64) string {
	return fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s520400005303986540%d.%02d5802BR6304MOCK",
		externalID, amountCents/100, amountCents%100)
}
