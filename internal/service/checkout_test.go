package service

import (
	"context"
	"testing"
	"time"

	"pixgate/internal/mocks"
	"pixgate/internal/models"
	"pixgate/pkg/pix"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	txStore  *mocks.TransactionStore
	gwStore  *mocks.GatewayStore
	plans    *mocks.PlanStore
	provider *mocks.Provider
	svc      CheckoutService
}

func newCheckoutFixture(t *testing.T, mockDelay time.Duration) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		txStore:  new(mocks.TransactionStore),
		gwStore:  new(mocks.GatewayStore),
		plans:    new(mocks.PlanStore),
		provider: new(mocks.Provider),
	}
	log := zap.NewNop()
	registry := NewGatewayRegistry(f.gwStore, log)
	providerFor := func(name string) (pix.Provider, error) { return f.provider, nil }
	reconciler := NewReconciler(f.txStore, f.gwStore, providerFor, log)
	f.svc = NewCheckoutService(registry, f.plans, f.txStore, reconciler, providerFor, mockDelay, "https://pay.example.com", log)
	return f
}

func (f *checkoutFixture) withDefaultGateway(provider string) *models.Gateway {
	gw := &models.Gateway{ID: 3, TenantID: 1, Provider: provider, IsDefault: true, IsActive: true}
	f.gwStore.On("DefaultForTenant", uint(1)).Return(gw, nil)
	return gw
}

func TestCheckoutSuccess(t *testing.T) {
	f := newCheckoutFixture(t, 0)
	f.withDefaultGateway("pushinpay")

	f.provider.On("CreateCharge", mock.Anything, mock.Anything, mock.MatchedBy(func(req pix.ChargeRequest) bool {
		return req.AmountCents == 2590 && req.CorrelationRef != ""
	})).Return(&pix.Charge{
		ExternalID: "ext_1",
		PixCode:    "br.gov.bcb.pix-payload",
		Status:     pix.StatusPending,
		ExpiresAt:  time.Now().Add(30 * time.Minute),
	}, nil)
	f.txStore.On("Create", mock.AnythingOfType("*models.Transaction")).Return(nil)

	artifact, err := f.svc.Checkout(context.Background(), CheckoutCommand{
		TenantID:    1,
		AmountCents: 2590,
		Description: "order 9",
	})
	require.NoError(t, err)

	assert.Equal(t, pix.StatusPending, artifact.Status)
	assert.Equal(t, "ext_1", artifact.ExternalID)
	assert.Equal(t, "br.gov.bcb.pix-payload", artifact.PixCode)
	assert.Equal(t, int64(2590), artifact.AmountCents)
	assert.Equal(t, "BRL", artifact.Currency)

	// The internal id is minted before the provider call and reused as the
	// correlation reference.
	_, err = uuid.Parse(artifact.TransactionID)
	require.NoError(t, err)
	chargeReq := f.provider.Calls[0].Arguments.Get(2).(pix.ChargeRequest)
	assert.Equal(t, artifact.TransactionID, chargeReq.CorrelationRef)

	// Gateways without an explicit callback URL get the public one.
	chargeCreds := f.provider.Calls[0].Arguments.Get(1).(pix.Credentials)
	assert.Equal(t, "https://pay.example.com/api/v1/webhooks/pushinpay", chargeCreds["webhook_url"])

	stored := f.txStore.Calls[0].Arguments.Get(0).(*models.Transaction)
	assert.Equal(t, artifact.TransactionID, stored.ID)
	assert.Equal(t, pix.StatusPending, stored.Status)
	assert.Equal(t, uint(3), stored.GatewayID)
}

func TestCheckoutUsesPlanPrice(t *testing.T) {
	f := newCheckoutFixture(t, 0)
	f.withDefaultGateway("pushinpay")

	planID := uint(11)
	f.plans.On("GetByID", uint(1), planID).Return(&models.Plan{
		ID: 11, TenantID: 1, Name: "premium", PriceCents: 9900, Currency: "BRL",
	}, nil)
	f.provider.On("CreateCharge", mock.Anything, mock.Anything, mock.MatchedBy(func(req pix.ChargeRequest) bool {
		return req.AmountCents == 9900 && req.Description == "premium"
	})).Return(&pix.Charge{ExternalID: "ext_2", Status: pix.StatusPending}, nil)
	f.txStore.On("Create", mock.AnythingOfType("*models.Transaction")).Return(nil)

	artifact, err := f.svc.Checkout(context.Background(), CheckoutCommand{
		TenantID:    1,
		PlanID:      &planID,
		AmountCents: 1, // ignored, the plan price wins
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9900), artifact.AmountCents)
}

func TestCheckoutPlanNotFound(t *testing.T) {
	f := newCheckoutFixture(t, 0)
	f.withDefaultGateway("pushinpay")

	planID := uint(99)
	f.plans.On("GetByID", uint(1), planID).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Checkout(context.Background(), CheckoutCommand{TenantID: 1, PlanID: &planID})
	var svcErr Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodePlanNotFound, svcErr.Code)
	f.txStore.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCheckoutRejectsNonPositiveAmount(t *testing.T) {
	f := newCheckoutFixture(t, 0)
	f.withDefaultGateway("pushinpay")

	_, err := f.svc.Checkout(context.Background(), CheckoutCommand{TenantID: 1, AmountCents: 0})
	var svcErr Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeInvalidAmount, svcErr.Code)
	f.provider.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything, mock.Anything)
	f.txStore.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCheckoutProviderFailureLeavesNoRow(t *testing.T) {
	f := newCheckoutFixture(t, 0)
	f.withDefaultGateway("pushinpay")

	f.provider.On("CreateCharge", mock.Anything, mock.Anything, mock.Anything).Return(nil, pix.ErrTimeout)

	_, err := f.svc.Checkout(context.Background(), CheckoutCommand{TenantID: 1, AmountCents: 2590})
	var svcErr Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeProviderTimeout, svcErr.Code)
	f.txStore.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCheckoutUnsupportedProvider(t *testing.T) {
	f := newCheckoutFixture(t, 0)
	f.withDefaultGateway("stripe")

	f.provider.On("CreateCharge", mock.Anything, mock.Anything, mock.Anything).Return(nil, pix.ErrUnsupported)

	_, err := f.svc.Checkout(context.Background(), CheckoutCommand{TenantID: 1, AmountCents: 2590})
	var svcErr Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, ErrCodeProviderUnsupported, svcErr.Code)
	f.txStore.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCheckoutMockGatewaySelfConfirms(t *testing.T) {
	f := newCheckoutFixture(t, 10*time.Millisecond)

	f.gwStore.On("DefaultForTenant", uint(1)).Return(nil, gorm.ErrRecordNotFound)
	f.gwStore.On("FirstActiveForTenant", uint(1)).Return(nil, gorm.ErrRecordNotFound)
	f.gwStore.On("EnsureMock", uint(1)).Return(&models.Gateway{
		ID: 9, TenantID: 1, Provider: "mock", IsMock: true, IsActive: true,
	}, nil)

	f.provider.On("CreateCharge", mock.Anything, mock.Anything, mock.Anything).Return(&pix.Charge{
		ExternalID: "mock_ext",
		PixCode:    "mock-payload",
		Status:     pix.StatusPending,
	}, nil)
	f.txStore.On("Create", mock.AnythingOfType("*models.Transaction")).Return(nil)

	confirmed := make(chan struct{})
	f.txStore.On("GetByExternalID", "mock_ext").Return(&models.Transaction{
		ID: "tx_mock", TenantID: 1, GatewayID: 9, Status: pix.StatusPending, ExternalID: "mock_ext",
	}, nil)
	f.txStore.On("UpdateStatusIf", "tx_mock", pix.StatusPending, pix.StatusPaid, mock.AnythingOfType("*time.Time")).
		Run(func(args mock.Arguments) { close(confirmed) }).
		Return(true, nil)

	artifact, err := f.svc.Checkout(context.Background(), CheckoutCommand{TenantID: 1, AmountCents: 2590})
	require.NoError(t, err)
	assert.Equal(t, pix.StatusPending, artifact.Status)

	select {
	case <-confirmed:
	case <-time.After(2 * time.Second):
		t.Fatal("mock gateway never self-confirmed")
	}
}
