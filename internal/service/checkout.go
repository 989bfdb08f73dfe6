package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pixgate/internal/domain"
	"pixgate/internal/models"
	"pixgate/pkg/pix"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutCommand is a payment intent. Exactly one of PlanID / AmountCents
// determines the price; PlanID wins when both are set.
type CheckoutCommand struct {
	TenantID          uint
	CustomerID        string
	PlanID            *uint
	AmountCents       int64
	Description       string
	GatewayID         *uint
	ExpirationMinutes int
	Payer             *pix.Payer
}

// PaymentArtifact is what the caller renders to the payer.
type PaymentArtifact struct {
	TransactionID string     `json:"transaction_id"`
	ExternalID    string     `json:"external_id"`
	PixCode       string     `json:"pix_code"`
	QRImageB64    string     `json:"qr_image_b64,omitempty"`
	AmountCents   int64      `json:"amount_cents"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type CheckoutService interface {
	Checkout(ctx context.Context, cmd CheckoutCommand) (PaymentArtifact, error)
}

type checkoutService struct {
	registry     *GatewayRegistry
	plans        PlanStore
	transactions TransactionStore
	reconciler   *Reconciler
	providerFor  ProviderFunc
	mockDelay    time.Duration
	webhookBase  string
	log          *zap.Logger
}

func NewCheckoutService(registry *GatewayRegistry, plans PlanStore, transactions TransactionStore,
	reconciler *Reconciler, providerFor ProviderFunc, mockDelay time.Duration, webhookBase string,
	log *zap.Logger) CheckoutService {
	return &checkoutService{
		registry:     registry,
		plans:        plans,
		transactions: transactions,
		reconciler:   reconciler,
		providerFor:  providerFor,
		mockDelay:    mockDelay,
		webhookBase:  webhookBase,
		log:          log,
	}
}

// Checkout turns a payment intent into a stored pending transaction plus a
// renderable PIX artifact. The provider is called before anything is
// persisted: a failed create leaves no partial row behind.
func (s *checkoutService) Checkout(ctx context.Context, cmd CheckoutCommand) (PaymentArtifact, error) {
	gw, err := s.registry.Resolve(cmd.TenantID, cmd.GatewayID)
	if err != nil {
		return PaymentArtifact{}, err
	}

	amount := cmd.AmountCents
	description := cmd.Description
	currency := domain.DefaultCurrency
	if cmd.PlanID != nil {
		plan, err := s.plans.GetByID(cmd.TenantID, *cmd.PlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return PaymentArtifact{}, NewServiceError(ErrCodePlanNotFound, err)
			}
			return PaymentArtifact{}, NewServiceError(ErrCodeOperationFailed, err)
		}
		amount = plan.PriceCents
		if description == "" {
			description = plan.Name
		}
		if plan.Currency != "" {
			currency = plan.Currency
		}
	}
	if amount <= 0 {
		return PaymentArtifact{}, NewServiceError(ErrCodeInvalidAmount, errors.New("amount must be positive"))
	}

	expiration := time.Duration(cmd.ExpirationMinutes) * time.Minute
	if cmd.ExpirationMinutes <= 0 {
		expiration = domain.DefaultExpirationMinutes * time.Minute
	}

	// The internal id is minted before the provider call so it can travel
	// upstream as the idempotency/correlation reference.
	txID := uuid.New().String()

	provider, err := s.providerFor(gw.Provider)
	if err != nil {
		return PaymentArtifact{}, NewServiceError(ErrCodeOperationFailed, err)
	}
	creds := gw.CredentialMap()
	if creds["webhook_url"] == "" && s.webhookBase != "" {
		creds["webhook_url"] = strings.TrimRight(s.webhookBase, "/") + "/api/v1/webhooks/" + gw.Provider
	}
	charge, err := provider.CreateCharge(ctx, creds, pix.ChargeRequest{
		AmountCents:    amount,
		Description:    description,
		CorrelationRef: txID,
		Expiration:     expiration,
		Payer:          cmd.Payer,
	})
	if err != nil {
		s.log.Error("provider create charge failed",
			zap.String("provider", gw.Provider),
			zap.Uint("tenant_id", cmd.TenantID),
			zap.Error(err))
		return PaymentArtifact{}, mapProviderError(err)
	}

	expiresAt := charge.ExpiresAt
	tx := &models.Transaction{
		ID:          txID,
		TenantID:    cmd.TenantID,
		CustomerID:  cmd.CustomerID,
		GatewayID:   gw.ID,
		PlanID:      cmd.PlanID,
		AmountCents: amount,
		Currency:    currency,
		Method:      domain.PaymentMethodPix,
		Status:      pix.StatusPending,
		ExternalID:  charge.ExternalID,
		PixCode:     charge.PixCode,
		QRImageB64:  charge.QRImageB64,
		ExpiresAt:   &expiresAt,
	}
	if err := s.transactions.Create(tx); err != nil {
		return PaymentArtifact{}, NewServiceError(ErrCodeOperationFailed, err)
	}

	s.log.Info("checkout created",
		zap.String("transaction_id", txID),
		zap.Uint("tenant_id", cmd.TenantID),
		zap.String("provider", gw.Provider),
		zap.String("external_id", charge.ExternalID),
		zap.Int64("amount_cents", amount))

	if gw.IsMock {
		s.scheduleMockConfirm(charge.ExternalID)
	}

	return PaymentArtifact{
		TransactionID: txID,
		ExternalID:    charge.ExternalID,
		PixCode:       charge.PixCode,
		QRImageB64:    charge.QRImageB64,
		AmountCents:   amount,
		Currency:      currency,
		Status:        tx.Status,
		ExpiresAt:     tx.ExpiresAt,
	}, nil
}

// scheduleMockConfirm simulates provider settlement for the mock gateway:
// after the configured delay a paid event goes through the same reconciler
// as real webhooks, so it cannot double-fire against one that already
// arrived. Fire-and-forget; the task does not survive a restart, which is
// acceptable for a test-only path.
func (s *checkoutService) scheduleMockConfirm(externalID string) {
	go func() {
		time.Sleep(s.mockDelay)
		_, err := s.reconciler.Apply(context.Background(), pix.WebhookEvent{
			Provider:   domain.ProviderMock,
			ExternalID: externalID,
			Status:     pix.StatusPaid,
		})
		if err != nil {
			s.log.Warn("mock self-confirmation failed",
				zap.String("external_id", externalID),
				zap.Error(err))
		}
	}()
}
