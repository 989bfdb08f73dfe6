package service

import (
	"context"
	"errors"
	"time"

	"pixgate/pkg/pix"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApplyResult reports what reconciliation did with an event. Applied is
// false for idempotent replays and rejected regressions, which are normal
// operation, not errors.
type ApplyResult struct {
	TransactionID string
	TenantID      uint
	Status        string
	Applied       bool
}

// Reconciler advances transaction state from normalized events. Webhook
// delivery, manual status refresh and the mock self-confirmation all funnel
// through Apply, so no path can double-apply or conflict: replays are no-ops
// and terminal states are monotonic.
type Reconciler struct {
	transactions TransactionStore
	gateways     GatewayStore
	providerFor  ProviderFunc
	log          *zap.Logger
}

func NewReconciler(transactions TransactionStore, gateways GatewayStore, providerFor ProviderFunc, log *zap.Logger) *Reconciler {
	return &Reconciler{transactions: transactions, gateways: gateways, providerFor: providerFor, log: log}
}

func (r *Reconciler) Apply(ctx context.Context, evt pix.WebhookEvent) (ApplyResult, error) {
	tx, err := r.transactions.GetByExternalID(evt.ExternalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("event for unknown external id",
				zap.String("provider", evt.Provider),
				zap.String("external_id", evt.ExternalID))
			return ApplyResult{}, NewServiceError(ErrCodeTransactionNotFound, err)
		}
		return ApplyResult{}, NewServiceError(ErrCodeOperationFailed, err)
	}

	// Providers whose webhook carries no final status are polled before the
	// event is applied; the poll result replaces the placeholder status.
	if evt.RequiresPoll {
		polled, err := r.poll(ctx, tx.GatewayID, evt.ExternalID)
		if err != nil {
			return ApplyResult{}, err
		}
		evt.Status = polled.Status
		evt.PaidAt = polled.PaidAt
	}

	result := ApplyResult{TransactionID: tx.ID, TenantID: tx.TenantID, Status: tx.Status}

	if evt.Status == tx.Status {
		// Duplicate delivery or a poll that saw nothing new.
		return result, nil
	}
	if pix.IsTerminal(tx.Status) {
		// Terminal states never transition again; a late or conflicting
		// signal is logged and dropped, not surfaced to the provider.
		r.log.Warn("rejected state regression",
			zap.String("transaction_id", tx.ID),
			zap.String("current", tx.Status),
			zap.String("incoming", evt.Status))
		return result, nil
	}

	var paidAt *time.Time
	if evt.Status == pix.StatusPaid {
		paidAt = evt.PaidAt
		if paidAt == nil {
			now := time.Now()
			paidAt = &now
		}
	}

	updated, err := r.transactions.UpdateStatusIf(tx.ID, tx.Status, evt.Status, paidAt)
	if err != nil {
		return ApplyResult{}, NewServiceError(ErrCodeOperationFailed, err)
	}
	if !updated {
		// A concurrent writer moved the transaction first. Re-read and
		// report the state that won; monotonicity already held at the store.
		current, err := r.transactions.GetByID(tx.ID)
		if err != nil {
			return ApplyResult{}, NewServiceError(ErrCodeOperationFailed, err)
		}
		r.log.Info("event lost update race, keeping stored status",
			zap.String("transaction_id", tx.ID),
			zap.String("stored", current.Status),
			zap.String("incoming", evt.Status))
		result.Status = current.Status
		return result, nil
	}

	r.log.Info("transaction status advanced",
		zap.String("transaction_id", tx.ID),
		zap.Uint("tenant_id", tx.TenantID),
		zap.String("from", tx.Status),
		zap.String("to", evt.Status),
		zap.String("provider", evt.Provider))
	result.Status = evt.Status
	result.Applied = true
	return result, nil
}

// Refresh polls the provider for a transaction's current status and applies
// the answer through the same state machine as webhooks.
func (r *Reconciler) Refresh(ctx context.Context, transactionID string) (ApplyResult, error) {
	tx, err := r.transactions.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApplyResult{}, NewServiceError(ErrCodeTransactionNotFound, err)
		}
		return ApplyResult{}, NewServiceError(ErrCodeOperationFailed, err)
	}
	if tx.ExternalID == "" {
		return ApplyResult{}, NewServiceError(ErrCodeMissingExternalID, errors.New("transaction has no external id"))
	}
	gw, err := r.gateways.GetByID(tx.GatewayID)
	if err != nil {
		return ApplyResult{}, NewServiceError(ErrCodeOperationFailed, err)
	}
	provider, err := r.providerFor(gw.Provider)
	if err != nil {
		return ApplyResult{}, NewServiceError(ErrCodeOperationFailed, err)
	}
	polled, err := provider.GetStatus(ctx, gw.CredentialMap(), tx.ExternalID)
	if err != nil {
		return ApplyResult{}, mapProviderError(err)
	}
	return r.Apply(ctx, pix.WebhookEvent{
		Provider:   gw.Provider,
		ExternalID: tx.ExternalID,
		Status:     polled.Status,
		PaidAt:     polled.PaidAt,
	})
}

func (r *Reconciler) poll(ctx context.Context, gatewayID uint, externalID string) (*pix.StatusResult, error) {
	gw, err := r.gateways.GetByID(gatewayID)
	if err != nil {
		return nil, NewServiceError(ErrCodeOperationFailed, err)
	}
	provider, err := r.providerFor(gw.Provider)
	if err != nil {
		return nil, NewServiceError(ErrCodeOperationFailed, err)
	}
	result, err := provider.GetStatus(ctx, gw.CredentialMap(), externalID)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return result, nil
}
